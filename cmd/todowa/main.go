package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/internal/config"
	"github.com/fastygo/todowa/internal/notify"
	"github.com/fastygo/todowa/pkg/clock"
	"github.com/fastygo/todowa/pkg/logger"
	boltRepo "github.com/fastygo/todowa/repository/bolt"
	"github.com/fastygo/todowa/repository/memory"
	taskUC "github.com/fastygo/todowa/usecase/task"
)

// cli carries what every command shares. Tests swap the clock and the writers.
type cli struct {
	v     *viper.Viper
	out   io.Writer
	errw  io.Writer
	clock clock.Clock
}

func main() {
	c := &cli{v: viper.New(), out: os.Stdout, errw: os.Stderr, clock: clock.Real{}}
	if err := newRootCmd(c).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "todowa",
		Short:         "Gamified to-do list",
		Long:          "todowa keeps a to-do list that pays out experience, levels and daily bonuses for finished tasks.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.SetErr(c.errw)

	c.v.SetEnvPrefix("TODOWA")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	flags := root.PersistentFlags()
	flags.String("data", defaultDataPath(), "bolt database file")
	flags.String("profile", "default", "profile id inside the database")
	flags.String("balance", "", "YAML file overriding levels and rewards")
	flags.Bool("json", false, "output JSON")
	flags.String("log-level", "warn", "log level")
	for _, name := range []string{"data", "profile", "balance", "json", "log-level"} {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		c.addCmd(),
		c.doneCmd(),
		c.undoCmd(),
		c.editCmd(),
		c.rmCmd(),
		c.listCmd(),
		c.todayCmd(),
		c.statsCmd(),
		c.xpCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.resetCmd(),
		c.themeCmd(),
		c.seedCmd(),
	)
	return root
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "todowa.db"
	}
	return filepath.Join(home, ".todowa", "todowa.db")
}

// withEngine opens the profile, runs fn and reports what happened to the player.
func (c *cli) withEngine(ctx context.Context, fn func(context.Context, *taskUC.Engine) error) error {
	log, err := logger.New(logger.Config{
		Level:    c.v.GetString("log-level"),
		Encoding: "console",
		Output:   c.errw,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	balance, err := config.LoadBalance(c.v.GetString("balance"))
	if err != nil {
		return err
	}

	db, err := boltRepo.Open(c.v.GetString("data"))
	if err != nil {
		return err
	}
	defer db.Close()

	profile := c.v.GetString("profile")
	events := &notify.Recorder{}
	engine := taskUC.New(
		memory.NewTaskStore(),
		boltRepo.NewSnapshotRepository(db, profile),
		notify.Fanout{events, notify.NewLogSink(log)},
		log.With(zap.String("profile", profile)),
		taskUC.WithLevels(balance.Levels),
		taskUC.WithRules(balance.Rules),
		taskUC.WithClock(c.clock),
	)
	if err := engine.Load(ctx); err != nil {
		return err
	}

	if err := fn(ctx, engine); err != nil {
		return err
	}
	if !c.v.GetBool("json") {
		c.printEvents(events.Events())
	}
	if engine.Dirty() {
		return errors.New("changes could not be saved")
	}
	return nil
}
