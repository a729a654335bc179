package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastygo/todowa/domain"
	taskUC "github.com/fastygo/todowa/usecase/task"
)

type fieldFlags struct {
	description string
	category    string
	priority    string
	due         string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "description")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Personal, Work, Health, Study or Shopping")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Low, Medium or High")
	cmd.Flags().StringVar(&f.due, "due", "", "due date (YYYY-MM-DD, today, tomorrow or none)")
}

// apply overlays the flags the user actually set onto fields.
func (f *fieldFlags) apply(cmd *cobra.Command, fields domain.TaskFields, today domain.Date) (domain.TaskFields, error) {
	if cmd.Flags().Changed("desc") {
		fields.Description = f.description
	}
	if cmd.Flags().Changed("category") {
		fields.Category = domain.Category(f.category)
	}
	if cmd.Flags().Changed("priority") {
		priority, err := domain.ParsePriority(f.priority)
		if err != nil {
			return fields, err
		}
		fields.Priority = priority
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDue(f.due, today)
		if err != nil {
			return fields, err
		}
		fields.DueDate = due
	}
	return fields, nil
}

func parseDue(value string, today domain.Date) (*domain.Date, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return nil, nil
	case "today":
		return domain.DatePtr(today), nil
	case "tomorrow":
		return domain.DatePtr(today.AddDays(1)), nil
	}
	due, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

// resolveID accepts a full id or any unique prefix of one.
func resolveID(engine *taskUC.Engine, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", domain.Invalidf("task id must not be empty")
	}
	if _, err := engine.Get(ref); err == nil {
		return ref, nil
	}
	var match string
	for _, t := range engine.List(taskUC.Query{}) {
		if !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if match != "" {
			return "", domain.Invalidf("id prefix %q is ambiguous", ref)
		}
		match = t.ID
	}
	if match == "" {
		return "", domain.ErrTaskNotFound
	}
	return match, nil
}

func (c *cli) addCmd() *cobra.Command {
	var flags fieldFlags
	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				fields, err := flags.apply(cmd, domain.TaskFields{Title: strings.Join(args, " ")}, e.Today())
				if err != nil {
					return err
				}
				task, err := e.Create(ctx, fields)
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return c.printJSON(task)
				}
				fmt.Fprintf(c.out, "Added %s %s\n", shortID(task.ID), task.Title)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				id, err := resolveID(e, args[0])
				if err != nil {
					return err
				}
				task, err := e.Complete(ctx, id)
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return c.printJSON(task)
				}
				p := e.Progress()
				fmt.Fprintf(c.out, "Completed %s (%d XP)\n", task.Title, p.Experience)
				return nil
			})
		},
	}
}

func (c *cli) undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo ID",
		Short: "Reopen a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				id, err := resolveID(e, args[0])
				if err != nil {
					return err
				}
				task, err := e.Uncomplete(ctx, id)
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return c.printJSON(task)
				}
				fmt.Fprintf(c.out, "Reopened %s\n", task.Title)
				return nil
			})
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	var (
		flags fieldFlags
		title string
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				id, err := resolveID(e, args[0])
				if err != nil {
					return err
				}
				current, err := e.Get(id)
				if err != nil {
					return err
				}
				fields := domain.TaskFields{
					Title:       current.Title,
					Description: current.Description,
					Category:    current.Category,
					Priority:    current.Priority,
					DueDate:     current.DueDate,
				}
				if cmd.Flags().Changed("title") {
					fields.Title = title
				}
				if fields, err = flags.apply(cmd, fields, e.Today()); err != nil {
					return err
				}
				task, err := e.Edit(ctx, id, fields)
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return c.printJSON(task)
				}
				fmt.Fprintf(c.out, "Updated %s %s\n", shortID(task.ID), task.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	flags.register(cmd)
	return cmd
}

func (c *cli) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				id, err := resolveID(e, args[0])
				if err != nil {
					return err
				}
				if err := e.Delete(ctx, id); err != nil {
					return err
				}
				if !c.v.GetBool("json") {
					fmt.Fprintf(c.out, "Deleted %s\n", shortID(id))
				}
				return nil
			})
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var search, category, status, sort string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := taskUC.Query{Search: search}
			var err error
			if q.Sort, err = taskUC.ParseSortKey(sort); err != nil {
				return err
			}
			if q.Status, err = taskUC.ParseStatus(status); err != nil {
				return err
			}
			if category != "" {
				if q.Category, err = domain.ParseCategory(category); err != nil {
					return err
				}
			}
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				return c.printTasks(e.List(q), e.Today())
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title or description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category filter")
	cmd.Flags().StringVar(&status, "status", "all", "all, active or completed")
	cmd.Flags().StringVar(&sort, "sort", string(taskUC.SortDueDate), "dueDate, priority, category or createdAt")
	return cmd
}

func (c *cli) todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List tasks due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				return c.printTasks(e.DueToday(), e.Today())
			})
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show level, experience and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				return c.printStats(e.Stats())
			})
		},
	}
}

func (c *cli) xpCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "xp AMOUNT",
		Short: "Grant experience by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[0])
			if err != nil {
				return domain.Invalidf("amount %q is not a number", args[0])
			}
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				if err := e.AddExperience(ctx, amount, reason); err != nil {
					return err
				}
				return c.printStats(e.Stats())
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "manual", "note kept in the log")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full state as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				snapshot := e.Export()
				if snapshot.Tasks == nil {
					snapshot.Tasks = []domain.Task{}
				}
				if output == "" || output == "-" {
					return c.printJSON(snapshot)
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := writeJSON(f, snapshot); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Exported %d tasks to %s\n", len(snapshot.Tasks), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "", "file to write, stdout when empty")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a JSON export; sections missing from the file are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := domain.DecodeImport(f)
			if err != nil {
				return err
			}
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				if err := e.Import(ctx, doc); err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return c.printJSON(e.Stats())
				}
				fmt.Fprintf(c.out, "Imported, %d tasks on the board\n", e.Stats().TotalTasks)
				return nil
			})
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every task and all progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset wipes everything; pass --yes to confirm")
			}
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				if err := e.Reset(ctx); err != nil {
					return err
				}
				if !c.v.GetBool("json") {
					fmt.Fprintln(c.out, "All data cleared")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}

func (c *cli) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [NAME]",
		Short: "Switch to the next theme, or to NAME",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				var settings domain.Settings
				if len(args) == 1 {
					theme := domain.Theme(strings.ToLower(args[0]))
					var err error
					if settings, err = e.UpdateSettings(ctx, domain.SettingsPatch{Theme: &theme}); err != nil {
						return err
					}
				} else {
					settings = e.CycleTheme(ctx)
				}
				if c.v.GetBool("json") {
					return c.printJSON(settings)
				}
				fmt.Fprintf(c.out, "Theme: %s\n", settings.Theme)
				return nil
			})
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add sample tasks to an empty board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(ctx context.Context, e *taskUC.Engine) error {
				seeded, err := e.SeedSamples(ctx)
				if err != nil {
					return err
				}
				if !seeded {
					fmt.Fprintln(c.out, "Board is not empty, nothing seeded")
					return nil
				}
				return c.printTasks(e.List(taskUC.Query{}), e.Today())
			})
		},
	}
}
