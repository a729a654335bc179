package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/fastygo/todowa/domain"
	taskUC "github.com/fastygo/todowa/usecase/task"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printJSON(v any) error {
	return writeJSON(c.out, v)
}

func (c *cli) printTasks(tasks []domain.Task, today domain.Date) error {
	if c.v.GetBool("json") {
		if tasks == nil {
			tasks = []domain.Task{}
		}
		return c.printJSON(tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(c.out, "No tasks")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(c.out)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"ID", "", "Title", "Category", "Priority", "Due"})
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "✓"
		}
		due := ""
		switch {
		case t.DueDate == nil:
		case t.DueDate.Equal(today):
			due = text.FgYellow.Sprint("today")
		case t.DueDate.Before(today) && !t.Completed:
			due = text.FgRed.Sprint(t.DueDate.String())
		default:
			due = t.DueDate.String()
		}
		tw.AppendRow(table.Row{shortID(t.ID), mark, t.Title, t.Category, t.Priority, due})
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d tasks", len(tasks))})
	tw.Render()
	return nil
}

func (c *cli) printStats(s taskUC.Stats) error {
	if c.v.GetBool("json") {
		return c.printJSON(s)
	}
	next := "max level"
	if s.NextLevel != nil {
		next = fmt.Sprintf("%s %s at %d XP", s.NextLevel.Emoji, s.NextLevel.Title, s.NextLevel.Threshold)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(c.out)
	tw.SetStyle(table.StyleLight)
	tw.AppendRows([]table.Row{
		{"Level", fmt.Sprintf("%d %s %s", s.Level.Level, s.Level.Emoji, s.Level.Title)},
		{"Experience", fmt.Sprintf("%d XP (%.0f%% to next)", s.Experience, s.LevelProgress)},
		{"Next", next},
		{"Streak", fmt.Sprintf("%d days", s.Streak)},
		{"Tasks", fmt.Sprintf("%d active, %d done", s.ActiveTasks, s.CompletedTasks)},
		{"Today", fmt.Sprintf("%d due, %d completed", s.DueToday, s.CompletedToday)},
		{"All time", fmt.Sprintf("%d completed", s.TotalCompleted)},
	})
	tw.Render()
	return nil
}

func (c *cli) printEvents(events []domain.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case domain.EventLevelUp:
			if ev.Level != nil {
				fmt.Fprintf(c.out, "%s Level up! You are now %s\n", ev.Level.Emoji, ev.Level.Title)
			}
		case domain.EventDailyBonusAwarded:
			label := "Daily goal reached"
			if ev.Bonus == domain.BonusPerfectDay {
				label = "Perfect day"
			}
			fmt.Fprintf(c.out, "%s: +%d XP\n", label, ev.Amount)
		}
	}
}
