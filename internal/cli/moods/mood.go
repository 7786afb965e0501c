package moods

import (
	"fmt"
	"strings"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/validation"
)

type MoodCmd struct {
	Log     MoodLogCmd     `cmd:"" help:"Record today's mood check-in."`
	Today   MoodTodayCmd   `cmd:"" help:"Show today's check-in."`
	History MoodHistoryCmd `cmd:"" help:"Show recent check-ins."`
}

type MoodLogCmd struct {
	Mood       string `arg:"" help:"How you feel: great, good, okay, bad or awful."`
	Motivation int    `short:"m" help:"Motivation from 1 to 5." default:"3"`
	Note       string `help:"Optional note."`
}

func (c *MoodLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	m, err := ctx.Tracker.LogMood(ctx.Ctx, ctx.UserID, validation.MoodInput{
		Mood:       strings.ToLower(strings.TrimSpace(c.Mood)),
		Motivation: c.Motivation,
		Note:       c.Note,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Logged %s (motivation %d/5) for %s\n", m.Mood, m.Motivation, m.Day)
	return nil
}

type MoodTodayCmd struct{}

func (c *MoodTodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	m, err := ctx.Tracker.TodayMood(ctx.Ctx, ctx.UserID)
	if err != nil {
		if errors.IsNotFound(err) {
			fmt.Println("No check-in yet today.")
			return nil
		}
		return err
	}
	fmt.Printf("%s  %s  motivation %d/5\n", m.Day, m.Mood, m.Motivation)
	if m.Note != "" {
		fmt.Printf("  %s\n", m.Note)
	}
	return nil
}

type MoodHistoryCmd struct {
	Limit int `short:"n" help:"Number of check-ins to show." default:"14"`
}

func (c *MoodHistoryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	moods, err := ctx.Tracker.MoodHistory(ctx.Ctx, ctx.UserID, c.Limit)
	if err != nil {
		return err
	}
	if len(moods) == 0 {
		fmt.Println("No check-ins recorded.")
		return nil
	}
	for _, m := range moods {
		line := fmt.Sprintf("%s  %-6s %s", m.Day, m.Mood, strings.Repeat("*", m.Motivation))
		if m.Note != "" {
			line += "  " + m.Note
		}
		fmt.Println(line)
	}
	return nil
}
