package system

import (
	"encoding/json"
	"fmt"

	"github.com/orowoletimothy/vane/internal/cli"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit with its recent history as JSON."`
	DumpUser  DebugDumpUserCmd  `cmd:"" help:"Dump the current user's profile as JSON."`
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path":     ctx.Store.GetConfigPath(),
		"driver":   string(ctx.Store.Driver()),
		"settings": ctx.SettingsPath,
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit title or id."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	h, err := ctx.ResolveHabit(cmd.Habit)
	if err != nil {
		return err
	}
	stats, err := ctx.Tracker.History(ctx.Ctx, ctx.UserID, h.ID, 0)
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"habit":   h,
		"history": stats,
	})
}

type DebugDumpUserCmd struct{}

func (cmd *DebugDumpUserCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	u, err := ctx.Tracker.User(ctx.Ctx, ctx.UserID)
	if err != nil {
		return err
	}
	return printJSON(u)
}
