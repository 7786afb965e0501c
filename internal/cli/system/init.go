package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/config"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initialization."`
	Source string `help:"Database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		return err
	}
	fmt.Printf("Initialized vane storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.SettingsPath != "" {
		if _, err := os.Stat(ctx.SettingsPath); os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(ctx.SettingsPath), 0700); err != nil {
				return fmt.Errorf("failed to create settings directory: %w", err)
			}
			if err := config.Write(ctx.SettingsPath, config.Default()); err != nil {
				return err
			}
			fmt.Printf("Wrote default settings to: %s\n", ctx.SettingsPath)
		}
	}

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		n, err := c.copyData(ctx)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Printf("Copied %d habit(s).\n", n)
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return fmt.Errorf("--force is only supported for SQLite databases")
	}
	dbPath, err := filepath.Abs(ctx.Store.GetConfigPath())
	if err != nil {
		return err
	}
	if c.Source != "" {
		if src, err := filepath.Abs(c.Source); err == nil && src == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyData moves every user with their habits, day records and moods from
// the source store into the freshly initialised one.
func (c *InitCmd) copyData(ctx *cli.Context) (int, error) {
	src, err := cli.OpenStore(c.Source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(ctx.Ctx); err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	userIDs, err := src.ListUserIDs(ctx.Ctx)
	if err != nil {
		return 0, err
	}
	copied := 0
	for _, id := range userIDs {
		u, err := src.GetUser(ctx.Ctx, id)
		if err != nil {
			return copied, err
		}
		if err := ctx.Store.SaveUser(ctx.Ctx, u); err != nil {
			return copied, err
		}

		habits, err := src.ListHabits(ctx.Ctx, storage.HabitFilter{UserID: id, IncludeDeleted: true})
		if err != nil {
			return copied, err
		}
		for _, h := range habits {
			if err := copyHabit(ctx, src, h); err != nil {
				return copied, err
			}
			copied++
		}

		moods, err := src.ListMoods(ctx.Ctx, id, maxCopiedMoods)
		if err != nil {
			return copied, err
		}
		for _, m := range moods {
			if _, err := ctx.Store.SaveMood(ctx.Ctx, m); err != nil {
				return copied, err
			}
		}
	}
	return copied, nil
}

const maxCopiedMoods = 1 << 20

func copyHabit(ctx *cli.Context, src storage.Provider, h models.Habit) error {
	if _, err := ctx.Store.AddHabit(ctx.Ctx, h); err != nil {
		return err
	}
	days, err := src.ListHabitDays(ctx.Ctx, h.ID, "0000-01-01", "9999-12-31")
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}
	return ctx.Store.SaveHabitDays(ctx.Ctx, days)
}
