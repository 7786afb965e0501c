package habits

import (
	stderrors "errors"
	"fmt"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/tracker"
)

type HabitAddCmd struct {
	DraftFlags `embed:""`
	Force      bool `help:"Skip the feasibility check."`
	Yes        bool `short:"y" help:"Accept the habit even when the check reports an overload."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	draft, err := c.draft()
	if err != nil {
		return err
	}

	opts := tracker.CreateOptions{SkipFeasibilityCheck: c.Force, Override: c.Yes}
	if !c.Force {
		result, err := ctx.Tracker.Evaluate(ctx.Ctx, ctx.UserID, draft, c.Yes)
		if err != nil {
			return err
		}
		if !result.Feasible || len(result.Warnings) > 0 {
			fmt.Println(cli.RenderFeasibility(draft.Title, result))
		}
		if !result.Feasible {
			if !cli.Interactive() {
				return fmt.Errorf("habit not added: %w (use --yes to add it anyway)", errors.ErrNotFeasible)
			}
			ok, err := cli.Confirm("Add this habit anyway?", "Your current load is above the configured limits.")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Habit not added.")
				return nil
			}
			opts.Override = true
		}
	}

	h, _, err := ctx.Tracker.CreateHabit(ctx.Ctx, ctx.UserID, draft, opts)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFeasible) {
			return fmt.Errorf("habit not added: %w", err)
		}
		return err
	}
	fmt.Printf("Added habit: %s (%s)\n", h.Title, h.ID)
	return nil
}

// CheckCmd runs the feasibility check without creating anything.
type CheckCmd struct {
	DraftFlags `embed:""`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	draft, err := c.draft()
	if err != nil {
		return err
	}
	result, err := ctx.Tracker.Evaluate(ctx.Ctx, ctx.UserID, draft, false)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderFeasibility(draft.Title, result))
	return nil
}
