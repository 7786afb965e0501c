package habits

import (
	"fmt"
	"strings"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit (runs the feasibility check)."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Today    HabitTodayCmd    `cmd:"" help:"Show habits due today."`
	Show     HabitShowCmd     `cmd:"" help:"Show one habit."`
	Progress HabitProgressCmd `cmd:"" help:"Record progress towards today's target."`
	Tap      HabitTapCmd      `cmd:"" help:"Add one completion, or reset once the target is reached."`
	Status   HabitStatusCmd   `cmd:"" help:"Set a habit's status explicitly."`
	Pause    HabitPauseCmd    `cmd:"" help:"Pause a habit; its streak is frozen."`
	Resume   HabitResumeCmd   `cmd:"" help:"Resume a paused habit."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit (soft delete)."`
	Restore  HabitRestoreCmd  `cmd:"" help:"Restore a deleted habit."`
	History  HabitHistoryCmd  `cmd:"" help:"Show habit history (ASCII log)."`
}

// DraftFlags are the editable habit fields shared by add and check.
type DraftFlags struct {
	Title    string `arg:"" help:"Habit title."`
	Target   int    `help:"Completions required per day." default:"1"`
	Days     string `help:"Comma-separated weekdays (e.g. mon,wed,fri). Empty means every day." default:""`
	Reminder string `help:"Reminder time (HH:MM)." default:""`
	Category string `help:"Category (health, fitness, productivity, education, wellness, relationships)." default:""`
	Icon     string `help:"Icon shown next to the title." default:""`
	Notes    string `help:"Free-form notes." default:""`
	Public   bool   `help:"Mark the habit as public."`
}

func (f DraftFlags) draft() (models.HabitDraft, error) {
	days, err := models.ParseWeekdays(f.Days)
	if err != nil {
		return models.HabitDraft{}, err
	}
	return models.HabitDraft{
		Title:          f.Title,
		Icon:           f.Icon,
		Category:       f.Category,
		TargetCount:    f.Target,
		RecurrenceDays: days,
		ReminderTime:   f.Reminder,
		IsPublic:       f.Public,
		Notes:          f.Notes,
	}, nil
}

type HabitListCmd struct {
	Deleted bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	habits, err := ctx.Tracker.Habits(ctx.Ctx, ctx.UserID, c.Deleted)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}
	for _, h := range habits {
		fmt.Println(cli.HabitLine(h))
	}
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	habits, err := ctx.Tracker.Today(ctx.Ctx, ctx.UserID)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("Nothing scheduled today.")
		return nil
	}
	done := 0
	for _, h := range habits {
		if h.Status == constants.StatusComplete {
			done++
		}
		fmt.Println(cli.HabitLine(h))
	}
	fmt.Printf("\n%d/%d done\n", done, len(habits))
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit title or id."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", h.Icon, h.Title)
	fmt.Printf("  ID:        %s\n", h.ID)
	fmt.Printf("  Status:    %s (%d/%d today)\n", h.Status, h.CompletedToday, h.TargetCount)
	fmt.Printf("  Streak:    %d\n", h.Streak)
	fmt.Printf("  Schedule:  %s\n", models.FormatWeekdays(h.RecurrenceDays))
	if h.ReminderTime != "" {
		fmt.Printf("  Reminder:  %s\n", h.ReminderTime)
	}
	if h.Category != "" {
		fmt.Printf("  Category:  %s\n", h.Category)
	}
	if h.Notes != "" {
		fmt.Printf("  Notes:     %s\n", h.Notes)
	}
	return nil
}

type HabitProgressCmd struct {
	Habit string `arg:"" help:"Habit title or id."`
	By    int    `short:"n" help:"Completions to add; negative values undo." default:"1"`
}

func (c *HabitProgressCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	h, err = ctx.Tracker.Progress(ctx.Ctx, ctx.UserID, h.ID, c.By)
	if err != nil {
		return err
	}
	fmt.Println(cli.HabitLine(h))
	return nil
}

type HabitTapCmd struct {
	Habit string `arg:"" help:"Habit title or id."`
}

func (c *HabitTapCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	h, err = ctx.Tracker.Tap(ctx.Ctx, ctx.UserID, h.ID)
	if err != nil {
		return err
	}
	fmt.Println(cli.HabitLine(h))
	return nil
}

type HabitStatusCmd struct {
	Habit  string `arg:"" help:"Habit title or id."`
	Status string `arg:"" help:"complete, incomplete or paused."`
}

func (c *HabitStatusCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	status := constants.HabitStatus(strings.ToLower(c.Status))
	h, err = ctx.Tracker.SetStatus(ctx.Ctx, ctx.UserID, h.ID, status)
	if err != nil {
		return err
	}
	fmt.Println(cli.HabitLine(h))
	return nil
}

type HabitPauseCmd struct {
	Habit string `arg:"" help:"Habit title or id."`
}

func (c *HabitPauseCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if h, err = ctx.Tracker.Pause(ctx.Ctx, ctx.UserID, h.ID); err != nil {
		return err
	}
	fmt.Printf("Paused habit: %s\n", h.Title)
	return nil
}

type HabitResumeCmd struct {
	Habit string `arg:"" help:"Habit title or id."`
}

func (c *HabitResumeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if h, err = ctx.Tracker.Resume(ctx.Ctx, ctx.UserID, h.ID); err != nil {
		return err
	}
	fmt.Printf("Resumed habit: %s (%s)\n", h.Title, h.Status)
	return nil
}

type HabitEditCmd struct {
	Habit    string `arg:"" help:"Habit title or id."`
	Title    string `help:"New title."`
	Target   int    `help:"New daily target."`
	Days     string `help:"New weekdays; 'daily' for every day."`
	Reminder string `help:"New reminder time; 'none' to clear."`
	Category string `help:"New category; 'none' to clear."`
	Icon     string `help:"New icon."`
	Notes    string `help:"New notes."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	d := h.Draft()
	if c.Title != "" {
		d.Title = c.Title
	}
	if c.Target != 0 {
		d.TargetCount = c.Target
	}
	switch strings.ToLower(c.Days) {
	case "":
	case "daily":
		d.RecurrenceDays = nil
	default:
		if d.RecurrenceDays, err = models.ParseWeekdays(c.Days); err != nil {
			return err
		}
	}
	d.ReminderTime = clearable(c.Reminder, d.ReminderTime)
	d.Category = clearable(c.Category, d.Category)
	if c.Icon != "" {
		d.Icon = c.Icon
	}
	if c.Notes != "" {
		d.Notes = c.Notes
	}

	if h, err = ctx.Tracker.EditHabit(ctx.Ctx, ctx.UserID, h.ID, d); err != nil {
		return err
	}
	fmt.Println(cli.HabitLine(h))
	return nil
}

// clearable returns current for "", the empty string for "none" and v
// otherwise.
func clearable(v, current string) string {
	switch strings.ToLower(v) {
	case "":
		return current
	case "none":
		return ""
	default:
		return v
	}
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit title or id."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Tracker.DeleteHabit(ctx.Ctx, ctx.UserID, h.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", h.Title)
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit title or id."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.ResolveDeletedHabit(c.Habit)
	if err != nil {
		return err
	}
	if h, err = ctx.Tracker.RestoreHabit(ctx.Ctx, ctx.UserID, h.ID); err != nil {
		return err
	}
	fmt.Printf("Restored habit: %s\n", h.Title)
	return nil
}
