package system

import (
	"fmt"
	"time"

	"github.com/orowoletimothy/vane/internal/backup"
	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/storage"
	"github.com/orowoletimothy/vane/internal/utils"
	"github.com/orowoletimothy/vane/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database cannot be opened.
	needsDB bool
	// warnOnly failures do not fail the command.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchema},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Habit integrity", needsDB: true, run: checkHabitIntegrity},
	{name: "User timezones", needsDB: true, run: checkUserTimezones},
	{name: "Clock", run: func(*cli.Context) error { return checkClock(time.Now()) }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	failed := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("FAIL  Database reachable\n      %v\n", err)
		failed = true
		dbReachable = false
	} else {
		fmt.Printf("OK    Database reachable\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("SKIP  %s (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("OK    %s\n", c.name)
		case c.warnOnly:
			fmt.Printf("WARN  %s\n      %v\n", c.name, err)
		default:
			fmt.Printf("FAIL  %s\n      %v\n", c.name, err)
			failed = true
		}
	}

	fmt.Println()
	if failed {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return ctx.Store.Ping(ctx.Ctx)
}

func checkSchema(ctx *cli.Context) error {
	st, err := ctx.Store.SchemaStatus(ctx.Ctx)
	if err != nil {
		return err
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d; run 'vane migrate'", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found; consider creating one with 'vane backup create'")
	}
	return nil
}

func checkHabitIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.Ctx, storage.HabitFilter{})
	if err != nil {
		return err
	}
	result := validation.New().ValidateHabits(habits)
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found\n%s", len(result.Conflicts), result.FormatReport())
	}
	return nil
}

func checkUserTimezones(ctx *cli.Context) error {
	ids, err := ctx.Store.ListUserIDs(ctx.Ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		u, err := ctx.Store.GetUser(ctx.Ctx, id)
		if err != nil {
			return err
		}
		if _, err := utils.LoadLocation(u.Timezone); err != nil {
			return fmt.Errorf("user %s has unknown timezone %q", id, u.Timezone)
		}
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
