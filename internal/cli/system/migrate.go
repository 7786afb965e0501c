package system

import (
	"fmt"

	"github.com/orowoletimothy/vane/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Report the schema version without applying anything."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if c.Status {
		st, err := ctx.Store.SchemaStatus(ctx.Ctx)
		if err != nil {
			return err
		}
		if st.UpToDate() {
			fmt.Printf("Schema version %d (up to date)\n", st.Current)
		} else {
			fmt.Printf("Schema version %d, latest %d, %d migration(s) pending\n", st.Current, st.Latest, len(st.Pending))
		}
		return nil
	}

	count, err := ctx.Store.Migrate(ctx.Ctx, func(msg string) { fmt.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
