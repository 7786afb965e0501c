package users

import (
	"fmt"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/validation"
)

type UserCmd struct {
	Show UserShowCmd `cmd:"" default:"1" help:"Show the current user's profile."`
	Set  UserSetCmd  `cmd:"" help:"Change timezone or vacation mode."`
}

type UserShowCmd struct{}

func (c *UserShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	u, err := ctx.Tracker.User(ctx.Ctx, ctx.UserID)
	if err != nil {
		return err
	}
	vacation := "off"
	if u.VacationMode {
		vacation = "on"
	}
	fmt.Printf("User:      %s\n", u.ID)
	fmt.Printf("Timezone:  %s\n", u.Timezone)
	fmt.Printf("Vacation:  %s\n", vacation)
	fmt.Printf("Joined:    %s\n", u.CreatedAt.Format(constants.DateFormat))
	return nil
}

type UserSetCmd struct {
	Timezone string `help:"IANA timezone name, e.g. Europe/Berlin, or Local."`
	Vacation string `enum:",on,off" default:"" help:"Vacation mode: on or off. Missed days on vacation keep streaks."`
}

func (c *UserSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	var in validation.UserSettingsInput
	if c.Timezone != "" {
		in.Timezone = &c.Timezone
	}
	if c.Vacation != "" {
		on := c.Vacation == "on"
		in.VacationMode = &on
	}
	if in.Timezone == nil && in.VacationMode == nil {
		fmt.Println("No changes specified. Use --timezone or --vacation.")
		return nil
	}

	u, err := ctx.Tracker.UpdateSettings(ctx.Ctx, ctx.UserID, in)
	if err != nil {
		return err
	}
	fmt.Printf("Settings updated for %s (timezone %s, vacation %v).\n", u.ID, u.Timezone, u.VacationMode)
	return nil
}
