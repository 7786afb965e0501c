package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/cli/backups"
	"github.com/orowoletimothy/vane/internal/cli/habits"
	"github.com/orowoletimothy/vane/internal/cli/moods"
	"github.com/orowoletimothy/vane/internal/cli/system"
	"github.com/orowoletimothy/vane/internal/cli/users"
	"github.com/orowoletimothy/vane/internal/config"
	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/keyring"
	"github.com/orowoletimothy/vane/internal/logger"
	"github.com/orowoletimothy/vane/internal/storage"
	"github.com/orowoletimothy/vane/internal/storage/postgres"
	"github.com/orowoletimothy/vane/internal/tracker"
	"github.com/orowoletimothy/vane/internal/utils"
)

type CLI struct {
	Version    kong.VersionFlag `help:"Print the version and exit."`
	Config     string           `help:"Database file path or PostgreSQL connection string. PostgreSQL passwords must NOT be embedded; use the OS keyring, PGPASSWORD or .pgpass instead." env:"VANE_DB_CONNECTION" default:"${db_path}"`
	Settings   string           `help:"Settings file (TOML)." env:"VANE_SETTINGS" default:"${settings_path}"`
	UserID     string           `name:"user" help:"User profile to act as." env:"VANE_USER" default:"${user}"`
	Debug      bool             `help:"Log debug output to stderr."`
	UseKeyring bool             `help:"Read the PostgreSQL connection string from the OS keyring." env:"VANE_USE_KEYRING"`

	Init     system.InitCmd       `cmd:"" help:"Initialize vane storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Today    habits.HabitTodayCmd `cmd:"" help:"Show habits scheduled for today." default:"1"`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and record progress."`
	Check    habits.CheckCmd      `cmd:"" help:"Check whether a new habit fits your current load."`
	Rollover habits.RolloverCmd   `cmd:"" help:"Close finished days and update streaks."`
	Mood     moods.MoodCmd        `cmd:"" help:"Daily mood check-ins."`
	Profile  users.UserCmd        `cmd:"" name:"user" help:"Show or change profile settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage credentials in the OS keyring."`
	Serve    system.ServeCmd      `cmd:"" help:"Run the HTTP API."`
	Inspect  system.DebugCmd      `cmd:"" hidden:"" help:"Dump stored records as JSON for troubleshooting."`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var app CLI
	parser, err := kong.New(&app,
		kong.Name(constants.AppName),
		kong.Description("Habit ledger with a feasibility check for new commitments."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"db_path":       constants.DefaultConfigPath,
			"settings_path": constants.DefaultSettingsPath,
			"user":          constants.DefaultUserID,
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		var parseErr *kong.ParseError
		if stderrors.As(err, &parseErr) {
			_ = parseErr.Context.PrintUsage(true)
		}
		fmt.Fprintln(os.Stderr, errors.Format(err))
		return 1
	}

	if err := execute(kctx, &app); err != nil {
		logger.Error("Command execution failed", "command", kctx.Command(), "error", err)
		fmt.Fprintln(os.Stderr, errors.Format(err))
		return 1
	}
	return 0
}

func execute(kctx *kong.Context, app *CLI) error {
	settingsPath := utils.ExpandHome(app.Settings)

	cfg, err := config.Load(settingsPath)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Debug:     app.Debug || cfg.Log.Debug,
		ConfigDir: filepath.Dir(settingsPath),
		Stderr:    strings.HasPrefix(kctx.Command(), "serve"),
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := openStore(app)
	if err != nil {
		return err
	}
	defer store.Close()

	appCtx := &cli.Context{
		Ctx:          context.Background(),
		Store:        store,
		Tracker:      tracker.New(store, cfg),
		Config:       cfg,
		SettingsPath: settingsPath,
		UserID:       app.UserID,
	}
	logger.Debug("Running command", "command", kctx.Command(), "store", store.Driver(), "user", app.UserID)
	return kctx.Run(appCtx)
}

// openStore prefers a keyring connection string when --use-keyring is set.
// Keyring entries may hold a password since the keyring itself is encrypted.
func openStore(app *CLI) (storage.Provider, error) {
	if app.UseKeyring {
		conn, err := keyring.Connection.Get()
		switch {
		case err == nil:
			return postgres.New(conn), nil
		case stderrors.Is(err, keyring.ErrNotFound):
			logger.Debug("No connection string in keyring, using --config")
		default:
			return nil, err
		}
	}

	location := app.Config
	if !cli.IsPostgres(location) {
		location = utils.ExpandHome(location)
	}
	return cli.OpenStore(location)
}
