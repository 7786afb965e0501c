// Package cli holds state shared by the vane commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/orowoletimothy/vane/internal/backup"
	"github.com/orowoletimothy/vane/internal/config"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/logger"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/storage"
	"github.com/orowoletimothy/vane/internal/storage/postgres"
	"github.com/orowoletimothy/vane/internal/storage/sqlite"
	"github.com/orowoletimothy/vane/internal/tracker"
	"github.com/orowoletimothy/vane/internal/utils"
)

type Context struct {
	Ctx          context.Context
	Store        storage.Provider
	Tracker      *tracker.Service
	Config       *config.Config
	SettingsPath string
	UserID       string
}

// Load opens the store. Commands that read or write data call it first.
func (c *Context) Load() error {
	return c.Store.Load(c.Ctx)
}

// OpenStore picks the backend for location: a postgres:// URL or a SQLite
// file path. Connection URLs must not carry a password.
func OpenStore(location string) (storage.Provider, error) {
	if IsPostgres(location) {
		if postgres.HasEmbeddedCredentials(location) {
			return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed; " +
				"use 'vane keyring set', the PGPASSWORD environment variable or a .pgpass file instead")
		}
		return postgres.New(location), nil
	}
	return sqlite.NewStore(location), nil
}

// IsPostgres reports whether location is a PostgreSQL URL or key=value DSN.
func IsPostgres(location string) bool {
	return utils.IsPostgresURL(location) || strings.Contains(location, "host=")
}

// IsSQLite reports whether the store is a local database file.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup snapshots a SQLite database before a destructive
// command. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	if _, err := os.Stat(c.Store.GetConfigPath()); err != nil {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ConfigDir is where logs and backups live.
func (c *Context) ConfigDir() string {
	if c.IsSQLite() {
		return filepath.Dir(c.Store.GetConfigPath())
	}
	return filepath.Dir(c.SettingsPath)
}

// ResolveHabit finds one of the user's live habits by id, unique id prefix
// or case-insensitive title.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	habits, err := c.Tracker.Habits(c.Ctx, c.UserID, false)
	if err != nil {
		return models.Habit{}, err
	}
	return match(habits, ref)
}

// ResolveDeletedHabit is ResolveHabit over the user's deleted habits.
func (c *Context) ResolveDeletedHabit(ref string) (models.Habit, error) {
	habits, err := c.Tracker.Habits(c.Ctx, c.UserID, true)
	if err != nil {
		return models.Habit{}, err
	}
	deleted := habits[:0]
	for _, h := range habits {
		if h.IsDeleted() {
			deleted = append(deleted, h)
		}
	}
	return match(deleted, ref)
}

func match(habits []models.Habit, ref string) (models.Habit, error) {
	var matches []models.Habit
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
		if strings.EqualFold(h.Title, ref) || (len(ref) >= 4 && strings.HasPrefix(h.ID, ref)) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, errors.NotFound("habit", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%q matches %d habits; use the habit id", ref, len(matches))
	}
}
