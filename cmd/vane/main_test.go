package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/orowoletimothy/vane/internal/constants"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"vane": main,
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(env *testscript.Env) error {
			env.Setenv("VANE_DB_CONNECTION", filepath.Join(env.WorkDir, "vane.db"))
			env.Setenv("VANE_SETTINGS", filepath.Join(env.WorkDir, "config.toml"))
			env.Setenv("VANE_USER", "local")
			home := filepath.Join(env.WorkDir, "home")
			env.Setenv("HOME", home)
			return os.MkdirAll(home, 0o755)
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"today": cmdToday,
		},
	})
}

// cmdToday stores today's UTC date, optionally shifted by N days, in an
// env var: today VAR [N].
func cmdToday(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("today does not support negation")
	}
	if len(args) < 1 || len(args) > 2 {
		ts.Fatalf("usage: today VAR [OFFSET_DAYS]")
	}
	offset := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			ts.Fatalf("invalid offset %q: %v", args[1], err)
		}
		offset = n
	}
	ts.Setenv(args[0], time.Now().UTC().AddDate(0, 0, offset).Format(constants.DateFormat))
}
