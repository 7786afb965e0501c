package utils

import (
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~/.config/vane/vane.db", filepath.Join(home, ".config/vane/vane.db")},
		{"~", home},
		{"/tmp/vane.db", "/tmp/vane.db"},
		{"~other/file", "~other/file"},
		{"postgres://localhost/vane", "postgres://localhost/vane"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPostgresURL(t *testing.T) {
	if !IsPostgresURL("postgresql://db/vane") || !IsPostgresURL("postgres://db/vane") {
		t.Error("expected postgres URLs to be detected")
	}
	if IsPostgresURL("/home/me/vane.db") {
		t.Error("file path detected as postgres URL")
	}
}
