package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestEntryRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	const connStr = "postgres://vane@localhost:5432/vane?sslmode=disable"
	if err := Connection.Set(connStr); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, err := Connection.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("Get() = %q, want %q", got, connStr)
	}

	if err := Connection.Delete(); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Connection.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
}

func TestEntriesAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	other := NewEntry("api-token")
	if err := other.Set("s3cret"); err != nil {
		t.Fatal(err)
	}
	if _, err := Connection.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("connection entry should be empty, got %v", err)
	}
	if other.Account() != "api-token" {
		t.Errorf("Account() = %q", other.Account())
	}
}

func TestSetRejectsBlank(t *testing.T) {
	gokeyring.MockInit()

	for _, secret := range []string{"", "   "} {
		if err := Connection.Set(secret); err == nil {
			t.Errorf("Set(%q) should fail", secret)
		}
	}
}

func TestDeleteMissing(t *testing.T) {
	gokeyring.MockInit()

	if err := NewEntry("never-set").Delete(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus not running"))
	t.Cleanup(gokeyring.MockInit)

	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
	if _, err := Connection.Get(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want ErrKeyringUnavailable", err)
	}
}

func TestAvailableWhenEmpty(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false for an empty mock keyring")
	}
}
