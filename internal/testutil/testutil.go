// Package testutil provides shared test helpers for setting up stores and clocks.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/folio/internal/kvs"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *kvs.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folio-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := kvs.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestKV returns the user and session tables of a fresh database.
func TestKV(t *testing.T, quota int64) (user, session *kvs.SQLite) {
	t.Helper()
	db := TestDB(t)
	user, err := db.Table("user_kv", quota)
	if err != nil {
		t.Fatal(err)
	}
	session, err = db.Table("session_kv", kvs.Unlimited)
	if err != nil {
		t.Fatal(err)
	}
	return user, session
}

// Clock returns a clock that advances one millisecond per call, starting at
// start, so generated identifiers stay distinct and predictable.
func Clock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}
