package testsupport

import (
	"context"
	"testing"

	"statforge/internal/config"
	"statforge/internal/store"
)

// MustOpenStore opens a session store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SaveSession persists a session for tests using the provided store.
func SaveSession(t testing.TB, st *store.Store, session store.Session) store.Session {
	t.Helper()

	saved, err := st.Save(context.Background(), session)
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return saved
}
