package database

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stockgrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAt(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(NewFileBackend(path))
	require.NoError(t, err)
	return store
}

func TestOpenSeedsFreshStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	store := openAt(t, path)

	store.View(func(snap *models.Snapshot) {
		assert.Equal(t, currentVersion, snap.Version)
		assert.Len(t, snap.GameSequence, 20)
		assert.NotNil(t, snap.News)
		assert.NotNil(t, snap.Tickets)

		require.Len(t, snap.Users, 1)
		admin := snap.Users[0]
		assert.Equal(t, "admin_main", admin.ID)
		assert.Equal(t, AdminMobile, admin.Mobile)
		assert.Equal(t, AdminPassword, admin.Password)
		assert.Equal(t, AdminReferral, admin.ReferralCode)
		assert.Equal(t, models.RoleAdmin, admin.Role)
		assert.Equal(t, int64(1000000), admin.Balance)
	})

	// The seed is persisted immediately.
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenMigratesVersionZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{"users":[{"id":"user_1","name":"Ali","mobile":"03001234567","balance":500,"plans":[],"transactions":[],"referralCode":"ABC123","role":"USER","_password":"secret123","createdAt":"2024-01-01T00:00:00Z"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store := openAt(t, path)

	store.View(func(snap *models.Snapshot) {
		assert.Equal(t, currentVersion, snap.Version)
		assert.Len(t, snap.GameSequence, 20)
		assert.NotNil(t, snap.News)
		assert.NotNil(t, snap.Tickets)

		// Existing data survives, admin is appended.
		require.Len(t, snap.Users, 2)
		assert.Equal(t, "user_1", snap.Users[0].ID)
		assert.Equal(t, int64(500), snap.Users[0].Balance)
		assert.Equal(t, AdminMobile, snap.Users[1].Mobile)
	})
}

func TestOpenCorrectsDriftedAdmin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	doc := models.Snapshot{
		Version: currentVersion,
		Users: []models.User{{
			ID:       "admin_main",
			Name:     "Muhammad Ziaullah",
			Mobile:   AdminMobile,
			Role:     models.RoleUser,
			Password: "tampered",
			Balance:  42,
		}},
		GameSequence: []models.Outcome{models.OutcomeTie},
		News:         []models.NewsItem{},
		Tickets:      []models.SupportTicket{},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := openAt(t, path)

	store.View(func(snap *models.Snapshot) {
		require.Len(t, snap.Users, 1)
		assert.Equal(t, AdminPassword, snap.Users[0].Password)
		assert.Equal(t, models.RoleAdmin, snap.Users[0].Role)
		// Balance is the admin's own ledger and is left alone.
		assert.Equal(t, int64(42), snap.Users[0].Balance)
	})
}

func TestOpenRefusesCorruptedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": [truncated`), 0o644))

	_, err := Open(NewFileBackend(path))
	assert.Error(t, err)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	store := openAt(t, filepath.Join(t.TempDir(), "db.json"))

	sentinel := assert.AnError
	err := store.Update(func(snap *models.Snapshot) error {
		snap.Users[0].Balance = 0
		snap.Users = nil
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	store.View(func(snap *models.Snapshot) {
		require.Len(t, snap.Users, 1)
		assert.Equal(t, int64(1000000), snap.Users[0].Balance)
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	source := openAt(t, filepath.Join(dir, "a.json"))

	require.NoError(t, source.Update(func(snap *models.Snapshot) error {
		snap.Users = append(snap.Users, models.User{
			ID: "user_1", Name: "Ali", Mobile: "03001234567", Balance: 500,
			Plans: []models.UserPlan{}, Transactions: []models.Transaction{},
			ReferralCode: "ABC123", Role: models.RoleUser, Password: "secret123",
		})
		return nil
	}))

	exported := source.Export()

	target := openAt(t, filepath.Join(dir, "b.json"))
	require.NoError(t, target.Import(exported))

	target.View(func(snap *models.Snapshot) {
		require.Len(t, snap.Users, 2)
		assert.Equal(t, "user_1", snap.Users[1].ID)
		assert.Equal(t, int64(500), snap.Users[1].Balance)
	})
}

func TestImportRejectsBadPayloads(t *testing.T) {
	store := openAt(t, filepath.Join(t.TempDir(), "db.json"))

	cases := []string{
		`not json at all`,
		`{}`,
		`{"users": null}`,
		`{"users": {"id": "user_1"}}`,
		`{"users": "[]"}`,
	}
	for _, payload := range cases {
		assert.ErrorIs(t, store.Import([]byte(payload)), ErrImportRejected, payload)
	}

	// The store is untouched after every rejection.
	store.View(func(snap *models.Snapshot) {
		require.Len(t, snap.Users, 1)
		assert.Equal(t, AdminMobile, snap.Users[0].Mobile)
	})
}

func TestImportMigratesLegacyExport(t *testing.T) {
	store := openAt(t, filepath.Join(t.TempDir(), "db.json"))

	require.NoError(t, store.Import([]byte(`{"users":[]}`)))
	store.View(func(snap *models.Snapshot) {
		assert.Equal(t, currentVersion, snap.Version)
		assert.Len(t, snap.GameSequence, 20)
		assert.NotNil(t, snap.News)
		assert.NotNil(t, snap.Tickets)
	})
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	store := openAt(t, filepath.Join(t.TempDir(), "db.json"))

	id, ch := store.Subscribe()
	defer store.Unsubscribe(id)

	require.NoError(t, store.Update(func(snap *models.Snapshot) error {
		snap.Users[0].Balance++
		return nil
	}))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification after update")
	}

	// A failed update must not notify.
	_ = store.Update(func(snap *models.Snapshot) error { return assert.AnError })
	select {
	case <-ch:
		t.Fatal("notified on rolled-back update")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestExportReturnsPersistedBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	store := openAt(t, path)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, onDisk, store.Export())
}
