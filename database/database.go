package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"stockgrow/models"
	"stockgrow/utils"

	"github.com/sirupsen/logrus"
)

// ErrImportRejected is returned when an imported payload does not carry a
// top-level users list.
var ErrImportRejected = errors.New("import rejected: users must be a list")

const currentVersion = 1

// Fixed super-admin credential. This is a deliberate operational backdoor:
// the store guarantees this account exists with this password on every start.
const (
	AdminMobile   = "03281614102"
	AdminPassword = "Ziakhalid@102"
	AdminReferral = "ADMIN786"
	adminName     = "Muhammad Ziaullah"
	adminBalance  = 1000000
)

// Backend persists the raw snapshot document. Read returns (nil, nil) when
// no document has ever been written.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Store owns the full snapshot. Every mutation runs as one
// read-modify-write cycle under the mutex and is durable before Update
// returns, then all subscribers are notified.
type Store struct {
	mu      sync.Mutex
	backend Backend
	snap    *models.Snapshot
	raw     []byte

	subsMu  sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// Open loads (or seeds) the snapshot, migrates legacy documents and seeds
// the admin account. A present but unparseable document fails startup: the
// ledger is never silently reset.
func Open(backend Backend) (*Store, error) {
	s := &Store{backend: backend, subs: make(map[int]chan struct{})}

	data, err := backend.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if data == nil {
		logrus.Info("📦 No snapshot found, seeding fresh store")
		s.snap = seedSnapshot()
	} else {
		var snap models.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("snapshot is corrupted, refusing to start: %w", err)
		}
		s.snap = &snap
		if migrate(s.snap) {
			logrus.Infof("📦 Snapshot migrated to version %d", s.snap.Version)
		}
	}

	seedAdmin(s.snap)

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func seedSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Version:      currentVersion,
		Users:        []models.User{},
		GameSequence: utils.RandomOutcomes(20),
		News:         []models.NewsItem{},
		Tickets:      []models.SupportTicket{},
	}
}

// migrate upgrades legacy documents in one deterministic pass. Version 0
// documents (exports written before versioning) get the three optional
// top-level fields backfilled. Returns true when anything changed.
func migrate(snap *models.Snapshot) bool {
	if snap.Version >= currentVersion {
		return false
	}
	if snap.Users == nil {
		snap.Users = []models.User{}
	}
	if len(snap.GameSequence) == 0 {
		snap.GameSequence = utils.RandomOutcomes(20)
	}
	if snap.News == nil {
		snap.News = []models.NewsItem{}
	}
	if snap.Tickets == nil {
		snap.Tickets = []models.SupportTicket{}
	}
	snap.Version = currentVersion
	return true
}

// seedAdmin guarantees exactly one ADMIN account at the fixed mobile,
// correcting role and password if they drifted.
func seedAdmin(snap *models.Snapshot) {
	for i := range snap.Users {
		u := &snap.Users[i]
		if u.Mobile == AdminMobile {
			if u.Password != AdminPassword || u.Role != models.RoleAdmin {
				u.Password = AdminPassword
				u.Role = models.RoleAdmin
				logrus.Warn("🔐 Admin account credentials corrected")
			}
			return
		}
	}
	snap.Users = append(snap.Users, models.User{
		ID:           "admin_main",
		Name:         adminName,
		Mobile:       AdminMobile,
		Balance:      adminBalance,
		IsVerified:   true,
		Plans:        []models.UserPlan{},
		Transactions: []models.Transaction{},
		ReferralCode: AdminReferral,
		Role:         models.RoleAdmin,
		Password:     AdminPassword,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	logrus.Info("🔐 Admin account seeded")
}

// Update runs fn against a working copy of the snapshot. When fn returns an
// error nothing is persisted and the store is left exactly as it was. On
// success the copy becomes the live snapshot, is written through the
// backend and every subscriber is notified.
func (s *Store) Update(fn func(snap *models.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work, err := cloneSnapshot(s.snap)
	if err != nil {
		return err
	}
	if err := fn(work); err != nil {
		return err
	}
	prev := s.snap
	s.snap = work
	if err := s.persistLocked(); err != nil {
		s.snap = prev
		return err
	}
	s.publish()
	return nil
}

// View gives fn read access to the live snapshot. fn must not mutate it or
// retain references past the call.
func (s *Store) View(fn func(snap *models.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snap)
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.backend.Write(data); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	s.raw = data
	return nil
}

func cloneSnapshot(snap *models.Snapshot) (*models.Snapshot, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to clone snapshot: %w", err)
	}
	var out models.Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to clone snapshot: %w", err)
	}
	return &out, nil
}

// Export returns the exact bytes last persisted.
func (s *Store) Export() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.raw))
	copy(out, s.raw)
	return out
}

// Import fully replaces the store with the given document. The payload is
// rejected (no partial state change) unless its top-level users field is a
// JSON array. Legacy documents are migrated on the way in.
func (s *Store) Import(data []byte) error {
	var probe struct {
		Users json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ErrImportRejected
	}
	trimmed := bytes.TrimSpace(probe.Users)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ErrImportRejected
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ErrImportRejected
	}
	migrate(&snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snap
	s.snap = &snap
	if err := s.persistLocked(); err != nil {
		s.snap = prev
		return err
	}
	s.publish()
	return nil
}

// Subscribe registers a change listener. The channel receives (at least) one
// signal after every successful save; slow consumers coalesce signals.
func (s *Store) Subscribe() (int, <-chan struct{}) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.nextSub++
	id := s.nextSub
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return id, ch
}

func (s *Store) Unsubscribe(id int) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	delete(s.subs, id)
}

func (s *Store) publish() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
