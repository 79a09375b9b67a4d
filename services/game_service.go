package services

import (
	"sync"

	"stockgrow/database"
	"stockgrow/models"
	"stockgrow/utils"

	"github.com/sirupsen/logrus"
)

const (
	// ConsumeNext refills the queue whenever it drops below this depth.
	minQueueDepth = 10
	refillBatch   = 10
)

// PayoutMultiplier maps a winning outcome to its payout factor. Stakes on
// non-winning outcomes were already forfeited at bet time.
var PayoutMultiplier = map[models.Outcome]int64{
	models.OutcomeDragon: 2,
	models.OutcomeTiger:  2,
	models.OutcomeTie:    9,
}

// GameService is the outcome controller: the client-visible "random" game
// always resolves to the front of an admin-editable queue. The queue is
// persisted in the snapshot so admin overrides survive restarts; live bet
// totals are ephemeral and reset by the client each round.
type GameService struct {
	store *database.Store

	betsMu   sync.Mutex
	liveBets models.LiveBetTotals
}

func NewGameService(store *database.Store) *GameService {
	return &GameService{store: store}
}

// PeekNext returns the queue front without consuming it, regenerating a
// fresh batch first if the queue is somehow empty. A plain peek never
// writes or notifies; only the empty-queue regeneration persists.
func (s *GameService) PeekNext() models.Outcome {
	var next models.Outcome
	found := false
	s.store.View(func(snap *models.Snapshot) {
		if len(snap.GameSequence) > 0 {
			next = snap.GameSequence[0]
			found = true
		}
	})
	if found {
		return next
	}
	_ = s.store.Update(func(snap *models.Snapshot) error {
		if len(snap.GameSequence) == 0 {
			snap.GameSequence = utils.RandomOutcomes(20)
		}
		next = snap.GameSequence[0]
		return nil
	})
	return next
}

// ConsumeNext removes and returns the queue front, then tops the queue back
// up so it never runs dry. It cannot fail: an empty queue regenerates and a
// shallow one refills, for any sequence of calls.
func (s *GameService) ConsumeNext() models.Outcome {
	var result models.Outcome
	_ = s.store.Update(func(snap *models.Snapshot) error {
		if len(snap.GameSequence) == 0 {
			snap.GameSequence = utils.RandomOutcomes(20)
		}
		result = snap.GameSequence[0]
		snap.GameSequence = snap.GameSequence[1:]
		if len(snap.GameSequence) < minQueueDepth {
			snap.GameSequence = append(snap.GameSequence, utils.RandomOutcomes(refillBatch)...)
		}
		return nil
	})
	return result
}

// Sequence returns a copy of the pending queue for the admin preview.
func (s *GameService) Sequence() []models.Outcome {
	var seq []models.Outcome
	s.store.View(func(snap *models.Snapshot) {
		seq = append([]models.Outcome{}, snap.GameSequence...)
	})
	return seq
}

// SetOutcomeAt overrides one queued future result. Out-of-bounds indexes
// are a silent no-op.
func (s *GameService) SetOutcomeAt(index int, outcome models.Outcome) {
	_ = s.store.Update(func(snap *models.Snapshot) error {
		if index < 0 || index >= len(snap.GameSequence) {
			return nil
		}
		snap.GameSequence[index] = outcome
		return nil
	})
	logrus.Infof("🎴 Outcome queue index %d set to %s", index, outcome)
}

// RecordLiveBets overwrites the current round's stake totals. Each call is
// "my total stake per outcome so far this round", not a delta: last writer
// wins. The caller resets to zeros at the start of each round.
func (s *GameService) RecordLiveBets(totals models.LiveBetTotals) {
	s.betsMu.Lock()
	defer s.betsMu.Unlock()
	s.liveBets = totals
}

// ReadLiveBets returns the current round's stake totals, zeros when unset.
func (s *GameService) ReadLiveBets() models.LiveBetTotals {
	s.betsMu.Lock()
	defer s.betsMu.Unlock()
	return s.liveBets
}

// Winnings computes the payout for a round: the stake on the winning
// outcome times its multiplier. Losing stakes are already gone.
func Winnings(outcome models.Outcome, stakes models.LiveBetTotals) int64 {
	var stake int64
	switch outcome {
	case models.OutcomeDragon:
		stake = stakes.Dragon
	case models.OutcomeTiger:
		stake = stakes.Tiger
	case models.OutcomeTie:
		stake = stakes.Tie
	}
	return stake * PayoutMultiplier[outcome]
}
