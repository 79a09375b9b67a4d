package services

import (
	"testing"

	"stockgrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceDayAccruesAndMatures(t *testing.T) {
	store := newTestStore(t)
	ledger := NewLedgerService(store)
	accrual := NewAccrualService(store)

	user, err := ledger.Register("Ali", "03001234567", "secret123", "")
	require.NoError(t, err)
	fundUser(t, ledger, user.ID, 500)
	require.NoError(t, ledger.BuyPlan(user.ID, "p1"))

	balanceAfterBuy := int64(SignupBonus + 500 - 399)

	// Day 1: floor(399 * 5%) = 19 tracked, nothing credited.
	require.NoError(t, accrual.AdvanceDay())
	u, err := ledger.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Plans[0].ProgressDays)
	assert.Equal(t, int64(19), u.Plans[0].EarnedSoFar)
	assert.Equal(t, models.PlanActive, u.Plans[0].Status)
	assert.Equal(t, balanceAfterBuy, u.Balance)

	// Day 2.
	require.NoError(t, accrual.AdvanceDay())
	u, err = ledger.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(38), u.Plans[0].EarnedSoFar)

	// Day 3: maturity. Earnings snap to totalReturn - price and the full
	// totalReturn is credited once.
	require.NoError(t, accrual.AdvanceDay())
	u, err = ledger.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanMatured, u.Plans[0].Status)
	assert.Equal(t, int64(458-399), u.Plans[0].EarnedSoFar)
	assert.Equal(t, balanceAfterBuy+458, u.Balance)

	var payout *models.Transaction
	for i := range u.Transactions {
		if u.Transactions[i].Type == models.TxPlanPayout {
			require.Nil(t, payout)
			payout = &u.Transactions[i]
		}
	}
	require.NotNil(t, payout)
	assert.Equal(t, int64(458), payout.Amount)
	assert.Equal(t, models.TxApproved, payout.Status)

	// A matured plan accrues nothing further.
	require.NoError(t, accrual.AdvanceDay())
	u, err = ledger.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, u.Plans[0].ProgressDays)
	assert.Equal(t, balanceAfterBuy+458, u.Balance)
}

func TestAdvanceDayCapsEarnings(t *testing.T) {
	store := newTestStore(t)
	accrual := NewAccrualService(store)

	// A plan whose daily yield overshoots the authored total return. The cap
	// wins over the arithmetic.
	require.NoError(t, store.Update(func(snap *models.Snapshot) error {
		snap.Users[0].Plans = append(snap.Users[0].Plans, models.UserPlan{
			Plan: models.Plan{
				ID: "custom", Name: "Custom", Price: 1000, Duration: 10,
				DailyProfitPercent: 50.0, TotalReturn: 1200,
			},
			Status: models.PlanActive,
		})
		return nil
	}))

	require.NoError(t, accrual.AdvanceDay())
	store.View(func(snap *models.Snapshot) {
		assert.Equal(t, int64(200), snap.Users[0].Plans[0].EarnedSoFar)
	})

	require.NoError(t, accrual.AdvanceDay())
	store.View(func(snap *models.Snapshot) {
		assert.Equal(t, int64(200), snap.Users[0].Plans[0].EarnedSoFar)
	})
}

func TestAdvanceDaySkipsMaturedPlans(t *testing.T) {
	store := newTestStore(t)
	accrual := NewAccrualService(store)

	require.NoError(t, store.Update(func(snap *models.Snapshot) error {
		snap.Users[0].Plans = append(snap.Users[0].Plans, models.UserPlan{
			Plan: models.Plan{
				ID: "custom", Name: "Custom", Price: 1000, Duration: 5,
				DailyProfitPercent: 2.0, TotalReturn: 1100,
			},
			Status:       models.PlanMatured,
			ProgressDays: 5,
			EarnedSoFar:  100,
		})
		return nil
	}))

	var balanceBefore int64
	store.View(func(snap *models.Snapshot) {
		balanceBefore = snap.Users[0].Balance
	})

	require.NoError(t, accrual.AdvanceDay())
	store.View(func(snap *models.Snapshot) {
		assert.Equal(t, 5, snap.Users[0].Plans[0].ProgressDays)
		assert.Equal(t, balanceBefore, snap.Users[0].Balance)
	})
}
