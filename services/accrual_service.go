package services

import (
	"time"

	"stockgrow/database"
	"stockgrow/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// AccrualService advances active plans at day granularity. Daily accrual
// only tracks progress and earnings; money moves once, at maturity, when
// principal plus the full return is credited with a PLAN_PAYOUT
// transaction. EarnedSoFar never exceeds totalReturn - price.
type AccrualService struct {
	store *database.Store
}

func NewAccrualService(store *database.Store) *AccrualService {
	return &AccrualService{store: store}
}

// AdvanceDay applies one day of accrual to every ACTIVE plan.
func (s *AccrualService) AdvanceDay() error {
	matured := 0
	err := s.store.Update(func(snap *models.Snapshot) error {
		for i := range snap.Users {
			u := &snap.Users[i]
			for j := range u.Plans {
				p := &u.Plans[j]
				if p.Status != models.PlanActive {
					continue
				}

				p.ProgressDays++
				maxEarn := p.TotalReturn - p.Price
				daily := p.Price * int64(p.DailyProfitPercent*100) / 10000
				p.EarnedSoFar += daily
				if p.EarnedSoFar > maxEarn {
					p.EarnedSoFar = maxEarn
				}

				if p.ProgressDays >= p.Duration {
					p.Status = models.PlanMatured
					p.EarnedSoFar = maxEarn
					u.Balance += p.TotalReturn
					u.Transactions = append(u.Transactions, models.Transaction{
						ID:     txID("pay_"),
						Type:   models.TxPlanPayout,
						Amount: p.TotalReturn,
						Method: p.Name,
						Date:   nowISO(),
						Status: models.TxApproved,
					})
					matured++
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if matured > 0 {
		logrus.Infof("📈 Daily accrual done, %d plan(s) matured", matured)
	}
	return nil
}

// StartScheduler runs AdvanceDay every 24 hours.
func (s *AccrualService) StartScheduler() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			if err := s.AdvanceDay(); err != nil {
				logrus.Errorf("❌ Accrual job failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}
