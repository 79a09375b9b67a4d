package services

import (
	"fmt"
	"strings"
	"time"

	"stockgrow/database"
	"stockgrow/models"
	"stockgrow/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Signup bonus granted to every new account, in whole units.
const SignupBonus = 200

// Commission rate paid to the referrer on every plan purchase, floored to
// an integer. Commission is final: there is no clawback path if the
// purchase is later reversed.
const referralCommissionPct = 5

// LedgerService owns every balance mutation. Each operation is one
// read-modify-write cycle against the snapshot store: a failed operation
// leaves the store exactly as it was, a successful one is durable and
// broadcast before the call returns.
type LedgerService struct {
	store *database.Store
}

func NewLedgerService(store *database.Store) *LedgerService {
	return &LedgerService{store: store}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func txID(prefix string) string {
	return prefix + strings.ToLower(utils.RandomCode(6))
}

func findUserByMobile(snap *models.Snapshot, mobile string) *models.User {
	for i := range snap.Users {
		if snap.Users[i].Mobile == mobile {
			return &snap.Users[i]
		}
	}
	return nil
}

func findUserByID(snap *models.Snapshot, id string) *models.User {
	for i := range snap.Users {
		if snap.Users[i].ID == id {
			return &snap.Users[i]
		}
	}
	return nil
}

func findUserByReferralCode(snap *models.Snapshot, code string) *models.User {
	for i := range snap.Users {
		if snap.Users[i].ReferralCode == code {
			return &snap.Users[i]
		}
	}
	return nil
}

// findTransaction scans every user's log for a trimmed, case-insensitive id
// match. First match in store order wins. O(users x transactions) is fine at
// this scale; the tie-break is the contract if an index is ever added.
func findTransaction(snap *models.Snapshot, transactionID string) (*models.User, *models.Transaction) {
	needle := strings.ToLower(strings.TrimSpace(transactionID))
	for i := range snap.Users {
		u := &snap.Users[i]
		for j := range u.Transactions {
			if strings.ToLower(strings.TrimSpace(u.Transactions[j].ID)) == needle {
				return u, &u.Transactions[j]
			}
		}
	}
	return nil, nil
}

func uniqueReferralCode(snap *models.Snapshot) string {
	for {
		code := utils.RandomCode(6)
		if findUserByReferralCode(snap, code) == nil {
			return code
		}
	}
}

// Register creates an account with the fixed signup bonus. A referral code
// that resolves links the new user and bumps the referrer's count; the
// commission itself is paid only on plan purchase. Unknown codes are
// silently ignored.
func (s *LedgerService) Register(name, mobile, password, referredByCode string) (models.User, error) {
	normalized := utils.NormalizeMobile(mobile)
	if len(normalized) != 11 {
		return models.User{}, ErrInvalidPhone
	}

	var created models.User
	err := s.store.Update(func(snap *models.Snapshot) error {
		if findUserByMobile(snap, normalized) != nil {
			return ErrDuplicatePhone
		}

		referredBy := ""
		if referredByCode != "" {
			if referrer := findUserByReferralCode(snap, referredByCode); referrer != nil {
				referredBy = referredByCode
				referrer.ReferralCount++
			}
		}

		user := models.User{
			ID:           "user_" + uuid.NewString(),
			Name:         name,
			Mobile:       normalized,
			Balance:      SignupBonus,
			Plans:        []models.UserPlan{},
			Transactions: []models.Transaction{},
			ReferralCode: uniqueReferralCode(snap),
			ReferredBy:   referredBy,
			Role:         models.RoleUser,
			Password:     strings.TrimSpace(password),
			CreatedAt:    nowISO(),
		}
		snap.Users = append(snap.Users, user)
		created = user
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	logrus.Infof("👤 Registered %s (referred=%v)", normalized, created.ReferredBy != "")
	return created, nil
}

// Login distinguishes an unknown account from a wrong password in its error,
// matching the user-facing messaging.
func (s *LedgerService) Login(mobile, password string) (models.User, error) {
	normalized := utils.NormalizeMobile(mobile)

	var user models.User
	var err error
	s.store.View(func(snap *models.Snapshot) {
		u := findUserByMobile(snap, normalized)
		if u == nil {
			err = ErrAccountNotFound
			return
		}
		if u.Password != strings.TrimSpace(password) {
			err = ErrInvalidCredentials
			return
		}
		user = *u
	})
	return user, err
}

// Deposit records a PENDING transaction. The balance is not touched until
// an admin approves: deposit funds are not credited until proven.
func (s *LedgerService) Deposit(userID string, amount int64, method, trxID, senderMobile string) (models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, fmt.Errorf("deposit amount must be a positive integer")
	}

	var tx models.Transaction
	err := s.store.Update(func(snap *models.Snapshot) error {
		user := findUserByID(snap, userID)
		if user == nil {
			return ErrAccountNotFound
		}
		tx = models.Transaction{
			ID:           txID("tx_"),
			Type:         models.TxDeposit,
			Amount:       amount,
			Method:       method,
			Date:         nowISO(),
			Status:       models.TxPending,
			TrxID:        trxID,
			SenderMobile: senderMobile,
		}
		user.Transactions = append(user.Transactions, tx)
		return nil
	})
	return tx, err
}

// Withdraw debits the balance immediately and records a PENDING transaction.
// The funds are escrowed at request time so the same balance cannot be
// withdrawn twice while a request is pending; this is deliberately
// asymmetric with Deposit.
func (s *LedgerService) Withdraw(userID string, amount int64, method string) (models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, fmt.Errorf("withdrawal amount must be a positive integer")
	}

	var tx models.Transaction
	err := s.store.Update(func(snap *models.Snapshot) error {
		user := findUserByID(snap, userID)
		if user == nil {
			return ErrAccountNotFound
		}
		if user.Balance < amount {
			return ErrInsufficientFunds
		}
		user.Balance -= amount
		tx = models.Transaction{
			ID:     txID("tx_"),
			Type:   models.TxWithdraw,
			Amount: amount,
			Method: method,
			Date:   nowISO(),
			Status: models.TxPending,
		}
		user.Transactions = append(user.Transactions, tx)
		return nil
	})
	return tx, err
}

// ApproveDeposit credits the balance and marks the transaction APPROVED.
// Approving an already-APPROVED transaction is a no-op, so a double-click
// on the admin dashboard can never credit twice.
func (s *LedgerService) ApproveDeposit(transactionID string, amount int64) error {
	return s.store.Update(func(snap *models.Snapshot) error {
		user, tx := findTransaction(snap, transactionID)
		if tx == nil {
			return ErrTransactionNotFound
		}
		if tx.Status == models.TxApproved {
			return nil
		}
		tx.Status = models.TxApproved
		user.Balance += amount
		logrus.Infof("💰 Deposit approved: tx=%s mobile=%s amount=%d", tx.ID, user.Mobile, amount)
		return nil
	})
}

// RejectDeposit marks the transaction REJECTED. Nothing was credited at
// request time, so the balance is untouched.
func (s *LedgerService) RejectDeposit(transactionID string) error {
	return s.store.Update(func(snap *models.Snapshot) error {
		_, tx := findTransaction(snap, transactionID)
		if tx == nil {
			return ErrTransactionNotFound
		}
		if tx.Status != models.TxPending {
			return nil
		}
		tx.Status = models.TxRejected
		return nil
	})
}

// ApproveWithdrawal marks the transaction APPROVED. The balance was already
// debited at request time.
func (s *LedgerService) ApproveWithdrawal(transactionID string) error {
	return s.store.Update(func(snap *models.Snapshot) error {
		_, tx := findTransaction(snap, transactionID)
		if tx == nil {
			return ErrTransactionNotFound
		}
		if tx.Status != models.TxPending {
			return nil
		}
		tx.Status = models.TxApproved
		return nil
	})
}

// RejectWithdrawal refunds the escrowed amount and marks the transaction
// REJECTED. The refund happens once: a transaction that already left
// PENDING is a no-op.
func (s *LedgerService) RejectWithdrawal(transactionID string, amount int64) error {
	return s.store.Update(func(snap *models.Snapshot) error {
		user, tx := findTransaction(snap, transactionID)
		if tx == nil {
			return ErrTransactionNotFound
		}
		if tx.Status != models.TxPending {
			return nil
		}
		tx.Status = models.TxRejected
		user.Balance += amount
		logrus.Infof("💸 Withdrawal rejected, refunded %d to %s", amount, user.Mobile)
		return nil
	})
}

// BuyPlan debits the plan price, attaches an ACTIVE UserPlan and records the
// purchase. When the buyer was referred, the referrer is credited 5% of the
// price (floored) exactly once, with its own REFERRAL transaction.
func (s *LedgerService) BuyPlan(userID, planID string) error {
	plan := models.PlanByID(planID)
	if plan == nil {
		return ErrInvalidPlan
	}

	return s.store.Update(func(snap *models.Snapshot) error {
		user := findUserByID(snap, userID)
		if user == nil {
			return ErrAccountNotFound
		}
		if user.Balance < plan.Price {
			return ErrInsufficientFunds
		}

		user.Balance -= plan.Price
		user.Plans = append(user.Plans, models.UserPlan{
			Plan:         *plan,
			PurchaseDate: nowISO(),
			Status:       models.PlanActive,
			ProgressDays: 0,
			EarnedSoFar:  0,
		})
		user.Transactions = append(user.Transactions, models.Transaction{
			ID:     txID("plan_"),
			Type:   models.TxPlanBuy,
			Amount: plan.Price,
			Method: plan.Name,
			Date:   nowISO(),
			Status: models.TxApproved,
		})

		if user.ReferredBy != "" {
			if referrer := findUserByReferralCode(snap, user.ReferredBy); referrer != nil {
				commission := plan.Price * referralCommissionPct / 100
				referrer.Balance += commission
				referrer.ReferralEarnings += commission
				referrer.Transactions = append(referrer.Transactions, models.Transaction{
					ID:     txID("tx_ref_"),
					Type:   models.TxReferral,
					Amount: commission,
					Method: "System",
					Date:   nowISO(),
					Status: models.TxApproved,
				})
				logrus.Infof("🤝 Referral commission %d paid to %s", commission, referrer.Mobile)
			}
		}
		return nil
	})
}

// SettleGameBet applies a game result to the balance. A LOSS debits the
// stake (failing if the balance cannot cover it); a WIN credits
// unconditionally. Both append an already-APPROVED transaction.
func (s *LedgerService) SettleGameBet(userID string, amount int64, win bool, details string) error {
	if amount <= 0 {
		return fmt.Errorf("bet amount must be a positive integer")
	}

	return s.store.Update(func(snap *models.Snapshot) error {
		user := findUserByID(snap, userID)
		if user == nil {
			return ErrAccountNotFound
		}

		txType := models.TxGameWin
		if win {
			user.Balance += amount
		} else {
			if user.Balance < amount {
				return ErrInsufficientFunds
			}
			user.Balance -= amount
			txType = models.TxGameLoss
		}

		user.Transactions = append(user.Transactions, models.Transaction{
			ID:     txID("gm_"),
			Type:   txType,
			Amount: amount,
			Method: details,
			Date:   nowISO(),
			Status: models.TxApproved,
		})
		return nil
	})
}

// ConfirmPasswordReset replaces the password after the OTP step.
func (s *LedgerService) ConfirmPasswordReset(mobile, newPassword string) error {
	trimmed := strings.TrimSpace(newPassword)
	if len(trimmed) < 6 {
		return fmt.Errorf("password too short (6 characters minimum)")
	}
	normalized := utils.NormalizeMobile(mobile)
	return s.store.Update(func(snap *models.Snapshot) error {
		user := findUserByMobile(snap, normalized)
		if user == nil {
			return ErrAccountNotFound
		}
		user.Password = trimmed
		return nil
	})
}

// AdminUpdateUser lets the admin move an account to a new mobile and/or set
// a new password.
func (s *LedgerService) AdminUpdateUser(userID, newMobile, newPassword string) error {
	normalized := utils.NormalizeMobile(newMobile)
	return s.store.Update(func(snap *models.Snapshot) error {
		user := findUserByID(snap, userID)
		if user == nil {
			return ErrAccountNotFound
		}
		if user.Mobile != normalized {
			if findUserByMobile(snap, normalized) != nil {
				return ErrDuplicatePhone
			}
			user.Mobile = normalized
		}
		if trimmed := strings.TrimSpace(newPassword); trimmed != "" {
			user.Password = trimmed
		}
		return nil
	})
}

// UserByID returns a copy of the user record.
func (s *LedgerService) UserByID(userID string) (models.User, error) {
	var user models.User
	err := ErrAccountNotFound
	s.store.View(func(snap *models.Snapshot) {
		if u := findUserByID(snap, userID); u != nil {
			user = *u
			err = nil
		}
	})
	return user, err
}

// UserByMobile returns a copy of the user record.
func (s *LedgerService) UserByMobile(mobile string) (models.User, error) {
	normalized := utils.NormalizeMobile(mobile)
	var user models.User
	err := ErrAccountNotFound
	s.store.View(func(snap *models.Snapshot) {
		if u := findUserByMobile(snap, normalized); u != nil {
			user = *u
			err = nil
		}
	})
	return user, err
}

// AllUsers returns a copy of every user record for the admin dashboard.
func (s *LedgerService) AllUsers() []models.User {
	var users []models.User
	s.store.View(func(snap *models.Snapshot) {
		users = append([]models.User{}, snap.Users...)
	})
	return users
}

// PendingItem pairs a PENDING transaction with its owner for admin review.
type PendingItem struct {
	UserID      string             `json:"userId"`
	UserName    string             `json:"userName"`
	UserMobile  string             `json:"userMobile"`
	Transaction models.Transaction `json:"transaction"`
}

// PendingTransactions lists every PENDING deposit and withdrawal across all
// users, in store order. The dashboard polls this.
func (s *LedgerService) PendingTransactions() []PendingItem {
	items := []PendingItem{}
	s.store.View(func(snap *models.Snapshot) {
		for i := range snap.Users {
			u := &snap.Users[i]
			for _, tx := range u.Transactions {
				if tx.Status == models.TxPending {
					items = append(items, PendingItem{
						UserID:      u.ID,
						UserName:    u.Name,
						UserMobile:  u.Mobile,
						Transaction: tx,
					})
				}
			}
		}
	})
	return items
}

// PlatformStats aggregates approved money flow for the admin dashboard.
type PlatformStats struct {
	TotalDeposit           int64 `json:"totalDeposit"`
	TotalWithdraw          int64 `json:"totalWithdraw"`
	TotalProfitDistributed int64 `json:"totalProfitDistributed"`
}

func (s *LedgerService) GetPlatformStats() PlatformStats {
	var stats PlatformStats
	s.store.View(func(snap *models.Snapshot) {
		for i := range snap.Users {
			u := &snap.Users[i]
			for _, tx := range u.Transactions {
				if tx.Status != models.TxApproved {
					continue
				}
				switch tx.Type {
				case models.TxDeposit:
					stats.TotalDeposit += tx.Amount
				case models.TxWithdraw:
					stats.TotalWithdraw += tx.Amount
				}
			}
			stats.TotalProfitDistributed += u.ReferralEarnings
			for _, p := range u.Plans {
				stats.TotalProfitDistributed += p.EarnedSoFar
			}
		}
	})
	return stats
}

// PlanCount is one bar of the market chart.
type PlanCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MarketStats aggregates circulation volume and the five most-bought plans.
type MarketStats struct {
	TotalActive      int         `json:"totalActive"`
	TotalCirculation int64       `json:"totalCirculation"`
	ChartData        []PlanCount `json:"chartData"`
}

func (s *LedgerService) GetMarketStats() MarketStats {
	var stats MarketStats
	counts := map[string]int{}
	s.store.View(func(snap *models.Snapshot) {
		stats.TotalActive = len(snap.Users)
		for i := range snap.Users {
			u := &snap.Users[i]
			for _, tx := range u.Transactions {
				if tx.Type == models.TxDeposit && tx.Status == models.TxApproved {
					stats.TotalCirculation += tx.Amount
				}
			}
			for _, p := range u.Plans {
				stats.TotalCirculation += p.Price
				counts[p.Name]++
			}
		}
	})
	for name, count := range counts {
		stats.ChartData = append(stats.ChartData, PlanCount{Name: name, Count: count})
	}
	for i := 0; i < len(stats.ChartData); i++ {
		for j := i + 1; j < len(stats.ChartData); j++ {
			if stats.ChartData[j].Count > stats.ChartData[i].Count {
				stats.ChartData[i], stats.ChartData[j] = stats.ChartData[j], stats.ChartData[i]
			}
		}
	}
	if len(stats.ChartData) > 5 {
		stats.ChartData = stats.ChartData[:5]
	}
	return stats
}
