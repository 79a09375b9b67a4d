package models

// Snapshot field names are the external export/import contract. Changing a
// json tag here breaks every previously exported database string.

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type TxType string

const (
	TxDeposit    TxType = "DEPOSIT"
	TxWithdraw   TxType = "WITHDRAW"
	TxReferral   TxType = "REFERRAL"
	TxGameWin    TxType = "GAME_WIN"
	TxGameLoss   TxType = "GAME_LOSS"
	TxPlanBuy    TxType = "PLAN_BUY"
	TxPlanPayout TxType = "PLAN_PAYOUT"
)

type TxStatus string

const (
	TxPending  TxStatus = "PENDING"
	TxApproved TxStatus = "APPROVED"
	TxRejected TxStatus = "REJECTED"
)

type PlanStatus string

const (
	PlanActive    PlanStatus = "ACTIVE"
	PlanMatured   PlanStatus = "MATURED"
	PlanCompleted PlanStatus = "COMPLETED"
)

type Outcome string

const (
	OutcomeDragon Outcome = "DRAGON"
	OutcomeTiger  Outcome = "TIGER"
	OutcomeTie    Outcome = "TIE"
)

type TicketStatus string

const (
	TicketOpen     TicketStatus = "OPEN"
	TicketResolved TicketStatus = "RESOLVED"
)

type NewsType string

const (
	NewsInfo  NewsType = "INFO"
	NewsAlert NewsType = "ALERT"
	NewsBonus NewsType = "BONUS"
)

// Transaction is immutable once created except for Status, which moves
// PENDING -> APPROVED or PENDING -> REJECTED exactly once via admin review.
type Transaction struct {
	ID           string   `json:"id"`
	Type         TxType   `json:"type"`
	Amount       int64    `json:"amount"`
	Method       string   `json:"method"`
	Date         string   `json:"date"`
	Status       TxStatus `json:"status"`
	TrxID        string   `json:"trxId,omitempty"`
	SenderMobile string   `json:"senderMobile,omitempty"`
}

// Plan is a catalog definition. TotalReturn is an authored constant and is
// authoritative; it is never derived from Price + yield x duration.
type Plan struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Price              int64   `json:"price"`
	Duration           int     `json:"duration"`
	DailyProfitPercent float64 `json:"dailyProfitPercent"`
	TotalReturn        int64   `json:"totalReturn"`
	Color              string  `json:"color"`
}

// UserPlan is a purchased Plan instance with accrual progress.
type UserPlan struct {
	Plan
	PurchaseDate string     `json:"purchaseDate"`
	Status       PlanStatus `json:"status"`
	ProgressDays int        `json:"progressDays"`
	EarnedSoFar  int64      `json:"earnedSoFar"`
}

type User struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Mobile           string        `json:"mobile"`
	Balance          int64         `json:"balance"`
	IsVerified       bool          `json:"isVerified"`
	Plans            []UserPlan    `json:"plans"`
	Transactions     []Transaction `json:"transactions"`
	ReferralCode     string        `json:"referralCode"`
	ReferredBy       string        `json:"referredBy,omitempty"`
	ReferralEarnings int64         `json:"referralEarnings"`
	ReferralCount    int           `json:"referralCount"`
	Role             Role          `json:"role"`
	Password         string        `json:"_password"`
	CreatedAt        string        `json:"createdAt"`
}

type NewsItem struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Date    string   `json:"date"`
	Type    NewsType `json:"type"`
}

type SupportTicket struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	UserName   string       `json:"userName"`
	UserMobile string       `json:"userMobile"`
	Message    string       `json:"message"`
	AdminReply string       `json:"adminReply,omitempty"`
	Status     TicketStatus `json:"status"`
	Date       string       `json:"date"`
}

// Snapshot is the whole persisted document. The store writes it as one unit.
type Snapshot struct {
	Version      int             `json:"version"`
	Users        []User          `json:"users"`
	GameSequence []Outcome       `json:"gameSequence"`
	News         []NewsItem      `json:"news"`
	Tickets      []SupportTicket `json:"tickets"`
}

// LiveBetTotals is the ephemeral per-round stake aggregate shown on the
// admin monitor. It is never persisted.
type LiveBetTotals struct {
	Dragon int64 `json:"DRAGON"`
	Tiger  int64 `json:"TIGER"`
	Tie    int64 `json:"TIE"`
}
