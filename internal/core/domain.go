package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Transaction is a single ledger entry as stored. Amount keeps the exact
	// decimal text the user entered; Month and Year are the period labels.
	Transaction struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Amount      string    `json:"amount"`
		Category    string    `json:"category"`
		Subcategory string    `json:"subcategory,omitempty"`
		Date        string    `json:"date"`
		Month       string    `json:"month"`
		Year        string    `json:"year"`
		Notes       string    `json:"notes,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// TransactionUpdate carries a partial edit. Nil fields are left untouched.
	TransactionUpdate struct {
		Title       *string `json:"title,omitempty"`
		Amount      *string `json:"amount,omitempty"`
		Category    *string `json:"category,omitempty"`
		Subcategory *string `json:"subcategory,omitempty"`
		Date        *string `json:"date,omitempty"`
		Month       *string `json:"month,omitempty"`
		Year        *string `json:"year,omitempty"`
		Notes       *string `json:"notes,omitempty"`
	}

	// Goal is a savings objective. CurrentAmount is a legacy field kept for
	// storage compatibility; progress is derived from savings transfers.
	Goal struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		TargetAmount  string    `json:"targetAmount"`
		CurrentAmount string    `json:"currentAmount"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	GoalUpdate struct {
		Name          *string `json:"name,omitempty"`
		TargetAmount  *string `json:"targetAmount,omitempty"`
		CurrentAmount *string `json:"currentAmount,omitempty"`
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidMonth   = errors.New("invalid month")
	ErrInvalidYear    = errors.New("invalid year")
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrEmptyTitle     = errors.New("empty title")
	ErrEmptyCategory  = errors.New("empty category")
	ErrEmptyGoalName  = errors.New("empty goal name")
	ErrInvalidTarget  = errors.New("invalid target amount")
	ErrTitleTooLong   = errors.New("title too long (max 200 characters)")
	ErrUnknownLabel   = errors.New("unknown category label")
	ErrDuplicateLabel = errors.New("duplicate category label")
)

// Period resolves the transaction's month and year labels. ok is false when
// either label cannot be resolved; such a transaction belongs to no period.
func (t Transaction) Period() (PeriodKey, bool) {
	return NewPeriodKey(t.Month, t.Year)
}

// Validate checks a transaction before it is written. The aggregation engine
// never calls this: it accepts whatever the store hands it.
func (t Transaction) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	if _, err := ParseAmountStrict(t.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if _, ok := MonthFromName(t.Month); !ok {
		return ErrInvalidMonth
	}
	if _, ok := parseYear(t.Year); !ok {
		return ErrInvalidYear
	}
	return nil
}

// Apply returns a copy of t with the non-nil fields of u applied.
func (u TransactionUpdate) Apply(t Transaction) Transaction {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Subcategory != nil {
		t.Subcategory = *u.Subcategory
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Month != nil {
		t.Month = *u.Month
	}
	if u.Year != nil {
		t.Year = *u.Year
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	return t
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	target, err := ParseAmountStrict(g.TargetAmount)
	if err != nil || target.IsNegative() {
		return ErrInvalidTarget
	}
	return nil
}

func (u GoalUpdate) Apply(g Goal) Goal {
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.TargetAmount != nil {
		g.TargetAmount = *u.TargetAmount
	}
	if u.CurrentAmount != nil {
		g.CurrentAmount = *u.CurrentAmount
	}
	return g
}
