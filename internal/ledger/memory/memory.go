package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"budget/internal/core"
	"budget/internal/ledger"
)

// Store keeps transactions, goals and exported reports in memory. It is
// safe for concurrent use; every read returns copies.
type Store struct {
	mu      sync.Mutex
	txs     []core.Transaction
	goals   []core.Goal
	reports []core.Report
	now     func() time.Time
}

var (
	_ ledger.Store        = (*Store)(nil)
	_ ledger.ReportWriter = (*Store)(nil)
)

func New() *Store {
	return &Store{now: time.Now}
}

// Seed loads records as-is, assigning ids and creation times where missing.
func (s *Store) Seed(txs []core.Transaction, goals []core.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		s.txs = append(s.txs, s.stampTx(tx))
	}
	for _, g := range goals {
		s.goals = append(s.goals, s.stampGoal(g))
	}
}

func (s *Store) stampTx(tx core.Transaction) core.Transaction {
	if strings.TrimSpace(tx.ID) == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now().UTC()
	}
	return tx
}

func (s *Store) stampGoal(g core.Goal) core.Goal {
	if strings.TrimSpace(g.ID) == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now().UTC()
	}
	if strings.TrimSpace(g.CurrentAmount) == "" {
		g.CurrentAmount = "0"
	}
	return g
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.txIndex(id); i >= 0 {
		return s.txs[i], nil
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = ""
	tx.CreatedAt = time.Time{}
	tx = s.stampTx(tx)
	s.txs = append(s.txs, tx)
	return tx, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.txIndex(tx.ID)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", tx.ID, ledger.ErrNotFound)
	}
	tx.CreatedAt = s.txs[i].CreatedAt
	s.txs[i] = tx
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.txIndex(id)
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}
	s.txs = append(s.txs[:i], s.txs[i+1:]...)
	return nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.goalIndex(id); i >= 0 {
		return s.goals[i], nil
	}
	return core.Goal{}, fmt.Errorf("goal %s: %w", id, ledger.ErrNotFound)
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = ""
	g.CreatedAt = time.Time{}
	g = s.stampGoal(g)
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.goalIndex(g.ID)
	if i < 0 {
		return core.Goal{}, fmt.Errorf("goal %s: %w", g.ID, ledger.ErrNotFound)
	}
	g.CreatedAt = s.goals[i].CreatedAt
	s.goals[i] = g
	return g, nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.goalIndex(id)
	if i < 0 {
		return fmt.Errorf("goal %s: %w", id, ledger.ErrNotFound)
	}
	s.goals = append(s.goals[:i], s.goals[i+1:]...)
	return nil
}

// WriteReport records the report and returns a synthetic reference.
func (s *Store) WriteReport(_ context.Context, r core.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return fmt.Sprintf("mem:%d", len(s.reports)), nil
}

// Reports returns the reports written so far.
func (s *Store) Reports() []core.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Report(nil), s.reports...)
}

func (s *Store) txIndex(id string) int {
	for i := range s.txs {
		if s.txs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) goalIndex(id string) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}
