package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

// Publisher announces ledger changes for a period. *amqp.Client implements it.
type Publisher interface {
	PublishLedgerChanged(ctx context.Context, op, transactionID string, period core.PeriodKey) error
}

// LedgerService validates and stores ledger writes, then publishes a
// change event for every affected period. A failed publish never fails the
// write.
type LedgerService struct {
	store     ledger.Store
	publisher Publisher
	logger    *log.StructuredLogger
	onChange  []func()
}

// NewLedgerService wires a store and an optional publisher. Pass a nil
// Publisher (not a typed nil pointer) to disable events.
func NewLedgerService(store ledger.Store, publisher Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    log.NewStructuredLogger(logger.WithComponent(log.ComponentLedger)),
	}
}

// OnChange registers fn to run after every successful transaction or goal
// write. Register hooks before serving requests.
func (s *LedgerService) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

func (s *LedgerService) changed() {
	for _, fn := range s.onChange {
		fn()
	}
}

func (s *LedgerService) ListTransactions(ctx context.Context, period *core.PeriodKey) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if period == nil {
		return txs, nil
	}
	out := txs[:0:0]
	for _, tx := range txs {
		if p, ok := tx.Period(); ok && p == *period {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.changed()
	s.logger.LogTransactionChanged(ctx, log.OpCreate, created)
	s.publish(ctx, amqp.OpCreated, created)
	return created, nil
}

// UpdateTransaction applies a partial edit. When the edit moves the
// transaction to another period both periods are announced.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, upd core.TransactionUpdate) (core.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	updated, err := s.store.UpdateTransaction(ctx, upd.Apply(existing))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.changed()
	s.logger.LogTransactionChanged(ctx, log.OpUpdate, updated)

	s.publish(ctx, amqp.OpUpdated, updated)
	oldPeriod, okOld := existing.Period()
	newPeriod, okNew := updated.Period()
	if okOld && (!okNew || oldPeriod != newPeriod) {
		s.publish(ctx, amqp.OpUpdated, existing)
	}
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.changed()
	s.logger.LogTransactionChanged(ctx, log.OpDelete, existing)
	s.publish(ctx, amqp.OpDeleted, existing)
	return nil
}

func (s *LedgerService) ListGoals(ctx context.Context) ([]core.Goal, error) {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func (s *LedgerService) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

func (s *LedgerService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	s.changed()
	slog.InfoContext(ctx, "Goal created", log.FieldGoalID, created.ID, "name", created.Name)
	return created, nil
}

func (s *LedgerService) UpdateGoal(ctx context.Context, id string, upd core.GoalUpdate) (core.Goal, error) {
	existing, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	updated, err := s.store.UpdateGoal(ctx, upd.Apply(existing))
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	s.changed()
	return updated, nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	s.changed()
	slog.InfoContext(ctx, "Goal deleted", log.FieldGoalID, id)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, op string, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	period, ok := tx.Period()
	if !ok {
		slog.WarnContext(ctx, "Transaction has no resolvable period, skipping change event",
			log.FieldTransactionID, tx.ID, "month", tx.Month, "year", tx.Year)
		return
	}
	if err := s.publisher.PublishLedgerChanged(ctx, op, tx.ID, period); err != nil {
		s.logger.LogError(ctx, "Failed to publish ledger change", err, log.ComponentAMQP, op,
			log.NewFields().WithTransaction(tx.ID, tx.Category, tx.Amount, period.String()))
	}
}

// Close closes the store and publisher when they hold resources.
func (s *LedgerService) Close() error {
	var result *multierror.Error
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("amqp: %w", err))
		}
	}
	return result.ErrorOrNil()
}
