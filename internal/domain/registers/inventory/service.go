package inventory

import (
	"context"
	"fmt"

	"aquaops/internal/core/apperror"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/reconcile"
	"aquaops/pkg/logger"
)

// Service provides administrator operations on the bottle inventory.
type Service struct {
	repo    Repository
	reader  Reader
	applier *ledger.Applier
}

// NewService creates the inventory service. A nil reader reads through repo.
func NewService(repo Repository, reader Reader, applier *ledger.Applier) *Service {
	if reader == nil {
		reader = repo
	}
	return &Service{repo: repo, reader: reader, applier: applier}
}

// Setup creates the inventory once.
func (s *Service) Setup(ctx context.Context, in SetupInput) (*TotalBottles, error) {
	if in.Total < 0 {
		return nil, apperror.NewFieldValidation("total_bottles", in.Total)
	}
	if in.Deposit < 0 {
		return nil, apperror.NewFieldValidation("deposit_bottles", in.Deposit)
	}

	tb := NewTotalBottles(in.Total, in.Deposit)
	err := s.applier.Apply(ctx, "inventory.setup", func(ctx context.Context, cs *ledger.ChangeSet) error {
		if err := s.repo.Create(ctx, tb); err != nil {
			return err
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityTotalBottles,
			EntityID:   tb.ID,
			Action:     ledger.ActionCreate,
			Changes:    map[string]any{"total_bottles": in.Total, "deposit_bottles": in.Deposit},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory initialised", "total", in.Total, "deposit", in.Deposit)
	return tb, nil
}

// Get returns the current counters.
func (s *Service) Get(ctx context.Context) (*TotalBottles, error) {
	return s.reader.Get(ctx)
}

// AddBottles records newly purchased bottles.
func (s *Service) AddBottles(ctx context.Context, n int64) (*TotalBottles, error) {
	if n <= 0 {
		return nil, apperror.NewFieldValidation("bottles", n)
	}
	return s.mutate(ctx, "inventory.add", map[string]any{"added": n}, func(tb *TotalBottles) error {
		tb.ApplyPurchase(n)
		return nil
	})
}

// RecordDamage writes damaged bottles off the available pool.
func (s *Service) RecordDamage(ctx context.Context, n int64) (*TotalBottles, error) {
	if n <= 0 {
		return nil, apperror.NewFieldValidation("damaged_bottles", n)
	}
	return s.mutate(ctx, "inventory.damage", map[string]any{"damaged": n}, func(tb *TotalBottles) error {
		if err := reconcile.CheckTake(tb.StockCounters, n); err != nil {
			return err
		}
		tb.ApplyDamage(n)
		return nil
	})
}

// Edit applies an administrator correction. Damaged bottles are not editable here.
func (s *Service) Edit(ctx context.Context, in EditInput) (*TotalBottles, error) {
	changes := map[string]any{
		"total_bottles":     in.Total,
		"available_bottles": in.Available,
		"used_bottles":      in.Used,
		"deposit_bottles":   in.Deposit,
	}
	return s.mutate(ctx, "inventory.edit", changes, func(tb *TotalBottles) error {
		if in.Version != 0 && in.Version != tb.Version {
			return apperror.NewConcurrentModification(ledger.EntityTotalBottles, tb.ID)
		}
		next := reconcile.StockCounters{
			Total:     in.Total,
			Available: in.Available,
			Used:      in.Used,
			Damaged:   tb.Damaged,
			Deposit:   in.Deposit,
		}
		if err := reconcile.ValidateInventoryEdit(next); err != nil {
			return err
		}
		tb.StockCounters = next
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, op string, changes map[string]any, fn func(tb *TotalBottles) error) (*TotalBottles, error) {
	var out *TotalBottles
	err := s.applier.Apply(ctx, op, func(ctx context.Context, cs *ledger.ChangeSet) error {
		tb, err := s.repo.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := fn(tb); err != nil {
			return err
		}
		if err := (reconcile.Ledger{Stock: &tb.StockCounters}).Validate(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tb); err != nil {
			return fmt.Errorf("update inventory: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityTotalBottles,
			EntityID:   tb.ID,
			Action:     ledger.ActionUpdate,
			Changes:    changes,
		})
		out = tb
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory updated", "op", op,
		"available", out.Available,
		"used", out.Used,
		"damaged", out.Damaged,
	)
	return out, nil
}
