package usage

import (
	"context"
	"fmt"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/reconcile"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/pkg/logger"
)

// CodeUsageInUse is returned when a usage record can no longer be reset.
const CodeUsageInUse = "USAGE_IN_USE"

// Service manages BottleUsage records.
//
// Operations that touch both the usage row and the inventory lock the usage
// row first, then TotalBottles.
type Service struct {
	repo       Repository
	stock      inventory.Repository
	moderators *moderator.Service
	applier    *ledger.Applier
	clock      *types.Clock
	hooks      *domain.HookRegistry[*BottleUsage]
}

// NewService creates the usage service and guards moderator deletion:
// a moderator with usage history cannot be deleted.
func NewService(
	repo Repository,
	stock inventory.Repository,
	moderators *moderator.Service,
	applier *ledger.Applier,
	clock *types.Clock,
) *Service {
	s := &Service{
		repo:       repo,
		stock:      stock,
		moderators: moderators,
		applier:    applier,
		clock:      clock,
		hooks:      domain.NewHookRegistry[*BottleUsage](),
	}
	moderators.Hooks().On(domain.BeforeDelete, s.guardModeratorDelete)
	return s
}

// Hooks returns the hook registry. BeforeDelete hooks may veto Reset.
func (s *Service) Hooks() *domain.HookRegistry[*BottleUsage] {
	return s.hooks
}

// Clock returns the business clock.
func (s *Service) Clock() *types.Clock {
	return s.clock
}

// RequireActive fails unless the moderator exists and is active.
func (s *Service) RequireActive(ctx context.Context, moderatorID id.ID) error {
	_, err := s.moderators.RequireActive(ctx, moderatorID)
	return err
}

// Acquire returns the locked usage record of moderatorID for day, creating
// it first when missing. It must run inside a ledger transaction.
//
// Concurrent first actions race on the insert; the loser's insert is a
// no-op and both then lock the same row.
func (s *Service) Acquire(ctx context.Context, cs *ledger.ChangeSet, moderatorID id.ID, day types.Day) (*BottleUsage, error) {
	u, err := s.repo.GetForUpdate(ctx, moderatorID, day)
	if err == nil {
		return u, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	prev, err := s.repo.LatestBefore(ctx, moderatorID, day)
	if err != nil {
		return nil, fmt.Errorf("load previous usage: %w", err)
	}
	fresh := NewBottleUsage(moderatorID, day, prev)
	inserted, err := s.repo.InsertIfAbsent(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("insert usage: %w", err)
	}

	u, err = s.repo.GetForUpdate(ctx, moderatorID, day)
	if err != nil {
		return nil, err
	}
	if inserted {
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityBottleUsage,
			EntityID:   u.ID,
			Action:     ledger.ActionCreate,
			Changes: map[string]any{
				"moderator_id":      moderatorID,
				"day":               day.String(),
				"remaining_bottles": u.Remaining,
				"empty_bottles":     u.Empty,
			},
		})
		logger.Debug(ctx, "usage record opened",
			"moderator_id", moderatorID,
			"day", day.String(),
			"carried_remaining", u.Remaining,
			"carried_empty", u.Empty,
		)
	}
	return u, nil
}

// Store writes a usage record modified inside the running transaction.
func (s *Service) Store(ctx context.Context, cs *ledger.ChangeSet, u *BottleUsage) error {
	if err := s.repo.Update(ctx, u); err != nil {
		return fmt.Errorf("update usage: %w", err)
	}
	cs.Touch(ledger.EntityBottleUsage, u.ID.String())
	return nil
}

// Today returns the moderator's record for the current business day.
func (s *Service) Today(ctx context.Context, moderatorID id.ID) (*BottleUsage, error) {
	if err := s.RequireActive(ctx, moderatorID); err != nil {
		return nil, err
	}
	var out *BottleUsage
	err := s.applier.Apply(ctx, "usage.today", func(ctx context.Context, cs *ledger.ChangeSet) error {
		u, err := s.Acquire(ctx, cs, moderatorID, s.clock.Today())
		out = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the record of a moderator for a day.
func (s *Service) Get(ctx context.Context, moderatorID id.ID, day types.Day) (*BottleUsage, error) {
	return s.repo.Get(ctx, moderatorID, day)
}

// List returns usage records matching filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*BottleUsage], error) {
	if err := filter.Normalize(); err != nil {
		return domain.ListResult[*BottleUsage]{}, err
	}
	return s.repo.List(ctx, filter)
}

// TakeFilled moves filled bottles from the plant to the moderator.
func (s *Service) TakeFilled(ctx context.Context, moderatorID id.ID, in TakeInput) (*BottleUsage, error) {
	if in.Filled < 0 {
		return nil, apperror.NewFieldValidation("filled_bottles", in.Filled)
	}
	if in.Caps < 0 {
		return nil, apperror.NewFieldValidation("caps", in.Caps)
	}
	changes := map[string]any{"filled_bottles": in.Filled, "caps": in.Caps}
	return s.mutate(ctx, "usage.take", moderatorID, changes, func(l reconcile.Ledger) error {
		if err := reconcile.CheckTake(*l.Stock, in.Filled); err != nil {
			return err
		}
		l.ApplyTake(in.Filled, in.Caps)
		return nil
	})
}

// Return hands empty and undelivered bottles back to the plant.
func (s *Service) Return(ctx context.Context, moderatorID id.ID, in ReturnInput) (*BottleUsage, error) {
	changes := map[string]any{
		"empty_bottles":     in.Empty,
		"remaining_bottles": in.Remaining,
		"caps":              in.Caps,
	}
	return s.mutate(ctx, "usage.return", moderatorID, changes, func(l reconcile.Ledger) error {
		if err := reconcile.CheckReturn(*l.Usage, in); err != nil {
			return err
		}
		l.ApplyReturn(in)
		return nil
	})
}

// MarkDone sets the advisory done flag. Today's record is created on demand;
// earlier days must already exist.
func (s *Service) MarkDone(ctx context.Context, moderatorID id.ID, in DoneInput) (*BottleUsage, error) {
	day := in.Day
	if day.IsZero() {
		day = s.clock.Today()
	}
	if day.After(s.clock.Today()) {
		return nil, apperror.NewValidation("day cannot be in the future").WithDetail("day", day.String())
	}

	var out *BottleUsage
	err := s.applier.Apply(ctx, "usage.done", func(ctx context.Context, cs *ledger.ChangeSet) error {
		var (
			u   *BottleUsage
			err error
		)
		if day.Equal(s.clock.Today()) {
			u, err = s.Acquire(ctx, cs, moderatorID, day)
		} else {
			u, err = s.repo.GetForUpdate(ctx, moderatorID, day)
		}
		if err != nil {
			return err
		}
		if u.Done == in.Done {
			out = u
			return nil
		}
		u.Done = in.Done
		if err := s.Store(ctx, cs, u); err != nil {
			return err
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityBottleUsage,
			EntityID:   u.ID,
			Action:     ledger.ActionUpdate,
			Changes:    map[string]any{"done": in.Done},
		})
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reset discards a record with no sales and no returns, giving the day's
// filled bottles back to the available pool. A record whose counts were
// carried into a later day, or that a transaction record refers to, stays.
func (s *Service) Reset(ctx context.Context, moderatorID id.ID, day types.Day) error {
	return s.applier.Apply(ctx, "usage.reset", func(ctx context.Context, cs *ledger.ChangeSet) error {
		u, err := s.repo.GetForUpdate(ctx, moderatorID, day)
		if err != nil {
			return err
		}
		if u.Sales != 0 || u.Returned != 0 {
			return apperror.NewBusinessRule(CodeUsageInUse, "usage with sales or returns cannot be reset").
				WithDetail("sales", u.Sales).
				WithDetail("returned_bottles", u.Returned)
		}
		later, err := s.repo.ExistsAfter(ctx, moderatorID, day)
		if err != nil {
			return fmt.Errorf("check later usage: %w", err)
		}
		if later {
			return apperror.NewBusinessRule(CodeUsageInUse, "usage was carried into a later day").
				WithDetail("day", day.String())
		}
		if err := s.hooks.Run(ctx, domain.BeforeDelete, u); err != nil {
			return err
		}

		tb, err := s.stock.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		l := reconcile.Ledger{Stock: &tb.StockCounters}
		l.ApplyReset(u.UsageCounters)
		if err := l.Validate(); err != nil {
			return err
		}

		if err := s.stock.Update(ctx, tb); err != nil {
			return fmt.Errorf("update inventory: %w", err)
		}
		if err := s.repo.Delete(ctx, u.ID); err != nil {
			return fmt.Errorf("delete usage: %w", err)
		}
		cs.Touch(ledger.EntityTotalBottles, tb.ID.String())
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityBottleUsage,
			EntityID:   u.ID,
			Action:     ledger.ActionDelete,
			Changes: map[string]any{
				"moderator_id":   moderatorID,
				"day":            day.String(),
				"filled_bottles": u.Filled,
			},
		})
		logger.Info(ctx, "usage reset", "moderator_id", moderatorID, "day", day.String(), "filled", u.Filled)
		return nil
	})
}

// mutate runs fn against today's usage record and the inventory, then
// validates and stores both.
func (s *Service) mutate(
	ctx context.Context,
	op string,
	moderatorID id.ID,
	changes map[string]any,
	fn func(l reconcile.Ledger) error,
) (*BottleUsage, error) {
	if err := s.RequireActive(ctx, moderatorID); err != nil {
		return nil, err
	}

	var out *BottleUsage
	err := s.applier.Apply(ctx, op, func(ctx context.Context, cs *ledger.ChangeSet) error {
		u, err := s.Acquire(ctx, cs, moderatorID, s.clock.Today())
		if err != nil {
			return err
		}
		tb, err := s.stock.GetForUpdate(ctx)
		if err != nil {
			return err
		}

		l := reconcile.Ledger{Usage: &u.UsageCounters, Stock: &tb.StockCounters}
		if err := fn(l); err != nil {
			return err
		}
		if err := l.Validate(); err != nil {
			return err
		}

		if err := s.Store(ctx, cs, u); err != nil {
			return err
		}
		if err := s.stock.Update(ctx, tb); err != nil {
			return fmt.Errorf("update inventory: %w", err)
		}
		cs.Touch(ledger.EntityTotalBottles, tb.ID.String())
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityBottleUsage,
			EntityID:   u.ID,
			Action:     ledger.ActionUpdate,
			Changes:    changes,
		})
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "usage updated",
		"op", op,
		"moderator_id", moderatorID,
		"remaining", out.Remaining,
		"empty", out.Empty,
	)
	return out, nil
}

func (s *Service) guardModeratorDelete(ctx context.Context, m *moderator.Moderator) error {
	exists, err := s.repo.ExistsForModerator(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("check usage history: %w", err)
	}
	if exists {
		return apperror.NewConflict("moderator has bottle usage history").
			WithDetail("moderator_id", m.ID)
	}
	return nil
}
