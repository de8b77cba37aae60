package miscellaneous

import (
	"context"
	"fmt"

	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/domain/documents"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/reconcile"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/domain/registers/usage"
	"aquaops/pkg/logger"
	"aquaops/pkg/numerator"
)

// Service records miscellaneous sales. They reconcile like deliveries
// without the customer account.
type Service struct {
	repo      Repository
	usage     *usage.Service
	stock     inventory.Repository
	applier   *ledger.Applier
	numbers   numerator.Generator
	numbering numerator.Config
}

// NewService creates the miscellaneous service.
func NewService(
	repo Repository,
	usageSvc *usage.Service,
	stock inventory.Repository,
	applier *ledger.Applier,
	numbers numerator.Generator,
	prefix string,
) *Service {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	s := &Service{
		repo:      repo,
		usage:     usageSvc,
		stock:     stock,
		applier:   applier,
		numbers:   numbers,
		numbering: numerator.DefaultConfig(prefix),
	}
	usageSvc.Hooks().On(domain.BeforeDelete, s.guardUsageReset)
	return s
}

// Create records a sale for today.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Miscellaneous, error) {
	moderatorID, err := documents.ResolveModerator(ctx, in.ModeratorID)
	if err != nil {
		return nil, err
	}
	today := s.usage.Clock().Today()
	doc := entity.NewDocument(moderatorID, today, appctx.GetActorID(ctx))
	doc.Comment = in.Comment
	m := NewMiscellaneous(doc, in.Buyer, in.Counts, in.BottlePrice)
	if err := m.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.usage.RequireActive(ctx, moderatorID); err != nil {
		return nil, err
	}

	err = s.applier.Apply(ctx, "miscellaneous.create", func(ctx context.Context, cs *ledger.ChangeSet) error {
		u, err := s.usage.Acquire(ctx, cs, moderatorID, today)
		if err != nil {
			return err
		}
		tb, err := s.stock.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := reconcile.CheckDeliverable(u.UsageCounters, in.Counts.Filled); err != nil {
			return err
		}

		delta := reconcile.Creation(in.Counts)
		if err := s.reconcile(ctx, cs, delta, m, u, tb); err != nil {
			return err
		}

		number, err := s.numbers.Next(ctx, s.numbering, today.Time())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		m.Number = number
		if err := s.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("create miscellaneous: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityMiscellaneous,
			EntityID:   m.ID,
			Action:     ledger.ActionCreate,
			Changes:    countChanges(m, delta),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "miscellaneous sale recorded", "id", m.ID, "number", m.Number, "filled", m.Filled)
	return m, nil
}

// Update replaces the counts of a same-day record.
func (s *Service) Update(ctx context.Context, miscID id.ID, in UpdateInput) (*Miscellaneous, error) {
	if err := in.Counts.Validate(); err != nil {
		return nil, err
	}

	var out *Miscellaneous
	err := s.applier.Apply(ctx, "miscellaneous.update", func(ctx context.Context, cs *ledger.ChangeSet) error {
		m, err := s.lockEditable(ctx, miscID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != m.Version {
			return apperror.NewConcurrentModification(ledger.EntityMiscellaneous, miscID)
		}
		u, err := s.usage.Acquire(ctx, cs, m.ModeratorID, m.Day)
		if err != nil {
			return err
		}
		tb, err := s.stock.GetForUpdate(ctx)
		if err != nil {
			return err
		}

		delta := reconcile.Diff(m.Counts, in.Counts)
		if delta.Filled > 0 {
			if err := reconcile.CheckDeliverable(u.UsageCounters, delta.Filled); err != nil {
				return err
			}
		}
		if err := s.reconcile(ctx, cs, delta, m, u, tb); err != nil {
			return err
		}

		m.SetCounts(in.Counts)
		m.Buyer = in.Buyer
		m.Comment = in.Comment
		if err := s.repo.Update(ctx, m); err != nil {
			return fmt.Errorf("update miscellaneous: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityMiscellaneous,
			EntityID:   m.ID,
			Action:     ledger.ActionUpdate,
			Changes:    countChanges(m, delta),
		})
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a same-day record and reverts its effects.
func (s *Service) Delete(ctx context.Context, miscID id.ID) error {
	return s.applier.Apply(ctx, "miscellaneous.delete", func(ctx context.Context, cs *ledger.ChangeSet) error {
		m, err := s.lockEditable(ctx, miscID)
		if err != nil {
			return err
		}
		u, err := s.usage.Acquire(ctx, cs, m.ModeratorID, m.Day)
		if err != nil {
			return err
		}
		tb, err := s.stock.GetForUpdate(ctx)
		if err != nil {
			return err
		}

		delta := reconcile.Reversal(m.Counts)
		if err := s.reconcile(ctx, cs, delta, m, u, tb); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, m.ID); err != nil {
			return fmt.Errorf("delete miscellaneous: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityMiscellaneous,
			EntityID:   m.ID,
			Action:     ledger.ActionDelete,
			Changes:    countChanges(m, delta),
		})
		return nil
	})
}

// GetByID returns a record visible to the actor.
func (s *Service) GetByID(ctx context.Context, miscID id.ID) (*Miscellaneous, error) {
	m, err := s.repo.GetByID(ctx, miscID)
	if err != nil {
		return nil, err
	}
	if err := documents.CheckOwner(ctx, m.ModeratorID); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns records matching filter. Moderators only see their own.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Miscellaneous], error) {
	if err := filter.Normalize(); err != nil {
		return domain.ListResult[*Miscellaneous]{}, err
	}
	scoped, err := documents.ScopeToActor(ctx, filter.ModeratorID)
	if err != nil {
		return domain.ListResult[*Miscellaneous]{}, err
	}
	filter.ModeratorID = scoped
	return s.repo.List(ctx, filter)
}

func (s *Service) lockEditable(ctx context.Context, miscID id.ID) (*Miscellaneous, error) {
	m, err := s.repo.GetForUpdate(ctx, miscID)
	if err != nil {
		return nil, err
	}
	if err := documents.CheckOwner(ctx, m.ModeratorID); err != nil {
		return nil, err
	}
	if err := m.CanModify(ledger.EntityMiscellaneous, s.usage.Clock().Today()); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) reconcile(
	ctx context.Context,
	cs *ledger.ChangeSet,
	delta reconcile.Delta,
	m *Miscellaneous,
	u *usage.BottleUsage,
	tb *inventory.TotalBottles,
) error {
	l := reconcile.Ledger{Usage: &u.UsageCounters, Stock: &tb.StockCounters}
	l.ApplyTransaction(delta, m.BottlePrice)
	if err := l.Validate(); err != nil {
		return err
	}
	if err := s.usage.Store(ctx, cs, u); err != nil {
		return err
	}
	if delta.Damaged != 0 {
		if err := s.stock.Update(ctx, tb); err != nil {
			return fmt.Errorf("update inventory: %w", err)
		}
		cs.Touch(ledger.EntityTotalBottles, tb.ID.String())
	}
	return nil
}

func countChanges(m *Miscellaneous, delta reconcile.Delta) map[string]any {
	return map[string]any{
		"number":        m.Number,
		"buyer":         m.Buyer,
		"bottle_price":  m.BottlePrice.String(),
		"filled_delta":  delta.Filled,
		"empty_delta":   delta.Empty,
		"damaged_delta": delta.Damaged,
		"foc_delta":     delta.FOC,
		"payment_delta": delta.Payment.String(),
		"bill_delta":    delta.BillDelta(m.BottlePrice).String(),
	}
}

func (s *Service) guardUsageReset(ctx context.Context, u *usage.BottleUsage) error {
	exists, err := s.repo.ExistsForModeratorDay(ctx, u.ModeratorID, u.Day)
	if err != nil {
		return fmt.Errorf("check miscellaneous sales: %w", err)
	}
	if exists {
		return apperror.NewBusinessRule(usage.CodeUsageInUse, "usage has miscellaneous sales").
			WithDetail("day", u.Day.String())
	}
	return nil
}
