package delivery

import (
	"context"
	"fmt"

	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/domain/catalogs/customer"
	"aquaops/internal/domain/documents"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/reconcile"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/domain/registers/usage"
	"aquaops/pkg/logger"
	"aquaops/pkg/numerator"
)

// Service records deliveries and reconciles the ledger for each of them.
//
// Every mutation locks the customer, then the moderator's usage record for
// the day, then TotalBottles.
type Service struct {
	repo      Repository
	customers *customer.Service
	usage     *usage.Service
	stock     inventory.Repository
	applier   *ledger.Applier
	numbers   numerator.Generator
	numbering numerator.Config
}

// NewService creates the delivery service and guards customer deletion:
// a customer with deliveries cannot be deleted.
func NewService(
	repo Repository,
	customers *customer.Service,
	usageSvc *usage.Service,
	stock inventory.Repository,
	applier *ledger.Applier,
	numbers numerator.Generator,
	prefix string,
) *Service {
	s := &Service{
		repo:      repo,
		customers: customers,
		usage:     usageSvc,
		stock:     stock,
		applier:   applier,
		numbers:   numbers,
		numbering: NumberingConfig(prefix),
	}
	customers.Hooks().On(domain.BeforeDelete, s.guardCustomerDelete)
	usageSvc.Hooks().On(domain.BeforeDelete, s.guardUsageReset)
	return s
}

// Create records a delivery for today.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Delivery, error) {
	if err := in.Counts.Validate(); err != nil {
		return nil, err
	}
	moderatorID, err := documents.ResolveModerator(ctx, in.ModeratorID)
	if err != nil {
		return nil, err
	}
	if err := s.usage.RequireActive(ctx, moderatorID); err != nil {
		return nil, err
	}

	today := s.usage.Clock().Today()
	var out *Delivery
	err = s.applier.Apply(ctx, "delivery.create", func(ctx context.Context, cs *ledger.ChangeSet) error {
		c, err := s.customers.Lock(ctx, in.CustomerID)
		if err != nil {
			return err
		}
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

		doc := entity.NewDocument(moderatorID, today, appctx.GetActorID(ctx))
		doc.Comment = in.Comment
		d := NewDelivery(doc, c.ID, in.Counts, c.BottlePrice)
		if err := d.Validate(ctx); err != nil {
			return err
		}

		delta := reconcile.Creation(in.Counts)
		if err := s.reconcile(ctx, cs, delta, d, c, u, tb); err != nil {
			return err
		}

		number, err := s.numbers.Next(ctx, s.numbering, today.Time())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		d.Number = number
		if err := s.repo.Create(ctx, d); err != nil {
			return fmt.Errorf("create delivery: %w", err)
		}

		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityDelivery,
			EntityID:   d.ID,
			Action:     ledger.ActionCreate,
			Changes:    countChanges(d, delta),
		})
		cs.Emit(ledger.Event{
			Type:          EventRecorded,
			AggregateType: ledger.EntityDelivery,
			AggregateID:   d.ID,
			Payload: Notification{
				DeliveryID:   d.ID.String(),
				Number:       d.Number,
				Day:          d.Day.String(),
				CustomerName: c.Name,
				Phone:        c.Phone,
				Filled:       d.Filled,
				Empty:        d.Empty,
				FOC:          d.FOC,
				Bill:         d.Bill.StringFixed(2),
				Payment:      d.Payment.StringFixed(2),
				Balance:      c.Balance.StringFixed(2),
				Bottles:      c.Bottles,
			},
		})
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery recorded",
		"delivery_id", out.ID,
		"number", out.Number,
		"customer_id", out.CustomerID,
		"filled", out.Filled,
	)
	return out, nil
}

// Update replaces the counts of a same-day delivery and reconciles the
// difference at the delivery's snapshotted price.
func (s *Service) Update(ctx context.Context, deliveryID id.ID, in UpdateInput) (*Delivery, error) {
	if err := in.Counts.Validate(); err != nil {
		return nil, err
	}

	var out *Delivery
	err := s.applier.Apply(ctx, "delivery.update", func(ctx context.Context, cs *ledger.ChangeSet) error {
		d, err := s.lockEditable(ctx, deliveryID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != d.Version {
			return apperror.NewConcurrentModification(ledger.EntityDelivery, deliveryID)
		}

		c, err := s.customers.Lock(ctx, d.CustomerID)
		if err != nil {
			return err
		}
		u, err := s.usage.Acquire(ctx, cs, d.ModeratorID, d.Day)
		if err != nil {
			return err
		}
		tb, err := s.stock.GetForUpdate(ctx)
		if err != nil {
			return err
		}

		delta := reconcile.Diff(d.Counts, in.Counts)
		if delta.Filled > 0 {
			if err := reconcile.CheckDeliverable(u.UsageCounters, delta.Filled); err != nil {
				return err
			}
		}
		if err := s.reconcile(ctx, cs, delta, d, c, u, tb); err != nil {
			return err
		}

		d.SetCounts(in.Counts)
		d.Comment = in.Comment
		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update delivery: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityDelivery,
			EntityID:   d.ID,
			Action:     ledger.ActionUpdate,
			Changes:    countChanges(d, delta),
		})
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a same-day delivery and reverts its effects.
func (s *Service) Delete(ctx context.Context, deliveryID id.ID) error {
	return s.applier.Apply(ctx, "delivery.delete", func(ctx context.Context, cs *ledger.ChangeSet) error {
		d, err := s.lockEditable(ctx, deliveryID)
		if err != nil {
			return err
		}
		c, err := s.customers.Lock(ctx, d.CustomerID)
		if err != nil {
			return err
		}
		u, err := s.usage.Acquire(ctx, cs, d.ModeratorID, d.Day)
		if err != nil {
			return err
		}
		tb, err := s.stock.GetForUpdate(ctx)
		if err != nil {
			return err
		}

		delta := reconcile.Reversal(d.Counts)
		if err := s.reconcile(ctx, cs, delta, d, c, u, tb); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, d.ID); err != nil {
			return fmt.Errorf("delete delivery: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityDelivery,
			EntityID:   d.ID,
			Action:     ledger.ActionDelete,
			Changes:    countChanges(d, delta),
		})
		return nil
	})
}

// GetByID returns a delivery visible to the actor.
func (s *Service) GetByID(ctx context.Context, deliveryID id.ID) (*Delivery, error) {
	d, err := s.repo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := documents.CheckOwner(ctx, d.ModeratorID); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns deliveries matching filter. Moderators only see their own.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Delivery], error) {
	if err := filter.Normalize(); err != nil {
		return domain.ListResult[*Delivery]{}, err
	}
	scoped, err := documents.ScopeToActor(ctx, filter.ModeratorID)
	if err != nil {
		return domain.ListResult[*Delivery]{}, err
	}
	filter.ModeratorID = scoped
	return s.repo.List(ctx, filter)
}

func (s *Service) lockEditable(ctx context.Context, deliveryID id.ID) (*Delivery, error) {
	d, err := s.repo.GetForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := documents.CheckOwner(ctx, d.ModeratorID); err != nil {
		return nil, err
	}
	if err := d.CanModify(ledger.EntityDelivery, s.usage.Clock().Today()); err != nil {
		return nil, err
	}
	return d, nil
}

// reconcile applies delta to the locked entities, validates the post-state
// and writes everything that changed.
func (s *Service) reconcile(
	ctx context.Context,
	cs *ledger.ChangeSet,
	delta reconcile.Delta,
	d *Delivery,
	c *customer.Customer,
	u *usage.BottleUsage,
	tb *inventory.TotalBottles,
) error {
	l := reconcile.Ledger{
		Usage:   &u.UsageCounters,
		Stock:   &tb.StockCounters,
		Account: &c.Account,
	}
	l.ApplyTransaction(delta, d.BottlePrice)
	if err := l.Validate(); err != nil {
		return err
	}

	if err := s.customers.Store(ctx, cs, c); err != nil {
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

func (s *Service) guardCustomerDelete(ctx context.Context, c *customer.Customer) error {
	exists, err := s.repo.ExistsForCustomer(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("check deliveries: %w", err)
	}
	if exists {
		return apperror.NewConflict("customer has deliveries").WithDetail("customer_id", c.ID)
	}
	return nil
}

func countChanges(d *Delivery, delta reconcile.Delta) map[string]any {
	return map[string]any{
		"number":         d.Number,
		"customer_id":    d.CustomerID,
		"bottle_price":   d.BottlePrice.String(),
		"filled_delta":   delta.Filled,
		"empty_delta":    delta.Empty,
		"damaged_delta":  delta.Damaged,
		"foc_delta":      delta.FOC,
		"payment_delta":  delta.Payment.String(),
		"balance_delta":  delta.BalanceDelta(d.BottlePrice).String(),
		"customer_delta": delta.BottlesDelta(),
	}
}

func (s *Service) guardUsageReset(ctx context.Context, u *usage.BottleUsage) error {
	exists, err := s.repo.ExistsForModeratorDay(ctx, u.ModeratorID, u.Day)
	if err != nil {
		return fmt.Errorf("check deliveries: %w", err)
	}
	if exists {
		return apperror.NewBusinessRule(usage.CodeUsageInUse, "usage has deliveries").
			WithDetail("day", u.Day.String())
	}
	return nil
}
