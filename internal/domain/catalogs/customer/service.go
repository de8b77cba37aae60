package customer

import (
	"context"
	"fmt"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/pkg/logger"
)

// Service provides business logic for the Customer catalog.
// Deposit changes are mirrored on the global deposit counter.
type Service struct {
	repo    Repository
	stock   inventory.Repository
	applier *ledger.Applier
	hooks   *domain.HookRegistry[*Customer]
}

// NewService creates a new Customer service.
func NewService(repo Repository, stock inventory.Repository, applier *ledger.Applier) *Service {
	return &Service{
		repo:    repo,
		stock:   stock,
		applier: applier,
		hooks:   domain.NewHookRegistry[*Customer](),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service) Hooks() *domain.HookRegistry[*Customer] {
	return s.hooks
}

// Create registers a customer with its opening balance and bottles.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Customer, error) {
	c := NewCustomer(in)
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.applier.Apply(ctx, "customer.create", func(ctx context.Context, cs *ledger.ChangeSet) error {
		if err := s.hooks.Run(ctx, domain.BeforeCreate, c); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		if err := s.adjustDeposit(ctx, cs, c.Deposit); err != nil {
			return err
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityCustomer,
			EntityID:   c.ID,
			Action:     ledger.ActionCreate,
			Changes: map[string]any{
				"name":         c.Name,
				"bottle_price": c.BottlePrice.String(),
				"deposit":      c.Deposit,
				"balance":      c.Balance.String(),
				"bottles":      c.Bottles,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "customer created", "customer_id", c.ID, "area", c.Area)
	return c, nil
}

// GetByID returns a customer.
func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// Update replaces the profile fields.
func (s *Service) Update(ctx context.Context, customerID id.ID, in UpdateInput) (*Customer, error) {
	var out *Customer
	err := s.applier.Apply(ctx, "customer.update", func(ctx context.Context, cs *ledger.ChangeSet) error {
		c, err := s.repo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != c.Version {
			return apperror.NewConcurrentModification(ledger.EntityCustomer, customerID)
		}

		depositDelta := in.Deposit - c.Deposit
		next := NewCustomer(CreateInput{
			Name: in.Name, Phone: in.Phone, Area: in.Area, Address: in.Address,
			ModeratorID: in.ModeratorID, BottlePrice: in.BottlePrice, Deposit: in.Deposit,
		})
		c.Name, c.Phone, c.Area, c.Address = next.Name, next.Phone, next.Area, next.Address
		c.ModeratorID, c.BottlePrice, c.Deposit = next.ModeratorID, next.BottlePrice, next.Deposit

		if err := c.Validate(ctx); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, domain.BeforeUpdate, c); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, c); err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		if err := s.adjustDeposit(ctx, cs, depositDelta); err != nil {
			return err
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityCustomer,
			EntityID:   c.ID,
			Action:     ledger.ActionUpdate,
			Changes: map[string]any{
				"name":          c.Name,
				"area":          c.Area,
				"bottle_price":  c.BottlePrice.String(),
				"deposit_delta": depositDelta,
			},
		})
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a customer and releases its deposit bottles.
func (s *Service) Delete(ctx context.Context, customerID id.ID) error {
	return s.applier.Apply(ctx, "customer.delete", func(ctx context.Context, cs *ledger.ChangeSet) error {
		c, err := s.repo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, domain.BeforeDelete, c); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, customerID); err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		if err := s.adjustDeposit(ctx, cs, -c.Deposit); err != nil {
			return err
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityCustomer,
			EntityID:   customerID,
			Action:     ledger.ActionDelete,
			Changes:    map[string]any{"balance": c.Balance.String(), "bottles": c.Bottles},
		})
		return nil
	})
}

// List returns customers matching filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error) {
	if err := filter.Normalize(); err != nil {
		return domain.ListResult[*Customer]{}, err
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) adjustDeposit(ctx context.Context, cs *ledger.ChangeSet, delta int64) error {
	if delta == 0 {
		return nil
	}
	tb, err := s.stock.GetForUpdate(ctx)
	if err != nil {
		return err
	}
	tb.ApplyDeposit(delta)
	if tb.Deposit < 0 {
		return apperror.NewFieldValidation("deposit_bottles", tb.Deposit)
	}
	if err := s.stock.Update(ctx, tb); err != nil {
		return fmt.Errorf("update deposit bottles: %w", err)
	}
	cs.Touch(ledger.EntityTotalBottles, tb.ID.String())
	return nil
}

// Lock returns the customer locked for the running transaction.
func (s *Service) Lock(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetForUpdate(ctx, customerID)
}

// Store writes a customer modified inside the running transaction.
func (s *Service) Store(ctx context.Context, cs *ledger.ChangeSet, c *Customer) error {
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	cs.Touch(ledger.EntityCustomer, c.ID.String())
	return nil
}
