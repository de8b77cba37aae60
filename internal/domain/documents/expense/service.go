package expense

import (
	"context"
	"fmt"
	"strings"

	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/domain/documents"
	"aquaops/internal/domain/ledger"
	"aquaops/pkg/logger"
)

// Service manages OtherExpense records. Moderators may change their own
// expenses on the same day; administrators may change any of them.
type Service struct {
	repo    Repository
	applier *ledger.Applier
	clock   *types.Clock
}

// NewService creates the expense service.
func NewService(repo Repository, applier *ledger.Applier, clock *types.Clock) *Service {
	return &Service{repo: repo, applier: applier, clock: clock}
}

// Create records an expense.
func (s *Service) Create(ctx context.Context, in CreateInput) (*OtherExpense, error) {
	moderatorID, err := documents.ResolveModerator(ctx, in.ModeratorID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	day := in.Day
	if day.IsZero() {
		day = today
	}
	if !day.Equal(today) && !appctx.GetActor(ctx).IsAdmin() {
		return nil, apperror.NewRecordLocked(ledger.EntityExpense, day.String())
	}
	if day.After(today) {
		return nil, apperror.NewValidation("day cannot be in the future").WithDetail("day", day.String())
	}

	e := &OtherExpense{
		Document:    entity.NewDocument(moderatorID, day, appctx.GetActorID(ctx)),
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
	}
	if err := e.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.applier.Apply(ctx, "expense.create", func(ctx context.Context, cs *ledger.ChangeSet) error {
		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityExpense,
			EntityID:   e.ID,
			Action:     ledger.ActionCreate,
			Changes:    map[string]any{"amount": e.Amount.String(), "description": e.Description, "day": day.String()},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "expense recorded", "expense_id", e.ID, "moderator_id", moderatorID, "amount", e.Amount.String())
	return e, nil
}

// Update replaces amount and description.
func (s *Service) Update(ctx context.Context, expenseID id.ID, in UpdateInput) (*OtherExpense, error) {
	var out *OtherExpense
	err := s.applier.Apply(ctx, "expense.update", func(ctx context.Context, cs *ledger.ChangeSet) error {
		e, err := s.loadEditable(ctx, expenseID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != e.Version {
			return apperror.NewConcurrentModification(ledger.EntityExpense, expenseID)
		}
		e.Amount = in.Amount
		e.Description = strings.TrimSpace(in.Description)
		if err := e.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityExpense,
			EntityID:   e.ID,
			Action:     ledger.ActionUpdate,
			Changes:    map[string]any{"amount": e.Amount.String(), "description": e.Description},
		})
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, expenseID id.ID) error {
	return s.applier.Apply(ctx, "expense.delete", func(ctx context.Context, cs *ledger.ChangeSet) error {
		e, err := s.loadEditable(ctx, expenseID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityExpense,
			EntityID:   e.ID,
			Action:     ledger.ActionDelete,
			Changes:    map[string]any{"amount": e.Amount.String()},
		})
		return nil
	})
}

// GetByID returns an expense visible to the actor.
func (s *Service) GetByID(ctx context.Context, expenseID id.ID) (*OtherExpense, error) {
	e, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := documents.CheckOwner(ctx, e.ModeratorID); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns expenses matching filter. Moderators only see their own.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*OtherExpense], error) {
	if err := filter.Normalize(); err != nil {
		return domain.ListResult[*OtherExpense]{}, err
	}
	scoped, err := documents.ScopeToActor(ctx, filter.ModeratorID)
	if err != nil {
		return domain.ListResult[*OtherExpense]{}, err
	}
	filter.ModeratorID = scoped
	return s.repo.List(ctx, filter)
}

func (s *Service) loadEditable(ctx context.Context, expenseID id.ID) (*OtherExpense, error) {
	e, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := documents.CheckOwner(ctx, e.ModeratorID); err != nil {
		return nil, err
	}
	if appctx.GetActor(ctx).IsAdmin() {
		return e, nil
	}
	if err := e.CanModify(ledger.EntityExpense, s.clock.Today()); err != nil {
		return nil, err
	}
	return e, nil
}
