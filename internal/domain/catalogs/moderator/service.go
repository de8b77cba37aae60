package moderator

import (
	"context"
	"fmt"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/domain/ledger"
	"aquaops/pkg/logger"
)

// Service provides business logic for the Moderator catalog.
type Service struct {
	repo    Repository
	applier *ledger.Applier
	hooks   *domain.HookRegistry[*Moderator]
}

// NewService creates a new Moderator service.
func NewService(repo Repository, applier *ledger.Applier) *Service {
	return &Service{
		repo:    repo,
		applier: applier,
		hooks:   domain.NewHookRegistry[*Moderator](),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service) Hooks() *domain.HookRegistry[*Moderator] {
	return s.hooks
}

// Create registers a moderator.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Moderator, error) {
	m := NewModerator(in.Name, in.Phone, in.Areas)
	if err := m.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.applier.Apply(ctx, "moderator.create", func(ctx context.Context, cs *ledger.ChangeSet) error {
		if err := s.ensureUniquePhone(ctx, m.Phone, id.Nil()); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, domain.BeforeCreate, m); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("create moderator: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityModerator,
			EntityID:   m.ID,
			Action:     ledger.ActionCreate,
			Changes:    map[string]any{"name": m.Name, "phone": m.Phone, "areas": m.Areas},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "moderator created", "moderator_id", m.ID, "name", m.Name)
	return m, nil
}

// GetByID returns a moderator.
func (s *Service) GetByID(ctx context.Context, moderatorID id.ID) (*Moderator, error) {
	return s.repo.GetByID(ctx, moderatorID)
}

// RequireActive returns the moderator or an error if it cannot record work.
func (s *Service) RequireActive(ctx context.Context, moderatorID id.ID) (*Moderator, error) {
	m, err := s.repo.GetByID(ctx, moderatorID)
	if err != nil {
		return nil, err
	}
	if !m.Active {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "moderator is deactivated").
			WithDetail("moderator_id", moderatorID)
	}
	return m, nil
}

// Update replaces editable fields.
func (s *Service) Update(ctx context.Context, moderatorID id.ID, in UpdateInput) (*Moderator, error) {
	var out *Moderator
	err := s.applier.Apply(ctx, "moderator.update", func(ctx context.Context, cs *ledger.ChangeSet) error {
		m, err := s.repo.GetByID(ctx, moderatorID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != m.Version {
			return apperror.NewConcurrentModification(ledger.EntityModerator, moderatorID)
		}

		next := NewModerator(in.Name, in.Phone, in.Areas)
		m.Name, m.Phone, m.Areas, m.Active = next.Name, next.Phone, next.Areas, in.Active
		if err := m.Validate(ctx); err != nil {
			return err
		}
		if err := s.ensureUniquePhone(ctx, m.Phone, m.ID); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, domain.BeforeUpdate, m); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, m); err != nil {
			return fmt.Errorf("update moderator: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityModerator,
			EntityID:   m.ID,
			Action:     ledger.ActionUpdate,
			Changes:    map[string]any{"name": m.Name, "phone": m.Phone, "areas": m.Areas, "active": m.Active},
		})
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a moderator. BeforeDelete hooks may veto it.
func (s *Service) Delete(ctx context.Context, moderatorID id.ID) error {
	return s.applier.Apply(ctx, "moderator.delete", func(ctx context.Context, cs *ledger.ChangeSet) error {
		m, err := s.repo.GetByID(ctx, moderatorID)
		if err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, domain.BeforeDelete, m); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, moderatorID); err != nil {
			return fmt.Errorf("delete moderator: %w", err)
		}
		cs.Audit(ledger.AuditRecord{
			EntityType: ledger.EntityModerator,
			EntityID:   moderatorID,
			Action:     ledger.ActionDelete,
		})
		return nil
	})
}

// List returns moderators matching filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Moderator], error) {
	if err := filter.Normalize(); err != nil {
		return domain.ListResult[*Moderator]{}, err
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) ensureUniquePhone(ctx context.Context, phone string, exclude id.ID) error {
	exists, err := s.repo.ExistsByPhone(ctx, phone, exclude)
	if err != nil {
		return fmt.Errorf("check phone: %w", err)
	}
	if exists {
		return apperror.NewDuplicate(ledger.EntityModerator, "phone", phone)
	}
	return nil
}
