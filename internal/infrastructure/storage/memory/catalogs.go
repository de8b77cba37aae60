package memory

import (
	"context"
	"sort"
	"strings"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/domain/catalogs/customer"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/ledger"
)

// ModeratorRepo implements moderator.Repository.
type ModeratorRepo struct {
	store *Store
}

var _ moderator.Repository = (*ModeratorRepo)(nil)

// Moderators returns the moderator repository.
func (s *Store) Moderators() *ModeratorRepo {
	return &ModeratorRepo{store: s}
}

func (r *ModeratorRepo) Create(_ context.Context, m *moderator.Moderator) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.moderators[m.ID]; ok {
			return apperror.NewDuplicate(ledger.EntityModerator, "id", m.ID.String())
		}
		st.moderators[m.ID] = *m
		return nil
	})
}

func (r *ModeratorRepo) GetByID(_ context.Context, moderatorID id.ID) (*moderator.Moderator, error) {
	var (
		m  moderator.Moderator
		ok bool
	)
	r.store.read(func(st *state) { m, ok = st.moderators[moderatorID] })
	if !ok {
		return nil, apperror.NewNotFound(ledger.EntityModerator, moderatorID)
	}
	return &m, nil
}

func (r *ModeratorRepo) Update(_ context.Context, m *moderator.Moderator) error {
	return r.store.write(func(st *state) error {
		cur, ok := st.moderators[m.ID]
		if !ok {
			return apperror.NewNotFound(ledger.EntityModerator, m.ID)
		}
		if cur.Version != m.Version {
			return apperror.NewConcurrentModification(ledger.EntityModerator, m.ID)
		}
		m.Touch()
		st.moderators[m.ID] = *m
		return nil
	})
}

func (r *ModeratorRepo) Delete(_ context.Context, moderatorID id.ID) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.moderators[moderatorID]; !ok {
			return apperror.NewNotFound(ledger.EntityModerator, moderatorID)
		}
		delete(st.moderators, moderatorID)
		return nil
	})
}

func (r *ModeratorRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*moderator.Moderator], error) {
	var items []*moderator.Moderator
	r.store.read(func(st *state) {
		for _, m := range st.moderators {
			if f.Search != "" && !containsFold(m.Name, f.Search) && !strings.Contains(m.Phone, f.Search) {
				continue
			}
			if f.Area != "" && !m.Covers(f.Area) {
				continue
			}
			m := m
			items = append(items, &m)
		}
	})
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return domain.ListResult[*moderator.Moderator]{
		Items:      paginate(items, f.Limit, f.Offset),
		TotalCount: int64(len(items)),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

func (r *ModeratorRepo) ExistsByPhone(_ context.Context, phone string, exclude id.ID) (bool, error) {
	var exists bool
	r.store.read(func(st *state) {
		for _, m := range st.moderators {
			if m.Phone == phone && m.ID != exclude {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	store *Store
}

var _ customer.Repository = (*CustomerRepo)(nil)

// Customers returns the customer repository.
func (s *Store) Customers() *CustomerRepo {
	return &CustomerRepo{store: s}
}

func (r *CustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.customers[c.ID]; ok {
			return apperror.NewDuplicate(ledger.EntityCustomer, "id", c.ID.String())
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, customerID id.ID) (*customer.Customer, error) {
	var (
		c  customer.Customer
		ok bool
	)
	r.store.read(func(st *state) { c, ok = st.customers[customerID] })
	if !ok {
		return nil, apperror.NewNotFound(ledger.EntityCustomer, customerID)
	}
	return &c, nil
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return r.GetByID(ctx, customerID)
}

func (r *CustomerRepo) Update(_ context.Context, c *customer.Customer) error {
	return r.store.write(func(st *state) error {
		cur, ok := st.customers[c.ID]
		if !ok {
			return apperror.NewNotFound(ledger.EntityCustomer, c.ID)
		}
		if cur.Version != c.Version {
			return apperror.NewConcurrentModification(ledger.EntityCustomer, c.ID)
		}
		c.Touch()
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) Delete(_ context.Context, customerID id.ID) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.customers[customerID]; !ok {
			return apperror.NewNotFound(ledger.EntityCustomer, customerID)
		}
		delete(st.customers, customerID)
		return nil
	})
}

func (r *CustomerRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*customer.Customer], error) {
	var items []*customer.Customer
	r.store.read(func(st *state) {
		for _, c := range st.customers {
			if f.Search != "" && !containsFold(c.Name, f.Search) && !strings.Contains(c.Phone, f.Search) {
				continue
			}
			if f.Area != "" && !strings.EqualFold(c.Area, f.Area) {
				continue
			}
			if f.ModeratorID != nil && (c.ModeratorID == nil || *c.ModeratorID != *f.ModeratorID) {
				continue
			}
			c := c
			items = append(items, &c)
		}
	})
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return domain.ListResult[*customer.Customer]{
		Items:      paginate(items, f.Limit, f.Offset),
		TotalCount: int64(len(items)),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
