package memory

import (
	"context"
	"sort"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/registers/usage"
)

// UsageRepo implements usage.Repository.
type UsageRepo struct {
	store *Store
}

var _ usage.Repository = (*UsageRepo)(nil)

// Usage returns the BottleUsage repository.
func (s *Store) Usage() *UsageRepo {
	return &UsageRepo{store: s}
}

func keyOf(moderatorID id.ID, day types.Day) usageKey {
	return usageKey{moderatorID: moderatorID, day: day.String()}
}

func (r *UsageRepo) InsertIfAbsent(_ context.Context, u *usage.BottleUsage) (bool, error) {
	var inserted bool
	err := r.store.write(func(st *state) error {
		k := keyOf(u.ModeratorID, u.Day)
		if _, ok := st.usage[k]; ok {
			return nil
		}
		st.usage[k] = *u
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *UsageRepo) Get(_ context.Context, moderatorID id.ID, day types.Day) (*usage.BottleUsage, error) {
	var (
		u  usage.BottleUsage
		ok bool
	)
	r.store.read(func(st *state) { u, ok = st.usage[keyOf(moderatorID, day)] })
	if !ok {
		return nil, apperror.NewNotFound(ledger.EntityBottleUsage, moderatorID.String()+"/"+day.String())
	}
	return &u, nil
}

func (r *UsageRepo) GetForUpdate(ctx context.Context, moderatorID id.ID, day types.Day) (*usage.BottleUsage, error) {
	return r.Get(ctx, moderatorID, day)
}

func (r *UsageRepo) LatestBefore(_ context.Context, moderatorID id.ID, day types.Day) (*usage.BottleUsage, error) {
	var latest *usage.BottleUsage
	r.store.read(func(st *state) {
		for _, u := range st.usage {
			if u.ModeratorID != moderatorID || !u.Day.Before(day) {
				continue
			}
			if latest == nil || u.Day.After(latest.Day) {
				u := u
				latest = &u
			}
		}
	})
	return latest, nil
}

func (r *UsageRepo) Update(_ context.Context, u *usage.BottleUsage) error {
	return r.store.write(func(st *state) error {
		k := keyOf(u.ModeratorID, u.Day)
		cur, ok := st.usage[k]
		if !ok {
			return apperror.NewNotFound(ledger.EntityBottleUsage, u.ID)
		}
		if cur.Version != u.Version {
			return apperror.NewConcurrentModification(ledger.EntityBottleUsage, u.ID)
		}
		u.Touch()
		st.usage[k] = *u
		return nil
	})
}

func (r *UsageRepo) Delete(_ context.Context, usageID id.ID) error {
	return r.store.write(func(st *state) error {
		for k, u := range st.usage {
			if u.ID == usageID {
				delete(st.usage, k)
				return nil
			}
		}
		return apperror.NewNotFound(ledger.EntityBottleUsage, usageID)
	})
}

func (r *UsageRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*usage.BottleUsage], error) {
	var items []*usage.BottleUsage
	r.store.read(func(st *state) {
		for _, u := range st.usage {
			if f.ModeratorID != nil && u.ModeratorID != *f.ModeratorID {
				continue
			}
			if !inRange(u.Day, f) {
				continue
			}
			u := u
			items = append(items, &u)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Day.Equal(items[j].Day) {
			return items[i].Day.After(items[j].Day)
		}
		return items[i].ModeratorID.String() < items[j].ModeratorID.String()
	})
	return domain.ListResult[*usage.BottleUsage]{
		Items:      paginate(items, f.Limit, f.Offset),
		TotalCount: int64(len(items)),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

func (r *UsageRepo) ExistsForModerator(_ context.Context, moderatorID id.ID) (bool, error) {
	var exists bool
	r.store.read(func(st *state) {
		for k := range st.usage {
			if k.moderatorID == moderatorID {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (r *UsageRepo) ExistsAfter(_ context.Context, moderatorID id.ID, day types.Day) (bool, error) {
	var exists bool
	r.store.read(func(st *state) {
		for _, u := range st.usage {
			if u.ModeratorID == moderatorID && u.Day.After(day) {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func inRange(day types.Day, f domain.ListFilter) bool {
	if !f.From.IsZero() && day.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && day.After(f.To) {
		return false
	}
	return true
}
