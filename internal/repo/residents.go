// Package repo holds the typed collections stored as whole documents in
// the key-value store.
package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"binduty-service/internal/models"
	"binduty-service/internal/store"
)

// Residents is the ordered duty rotation. Position 0 is on duty.
type Residents struct {
	store store.Store
}

func NewResidents(s store.Store) *Residents {
	return &Residents{store: s}
}

// List returns the rotation in order, empty if none exist.
func (r *Residents) List(ctx context.Context) ([]models.Resident, error) {
	var flats []models.Resident
	if _, err := store.GetJSON(ctx, r.store, store.KeyResidents, &flats); err != nil {
		return nil, fmt.Errorf("failed to load residents: %w", err)
	}
	if flats == nil {
		flats = []models.Resident{}
	}
	return flats, nil
}

// Get returns the resident with id.
func (r *Residents) Get(ctx context.Context, id string) (models.Resident, error) {
	flats, err := r.List(ctx)
	if err != nil {
		return models.Resident{}, err
	}
	for _, f := range flats {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Resident{}, fmt.Errorf("Resident %s not found: %w", id, models.ErrNotFound)
}

// CurrentDuty returns the resident at position 0.
func (r *Residents) CurrentDuty(ctx context.Context) (models.DutySlot, error) {
	return r.slot(ctx, 0)
}

// NextInRotation returns the resident at position 1.
func (r *Residents) NextInRotation(ctx context.Context) (models.DutySlot, error) {
	return r.slot(ctx, 1)
}

func (r *Residents) slot(ctx context.Context, pos int) (models.DutySlot, error) {
	flats, err := r.List(ctx)
	if err != nil {
		return models.DutySlot{}, err
	}
	if len(flats) <= pos {
		return models.SlotOf(nil), nil
	}
	res := flats[pos]
	return models.SlotOf(&res), nil
}

// Add appends a new resident to the tail of the rotation.
func (r *Residents) Add(ctx context.Context, in models.ResidentCreate) (models.Resident, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Resident{}, models.Validationf("resident name is required")
	}
	res := models.Resident{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(in.Name),
		FlatNumber: strings.TrimSpace(in.FlatNumber),
		Contact:    in.Contact,
		Notes:      in.Notes,
	}
	err := store.UpdateJSON(ctx, r.store, store.KeyResidents, func(flats *[]models.Resident) error {
		*flats = append(*flats, res)
		return nil
	})
	if err != nil {
		return models.Resident{}, fmt.Errorf("failed to add resident: %w", err)
	}
	return res, nil
}

// Insert appends fully formed residents, keeping their ids. Used for seeding.
func (r *Residents) Insert(ctx context.Context, residents ...models.Resident) error {
	return store.UpdateJSON(ctx, r.store, store.KeyResidents, func(flats *[]models.Resident) error {
		for _, res := range residents {
			if res.ID == "" {
				res.ID = uuid.New().String()
			}
			*flats = append(*flats, res)
		}
		return nil
	})
}

// Update applies u to the resident with id and returns the result.
func (r *Residents) Update(ctx context.Context, id string, u models.ResidentUpdate) (models.Resident, error) {
	var updated models.Resident
	err := store.UpdateJSON(ctx, r.store, store.KeyResidents, func(flats *[]models.Resident) error {
		for i, f := range *flats {
			if f.ID == id {
				updated = u.Apply(f)
				(*flats)[i] = updated
				return nil
			}
		}
		return fmt.Errorf("Resident %s not found: %w", id, models.ErrNotFound)
	})
	if err != nil {
		return models.Resident{}, err
	}
	return updated, nil
}

// Delete removes the resident with id and returns it.
func (r *Residents) Delete(ctx context.Context, id string) (models.Resident, error) {
	var removed models.Resident
	err := store.UpdateJSON(ctx, r.store, store.KeyResidents, func(flats *[]models.Resident) error {
		for i, f := range *flats {
			if f.ID == id {
				removed = f
				*flats = append((*flats)[:i], (*flats)[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("Resident %s not found: %w", id, models.ErrNotFound)
	})
	if err != nil {
		return models.Resident{}, err
	}
	return removed, nil
}

// ReplaceOrder persists newOrder as the rotation. The identifier set of
// newOrder must equal the stored one exactly; otherwise a
// *models.ValidationError is returned and nothing is written.
func (r *Residents) ReplaceOrder(ctx context.Context, newOrder []models.Resident) error {
	return store.UpdateJSON(ctx, r.store, store.KeyResidents, func(flats *[]models.Resident) error {
		if !sameIDSet(*flats, newOrder) {
			return models.Validationf("Mismatch in resident list")
		}
		*flats = append(make([]models.Resident, 0, len(newOrder)), newOrder...)
		return nil
	})
}

// ReorderByID rearranges the stored residents to follow ids, keeping the
// stored records. The same set rule as ReplaceOrder applies.
func (r *Residents) ReorderByID(ctx context.Context, ids []string) error {
	return store.UpdateJSON(ctx, r.store, store.KeyResidents, func(flats *[]models.Resident) error {
		byID := make(map[string]models.Resident, len(*flats))
		for _, f := range *flats {
			byID[f.ID] = f
		}
		ordered := make([]models.Resident, 0, len(ids))
		for _, id := range ids {
			ordered = append(ordered, models.Resident{ID: id})
		}
		if !sameIDSet(*flats, ordered) {
			return models.Validationf("Mismatch in resident list")
		}
		for i, id := range ids {
			ordered[i] = byID[id]
		}
		*flats = ordered
		return nil
	})
}

// Advance moves the on-duty resident to the tail. No-op for fewer than
// two residents.
func (r *Residents) Advance(ctx context.Context) error {
	return store.UpdateJSON(ctx, r.store, store.KeyResidents, func(flats *[]models.Resident) error {
		*flats = rotate(*flats)
		return nil
	})
}

// AdvancePast moves the resident with id to the tail, but only while that
// resident still heads the rotation. It reports whether the order changed.
func (r *Residents) AdvancePast(ctx context.Context, id string) (bool, error) {
	advanced := false
	err := store.UpdateJSON(ctx, r.store, store.KeyResidents, func(flats *[]models.Resident) error {
		advanced = false
		if len(*flats) == 0 || (*flats)[0].ID != id {
			return nil
		}
		*flats = rotate(*flats)
		advanced = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return advanced, nil
}

func rotate(flats []models.Resident) []models.Resident {
	if len(flats) < 2 {
		return flats
	}
	out := make([]models.Resident, 0, len(flats))
	out = append(out, flats[1:]...)
	return append(out, flats[0])
}

func sameIDSet(a, b []models.Resident) bool {
	if len(a) != len(b) {
		return false
	}
	ids := func(rs []models.Resident) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		sort.Strings(out)
		return out
	}
	x, y := ids(a), ids(b)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
		if i > 0 && x[i] == x[i-1] {
			return false
		}
	}
	return true
}
