package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"binduty-service/internal/models"
	"binduty-service/internal/store"
)

// Admins stores operator accounts.
type Admins struct {
	store store.Store
}

func NewAdmins(s store.Store) *Admins {
	return &Admins{store: s}
}

// List returns all admins including password hashes.
func (r *Admins) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if _, err := store.GetJSON(ctx, r.store, store.KeyAdmins, &admins); err != nil {
		return nil, fmt.Errorf("failed to load admins: %w", err)
	}
	if admins == nil {
		admins = []models.Admin{}
	}
	return admins, nil
}

// Get returns the admin with id.
func (r *Admins) Get(ctx context.Context, id string) (models.Admin, error) {
	admins, err := r.List(ctx)
	if err != nil {
		return models.Admin{}, err
	}
	for _, a := range admins {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Admin{}, fmt.Errorf("Admin %s not found: %w", id, models.ErrNotFound)
}

// FindByEmail returns the admin with email (case-insensitive).
func (r *Admins) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	admins, err := r.List(ctx)
	if err != nil {
		return models.Admin{}, err
	}
	for _, a := range admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return models.Admin{}, fmt.Errorf("Admin %s not found: %w", email, models.ErrNotFound)
}

// Create stores a new admin. passwordHash must already be hashed.
func (r *Admins) Create(ctx context.Context, email, passwordHash, role string) (models.Admin, error) {
	if !models.ValidRole(role) {
		return models.Admin{}, models.Validationf("unknown role %q", role)
	}
	admin := models.Admin{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		Role:         role,
	}
	err := store.UpdateJSON(ctx, r.store, store.KeyAdmins, func(admins *[]models.Admin) error {
		for _, a := range *admins {
			if strings.EqualFold(a.Email, admin.Email) {
				return fmt.Errorf("Admin with this email already exists: %w", models.ErrConflict)
			}
		}
		*admins = append(*admins, admin)
		return nil
	})
	if err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

// Update changes email, role or password hash of admin id. Empty values keep the current one.
func (r *Admins) Update(ctx context.Context, id, email, passwordHash, role string) (models.Admin, error) {
	if role != "" && !models.ValidRole(role) {
		return models.Admin{}, models.Validationf("unknown role %q", role)
	}
	var updated models.Admin
	err := store.UpdateJSON(ctx, r.store, store.KeyAdmins, func(admins *[]models.Admin) error {
		idx := -1
		for i, a := range *admins {
			if a.ID == id {
				idx = i
				continue
			}
			if email != "" && strings.EqualFold(a.Email, email) {
				return fmt.Errorf("Admin with this email already exists: %w", models.ErrConflict)
			}
		}
		if idx < 0 {
			return fmt.Errorf("Admin %s not found: %w", id, models.ErrNotFound)
		}
		a := (*admins)[idx]
		if email != "" {
			a.Email = strings.TrimSpace(email)
		}
		if role != "" {
			a.Role = role
		}
		if passwordHash != "" {
			a.PasswordHash = passwordHash
		}
		(*admins)[idx] = a
		updated = a
		return nil
	})
	if err != nil {
		return models.Admin{}, err
	}
	return updated, nil
}

// Delete removes admin id and returns it.
func (r *Admins) Delete(ctx context.Context, id string) (models.Admin, error) {
	var removed models.Admin
	err := store.UpdateJSON(ctx, r.store, store.KeyAdmins, func(admins *[]models.Admin) error {
		for i, a := range *admins {
			if a.ID == id {
				removed = a
				*admins = append((*admins)[:i], (*admins)[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("Admin %s not found: %w", id, models.ErrNotFound)
	})
	if err != nil {
		return models.Admin{}, err
	}
	return removed, nil
}
