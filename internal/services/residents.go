package services

import (
	"context"

	"binduty-service/internal/models"
)

// ListResidents returns the rotation in duty order.
func (s *Service) ListResidents(ctx context.Context) ([]models.Resident, error) {
	return s.residents.List(ctx)
}

// AddResident appends a resident to the end of the rotation.
func (s *Service) AddResident(ctx context.Context, actor string, in models.ResidentCreate) (models.Resident, error) {
	r, err := s.residents.Add(ctx, in)
	if err != nil {
		return models.Resident{}, err
	}
	s.log(ctx, actor, "Resident Added: "+r.Name)
	return r, nil
}

// UpdateResident applies the non-empty fields of u to resident id.
func (s *Service) UpdateResident(ctx context.Context, actor, id string, u models.ResidentUpdate) (models.Resident, error) {
	r, err := s.residents.Update(ctx, id, u)
	if err != nil {
		return models.Resident{}, err
	}
	s.log(ctx, actor, "Resident Updated: "+r.Name)
	return r, nil
}

// DeleteResident removes resident id from the rotation.
func (s *Service) DeleteResident(ctx context.Context, actor, id string) error {
	r, err := s.residents.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.log(ctx, actor, "Resident Deleted: "+r.Name)
	return nil
}

// ReorderResidents replaces the duty order. order must be a permutation of the current rotation.
func (s *Service) ReorderResidents(ctx context.Context, actor string, order []models.Resident) error {
	if err := s.residents.ReplaceOrder(ctx, order); err != nil {
		return err
	}
	s.log(ctx, actor, "Resident duty order updated")
	return nil
}
