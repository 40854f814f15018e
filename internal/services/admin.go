package services

import (
	"context"
	"fmt"
	"strings"

	"binduty-service/internal/auth"
	"binduty-service/internal/models"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string       `json:"token"`
	User  models.Admin `json:"user"`
}

// Login checks credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("Could not verify: %w", models.ErrUnauthorized)
	}
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil || !auth.CheckPassword(admin.PasswordHash, password) {
		return LoginResult{}, fmt.Errorf("Invalid credentials: %w", models.ErrUnauthorized)
	}
	token, err := s.tokens.Generate(admin.ID, admin.Role)
	if err != nil {
		return LoginResult{}, err
	}
	s.logger.Infof("Admin %s logged in", admin.Email)
	return LoginResult{Token: token, User: admin.Safe()}, nil
}

// Authenticate resolves a token to the current admin record.
func (s *Service) Authenticate(ctx context.Context, token string) (models.Admin, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return models.Admin{}, fmt.Errorf("Invalid token: %w", models.ErrUnauthorized)
	}
	admin, err := s.admins.Get(ctx, claims.AdminID)
	if err != nil {
		return models.Admin{}, fmt.Errorf("Invalid token: %w", models.ErrUnauthorized)
	}
	return admin.Safe(), nil
}

// ListAdmins returns all admins without password hashes.
func (s *Service) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range admins {
		admins[i] = admins[i].Safe()
	}
	return admins, nil
}

// CreateAdmin adds an admin account.
func (s *Service) CreateAdmin(ctx context.Context, actor string, in models.AdminCreate) (models.Admin, error) {
	if in.Email == "" || in.Password == "" || in.Role == "" {
		return models.Admin{}, models.Validationf("Email, password, and role are required")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.Admin{}, err
	}
	admin, err := s.admins.Create(ctx, in.Email, hash, in.Role)
	if err != nil {
		return models.Admin{}, err
	}
	s.log(ctx, actor, fmt.Sprintf("Admin Created: %s with role %s", admin.Email, admin.Role))
	return admin.Safe(), nil
}

// UpdateAdmin changes email, password or role of admin id.
func (s *Service) UpdateAdmin(ctx context.Context, actor, id string, in models.AdminUpdate) (models.Admin, error) {
	var hash string
	if in.Password != "" {
		h, err := auth.HashPassword(in.Password)
		if err != nil {
			return models.Admin{}, err
		}
		hash = h
	}
	admin, err := s.admins.Update(ctx, id, in.Email, hash, in.Role)
	if err != nil {
		return models.Admin{}, err
	}
	s.log(ctx, actor, "Admin Updated: "+admin.Email)
	return admin.Safe(), nil
}

// DeleteAdmin removes admin id. Admins cannot delete themselves.
func (s *Service) DeleteAdmin(ctx context.Context, actor models.Admin, id string) error {
	if actor.ID == id {
		return fmt.Errorf("Cannot delete yourself: %w", models.ErrForbidden)
	}
	admin, err := s.admins.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.log(ctx, actor.Email, "Admin Deleted: "+admin.Email)
	return nil
}

// Settings returns the settings blob merged with the pause flag.
func (s *Service) Settings(ctx context.Context) (models.SettingsView, error) {
	return s.settings.View(ctx)
}

// UpdateSettings shallow-merges patch into the settings.
func (s *Service) UpdateSettings(ctx context.Context, actor string, patch models.SettingsPatch) (models.SettingsView, error) {
	view, keys, err := s.settings.Merge(ctx, patch)
	if err != nil {
		return models.SettingsView{}, err
	}
	if patch.RemindersPaused != nil {
		keys = append(keys, "reminders_paused")
	}
	s.log(ctx, actor, "Settings Updated: "+strings.Join(keys, ", "))
	return view, nil
}

// Logs returns the audit log, newest first.
func (s *Service) Logs(ctx context.Context) ([]models.AuditEntry, error) {
	return s.audit.List(ctx)
}

// DeleteLogs removes entries by id and by rendered text and returns how many were removed.
func (s *Service) DeleteLogs(ctx context.Context, actor string, ids, texts []string) (int, error) {
	if len(ids) == 0 && len(texts) == 0 {
		return 0, models.Validationf("Log entries to delete are required")
	}
	total := 0
	if len(ids) > 0 {
		n, err := s.audit.DeleteByID(ctx, ids)
		if err != nil {
			return 0, err
		}
		total += n
	}
	if len(texts) > 0 {
		n, err := s.audit.DeleteByText(ctx, texts)
		if err != nil {
			return total, err
		}
		total += n
	}
	s.log(ctx, actor, fmt.Sprintf("Deleted %d log entries", total))
	return total, nil
}

// History returns the communication history, newest first.
func (s *Service) History(ctx context.Context) ([]models.HistoryEntry, error) {
	return s.history.List(ctx)
}
