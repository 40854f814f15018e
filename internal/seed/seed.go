// Package seed loads initial admins, residents and settings from a YAML file.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"binduty-service/internal/auth"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/internal/repo"
	"binduty-service/internal/store"
)

// Admin is a seeded account. Password is plain text and hashed on apply.
type Admin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// File models the seed document.
type File struct {
	Admins    []Admin           `yaml:"admins"`
	Residents []models.Resident `yaml:"residents"`
	Settings  *models.Settings  `yaml:"settings"`
}

// Load reads and parses the seed file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("seed: parse %s: %w", path, err)
	}
	for i, a := range f.Admins {
		if a.Email == "" || a.Password == "" {
			return File{}, fmt.Errorf("seed: admin %d needs email and password", i)
		}
		if a.Role == "" {
			f.Admins[i].Role = models.RoleSuperuser
		} else if !models.ValidRole(a.Role) {
			return File{}, fmt.Errorf("seed: admin %s has unknown role %q", a.Email, a.Role)
		}
	}
	return f, nil
}

// Apply writes each section whose key is still absent. Existing data is never touched.
func Apply(ctx context.Context, s store.Store, f File, logger *logging.Logger) error {
	if len(f.Admins) > 0 {
		empty, err := absent(ctx, s, store.KeyAdmins)
		if err != nil {
			return err
		}
		if empty {
			admins := repo.NewAdmins(s)
			for _, a := range f.Admins {
				hash, err := auth.HashPassword(a.Password)
				if err != nil {
					return fmt.Errorf("seed: hash password for %s: %w", a.Email, err)
				}
				if _, err := admins.Create(ctx, a.Email, hash, a.Role); err != nil {
					return fmt.Errorf("seed: admin %s: %w", a.Email, err)
				}
			}
			logger.Infof("Seeded %d admins", len(f.Admins))
		}
	}

	if len(f.Residents) > 0 {
		empty, err := absent(ctx, s, store.KeyResidents)
		if err != nil {
			return err
		}
		if empty {
			if err := repo.NewResidents(s).Insert(ctx, f.Residents...); err != nil {
				return fmt.Errorf("seed: residents: %w", err)
			}
			logger.Infof("Seeded %d residents", len(f.Residents))
		}
	}

	if f.Settings != nil {
		empty, err := absent(ctx, s, store.KeySettings)
		if err != nil {
			return err
		}
		if empty {
			if err := repo.NewSettings(s).Replace(ctx, *f.Settings); err != nil {
				return fmt.Errorf("seed: settings: %w", err)
			}
			logger.Info("Seeded settings")
		}
	}
	return nil
}

func absent(ctx context.Context, s store.Store, key string) (bool, error) {
	_, found, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("seed: read %s: %w", key, err)
	}
	return !found, nil
}
