package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dropship/backend/internal/domain/identity"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/infrastructure/config"
)

// State tracks how far the startup sequence has progressed
type State string

const (
	StateUninitialized     State = "uninitialized"
	StateMigrationsApplied State = "migrations_applied"
	StateAdminEnsured      State = "admin_ensured"
)

// Migrator applies pending schema migrations
type Migrator interface {
	Up() error
}

// Sequencer prepares a fresh or existing database for serving: it
// applies migrations, then makes sure exactly one admin account exists.
// Running it repeatedly against the same database is safe.
type Sequencer struct {
	migrator Migrator
	users    identity.UserRepository
	cfg      *config.Config
	logger   *zap.Logger
	state    State
}

// NewSequencer creates a Sequencer in the uninitialized state
func NewSequencer(migrator Migrator, users identity.UserRepository, cfg *config.Config, logger *zap.Logger) *Sequencer {
	return &Sequencer{
		migrator: migrator,
		users:    users,
		cfg:      cfg,
		logger:   logger.Named("bootstrap"),
		state:    StateUninitialized,
	}
}

// State returns the current sequence state
func (s *Sequencer) State() State {
	return s.state
}

// Run executes the startup sequence. A migration failure aborts before
// the admin step so an account is never seeded into a half-migrated
// schema.
func (s *Sequencer) Run(ctx context.Context) error {
	s.logger.Info("Starting bootstrap sequence", zap.String("env", s.cfg.App.Env))

	if err := s.migrator.Up(); err != nil {
		return fmt.Errorf("bootstrap aborted, migrations failed: %w", err)
	}
	s.state = StateMigrationsApplied

	if err := s.ensureAdmin(ctx); err != nil {
		return fmt.Errorf("bootstrap aborted, admin setup failed: %w", err)
	}
	s.state = StateAdminEnsured

	s.logger.Info("Bootstrap sequence completed")
	return nil
}

// ensureAdmin creates the admin account on first run. An existing
// account with the configured username is left completely untouched:
// its password is NOT rotated when ADMIN_PASSWORD changes, because the
// database is the source of truth after first boot.
func (s *Sequencer) ensureAdmin(ctx context.Context) error {
	// Accounts are stored with lowercased usernames, so the lookup has
	// to match a mixed-case ADMIN_USERNAME against the stored form.
	username := strings.ToLower(strings.TrimSpace(s.cfg.Admin.Username))

	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		s.logger.Info("Admin account already exists, leaving it unchanged",
			zap.String("username", existing.Username),
		)
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	if s.cfg.UsesDefaultAdminPassword() && !s.cfg.IsDevelopment() {
		s.logger.Warn("Admin account uses the default password outside development; set ADMIN_PASSWORD",
			zap.String("username", username),
			zap.String("env", s.cfg.App.Env),
		)
	}

	admin, err := identity.NewSuperuser(username, s.cfg.Admin.Email, s.cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("invalid admin account settings: %w", err)
	}

	if err := s.users.Save(ctx, admin); err != nil {
		// A concurrent replica may have won the race; the account
		// exists either way, which is all this step guarantees.
		if isUniqueViolation(err) {
			s.logger.Warn("Admin account was created concurrently, continuing",
				zap.String("username", username),
			)
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.logger.Info("Admin account created",
		zap.String("username", admin.Username),
		zap.String("email", admin.Email),
	)
	return nil
}

// isUniqueViolation reports whether err is a uniqueness conflict from
// the database
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, shared.ErrAlreadyExists) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 23505 = unique_violation
		return pqErr.Code == "23505"
	}
	return false
}
