package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropship/backend/internal/domain/identity"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/infrastructure/config"
)

type stubMigrator struct {
	err   error
	calls int
}

func (m *stubMigrator) Up() error {
	m.calls++
	return m.err
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func testConfig(env, password string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "dropship-backend", Env: env, Port: "8000"},
		Admin: config.AdminConfig{
			Username: config.DefaultAdminUsername,
			Email:    config.DefaultAdminEmail,
			Password: password,
		},
	}
}

func TestSequencer_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh database creates admin once", func(t *testing.T) {
		migrator := &stubMigrator{}
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "admin").Return(nil, shared.ErrNotFound)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		seq := NewSequencer(migrator, users, testConfig("development", "admin123"), zap.NewNop())

		require.NoError(t, seq.Run(ctx))

		assert.Equal(t, StateAdminEnsured, seq.State())
		assert.Equal(t, 1, migrator.calls)
		users.AssertExpectations(t)

		// Created account is a superuser with a hashed password
		created := users.Calls[1].Arguments.Get(1).(*identity.User)
		assert.True(t, created.IsSuperuser)
		assert.Equal(t, "admin", created.Username)
		assert.Equal(t, "admin@dropshipping.com", created.Email)
		assert.NotEqual(t, "admin123", created.PasswordHash)
		assert.True(t, created.VerifyPassword("admin123"))
	})

	t.Run("second run leaves existing admin untouched", func(t *testing.T) {
		existing, err := identity.NewSuperuser("admin", "admin@dropshipping.com", "original-password")
		require.NoError(t, err)

		migrator := &stubMigrator{}
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "admin").Return(existing, nil)

		// Re-run with a different ADMIN_PASSWORD; the stored password
		// must not change.
		seq := NewSequencer(migrator, users, testConfig("development", "different-password"), zap.NewNop())

		require.NoError(t, seq.Run(ctx))

		assert.Equal(t, StateAdminEnsured, seq.State())
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.True(t, existing.VerifyPassword("original-password"))
	})

	t.Run("mixed-case username still finds the existing admin", func(t *testing.T) {
		existing, err := identity.NewSuperuser("admin", "admin@dropshipping.com", "original-password")
		require.NoError(t, err)

		migrator := &stubMigrator{}
		users := new(MockUserRepository)
		// Accounts are stored lowercased, so the lookup must be too.
		users.On("FindByUsername", ctx, "admin").Return(existing, nil)

		cfg := testConfig("development", "admin123")
		cfg.Admin.Username = " Admin "

		seq := NewSequencer(migrator, users, cfg, zap.NewNop())

		require.NoError(t, seq.Run(ctx))
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("migration failure aborts before admin step", func(t *testing.T) {
		migrator := &stubMigrator{err: errors.New("dirty database version 3")}
		users := new(MockUserRepository)

		seq := NewSequencer(migrator, users, testConfig("development", "admin123"), zap.NewNop())

		err := seq.Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migrations failed")
		assert.Equal(t, StateUninitialized, seq.State())
		users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})

	t.Run("uniqueness conflict on create is not fatal", func(t *testing.T) {
		migrator := &stubMigrator{}
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "admin").Return(nil, shared.ErrNotFound)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).
			Return(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		seq := NewSequencer(migrator, users, testConfig("development", "admin123"), zap.NewNop())

		require.NoError(t, seq.Run(ctx))
		assert.Equal(t, StateAdminEnsured, seq.State())
	})

	t.Run("other save errors are fatal", func(t *testing.T) {
		migrator := &stubMigrator{}
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "admin").Return(nil, shared.ErrNotFound)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).
			Return(errors.New("connection reset by peer"))

		seq := NewSequencer(migrator, users, testConfig("development", "admin123"), zap.NewNop())

		err := seq.Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "admin setup failed")
	})

	t.Run("lookup errors other than not-found are fatal", func(t *testing.T) {
		migrator := &stubMigrator{}
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "admin").Return(nil, errors.New("connection refused"))

		seq := NewSequencer(migrator, users, testConfig("development", "admin123"), zap.NewNop())

		err := seq.Run(ctx)
		require.Error(t, err)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSequencer_DefaultPasswordWarning(t *testing.T) {
	ctx := context.Background()

	runWithLogs := func(t *testing.T, env, password string) *observer.ObservedLogs {
		t.Helper()
		core, logs := observer.New(zap.DebugLevel)

		migrator := &stubMigrator{}
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "admin").Return(nil, shared.ErrNotFound)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		seq := NewSequencer(migrator, users, testConfig(env, password), zap.New(core))
		require.NoError(t, seq.Run(ctx))
		return logs
	}

	t.Run("warns on default password outside development", func(t *testing.T) {
		logs := runWithLogs(t, "production", config.DefaultAdminPassword)

		warnings := logs.FilterLevelExact(zap.WarnLevel)
		require.Equal(t, 1, warnings.Len())
		assert.Contains(t, warnings.All()[0].Message, "default password")
	})

	t.Run("no warning in development", func(t *testing.T) {
		logs := runWithLogs(t, "development", config.DefaultAdminPassword)
		assert.Equal(t, 0, logs.FilterLevelExact(zap.WarnLevel).Len())
	})

	t.Run("no warning with a custom password", func(t *testing.T) {
		logs := runWithLogs(t, "production", "a-strong-password")
		assert.Equal(t, 0, logs.FilterLevelExact(zap.WarnLevel).Len())
	})

	t.Run("password never appears in log output", func(t *testing.T) {
		const secret = "super-secret-admin-pw"
		logs := runWithLogs(t, "production", secret)

		for _, entry := range logs.All() {
			assert.NotContains(t, entry.Message, secret)
			for _, field := range entry.Context {
				assert.NotContains(t, field.String, secret)
			}
		}
	})
}
