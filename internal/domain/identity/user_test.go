package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with valid input", func(t *testing.T) {
		user, err := NewUser("testuser", "test@example.com", "Password123")

		require.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "testuser", user.Username)
		assert.Equal(t, "test@example.com", user.Email)
		assert.NotEmpty(t, user.PasswordHash)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.False(t, user.IsSuperuser)
	})

	t.Run("normalizes username to lowercase", func(t *testing.T) {
		user, err := NewUser("TestUser", "", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
	})

	t.Run("trims username whitespace", func(t *testing.T) {
		user, err := NewUser("  testuser  ", "", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
	})

	t.Run("does not store plaintext password", func(t *testing.T) {
		user, err := NewUser("testuser", "", "Password123")

		require.NoError(t, err)
		assert.NotEqual(t, "Password123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("Password123"))
	})

	t.Run("fails with empty username", func(t *testing.T) {
		_, err := NewUser("", "", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with short username", func(t *testing.T) {
		_, err := NewUser("ab", "", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 3 characters")
	})

	t.Run("fails with invalid username characters", func(t *testing.T) {
		_, err := NewUser("test@user", "", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only contain letters")
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewUser("testuser", "", "short")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		_, err := NewUser("testuser", "not-an-email", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email format")
	})
}

func TestNewSuperuser(t *testing.T) {
	t.Run("creates active superuser", func(t *testing.T) {
		user, err := NewSuperuser("admin", "admin@dropshipping.com", "admin123")

		require.NoError(t, err)
		assert.True(t, user.IsSuperuser)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Equal(t, "admin", user.Username)
		assert.Equal(t, "admin@dropshipping.com", user.Email)
	})

	t.Run("hashes the password", func(t *testing.T) {
		user, err := NewSuperuser("admin", "", "admin123")

		require.NoError(t, err)
		assert.NotEqual(t, "admin123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("admin123"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("accepts short passwords that NewUser rejects", func(t *testing.T) {
		_, err := NewUser("admin", "", "admin123")
		assert.Error(t, err)

		user, err := NewSuperuser("admin", "", "admin123")
		require.NoError(t, err)
		assert.NotNil(t, user)
	})

	t.Run("fails with empty username", func(t *testing.T) {
		_, err := NewSuperuser("", "", "admin123")
		assert.Error(t, err)
	})

	t.Run("fails with empty password", func(t *testing.T) {
		_, err := NewSuperuser("admin", "", "")
		assert.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	t.Run("changes password with correct old password", func(t *testing.T) {
		user, err := NewUser("testuser", "", "Password123")
		require.NoError(t, err)

		err = user.ChangePassword("Password123", "NewPassword456")

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("NewPassword456"))
		assert.False(t, user.VerifyPassword("Password123"))
	})

	t.Run("rejects wrong old password", func(t *testing.T) {
		user, err := NewUser("testuser", "", "Password123")
		require.NoError(t, err)

		err = user.ChangePassword("wrong", "NewPassword456")

		assert.Error(t, err)
		assert.True(t, user.VerifyPassword("Password123"))
	})
}

func TestUser_StatusTransitions(t *testing.T) {
	t.Run("deactivate then activate", func(t *testing.T) {
		user, err := NewUser("testuser", "", "Password123")
		require.NoError(t, err)

		require.NoError(t, user.Deactivate())
		assert.Equal(t, UserStatusDeactivated, user.Status)
		assert.False(t, user.CanLogin())

		require.NoError(t, user.Activate())
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.CanLogin())
	})

	t.Run("activate fails when already active", func(t *testing.T) {
		user, err := NewUser("testuser", "", "Password123")
		require.NoError(t, err)

		assert.Error(t, user.Activate())
	})
}

func TestUser_LoginTracking(t *testing.T) {
	t.Run("locks account after max failed attempts", func(t *testing.T) {
		user, err := NewUser("testuser", "", "Password123")
		require.NoError(t, err)

		locked := false
		for i := 0; i < 5; i++ {
			locked = user.RecordLoginFailure(5, 30*time.Minute)
		}

		assert.True(t, locked)
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock is not considered locked", func(t *testing.T) {
		user, err := NewUser("testuser", "", "Password123")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			user.RecordLoginFailure(5, -time.Minute)
		}

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("successful login resets failed attempts", func(t *testing.T) {
		user, err := NewUser("testuser", "", "Password123")
		require.NoError(t, err)

		user.RecordLoginFailure(5, 30*time.Minute)
		user.RecordLoginSuccess("192.0.2.1")

		assert.Equal(t, 0, user.FailedAttempts)
		assert.Equal(t, "192.0.2.1", user.LastLoginIP)
		assert.NotNil(t, user.LastLoginAt)
	})
}

func TestUser_FullName(t *testing.T) {
	user, err := NewUser("testuser", "", "Password123")
	require.NoError(t, err)

	assert.Equal(t, "testuser", user.FullName())

	user.SetName("Jane", "Doe")
	assert.Equal(t, "Jane Doe", user.FullName())
}
