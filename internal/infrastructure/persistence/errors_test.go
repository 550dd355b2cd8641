package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateSaveError(t *testing.T) {
	t.Run("maps a unique violation to ErrAlreadyExists", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23505", Constraint: "users_username_key"}

		err := translateSaveError(fmt.Errorf("insert failed: %w", pqErr))

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("maps gorm's duplicated key error", func(t *testing.T) {
		err := translateSaveError(gorm.ErrDuplicatedKey)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("passes other errors through", func(t *testing.T) {
		cause := errors.New("connection refused")
		assert.Equal(t, cause, translateSaveError(cause))
	})

	t.Run("other pq codes are not conflicts", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23503"}
		assert.NotErrorIs(t, translateSaveError(pqErr), shared.ErrAlreadyExists)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateSaveError(nil))
	})
}
