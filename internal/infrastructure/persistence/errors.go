package persistence

import (
	"errors"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// translateSaveError maps driver-level uniqueness conflicts onto the
// domain sentinel so a lost race behind an exists pre-check surfaces as
// shared.ErrAlreadyExists instead of a raw database error.
func translateSaveError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return shared.ErrAlreadyExists
	}
	return err
}
