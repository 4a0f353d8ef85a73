package persistence

import (
	"errors"

	"github.com/digiprime/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain errors. Connections are opened
// with TranslateError so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}
