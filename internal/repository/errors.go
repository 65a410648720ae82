package repository

import (
	"errors"
	"fmt"

	"github.com/my-academia/academia-service/internal/apperr"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the apperr taxonomy. op describes the
// failed operation for internal errors.
func translate(err error, op, notFoundMsg, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFoundMsg, err)
	case errors.Is(err, gorm.ErrDuplicatedKey) && conflictMsg != "":
		return apperr.Conflict(conflictMsg, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.NotFound(notFoundMsg, err)
	default:
		return apperr.Internal(fmt.Errorf("failed to %s: %w", op, err))
	}
}
