package service

import (
	"errors"

	"github.com/foxafamily/community/internal/domain"
)

// storeOrAppError passes domain errors from the repository layer through
// unchanged and wraps everything else as a store failure.
func storeOrAppError(op string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.ErrStore(op, err)
}
