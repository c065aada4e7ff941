package services

import (
	"errors"
	"math"

	apperrors "buildledger/internal/errors"
	"buildledger/internal/repository"
)

// storeErr maps a repository error onto the API taxonomy. AppErrors pass
// through untouched, a missing record becomes notFound and anything else is
// a persistence failure.
func storeErr(err error, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if notFound != nil && errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrPersistence, err)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validAmount(v float64) bool {
	return v > 0 && isFinite(v)
}

func invalidInput(message string) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, message)
}
