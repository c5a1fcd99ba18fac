package usecase

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")

	ErrAlreadyApplied       = errors.New("application already exists")
	ErrAlreadyResolved      = errors.New("couple application already resolved")
	ErrCoupleRequired       = errors.New("job accepts couple applications only")
	ErrJobNotCoupleFriendly = errors.New("job does not accept couple applications")
	ErrNotLinkedCouple      = errors.New("candidates are not a linked couple")
)
