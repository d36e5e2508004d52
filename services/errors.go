package services

import "errors"

var (
	// ErrDirectory covers any failure of the user directory (create or lookup).
	ErrDirectory = errors.New("user directory error")

	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail error = duplicateEmailError{}

	ErrNotFound       = errors.New("user not found")
	ErrBadCredentials = errors.New("incorrect password")
	ErrInvalidInput   = errors.New("invalid input")

	// ErrGateway is returned when the checkout link could not be created.
	ErrGateway = errors.New("payment gateway error")

	// ErrPersistence is returned when a placed order could not be saved.
	ErrPersistence = errors.New("order store error")
)

type duplicateEmailError struct{}

func (duplicateEmailError) Error() string { return "email already registered" }

// Is lets errors.Is(ErrDuplicateEmail, ErrDirectory) hold.
func (duplicateEmailError) Is(target error) bool { return target == ErrDirectory }

// IsCredentialError reports a missing account or a wrong password.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrBadCredentials)
}
