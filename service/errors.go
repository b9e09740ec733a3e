package service

import (
	"github.com/pkg/errors"

	"bundle-manager/repository"
	"bundle-manager/utils"
)

var (
	// ErrBundleNotFound is returned when the bundle does not exist in the shop
	ErrBundleNotFound = repository.ErrBundleNotFound
	// ErrInvalidBundleType is returned for a type other than SIMPLE or INFINITE_OPTIONS
	ErrInvalidBundleType = errors.New("Invalid bundle type provided")
	// ErrInvalidTitle is returned for an empty or too long title
	ErrInvalidTitle = errors.New("Bundle title is required")
	// ErrInvalidStatus is returned for a status other than ACTIVE, INACTIVE or DRAFT
	ErrInvalidStatus = errors.New("Invalid bundle status")
	// ErrInvalidBuildOption is returned for a build option other than quick or manual
	ErrInvalidBuildOption = errors.New("Invalid build option")
	// ErrInvalidPrice is returned for a price that cannot be parsed
	ErrInvalidPrice = utils.ErrInvalidPrice
	// ErrImportDisabled is returned when no Drive credentials are configured
	ErrImportDisabled = errors.New("bulk import is not configured")
)

// PersistError is returned when the platform product was created but the
// bundle row could not be saved
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return "Failed to save bundle in database: " + e.Err.Error()
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
