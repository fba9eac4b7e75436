package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserNotFound is returned when a lookup by ID, username or email
	// produces no user record.
	ErrUserNotFound = errors.New("user was not found")

	// ErrUsernameTaken is returned when an attempt to register a new user
	// fails because a user with the same username already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken is returned when an attempt to register a new user
	// fails because a user with the same email already exists.
	ErrEmailTaken = errors.New("email already exists")

	// ErrModelNotFound is returned when a query or mutation targets a model
	// that does not exist in the store.
	ErrModelNotFound = errors.New("model was not found")

	// ErrSettingNotFound is returned when no settings record exists for the
	// given model. Read paths translate it into an all-defaults value; it is
	// never surfaced to API callers.
	ErrSettingNotFound = errors.New("model settings were not found")

	// ErrHotspotNotFound is returned when an update or delete matches zero
	// hotspot rows under the given (model, hotspot) pair. A hotspot ID that
	// exists under a different model still yields this error.
	ErrHotspotNotFound = errors.New("hotspot was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommittingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning a result row into the target
	// record fails.
	ErrScanningRow = errors.New("error scanning row")
)
