package codes

import "fmt"

// A Code is an unsigned 32-bit error code.
type Code uint32

const (
	// To add new codes always add them in the end, to not break iota

	// Success indicates no error.
	Success Code = iota

	// InvalidToken is returned when the auth token is invalid or has expired
	InvalidToken

	// Unauthenticated is returned when authentication is needed for execution.
	Unauthenticated

	// BadAuthenticationData is returned when the authentication fails.
	BadAuthenticationData

	// BadInputData is returned when the input parameters are not valid.
	BadInputData

	// Internal is returned when there is an unexpected/undesired problem.
	Internal

	// NotFound is returned when something cannot be found.
	NotFound

	// Denied is returned when the access policy refuses the operation.
	Denied

	// ConfinementViolation is returned when a path resolves outside the
	// storage root.
	ConfinementViolation

	// AlreadyExists is returned when the destination name is taken.
	AlreadyExists

	// InvalidName is returned when a supplied item name is empty or unsafe.
	InvalidName

	// RecursiveTarget is returned when pasting an item into its own descendant.
	RecursiveTarget

	// ForbiddenTarget is returned when the operation targets the storage root itself.
	ForbiddenTarget

	// CorruptArchive is returned when a zip archive cannot be read.
	CorruptArchive
)

// String returns a string representation of the Code
func (c Code) String() string {
	switch c {
	case InvalidToken:
		return "invalid or expired token"
	case Unauthenticated:
		return "unauthenticated request"
	case BadAuthenticationData:
		return "bad authentication data"
	case BadInputData:
		return "bad input data"
	case Internal:
		return "internal error"
	case NotFound:
		return "not found"
	case Denied:
		return "permission denied"
	case ConfinementViolation:
		return "path outside the storage root"
	case AlreadyExists:
		return "already exists"
	case InvalidName:
		return "invalid name"
	case RecursiveTarget:
		return "target is inside the source"
	case ForbiddenTarget:
		return "operation not allowed on this target"
	case CorruptArchive:
		return "corrupted or invalid archive"
	default:
		return "FIXME: this should be a helpful message"
	}
}

// An Err reports more details on an individual error.
type Err struct {
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

// Error() implements the Error interface.
func (e *Err) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewErr is a useful function to create Errs with the corresponding Code message.
// If no message is passed, the default code message will be used.
func NewErr(c Code, msg string) *Err {
	if msg == "" {
		msg = c.String()
	}
	return &Err{msg, c}
}
