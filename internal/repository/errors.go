package repository

import "errors"

// Sentinel errors shared by the repositories.  Handlers translate these
// into HTTP statuses: ErrTicketNotFound and ErrUserNotFound become 404,
// ErrEmailExists becomes 409.

// ErrEmailExists is returned when an insert or update would violate the
// unique constraint on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches the requested
// id or email.
var ErrUserNotFound = errors.New("user not found")

// ErrTicketNotFound is returned when a ticket does not exist or does not
// belong to the requesting user.  The two cases are deliberately not
// distinguished so that owner scoping never leaks the existence of other
// users' tickets.
var ErrTicketNotFound = errors.New("ticket not found")
