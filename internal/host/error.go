package host

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHost indicates the FQDN matched no profile in the table.
var ErrUnknownHost = errors.New("unrecognized host")

// UnknownHostError reports a failed FQDN resolution along with the
// hosts the table does know about.
type UnknownHostError struct {
	FQDN  string
	Known []string
}

func (e *UnknownHostError) Error() string {
	return fmt.Sprintf("unrecognized host %q (known hosts: %s)",
		e.FQDN, strings.Join(e.Known, ", "))
}

func (e *UnknownHostError) Unwrap() error {
	return ErrUnknownHost
}

// NewUnknownHostError creates an UnknownHostError.
func NewUnknownHostError(fqdn string, known []string) *UnknownHostError {
	return &UnknownHostError{FQDN: fqdn, Known: known}
}

// IsUnknownHostError checks if an error is an UnknownHostError.
func IsUnknownHostError(err error) bool {
	var uhe *UnknownHostError
	return errors.As(err, &uhe)
}
