package ports

import (
	"context"
	"errors"
)

var ErrCredentialNotFound = errors.New("credential not found")

// CredentialSource resolves a credential reference such as a pass entry name.
type CredentialSource interface {
	Lookup(ctx context.Context, ref string) (string, error)
}
