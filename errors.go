package astrology

import "errors"

var (
	// ErrCredentialMismatch indicates the client id and client secret lists
	// passed at construction differ in length.
	ErrCredentialMismatch = errors.New("astrology: client id and client secret counts must match")

	// ErrNoCredentials indicates construction without any credential pair.
	ErrNoCredentials = errors.New("astrology: at least one credential pair is required")

	// ErrAllClientsBlocked indicates every configured credential was
	// rejected with a block or rate-limit signal within one call.
	ErrAllClientsBlocked = errors.New("astrology: all API clients are blocked")
)

// UnavailableError wraps a terminal, non-recoverable failure from the
// current client. The coordinator does not rotate on these.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return "astrology: daily prediction unavailable: " + e.Cause.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
