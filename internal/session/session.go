// Package session owns authentication state for the running app: the
// Verifying/SignedOut/SignedIn machine, the login and challenge flows, and
// every credential-mutating call. The presentation layer queries it and
// renders; it never renders anything itself.
package session

import "context"

// State is the authentication state the presentation layer keys off.
type State int

const (
	// Verifying is the initial state while the startup silent refresh runs.
	Verifying State = iota
	// SignedOut means no authenticated session; login or local auth required.
	SignedOut
	// SignedIn means a valid credential bundle is held.
	SignedIn
)

func (s State) String() string {
	switch s {
	case Verifying:
		return "verifying"
	case SignedOut:
		return "signed_out"
	case SignedIn:
		return "signed_in"
	default:
		return "unknown"
	}
}

type (
	// LoginRequest carries raw credentials from the login form. Either
	// email or phone number identifies the account.
	LoginRequest struct {
		Email       string
		PhoneNumber string
		Password    string
	}

	// RegisterRequest carries the registration form.
	RegisterRequest struct {
		FirstName   string
		LastName    string
		Email       string
		PhoneNumber string
		Password    string
	}

	// ForgotPasswordRequest identifies the account to reset.
	ForgotPasswordRequest struct {
		Email       string
		PhoneNumber string
	}

	// LoginResult is the structured, form-facing outcome of a login
	// attempt. Expected auth failures land in the field errors and are
	// never surfaced as Go errors.
	LoginResult struct {
		Valid                 bool
		VerificationEmailSent bool
		EmailError            string
		PasswordError         string
	}

	// RegisterResult is the structured outcome of a registration attempt.
	RegisterResult struct {
		Valid      bool
		EmailError string
	}
)

// CredentialStore is the slice of persistent storage the manager clears on
// logout. The API layer owns writing into it.
type CredentialStore interface {
	DeleteAll(ctx context.Context) error
}

// LocalAuthenticator is the platform biometric/passcode capability.
// Authenticate reports whether the local user passed the prompt.
type LocalAuthenticator interface {
	Authenticate(ctx context.Context) (bool, error)
}

// CacheClearer drops locally cached backend data on logout.
type CacheClearer interface {
	ClearCache()
}

// Notifier shows a generic user-facing notice for failures that have no
// field-level meaning.
type Notifier interface {
	Notify(title, message string)
}
