package session

import (
	"context"
	"errors"
	"sync"

	"budgets/internal/api"
	"budgets/internal/log"
	"budgets/internal/security"
)

// AuthAPI is the slice of the API layer the manager drives.
type AuthAPI interface {
	Login(ctx context.Context, email, phoneNumber, password string) (api.LoginOutcome, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Challenge(ctx context.Context, req api.ChallengeRequest) error
	ConfirmChallenge(ctx context.Context, code int) error
	Refresh(ctx context.Context) error
	UpdatePassword(ctx context.Context, password string) error
}

// Manager is the single source of truth for authentication state. Every
// state-mutating operation serializes through one mutex so concurrent
// calls (login racing logout, for instance) cannot interleave transitions;
// state is never left partially mutated on an unexpected error.
type Manager struct {
	mu       sync.Mutex
	state    State
	verified bool

	auth   AuthAPI
	store  CredentialStore
	local  LocalAuthenticator
	cache  CacheClearer
	notify Notifier
	logger *log.Logger
}

// NewManager wires the manager's collaborators. The initial state is
// Verifying until Verify runs.
func NewManager(auth AuthAPI, store CredentialStore, local LocalAuthenticator, cache CacheClearer, notify Notifier, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Manager{
		state:  Verifying,
		auth:   auth,
		store:  store,
		local:  local,
		cache:  cache,
		notify: notify,
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Verify runs the startup silent token refresh. Success marks the session
// verified for this process, which is what later permits local
// authentication. Failures of any kind (including an absent refresh
// token) are logged and swallowed: the state always lands on SignedOut,
// never stuck on Verifying, and no error reaches the caller.
func (m *Manager) Verify(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.auth.Refresh(ctx); err != nil {
		m.logger.WarnContext(ctx, "Silent refresh failed", log.FieldError, err)
	} else {
		m.verified = true
	}
	m.state = SignedOut
}

// TryLocalAuthentication asks the platform capability to re-authenticate
// the local user. It only applies when the startup refresh succeeded this
// process run; otherwise the full login flow is required.
func (m *Manager) TryLocalAuthentication(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.verified {
		return false
	}
	ok, err := m.local.Authenticate(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "Local authentication failed", log.FieldError, err)
		return false
	}
	if !ok {
		return false
	}
	m.state = SignedIn
	return true
}

// Login exchanges credentials for a session. Expected failures come back
// as field errors on the result; anything else raises a generic notice and
// leaves the state untouched. A success against an unverified email stays
// SignedOut and flags that the confirmation flow must run.
func (m *Manager) Login(ctx context.Context, req LoginRequest) LoginResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	outcome, err := m.auth.Login(ctx, req.Email, req.PhoneNumber, security.Obfuscate(req.Password))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return LoginResult{PasswordError: "Incorrect password"}
		}
		if errors.Is(err, api.ErrNotFound) {
			return LoginResult{EmailError: "No user found with this email"}
		}
		m.logger.ErrorContext(ctx, "Login failed", log.FieldError, err)
		m.notify.Notify("Unable to log in",
			"We're having trouble logging you in. Please try again later.")
		return LoginResult{}
	}

	if !outcome.IsEmailVerified {
		return LoginResult{Valid: true, VerificationEmailSent: true}
	}
	m.state = SignedIn
	return LoginResult{Valid: true}
}

// Register creates an account. The backend answers with an email
// verification challenge; confirmation happens via
// ConfirmEmailVerification.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) RegisterResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.auth.Register(ctx, api.RegisterRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    security.Obfuscate(req.Password),
	})
	if err != nil {
		if errors.Is(err, api.ErrAlreadyExists) {
			return RegisterResult{EmailError: "A user already exists with this email address"}
		}
		m.logger.ErrorContext(ctx, "Registration failed", log.FieldError, err)
		m.notify.Notify("Unable to create account",
			"We're having trouble creating your account. Please try again later.")
		return RegisterResult{}
	}
	return RegisterResult{Valid: true}
}

// ForgotPassword issues a password-reset challenge. Session state is
// untouched either way.
func (m *Manager) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.auth.Challenge(ctx, api.ChallengeRequest{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Type:        api.ChallengePasswordReset,
	})
	if err != nil {
		m.logger.ErrorContext(ctx, "Password reset challenge failed", log.FieldError, err)
		m.notify.Notify("Unable to confirm your email",
			"We're having trouble verifying your email. Please try again later.")
		return false
	}
	return true
}

// ConfirmEmailVerification redeems a pending email-verification code and
// signs the user in. A wrong or expired code returns false with no notice.
func (m *Manager) ConfirmEmailVerification(ctx context.Context, code int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.confirmChallenge(ctx, code) {
		return false
	}
	m.state = SignedIn
	return true
}

// ConfirmPasswordReset redeems a pending password-reset code. It does not
// transition state: a reset still requires an explicit password update.
func (m *Manager) ConfirmPasswordReset(ctx context.Context, code int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirmChallenge(ctx, code)
}

func (m *Manager) confirmChallenge(ctx context.Context, code int) bool {
	err := m.auth.ConfirmChallenge(ctx, code)
	if err == nil {
		return true
	}
	if errors.Is(err, api.ErrUnauthorized) {
		// Wrong or expired code; the form shows its own field error.
		return false
	}
	m.logger.ErrorContext(ctx, "Challenge confirmation failed", log.FieldError, err)
	m.notify.Notify("Unable to confirm your email",
		"We're having trouble confirming your email. Please try again later.")
	return false
}

// UpdatePassword sets a new password in an authenticated context and signs
// the user in (idempotent if already signed in).
func (m *Manager) UpdatePassword(ctx context.Context, password string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.auth.UpdatePassword(ctx, security.Obfuscate(password))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return false
		}
		m.logger.ErrorContext(ctx, "Password update failed", log.FieldError, err)
		m.notify.Notify("Unable to update password",
			"We're having trouble updating your password. Please try again later.")
		return false
	}
	m.state = SignedIn
	return true
}

// Logout clears the local cache and every persisted credential key, resets
// the verified flag and lands on SignedOut. Safe to call repeatedly.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cache != nil {
		m.cache.ClearCache()
	}
	if err := m.store.DeleteAll(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to clear stored credentials", log.FieldError, err)
	}
	m.verified = false
	m.state = SignedOut
	m.logger.InfoContext(ctx, "Signed out", log.FieldSessionState, m.state.String())
}
