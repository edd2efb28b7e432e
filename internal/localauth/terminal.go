// Package localauth is the desktop stand-in for the mobile biometric
// prompt: a device-local passcode checked against a bcrypt hash kept in
// the key-value store. Passing it re-opens a session that the startup
// silent refresh already vouched for; it never talks to the backend.
package localauth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"budgets/internal/log"
)

const passcodeHashItem = "local_passcode_hash"

// ErrNotEnrolled means no passcode has been set on this device.
var ErrNotEnrolled = errors.New("no local passcode enrolled")

// ItemStore is the slice of storage the authenticator needs.
type ItemStore interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
}

// TerminalAuthenticator prompts for the passcode on the controlling
// terminal.
type TerminalAuthenticator struct {
	store  ItemStore
	logger *log.Logger
}

func NewTerminalAuthenticator(store ItemStore, logger *log.Logger) *TerminalAuthenticator {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &TerminalAuthenticator{
		store:  store,
		logger: logger.WithComponent(log.ComponentLocalAuth),
	}
}

// Enroll hashes and stores the device passcode.
func (a *TerminalAuthenticator) Enroll(ctx context.Context, passcode string) error {
	if len(passcode) < 4 {
		return errors.New("passcode must be at least 4 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash passcode: %w", err)
	}
	return a.store.SetItem(ctx, passcodeHashItem, string(hash))
}

// Authenticate prompts for the passcode and compares it against the
// enrolled hash. A missing enrollment is an error so the caller falls
// back to the full login flow.
func (a *TerminalAuthenticator) Authenticate(ctx context.Context) (bool, error) {
	hash, err := a.store.GetItem(ctx, passcodeHashItem)
	if err != nil {
		return false, err
	}
	if hash == "" {
		return false, ErrNotEnrolled
	}

	fmt.Fprint(os.Stderr, "Passcode: ")
	passcode, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return false, fmt.Errorf("read passcode: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), passcode); err != nil {
		a.logger.DebugContext(ctx, "Passcode mismatch")
		return false, nil
	}
	return true, nil
}
