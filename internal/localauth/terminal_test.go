package localauth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/require"
)

type memItems struct {
	items map[string]string
}

func (m *memItems) GetItem(_ context.Context, key string) (string, error) {
	return m.items[key], nil
}

func (m *memItems) SetItem(_ context.Context, key, value string) error {
	if m.items == nil {
		m.items = make(map[string]string)
	}
	m.items[key] = value
	return nil
}

func TestEnrollStoresHash(t *testing.T) {
	store := &memItems{}
	auth := NewTerminalAuthenticator(store, nil)

	require.NoError(t, auth.Enroll(context.Background(), "1234"))

	hash := store.items[passcodeHashItem]
	require.NotEmpty(t, hash)
	require.NotEqual(t, "1234", hash, "passcode must never be stored in the clear")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("1234")))
}

func TestEnrollRejectsShortPasscode(t *testing.T) {
	auth := NewTerminalAuthenticator(&memItems{}, nil)
	require.Error(t, auth.Enroll(context.Background(), "123"))
}

func TestAuthenticateWithoutEnrollment(t *testing.T) {
	auth := NewTerminalAuthenticator(&memItems{}, nil)

	_, err := auth.Authenticate(context.Background())
	require.ErrorIs(t, err, ErrNotEnrolled)
}
