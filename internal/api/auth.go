package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"budgets/internal/core"
)

// Challenge kinds issued by the backend.
const (
	ChallengeEmailVerification = "emailVerification"
	ChallengePasswordReset     = "passwordReset"
)

// confirmationKeyItem is the storage key holding the pending challenge key.
const confirmationKeyItem = "confirmation_key"

type (
	// RegisterRequest carries a new account registration. The password is
	// expected pre-obfuscated by the caller.
	RegisterRequest struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phoneNumber,omitempty"`
		Password    string `json:"password"`
	}

	// ChallengeRequest asks the backend to issue a confirmation code.
	ChallengeRequest struct {
		Email       string `json:"email,omitempty"`
		PhoneNumber string `json:"phoneNumber,omitempty"`
		Type        string `json:"type"`
	}

	// LoginOutcome reports whether credentials were accepted against a
	// verified email. On an unverified email the backend answers 202 with
	// a challenge instead of tokens.
	LoginOutcome struct {
		IsEmailVerified bool
	}

	authResponseBody struct {
		AccessToken  string    `json:"accessToken"`
		RefreshToken string    `json:"refreshToken"`
		Expires      time.Time `json:"expires"`
	}

	challengeResponseBody struct {
		Key     string    `json:"key"`
		Expires time.Time `json:"expires"`
	}
)

func (b authResponseBody) credentials() core.Credentials {
	return core.Credentials{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		ExpiresAt:    b.Expires,
	}
}

// AuthService talks to the auth resource of the backend and persists the
// token bundle and challenge keys it hands back.
type AuthService struct {
	client *Client
	store  CredentialStore
}

func NewAuthService(client *Client, store CredentialStore) *AuthService {
	return &AuthService{client: client, store: store}
}

// Login sends credentials to the backend. A 202 response means the email
// is unverified: the backend issued a confirmation challenge whose key is
// stored for the follow-up ConfirmChallenge call. Any other success
// persists the credential bundle.
func (s *AuthService) Login(ctx context.Context, email, phoneNumber, password string) (LoginOutcome, error) {
	resp, err := s.client.Call(ctx, http.MethodPost, "auth/login", map[string]string{
		"email":       email,
		"phoneNumber": phoneNumber,
		"password":    password,
	})
	if err != nil {
		return LoginOutcome{}, err
	}
	if err := resp.Err(); err != nil {
		return LoginOutcome{}, err
	}

	if resp.Status == http.StatusAccepted {
		if err := s.storeChallenge(ctx, resp); err != nil {
			return LoginOutcome{}, err
		}
		return LoginOutcome{IsEmailVerified: false}, nil
	}

	if err := s.storeBundle(ctx, resp); err != nil {
		return LoginOutcome{}, err
	}
	return LoginOutcome{IsEmailVerified: true}, nil
}

// Register creates an account and stores the email-verification challenge
// key the backend responds with.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	resp, err := s.client.Call(ctx, http.MethodPost, "auth/register", req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	return s.storeChallenge(ctx, resp)
}

// Challenge asks the backend for a confirmation code of the given kind and
// stores the challenge key.
func (s *AuthService) Challenge(ctx context.Context, req ChallengeRequest) error {
	resp, err := s.client.Call(ctx, http.MethodPost, "auth/challenge", req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	return s.storeChallenge(ctx, resp)
}

// ConfirmChallenge redeems the stored challenge key with the user-entered
// code. Success persists the credential bundle.
func (s *AuthService) ConfirmChallenge(ctx context.Context, code int) error {
	key, err := s.store.GetItem(ctx, confirmationKeyItem)
	if err != nil {
		return fmt.Errorf("load confirmation key: %w", err)
	}
	if key == "" {
		return ErrUnauthorized
	}

	resp, err := s.client.Call(ctx, http.MethodPost, "auth/challenge/"+key, map[string]int{"code": code})
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	return s.storeBundle(ctx, resp)
}

// Refresh silently renews the stored credential bundle.
func (s *AuthService) Refresh(ctx context.Context) error {
	_, err := s.client.Refresh(ctx)
	return err
}

// UpdatePassword sets a new password for the authenticated user. The
// password is expected pre-obfuscated by the caller.
func (s *AuthService) UpdatePassword(ctx context.Context, password string) error {
	resp, err := s.client.CallProtected(ctx, http.MethodPut, "auth/password", map[string]string{
		"password": password,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

func (s *AuthService) storeChallenge(ctx context.Context, resp *Response) error {
	var body challengeResponseBody
	if err := resp.JSON(&body); err != nil {
		return fmt.Errorf("decode challenge response: %w", err)
	}
	if err := s.store.SetItem(ctx, confirmationKeyItem, body.Key); err != nil {
		return fmt.Errorf("store confirmation key: %w", err)
	}
	return nil
}

func (s *AuthService) storeBundle(ctx context.Context, resp *Response) error {
	var body authResponseBody
	if err := resp.JSON(&body); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	if err := s.store.SaveCredentials(ctx, body.credentials()); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}
