package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"budgets/internal/core"
)

type userDTO struct {
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	IsMfaVerified bool      `json:"isMfaVerified"`
	CreatedOn     time.Time `json:"createdOn"`
	ModifiedOn    time.Time `json:"modifiedOn"`
	Device        struct {
		OS string `json:"os"`
	} `json:"device"`
	NotificationPreferences struct {
		IncomeNotifications  bool `json:"incomeNotifications"`
		PaymentNotifications bool `json:"paymentNotifications"`
	} `json:"notificationPreferences"`
}

// UpdateUserRequest carries the editable profile fields.
type UpdateUserRequest struct {
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	IncomeNotifications  bool   `json:"incomeNotifications"`
	PaymentNotifications bool   `json:"paymentNotifications"`
}

// UserService reads and updates the signed-in user's profile.
type UserService struct {
	client *Client
}

func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

// Get fetches the profile of the signed-in user.
func (s *UserService) Get(ctx context.Context) (core.User, error) {
	resp, err := s.client.CallProtected(ctx, http.MethodGet, "me", nil)
	if err != nil {
		return core.User{}, err
	}
	if err := resp.Err(); err != nil {
		return core.User{}, err
	}
	var dto userDTO
	if err := resp.JSON(&dto); err != nil {
		return core.User{}, fmt.Errorf("decode user response: %w", err)
	}
	return core.User{
		FirstName:            dto.FirstName,
		LastName:             dto.LastName,
		Email:                dto.Email,
		IsMfaVerified:        dto.IsMfaVerified,
		DeviceOS:             dto.Device.OS,
		IncomeNotifications:  dto.NotificationPreferences.IncomeNotifications,
		PaymentNotifications: dto.NotificationPreferences.PaymentNotifications,
		CreatedOn:            dto.CreatedOn,
		ModifiedOn:           dto.ModifiedOn,
	}, nil
}

// Update edits the profile.
func (s *UserService) Update(ctx context.Context, req UpdateUserRequest) error {
	resp, err := s.client.CallProtected(ctx, http.MethodPut, "me", req)
	if err != nil {
		return err
	}
	return resp.Err()
}

// RegisterDevice associates a push-notification device token with the user.
func (s *UserService) RegisterDevice(ctx context.Context, deviceToken string) error {
	resp, err := s.client.CallProtected(ctx, http.MethodPost, "me/device", map[string]string{
		"deviceToken": deviceToken,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}
