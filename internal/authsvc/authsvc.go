package authsvc

import (
	"context"
	"errors"

	"github.com/smolensk-traffic/portal/internal/apiclient"
	"github.com/smolensk-traffic/portal/internal/models"
)

// Paths relative to the auth base URL
const (
	LoginPath   = "/login"
	LogoutPath  = "/logout"
	RefreshPath = "/refresh"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the login response
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	Admin       *models.User `json:"admin"`
}

// RefreshResponse represents the session refresh response
type RefreshResponse struct {
	Admin *models.User `json:"admin"`
}

// Service calls the fixed auth endpoints
type Service struct {
	client *apiclient.Client
}

// New creates an auth service on top of a client pointed at the auth base URL
func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Login exchanges credentials for an access token and the user record
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.client.Post(ctx, LoginPath, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, &apiclient.Error{
			Kind:   apiclient.KindShape,
			Method: "POST",
			Path:   LoginPath,
			Err:    errors.New("response carries no accessToken"),
		}
	}

	if resp.Admin == nil {
		return nil, &apiclient.Error{
			Kind:   apiclient.KindShape,
			Method: "POST",
			Path:   LoginPath,
			Err:    errors.New("response carries no admin"),
		}
	}

	return &resp, nil
}

// Logout invalidates the current token on the server
func (s *Service) Logout(ctx context.Context) error {
	return s.client.Post(ctx, LogoutPath, nil, nil)
}

// Refresh validates the current token and returns its user
func (s *Service) Refresh(ctx context.Context) (*models.User, error) {
	var resp RefreshResponse
	if err := s.client.Get(ctx, RefreshPath, &resp); err != nil {
		return nil, err
	}

	if resp.Admin == nil {
		return nil, &apiclient.Error{
			Kind:   apiclient.KindShape,
			Method: "GET",
			Path:   RefreshPath,
			Err:    errors.New("response carries no admin"),
		}
	}

	return resp.Admin, nil
}
