package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ursmart/webapp/internal/app/models"
)

// Login exchanges credentials for a bearer token. The backend's login
// endpoint takes form-encoded username/password, not JSON, and needs no
// auth header.
func (c *Client) Login(ctx context.Context, email, password string) (models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/login", "", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return models.TokenResponse{}, err
	}

	var token models.TokenResponse
	if err := c.do(req, "login", "Login failed", &token); err != nil {
		return models.TokenResponse{}, err
	}
	return token, nil
}

// Register creates a new account. It does not log the user in; the session
// store follows up with Login using the same credentials.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.UserProfile, error) {
	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	var user models.UserProfile
	if err := c.sendJSON(ctx, http.MethodPost, "/user/", "", payload, "register", "Registration failed", &user); err != nil {
		return models.UserProfile{}, err
	}
	return user, nil
}
