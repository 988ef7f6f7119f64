package gateway

import (
	"context"

	"github.com/ursmart/webapp/internal/app/models"
)

// CurrentUser fetches the authenticated user's profile, including karma.
func (c *Client) CurrentUser(ctx context.Context, token string) (models.UserProfile, error) {
	var user models.UserProfile
	if err := c.getJSON(ctx, "/user/me/current", token, "current user", "Failed to get user info", &user); err != nil {
		return models.UserProfile{}, err
	}
	return user, nil
}
