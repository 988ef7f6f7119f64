package gateway

import (
	"context"
	"net/url"
	"strings"

	"github.com/ursmart/webapp/internal/app/models"
)

// SearchCourses returns the courses matching query. A blank query is the
// list-all case.
func (c *Client) SearchCourses(ctx context.Context, token, query string) ([]models.Course, error) {
	path := "/course/"
	if q := strings.TrimSpace(query); q != "" {
		path += "?search=" + url.QueryEscape(q)
	}

	var courses []models.Course
	if err := c.getJSON(ctx, path, token, "search courses", "Search failed", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListCourses returns every course.
func (c *Client) ListCourses(ctx context.Context, token string) ([]models.Course, error) {
	return c.SearchCourses(ctx, token, "")
}
