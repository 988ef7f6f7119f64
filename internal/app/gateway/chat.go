package gateway

import (
	"context"
	"net/http"

	"github.com/ursmart/webapp/internal/app/models"
)

// Chat sends one chatbot turn scoped to the selected materials of a course.
func (c *Client) Chat(ctx context.Context, token string, req models.ChatRequest) (models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/chatbot/chat", token, req, "chat", "Chat failed", &resp); err != nil {
		return models.ChatResponse{}, err
	}
	return resp, nil
}
