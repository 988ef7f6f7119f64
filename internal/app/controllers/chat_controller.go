package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ursmart/webapp/internal/app/gateway"
	"github.com/ursmart/webapp/internal/app/models"
	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/app/state"
	"github.com/ursmart/webapp/internal/pkg/apperrors"
)

// ChatController handles the chatbot tab: the material context selection
// and the message exchange.
type ChatController struct {
	session *session.Store
	state   *state.AppState
	chat    gateway.ChatAPI
	logger  zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(sess *session.Store, st *state.AppState, chat gateway.ChatAPI, logger zerolog.Logger) *ChatController {
	return &ChatController{session: sess, state: st, chat: chat, logger: logger}
}

// Toggle adds or removes one material from the chatbot context.
func (c *ChatController) Toggle(ctx *gin.Context) {
	chatPath := fmt.Sprintf("/courses/%s?tab=chat", ctx.Param("id"))

	materialID, err := strconv.ParseInt(ctx.PostForm("material_id"), 10, 64)
	if err != nil {
		ctx.Redirect(http.StatusFound, chatPath)
		return
	}

	c.state.ToggleChatMaterial(materialID)
	ctx.Redirect(http.StatusFound, chatPath)
}

// Send submits one chat turn. It requires a non-empty message and at least
// one selected material; otherwise the user is told and no request is
// issued. The user turn is appended optimistically and removed again if
// the chatbot call fails.
func (c *ChatController) Send(ctx *gin.Context) {
	courseID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}
	chatPath := fmt.Sprintf("/courses/%d?tab=chat", courseID)

	var form models.ChatForm
	_ = ctx.ShouldBind(&form)
	message := strings.TrimSpace(form.Message)
	selection := c.state.ChatSelection()

	if message == "" || len(selection) == 0 {
		c.state.SetNotice("Please select materials and enter a message")
		ctx.Redirect(http.StatusFound, chatPath)
		return
	}

	c.state.AppendChatTurn(models.ChatTurn{Role: models.ChatRoleUser, Content: message})

	resp, err := c.chat.Chat(ctx.Request.Context(), c.session.Token(), models.ChatRequest{
		CourseID:    courseID,
		MaterialIDs: selection,
		Message:     message,
	})
	if err != nil {
		c.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Chat failed")
		c.state.DropLastChatTurn()
		c.state.SetNotice("Chat failed: " + apperrors.Detail(err))
		ctx.Redirect(http.StatusFound, chatPath)
		return
	}

	c.state.AppendChatTurn(models.ChatTurn{Role: models.ChatRoleAssistant, Content: resp.Response})
	ctx.Redirect(http.StatusFound, chatPath)
}
