package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ursmart/webapp/internal/app/models"
	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/app/state"
	"github.com/ursmart/webapp/internal/pkg/apperrors"
)

// AuthController handles the login-or-register form and logout.
type AuthController struct {
	session *session.Store
	state   *state.AppState
	logger  zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(sess *session.Store, st *state.AppState, logger zerolog.Logger) *AuthController {
	return &AuthController{session: sess, state: st, logger: logger}
}

// Form renders the login/register form. mode toggles between the two,
// from records which screen opened it so success can route accordingly.
func (c *AuthController) Form(ctx *gin.Context) {
	c.render(ctx, ctx.DefaultQuery("mode", "login"), ctx.DefaultQuery("from", "header"), "")
}

// Login authenticates and, for the landing variant, enters the main app.
func (c *AuthController) Login(ctx *gin.Context) {
	from := ctx.DefaultPostForm("from", "header")

	var form models.LoginForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.render(ctx, "login", from, "Email and password are required")
		return
	}

	if err := c.session.Login(ctx.Request.Context(), form.Email, form.Password); err != nil {
		c.logger.Warn().Err(err).Msg("Login failed")
		c.render(ctx, "login", from, apperrors.Detail(err))
		return
	}

	c.finish(ctx, from)
}

// Register creates the account, auto-logs in with the same credentials and
// routes like Login.
func (c *AuthController) Register(ctx *gin.Context) {
	from := ctx.DefaultPostForm("from", "header")

	var form models.RegisterForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.render(ctx, "register", from, "Name, email and password are required")
		return
	}

	if err := c.session.Register(ctx.Request.Context(), form.Name, form.Email, form.Password); err != nil {
		c.logger.Warn().Err(err).Msg("Registration failed")
		c.render(ctx, "register", from, apperrors.Detail(err))
		return
	}

	c.finish(ctx, from)
}

// Logout clears the session. The app shell stays; the header switches back
// to its Login button.
func (c *AuthController) Logout(ctx *gin.Context) {
	c.session.Logout()
	c.state.ResetNavigation()
	ctx.Redirect(http.StatusFound, "/app")
}

func (c *AuthController) finish(ctx *gin.Context, from string) {
	if from == "landing" {
		c.state.EnterApp()
	}
	ctx.Redirect(http.StatusFound, "/app")
}

func (c *AuthController) render(ctx *gin.Context, mode, from, errMsg string) {
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusUnprocessableEntity
	}
	ctx.HTML(status, "auth", merge(baseData(c.session, c.state), gin.H{
		"Mode":    mode,
		"From":    from,
		"Error":   errMsg,
		"Loading": c.session.Loading(),
	}))
}
