package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ursmart/webapp/internal/app/gateway"
	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/app/state"
	"github.com/ursmart/webapp/internal/pkg/apperrors"
)

// PageController renders the landing screen and the main application shell
// and owns the navigation switches between them.
type PageController struct {
	session *session.Store
	state   *state.AppState
	courses gateway.CourseAPI
	logger  zerolog.Logger
}

// NewPageController creates a new PageController
func NewPageController(sess *session.Store, st *state.AppState, courses gateway.CourseAPI, logger zerolog.Logger) *PageController {
	return &PageController{session: sess, state: st, courses: courses, logger: logger}
}

// Index shows the landing screen until the user enters the app, then
// forwards to the main shell.
func (c *PageController) Index(ctx *gin.Context) {
	if c.state.EnteredApp() {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}

	ctx.HTML(http.StatusOK, "landing", merge(baseData(c.session, c.state), gin.H{}))
}

// Enter dismisses the landing screen for an already-restored session.
func (c *PageController) Enter(ctx *gin.Context) {
	c.state.EnterApp()
	ctx.Redirect(http.StatusFound, "/app")
}

// Home renders the main screen: header, search bar, course list, footer.
// The first authenticated visit with no search performed lists all courses.
func (c *PageController) Home(ctx *gin.Context) {
	if !c.state.EnteredApp() {
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	courses, searched := c.state.Courses()
	if c.session.IsAuthenticated() && !searched && len(courses) == 0 {
		listed, err := c.courses.ListCourses(ctx.Request.Context(), c.session.Token())
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to list courses")
			c.state.SetSearchError(apperrors.Detail(err))
		} else {
			c.state.SetCourses(listed)
			courses = listed
		}
	}

	ctx.HTML(http.StatusOK, "home", merge(baseData(c.session, c.state), gin.H{
		"Courses":     courses,
		"SearchError": c.state.SearchError(),
	}))
}

// Reset is the logo click: back to the course list, search results dropped,
// session untouched.
func (c *PageController) Reset(ctx *gin.Context) {
	c.state.ResetNavigation()
	ctx.Redirect(http.StatusFound, "/app")
}
