package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ursmart/webapp/internal/app/gateway"
	"github.com/ursmart/webapp/internal/app/models"
	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/app/state"
	"github.com/ursmart/webapp/internal/pkg/apperrors"
)

// CourseController handles course search and the course-detail view with
// its Resources and Chat tabs.
type CourseController struct {
	session   *session.Store
	state     *state.AppState
	courses   gateway.CourseAPI
	materials gateway.MaterialAPI
	logger    zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(sess *session.Store, st *state.AppState, courses gateway.CourseAPI, materials gateway.MaterialAPI, logger zerolog.Logger) *CourseController {
	return &CourseController{session: sess, state: st, courses: courses, materials: materials, logger: logger}
}

// Search submits the query. Unauthenticated search is rejected locally with
// an inline message, no network call is made. Results replace the displayed
// course collection and close any open course-detail view.
func (c *CourseController) Search(ctx *gin.Context) {
	if !c.session.IsAuthenticated() {
		c.state.SetSearchError("Please login to search courses")
		ctx.Redirect(http.StatusFound, "/app")
		return
	}

	var form models.SearchForm
	_ = ctx.ShouldBind(&form)

	results, err := c.courses.SearchCourses(ctx.Request.Context(), c.session.Token(), form.Query)
	if err != nil {
		c.logger.Warn().Err(err).Str("query", form.Query).Msg("Course search failed")
		c.state.SetSearchError(apperrors.Detail(err))
		ctx.Redirect(http.StatusFound, "/app")
		return
	}

	c.state.SetCourses(results)
	ctx.Redirect(http.StatusFound, "/app")
}

// Show opens a course. When the course identity changes the material list
// is (re)fetched; revisiting the open course keeps the loaded lists and
// chat history.
func (c *CourseController) Show(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}

	selected := c.state.SelectedCourse()
	if selected == nil || selected.ID != id {
		course, ok := c.findCourse(id)
		if !ok {
			c.state.SetNotice("Course not found")
			ctx.Redirect(http.StatusFound, "/app")
			return
		}
		c.state.SelectCourse(course)
		selected = &course
		c.loadMaterials(ctx, id)
	}

	tab := ctx.DefaultQuery("tab", "resources")
	if tab != "chat" {
		tab = "resources"
	}

	user := c.session.User()
	var userID int64
	if user != nil {
		userID = user.ID
	}

	materials := c.state.Materials()
	selectedIDs := map[int64]bool{}
	for _, mid := range c.state.ChatSelection() {
		selectedIDs[mid] = true
	}

	ctx.HTML(http.StatusOK, "course_detail", merge(baseData(c.session, c.state), gin.H{
		"Course":         selected,
		"Tab":            tab,
		"Materials":      materials,
		"MaterialsError": c.state.MaterialsError(),
		"ShowForm":       ctx.Query("form") == "1",
		"MaterialTypes":  models.MaterialTypes(),
		"ChatHistory":    c.state.ChatHistory(),
		"ChatSelected":   selectedIDs,
		"ChatReady":      len(selectedIDs) > 0,
		"KarmaAlert":     c.state.TakeKarmaAlert(),
		"ViewerID":       userID,
	}))
}

// Refresh re-fetches the material list of the open course.
func (c *CourseController) Refresh(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}
	c.loadMaterials(ctx, id)
	ctx.Redirect(http.StatusFound, "/courses/"+ctx.Param("id"))
}

// Back returns to the course list.
func (c *CourseController) Back(ctx *gin.Context) {
	c.state.ClearCourse()
	ctx.Redirect(http.StatusFound, "/app")
}

// findCourse resolves a course id against the fetched list.
func (c *CourseController) findCourse(id int64) (models.Course, bool) {
	courses, _ := c.state.Courses()
	for _, course := range courses {
		if course.ID == id {
			return course, true
		}
	}
	return models.Course{}, false
}

// loadMaterials fetches the course's materials into the view state. On
// failure the list defaults to empty and the error renders as a banner.
func (c *CourseController) loadMaterials(ctx *gin.Context, courseID int64) {
	materials, err := c.materials.MaterialsByCourse(ctx.Request.Context(), c.session.Token(), courseID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Failed to load materials")
		c.state.SetMaterials(nil)
		c.state.SetMaterialsError(apperrors.Detail(err))
		return
	}
	c.state.SetMaterials(materials)
}
