package controllers

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ursmart/webapp/internal/app/gateway"
	"github.com/ursmart/webapp/internal/app/models"
	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/app/state"
	"github.com/ursmart/webapp/internal/pkg/apperrors"
)

// allowedUploadExts are the file extensions the creation form accepts.
var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// MaterialController handles material creation, voting, deletion and the
// detail page.
type MaterialController struct {
	session   *session.Store
	state     *state.AppState
	materials gateway.MaterialAPI
	users     gateway.UserAPI
	logger    zerolog.Logger

	// karmaDelay is how long to wait after a contribution before
	// re-fetching the profile for the karma toast, giving the backend
	// time to settle. The callback is fire-and-forget.
	karmaDelay        time.Duration
	contributionKarma int
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(sess *session.Store, st *state.AppState, materials gateway.MaterialAPI, users gateway.UserAPI, karmaDelay time.Duration, contributionKarma int, logger zerolog.Logger) *MaterialController {
	return &MaterialController{
		session:           sess,
		state:             st,
		materials:         materials,
		users:             users,
		karmaDelay:        karmaDelay,
		contributionKarma: contributionKarma,
		logger:            logger,
	}
}

// Create submits the add-material form. The record is created first; an
// attached file is uploaded afterwards against the new id, and an upload
// failure only warns, it never rolls the material back. Either path reloads
// the list and schedules the karma toast.
func (c *MaterialController) Create(ctx *gin.Context) {
	courseID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}
	coursePath := fmt.Sprintf("/courses/%d", courseID)

	var form models.MaterialCreateForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.state.SetNotice("Title and description are required")
		ctx.Redirect(http.StatusFound, coursePath+"?form=1")
		return
	}

	token := c.session.Token()
	payload := models.MaterialPayload{
		CourseID:    courseID,
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Type:        models.MaterialType(form.Type),
		Role:        false,
		Score:       0,
		FileLink:    "",
	}

	created, err := c.materials.CreateMaterial(ctx.Request.Context(), token, payload)
	if err != nil {
		c.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Failed to create material")
		c.state.SetNotice(apperrors.Detail(err))
		ctx.Redirect(http.StatusFound, coursePath+"?form=1")
		return
	}

	if header, err := ctx.FormFile("file"); err == nil && header != nil {
		c.uploadAttachment(ctx, token, created.ID, header)
	}

	c.reloadMaterials(ctx, token, courseID)
	c.scheduleKarmaToast(token)

	ctx.Redirect(http.StatusFound, coursePath)
}

// Vote sends the full material record with the score adjusted by one in the
// requested direction, clamped at zero, and replaces the list entry with
// the server's returned record.
func (c *MaterialController) Vote(ctx *gin.Context) {
	materialID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}

	material, ok := c.state.FindMaterial(materialID)
	if !ok {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}
	coursePath := fmt.Sprintf("/courses/%d", material.CourseID)

	direction := ctx.PostForm("dir")
	score := material.Score + 1
	verb := "upvote"
	if direction == "down" {
		score = material.Score - 1
		verb = "downvote"
	}

	updated, err := c.materials.UpdateMaterial(ctx.Request.Context(), c.session.Token(), materialID, material.WithScore(score))
	if err != nil {
		c.logger.Warn().Err(err).Int64("materialID", materialID).Str("direction", direction).Msg("Vote failed")
		c.state.SetNotice(fmt.Sprintf("Failed to %s: %s", verb, apperrors.Detail(err)))
		ctx.Redirect(http.StatusFound, coursePath)
		return
	}

	c.state.ReplaceMaterial(updated)
	ctx.Redirect(http.StatusFound, coursePath)
}

// Delete removes an owned material and reloads the list. The confirmation
// step happens in the browser before the form posts.
func (c *MaterialController) Delete(ctx *gin.Context) {
	materialID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}

	material, ok := c.state.FindMaterial(materialID)
	if !ok {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}
	coursePath := fmt.Sprintf("/courses/%d", material.CourseID)

	token := c.session.Token()
	if err := c.materials.DeleteMaterial(ctx.Request.Context(), token, materialID); err != nil {
		c.logger.Warn().Err(err).Int64("materialID", materialID).Msg("Failed to delete material")
		c.state.SetNotice("Failed to delete material: " + apperrors.Detail(err))
		ctx.Redirect(http.StatusFound, coursePath)
		return
	}

	c.reloadMaterials(ctx, token, material.CourseID)
	ctx.Redirect(http.StatusFound, coursePath)
}

// Show renders the material detail page. The loaded list is tried first,
// falling back to a direct fetch by id.
func (c *MaterialController) Show(ctx *gin.Context) {
	materialID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/app")
		return
	}

	material, ok := c.state.FindMaterial(materialID)
	if !ok {
		fetched, err := c.materials.Material(ctx.Request.Context(), c.session.Token(), materialID)
		if err != nil {
			c.state.SetNotice(apperrors.Detail(err))
			ctx.Redirect(http.StatusFound, "/app")
			return
		}
		material = fetched
	}

	ctx.HTML(http.StatusOK, "material_detail", merge(baseData(c.session, c.state), gin.H{
		"Material": material,
	}))
}

// uploadAttachment pushes the optional file against the created material.
// Failure warns the user without rolling back the creation.
func (c *MaterialController) uploadAttachment(ctx *gin.Context, token string, materialID int64, header *multipart.FileHeader) {
	filename := header.Filename
	if !allowedUploadExts[strings.ToLower(filepath.Ext(filename))] {
		c.state.SetNotice("Material created but the file type is not supported (.pdf, .docx, .txt)")
		return
	}

	file, err := header.Open()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read uploaded file")
		c.state.SetNotice("Material created but file upload failed. You can upload the file later.")
		return
	}
	defer file.Close()

	if _, err := c.materials.UploadFile(ctx.Request.Context(), token, materialID, filename, file); err != nil {
		c.logger.Warn().Err(err).Int64("materialID", materialID).Msg("File upload failed after material creation")
		c.state.SetNotice("Material created but file upload failed. You can upload the file later.")
	}
}

// reloadMaterials refreshes the list after a mutation.
func (c *MaterialController) reloadMaterials(ctx *gin.Context, token string, courseID int64) {
	materials, err := c.materials.MaterialsByCourse(ctx.Request.Context(), token, courseID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Failed to reload materials")
		c.state.SetMaterials(nil)
		c.state.SetMaterialsError(apperrors.Detail(err))
		return
	}
	c.state.SetMaterials(materials)
}

// scheduleKarmaToast waits for the backend to settle, re-fetches the
// profile and queues the karma-gain toast with the recomputed level. No
// cancellation: if the view goes away first the toast is simply consumed
// by whatever page renders next.
func (c *MaterialController) scheduleKarmaToast(token string) {
	c.session.RefreshUser(context.Background())

	time.AfterFunc(c.karmaDelay, func() {
		fetchCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		profile, err := c.users.CurrentUser(fetchCtx, token)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to fetch user karma")
			c.state.SetKarmaAlert(c.contributionKarma, "")
			return
		}
		c.state.SetKarmaAlert(c.contributionKarma, session.LevelForKarma(profile.Karma))
	})
}
