// Package routes wires the HTTP routes of the UI server.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ursmart/webapp/internal/app/controllers"
	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/middleware"
)

// Controllers groups everything SetupRoutes needs.
type Controllers struct {
	Pages     *controllers.PageController
	Auth      *controllers.AuthController
	Courses   *controllers.CourseController
	Materials *controllers.MaterialController
	Chat      *controllers.ChatController
	Session   *session.Store
}

// SetupRoutes registers all routes on the router.
func SetupRoutes(router *gin.Engine, c Controllers) {
	// Landing and app shell
	router.GET("/", c.Pages.Index)
	router.POST("/app/enter", c.Pages.Enter)
	router.GET("/app", c.Pages.Home)
	router.GET("/app/reset", c.Pages.Reset)

	// Auth
	router.GET("/auth", c.Auth.Form)
	router.POST("/auth/login", c.Auth.Login)
	router.POST("/auth/register", c.Auth.Register)
	router.POST("/auth/logout", c.Auth.Logout)

	// Search (auth checked in the controller so the inline message can
	// render instead of a redirect to the landing screen)
	router.POST("/search", c.Courses.Search)

	// Course detail, materials and chat need a session
	authed := router.Group("/")
	authed.Use(middleware.RequireSession(c.Session))
	{
		authed.GET("/courses/:id", c.Courses.Show)
		authed.POST("/courses/:id/refresh", c.Courses.Refresh)
		authed.GET("/courses/back", c.Courses.Back)
		authed.POST("/courses/:id/materials", c.Materials.Create)
		authed.POST("/courses/:id/chat/toggle", c.Chat.Toggle)
		authed.POST("/courses/:id/chat", c.Chat.Send)
		authed.GET("/materials/:id", c.Materials.Show)
		authed.POST("/materials/:id/vote", c.Materials.Vote)
		authed.POST("/materials/:id/delete", c.Materials.Delete)
	}
}
