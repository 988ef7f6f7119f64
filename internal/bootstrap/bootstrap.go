// Package bootstrap assembles the application: config, logger, gateway
// client, session store, view state, controllers and router.
package bootstrap

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ursmart/webapp/internal/app/controllers"
	"github.com/ursmart/webapp/internal/app/gateway"
	"github.com/ursmart/webapp/internal/app/routes"
	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/app/state"
	"github.com/ursmart/webapp/internal/config"
	"github.com/ursmart/webapp/internal/middleware"
	"github.com/ursmart/webapp/internal/pkg/helpers"
	"github.com/ursmart/webapp/internal/pkg/logger"
	"github.com/ursmart/webapp/internal/web"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Gateway  *gateway.Client
	Session  *session.Store
	State    *state.AppState
	Pages    *controllers.PageController
	Auth     *controllers.AuthController
	Courses  *controllers.CourseController
	Material *controllers.MaterialController
	Chat     *controllers.ChatController
	Logger   zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// BuildDependencies initializes the gateway client, session store, view
// state and controllers. The gateway's unauthorized callback is wired to
// the store's Logout here, once, so any 401 from any call invalidates the
// session.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	timeout := helpers.ParseDuration(cfg.Backend.RequestTimeout, 30*time.Second)
	deps.Gateway = gateway.NewClient(cfg.Backend.BaseURL, cfg.Backend.BypassHeaderValue, timeout, lgr)
	lgr.Info().Str("baseURL", cfg.Backend.BaseURL).Msg("Backend gateway configured")

	storage := session.NewFileTokenStorage(cfg.Session.TokenPath)
	deps.Session = session.NewStore(deps.Gateway, deps.Gateway, storage, lgr)
	deps.Gateway.OnUnauthorized(deps.Session.Logout)

	deps.State = state.New()

	karmaDelay := helpers.ParseDuration(cfg.UI.KarmaRefreshDelay, 500*time.Millisecond)
	deps.Pages = controllers.NewPageController(deps.Session, deps.State, deps.Gateway, lgr)
	deps.Auth = controllers.NewAuthController(deps.Session, deps.State, lgr)
	deps.Courses = controllers.NewCourseController(deps.Session, deps.State, deps.Gateway, deps.Gateway, lgr)
	deps.Material = controllers.NewMaterialController(deps.Session, deps.State, deps.Gateway, deps.Gateway, karmaDelay, cfg.UI.ContributionKarma, lgr)
	deps.Chat = controllers.NewChatController(deps.Session, deps.State, deps.Gateway, lgr)

	return deps, nil
}

// SetupRouter configures the gin engine: mode, middleware, templates and
// routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.RegisterValidations(); err != nil {
		return nil, fmt.Errorf("failed to register validations: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(lgr))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	routes.SetupRoutes(router, routes.Controllers{
		Pages:     deps.Pages,
		Auth:      deps.Auth,
		Courses:   deps.Courses,
		Materials: deps.Material,
		Chat:      deps.Chat,
		Session:   deps.Session,
	})

	return router, nil
}
