package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"maison_atelier/internal/lib/logger/sl"
	appmiddleware "maison_atelier/internal/middleware"
	httprouters "maison_atelier/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	port    string
}

func New(log *slog.Logger, sessionSecret, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("Statsviz start with error", sl.Err(err))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		port:    port,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// operatorOnlyMiddleware gates the admin group on the cookie session.
// The remote API still enforces its own bearer token, so a forged
// cookie alone cannot mutate anything.
func (s *Server) operatorOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get("session", c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session required", "redirect": "/admin/login"})
		}

		authed, ok := sess.Values["authenticated"].(bool)
		if !ok || !authed {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required", "redirect": "/admin/login"})
		}

		return next(c)
	}
}

func (s *Server) BuildRouters() {
	api := s.e.Group("/api")
	{
		api.GET("/portfolio", s.routers.GetPortfolio)
		api.GET("/services", s.routers.GetServices)
		api.GET("/slideshow", s.routers.GetSlideshow)
		api.POST("/contact", s.routers.SubmitContact)

		debug := s.e.Group("/debug")
		{
			debug.GET("/statsviz/", echo.WrapHandler(s.m))
			debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		}

		s.e.GET("/health", s.routers.Health)
		s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

		api.POST("/auth/login", s.routers.Login)

		adminGroup := api.Group("/admin", s.operatorOnlyMiddleware)
		{
			adminGroup.POST("/logout", s.routers.Logout)
			adminGroup.GET("/dashboard", s.routers.Dashboard)
			adminGroup.POST("/reload", s.routers.Reload)

			// static segments (slideshow, projects) win over the
			// :collection param routes
			adminGroup.POST("/:collection", s.routers.SaveContent)
			adminGroup.PUT("/:collection/:id", s.routers.SaveContent)
			adminGroup.DELETE("/:collection/:id", s.routers.DeleteContent)

			adminGroup.POST("/slideshow", s.routers.AddSlideshowImage)
			adminGroup.DELETE("/slideshow/:index", s.routers.DeleteSlideshowImage)

			adminGroup.PUT("/projects/sequence", s.routers.SaveSequence)
			adminGroup.POST("/projects/sequence/move", s.routers.MoveProject)
			adminGroup.POST("/projects/sequence/auto", s.routers.AutoSequence)
		}
	}
}
