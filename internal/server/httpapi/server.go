// Package httpapi exposes the application over HTTP: router, middleware and
// handlers. Responses are JSON; the session travels in a signed HTTP-only
// cookie.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentacat/rentacat/internal/logging"
	"github.com/rentacat/rentacat/internal/server/config"
	"github.com/rentacat/rentacat/internal/server/csrf"
	"github.com/rentacat/rentacat/internal/server/ratelimit"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config *config.Config
	logger logging.Logger

	users        Users
	reservations Reservations
	cats         Cats
	images       Images

	tokens         *csrf.Registry
	loginLimiter   *ratelimit.Limiter
	generalLimiter *ratelimit.Limiter
	jwtSecret      []byte
}

func NewServer(cfg *config.Config, l logging.Logger, users Users, reservations Reservations, cats Cats, images Images, tokens *csrf.Registry) *Server {
	return &Server{
		config:         cfg,
		logger:         l.With("module", "http_server"),
		users:          users,
		reservations:   reservations,
		cats:           cats,
		images:         images,
		tokens:         tokens,
		loginLimiter:   ratelimit.NewLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow),
		generalLimiter: ratelimit.NewLimiter(cfg.GeneralRateLimit, cfg.GeneralRateWindow),
		jwtSecret:      []byte(cfg.SecretKey),
	}
}

// Router assembles the gin engine with all middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.rateLimit(), s.resolveSession())

	if !s.config.S3Enabled {
		r.Static(s.config.PublicImageBase, s.config.UploadDir)
	}

	r.GET("/", s.handleCatalogue)
	r.GET("/login", s.handleLoginForm)
	r.POST("/login", s.handleLogin)
	r.GET("/register", s.handleRegisterForm)
	r.POST("/register", s.handleRegister)

	authed := r.Group("/", s.requireAuth())
	authed.POST("/logout", s.handleLogout)
	authed.GET("/profile/edit", s.handleProfileForm)
	authed.POST("/profile/edit", s.handleProfileUpdate)
	authed.GET("/reservations", s.handleReservationList)
	authed.POST("/reservations", s.handleReservationCreate)
	authed.GET("/reservations/:id", s.handleReservationGet)
	authed.POST("/reservations/:id/cancel", s.handleReservationCancel)

	admin := r.Group("/cats", s.requireAuth(), s.requireAdmin())
	admin.GET("/new", s.handleCatForm)
	admin.GET("/:id", s.handleCatGet)
	admin.POST("", s.handleCatCreate)
	admin.PUT("/:id", s.handleCatUpdate)
	admin.DELETE("/:id", s.handleCatDelete)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.EndpointAddrHTTP,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
