// Package httpapi is the gateway's HTTP transport: thin endpoint dispatch
// over the account flows, plus request-id/logging middleware and
// bearer-token verification.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/users"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router    *gin.Engine
	address   string
	users     *users.Service
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, us *users.Service, secretKey string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:    gin.New(),
		address:   address,
		users:     us,
		logger:    l.With("module", "httpapi"),
		jwtSecret: []byte(secretKey),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(requestID())
	s.router.Use(requestLogger(s.logger))
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.POST("/register", s.handleRegister())
	s.router.POST("/login", s.handleLogin())
	s.router.GET("/me", bearerAuth(s.jwtSecret), s.handleMe())
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
