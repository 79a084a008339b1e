package dirserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/directory"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router      *gin.Engine
	address     string
	repo        Repository
	adminSecret string
	logger      logging.Logger
}

func NewServer(address string, l logging.Logger, repo Repository, adminSecret string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:      gin.New(),
		address:     address,
		repo:        repo,
		adminSecret: adminSecret,
		logger:      l.With("module", "dirserver"),
	}

	s.router.Use(gin.Recovery())
	s.router.POST("/v1/graphql", s.handleQuery())

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleQuery dispatches on the fixed query documents of the directory
// contract. Backend-reported problems go into the errors list of the
// envelope, mirroring how the production directory reports them.
func (s *Server) handleQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(directory.AdminSecretHeader) != s.adminSecret {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []directory.Error{{Message: "access denied"}},
			})
			return
		}

		var req directory.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"errors": []directory.Error{{Message: "invalid request body"}},
			})
			return
		}

		switch req.Query {
		case directory.CreateUserDocument:
			s.createUser(c, req.Variables)
		case directory.GetUserDocument:
			s.getUser(c, req.Variables)
		default:
			c.JSON(http.StatusOK, gin.H{
				"errors": []directory.Error{{Message: "unsupported query"}},
			})
		}
	}
}

func (s *Server) createUser(c *gin.Context, rawVars json.RawMessage) {
	ctx := c.Request.Context()

	var vars directory.CreateUserVariables
	if err := json.Unmarshal(rawVars, &vars); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"errors": []directory.Error{{Message: "invalid variables"}},
		})
		return
	}

	row := &directory.UserRow{
		Username:     vars.Username,
		Email:        vars.Email,
		PasswordHash: vars.PasswordHash,
	}

	if err := s.repo.CreateUser(ctx, row); err != nil {
		if errors.Is(err, common.ErrConflict) {
			c.JSON(http.StatusOK, gin.H{
				"errors": []directory.Error{{
					Message:    `Uniqueness violation. duplicate key value violates unique constraint "users_pkey"`,
					Extensions: directory.ErrorExtensions{Code: directory.CodeConstraintViolation},
				}},
			})
			return
		}
		s.logger.Error(ctx, "create user failed", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{
			"errors": []directory.Error{{Message: "unexpected"}},
		})
		return
	}

	s.logger.Info(ctx, "user created", "username", vars.Username)
	c.JSON(http.StatusOK, gin.H{
		"data": directory.CreateUserData{
			InsertUsersOne: &directory.UserRow{Username: vars.Username, Email: vars.Email},
		},
	})
}

func (s *Server) getUser(c *gin.Context, rawVars json.RawMessage) {
	ctx := c.Request.Context()

	var vars directory.GetUserVariables
	if err := json.Unmarshal(rawVars, &vars); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"errors": []directory.Error{{Message: "invalid variables"}},
		})
		return
	}

	row, err := s.repo.GetUserByUsername(ctx, vars.Username)
	if err != nil {
		s.logger.Error(ctx, "get user failed", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{
			"errors": []directory.Error{{Message: "unexpected"}},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": directory.GetUserData{UsersByPK: row},
	})
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping directory server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting directory server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
