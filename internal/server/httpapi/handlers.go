package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type registerResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Client-visible messages are deliberately generic; detail stays in logs.
const (
	msgBadRequest         = "bad request"
	msgDuplicateAccount   = "account already exists"
	msgInvalidCredentials = "invalid credentials"
	msgInternalError      = "internal error"
)

func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
			return
		}

		ctx := c.Request.Context()
		s.logger.Info(ctx, "Registration request")

		id, err := s.users.Register(ctx, req.Username, req.Password, req.Email)
		if err != nil {
			if errors.Is(err, common.ErrConflict) {
				// No hint about which field collided.
				c.JSON(http.StatusConflict, gin.H{"error": msgDuplicateAccount})
				return
			}
			s.logger.Error(ctx, "registration failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}

		s.logger.Info(ctx, "Registered", "username", id.Username)
		c.JSON(http.StatusOK, registerResponse{Username: id.Username, Email: id.Email})
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
			return
		}

		ctx := c.Request.Context()

		token, err := s.users.Login(ctx, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
				return
			}
			s.logger.Error(ctx, "login failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}

		c.JSON(http.StatusOK, loginResponse{Token: token})
	}
}

func (s *Server) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetSubject(c)})
	}
}
