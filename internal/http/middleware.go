package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"watchlist/internal/repository"
)

const requestIDHeader = "X-Request-ID"

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}).Info("request")
	}
}

// identify resolves the session cookie to a user. Requests without a valid
// session continue anonymously.
func (h *Handler) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := h.sessions.Parse(c.Request)
		if err != nil {
			c.Next()
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.sessions.Clear(c.Writer)
		case err != nil:
			h.logger.WithError(err).Warn("resolve session user")
		default:
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// requireAuth sends anonymous callers to location instead of running the handler.
func (h *Handler) requireAuth(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) != nil {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodGet {
			h.flash(c, "Please log in to access this page.")
		}
		h.redirect(c, location)
		c.Abort()
	}
}
