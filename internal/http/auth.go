package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchlist/internal/service"
)

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type settingsForm struct {
	Name string `form:"name"`
}

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.tmpl", nil)
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, msgInvalidInput)
		h.redirect(c, "/login")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.flash(c, msgInvalidInput)
		h.redirect(c, "/login")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		h.logger.WithField("username", form.Username).Warn("failed login")
		h.flash(c, "Invalid username or password.")
		h.redirect(c, "/login")
		return
	case err != nil:
		h.serverError(c, err)
		return
	}

	if err := h.sessions.Issue(c.Writer, user.ID); err != nil {
		h.serverError(c, err)
		return
	}
	h.logger.WithField("user_id", user.ID).Info("user logged in")
	h.flash(c, "Login success.")
	h.redirect(c, "/")
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Clear(c.Writer)
	h.flash(c, "Goodbye.")
	h.redirect(c, "/")
}

func (h *Handler) settingsPage(c *gin.Context) {
	h.render(c, http.StatusOK, "settings.tmpl", nil)
}

func (h *Handler) updateSettings(c *gin.Context) {
	var form settingsForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, msgInvalidInput)
		h.redirect(c, "/settings")
		return
	}

	user := currentUser(c)
	_, err := h.users.Rename(c.Request.Context(), user.ID, form.Name)
	if errors.Is(err, service.ErrInvalidInput) {
		h.flash(c, msgInvalidInput)
		h.redirect(c, "/settings")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.flash(c, "Settings updated.")
	h.redirect(c, "/")
}
