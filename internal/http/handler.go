package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"watchlist/internal/domain"
	"watchlist/internal/repository"
	"watchlist/internal/service"
	"watchlist/internal/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	msgInvalidInput = "Invalid input."
	currentUserKey  = "currentUser"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	movies   service.MovieService
	users    service.UserService
	sessions *session.Manager
	logger   *logrus.Logger
}

func NewHandler(movies service.MovieService, users service.UserService, sessions *session.Manager, logger *logrus.Logger) *Handler {
	return &Handler{
		movies:   movies,
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// NewRouter builds the gin engine serving the watchlist pages.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(h.logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.serverError(c, fmt.Errorf("panic: %v", recovered))
	}))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.identify())

	router.GET("/", h.index)
	router.POST("/", h.requireAuth("/"), h.createMovie)

	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/logout", h.requireAuth("/login"), h.logout)

	movie := router.Group("/movie", h.requireAuth("/login"))
	{
		movie.GET("/edit/:id", h.editPage)
		movie.POST("/edit/:id", h.updateMovie)
		movie.POST("/delete/:id", h.deleteMovie)
	}

	settings := router.Group("/settings", h.requireAuth("/login"))
	{
		settings.GET("", h.settingsPage)
		settings.POST("", h.updateSettings)
	}

	router.NoRoute(h.notFound)
}

// render fills in the values every page shows: the site owner, the logged in
// user and pending flash messages.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	owner, err := h.users.Owner(c.Request.Context())
	switch {
	case err == nil:
		data["owner"] = owner
	case !errors.Is(err, service.ErrNoUser):
		h.logger.WithError(err).Warn("load site owner")
	}
	if user := currentUser(c); user != nil {
		data["current"] = user
	}
	data["flashes"] = session.Flashes(c.Writer, c.Request)
	c.HTML(status, name, data)
}

// redirect answers a POST with 303 so the browser follows up with GET.
func (h *Handler) redirect(c *gin.Context, location string) {
	status := http.StatusFound
	if c.Request.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	c.Redirect(status, location)
}

func (h *Handler) flash(c *gin.Context, msg string) {
	session.AddFlash(c.Writer, c.Request, msg)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.tmpl", nil)
	c.Abort()
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.WithError(err).
		WithField("path", c.Request.URL.Path).
		Error("request failed")
	c.HTML(http.StatusInternalServerError, "500.tmpl", gin.H{})
	c.Abort()
}

// fail maps service errors that are not handled locally to an error page.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(c)
		return
	}
	h.serverError(c, err)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
