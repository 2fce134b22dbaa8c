package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchlist/internal/service"
)

type movieForm struct {
	Title string `form:"title"`
	Year  string `form:"year"`
}

func (h *Handler) index(c *gin.Context) {
	movies, err := h.movies.ListMovies(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.tmpl", gin.H{"movies": movies})
}

func (h *Handler) createMovie(c *gin.Context) {
	var form movieForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, msgInvalidInput)
		h.redirect(c, "/")
		return
	}

	movie, err := h.movies.CreateMovie(c.Request.Context(), form.Title, form.Year)
	if errors.Is(err, service.ErrInvalidInput) {
		h.flash(c, msgInvalidInput)
		h.redirect(c, "/")
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.logger.WithField("movie_id", movie.ID).Info("movie created")
	h.flash(c, "Item created.")
	h.redirect(c, "/")
}

func (h *Handler) editPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}

	movie, err := h.movies.GetMovie(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "edit.tmpl", gin.H{"movie": movie})
}

func (h *Handler) updateMovie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	editPath := fmt.Sprintf("/movie/edit/%d", id)

	var form movieForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, msgInvalidInput)
		h.redirect(c, editPath)
		return
	}

	_, err := h.movies.UpdateMovie(c.Request.Context(), id, form.Title, form.Year)
	if errors.Is(err, service.ErrInvalidInput) {
		h.flash(c, msgInvalidInput)
		h.redirect(c, editPath)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.logger.WithField("movie_id", id).Info("movie updated")
	h.flash(c, "Item updated.")
	h.redirect(c, "/")
}

func (h *Handler) deleteMovie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.movies.DeleteMovie(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	h.logger.WithField("movie_id", id).Info("movie deleted")
	h.flash(c, "Item deleted.")
	h.redirect(c, "/")
}
