package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soundstage/soundstage-api/internal/api/metrics"
	"github.com/soundstage/soundstage-api/internal/core/domain"
	"github.com/soundstage/soundstage-api/internal/core/ports"
)

// CommentHandler handles HTTP requests for song comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// List handles GET /songs/:id/comments.
//
// @Summary      List comments on a song
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Song ID"
// @Success      200  {object}  commentsResponse
// @Failure      400  {object}  map[string]string
// @Router       /songs/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	songID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.service.List(c.Request().Context(), songID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentsResponse{Comments: toCommentViews(comments)})
}

// Create handles POST /songs/:id/comments.
//
// @Summary      Comment on a song
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Song ID"
// @Param        body  body      createCommentRequest  true  "Comment with optional 1-5 rating"
// @Success      201   {object}  commentView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /songs/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	songID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Create(c.Request().Context(), ports.CreateCommentInput{
		UserID:  p.UserID,
		SongID:  songID,
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return err
	}

	metrics.CommentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toCommentView(comment))
}

// Delete handles DELETE /comments/:id. Only the author may delete.
//
// @Summary      Delete one of the caller's comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Comment ID"
// @Success      200  {object}  okResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p.UserID, id); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.ForbiddenTotal.WithLabelValues("comment").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}
