package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soundstage/soundstage-api/internal/api/metrics"
	"github.com/soundstage/soundstage-api/internal/core/domain"
	"github.com/soundstage/soundstage-api/internal/core/ports"
)

// SongHandler handles HTTP requests for songs and likes.
type SongHandler struct {
	service ports.SongService
}

func NewSongHandler(service ports.SongService) *SongHandler {
	return &SongHandler{service: service}
}

// Top handles GET /songs/top.
//
// @Summary      Leaderboard
// @Description  Up to 50 songs ordered by like count, most liked first.
// @Tags         songs
// @Produce      json
// @Success      200  {object}  topSongsResponse
// @Failure      500  {object}  map[string]string
// @Router       /songs/top [get]
func (h *SongHandler) Top(c echo.Context) error {
	songs, err := h.service.Top(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, topSongsResponse{Songs: toSongViews(songs)})
}

// Mine handles GET /songs/my.
//
// @Summary      List the caller's songs
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   mySongView
// @Failure      401  {object}  map[string]string
// @Router       /songs/my [get]
func (h *SongHandler) Mine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	songs, err := h.service.Mine(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMySongViews(songs))
}

// Create handles POST /songs.
//
// @Summary      Upload song metadata
// @Tags         songs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSongRequest  true  "Song metadata"
// @Success      201   {object}  songView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /songs [post]
func (h *SongHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createSongRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	song, err := h.service.Create(c.Request().Context(), ports.CreateSongInput{
		OwnerID:     p.UserID,
		Title:       req.Title,
		Description: req.Description,
		AudioURL:    req.AudioURL,
	})
	if err != nil {
		return err
	}

	metrics.SongsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toSongView(song))
}

// Get handles GET /songs/:id.
//
// @Summary      Get a song
// @Tags         songs
// @Produce      json
// @Param        id   path      int  true  "Song ID"
// @Success      200  {object}  songView
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /songs/{id} [get]
func (h *SongHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	song, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSongView(song))
}

// Delete handles DELETE /songs/:id.
//
// @Summary      Delete one of the caller's songs
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Song ID"
// @Success      200  {object}  okResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /songs/{id} [delete]
func (h *SongHandler) Delete(c echo.Context) error {
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
			metrics.ForbiddenTotal.WithLabelValues("song").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Like handles POST /songs/:id/like. Repeating a like is not an error.
//
// @Summary      Like a song
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Song ID"
// @Success      200  {object}  okResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /songs/{id}/like [post]
func (h *SongHandler) Like(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.service.Like(c.Request().Context(), p.UserID, id)
	if err != nil {
		return err
	}

	if res.AlreadyLiked {
		metrics.LikesTotal.WithLabelValues("duplicate").Inc()
		return c.JSON(http.StatusOK, okResponse{OK: true, Message: "Already liked"})
	}
	metrics.LikesTotal.WithLabelValues("new").Inc()
	return c.JSON(http.StatusOK, okResponse{OK: true})
}
