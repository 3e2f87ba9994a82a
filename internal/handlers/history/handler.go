package history

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/models"
)

const (
	timeoutDuration = 5 * time.Second

	DefaultLimit = 20
	MaxLimit     = 100
)

var errLimit = errors.New("limit must be a positive integer")

type historyReader interface {
	Recent(ctx context.Context, limit int) ([]models.SearchEntry, error)
}

type Handler struct {
	repo   historyReader
	logger zerolog.Logger
}

func NewHandler(repo historyReader, logger zerolog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger.With().Str("component", "HistoryHandler").Logger(),
	}
}

// GetHistory
// @Summary Recent searches
// @Description Returns the most recent weather lookups, newest first
// @Tags history
// @Produce json
// @Param limit query int false "Number of entries (1-100, default 20)"
// @Success 200 {array} models.SearchEntry
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	limit, err := ParseLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	entries, err := h.repo.Recent(ctx, limit)
	if err != nil {
		h.logger.Error().Ctx(ctx).Err(err).Int("limit", limit).Msg("failed to read history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read search history"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ParseLimit reads a history limit. Empty means DefaultLimit; values above MaxLimit are capped.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, nil
}
