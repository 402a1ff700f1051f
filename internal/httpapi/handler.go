package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/storage"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
	defaultSummaryDays  = 7
)

type Handler struct {
	repo   storage.Repository
	logger *log.Logger
	now    func() time.Time
}

type stateResponse struct {
	Cards          []model.Card `json:"cards"`
	IsPlaying      bool         `json:"isPlaying"`
	ActiveCardID   string       `json:"activeCardId,omitempty"`
	SelectedCardID string       `json:"selectedCardId,omitempty"`
	SavedAt        *time.Time   `json:"savedAt,omitempty"`
}

func (h *Handler) GetState(c *gin.Context) {
	snap, err := h.repo.LoadSnapshot(c.Request.Context())
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"state": stateResponse{Cards: []model.Card{}}})
		return
	}
	if err != nil {
		h.fail(c, "load snapshot", err)
		return
	}
	resp := stateResponse{
		Cards:          snap.Cards,
		IsPlaying:      snap.IsPlaying,
		ActiveCardID:   snap.ActiveCardID,
		SelectedCardID: snap.SelectedCardID,
	}
	if resp.Cards == nil {
		resp.Cards = []model.Card{}
	}
	if !snap.SavedAt.IsZero() {
		saved := snap.SavedAt.UTC()
		resp.SavedAt = &saved
	}
	c.JSON(http.StatusOK, gin.H{"state": resp})
}

func (h *Handler) ListHistory(c *gin.Context) {
	from, to, apiErr := parseRange(c, time.Time{})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	filter := storage.HistoryFilter{From: from, To: to, Limit: defaultHistoryLimit}

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		typ, err := model.ParseCardType(raw)
		if err != nil {
			writeError(c, badRequest("invalid_type", "type must be session or break"))
			return
		}
		filter.Type = typ
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxHistoryLimit {
			writeError(c, badRequest("invalid_limit", "limit must be between 1 and 1000"))
			return
		}
		filter.Limit = limit
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			writeError(c, badRequest("invalid_offset", "offset must be a non-negative integer"))
			return
		}
		filter.Offset = offset
	}

	entries, err := h.repo.ListHistory(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "list history", err)
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) SummarizeHistory(c *gin.Context) {
	today := startOfDay(h.clock())
	from, to, apiErr := parseRange(c, today.AddDate(0, 0, -(defaultSummaryDays-1)))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	days, err := h.repo.SummarizeHistory(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, "summarize history", err)
		return
	}
	if days == nil {
		days = []model.DaySummary{}
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.repo.ListTemplates(c.Request.Context(), storage.TemplateListFilter{})
	if err != nil {
		h.fail(c, "list templates", err)
		return
	}
	if templates == nil {
		templates = []model.Template{}
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	prefs, err := h.repo.GetPreferences(c.Request.Context())
	if err != nil {
		h.fail(c, "get preferences", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	if h.logger != nil {
		h.logger.Error("request failed", "op", op, "path", c.FullPath(), "err", err)
	}
	writeError(c, internal())
}

func (h *Handler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

// parseRange reads the from/to query parameters. A date-only value means the
// start of that local day; to is exclusive, so a date-only to covers the
// whole named day.
func parseRange(c *gin.Context, defaultFrom time.Time) (time.Time, time.Time, *APIError) {
	from := defaultFrom
	var to time.Time
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, _, err := parseBound(raw)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("invalid_from", "from must be YYYY-MM-DD or RFC3339")
		}
		from = t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, dateOnly, err := parseBound(raw)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("invalid_to", "to must be YYYY-MM-DD or RFC3339")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		to = t
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return time.Time{}, time.Time{}, badRequest("invalid_range", "to must be after from")
	}
	return from, to, nil
}

func parseBound(raw string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(model.DayLayout, raw, time.Local); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t, false, err
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
