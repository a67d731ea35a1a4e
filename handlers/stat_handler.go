package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/middleware"
	"github.com/WQTY-MASTER/SGMS/services"
	"github.com/WQTY-MASTER/SGMS/utils"
)

// StatProvider defines the statistics operations the handler needs
type StatProvider interface {
	SegmentStats(ctx context.Context, userID, courseID int64) (*services.ScoreStats, error)
}

// StatHandler handles score statistics HTTP requests
type StatHandler struct {
	stats  StatProvider
	logger *zap.Logger
}

// NewStatHandler creates a new StatHandler
func NewStatHandler(stats StatProvider, logger *zap.Logger) *StatHandler {
	return &StatHandler{
		stats:  stats,
		logger: logger,
	}
}

// HandleScoreSegments handles GET /stat/score/segment
func (h *StatHandler) HandleScoreSegments(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	courseID, ok := queryInt64(r, "courseId")
	if !ok || courseID == 0 {
		_ = utils.WriteBadRequest(w, "invalid courseId")
		return
	}

	stats, err := h.stats.SegmentStats(r.Context(), principal.UserID, courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, stats)
}
