package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

type statsService interface {
	Overview(ctx context.Context) (application.StatsOverview, error)
}

// StatsHandler serves the aggregate dashboard counters.
type StatsHandler struct {
	service   statsService
	responder responder
}

func NewStatsHandler(service statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{service: service, responder: newResponder(logger)}
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statsOverviewDTO{
		Referrals:    statsBucketDTO{Total: overview.Referrals.Total, ThisWeek: overview.Referrals.ThisWeek},
		Requirements: statsBucketDTO{Total: overview.Requirements.Total, ThisWeek: overview.Requirements.ThisWeek},
		Meetings:     statsBucketDTO{Total: overview.Meetings.Total, ThisWeek: overview.Meetings.ThisWeek},
		WeekStart:    overview.WeekStart,
	})
}

type statsBucketDTO struct {
	Total    int `json:"total"`
	ThisWeek int `json:"this_week"`
}

type statsOverviewDTO struct {
	Referrals    statsBucketDTO `json:"referrals"`
	Requirements statsBucketDTO `json:"requirements"`
	Meetings     statsBucketDTO `json:"meetings"`
	WeekStart    time.Time      `json:"week_start"`
}
