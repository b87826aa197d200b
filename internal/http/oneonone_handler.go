package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

type oneOnOneService interface {
	Create(ctx context.Context, identity application.Identity, input application.CreateOneOnOneInput) (application.OneOnOne, error)
	Approve(ctx context.Context, identity application.Identity, id string) (application.OneOnOne, error)
	ProposeReschedule(ctx context.Context, identity application.Identity, id string, input application.ProposeRescheduleInput) (application.OneOnOne, error)
	AcceptReschedule(ctx context.Context, identity application.Identity, id string) (application.OneOnOne, error)
	RejectReschedule(ctx context.Context, identity application.Identity, id string) (application.OneOnOne, error)
	Complete(ctx context.Context, identity application.Identity, id, proofURL string) (application.OneOnOne, error)
	ListMine(ctx context.Context, identity application.Identity) ([]application.OneOnOne, error)
	ListReceived(ctx context.Context, identity application.Identity, status string) ([]application.OneOnOne, error)
	ListSent(ctx context.Context, identity application.Identity, status string) ([]application.OneOnOne, error)
	ListBetween(ctx context.Context, identity application.Identity, otherUID string) ([]application.OneOnOne, error)
}

// OneOnOneHandler serves the peer meeting request lifecycle.
type OneOnOneHandler struct {
	service   oneOnOneService
	responder responder
}

func NewOneOnOneHandler(service oneOnOneService, logger *slog.Logger) *OneOnOneHandler {
	return &OneOnOneHandler{service: service, responder: newResponder(logger)}
}

func (h *OneOnOneHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req createOneOnOneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	record, err := h.service.Create(r.Context(), identity, application.CreateOneOnOneInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		DateText:     req.Date,
		TimeText:     req.Time,
		RequestedUID: req.RequestedUID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, oneOnOneFromModel(record))
}

func (h *OneOnOneHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

func (h *OneOnOneHandler) AcceptReschedule(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.AcceptReschedule)
}

func (h *OneOnOneHandler) RejectReschedule(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.RejectReschedule)
}

func (h *OneOnOneHandler) ProposeReschedule(w http.ResponseWriter, r *http.Request) {
	id, _ := ResourceIDFromContext(r.Context())
	identity, _ := IdentityFromContext(r.Context())

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	record, err := h.service.ProposeReschedule(r.Context(), identity, id, application.ProposeRescheduleInput{
		DateText: req.Date,
		TimeText: req.Time,
		Location: req.Location,
		Note:     req.Note,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, oneOnOneFromModel(record))
}

func (h *OneOnOneHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, _ := ResourceIDFromContext(r.Context())
	identity, _ := IdentityFromContext(r.Context())

	var req completeOneOnOneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	record, err := h.service.Complete(r.Context(), identity, id, req.ProofPhotoURL)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, oneOnOneFromModel(record))
}

func (h *OneOnOneHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	records, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderList(w, r, records)
}

func (h *OneOnOneHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	records, err := h.service.ListReceived(r.Context(), identity, r.URL.Query().Get("status"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderList(w, r, records)
}

func (h *OneOnOneHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	records, err := h.service.ListSent(r.Context(), identity, r.URL.Query().Get("status"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderList(w, r, records)
}

func (h *OneOnOneHandler) ListBetween(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	otherUID := strings.TrimSpace(r.URL.Query().Get("otherUid"))
	records, err := h.service.ListBetween(r.Context(), identity, otherUID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderList(w, r, records)
}

func (h *OneOnOneHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, application.Identity, string) (application.OneOnOne, error)) {
	id, _ := ResourceIDFromContext(r.Context())
	identity, _ := IdentityFromContext(r.Context())

	record, err := op(r.Context(), identity, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, oneOnOneFromModel(record))
}

func (h *OneOnOneHandler) renderList(w http.ResponseWriter, r *http.Request, records []application.OneOnOne) {
	payload := make([]oneOnOneDTO, 0, len(records))
	for _, record := range records {
		payload = append(payload, oneOnOneFromModel(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, oneOnOneListResponse{OneOnOnes: payload})
}

type createOneOnOneRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	RequestedUID string `json:"requested_uid"`
}

type rescheduleRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

type completeOneOnOneRequest struct {
	ProofPhotoURL string `json:"proof_photo_url"`
}

type proposalDTO struct {
	Date       string    `json:"date,omitempty"`
	Time       string    `json:"time,omitempty"`
	Location   string    `json:"location,omitempty"`
	ProposedBy string    `json:"proposed_by"`
	ProposedAt time.Time `json:"proposed_at"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
}

type oneOnOneDTO struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Location      string       `json:"location"`
	StartsAt      time.Time    `json:"starts_at"`
	Date          string       `json:"date"`
	Time          string       `json:"time"`
	Status        string       `json:"status"`
	RequesterUID  string       `json:"requester_uid"`
	RequestedUID  string       `json:"requested_uid"`
	Proposal      *proposalDTO `json:"proposal,omitempty"`
	LastActionAt  *time.Time   `json:"last_action_at,omitempty"`
	ProofPhotoURL string       `json:"proof_photo_url,omitempty"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

func oneOnOneFromModel(record application.OneOnOne) oneOnOneDTO {
	dto := oneOnOneDTO{
		ID:            record.ID,
		Title:         record.Title,
		Description:   record.Description,
		Location:      record.Location,
		StartsAt:      record.StartsAt,
		Date:          record.DateText,
		Time:          record.TimeText,
		Status:        string(record.Status),
		RequesterUID:  record.RequesterUID,
		RequestedUID:  record.RequestedUID,
		LastActionAt:  record.LastActionAt,
		ProofPhotoURL: record.ProofPhotoURL,
		CompletedAt:   record.CompletedAt,
		CreatedAt:     record.CreatedAt,
	}
	if p := record.Proposal; p != nil {
		dto.Proposal = &proposalDTO{
			Date:       p.DateText,
			Time:       p.TimeText,
			Location:   p.Location,
			ProposedBy: p.ProposedByUID,
			ProposedAt: p.ProposedAt,
			Status:     string(p.Status),
			Note:       p.Note,
		}
	}
	return dto
}

type oneOnOneListResponse struct {
	OneOnOnes []oneOnOneDTO `json:"one_on_ones"`
}
