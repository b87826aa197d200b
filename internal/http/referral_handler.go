package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

type referralService interface {
	Create(ctx context.Context, identity application.Identity, input application.CreateReferralInput) (application.Referral, error)
	Confirm(ctx context.Context, identity application.Identity, id string) (application.Referral, error)
	SubmitThankNote(ctx context.Context, identity application.Identity, id, message string, amount float64) (application.Referral, error)
	UpdateStatus(ctx context.Context, identity application.Identity, id, status string) (application.Referral, error)
	ListGiven(ctx context.Context, identity application.Identity) ([]application.Referral, error)
	ListTaken(ctx context.Context, identity application.Identity, status string) ([]application.Referral, error)
}

// ReferralHandler serves the referral lifecycle.
type ReferralHandler struct {
	service   referralService
	responder responder
}

func NewReferralHandler(service referralService, logger *slog.Logger) *ReferralHandler {
	return &ReferralHandler{service: service, responder: newResponder(logger)}
}

func (h *ReferralHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req createReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	referral, err := h.service.Create(r.Context(), identity, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, referralFromModel(referral))
}

func (h *ReferralHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, _ := ResourceIDFromContext(r.Context())
	identity, _ := IdentityFromContext(r.Context())

	referral, err := h.service.Confirm(r.Context(), identity, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, referralFromModel(referral))
}

func (h *ReferralHandler) ThankNote(w http.ResponseWriter, r *http.Request) {
	id, _ := ResourceIDFromContext(r.Context())
	identity, _ := IdentityFromContext(r.Context())

	var req thankNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	referral, err := h.service.SubmitThankNote(r.Context(), identity, id, req.Message, req.Amount)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, referralFromModel(referral))
}

func (h *ReferralHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := ResourceIDFromContext(r.Context())
	identity, _ := IdentityFromContext(r.Context())

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	referral, err := h.service.UpdateStatus(r.Context(), identity, id, req.Status)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, referralFromModel(referral))
}

func (h *ReferralHandler) ListGiven(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	referrals, err := h.service.ListGiven(r.Context(), identity)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderList(w, r, referrals)
}

func (h *ReferralHandler) ListTaken(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	referrals, err := h.service.ListTaken(r.Context(), identity, r.URL.Query().Get("status"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderList(w, r, referrals)
}

func (h *ReferralHandler) renderList(w http.ResponseWriter, r *http.Request, referrals []application.Referral) {
	payload := make([]referralDTO, 0, len(referrals))
	for _, referral := range referrals {
		payload = append(payload, referralFromModel(referral))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, referralListResponse{Referrals: payload})
}

type manualReferralDTO struct {
	Name         string `json:"name"`
	BusinessName string `json:"business_name,omitempty"`
	Category     string `json:"category,omitempty"`
	Email        string `json:"email,omitempty"`
}

type attachmentDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type createReferralRequest struct {
	ReceiverUID       string             `json:"receiver_uid"`
	Type              string             `json:"type"`
	ReferredMemberUID string             `json:"referred_member_uid"`
	ReferredManual    *manualReferralDTO `json:"referred_manual"`
	Description       string             `json:"description"`
	Notes             string             `json:"notes"`
	Attachments       []attachmentDTO    `json:"attachments"`
}

func (req createReferralRequest) toInput() application.CreateReferralInput {
	input := application.CreateReferralInput{
		ReceiverUID:       req.ReceiverUID,
		Type:              req.Type,
		ReferredMemberUID: req.ReferredMemberUID,
		Description:       req.Description,
		Notes:             req.Notes,
	}
	if req.ReferredManual != nil {
		input.ReferredManual = &application.ManualReferral{
			Name:         req.ReferredManual.Name,
			BusinessName: req.ReferredManual.BusinessName,
			Category:     req.ReferredManual.Category,
			Email:        req.ReferredManual.Email,
		}
	}
	for _, attachment := range req.Attachments {
		input.Attachments = append(input.Attachments, application.ReferralAttachment{
			Name: attachment.Name,
			URL:  attachment.URL,
		})
	}
	return input
}

type thankNoteRequest struct {
	Message string  `json:"message"`
	Amount  float64 `json:"amount"`
}

type referralDTO struct {
	ID                string             `json:"id"`
	GiverUID          string             `json:"giver_uid"`
	ReceiverUID       string             `json:"receiver_uid"`
	Type              string             `json:"type"`
	ReferredMemberUID string             `json:"referred_member_uid,omitempty"`
	ReferredManual    *manualReferralDTO `json:"referred_manual,omitempty"`
	Description       string             `json:"description"`
	Notes             string             `json:"notes,omitempty"`
	Attachments       []attachmentDTO    `json:"attachments,omitempty"`
	ThankNoteMessage  string             `json:"thank_note_message,omitempty"`
	ThankNoteAmount   *float64           `json:"thank_note_amount,omitempty"`
	Status            string             `json:"status"`
	CreatedAt         time.Time          `json:"created_at"`
}

func referralFromModel(referral application.Referral) referralDTO {
	dto := referralDTO{
		ID:                referral.ID,
		GiverUID:          referral.GiverUID,
		ReceiverUID:       referral.ReceiverUID,
		Type:              string(referral.Type),
		ReferredMemberUID: referral.ReferredMemberUID,
		Description:       referral.Description,
		Notes:             referral.Notes,
		ThankNoteMessage:  referral.ThankNoteMessage,
		ThankNoteAmount:   referral.ThankNoteAmount,
		Status:            string(referral.Status),
		CreatedAt:         referral.CreatedAt,
	}
	if m := referral.ReferredManual; m != nil {
		dto.ReferredManual = &manualReferralDTO{
			Name:         m.Name,
			BusinessName: m.BusinessName,
			Category:     m.Category,
			Email:        m.Email,
		}
	}
	for _, attachment := range referral.Attachments {
		dto.Attachments = append(dto.Attachments, attachmentDTO{Name: attachment.Name, URL: attachment.URL})
	}
	return dto
}

type referralListResponse struct {
	Referrals []referralDTO `json:"referrals"`
}
