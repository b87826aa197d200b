package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

type memberService interface {
	Register(ctx context.Context, input application.RegisterInput) (application.Member, bool, error)
	GetRegistration(ctx context.Context, authUID string) (application.Member, error)
	UpdateStatus(ctx context.Context, authUID, status string) (application.Member, error)
	StatusByPhone(ctx context.Context, rawPhone string) (application.MemberStatus, error)
	Search(ctx context.Context, identity application.Identity, query string, limit int) ([]application.MemberSearchResult, error)
}

// MemberHandler serves registration intake and the member directory.
type MemberHandler struct {
	service   memberService
	responder responder
}

func NewMemberHandler(service memberService, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{service: service, responder: newResponder(logger)}
}

func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	member, created, err := h.service.Register(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.responder.writeJSON(r.Context(), w, status, memberFromModel(member))
}

func (h *MemberHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	uid, _ := ResourceIDFromContext(r.Context())

	member, err := h.service.GetRegistration(r.Context(), uid)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, memberFromModel(member))
}

func (h *MemberHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	uid, _ := ResourceIDFromContext(r.Context())

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	member, err := h.service.UpdateStatus(r.Context(), uid, req.Status)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, memberFromModel(member))
}

func (h *MemberHandler) StatusByPhone(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.StatusByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: string(status)})
}

func (h *MemberHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	results, err := h.service.Search(r.Context(), identity, r.URL.Query().Get("query"), limit)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]searchResultDTO, 0, len(results))
	for _, result := range results {
		payload = append(payload, searchResultFromModel(result))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, searchResponse{Members: payload})
}

type personalDTO struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profile_pic,omitempty"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	GroupID    string `json:"group_id"`
}

type businessSummaryDTO struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
}

type registerRequest struct {
	AuthUID  string             `json:"auth_uid"`
	Personal personalDTO        `json:"personal"`
	Business businessSummaryDTO `json:"business"`
}

func (req registerRequest) toInput() application.RegisterInput {
	return application.RegisterInput{
		AuthUID: req.AuthUID,
		Personal: application.PersonalProfile{
			Name:       req.Personal.Name,
			ProfilePic: req.Personal.ProfilePic,
			Phone:      req.Personal.Phone,
			Email:      req.Personal.Email,
			GroupID:    req.Personal.GroupID,
		},
		Business: application.BusinessSummary{
			Name:     req.Business.Name,
			Category: req.Business.Category,
			Phone:    req.Business.Phone,
			Email:    req.Business.Email,
			Location: req.Business.Location,
		},
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type memberDTO struct {
	ID           string             `json:"id"`
	AuthUID      string             `json:"auth_uid"`
	Personal     personalDTO        `json:"personal"`
	Business     businessSummaryDTO `json:"business"`
	Status       string             `json:"status"`
	RegisteredAt time.Time          `json:"registered_at"`
}

func memberFromModel(member application.Member) memberDTO {
	return memberDTO{
		ID:      member.ID,
		AuthUID: member.AuthUID,
		Personal: personalDTO{
			Name:       member.Personal.Name,
			ProfilePic: member.Personal.ProfilePic,
			Phone:      member.Personal.Phone,
			Email:      member.Personal.Email,
			GroupID:    member.Personal.GroupID,
		},
		Business: businessSummaryDTO{
			Name:     member.Business.Name,
			Category: member.Business.Category,
			Phone:    member.Business.Phone,
			Email:    member.Business.Email,
			Location: member.Business.Location,
		},
		Status:       string(member.Status),
		RegisteredAt: member.RegisteredAt,
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

type businessCardDTO struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	LogoURL  string `json:"logo_url,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
}

type searchResultDTO struct {
	AuthUID    string          `json:"auth_uid"`
	Name       string          `json:"name"`
	ProfilePic string          `json:"profile_pic,omitempty"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email,omitempty"`
	GroupID    string          `json:"group_id"`
	Business   businessCardDTO `json:"business"`
}

func searchResultFromModel(result application.MemberSearchResult) searchResultDTO {
	return searchResultDTO{
		AuthUID:    result.AuthUID,
		Name:       result.Name,
		ProfilePic: result.ProfilePic,
		Phone:      result.Phone,
		Email:      result.Email,
		GroupID:    result.GroupID,
		Business: businessCardDTO{
			Name:     result.Business.Name,
			Category: result.Business.Category,
			LogoURL:  result.Business.LogoURL,
			CoverURL: result.Business.CoverURL,
		},
	}
}

type searchResponse struct {
	Members []searchResultDTO `json:"members"`
}
