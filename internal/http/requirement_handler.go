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

type requirementService interface {
	Create(ctx context.Context, identity application.Identity, input application.CreateRequirementInput) (application.Requirement, error)
	ListPublic(ctx context.Context, limit int) ([]application.RequirementView, error)
	ListMine(ctx context.Context, identity application.Identity) ([]application.RequirementView, error)
	Respond(ctx context.Context, identity application.Identity, requirementID, message string) (application.RequirementResponse, error)
	ListResponses(ctx context.Context, requirementID string) ([]application.RequirementResponseView, error)
}

// RequirementHandler serves open requirements and responses.
type RequirementHandler struct {
	service   requirementService
	responder responder
}

func NewRequirementHandler(service requirementService, logger *slog.Logger) *RequirementHandler {
	return &RequirementHandler{service: service, responder: newResponder(logger)}
}

func (h *RequirementHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req createRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	requirement, err := h.service.Create(r.Context(), identity, application.CreateRequirementInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Budget:          req.Budget,
		Timeline:        req.Timeline,
		IsPublic:        req.IsPublic,
		TaggedMemberUID: req.TaggedMemberUID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, requirementFromModel(requirement))
}

func (h *RequirementHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	requirements, err := h.service.ListPublic(r.Context(), limit)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderViews(w, r, requirements)
}

func (h *RequirementHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	requirements, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderViews(w, r, requirements)
}

func (h *RequirementHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, _ := ResourceIDFromContext(r.Context())
	identity, _ := IdentityFromContext(r.Context())

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	response, err := h.service.Respond(r.Context(), identity, id, req.Message)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, responseDTO{
		ID:            response.ID,
		RequirementID: response.RequirementID,
		ResponderUID:  response.ResponderUID,
		Message:       response.Message,
		CreatedAt:     response.CreatedAt,
	})
}

func (h *RequirementHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	id, _ := ResourceIDFromContext(r.Context())

	responses, err := h.service.ListResponses(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]responseViewDTO, 0, len(responses))
	for _, view := range responses {
		payload = append(payload, responseViewDTO{
			responseDTO: responseDTO{
				ID:            view.ID,
				RequirementID: view.RequirementID,
				ResponderUID:  view.ResponderUID,
				Message:       view.Message,
				CreatedAt:     view.CreatedAt,
			},
			Responder: creatorFromModel(view.Responder),
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, responseListResponse{Responses: payload})
}

func (h *RequirementHandler) renderViews(w http.ResponseWriter, r *http.Request, views []application.RequirementView) {
	payload := make([]requirementViewDTO, 0, len(views))
	for _, view := range views {
		payload = append(payload, requirementViewDTO{
			requirementDTO: requirementFromModel(view.Requirement),
			Creator:        creatorFromModel(view.Creator),
			Business: businessCardDTO{
				Name:     view.Business.Name,
				Category: view.Business.Category,
				LogoURL:  view.Business.LogoURL,
				CoverURL: view.Business.CoverURL,
			},
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, requirementListResponse{Requirements: payload})
}

type createRequirementRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Budget          string     `json:"budget"`
	Timeline        *time.Time `json:"timeline"`
	IsPublic        *bool      `json:"is_public"`
	TaggedMemberUID string     `json:"tagged_member_uid"`
}

type respondRequest struct {
	Message string `json:"message"`
}

type requirementDTO struct {
	ID              string     `json:"id"`
	CreatorUID      string     `json:"creator_uid"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category,omitempty"`
	Budget          string     `json:"budget,omitempty"`
	Timeline        *time.Time `json:"timeline,omitempty"`
	IsPublic        bool       `json:"is_public"`
	TaggedMemberUID string     `json:"tagged_member_uid,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func requirementFromModel(requirement application.Requirement) requirementDTO {
	return requirementDTO{
		ID:              requirement.ID,
		CreatorUID:      requirement.CreatorUID,
		Title:           requirement.Title,
		Description:     requirement.Description,
		Category:        requirement.Category,
		Budget:          requirement.Budget,
		Timeline:        requirement.Timeline,
		IsPublic:        requirement.IsPublic,
		TaggedMemberUID: requirement.TaggedMemberUID,
		CreatedAt:       requirement.CreatedAt,
	}
}

type creatorDTO struct {
	AuthUID    string `json:"auth_uid"`
	Name       string `json:"name,omitempty"`
	ProfilePic string `json:"profile_pic,omitempty"`
	GroupID    string `json:"group_id,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

func creatorFromModel(creator application.RequirementCreator) creatorDTO {
	return creatorDTO{
		AuthUID:    creator.AuthUID,
		Name:       creator.Name,
		ProfilePic: creator.ProfilePic,
		GroupID:    creator.GroupID,
		Phone:      creator.Phone,
		Email:      creator.Email,
	}
}

type requirementViewDTO struct {
	requirementDTO
	Creator  creatorDTO      `json:"creator"`
	Business businessCardDTO `json:"business"`
}

type requirementListResponse struct {
	Requirements []requirementViewDTO `json:"requirements"`
}

type responseDTO struct {
	ID            string    `json:"id"`
	RequirementID string    `json:"requirement_id"`
	ResponderUID  string    `json:"responder_uid"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

type responseViewDTO struct {
	responseDTO
	Responder creatorDTO `json:"responder"`
}

type responseListResponse struct {
	Responses []responseViewDTO `json:"responses"`
}
