package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

type businessService interface {
	GetMine(ctx context.Context, identity application.Identity) (application.Business, error)
	GetByUID(ctx context.Context, uid string) (application.Business, error)
	UpdateMine(ctx context.Context, identity application.Identity, input application.UpdateBusinessInput) (application.Business, error)
}

// BusinessHandler serves business directory profiles.
type BusinessHandler struct {
	service   businessService
	responder responder
}

func NewBusinessHandler(service businessService, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{service: service, responder: newResponder(logger)}
}

func (h *BusinessHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	business, err := h.service.GetMine(r.Context(), identity)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, businessFromModel(business))
}

func (h *BusinessHandler) GetByUID(w http.ResponseWriter, r *http.Request) {
	uid := strings.TrimSpace(r.URL.Query().Get("uid"))

	business, err := h.service.GetByUID(r.Context(), uid)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, businessFromModel(business))
}

func (h *BusinessHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req updateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	business, err := h.service.UpdateMine(r.Context(), identity, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, businessFromModel(business))
}

type businessHoursDTO struct {
	Day    string `json:"day"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

type businessSocialsDTO struct {
	Website   string `json:"website,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type businessProductDTO struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURI    string `json:"image_uri,omitempty"`
}

type updateBusinessRequest struct {
	Name        *string              `json:"name"`
	Phone       *string              `json:"phone"`
	Email       *string              `json:"email"`
	Location    *string              `json:"location"`
	Description *string              `json:"description"`
	LogoURL     *string              `json:"logo_url"`
	CoverURL    *string              `json:"cover_url"`
	Hours       []businessHoursDTO   `json:"hours"`
	Socials     *businessSocialsDTO  `json:"socials"`
	Gallery     []string             `json:"gallery"`
	Products    []businessProductDTO `json:"products"`
}

func (req updateBusinessRequest) toInput() application.UpdateBusinessInput {
	input := application.UpdateBusinessInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Location:    req.Location,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		CoverURL:    req.CoverURL,
		Gallery:     req.Gallery,
	}
	for _, hours := range req.Hours {
		input.Hours = append(input.Hours, application.BusinessHours{
			Day:    hours.Day,
			Open:   hours.Open,
			Close:  hours.Close,
			Closed: hours.Closed,
		})
	}
	if req.Socials != nil {
		input.Socials = &application.BusinessSocials{
			Website:   req.Socials.Website,
			WhatsApp:  req.Socials.WhatsApp,
			Facebook:  req.Socials.Facebook,
			Instagram: req.Socials.Instagram,
			YouTube:   req.Socials.YouTube,
			LinkedIn:  req.Socials.LinkedIn,
		}
	}
	for _, product := range req.Products {
		input.Products = append(input.Products, application.BusinessProduct{
			ID:          product.ID,
			Title:       product.Title,
			Description: product.Description,
			ImageURI:    product.ImageURI,
		})
	}
	return input
}

type businessDTO struct {
	ID          string               `json:"id"`
	AuthUID     string               `json:"auth_uid"`
	Name        string               `json:"name"`
	Category    string               `json:"category"`
	Phone       string               `json:"phone,omitempty"`
	Email       string               `json:"email,omitempty"`
	Location    string               `json:"location,omitempty"`
	LogoURL     string               `json:"logo_url,omitempty"`
	CoverURL    string               `json:"cover_url,omitempty"`
	Description string               `json:"description,omitempty"`
	Hours       []businessHoursDTO   `json:"hours,omitempty"`
	Socials     *businessSocialsDTO  `json:"socials,omitempty"`
	Gallery     []string             `json:"gallery,omitempty"`
	Products    []businessProductDTO `json:"products,omitempty"`
}

func businessFromModel(business application.Business) businessDTO {
	dto := businessDTO{
		ID:          business.ID,
		AuthUID:     business.AuthUID,
		Name:        business.Name,
		Category:    business.Category,
		Phone:       business.Phone,
		Email:       business.Email,
		Location:    business.Location,
		LogoURL:     business.LogoURL,
		CoverURL:    business.CoverURL,
		Description: business.Description,
		Gallery:     business.Gallery,
	}
	for _, hours := range business.Hours {
		dto.Hours = append(dto.Hours, businessHoursDTO{
			Day:    hours.Day,
			Open:   hours.Open,
			Close:  hours.Close,
			Closed: hours.Closed,
		})
	}
	if business.Socials != (application.BusinessSocials{}) {
		dto.Socials = &businessSocialsDTO{
			Website:   business.Socials.Website,
			WhatsApp:  business.Socials.WhatsApp,
			Facebook:  business.Socials.Facebook,
			Instagram: business.Socials.Instagram,
			YouTube:   business.Socials.YouTube,
			LinkedIn:  business.Socials.LinkedIn,
		}
	}
	for _, product := range business.Products {
		dto.Products = append(dto.Products, businessProductDTO{
			ID:          product.ID,
			Title:       product.Title,
			Description: product.Description,
			ImageURI:    product.ImageURI,
		})
	}
	return dto
}
