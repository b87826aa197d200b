package application

import (
	"context"
	"strings"
	"time"
)

// BusinessRepository captures the persistence interactions needed by the
// business directory service.
type BusinessRepository interface {
	GetBusinessByAuthUID(ctx context.Context, authUID string) (Business, error)
	UpdateBusiness(ctx context.Context, business Business) (Business, error)
}

// UpdateBusinessInput carries a partial profile update. Nil pointers leave
// the corresponding field unchanged; the business category is immutable from
// the API and is therefore absent here.
type UpdateBusinessInput struct {
	Name        *string
	Phone       *string
	Email       *string
	Location    *string
	Description *string
	LogoURL     *string
	CoverURL    *string
	Hours       []BusinessHours
	Socials     *BusinessSocials
	Gallery     []string
	Products    []BusinessProduct
}

// BusinessService owns directory profile reads and updates.
type BusinessService struct {
	businesses BusinessRepository
	now        func() time.Time
}

// NewBusinessService wires dependencies for business profile operations.
func NewBusinessService(businesses BusinessRepository, now func() time.Time) *BusinessService {
	if now == nil {
		now = time.Now
	}
	return &BusinessService{businesses: businesses, now: now}
}

// GetMine returns the caller's business profile.
func (s *BusinessService) GetMine(ctx context.Context, identity Identity) (Business, error) {
	if identity.UID == "" {
		return Business{}, ErrUnauthenticated
	}
	business, err := s.businesses.GetBusinessByAuthUID(ctx, identity.UID)
	if err != nil {
		return Business{}, mapRepoError(err)
	}
	return business, nil
}

// GetByUID returns the business profile for an arbitrary member.
func (s *BusinessService) GetByUID(ctx context.Context, uid string) (Business, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return Business{}, invalidf("uid is required")
	}
	business, err := s.businesses.GetBusinessByAuthUID(ctx, uid)
	if err != nil {
		return Business{}, mapRepoError(err)
	}
	return business, nil
}

// UpdateMine applies a partial update to the caller's business profile.
func (s *BusinessService) UpdateMine(ctx context.Context, identity Identity, input UpdateBusinessInput) (Business, error) {
	if identity.UID == "" {
		return Business{}, ErrUnauthenticated
	}

	business, err := s.businesses.GetBusinessByAuthUID(ctx, identity.UID)
	if err != nil {
		return Business{}, mapRepoError(err)
	}

	if input.Name != nil {
		business.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		business.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		business.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Location != nil {
		business.Location = strings.TrimSpace(*input.Location)
	}
	if input.Description != nil {
		business.Description = strings.TrimSpace(*input.Description)
	}
	if input.LogoURL != nil {
		business.LogoURL = strings.TrimSpace(*input.LogoURL)
	}
	if input.CoverURL != nil {
		business.CoverURL = strings.TrimSpace(*input.CoverURL)
	}
	if input.Hours != nil {
		business.Hours = input.Hours
	}
	if input.Socials != nil {
		business.Socials = *input.Socials
	}
	if input.Gallery != nil {
		business.Gallery = input.Gallery
	}
	if input.Products != nil {
		products := make([]BusinessProduct, 0, len(input.Products))
		for _, p := range input.Products {
			title := strings.TrimSpace(p.Title)
			if title == "" {
				continue
			}
			products = append(products, BusinessProduct{
				ID:          strings.TrimSpace(p.ID),
				Title:       title,
				Description: strings.TrimSpace(p.Description),
				ImageURI:    strings.TrimSpace(p.ImageURI),
			})
		}
		business.Products = products
	}
	business.UpdatedAt = s.now()

	updated, err := s.businesses.UpdateBusiness(ctx, business)
	if err != nil {
		return Business{}, mapRepoError(err)
	}
	return updated, nil
}
