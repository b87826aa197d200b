package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// RequirementRepository captures the persistence interactions needed by the
// requirement service.
type RequirementRepository interface {
	CreateRequirement(ctx context.Context, requirement Requirement) (Requirement, error)
	GetRequirement(ctx context.Context, id string) (Requirement, error)
	ListRequirements(ctx context.Context, filter RequirementFilter) ([]Requirement, error)
	CreateRequirementResponse(ctx context.Context, response RequirementResponse) (RequirementResponse, error)
	ListRequirementResponses(ctx context.Context, requirementID string) ([]RequirementResponse, error)
}

// RequirementFilter narrows requirement listings, newest first.
type RequirementFilter struct {
	CreatorUID string
	PublicOnly bool
	Limit      int
}

// BusinessCatalog exposes the business lookups used for display enrichment.
type BusinessCatalog interface {
	GetBusinessByAuthUID(ctx context.Context, authUID string) (Business, error)
}

// CreateRequirementInput captures a new requirement submission.
type CreateRequirementInput struct {
	Title           string
	Description     string
	Category        string
	Budget          string
	Timeline        *time.Time
	IsPublic        *bool
	TaggedMemberUID string
}

// RequirementCreator identifies who posted a requirement or response.
type RequirementCreator struct {
	AuthUID    string
	Name       string
	ProfilePic string
	GroupID    string
	Phone      string
	Email      string
}

// RequirementView is a requirement enriched with creator and business
// display fields.
type RequirementView struct {
	Requirement
	Creator  RequirementCreator
	Business BusinessCard
}

// RequirementResponseView is a response enriched with responder display
// fields.
type RequirementResponseView struct {
	RequirementResponse
	Responder RequirementCreator
}

const (
	defaultRequirementLimit = 20
	maxRequirementLimit     = 50
	myRequirementLimit      = 50
)

// RequirementService owns open requirements, their visibility rules, and
// responses.
type RequirementService struct {
	requirements RequirementRepository
	members      MemberDirectory
	businesses   BusinessCatalog
	idGenerator  func() string
	now          func() time.Time
}

// NewRequirementService wires dependencies for requirement operations.
func NewRequirementService(requirements RequirementRepository, members MemberDirectory, businesses BusinessCatalog, idGenerator func() string, now func() time.Time) *RequirementService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RequirementService{
		requirements: requirements,
		members:      members,
		businesses:   businesses,
		idGenerator:  idGenerator,
		now:          now,
	}
}

// Create persists a new requirement for the caller. Visibility defaults to
// public when unspecified.
func (s *RequirementService) Create(ctx context.Context, identity Identity, input CreateRequirementInput) (Requirement, error) {
	if identity.UID == "" {
		return Requirement{}, ErrUnauthenticated
	}
	if strings.TrimSpace(input.Title) == "" {
		return Requirement{}, invalidf("title is required")
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	now := s.now()
	requirement := Requirement{
		ID:              s.idGenerator(),
		CreatorUID:      identity.UID,
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Category:        strings.TrimSpace(input.Category),
		Budget:          strings.TrimSpace(input.Budget),
		Timeline:        input.Timeline,
		IsPublic:        isPublic,
		TaggedMemberUID: strings.TrimSpace(input.TaggedMemberUID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.requirements.CreateRequirement(ctx, requirement)
	if err != nil {
		return Requirement{}, mapRepoError(err)
	}
	return created, nil
}

// ListPublic returns the public requirement feed enriched with creator and
// business display fields, newest first.
func (s *RequirementService) ListPublic(ctx context.Context, limit int) ([]RequirementView, error) {
	limit = clampLimit(limit, defaultRequirementLimit, maxRequirementLimit)
	items, err := s.requirements.ListRequirements(ctx, RequirementFilter{PublicOnly: true, Limit: limit})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return s.enrich(ctx, items), nil
}

// ListMine returns the caller's own requirements enriched with their
// business card, newest first.
func (s *RequirementService) ListMine(ctx context.Context, identity Identity) ([]RequirementView, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}
	items, err := s.requirements.ListRequirements(ctx, RequirementFilter{CreatorUID: identity.UID, Limit: myRequirementLimit})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return s.enrich(ctx, items), nil
}

// Respond records a member's reply to a requirement. Private requirements
// accept responses only from the creator or the tagged member.
func (s *RequirementService) Respond(ctx context.Context, identity Identity, requirementID, message string) (RequirementResponse, error) {
	if identity.UID == "" {
		return RequirementResponse{}, ErrUnauthenticated
	}
	if strings.TrimSpace(message) == "" {
		return RequirementResponse{}, invalidf("message is required")
	}
	requirementID = strings.TrimSpace(requirementID)
	if requirementID == "" {
		return RequirementResponse{}, invalidf("requirement id is required")
	}

	requirement, err := s.requirements.GetRequirement(ctx, requirementID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return RequirementResponse{}, notFoundf("requirement not found")
		}
		return RequirementResponse{}, err
	}
	if !requirement.IsPublic && identity.UID != requirement.TaggedMemberUID && identity.UID != requirement.CreatorUID {
		return RequirementResponse{}, forbiddenf("not allowed to respond to this requirement")
	}

	response := RequirementResponse{
		ID:            s.idGenerator(),
		RequirementID: requirement.ID,
		ResponderUID:  identity.UID,
		Message:       strings.TrimSpace(message),
		CreatedAt:     s.now(),
	}
	created, err := s.requirements.CreateRequirementResponse(ctx, response)
	if err != nil {
		return RequirementResponse{}, mapRepoError(err)
	}
	return created, nil
}

// ListResponses returns a requirement's responses enriched with responder
// details, newest first.
func (s *RequirementService) ListResponses(ctx context.Context, requirementID string) ([]RequirementResponseView, error) {
	requirementID = strings.TrimSpace(requirementID)
	if requirementID == "" {
		return nil, invalidf("requirement id is required")
	}
	responses, err := s.requirements.ListRequirementResponses(ctx, requirementID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	views := make([]RequirementResponseView, 0, len(responses))
	for _, r := range responses {
		view := RequirementResponseView{RequirementResponse: r, Responder: RequirementCreator{AuthUID: r.ResponderUID}}
		if member, merr := s.members.GetMemberByAuthUID(ctx, r.ResponderUID); merr == nil {
			view.Responder.Name = member.Personal.Name
			view.Responder.ProfilePic = member.Personal.ProfilePic
			view.Responder.GroupID = member.Personal.GroupID
			view.Responder.Phone = member.Personal.Phone
			view.Responder.Email = member.Personal.Email
		}
		views = append(views, view)
	}
	return views, nil
}

// enrich joins requirements with whatever creator and business records
// exist; missing joins leave the display fields empty rather than failing
// the listing.
func (s *RequirementService) enrich(ctx context.Context, items []Requirement) []RequirementView {
	views := make([]RequirementView, 0, len(items))
	for _, item := range items {
		view := RequirementView{Requirement: item, Creator: RequirementCreator{AuthUID: item.CreatorUID}}
		if member, err := s.members.GetMemberByAuthUID(ctx, item.CreatorUID); err == nil {
			view.Creator.Name = member.Personal.Name
			view.Creator.ProfilePic = member.Personal.ProfilePic
		}
		if business, err := s.businesses.GetBusinessByAuthUID(ctx, item.CreatorUID); err == nil {
			view.Business.Name = business.Name
			view.Business.Category = business.Category
			view.Business.LogoURL = business.LogoURL
			view.Business.CoverURL = business.CoverURL
		}
		views = append(views, view)
	}
	return views
}
