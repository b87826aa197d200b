package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// MemberRepository captures the persistence interactions needed by the member service.
type MemberRepository interface {
	CreateMember(ctx context.Context, member Member) (Member, error)
	GetMemberByAuthUID(ctx context.Context, authUID string) (Member, error)
	GetMemberByPhone(ctx context.Context, phone string) (Member, error)
	UpdateMember(ctx context.Context, member Member) (Member, error)
	SearchMembers(ctx context.Context, query string, limit int) ([]MemberSearchResult, error)
}

// MemberSearchResult is a directory search hit joining a member with their
// business card.
type MemberSearchResult struct {
	AuthUID    string
	Name       string
	ProfilePic string
	Phone      string
	Email      string
	GroupID    string
	Business   BusinessCard
}

// BusinessCard is the business summary shown on search results.
type BusinessCard struct {
	Name     string
	Category string
	LogoURL  string
	CoverURL string
}

// RegisterInput captures a registration intake submission.
type RegisterInput struct {
	AuthUID  string
	Personal PersonalProfile
	Business BusinessSummary
}

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// MemberService owns registration intake and member directory lookups.
type MemberService struct {
	members     MemberRepository
	idGenerator func() string
	now         func() time.Time
}

// NewMemberService wires dependencies for member operations.
func NewMemberService(members MemberRepository, idGenerator func() string, now func() time.Time) *MemberService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MemberService{members: members, idGenerator: idGenerator, now: now}
}

// Register creates or replaces the registration for an auth UID. The write is
// idempotent per UID: re-submitting resets the review status to pending but
// preserves the original registration time. The second return value reports
// whether a new record was created.
func (s *MemberService) Register(ctx context.Context, input RegisterInput) (Member, bool, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.AuthUID) == "" {
		vErr.add("authUid", "authUid is required")
	}
	if strings.TrimSpace(input.Personal.Name) == "" {
		vErr.add("personal.name", "name is required")
	}
	if strings.TrimSpace(input.Personal.Phone) == "" {
		vErr.add("personal.phone", "phone is required")
	}
	if strings.TrimSpace(input.Personal.GroupID) == "" {
		vErr.add("personal.groupId", "groupId is required")
	}
	if strings.TrimSpace(input.Business.Name) == "" {
		vErr.add("business.name", "business name is required")
	}
	if strings.TrimSpace(input.Business.Category) == "" {
		vErr.add("business.category", "business category is required")
	}
	if vErr.HasErrors() {
		return Member{}, false, vErr
	}

	authUID := strings.TrimSpace(input.AuthUID)
	now := s.now()

	member := Member{
		AuthUID:      authUID,
		Personal:     normalizePersonal(input.Personal),
		Business:     normalizeBusinessSummary(input.Business),
		Status:       MemberStatusPending,
		RegisteredAt: now,
	}

	existing, err := s.members.GetMemberByAuthUID(ctx, authUID)
	switch {
	case err == nil:
		member.ID = existing.ID
		member.RegisteredAt = existing.RegisteredAt
		updated, uerr := s.members.UpdateMember(ctx, member)
		if uerr != nil {
			return Member{}, false, mapRepoError(uerr)
		}
		return updated, false, nil
	case errors.Is(err, persistence.ErrNotFound):
		member.ID = s.idGenerator()
		created, cerr := s.members.CreateMember(ctx, member)
		if cerr != nil {
			if errors.Is(cerr, persistence.ErrDuplicate) {
				// Lost a concurrent upsert race; the surviving record wins.
				survivor, gerr := s.members.GetMemberByAuthUID(ctx, authUID)
				if gerr != nil {
					return Member{}, false, mapRepoError(gerr)
				}
				return survivor, false, nil
			}
			return Member{}, false, mapRepoError(cerr)
		}
		return created, true, nil
	default:
		return Member{}, false, mapRepoError(err)
	}
}

// GetRegistration returns the registration for an auth UID.
func (s *MemberService) GetRegistration(ctx context.Context, authUID string) (Member, error) {
	if strings.TrimSpace(authUID) == "" {
		return Member{}, invalidf("authUid is required")
	}
	member, err := s.members.GetMemberByAuthUID(ctx, strings.TrimSpace(authUID))
	if err != nil {
		return Member{}, mapRepoError(err)
	}
	return member, nil
}

// UpdateStatus transitions a registration between review states.
func (s *MemberService) UpdateStatus(ctx context.Context, authUID, status string) (Member, error) {
	if strings.TrimSpace(authUID) == "" {
		return Member{}, invalidf("authUid is required")
	}
	next := MemberStatus(status)
	switch next {
	case MemberStatusPending, MemberStatusApproved, MemberStatusRejected:
	default:
		return Member{}, invalidf("invalid status %q", status)
	}

	member, err := s.members.GetMemberByAuthUID(ctx, strings.TrimSpace(authUID))
	if err != nil {
		return Member{}, mapRepoError(err)
	}
	member.Status = next
	updated, err := s.members.UpdateMember(ctx, member)
	if err != nil {
		return Member{}, mapRepoError(err)
	}
	return updated, nil
}

// StatusByPhone resolves the registration status for a phone number. Numbers
// are normalized to their last ten digits, matching how clients store them.
func (s *MemberService) StatusByPhone(ctx context.Context, rawPhone string) (MemberStatus, error) {
	digits := digitsOnly(rawPhone)
	if digits == "" {
		return "", invalidf("phone query is required")
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	member, err := s.members.GetMemberByPhone(ctx, digits)
	if err != nil {
		return "", mapRepoError(err)
	}
	return member.Status, nil
}

// Search matches approved members by member name, business name, or business
// category, case-insensitively. An empty query yields an empty result.
func (s *MemberService) Search(ctx context.Context, identity Identity, query string, limit int) ([]MemberSearchResult, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []MemberSearchResult{}, nil
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	results, err := s.members.SearchMembers(ctx, query, limit)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return results, nil
}

func normalizePersonal(p PersonalProfile) PersonalProfile {
	return PersonalProfile{
		Name:       strings.TrimSpace(p.Name),
		ProfilePic: strings.TrimSpace(p.ProfilePic),
		Phone:      strings.TrimSpace(p.Phone),
		Email:      strings.ToLower(strings.TrimSpace(p.Email)),
		GroupID:    strings.TrimSpace(p.GroupID),
	}
}

func normalizeBusinessSummary(b BusinessSummary) BusinessSummary {
	return BusinessSummary{
		Name:     strings.TrimSpace(b.Name),
		Category: strings.TrimSpace(b.Category),
		Phone:    strings.TrimSpace(b.Phone),
		Email:    strings.ToLower(strings.TrimSpace(b.Email)),
		Location: strings.TrimSpace(b.Location),
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mapRepoError translates persistence sentinels into the application taxonomy.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrConflict
	default:
		return err
	}
}
