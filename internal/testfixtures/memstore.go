package testfixtures

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// MemStore is a mutex-guarded in-memory implementation of every repository
// interface the services consume. It mirrors the SQLite store's semantics,
// including the (meeting, member) attendance uniqueness rule and the
// companion business row seeded at member creation.
type MemStore struct {
	mu sync.Mutex

	members      map[string]application.Member   // keyed by auth UID
	businesses   map[string]application.Business // keyed by auth UID
	meetings     map[string]application.Meeting
	attendances  map[string]application.Attendance
	attendanceBy map[string]string // meetingID+"/"+memberID -> attendance ID
	oneOnOnes    map[string]application.OneOnOne
	referrals    map[string]application.Referral
	requirements map[string]application.Requirement
	responses    map[string][]application.RequirementResponse
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		members:      map[string]application.Member{},
		businesses:   map[string]application.Business{},
		meetings:     map[string]application.Meeting{},
		attendances:  map[string]application.Attendance{},
		attendanceBy: map[string]string{},
		oneOnOnes:    map[string]application.OneOnOne{},
		referrals:    map[string]application.Referral{},
		requirements: map[string]application.Requirement{},
		responses:    map[string][]application.RequirementResponse{},
	}
}

// ----------------------------- members -----------------------------

func (s *MemStore) CreateMember(ctx context.Context, member application.Member) (application.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.members[member.AuthUID]; exists {
		return application.Member{}, fmt.Errorf("member %s: %w", member.AuthUID, persistence.ErrDuplicate)
	}
	s.members[member.AuthUID] = member
	s.seedBusinessLocked(member)
	return member, nil
}

func (s *MemStore) GetMemberByAuthUID(ctx context.Context, authUID string) (application.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.members[authUID]
	if !ok {
		return application.Member{}, persistence.ErrNotFound
	}
	return member, nil
}

func (s *MemStore) GetMemberByPhone(ctx context.Context, phone string) (application.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, member := range s.members {
		if member.Personal.Phone == phone {
			return member, nil
		}
	}
	return application.Member{}, persistence.ErrNotFound
}

func (s *MemStore) UpdateMember(ctx context.Context, member application.Member) (application.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[member.AuthUID]; !ok {
		return application.Member{}, persistence.ErrNotFound
	}
	s.members[member.AuthUID] = member
	s.seedBusinessLocked(member)
	return member, nil
}

func (s *MemStore) SearchMembers(ctx context.Context, query string, limit int) ([]application.MemberSearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(query)
	results := []application.MemberSearchResult{}
	for _, member := range s.members {
		if member.Status != application.MemberStatusApproved {
			continue
		}
		business := s.businesses[member.AuthUID]
		haystack := strings.ToLower(member.Personal.Name + " " + business.Name + " " + business.Category)
		if !strings.Contains(haystack, needle) {
			continue
		}
		results = append(results, application.MemberSearchResult{
			AuthUID:    member.AuthUID,
			Name:       member.Personal.Name,
			ProfilePic: member.Personal.ProfilePic,
			Phone:      member.Personal.Phone,
			Email:      member.Personal.Email,
			GroupID:    member.Personal.GroupID,
			Business: application.BusinessCard{
				Name:     business.Name,
				Category: business.Category,
				LogoURL:  business.LogoURL,
				CoverURL: business.CoverURL,
			},
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// seedBusinessLocked mirrors the store behaviour of keeping a business row
// in step with the member's summary while preserving profile-only fields.
func (s *MemStore) seedBusinessLocked(member application.Member) {
	business, ok := s.businesses[member.AuthUID]
	if !ok {
		business = application.Business{
			ID:        member.ID,
			AuthUID:   member.AuthUID,
			CreatedAt: member.CreatedAt,
		}
	}
	business.Name = member.Business.Name
	business.Category = member.Business.Category
	business.Phone = member.Business.Phone
	business.Email = member.Business.Email
	business.Location = member.Business.Location
	business.UpdatedAt = member.UpdatedAt
	s.businesses[member.AuthUID] = business
}

// ----------------------------- businesses -----------------------------

func (s *MemStore) GetBusinessByAuthUID(ctx context.Context, authUID string) (application.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	business, ok := s.businesses[authUID]
	if !ok {
		return application.Business{}, persistence.ErrNotFound
	}
	return business, nil
}

func (s *MemStore) UpdateBusiness(ctx context.Context, business application.Business) (application.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.businesses[business.AuthUID]; !ok {
		return application.Business{}, persistence.ErrNotFound
	}
	s.businesses[business.AuthUID] = business
	return business, nil
}

// ----------------------------- meetings -----------------------------

func (s *MemStore) CreateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.meetings[meeting.ID]; exists {
		return application.Meeting{}, fmt.Errorf("meeting %s: %w", meeting.ID, persistence.ErrDuplicate)
	}
	s.meetings[meeting.ID] = meeting
	return meeting, nil
}

func (s *MemStore) GetMeeting(ctx context.Context, id string) (application.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return application.Meeting{}, persistence.ErrNotFound
	}
	return meeting, nil
}

func (s *MemStore) ListMeetings(ctx context.Context, filter application.MeetingFilter) ([]application.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meetings := []application.Meeting{}
	for _, meeting := range s.meetings {
		if filter.Status != "" && meeting.Status != filter.Status {
			continue
		}
		if filter.Type != "" && meeting.Type != filter.Type {
			continue
		}
		if filter.StartsAfter != nil && !meeting.StartsAt.After(*filter.StartsAfter) {
			continue
		}
		meetings = append(meetings, meeting)
	}
	sort.Slice(meetings, func(i, j int) bool { return meetings[i].StartsAt.Before(meetings[j].StartsAt) })
	if filter.Limit > 0 && len(meetings) > filter.Limit {
		meetings = meetings[:filter.Limit]
	}
	return meetings, nil
}

// ----------------------------- attendance -----------------------------

func (s *MemStore) CreateAttendance(ctx context.Context, attendance application.Attendance) (application.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attendance.MeetingID + "/" + attendance.MemberID
	if _, exists := s.attendanceBy[key]; exists {
		return application.Attendance{}, fmt.Errorf("attendance %s: %w", key, persistence.ErrDuplicate)
	}
	s.attendances[attendance.ID] = attendance
	s.attendanceBy[key] = attendance.ID
	return attendance, nil
}

func (s *MemStore) ListAttendanceForMember(ctx context.Context, memberID string, meetingIDs []string) ([]application.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marks := []application.Attendance{}
	for _, meetingID := range meetingIDs {
		if id, ok := s.attendanceBy[meetingID+"/"+memberID]; ok {
			marks = append(marks, s.attendances[id])
		}
	}
	return marks, nil
}

// ----------------------------- one-on-ones -----------------------------

func (s *MemStore) CreateOneOnOne(ctx context.Context, record application.OneOnOne) (application.OneOnOne, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.oneOnOnes[record.ID]; exists {
		return application.OneOnOne{}, fmt.Errorf("one-on-one %s: %w", record.ID, persistence.ErrDuplicate)
	}
	s.oneOnOnes[record.ID] = record
	return record, nil
}

func (s *MemStore) GetOneOnOne(ctx context.Context, id string) (application.OneOnOne, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.oneOnOnes[id]
	if !ok {
		return application.OneOnOne{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *MemStore) UpdateOneOnOne(ctx context.Context, record application.OneOnOne) (application.OneOnOne, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.oneOnOnes[record.ID]; !ok {
		return application.OneOnOne{}, persistence.ErrNotFound
	}
	s.oneOnOnes[record.ID] = record
	return record, nil
}

func (s *MemStore) ListOneOnOnes(ctx context.Context, filter application.OneOnOneFilter) ([]application.OneOnOne, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := []application.OneOnOne{}
	for _, record := range s.oneOnOnes {
		if !matchOneOnOne(record, filter) {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StartsAt.After(records[j].StartsAt) })
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

func matchOneOnOne(record application.OneOnOne, filter application.OneOnOneFilter) bool {
	switch {
	case filter.InvolvingUID != "" && filter.OtherUID != "":
		pair := (record.RequesterUID == filter.InvolvingUID && record.RequestedUID == filter.OtherUID) ||
			(record.RequesterUID == filter.OtherUID && record.RequestedUID == filter.InvolvingUID)
		if !pair {
			return false
		}
	case filter.InvolvingUID != "":
		if record.RequesterUID != filter.InvolvingUID && record.RequestedUID != filter.InvolvingUID {
			return false
		}
	}
	if filter.RequesterUID != "" && record.RequesterUID != filter.RequesterUID {
		return false
	}
	if filter.RequestedUID != "" && record.RequestedUID != filter.RequestedUID {
		return false
	}
	if filter.Status != "" && record.Status != filter.Status {
		return false
	}
	return true
}

// ----------------------------- referrals -----------------------------

func (s *MemStore) CreateReferral(ctx context.Context, referral application.Referral) (application.Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.referrals[referral.ID]; exists {
		return application.Referral{}, fmt.Errorf("referral %s: %w", referral.ID, persistence.ErrDuplicate)
	}
	s.referrals[referral.ID] = referral
	return referral, nil
}

func (s *MemStore) GetReferral(ctx context.Context, id string) (application.Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	referral, ok := s.referrals[id]
	if !ok {
		return application.Referral{}, persistence.ErrNotFound
	}
	return referral, nil
}

func (s *MemStore) UpdateReferral(ctx context.Context, referral application.Referral) (application.Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.referrals[referral.ID]; !ok {
		return application.Referral{}, persistence.ErrNotFound
	}
	s.referrals[referral.ID] = referral
	return referral, nil
}

func (s *MemStore) ListReferrals(ctx context.Context, filter application.ReferralFilter) ([]application.Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	referrals := []application.Referral{}
	for _, referral := range s.referrals {
		if filter.GiverUID != "" && referral.GiverUID != filter.GiverUID {
			continue
		}
		if filter.ReceiverUID != "" && referral.ReceiverUID != filter.ReceiverUID {
			continue
		}
		if filter.Status != "" && referral.Status != filter.Status {
			continue
		}
		referrals = append(referrals, referral)
	}
	sort.Slice(referrals, func(i, j int) bool { return referrals[i].CreatedAt.After(referrals[j].CreatedAt) })
	return referrals, nil
}

// ----------------------------- requirements -----------------------------

func (s *MemStore) CreateRequirement(ctx context.Context, requirement application.Requirement) (application.Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requirements[requirement.ID]; exists {
		return application.Requirement{}, fmt.Errorf("requirement %s: %w", requirement.ID, persistence.ErrDuplicate)
	}
	s.requirements[requirement.ID] = requirement
	return requirement, nil
}

func (s *MemStore) GetRequirement(ctx context.Context, id string) (application.Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	requirement, ok := s.requirements[id]
	if !ok {
		return application.Requirement{}, persistence.ErrNotFound
	}
	return requirement, nil
}

func (s *MemStore) ListRequirements(ctx context.Context, filter application.RequirementFilter) ([]application.Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	requirements := []application.Requirement{}
	for _, requirement := range s.requirements {
		if filter.CreatorUID != "" && requirement.CreatorUID != filter.CreatorUID {
			continue
		}
		if filter.PublicOnly && !requirement.IsPublic {
			continue
		}
		requirements = append(requirements, requirement)
	}
	sort.Slice(requirements, func(i, j int) bool { return requirements[i].CreatedAt.After(requirements[j].CreatedAt) })
	if filter.Limit > 0 && len(requirements) > filter.Limit {
		requirements = requirements[:filter.Limit]
	}
	return requirements, nil
}

func (s *MemStore) CreateRequirementResponse(ctx context.Context, response application.RequirementResponse) (application.RequirementResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[response.RequirementID] = append(s.responses[response.RequirementID], response)
	return response, nil
}

func (s *MemStore) ListRequirementResponses(ctx context.Context, requirementID string) ([]application.RequirementResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	responses := append([]application.RequirementResponse{}, s.responses[requirementID]...)
	sort.Slice(responses, func(i, j int) bool { return responses[i].CreatedAt.After(responses[j].CreatedAt) })
	return responses, nil
}

// ----------------------------- stats -----------------------------

func (s *MemStore) CountReferrals(ctx context.Context, since *time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, referral := range s.referrals {
		if since == nil || !referral.CreatedAt.Before(*since) {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) CountRequirements(ctx context.Context, since *time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, requirement := range s.requirements {
		if since == nil || !requirement.CreatedAt.Before(*since) {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) CountMeetings(ctx context.Context, since *time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, meeting := range s.meetings {
		if since == nil || !meeting.CreatedAt.Before(*since) {
			n++
		}
	}
	return n, nil
}

// ----------------------------- seeding -----------------------------

// AddMember inserts a member directly, bypassing validation.
func (s *MemStore) AddMember(member application.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.AuthUID] = member
	s.seedBusinessLocked(member)
}

// AddMeeting inserts a meeting directly.
func (s *MemStore) AddMeeting(meeting application.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[meeting.ID] = meeting
}

// AddOneOnOne inserts a record directly.
func (s *MemStore) AddOneOnOne(record application.OneOnOne) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oneOnOnes[record.ID] = record
}

// AddReferral inserts a referral directly.
func (s *MemStore) AddReferral(referral application.Referral) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrals[referral.ID] = referral
}

// AddRequirement inserts a requirement directly.
func (s *MemStore) AddRequirement(requirement application.Requirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements[requirement.ID] = requirement
}
