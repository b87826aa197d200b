package application

import (
	"context"
	"strings"
	"time"
)

// MeetingRepository captures the persistence interactions needed by the meeting service.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) (Meeting, error)
	GetMeeting(ctx context.Context, id string) (Meeting, error)
	ListMeetings(ctx context.Context, filter MeetingFilter) ([]Meeting, error)
}

// MeetingFilter narrows meeting listings. Results are ordered by start
// instant ascending.
type MeetingFilter struct {
	Status      MeetingStatus
	Type        MeetingType
	StartsAfter *time.Time
	Limit       int
}

// AttendanceLookup exposes the attendance reads needed for enriched listings.
type AttendanceLookup interface {
	ListAttendanceForMember(ctx context.Context, memberID string, meetingIDs []string) ([]Attendance, error)
}

// MemberDirectory resolves verified identities to member records.
type MemberDirectory interface {
	GetMemberByAuthUID(ctx context.Context, authUID string) (Member, error)
}

// CreateMeetingInput captures organizer provided meeting fields.
type CreateMeetingInput struct {
	Title       string
	Type        string
	Description string
	Location    string
	DateText    string
	TimeText    string
	CreatedBy   string
	Geofence    *Geofence
}

// ListMeetingsInput captures the public listing filters.
type ListMeetingsInput struct {
	Status   string
	Type     string
	Upcoming bool
	Limit    int
}

// MeetingWithAttendance pairs a meeting with the caller's attendance mark.
type MeetingWithAttendance struct {
	Meeting
	HasMarked bool
	MarkedAt  *time.Time
}

const (
	defaultMeetingLimit = 10
	maxMeetingLimit     = 100
	memberMeetingLimit  = 200
)

// MeetingService owns group meeting creation and listings.
type MeetingService struct {
	meetings    MeetingRepository
	attendance  AttendanceLookup
	members     MemberDirectory
	idGenerator func() string
	now         func() time.Time
}

// NewMeetingService wires dependencies for meeting operations.
func NewMeetingService(meetings MeetingRepository, attendance AttendanceLookup, members MemberDirectory, idGenerator func() string, now func() time.Time) *MeetingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MeetingService{
		meetings:    meetings,
		attendance:  attendance,
		members:     members,
		idGenerator: idGenerator,
		now:         now,
	}
}

// CreateMeeting validates and persists a new group meeting. A geofence is
// either fully configured or absent; handlers reject partial coordinates
// before building the input.
func (s *MeetingService) CreateMeeting(ctx context.Context, input CreateMeetingInput) (Meeting, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.Location) == "" {
		vErr.add("location", "location is required")
	}
	if strings.TrimSpace(input.DateText) == "" {
		vErr.add("date", "date is required")
	}
	if strings.TrimSpace(input.TimeText) == "" {
		vErr.add("time", "time is required")
	}
	if vErr.HasErrors() {
		return Meeting{}, vErr
	}

	startsAt, ok := ParseDateTime(input.DateText, input.TimeText)
	if !ok {
		return Meeting{}, invalidf("invalid date/time format, expected DD-MM-YYYY and hh:mm AM/PM")
	}

	meetingType := MeetingType(input.Type)
	switch meetingType {
	case MeetingTypeGeneral, MeetingTypeSpecial, MeetingTypeTraining:
	default:
		meetingType = MeetingTypeGeneral
	}

	if input.Geofence != nil && input.Geofence.RadiusMeters <= 0 {
		return Meeting{}, invalidf("radiusMeters must be positive")
	}

	now := s.now()
	meeting := Meeting{
		ID:          s.idGenerator(),
		Title:       strings.TrimSpace(input.Title),
		Type:        meetingType,
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    startsAt,
		DateText:    strings.TrimSpace(input.DateText),
		TimeText:    strings.TrimSpace(input.TimeText),
		Status:      MeetingStatusScheduled,
		CreatedBy:   strings.TrimSpace(input.CreatedBy),
		Geofence:    input.Geofence,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.meetings.CreateMeeting(ctx, meeting)
	if err != nil {
		return Meeting{}, mapRepoError(err)
	}
	return created, nil
}

// ListMeetings returns the public meeting listing, soonest first.
func (s *MeetingService) ListMeetings(ctx context.Context, input ListMeetingsInput) ([]Meeting, error) {
	filter := MeetingFilter{Limit: clampLimit(input.Limit, defaultMeetingLimit, maxMeetingLimit)}

	switch MeetingStatus(input.Status) {
	case MeetingStatusScheduled, MeetingStatusCompleted, MeetingStatusCancelled:
		filter.Status = MeetingStatus(input.Status)
	}
	switch MeetingType(input.Type) {
	case MeetingTypeGeneral, MeetingTypeSpecial, MeetingTypeTraining:
		filter.Type = MeetingType(input.Type)
	}
	if input.Upcoming {
		now := s.now()
		filter.Status = MeetingStatusScheduled
		filter.StartsAfter = &now
	}

	meetings, err := s.meetings.ListMeetings(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return meetings, nil
}

// ListMeetingsForMember returns meetings enriched with the caller's own
// attendance marks.
func (s *MeetingService) ListMeetingsForMember(ctx context.Context, identity Identity, input ListMeetingsInput) ([]MeetingWithAttendance, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}

	member, err := s.members.GetMemberByAuthUID(ctx, identity.UID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	filter := MeetingFilter{Limit: memberMeetingLimit}
	switch MeetingStatus(input.Status) {
	case MeetingStatusScheduled, MeetingStatusCompleted, MeetingStatusCancelled:
		filter.Status = MeetingStatus(input.Status)
	}
	switch MeetingType(input.Type) {
	case MeetingTypeGeneral, MeetingTypeSpecial, MeetingTypeTraining:
		filter.Type = MeetingType(input.Type)
	}

	meetings, err := s.meetings.ListMeetings(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}

	ids := make([]string, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID)
	}
	marks, err := s.attendance.ListAttendanceForMember(ctx, member.ID, ids)
	if err != nil {
		return nil, mapRepoError(err)
	}
	markedAt := make(map[string]time.Time, len(marks))
	for _, a := range marks {
		markedAt[a.MeetingID] = a.MarkedAt
	}

	enriched := make([]MeetingWithAttendance, 0, len(meetings))
	for _, m := range meetings {
		entry := MeetingWithAttendance{Meeting: m}
		if at, ok := markedAt[m.ID]; ok {
			entry.HasMarked = true
			t := at
			entry.MarkedAt = &t
		}
		enriched = append(enriched, entry)
	}
	return enriched, nil
}

func clampLimit(limit, fallback, max int) int {
	if limit < 1 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
