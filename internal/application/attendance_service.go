package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// AttendanceRepository captures the persistence interactions needed by the
// attendance recorder. CreateAttendance must surface the store's
// (meeting, member) unique index as persistence.ErrDuplicate; the recorder
// never performs a read-then-write duplicate check of its own.
type AttendanceRepository interface {
	CreateAttendance(ctx context.Context, attendance Attendance) (Attendance, error)
}

// MeetingLookup exposes the meeting read needed by the recorder.
type MeetingLookup interface {
	GetMeeting(ctx context.Context, id string) (Meeting, error)
}

// MarkAttendanceInput captures a member's attendance submission.
type MarkAttendanceInput struct {
	Status    string
	Timestamp *time.Time
	Location  *GeoPoint
}

// AttendanceService validates and persists a single attendance mark per
// meeting and member, enforcing the meeting geofence when configured.
type AttendanceService struct {
	meetings    MeetingLookup
	members     MemberDirectory
	attendance  AttendanceRepository
	idGenerator func() string
	now         func() time.Time
}

// NewAttendanceService wires dependencies for attendance marking.
func NewAttendanceService(meetings MeetingLookup, members MemberDirectory, attendance AttendanceRepository, idGenerator func() string, now func() time.Time) *AttendanceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{
		meetings:    meetings,
		members:     members,
		attendance:  attendance,
		idGenerator: idGenerator,
		now:         now,
	}
}

// MarkAttendance records the caller's presence at a meeting. Exactly one
// durable record is appended per successful call; a repeat attempt fails
// with a conflict rather than overwriting the first mark.
func (s *AttendanceService) MarkAttendance(ctx context.Context, identity Identity, meetingID string, input MarkAttendanceInput) (Attendance, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return Attendance{}, notFoundf("meeting not found")
	}
	if identity.UID == "" {
		return Attendance{}, ErrUnauthenticated
	}

	meeting, err := s.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Attendance{}, notFoundf("meeting not found")
		}
		return Attendance{}, err
	}

	member, err := s.members.GetMemberByAuthUID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Attendance{}, notFoundf("no member record for current account")
		}
		return Attendance{}, err
	}

	if meeting.Geofence != nil {
		if input.Location == nil {
			return Attendance{}, invalidf("location coordinates required for this meeting")
		}
		distance, inside := withinRadius(*meeting.Geofence, input.Location.Lat, input.Location.Lng)
		if !inside {
			return Attendance{}, &GeofenceError{
				DistanceMeters: distance,
				RadiusMeters:   meeting.Geofence.RadiusMeters,
			}
		}
	}

	markedAt := s.now()
	if input.Timestamp != nil {
		markedAt = *input.Timestamp
	}

	attendance := Attendance{
		ID:        s.idGenerator(),
		MeetingID: meeting.ID,
		MemberID:  member.ID,
		MarkedBy:  identity.UID,
		Status:    normalizeAttendanceStatus(input.Status),
		MarkedAt:  markedAt,
		Location:  input.Location,
		CreatedAt: s.now(),
	}

	created, err := s.attendance.CreateAttendance(ctx, attendance)
	if err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return Attendance{}, conflictf("attendance already marked for this meeting")
		}
		return Attendance{}, err
	}
	return created, nil
}

// normalizeAttendanceStatus coerces unknown or missing values to "present".
// This permissive default matches the upstream schema behavior and is
// intentional; tighten here if rejection is ever preferred.
func normalizeAttendanceStatus(status string) AttendanceStatus {
	switch AttendanceStatus(status) {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return AttendanceStatus(status)
	default:
		return AttendancePresent
	}
}
