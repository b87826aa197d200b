package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

// AttendanceRepository persists attendance marks. The unique index on
// (meeting_id, member_id) makes concurrent duplicate marks lose with
// persistence.ErrDuplicate.
type AttendanceRepository struct {
	store *Store
}

// NewAttendanceRepository builds an attendance repository over the store.
func NewAttendanceRepository(store *Store) *AttendanceRepository {
	return &AttendanceRepository{store: store}
}

// CreateAttendance inserts an attendance mark.
func (r *AttendanceRepository) CreateAttendance(ctx context.Context, attendance application.Attendance) (application.Attendance, error) {
	location, err := encodeJSON(attendance.Location)
	if err != nil {
		return application.Attendance{}, fmt.Errorf("encode attendance location: %w", err)
	}
	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO attendances (id, meeting_id, member_id, marked_by, status, marked_at, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		attendance.ID, attendance.MeetingID, attendance.MemberID, attendance.MarkedBy,
		string(attendance.Status), formatTime(attendance.MarkedAt), location,
		formatTime(attendance.CreatedAt),
	)
	if err != nil {
		return application.Attendance{}, mapError(err)
	}
	return attendance, nil
}

// ListAttendanceForMember returns the member's marks restricted to the given
// meetings. An empty meeting set yields no rows.
func (r *AttendanceRepository) ListAttendanceForMember(ctx context.Context, memberID string, meetingIDs []string) ([]application.Attendance, error) {
	if len(meetingIDs) == 0 {
		return []application.Attendance{}, nil
	}
	placeholders := strings.Repeat("?, ", len(meetingIDs)-1) + "?"
	args := []any{memberID}
	for _, id := range meetingIDs {
		args = append(args, id)
	}
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, meeting_id, member_id, marked_by, status, marked_at, location, created_at
		FROM attendances
		WHERE member_id = ? AND meeting_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	marks := []application.Attendance{}
	for rows.Next() {
		var (
			a                   application.Attendance
			status              string
			markedAt, createdAt string
			location            sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.MeetingID, &a.MemberID, &a.MarkedBy,
			&status, &markedAt, &location, &createdAt); err != nil {
			return nil, err
		}
		a.Status = application.AttendanceStatus(status)
		a.MarkedAt = parseTime(markedAt)
		a.CreatedAt = parseTime(createdAt)
		if err := decodeJSON(location, &a.Location); err != nil {
			return nil, fmt.Errorf("decode attendance location: %w", err)
		}
		marks = append(marks, a)
	}
	return marks, rows.Err()
}
