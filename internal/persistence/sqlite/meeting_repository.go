package sqlite

import (
	"context"
	"database/sql"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

// MeetingRepository persists group meetings.
type MeetingRepository struct {
	store *Store
}

// NewMeetingRepository builds a meeting repository over the store.
func NewMeetingRepository(store *Store) *MeetingRepository {
	return &MeetingRepository{store: store}
}

const meetingColumns = `id, title, meeting_type, description, location, starts_at,
	date_text, time_text, status, created_by,
	geofence_lat, geofence_lng, geofence_radius_m, created_at, updated_at`

// CreateMeeting inserts a meeting.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	var fenceLat, fenceLng, fenceRadius sql.NullFloat64
	if f := meeting.Geofence; f != nil {
		fenceLat = sql.NullFloat64{Float64: f.Lat, Valid: true}
		fenceLng = sql.NullFloat64{Float64: f.Lng, Valid: true}
		fenceRadius = sql.NullFloat64{Float64: f.RadiusMeters, Valid: true}
	}
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO meetings (`+meetingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meeting.ID, meeting.Title, string(meeting.Type), nullString(meeting.Description),
		meeting.Location, formatTime(meeting.StartsAt),
		meeting.DateText, meeting.TimeText, string(meeting.Status), nullString(meeting.CreatedBy),
		fenceLat, fenceLng, fenceRadius,
		formatTime(meeting.CreatedAt), formatTime(meeting.UpdatedAt),
	)
	if err != nil {
		return application.Meeting{}, mapError(err)
	}
	return meeting, nil
}

// GetMeeting loads a meeting by id.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id string) (application.Meeting, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id)
	meeting, err := scanMeeting(row.Scan)
	if err != nil {
		return application.Meeting{}, mapError(err)
	}
	return meeting, nil
}

// ListMeetings returns meetings matching the filter ordered by start
// instant ascending.
func (r *MeetingRepository) ListMeetings(ctx context.Context, filter application.MeetingFilter) ([]application.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		query += " AND meeting_type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.StartsAfter != nil {
		query += " AND starts_at > ?"
		args = append(args, formatTime(*filter.StartsAfter))
	}
	query += " ORDER BY starts_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	meetings := []application.Meeting{}
	for rows.Next() {
		meeting, err := scanMeeting(rows.Scan)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}

func scanMeeting(scan func(dest ...any) error) (application.Meeting, error) {
	var (
		m                               application.Meeting
		description, createdBy          sql.NullString
		mType, status                   string
		startsAt, createdAt, updatedAt  string
		fenceLat, fenceLng, fenceRadius sql.NullFloat64
	)
	err := scan(
		&m.ID, &m.Title, &mType, &description, &m.Location, &startsAt,
		&m.DateText, &m.TimeText, &status, &createdBy,
		&fenceLat, &fenceLng, &fenceRadius, &createdAt, &updatedAt,
	)
	if err != nil {
		return application.Meeting{}, err
	}
	m.Type = application.MeetingType(mType)
	m.Description = description.String
	m.Status = application.MeetingStatus(status)
	m.CreatedBy = createdBy.String
	m.StartsAt = parseTime(startsAt)
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	if fenceLat.Valid && fenceLng.Valid && fenceRadius.Valid {
		m.Geofence = &application.Geofence{
			Lat:          fenceLat.Float64,
			Lng:          fenceLng.Float64,
			RadiusMeters: fenceRadius.Float64,
		}
	}
	return m, nil
}
