package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// OneOnOneRepository persists peer meeting requests. The live reschedule
// proposal is embedded as nullable proposal_* columns; a record carries at
// most one proposal at a time, so no separate table is needed.
type OneOnOneRepository struct {
	store *Store
}

// NewOneOnOneRepository builds a one-on-one repository over the store.
func NewOneOnOneRepository(store *Store) *OneOnOneRepository {
	return &OneOnOneRepository{store: store}
}

const oneOnOneColumns = `id, title, description, location, starts_at, date_text, time_text,
	status, requester_uid, requested_uid, created_by,
	proposal_date_text, proposal_time_text, proposal_location, proposal_by_uid,
	proposal_at, proposal_status, proposal_note,
	last_action_at, proof_photo_url, completed_at, created_at, updated_at`

// CreateOneOnOne inserts a record.
func (r *OneOnOneRepository) CreateOneOnOne(ctx context.Context, record application.OneOnOne) (application.OneOnOne, error) {
	args := oneOnOneArgs(record)
	placeholders := "?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?"
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO one_on_ones (`+oneOnOneColumns+`) VALUES (`+placeholders+`)`, args...)
	if err != nil {
		return application.OneOnOne{}, mapError(err)
	}
	return record, nil
}

// GetOneOnOne loads a record by id.
func (r *OneOnOneRepository) GetOneOnOne(ctx context.Context, id string) (application.OneOnOne, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+oneOnOneColumns+` FROM one_on_ones WHERE id = ?`, id)
	record, err := scanOneOnOne(row.Scan)
	if err != nil {
		return application.OneOnOne{}, mapError(err)
	}
	return record, nil
}

// UpdateOneOnOne rewrites a record in full.
func (r *OneOnOneRepository) UpdateOneOnOne(ctx context.Context, record application.OneOnOne) (application.OneOnOne, error) {
	args := oneOnOneArgs(record)
	// Shift id from first insert position to the WHERE clause.
	args = append(args[1:], args[0])
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE one_on_ones SET
			title = ?, description = ?, location = ?, starts_at = ?, date_text = ?, time_text = ?,
			status = ?, requester_uid = ?, requested_uid = ?, created_by = ?,
			proposal_date_text = ?, proposal_time_text = ?, proposal_location = ?, proposal_by_uid = ?,
			proposal_at = ?, proposal_status = ?, proposal_note = ?,
			last_action_at = ?, proof_photo_url = ?, completed_at = ?, created_at = ?, updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return application.OneOnOne{}, mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return application.OneOnOne{}, err
	} else if n == 0 {
		return application.OneOnOne{}, fmt.Errorf("update one-on-one %s: %w", record.ID, persistence.ErrNotFound)
	}
	return record, nil
}

// ListOneOnOnes returns records matching the filter, newest start first.
func (r *OneOnOneRepository) ListOneOnOnes(ctx context.Context, filter application.OneOnOneFilter) ([]application.OneOnOne, error) {
	query := `SELECT ` + oneOnOneColumns + ` FROM one_on_ones WHERE 1=1`
	args := []any{}
	switch {
	case filter.InvolvingUID != "" && filter.OtherUID != "":
		query += ` AND ((requester_uid = ? AND requested_uid = ?) OR (requester_uid = ? AND requested_uid = ?))`
		args = append(args, filter.InvolvingUID, filter.OtherUID, filter.OtherUID, filter.InvolvingUID)
	case filter.InvolvingUID != "":
		query += ` AND (requester_uid = ? OR requested_uid = ?)`
		args = append(args, filter.InvolvingUID, filter.InvolvingUID)
	}
	if filter.RequesterUID != "" {
		query += ` AND requester_uid = ?`
		args = append(args, filter.RequesterUID)
	}
	if filter.RequestedUID != "" {
		query += ` AND requested_uid = ?`
		args = append(args, filter.RequestedUID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY starts_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	records := []application.OneOnOne{}
	for rows.Next() {
		record, err := scanOneOnOne(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func oneOnOneArgs(record application.OneOnOne) []any {
	var (
		pDate, pTime, pLocation, pBy, pAt, pStatus, pNote sql.NullString
	)
	if p := record.Proposal; p != nil {
		pDate = nullString(p.DateText)
		pTime = nullString(p.TimeText)
		pLocation = nullString(p.Location)
		pBy = sql.NullString{String: p.ProposedByUID, Valid: true}
		pAt = sql.NullString{String: formatTime(p.ProposedAt), Valid: true}
		pStatus = sql.NullString{String: string(p.Status), Valid: true}
		pNote = nullString(p.Note)
	}
	return []any{
		record.ID, record.Title, nullString(record.Description), record.Location,
		formatTime(record.StartsAt), record.DateText, record.TimeText,
		string(record.Status), record.RequesterUID, record.RequestedUID, nullString(record.CreatedBy),
		pDate, pTime, pLocation, pBy, pAt, pStatus, pNote,
		nullTime(record.LastActionAt), nullString(record.ProofPhotoURL), nullTime(record.CompletedAt),
		formatTime(record.CreatedAt), formatTime(record.UpdatedAt),
	}
}

func scanOneOnOne(scan func(dest ...any) error) (application.OneOnOne, error) {
	var (
		rec                                               application.OneOnOne
		description, createdBy, proofPhotoURL             sql.NullString
		status, startsAt, createdAt, updatedAt            string
		pDate, pTime, pLocation, pBy, pAt, pStatus, pNote sql.NullString
		lastActionAt, completedAt                         sql.NullString
	)
	err := scan(
		&rec.ID, &rec.Title, &description, &rec.Location, &startsAt, &rec.DateText, &rec.TimeText,
		&status, &rec.RequesterUID, &rec.RequestedUID, &createdBy,
		&pDate, &pTime, &pLocation, &pBy, &pAt, &pStatus, &pNote,
		&lastActionAt, &proofPhotoURL, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return application.OneOnOne{}, err
	}
	rec.Description = description.String
	rec.CreatedBy = createdBy.String
	rec.Status = application.OneOnOneStatus(status)
	rec.StartsAt = parseTime(startsAt)
	rec.LastActionAt = parseTimePtr(lastActionAt)
	rec.ProofPhotoURL = proofPhotoURL.String
	rec.CompletedAt = parseTimePtr(completedAt)
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	if pStatus.Valid {
		rec.Proposal = &application.Proposal{
			DateText:      pDate.String,
			TimeText:      pTime.String,
			Location:      pLocation.String,
			ProposedByUID: pBy.String,
			ProposedAt:    parseTime(pAt.String),
			Status:        application.ProposalStatus(pStatus.String),
			Note:          pNote.String,
		}
	}
	return rec, nil
}
