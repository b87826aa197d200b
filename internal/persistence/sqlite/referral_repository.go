package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// ReferralRepository persists business referrals.
type ReferralRepository struct {
	store *Store
}

// NewReferralRepository builds a referral repository over the store.
func NewReferralRepository(store *Store) *ReferralRepository {
	return &ReferralRepository{store: store}
}

const referralColumns = `id, giver_uid, receiver_uid, referral_type, referred_member_uid,
	manual_name, manual_business_name, manual_category, manual_email,
	description, notes, attachments, thank_note_message, thank_note_amount,
	status, created_at, updated_at`

// CreateReferral inserts a referral.
func (r *ReferralRepository) CreateReferral(ctx context.Context, referral application.Referral) (application.Referral, error) {
	args, err := referralArgs(referral)
	if err != nil {
		return application.Referral{}, err
	}
	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO referrals (`+referralColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...)
	if err != nil {
		return application.Referral{}, mapError(err)
	}
	return referral, nil
}

// GetReferral loads a referral by id.
func (r *ReferralRepository) GetReferral(ctx context.Context, id string) (application.Referral, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+referralColumns+` FROM referrals WHERE id = ?`, id)
	referral, err := scanReferral(row.Scan)
	if err != nil {
		return application.Referral{}, mapError(err)
	}
	return referral, nil
}

// UpdateReferral rewrites a referral in full.
func (r *ReferralRepository) UpdateReferral(ctx context.Context, referral application.Referral) (application.Referral, error) {
	args, err := referralArgs(referral)
	if err != nil {
		return application.Referral{}, err
	}
	args = append(args[1:], args[0])
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE referrals SET
			giver_uid = ?, receiver_uid = ?, referral_type = ?, referred_member_uid = ?,
			manual_name = ?, manual_business_name = ?, manual_category = ?, manual_email = ?,
			description = ?, notes = ?, attachments = ?, thank_note_message = ?, thank_note_amount = ?,
			status = ?, created_at = ?, updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return application.Referral{}, mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return application.Referral{}, err
	} else if n == 0 {
		return application.Referral{}, fmt.Errorf("update referral %s: %w", referral.ID, persistence.ErrNotFound)
	}
	return referral, nil
}

// ListReferrals returns referrals matching the filter, newest first.
func (r *ReferralRepository) ListReferrals(ctx context.Context, filter application.ReferralFilter) ([]application.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE 1=1`
	args := []any{}
	if filter.GiverUID != "" {
		query += ` AND giver_uid = ?`
		args = append(args, filter.GiverUID)
	}
	if filter.ReceiverUID != "" {
		query += ` AND receiver_uid = ?`
		args = append(args, filter.ReceiverUID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	referrals := []application.Referral{}
	for rows.Next() {
		referral, err := scanReferral(rows.Scan)
		if err != nil {
			return nil, err
		}
		referrals = append(referrals, referral)
	}
	return referrals, rows.Err()
}

func referralArgs(referral application.Referral) ([]any, error) {
	attachments, err := encodeJSON(referral.Attachments)
	if err != nil {
		return nil, fmt.Errorf("encode referral attachments: %w", err)
	}
	var manualName, manualBusiness, manualCategory, manualEmail sql.NullString
	if m := referral.ReferredManual; m != nil {
		manualName = sql.NullString{String: m.Name, Valid: true}
		manualBusiness = nullString(m.BusinessName)
		manualCategory = nullString(m.Category)
		manualEmail = nullString(m.Email)
	}
	var amount sql.NullFloat64
	if referral.ThankNoteAmount != nil {
		amount = sql.NullFloat64{Float64: *referral.ThankNoteAmount, Valid: true}
	}
	return []any{
		referral.ID, referral.GiverUID, referral.ReceiverUID, string(referral.Type),
		nullString(referral.ReferredMemberUID),
		manualName, manualBusiness, manualCategory, manualEmail,
		referral.Description, nullString(referral.Notes), attachments,
		nullString(referral.ThankNoteMessage), amount,
		string(referral.Status), formatTime(referral.CreatedAt), formatTime(referral.UpdatedAt),
	}, nil
}

func scanReferral(scan func(dest ...any) error) (application.Referral, error) {
	var (
		ref                                                  application.Referral
		refType, status, createdAt, updatedAt                string
		referredMemberUID, notes, attachments, thankMessage  sql.NullString
		manualName, manualBusiness, manualCategory, manEmail sql.NullString
		amount                                               sql.NullFloat64
	)
	err := scan(
		&ref.ID, &ref.GiverUID, &ref.ReceiverUID, &refType, &referredMemberUID,
		&manualName, &manualBusiness, &manualCategory, &manEmail,
		&ref.Description, &notes, &attachments, &thankMessage, &amount,
		&status, &createdAt, &updatedAt,
	)
	if err != nil {
		return application.Referral{}, err
	}
	ref.Type = application.ReferralType(refType)
	ref.ReferredMemberUID = referredMemberUID.String
	ref.Notes = notes.String
	ref.ThankNoteMessage = thankMessage.String
	ref.Status = application.ReferralStatus(status)
	ref.CreatedAt = parseTime(createdAt)
	ref.UpdatedAt = parseTime(updatedAt)
	if manualName.Valid {
		ref.ReferredManual = &application.ManualReferral{
			Name:         manualName.String,
			BusinessName: manualBusiness.String,
			Category:     manualCategory.String,
			Email:        manEmail.String,
		}
	}
	if amount.Valid {
		v := amount.Float64
		ref.ThankNoteAmount = &v
	}
	if err := decodeJSON(attachments, &ref.Attachments); err != nil {
		return application.Referral{}, fmt.Errorf("decode referral attachments: %w", err)
	}
	return ref, nil
}
