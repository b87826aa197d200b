package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// MemberRepository persists member registrations. Writes also maintain the
// companion businesses row so directory search and profile reads see every
// registered member without a separate provisioning step.
type MemberRepository struct {
	store *Store
}

// NewMemberRepository builds a member repository over the store.
func NewMemberRepository(store *Store) *MemberRepository {
	return &MemberRepository{store: store}
}

const memberColumns = `id, auth_uid, name, profile_pic, phone, email, group_id,
	business_name, business_category, business_phone, business_email, business_location,
	status, registered_at, created_at, updated_at`

// CreateMember inserts a member and seeds their business profile.
func (r *MemberRepository) CreateMember(ctx context.Context, member application.Member) (application.Member, error) {
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO members (`+memberColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			member.ID, member.AuthUID,
			member.Personal.Name, nullString(member.Personal.ProfilePic), member.Personal.Phone,
			nullString(member.Personal.Email), member.Personal.GroupID,
			member.Business.Name, member.Business.Category, nullString(member.Business.Phone),
			nullString(member.Business.Email), nullString(member.Business.Location),
			string(member.Status), formatTime(member.RegisteredAt),
			formatTime(member.CreatedAt), formatTime(member.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		return upsertBusinessSummary(ctx, tx, member)
	})
	if err != nil {
		return application.Member{}, err
	}
	return member, nil
}

// GetMemberByAuthUID loads a member by their identity provider UID.
func (r *MemberRepository) GetMemberByAuthUID(ctx context.Context, authUID string) (application.Member, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE auth_uid = ?`, authUID)
	return scanMember(row)
}

// GetMemberByPhone loads a member by their registered phone number.
func (r *MemberRepository) GetMemberByPhone(ctx context.Context, phone string) (application.Member, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE phone = ?`, phone)
	return scanMember(row)
}

// UpdateMember rewrites a member record and refreshes the business summary
// fields on the companion profile, leaving the profile-only fields (logo,
// hours, gallery) untouched.
func (r *MemberRepository) UpdateMember(ctx context.Context, member application.Member) (application.Member, error) {
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE members SET
				name = ?, profile_pic = ?, phone = ?, email = ?, group_id = ?,
				business_name = ?, business_category = ?, business_phone = ?,
				business_email = ?, business_location = ?,
				status = ?, registered_at = ?, updated_at = ?
			WHERE auth_uid = ?`,
			member.Personal.Name, nullString(member.Personal.ProfilePic), member.Personal.Phone,
			nullString(member.Personal.Email), member.Personal.GroupID,
			member.Business.Name, member.Business.Category, nullString(member.Business.Phone),
			nullString(member.Business.Email), nullString(member.Business.Location),
			string(member.Status), formatTime(member.RegisteredAt), formatTime(member.UpdatedAt),
			member.AuthUID,
		)
		if err != nil {
			return mapError(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return fmt.Errorf("update member %s: %w", member.AuthUID, persistence.ErrNotFound)
		}
		return upsertBusinessSummary(ctx, tx, member)
	})
	if err != nil {
		return application.Member{}, err
	}
	return member, nil
}

// SearchMembers looks up approved members whose name, business name, or
// category matches the query, joined with their business card.
func (r *MemberRepository) SearchMembers(ctx context.Context, query string, limit int) ([]application.MemberSearchResult, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT m.auth_uid, m.name, m.profile_pic, m.phone, m.email, m.group_id,
		       b.name, b.category, b.logo_url, b.cover_url
		FROM members m
		JOIN businesses b ON b.auth_uid = m.auth_uid
		WHERE m.status = 'approved'
		  AND (LOWER(m.name) LIKE ? OR LOWER(b.name) LIKE ? OR LOWER(b.category) LIKE ?)
		ORDER BY m.name ASC
		LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	results := []application.MemberSearchResult{}
	for rows.Next() {
		var (
			res                                  application.MemberSearchResult
			profilePic, email, logoURL, coverURL sql.NullString
		)
		if err := rows.Scan(
			&res.AuthUID, &res.Name, &profilePic, &res.Phone, &email, &res.GroupID,
			&res.Business.Name, &res.Business.Category, &logoURL, &coverURL,
		); err != nil {
			return nil, err
		}
		res.ProfilePic = profilePic.String
		res.Email = email.String
		res.Business.LogoURL = logoURL.String
		res.Business.CoverURL = coverURL.String
		results = append(results, res)
	}
	return results, rows.Err()
}

// upsertBusinessSummary keeps the businesses row in step with the summary
// captured on the member record.
func upsertBusinessSummary(ctx context.Context, tx *sql.Tx, member application.Member) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO businesses (id, auth_uid, name, category, phone, email, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(auth_uid) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			phone = excluded.phone,
			email = excluded.email,
			location = excluded.location,
			updated_at = excluded.updated_at`,
		member.ID, member.AuthUID,
		member.Business.Name, member.Business.Category, nullString(member.Business.Phone),
		nullString(member.Business.Email), nullString(member.Business.Location),
		formatTime(member.CreatedAt), formatTime(member.UpdatedAt),
	)
	return mapError(err)
}

func scanMember(row *sql.Row) (application.Member, error) {
	var (
		m                                          application.Member
		profilePic, email                          sql.NullString
		bizPhone, bizEmail, bizLocation            sql.NullString
		status, registeredAt, createdAt, updatedAt string
	)
	err := row.Scan(
		&m.ID, &m.AuthUID,
		&m.Personal.Name, &profilePic, &m.Personal.Phone, &email, &m.Personal.GroupID,
		&m.Business.Name, &m.Business.Category, &bizPhone, &bizEmail, &bizLocation,
		&status, &registeredAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return application.Member{}, mapError(err)
	}
	m.Personal.ProfilePic = profilePic.String
	m.Personal.Email = email.String
	m.Business.Phone = bizPhone.String
	m.Business.Email = bizEmail.String
	m.Business.Location = bizLocation.String
	m.Status = application.MemberStatus(status)
	m.RegisteredAt = parseTime(registeredAt)
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return m, nil
}
