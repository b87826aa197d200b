package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// BusinessRepository persists full business directory profiles.
type BusinessRepository struct {
	store *Store
}

// NewBusinessRepository builds a business repository over the store.
func NewBusinessRepository(store *Store) *BusinessRepository {
	return &BusinessRepository{store: store}
}

// GetBusinessByAuthUID loads a business profile by its owner's identity UID.
func (r *BusinessRepository) GetBusinessByAuthUID(ctx context.Context, authUID string) (application.Business, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, auth_uid, name, category, phone, email, location,
		       logo_url, cover_url, description, hours, socials, gallery, products,
		       created_at, updated_at
		FROM businesses WHERE auth_uid = ?`, authUID)

	var (
		b                              application.Business
		phone, email, location         sql.NullString
		logoURL, coverURL, description sql.NullString
		hours, socials, gallery, prods sql.NullString
		createdAt, updatedAt           string
	)
	err := row.Scan(
		&b.ID, &b.AuthUID, &b.Name, &b.Category, &phone, &email, &location,
		&logoURL, &coverURL, &description, &hours, &socials, &gallery, &prods,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return application.Business{}, mapError(err)
	}
	b.Phone = phone.String
	b.Email = email.String
	b.Location = location.String
	b.LogoURL = logoURL.String
	b.CoverURL = coverURL.String
	b.Description = description.String
	if err := decodeJSON(hours, &b.Hours); err != nil {
		return application.Business{}, fmt.Errorf("decode business hours: %w", err)
	}
	if err := decodeJSON(socials, &b.Socials); err != nil {
		return application.Business{}, fmt.Errorf("decode business socials: %w", err)
	}
	if err := decodeJSON(gallery, &b.Gallery); err != nil {
		return application.Business{}, fmt.Errorf("decode business gallery: %w", err)
	}
	if err := decodeJSON(prods, &b.Products); err != nil {
		return application.Business{}, fmt.Errorf("decode business products: %w", err)
	}
	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	return b, nil
}

// UpdateBusiness rewrites a business profile.
func (r *BusinessRepository) UpdateBusiness(ctx context.Context, business application.Business) (application.Business, error) {
	hours, err := encodeJSON(business.Hours)
	if err != nil {
		return application.Business{}, fmt.Errorf("encode business hours: %w", err)
	}
	socials, err := encodeJSON(business.Socials)
	if err != nil {
		return application.Business{}, fmt.Errorf("encode business socials: %w", err)
	}
	gallery, err := encodeJSON(business.Gallery)
	if err != nil {
		return application.Business{}, fmt.Errorf("encode business gallery: %w", err)
	}
	products, err := encodeJSON(business.Products)
	if err != nil {
		return application.Business{}, fmt.Errorf("encode business products: %w", err)
	}

	res, err := r.store.db.ExecContext(ctx, `
		UPDATE businesses SET
			name = ?, phone = ?, email = ?, location = ?,
			logo_url = ?, cover_url = ?, description = ?,
			hours = ?, socials = ?, gallery = ?, products = ?,
			updated_at = ?
		WHERE auth_uid = ?`,
		business.Name, nullString(business.Phone), nullString(business.Email), nullString(business.Location),
		nullString(business.LogoURL), nullString(business.CoverURL), nullString(business.Description),
		hours, socials, gallery, products,
		formatTime(business.UpdatedAt),
		business.AuthUID,
	)
	if err != nil {
		return application.Business{}, mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return application.Business{}, err
	} else if n == 0 {
		return application.Business{}, fmt.Errorf("update business %s: %w", business.AuthUID, persistence.ErrNotFound)
	}
	return business, nil
}
