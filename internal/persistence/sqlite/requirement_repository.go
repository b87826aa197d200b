package sqlite

import (
	"context"
	"database/sql"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

// RequirementRepository persists member requirements and their responses.
type RequirementRepository struct {
	store *Store
}

// NewRequirementRepository builds a requirement repository over the store.
func NewRequirementRepository(store *Store) *RequirementRepository {
	return &RequirementRepository{store: store}
}

const requirementColumns = `id, creator_uid, title, description, category, budget,
	timeline, is_public, tagged_member_uid, created_at, updated_at`

// CreateRequirement inserts a requirement.
func (r *RequirementRepository) CreateRequirement(ctx context.Context, requirement application.Requirement) (application.Requirement, error) {
	isPublic := 0
	if requirement.IsPublic {
		isPublic = 1
	}
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO requirements (`+requirementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		requirement.ID, requirement.CreatorUID, requirement.Title,
		nullString(requirement.Description), nullString(requirement.Category), nullString(requirement.Budget),
		nullTime(requirement.Timeline), isPublic, nullString(requirement.TaggedMemberUID),
		formatTime(requirement.CreatedAt), formatTime(requirement.UpdatedAt),
	)
	if err != nil {
		return application.Requirement{}, mapError(err)
	}
	return requirement, nil
}

// GetRequirement loads a requirement by id.
func (r *RequirementRepository) GetRequirement(ctx context.Context, id string) (application.Requirement, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+requirementColumns+` FROM requirements WHERE id = ?`, id)
	requirement, err := scanRequirement(row.Scan)
	if err != nil {
		return application.Requirement{}, mapError(err)
	}
	return requirement, nil
}

// ListRequirements returns requirements matching the filter, newest first.
func (r *RequirementRepository) ListRequirements(ctx context.Context, filter application.RequirementFilter) ([]application.Requirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM requirements WHERE 1=1`
	args := []any{}
	if filter.CreatorUID != "" {
		query += ` AND creator_uid = ?`
		args = append(args, filter.CreatorUID)
	}
	if filter.PublicOnly {
		query += ` AND is_public = 1`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	requirements := []application.Requirement{}
	for rows.Next() {
		requirement, err := scanRequirement(rows.Scan)
		if err != nil {
			return nil, err
		}
		requirements = append(requirements, requirement)
	}
	return requirements, rows.Err()
}

// CreateRequirementResponse inserts a response to a requirement.
func (r *RequirementRepository) CreateRequirementResponse(ctx context.Context, response application.RequirementResponse) (application.RequirementResponse, error) {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO requirement_responses (id, requirement_id, responder_uid, message, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		response.ID, response.RequirementID, response.ResponderUID, response.Message,
		formatTime(response.CreatedAt),
	)
	if err != nil {
		return application.RequirementResponse{}, mapError(err)
	}
	return response, nil
}

// ListRequirementResponses returns responses to a requirement, newest first.
func (r *RequirementRepository) ListRequirementResponses(ctx context.Context, requirementID string) ([]application.RequirementResponse, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, requirement_id, responder_uid, message, created_at
		FROM requirement_responses
		WHERE requirement_id = ?
		ORDER BY created_at DESC`, requirementID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	responses := []application.RequirementResponse{}
	for rows.Next() {
		var (
			resp      application.RequirementResponse
			createdAt string
		)
		if err := rows.Scan(&resp.ID, &resp.RequirementID, &resp.ResponderUID, &resp.Message, &createdAt); err != nil {
			return nil, err
		}
		resp.CreatedAt = parseTime(createdAt)
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func scanRequirement(scan func(dest ...any) error) (application.Requirement, error) {
	var (
		req                           application.Requirement
		description, category, budget sql.NullString
		timeline, taggedMemberUID     sql.NullString
		isPublic                      int
		createdAt, updatedAt          string
	)
	err := scan(
		&req.ID, &req.CreatorUID, &req.Title, &description, &category, &budget,
		&timeline, &isPublic, &taggedMemberUID, &createdAt, &updatedAt,
	)
	if err != nil {
		return application.Requirement{}, err
	}
	req.Description = description.String
	req.Category = category.String
	req.Budget = budget.String
	req.Timeline = parseTimePtr(timeline)
	req.IsPublic = isPublic != 0
	req.TaggedMemberUID = taggedMemberUID.String
	req.CreatedAt = parseTime(createdAt)
	req.UpdatedAt = parseTime(updatedAt)
	return req, nil
}
