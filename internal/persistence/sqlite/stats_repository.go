package sqlite

import (
	"context"
	"time"
)

// StatsRepository serves the aggregate counters behind the overview
// dashboard straight from COUNT queries.
type StatsRepository struct {
	store *Store
}

// NewStatsRepository builds a stats repository over the store.
func NewStatsRepository(store *Store) *StatsRepository {
	return &StatsRepository{store: store}
}

// CountReferrals counts referrals, optionally restricted to those created at
// or after since.
func (r *StatsRepository) CountReferrals(ctx context.Context, since *time.Time) (int, error) {
	return r.count(ctx, "referrals", since)
}

// CountRequirements counts requirements, optionally restricted by creation time.
func (r *StatsRepository) CountRequirements(ctx context.Context, since *time.Time) (int, error) {
	return r.count(ctx, "requirements", since)
}

// CountMeetings counts meetings, optionally restricted by creation time.
func (r *StatsRepository) CountMeetings(ctx context.Context, since *time.Time) (int, error) {
	return r.count(ctx, "meetings", since)
}

func (r *StatsRepository) count(ctx context.Context, table string, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM ` + table
	args := []any{}
	if since != nil {
		query += ` WHERE created_at >= ?`
		args = append(args, formatTime(*since))
	}
	var n int
	if err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}
