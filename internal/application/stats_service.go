package application

import (
	"context"
	"time"
)

// StatsRepository exposes the aggregate counters behind the overview.
type StatsRepository interface {
	CountReferrals(ctx context.Context, since *time.Time) (int, error)
	CountRequirements(ctx context.Context, since *time.Time) (int, error)
	CountMeetings(ctx context.Context, since *time.Time) (int, error)
}

// StatsBucket holds an all-time total and the count since the start of the
// current week.
type StatsBucket struct {
	Total    int
	ThisWeek int
}

// StatsOverview is the aggregate snapshot served to dashboards.
type StatsOverview struct {
	Referrals    StatsBucket
	Requirements StatsBucket
	Meetings     StatsBucket
	WeekStart    time.Time
}

// StatsService computes aggregate statistics across the organization.
type StatsService struct {
	stats StatsRepository
	now   func() time.Time
}

// NewStatsService wires dependencies for statistics.
func NewStatsService(stats StatsRepository, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{stats: stats, now: now}
}

// Overview returns totals and Monday-week counts for referrals,
// requirements, and meetings.
func (s *StatsService) Overview(ctx context.Context) (StatsOverview, error) {
	weekStart := startOfWeek(s.now())
	overview := StatsOverview{WeekStart: weekStart}

	var err error
	if overview.Referrals.Total, err = s.stats.CountReferrals(ctx, nil); err != nil {
		return StatsOverview{}, err
	}
	if overview.Referrals.ThisWeek, err = s.stats.CountReferrals(ctx, &weekStart); err != nil {
		return StatsOverview{}, err
	}
	if overview.Requirements.Total, err = s.stats.CountRequirements(ctx, nil); err != nil {
		return StatsOverview{}, err
	}
	if overview.Requirements.ThisWeek, err = s.stats.CountRequirements(ctx, &weekStart); err != nil {
		return StatsOverview{}, err
	}
	if overview.Meetings.Total, err = s.stats.CountMeetings(ctx, nil); err != nil {
		return StatsOverview{}, err
	}
	if overview.Meetings.ThisWeek, err = s.stats.CountMeetings(ctx, &weekStart); err != nil {
		return StatsOverview{}, err
	}
	return overview, nil
}

// startOfWeek returns midnight on the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	day := int(t.Weekday())
	if day == 0 {
		day = 7
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -(day - 1))
}
