package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func seedMember(uid string) application.Member {
	now := time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)
	return application.Member{
		ID:      "member-" + uid,
		AuthUID: uid,
		Personal: application.PersonalProfile{
			Name:    "Priya S",
			Phone:   "9876500042",
			GroupID: "group-1",
		},
		Business: application.BusinessSummary{
			Name:     "Priya Interiors",
			Category: "Interior Design",
		},
		Status:       application.MemberStatusApproved,
		RegisteredAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMemberRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	members := sqlite.NewMemberRepository(store)
	businesses := sqlite.NewBusinessRepository(store)

	member := seedMember("uid-1")
	created, err := members.CreateMember(ctx, member)
	require.NoError(t, err)

	loaded, err := members.GetMemberByAuthUID(ctx, "uid-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, loaded.ID)
	require.Equal(t, member.Personal.Name, loaded.Personal.Name)
	require.True(t, loaded.RegisteredAt.Equal(member.RegisteredAt))

	t.Run("registration seeds the business profile", func(t *testing.T) {
		business, err := businesses.GetBusinessByAuthUID(ctx, "uid-1")
		require.NoError(t, err)
		require.Equal(t, "Priya Interiors", business.Name)
		require.Equal(t, "Interior Design", business.Category)
	})

	t.Run("update preserves profile only fields", func(t *testing.T) {
		business, err := businesses.GetBusinessByAuthUID(ctx, "uid-1")
		require.NoError(t, err)
		business.LogoURL = "https://cdn.example/logo.png"
		business.Hours = []application.BusinessHours{{Day: "monday", Open: "09:00", Close: "18:00"}}
		_, err = businesses.UpdateBusiness(ctx, business)
		require.NoError(t, err)

		member.Business.Name = "Priya Interiors & Decor"
		_, err = members.UpdateMember(ctx, member)
		require.NoError(t, err)

		after, err := businesses.GetBusinessByAuthUID(ctx, "uid-1")
		require.NoError(t, err)
		require.Equal(t, "Priya Interiors & Decor", after.Name)
		require.Equal(t, "https://cdn.example/logo.png", after.LogoURL)
		require.Len(t, after.Hours, 1)
	})

	t.Run("duplicate auth uid", func(t *testing.T) {
		dup := seedMember("uid-1")
		dup.ID = "member-other"
		_, err := members.CreateMember(ctx, dup)
		require.ErrorIs(t, err, persistence.ErrDuplicate)
	})

	t.Run("lookup by phone", func(t *testing.T) {
		found, err := members.GetMemberByPhone(ctx, "9876500042")
		require.NoError(t, err)
		require.Equal(t, "uid-1", found.AuthUID)
	})

	t.Run("missing member", func(t *testing.T) {
		_, err := members.GetMemberByAuthUID(ctx, "uid-ghost")
		require.ErrorIs(t, err, persistence.ErrNotFound)

		_, err = members.UpdateMember(ctx, seedMember("uid-ghost"))
		require.ErrorIs(t, err, persistence.ErrNotFound)
	})

	t.Run("search joins the business card", func(t *testing.T) {
		results, err := members.SearchMembers(ctx, "decor", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, "uid-1", results[0].AuthUID)
		require.Equal(t, "Priya Interiors & Decor", results[0].Business.Name)
	})
}

func TestAttendanceUniqueness(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	meetings := sqlite.NewMeetingRepository(store)
	attendance := sqlite.NewAttendanceRepository(store)

	now := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)
	meeting := application.Meeting{
		ID:        "meeting-1",
		Title:     "Weekly Sync",
		Type:      application.MeetingTypeGeneral,
		Location:  "Community Hall",
		StartsAt:  now.Add(24 * time.Hour),
		DateText:  "03-01-2024",
		TimeText:  "10:00 AM",
		Status:    application.MeetingStatusScheduled,
		Geofence:  &application.Geofence{Lat: 13.0827, Lng: 80.2707, RadiusMeters: 100},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := meetings.CreateMeeting(ctx, meeting)
	require.NoError(t, err)

	loaded, err := meetings.GetMeeting(ctx, "meeting-1")
	require.NoError(t, err)
	require.NotNil(t, loaded.Geofence)
	require.Equal(t, 100.0, loaded.Geofence.RadiusMeters)

	mark := application.Attendance{
		ID:        "att-1",
		MeetingID: "meeting-1",
		MemberID:  "member-1",
		MarkedBy:  "uid-1",
		Status:    application.AttendancePresent,
		MarkedAt:  now,
		Location:  &application.GeoPoint{Lat: 13.0827, Lng: 80.2707},
		CreatedAt: now,
	}
	_, err = attendance.CreateAttendance(ctx, mark)
	require.NoError(t, err)

	mark.ID = "att-2"
	_, err = attendance.CreateAttendance(ctx, mark)
	require.ErrorIs(t, err, persistence.ErrDuplicate)

	marks, err := attendance.ListAttendanceForMember(ctx, "member-1", []string{"meeting-1"})
	require.NoError(t, err)
	require.Len(t, marks, 1)
	require.NotNil(t, marks[0].Location)
	require.Equal(t, 13.0827, marks[0].Location.Lat)
}

func TestMeetingFilters(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	meetings := sqlite.NewMeetingRepository(store)

	base := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)
	for i, m := range []application.Meeting{
		{ID: "m-past", Status: application.MeetingStatusCompleted, Type: application.MeetingTypeGeneral, StartsAt: base.Add(-24 * time.Hour)},
		{ID: "m-next", Status: application.MeetingStatusScheduled, Type: application.MeetingTypeGeneral, StartsAt: base.Add(24 * time.Hour)},
		{ID: "m-later", Status: application.MeetingStatusScheduled, Type: application.MeetingTypeTraining, StartsAt: base.Add(48 * time.Hour)},
	} {
		m.Title = "Meeting"
		m.Location = "Hall"
		m.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		m.UpdatedAt = m.CreatedAt
		_, err := meetings.CreateMeeting(ctx, m)
		require.NoError(t, err)
	}

	listed, err := meetings.ListMeetings(ctx, application.MeetingFilter{Status: application.MeetingStatusScheduled, StartsAfter: &base})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "m-next", listed[0].ID, "soonest first")

	listed, err = meetings.ListMeetings(ctx, application.MeetingFilter{Type: application.MeetingTypeTraining})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	listed, err = meetings.ListMeetings(ctx, application.MeetingFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestOneOnOneRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	repo := sqlite.NewOneOnOneRepository(store)

	now := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)
	record := application.OneOnOne{
		ID:           "o-1",
		Title:        "Coffee chat",
		Location:     "Cafe Aroma",
		StartsAt:     now.Add(24 * time.Hour),
		DateText:     "03-01-2024",
		TimeText:     "10:00 AM",
		Status:       application.OneOnOneStatusScheduled,
		RequesterUID: "uid-a",
		RequestedUID: "uid-b",
		LastActionAt: &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := repo.CreateOneOnOne(ctx, record)
	require.NoError(t, err)

	t.Run("proposal survives the round trip", func(t *testing.T) {
		record.Proposal = &application.Proposal{
			DateText:      "04-01-2024",
			TimeText:      "02:30 PM",
			ProposedByUID: "uid-b",
			ProposedAt:    now,
			Status:        application.ProposalStatusPending,
		}
		_, err := repo.UpdateOneOnOne(ctx, record)
		require.NoError(t, err)

		loaded, err := repo.GetOneOnOne(ctx, "o-1")
		require.NoError(t, err)
		require.NotNil(t, loaded.Proposal)
		require.Equal(t, "02:30 PM", loaded.Proposal.TimeText)
		require.Equal(t, application.ProposalStatusPending, loaded.Proposal.Status)
	})

	t.Run("pair filter matches both directions", func(t *testing.T) {
		listed, err := repo.ListOneOnOnes(ctx, application.OneOnOneFilter{InvolvingUID: "uid-b", OtherUID: "uid-a"})
		require.NoError(t, err)
		require.Len(t, listed, 1)

		listed, err = repo.ListOneOnOnes(ctx, application.OneOnOneFilter{InvolvingUID: "uid-ghost"})
		require.NoError(t, err)
		require.Empty(t, listed)
	})
}
