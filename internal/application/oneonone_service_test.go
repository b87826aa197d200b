package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/testfixtures"
)

func newOneOnOneService(t *testing.T) (*application.OneOnOneService, *testfixtures.MemStore, *testfixtures.Clock) {
	t.Helper()
	store := testfixtures.NewMemStore()
	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("oneonone")
	return application.NewOneOnOneService(store, ids.NextFunc(), clock.NowFunc()), store, clock
}

func TestOneOnOneCreate(t *testing.T) {
	requester := application.Identity{UID: "uid-requester"}

	t.Run("requires authentication", func(t *testing.T) {
		service, _, _ := newOneOnOneService(t)
		_, err := service.Create(context.Background(), application.Identity{}, application.CreateOneOnOneInput{})
		require.ErrorIs(t, err, application.ErrUnauthenticated)
	})

	t.Run("collects field errors", func(t *testing.T) {
		service, _, _ := newOneOnOneService(t)
		_, err := service.Create(context.Background(), requester, application.CreateOneOnOneInput{})
		var vErr *application.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.ErrorIs(t, err, application.ErrInvalidArgument)
		for _, field := range []string{"title", "location", "date", "time", "requestedUid"} {
			require.Contains(t, vErr.FieldErrors, field)
		}
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		service, _, _ := newOneOnOneService(t)
		_, err := service.Create(context.Background(), requester, application.CreateOneOnOneInput{
			Title:        "Coffee",
			Location:     "Cafe",
			DateText:     "2024-01-03",
			TimeText:     "10:00 AM",
			RequestedUID: "uid-requested",
		})
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})

	t.Run("creates a pending request for the caller", func(t *testing.T) {
		service, _, _ := newOneOnOneService(t)
		record, err := service.Create(context.Background(), requester, application.CreateOneOnOneInput{
			Title:        "Coffee",
			Location:     "Cafe",
			DateText:     "03-01-2024",
			TimeText:     "10:00 AM",
			RequestedUID: "uid-requested",
		})
		require.NoError(t, err)
		require.Equal(t, application.OneOnOneStatusPending, record.Status)
		require.Equal(t, "uid-requester", record.RequesterUID)
		require.Equal(t, "uid-requested", record.RequestedUID)

		want, ok := application.ParseDateTime("03-01-2024", "10:00 AM")
		require.True(t, ok)
		require.True(t, record.StartsAt.Equal(want))
	})
}

func TestOneOnOneApprove(t *testing.T) {
	requester := application.Identity{UID: "uid-a"}
	requested := application.Identity{UID: "uid-b"}

	t.Run("only the requested member approves", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		store.AddOneOnOne(record)

		_, err := service.Approve(context.Background(), requester, record.ID)
		require.ErrorIs(t, err, application.ErrForbidden)

		approved, err := service.Approve(context.Background(), requested, record.ID)
		require.NoError(t, err)
		require.Equal(t, application.OneOnOneStatusScheduled, approved.Status)
	})

	t.Run("rejects non-pending records", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		record.Status = application.OneOnOneStatusScheduled
		store.AddOneOnOne(record)

		_, err := service.Approve(context.Background(), requested, record.ID)
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})

	t.Run("unknown id surfaces not found", func(t *testing.T) {
		service, _, _ := newOneOnOneService(t)
		_, err := service.Approve(context.Background(), requested, "missing")
		require.ErrorIs(t, err, application.ErrNotFound)
	})
}

func TestOneOnOneReschedule(t *testing.T) {
	requester := application.Identity{UID: "uid-a"}
	requested := application.Identity{UID: "uid-b"}
	outsider := application.Identity{UID: "uid-c"}

	t.Run("requires at least one changed field", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		store.AddOneOnOne(record)

		_, err := service.ProposeReschedule(context.Background(), requester, record.ID, application.ProposeRescheduleInput{})
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})

	t.Run("only participants may propose", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		store.AddOneOnOne(record)

		_, err := service.ProposeReschedule(context.Background(), outsider, record.ID, application.ProposeRescheduleInput{
			Location: "Library",
		})
		require.ErrorIs(t, err, application.ErrForbidden)
	})

	t.Run("a fresh proposal replaces the previous one", func(t *testing.T) {
		service, store, clock := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		store.AddOneOnOne(record)

		first, err := service.ProposeReschedule(context.Background(), requester, record.ID, application.ProposeRescheduleInput{
			Location: "Library",
			Note:     "quieter",
		})
		require.NoError(t, err)
		require.Equal(t, application.ProposalStatusPending, first.Proposal.Status)
		require.Equal(t, requester.UID, first.Proposal.ProposedByUID)
		require.NotNil(t, first.LastActionAt)

		clock.Advance(time.Minute)
		second, err := service.ProposeReschedule(context.Background(), requested, record.ID, application.ProposeRescheduleInput{
			TimeText: "02:30 PM",
		})
		require.NoError(t, err)
		require.Equal(t, requested.UID, second.Proposal.ProposedByUID)
		require.Equal(t, "02:30 PM", second.Proposal.TimeText)
		require.Empty(t, second.Proposal.Location, "prior proposal must not leak into the new one")
		require.Empty(t, second.Proposal.Note)
	})

	t.Run("accept folds proposal values with fallback to current", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		store.AddOneOnOne(record)

		_, err := service.ProposeReschedule(context.Background(), requester, record.ID, application.ProposeRescheduleInput{
			TimeText: "02:30 PM",
		})
		require.NoError(t, err)

		// The proposer cannot settle their own proposal.
		_, err = service.AcceptReschedule(context.Background(), requester, record.ID)
		require.ErrorIs(t, err, application.ErrForbidden)

		accepted, err := service.AcceptReschedule(context.Background(), requested, record.ID)
		require.NoError(t, err)
		require.Equal(t, application.OneOnOneStatusScheduled, accepted.Status)
		require.Equal(t, record.DateText, accepted.DateText, "date falls back to the record")
		require.Equal(t, "02:30 PM", accepted.TimeText)
		require.Equal(t, record.Location, accepted.Location)
		require.Equal(t, application.ProposalStatusAccepted, accepted.Proposal.Status)

		want, ok := application.ParseDateTime(record.DateText, "02:30 PM")
		require.True(t, ok)
		require.True(t, accepted.StartsAt.Equal(want))
	})

	t.Run("accept rejects a proposal that no longer parses", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		record.Status = application.OneOnOneStatusScheduled
		store.AddOneOnOne(record)

		_, err := service.ProposeReschedule(context.Background(), requester, record.ID, application.ProposeRescheduleInput{
			DateText: "31/02/2024",
		})
		require.NoError(t, err, "propose stores the text as given")

		_, err = service.AcceptReschedule(context.Background(), requested, record.ID)
		require.ErrorIs(t, err, application.ErrInvalidArgument)

		after, err := store.GetOneOnOne(context.Background(), record.ID)
		require.NoError(t, err)
		require.Equal(t, record.DateText, after.DateText)
		require.Equal(t, record.TimeText, after.TimeText)
		require.True(t, after.StartsAt.Equal(record.StartsAt))
		require.Equal(t, application.OneOnOneStatusScheduled, after.Status)
		require.Equal(t, application.ProposalStatusPending, after.Proposal.Status, "failed accept leaves the proposal open")
	})

	t.Run("reject settles the proposal and leaves the record untouched", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		record.Status = application.OneOnOneStatusScheduled
		store.AddOneOnOne(record)

		_, err := service.ProposeReschedule(context.Background(), requested, record.ID, application.ProposeRescheduleInput{
			Location: "Park",
		})
		require.NoError(t, err)

		rejected, err := service.RejectReschedule(context.Background(), requester, record.ID)
		require.NoError(t, err)
		require.Equal(t, application.ProposalStatusRejected, rejected.Proposal.Status)
		require.Equal(t, record.Location, rejected.Location)
		require.Equal(t, application.OneOnOneStatusScheduled, rejected.Status)

		// A settled proposal cannot be settled again.
		_, err = service.AcceptReschedule(context.Background(), requester, record.ID)
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})

	t.Run("accept without a pending proposal fails", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		store.AddOneOnOne(record)

		_, err := service.AcceptReschedule(context.Background(), requested, record.ID)
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})
}

func TestOneOnOneComplete(t *testing.T) {
	requester := application.Identity{UID: "uid-a"}
	requested := application.Identity{UID: "uid-b"}

	t.Run("requires proof", func(t *testing.T) {
		service, store, _ := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		record.Status = application.OneOnOneStatusScheduled
		store.AddOneOnOne(record)

		_, err := service.Complete(context.Background(), requester, record.ID, "")
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})

	t.Run("only the requester completes", func(t *testing.T) {
		service, store, clock := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		record.Status = application.OneOnOneStatusScheduled
		store.AddOneOnOne(record)
		clock.Set(record.StartsAt.Add(time.Hour))

		_, err := service.Complete(context.Background(), requested, record.ID, "https://cdn.example/proof.jpg")
		require.ErrorIs(t, err, application.ErrForbidden)
	})

	t.Run("rejects completion before the start time", func(t *testing.T) {
		service, store, clock := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		record.Status = application.OneOnOneStatusScheduled
		store.AddOneOnOne(record)
		clock.Set(record.StartsAt.Add(-time.Minute))

		_, err := service.Complete(context.Background(), requester, record.ID, "https://cdn.example/proof.jpg")
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})

	t.Run("rejects non-scheduled records", func(t *testing.T) {
		service, store, clock := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		store.AddOneOnOne(record)
		clock.Set(record.StartsAt.Add(time.Hour))

		_, err := service.Complete(context.Background(), requester, record.ID, "https://cdn.example/proof.jpg")
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})

	t.Run("records proof and completion instant", func(t *testing.T) {
		service, store, clock := newOneOnOneService(t)
		record := testfixtures.NewOneOnOne(requester.UID, requested.UID)
		record.Status = application.OneOnOneStatusScheduled
		store.AddOneOnOne(record)
		at := record.StartsAt.Add(time.Hour)
		clock.Set(at)

		completed, err := service.Complete(context.Background(), requester, record.ID, "https://cdn.example/proof.jpg")
		require.NoError(t, err)
		require.Equal(t, application.OneOnOneStatusCompleted, completed.Status)
		require.Equal(t, "https://cdn.example/proof.jpg", completed.ProofPhotoURL)
		require.NotNil(t, completed.CompletedAt)
		require.True(t, completed.CompletedAt.Equal(at))
	})
}

func TestOneOnOneLists(t *testing.T) {
	alice := application.Identity{UID: "uid-alice"}
	bob := application.Identity{UID: "uid-bob"}
	carol := application.Identity{UID: "uid-carol"}

	service, store, _ := newOneOnOneService(t)
	sent := testfixtures.NewOneOnOne(alice.UID, bob.UID)
	received := testfixtures.NewOneOnOne(carol.UID, alice.UID)
	received.Status = application.OneOnOneStatusScheduled
	unrelated := testfixtures.NewOneOnOne(bob.UID, carol.UID)
	store.AddOneOnOne(sent)
	store.AddOneOnOne(received)
	store.AddOneOnOne(unrelated)

	t.Run("mine covers both roles", func(t *testing.T) {
		records, err := service.ListMine(context.Background(), alice)
		require.NoError(t, err)
		require.Len(t, records, 2)
	})

	t.Run("received filters by status", func(t *testing.T) {
		records, err := service.ListReceived(context.Background(), alice, "scheduled")
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, received.ID, records[0].ID)

		records, err = service.ListReceived(context.Background(), alice, "pending")
		require.NoError(t, err)
		require.Empty(t, records)
	})

	t.Run("sent lists requester role only", func(t *testing.T) {
		records, err := service.ListSent(context.Background(), alice, "")
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, sent.ID, records[0].ID)
	})

	t.Run("between matches either direction", func(t *testing.T) {
		records, err := service.ListBetween(context.Background(), alice, bob.UID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, sent.ID, records[0].ID)

		_, err = service.ListBetween(context.Background(), alice, "")
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})
}
