package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/testfixtures"
)

func newMemberService(t *testing.T) (*application.MemberService, *testfixtures.MemStore, *testfixtures.Clock) {
	t.Helper()
	store := testfixtures.NewMemStore()
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator("member")
	return application.NewMemberService(store, ids.NextFunc(), clock.NowFunc()), store, clock
}

func registerInput(authUID string) application.RegisterInput {
	return application.RegisterInput{
		AuthUID: authUID,
		Personal: application.PersonalProfile{
			Name:    "Priya S",
			Phone:   "9876500042",
			Email:   "Priya@Example.COM",
			GroupID: "group-1",
		},
		Business: application.BusinessSummary{
			Name:     "Priya Interiors",
			Category: "Interior Design",
		},
	}
}

func TestMemberRegister(t *testing.T) {
	t.Run("collects field errors", func(t *testing.T) {
		service, _, _ := newMemberService(t)
		_, _, err := service.Register(context.Background(), application.RegisterInput{})
		var vErr *application.ValidationError
		require.ErrorAs(t, err, &vErr)
		for _, field := range []string{"authUid", "personal.name", "personal.phone", "personal.groupId", "business.name", "business.category"} {
			require.Contains(t, vErr.FieldErrors, field)
		}
	})

	t.Run("creates a pending registration", func(t *testing.T) {
		service, _, clock := newMemberService(t)
		member, created, err := service.Register(context.Background(), registerInput("uid-1"))
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, application.MemberStatusPending, member.Status)
		require.Equal(t, "priya@example.com", member.Personal.Email)
		require.Equal(t, clock.Now(), member.RegisteredAt)
	})

	t.Run("resubmission keeps the original registration time", func(t *testing.T) {
		service, _, clock := newMemberService(t)
		first, _, err := service.Register(context.Background(), registerInput("uid-1"))
		require.NoError(t, err)

		_, err = service.UpdateStatus(context.Background(), "uid-1", "approved")
		require.NoError(t, err)

		clock.Advance(48 * time.Hour)
		input := registerInput("uid-1")
		input.Business.Name = "Priya Interiors & Decor"
		second, created, err := service.Register(context.Background(), input)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, first.ID, second.ID)
		require.Equal(t, first.RegisteredAt, second.RegisteredAt)
		require.Equal(t, application.MemberStatusPending, second.Status, "resubmission returns to review")
		require.Equal(t, "Priya Interiors & Decor", second.Business.Name)
	})
}

func TestMemberUpdateStatus(t *testing.T) {
	service, _, _ := newMemberService(t)
	_, _, err := service.Register(context.Background(), registerInput("uid-1"))
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), "uid-1", "banned")
	require.ErrorIs(t, err, application.ErrInvalidArgument)

	_, err = service.UpdateStatus(context.Background(), "uid-missing", "approved")
	require.ErrorIs(t, err, application.ErrNotFound)

	member, err := service.UpdateStatus(context.Background(), "uid-1", "approved")
	require.NoError(t, err)
	require.Equal(t, application.MemberStatusApproved, member.Status)
}

func TestMemberStatusByPhone(t *testing.T) {
	service, store, _ := newMemberService(t)
	member := testfixtures.NewMember()
	member.Personal.Phone = "9876500042"
	store.AddMember(member)

	t.Run("requires digits", func(t *testing.T) {
		_, err := service.StatusByPhone(context.Background(), "abc")
		require.ErrorIs(t, err, application.ErrInvalidArgument)
	})

	t.Run("matches on the last ten digits", func(t *testing.T) {
		status, err := service.StatusByPhone(context.Background(), "+91 98765 00042")
		require.NoError(t, err)
		require.Equal(t, application.MemberStatusApproved, status)
	})

	t.Run("unknown number", func(t *testing.T) {
		_, err := service.StatusByPhone(context.Background(), "9999999999")
		require.ErrorIs(t, err, application.ErrNotFound)
	})
}

func TestMemberSearch(t *testing.T) {
	identity := application.Identity{UID: "uid-caller"}
	service, store, _ := newMemberService(t)

	approved := testfixtures.NewMember()
	approved.Personal.Name = "Arun Kumar"
	approved.Business.Name = "Arun Motors"
	approved.Business.Category = "Automobile"
	store.AddMember(approved)

	pending := testfixtures.NewMember()
	pending.Personal.Name = "Arun Balaji"
	pending.Status = application.MemberStatusPending
	store.AddMember(pending)

	t.Run("requires authentication", func(t *testing.T) {
		_, err := service.Search(context.Background(), application.Identity{}, "arun", 10)
		require.ErrorIs(t, err, application.ErrUnauthenticated)
	})

	t.Run("empty query returns no results", func(t *testing.T) {
		results, err := service.Search(context.Background(), identity, "   ", 10)
		require.NoError(t, err)
		require.Empty(t, results)
	})

	t.Run("matches approved members only", func(t *testing.T) {
		results, err := service.Search(context.Background(), identity, "ARUN", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, approved.AuthUID, results[0].AuthUID)
		require.Equal(t, "Arun Motors", results[0].Business.Name)
	})

	t.Run("matches by category", func(t *testing.T) {
		results, err := service.Search(context.Background(), identity, "automobile", 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
	})
}
