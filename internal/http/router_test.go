package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	httpapi "github.com/CeoSiva/Kattunar-kuzhu-server/internal/http"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/testfixtures"
)

const (
	memberToken   = "token-member"
	outsiderToken = "token-outsider"
)

type testServer struct {
	handler http.Handler
	store   *testfixtures.MemStore
	clock   *testfixtures.Clock
	member  application.Member
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := testfixtures.NewMemStore()
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator("test")

	member := testfixtures.NewMember()
	store.AddMember(member)

	verifier := testfixtures.StaticVerifier{
		memberToken:   {UID: member.AuthUID, Name: member.Personal.Name},
		outsiderToken: {UID: "uid-outsider"},
	}

	members := application.NewMemberService(store, ids.NextFunc(), clock.NowFunc())
	businesses := application.NewBusinessService(store, clock.NowFunc())
	meetings := application.NewMeetingService(store, store, store, ids.NextFunc(), clock.NowFunc())
	attendance := application.NewAttendanceService(store, store, store, ids.NextFunc(), clock.NowFunc())
	oneOnOnes := application.NewOneOnOneService(store, ids.NextFunc(), clock.NowFunc())
	referrals := application.NewReferralService(store, ids.NextFunc(), clock.NowFunc())
	requirements := application.NewRequirementService(store, store, store, ids.NextFunc(), clock.NowFunc())
	stats := application.NewStatsService(store, clock.NowFunc())

	handler := httpapi.NewRouter(httpapi.RouterConfig{
		Members:         httpapi.NewMemberHandler(members, nil),
		Meetings:        httpapi.NewMeetingHandler(meetings, attendance, nil),
		OneOnOnes:       httpapi.NewOneOnOneHandler(oneOnOnes, nil),
		Businesses:      httpapi.NewBusinessHandler(businesses, nil),
		Referrals:       httpapi.NewReferralHandler(referrals, nil),
		Requirements:    httpapi.NewRequirementHandler(requirements, nil),
		Stats:           httpapi.NewStatsHandler(stats, nil),
		RequireIdentity: httpapi.RequireIdentity(verifier, nil),
	})

	return &testServer{handler: handler, store: store, clock: clock, member: member}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	payload := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestAuthenticatedRoutesRejectBadTokens(t *testing.T) {
	server := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/meetings/mine", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/meetings/mine", "token-bogus", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid or expired token", decodeBody(t, rec)["message"])
	})

	t.Run("public routes stay open", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/meetings", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRegistrationEndpoints(t *testing.T) {
	server := newTestServer(t)

	payload := map[string]any{
		"auth_uid": "uid-new",
		"personal": map[string]any{
			"name":     "Priya S",
			"phone":    "9876500042",
			"group_id": "group-1",
		},
		"business": map[string]any{
			"name":     "Priya Interiors",
			"category": "Interior Design",
		},
	}

	rec := server.do(t, http.MethodPost, "/registration", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodPost, "/registration", "", payload)
	require.Equal(t, http.StatusOK, rec.Code, "resubmission is an update")

	rec = server.do(t, http.MethodGet, "/registration/uid-new", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "pending", decodeBody(t, rec)["status"])

	rec = server.do(t, http.MethodPatch, "/registration/uid-new/status", "", map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/users/status?phone=9876500042", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "approved", decodeBody(t, rec)["status"])

	t.Run("validation errors are keyed by field", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/registration", "", map[string]any{"auth_uid": "uid-bad"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "validation failed", body["message"])
		errors, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		require.Contains(t, errors, "personal.name")
	})
}

func TestAttendanceEndpoint(t *testing.T) {
	server := newTestServer(t)

	fenced := testfixtures.NewMeeting()
	fenced.Geofence = &application.Geofence{Lat: 13.0827, Lng: 80.2707, RadiusMeters: 100}
	server.store.AddMeeting(fenced)

	t.Run("location without coordinates is rejected", func(t *testing.T) {
		origin := testfixtures.NewMeeting()
		origin.Geofence = &application.Geofence{Lat: 0, Lng: 0, RadiusMeters: 100}
		server.store.AddMeeting(origin)

		rec := server.do(t, http.MethodPost, "/meetings/"+origin.ID+"/attendance", memberToken, map[string]any{
			"location": map[string]any{"address": "no coordinates supplied"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, "missing lat/lng must not default to the origin")

		rec = server.do(t, http.MethodPost, "/meetings/"+origin.ID+"/attendance", memberToken, map[string]any{
			"location": map[string]any{"lat": 0.0001},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, "a single coordinate is not a location")
	})

	t.Run("coordinate-less mark on an unfenced meeting stores no location", func(t *testing.T) {
		open := testfixtures.NewMeeting()
		server.store.AddMeeting(open)

		rec := server.do(t, http.MethodPost, "/meetings/"+open.ID+"/attendance", memberToken, map[string]any{
			"location": map[string]any{"address": "no coordinates supplied"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotContains(t, decodeBody(t, rec), "location")
	})

	t.Run("outside the fence returns the measured distance", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/meetings/"+fenced.ID+"/attendance", memberToken, map[string]any{
			"location": map[string]any{"lat": 13.0917, "lng": 80.2707},
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		require.Contains(t, body, "distance_meters")
		require.Equal(t, 100.0, body["radius_meters"])
	})

	t.Run("inside the fence marks once", func(t *testing.T) {
		payload := map[string]any{
			"location": map[string]any{"lat": 13.0827, "lng": 80.2707},
		}
		rec := server.do(t, http.MethodPost, "/meetings/"+fenced.ID+"/attendance", memberToken, payload)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = server.do(t, http.MethodPost, "/meetings/"+fenced.ID+"/attendance", memberToken, payload)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown meeting", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/meetings/meeting-missing/attendance", memberToken, map[string]any{})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOneOnOneEndpoints(t *testing.T) {
	server := newTestServer(t)

	create := map[string]any{
		"title":         "Coffee chat",
		"location":      "Cafe Aroma",
		"date":          "03-01-2024",
		"time":          "10:00 AM",
		"requested_uid": "uid-outsider",
	}

	rec := server.do(t, http.MethodPost, "/oneonone", memberToken, create)
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, id)

	t.Run("requester cannot approve", func(t *testing.T) {
		rec := server.do(t, http.MethodPatch, "/oneonone/"+id+"/approve", memberToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	rec = server.do(t, http.MethodPatch, "/oneonone/"+id+"/approve", outsiderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "scheduled", decodeBody(t, rec)["status"])

	t.Run("reschedule negotiation", func(t *testing.T) {
		rec := server.do(t, http.MethodPatch, "/oneonone/"+id+"/reschedule", outsiderToken, map[string]any{"time": "02:30 PM"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = server.do(t, http.MethodPatch, "/oneonone/"+id+"/reschedule/accept", outsiderToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code, "proposer cannot accept")

		rec = server.do(t, http.MethodPatch, "/oneonone/"+id+"/reschedule/accept", memberToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "02:30 PM", decodeBody(t, rec)["time"])
	})

	t.Run("listings", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/oneonone/my", memberToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = server.do(t, http.MethodGet, "/oneonone/between?otherUid=uid-outsider", memberToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = server.do(t, http.MethodGet, "/oneonone/between", memberToken, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown action", func(t *testing.T) {
		rec := server.do(t, http.MethodPatch, "/oneonone/"+id+"/postpone", memberToken, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestReferralEndpoints(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/referrals", outsiderToken, map[string]any{
		"receiver_uid":        server.member.AuthUID,
		"type":                "member",
		"referred_member_uid": "uid-referred",
		"description":         "plumbing work",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, id)

	rec = server.do(t, http.MethodPatch, "/referrals/"+id+"/confirm", outsiderToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code, "giver cannot confirm")

	rec = server.do(t, http.MethodPatch, "/referrals/"+id+"/confirm", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodPatch, "/referrals/"+id+"/thank-note", memberToken, map[string]any{
		"message": "great lead",
		"amount":  1500,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "completed", decodeBody(t, rec)["status"])

	rec = server.do(t, http.MethodGet, "/referrals/given", outsiderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/referrals/taken?status=completed", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirementEndpoints(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/requirements", memberToken, map[string]any{"title": "Need a caterer"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, id)

	rec = server.do(t, http.MethodGet, "/requirements/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodPost, "/requirements/"+id+"/responses", outsiderToken, map[string]any{"message": "I cater"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodGet, "/requirements/"+id+"/responses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBusinessEndpoints(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodGet, "/business/me", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, server.member.Business.Name, decodeBody(t, rec)["name"])

	rec = server.do(t, http.MethodPut, "/business/me", memberToken, map[string]any{"description": "Full service studio"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Full service studio", decodeBody(t, rec)["description"])

	rec = server.do(t, http.MethodGet, fmt.Sprintf("/business/by-uid?uid=%s", server.member.AuthUID), outsiderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/business/by-uid?uid=uid-ghost", outsiderToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodGet, "/search/members?query=business", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	members, ok := body["members"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, members)
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodDelete, "/meetings", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestHealthEndpoint(t *testing.T) {
	handler := httpapi.NewRouter(httpapi.RouterConfig{
		Health: httpapi.NewHealthHandler(okPinger{}, nil),
	})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }
