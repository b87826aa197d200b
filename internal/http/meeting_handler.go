package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

type meetingService interface {
	CreateMeeting(ctx context.Context, input application.CreateMeetingInput) (application.Meeting, error)
	ListMeetings(ctx context.Context, input application.ListMeetingsInput) ([]application.Meeting, error)
	ListMeetingsForMember(ctx context.Context, identity application.Identity, input application.ListMeetingsInput) ([]application.MeetingWithAttendance, error)
}

type attendanceService interface {
	MarkAttendance(ctx context.Context, identity application.Identity, meetingID string, input application.MarkAttendanceInput) (application.Attendance, error)
}

// MeetingHandler serves group meetings and attendance marking.
type MeetingHandler struct {
	meetings   meetingService
	attendance attendanceService
	responder  responder
}

func NewMeetingHandler(meetings meetingService, attendance attendanceService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{meetings: meetings, attendance: attendance, responder: newResponder(logger)}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	meeting, err := h.meetings.CreateMeeting(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, meetingFromModel(meeting))
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.meetings.ListMeetings(r.Context(), listMeetingsInput(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]meetingDTO, 0, len(meetings))
	for _, meeting := range meetings {
		payload = append(payload, meetingFromModel(meeting))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingListResponse{Meetings: payload})
}

func (h *MeetingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	meetings, err := h.meetings.ListMeetingsForMember(r.Context(), identity, listMeetingsInput(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]memberMeetingDTO, 0, len(meetings))
	for _, meeting := range meetings {
		payload = append(payload, memberMeetingDTO{
			meetingDTO: meetingFromModel(meeting.Meeting),
			HasMarked:  meeting.HasMarked,
			MarkedAt:   meeting.MarkedAt,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, memberMeetingListResponse{Meetings: payload})
}

func (h *MeetingHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	meetingID, _ := ResourceIDFromContext(r.Context())
	identity, _ := IdentityFromContext(r.Context())

	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	attendance, err := h.attendance.MarkAttendance(r.Context(), identity, meetingID, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, attendanceFromModel(attendance))
}

func listMeetingsInput(query url.Values) application.ListMeetingsInput {
	input := application.ListMeetingsInput{
		Status:   query.Get("status"),
		Type:     query.Get("type"),
		Upcoming: query.Get("upcoming") == "true",
	}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			input.Limit = limit
		}
	}
	return input
}

type geofenceDTO struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radius_meters"`
}

type meetingRequest struct {
	Title       string       `json:"title"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	CreatedBy   string       `json:"created_by"`
	Geofence    *geofenceDTO `json:"geofence"`
}

func (req meetingRequest) toInput() application.CreateMeetingInput {
	input := application.CreateMeetingInput{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		DateText:    req.Date,
		TimeText:    req.Time,
		CreatedBy:   req.CreatedBy,
	}
	if req.Geofence != nil {
		input.Geofence = &application.Geofence{
			Lat:          req.Geofence.Lat,
			Lng:          req.Geofence.Lng,
			RadiusMeters: req.Geofence.RadiusMeters,
		}
	}
	return input
}

type meetingDTO struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location"`
	StartsAt    time.Time    `json:"starts_at"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Status      string       `json:"status"`
	Geofence    *geofenceDTO `json:"geofence,omitempty"`
}

func meetingFromModel(meeting application.Meeting) meetingDTO {
	dto := meetingDTO{
		ID:          meeting.ID,
		Title:       meeting.Title,
		Type:        string(meeting.Type),
		Description: meeting.Description,
		Location:    meeting.Location,
		StartsAt:    meeting.StartsAt,
		Date:        meeting.DateText,
		Time:        meeting.TimeText,
		Status:      string(meeting.Status),
	}
	if f := meeting.Geofence; f != nil {
		dto.Geofence = &geofenceDTO{Lat: f.Lat, Lng: f.Lng, RadiusMeters: f.RadiusMeters}
	}
	return dto
}

type meetingListResponse struct {
	Meetings []meetingDTO `json:"meetings"`
}

type memberMeetingDTO struct {
	meetingDTO
	HasMarked bool       `json:"has_marked"`
	MarkedAt  *time.Time `json:"marked_at,omitempty"`
}

type memberMeetingListResponse struct {
	Meetings []memberMeetingDTO `json:"meetings"`
}

type geoPointDTO struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// geoPointParam keeps lat/lng as pointers so an absent coordinate is
// distinguishable from a literal zero. A location missing either coordinate
// is treated as no location at all.
type geoPointParam struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address,omitempty"`
}

type markAttendanceRequest struct {
	Status    string         `json:"status"`
	Timestamp *time.Time     `json:"timestamp"`
	Location  *geoPointParam `json:"location"`
}

func (req markAttendanceRequest) toInput() application.MarkAttendanceInput {
	input := application.MarkAttendanceInput{
		Status:    req.Status,
		Timestamp: req.Timestamp,
	}
	if loc := req.Location; loc != nil && loc.Lat != nil && loc.Lng != nil {
		input.Location = &application.GeoPoint{
			Lat:     *loc.Lat,
			Lng:     *loc.Lng,
			Address: loc.Address,
		}
	}
	return input
}

type attendanceDTO struct {
	ID        string       `json:"id"`
	MeetingID string       `json:"meeting_id"`
	MemberID  string       `json:"member_id"`
	Status    string       `json:"status"`
	MarkedAt  time.Time    `json:"marked_at"`
	Location  *geoPointDTO `json:"location,omitempty"`
}

func attendanceFromModel(attendance application.Attendance) attendanceDTO {
	dto := attendanceDTO{
		ID:        attendance.ID,
		MeetingID: attendance.MeetingID,
		MemberID:  attendance.MemberID,
		Status:    string(attendance.Status),
		MarkedAt:  attendance.MarkedAt,
	}
	if loc := attendance.Location; loc != nil {
		dto.Location = &geoPointDTO{Lat: loc.Lat, Lng: loc.Lng, Address: loc.Address}
	}
	return dto
}
