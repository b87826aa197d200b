package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// OneOnOneRepository captures the persistence interactions needed by the
// negotiation engine. Updates are whole-record conditional writes.
type OneOnOneRepository interface {
	CreateOneOnOne(ctx context.Context, record OneOnOne) (OneOnOne, error)
	GetOneOnOne(ctx context.Context, id string) (OneOnOne, error)
	UpdateOneOnOne(ctx context.Context, record OneOnOne) (OneOnOne, error)
	ListOneOnOnes(ctx context.Context, filter OneOnOneFilter) ([]OneOnOne, error)
}

// OneOnOneFilter narrows one-on-one listings. Results are ordered by start
// instant descending. When both InvolvingUID and OtherUID are set the filter
// matches records between the two in either direction; InvolvingUID alone
// matches either role; RequesterUID/RequestedUID match a single role.
type OneOnOneFilter struct {
	InvolvingUID string
	OtherUID     string
	RequesterUID string
	RequestedUID string
	Status       OneOnOneStatus
	Limit        int
}

// CreateOneOnOneInput captures the fields for a new one-on-one request.
type CreateOneOnOneInput struct {
	Title        string
	Description  string
	Location     string
	DateText     string
	TimeText     string
	RequestedUID string
}

// ProposeRescheduleInput captures a reschedule offer. At least one of
// DateText, TimeText, or Location must be present.
type ProposeRescheduleInput struct {
	DateText string
	TimeText string
	Location string
	Note     string
}

// oneOnOnePageSize caps every one-on-one listing.
const oneOnOnePageSize = 200

// OneOnOneService owns the full lifecycle of peer meeting requests:
// creation, approval, the reschedule proposal sub-state machine, and
// completion with proof. Every transition is a single read-validate-write
// against one record; a stale read surfaces as a precondition failure, never
// a partial write.
type OneOnOneService struct {
	records     OneOnOneRepository
	idGenerator func() string
	now         func() time.Time
}

// NewOneOnOneService wires dependencies for one-on-one operations.
func NewOneOnOneService(records OneOnOneRepository, idGenerator func() string, now func() time.Time) *OneOnOneService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &OneOnOneService{records: records, idGenerator: idGenerator, now: now}
}

// Create persists a new request in the pending state, awaiting the invitee's
// approval. The caller becomes the requester.
func (s *OneOnOneService) Create(ctx context.Context, identity Identity, input CreateOneOnOneInput) (OneOnOne, error) {
	if identity.UID == "" {
		return OneOnOne{}, ErrUnauthenticated
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.Location) == "" {
		vErr.add("location", "location is required")
	}
	if strings.TrimSpace(input.DateText) == "" {
		vErr.add("date", "date is required")
	}
	if strings.TrimSpace(input.TimeText) == "" {
		vErr.add("time", "time is required")
	}
	if strings.TrimSpace(input.RequestedUID) == "" {
		vErr.add("requestedUid", "requestedUid must be a non-empty string")
	}
	if vErr.HasErrors() {
		return OneOnOne{}, vErr
	}

	startsAt, ok := ParseDateTime(input.DateText, input.TimeText)
	if !ok {
		return OneOnOne{}, invalidf("invalid date/time format, expected DD-MM-YYYY and hh:mm AM/PM")
	}

	now := s.now()
	record := OneOnOne{
		ID:           s.idGenerator(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Location:     strings.TrimSpace(input.Location),
		StartsAt:     startsAt,
		DateText:     strings.TrimSpace(input.DateText),
		TimeText:     strings.TrimSpace(input.TimeText),
		Status:       OneOnOneStatusPending,
		RequesterUID: identity.UID,
		RequestedUID: strings.TrimSpace(input.RequestedUID),
		CreatedBy:    identity.UID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.records.CreateOneOnOne(ctx, record)
	if err != nil {
		return OneOnOne{}, mapRepoError(err)
	}
	return created, nil
}

// Approve moves a pending request to scheduled. Only the requested party may
// approve.
func (s *OneOnOneService) Approve(ctx context.Context, identity Identity, id string) (OneOnOne, error) {
	record, err := s.getForUpdate(ctx, identity, id)
	if err != nil {
		return OneOnOne{}, err
	}
	if record.Status != OneOnOneStatusPending {
		return OneOnOne{}, invalidf("only pending one-on-ones can be approved")
	}
	if record.RequestedUID != identity.UID {
		return OneOnOne{}, forbiddenf("only the requested member can approve this one-on-one")
	}

	record.Status = OneOnOneStatusScheduled
	record.UpdatedAt = s.now()
	return s.save(ctx, record)
}

// ProposeReschedule records a fresh pending proposal from either participant,
// replacing any prior proposal entirely. No history is retained.
func (s *OneOnOneService) ProposeReschedule(ctx context.Context, identity Identity, id string, input ProposeRescheduleInput) (OneOnOne, error) {
	if strings.TrimSpace(input.DateText) == "" &&
		strings.TrimSpace(input.TimeText) == "" &&
		strings.TrimSpace(input.Location) == "" {
		return OneOnOne{}, invalidf("at least one of date, time, or location is required")
	}

	record, err := s.getForUpdate(ctx, identity, id)
	if err != nil {
		return OneOnOne{}, err
	}
	if record.RequesterUID != identity.UID && record.RequestedUID != identity.UID {
		return OneOnOne{}, forbiddenf("not authorized to propose a reschedule")
	}

	now := s.now()
	record.Proposal = &Proposal{
		DateText:      strings.TrimSpace(input.DateText),
		TimeText:      strings.TrimSpace(input.TimeText),
		Location:      strings.TrimSpace(input.Location),
		Note:          strings.TrimSpace(input.Note),
		ProposedByUID: identity.UID,
		ProposedAt:    now,
		Status:        ProposalStatusPending,
	}
	record.LastActionAt = &now
	record.UpdatedAt = now
	return s.save(ctx, record)
}

// AcceptReschedule folds a pending proposal into the record. Only the
// counterparty of the proposer may accept; the effective date, time and
// location fall back to the record's current values where the proposal left
// them blank, and the combined date/time must re-parse.
func (s *OneOnOneService) AcceptReschedule(ctx context.Context, identity Identity, id string) (OneOnOne, error) {
	record, err := s.getForUpdate(ctx, identity, id)
	if err != nil {
		return OneOnOne{}, err
	}
	if record.Proposal == nil || record.Proposal.Status != ProposalStatusPending {
		return OneOnOne{}, invalidf("no pending proposal to accept")
	}
	if identity.UID != proposalCounterparty(record) {
		return OneOnOne{}, forbiddenf("not authorized to accept this proposal")
	}

	nextDate := record.Proposal.DateText
	if nextDate == "" {
		nextDate = record.DateText
	}
	nextTime := record.Proposal.TimeText
	if nextTime == "" {
		nextTime = record.TimeText
	}
	nextLocation := record.Proposal.Location
	if nextLocation == "" {
		nextLocation = record.Location
	}

	startsAt, ok := ParseDateTime(nextDate, nextTime)
	if !ok {
		return OneOnOne{}, invalidf("invalid proposed date/time")
	}

	now := s.now()
	record.DateText = nextDate
	record.TimeText = nextTime
	record.Location = nextLocation
	record.StartsAt = startsAt
	record.Status = OneOnOneStatusScheduled
	record.Proposal.Status = ProposalStatusAccepted
	record.LastActionAt = &now
	record.UpdatedAt = now
	return s.save(ctx, record)
}

// RejectReschedule marks a pending proposal rejected, leaving the parent
// record untouched. A fresh proposal is the only way forward afterwards.
func (s *OneOnOneService) RejectReschedule(ctx context.Context, identity Identity, id string) (OneOnOne, error) {
	record, err := s.getForUpdate(ctx, identity, id)
	if err != nil {
		return OneOnOne{}, err
	}
	if record.Proposal == nil || record.Proposal.Status != ProposalStatusPending {
		return OneOnOne{}, invalidf("no pending proposal to reject")
	}
	if identity.UID != proposalCounterparty(record) {
		return OneOnOne{}, forbiddenf("not authorized to reject this proposal")
	}

	now := s.now()
	record.Proposal.Status = ProposalStatusRejected
	record.LastActionAt = &now
	record.UpdatedAt = now
	return s.save(ctx, record)
}

// Complete transitions a scheduled one-on-one to completed once its start
// instant has passed. Only the requester may complete, and proof is required.
func (s *OneOnOneService) Complete(ctx context.Context, identity Identity, id, proofURL string) (OneOnOne, error) {
	if strings.TrimSpace(proofURL) == "" {
		return OneOnOne{}, invalidf("proofUrl is required")
	}

	record, err := s.getForUpdate(ctx, identity, id)
	if err != nil {
		return OneOnOne{}, err
	}
	if record.RequesterUID != identity.UID {
		return OneOnOne{}, forbiddenf("only the requester can complete this one-on-one")
	}
	if record.Status != OneOnOneStatusScheduled {
		return OneOnOne{}, invalidf("only scheduled one-on-ones can be completed")
	}
	now := s.now()
	if now.Before(record.StartsAt) {
		return OneOnOne{}, invalidf("cannot complete before the scheduled start time")
	}

	record.ProofPhotoURL = strings.TrimSpace(proofURL)
	completedAt := now
	record.CompletedAt = &completedAt
	record.Status = OneOnOneStatusCompleted
	record.LastActionAt = &now
	record.UpdatedAt = now
	return s.save(ctx, record)
}

// ListMine returns the caller's one-on-ones in either role.
func (s *OneOnOneService) ListMine(ctx context.Context, identity Identity) ([]OneOnOne, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}
	return s.list(ctx, OneOnOneFilter{InvolvingUID: identity.UID, Limit: oneOnOnePageSize})
}

// ListReceived returns one-on-ones where the caller is the requested party,
// optionally filtered by status.
func (s *OneOnOneService) ListReceived(ctx context.Context, identity Identity, status string) ([]OneOnOne, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}
	filter := OneOnOneFilter{RequestedUID: identity.UID, Limit: oneOnOnePageSize}
	filter.Status = validOneOnOneStatus(status)
	return s.list(ctx, filter)
}

// ListSent returns one-on-ones where the caller is the requester, optionally
// filtered by status.
func (s *OneOnOneService) ListSent(ctx context.Context, identity Identity, status string) ([]OneOnOne, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}
	filter := OneOnOneFilter{RequesterUID: identity.UID, Limit: oneOnOnePageSize}
	filter.Status = validOneOnOneStatus(status)
	return s.list(ctx, filter)
}

// ListBetween returns one-on-ones between the caller and another member, in
// either direction.
func (s *OneOnOneService) ListBetween(ctx context.Context, identity Identity, otherUID string) ([]OneOnOne, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}
	otherUID = strings.TrimSpace(otherUID)
	if otherUID == "" {
		return nil, invalidf("otherUid is required")
	}
	return s.list(ctx, OneOnOneFilter{InvolvingUID: identity.UID, OtherUID: otherUID, Limit: oneOnOnePageSize})
}

func (s *OneOnOneService) list(ctx context.Context, filter OneOnOneFilter) ([]OneOnOne, error) {
	records, err := s.records.ListOneOnOnes(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return records, nil
}

func (s *OneOnOneService) getForUpdate(ctx context.Context, identity Identity, id string) (OneOnOne, error) {
	if identity.UID == "" {
		return OneOnOne{}, ErrUnauthenticated
	}
	if strings.TrimSpace(id) == "" {
		return OneOnOne{}, invalidf("id is required")
	}
	record, err := s.records.GetOneOnOne(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return OneOnOne{}, notFoundf("one-on-one not found")
		}
		return OneOnOne{}, err
	}
	return record, nil
}

func (s *OneOnOneService) save(ctx context.Context, record OneOnOne) (OneOnOne, error) {
	updated, err := s.records.UpdateOneOnOne(ctx, record)
	if err != nil {
		return OneOnOne{}, mapRepoError(err)
	}
	return updated, nil
}

// proposalCounterparty returns the participant who did not author the live
// proposal and therefore holds the right to settle it.
func proposalCounterparty(record OneOnOne) string {
	if record.Proposal.ProposedByUID == record.RequestedUID {
		return record.RequesterUID
	}
	return record.RequestedUID
}

func validOneOnOneStatus(status string) OneOnOneStatus {
	switch OneOnOneStatus(status) {
	case OneOnOneStatusPending, OneOnOneStatusScheduled, OneOnOneStatusCompleted, OneOnOneStatusCancelled:
		return OneOnOneStatus(status)
	default:
		return ""
	}
}
