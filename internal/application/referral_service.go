package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence"
)

// ReferralRepository captures the persistence interactions needed by the
// referral service.
type ReferralRepository interface {
	CreateReferral(ctx context.Context, referral Referral) (Referral, error)
	GetReferral(ctx context.Context, id string) (Referral, error)
	UpdateReferral(ctx context.Context, referral Referral) (Referral, error)
	ListReferrals(ctx context.Context, filter ReferralFilter) ([]Referral, error)
}

// ReferralFilter narrows referral listings, newest first.
type ReferralFilter struct {
	GiverUID    string
	ReceiverUID string
	Status      ReferralStatus
}

// CreateReferralInput captures a new referral submission.
type CreateReferralInput struct {
	ReceiverUID       string
	Type              string
	ReferredMemberUID string
	ReferredManual    *ManualReferral
	Description       string
	Notes             string
	Attachments       []ReferralAttachment
}

// ReferralService owns the referral confirm/thank-note lifecycle.
type ReferralService struct {
	referrals   ReferralRepository
	idGenerator func() string
	now         func() time.Time
}

// NewReferralService wires dependencies for referral operations.
func NewReferralService(referrals ReferralRepository, idGenerator func() string, now func() time.Time) *ReferralService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReferralService{referrals: referrals, idGenerator: idGenerator, now: now}
}

// Create validates and persists a new pending referral from the caller.
func (s *ReferralService) Create(ctx context.Context, identity Identity, input CreateReferralInput) (Referral, error) {
	if identity.UID == "" {
		return Referral{}, ErrUnauthenticated
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.ReceiverUID) == "" {
		vErr.add("receiverUid", "receiverUid is required")
	}
	refType := ReferralType(input.Type)
	if refType != ReferralTypeMember && refType != ReferralTypeManual {
		vErr.add("type", "type must be member or manual")
	}
	if strings.TrimSpace(input.Description) == "" {
		vErr.add("description", "description is required")
	}
	switch refType {
	case ReferralTypeMember:
		if strings.TrimSpace(input.ReferredMemberUID) == "" {
			vErr.add("referredMemberUid", "referredMemberUid is required for member type")
		}
	case ReferralTypeManual:
		m := input.ReferredManual
		if m == nil || strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.BusinessName) == "" || strings.TrimSpace(m.Category) == "" {
			vErr.add("referredManual", "manual referral requires name, businessName and category")
		}
	}
	if vErr.HasErrors() {
		return Referral{}, vErr
	}

	attachments := make([]ReferralAttachment, 0, len(input.Attachments))
	for _, a := range input.Attachments {
		if strings.TrimSpace(a.URL) == "" {
			continue
		}
		attachments = append(attachments, ReferralAttachment{Name: strings.TrimSpace(a.Name), URL: strings.TrimSpace(a.URL)})
	}

	now := s.now()
	referral := Referral{
		ID:          s.idGenerator(),
		GiverUID:    identity.UID,
		ReceiverUID: strings.TrimSpace(input.ReceiverUID),
		Type:        refType,
		Description: strings.TrimSpace(input.Description),
		Notes:       strings.TrimSpace(input.Notes),
		Attachments: attachments,
		Status:      ReferralStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch refType {
	case ReferralTypeMember:
		referral.ReferredMemberUID = strings.TrimSpace(input.ReferredMemberUID)
	case ReferralTypeManual:
		manual := *input.ReferredManual
		manual.Name = strings.TrimSpace(manual.Name)
		manual.BusinessName = strings.TrimSpace(manual.BusinessName)
		manual.Category = strings.TrimSpace(manual.Category)
		manual.Email = strings.ToLower(strings.TrimSpace(manual.Email))
		referral.ReferredManual = &manual
	}

	created, err := s.referrals.CreateReferral(ctx, referral)
	if err != nil {
		return Referral{}, mapRepoError(err)
	}
	return created, nil
}

// Confirm moves a pending referral to confirmed. Only the receiver may
// confirm.
func (s *ReferralService) Confirm(ctx context.Context, identity Identity, id string) (Referral, error) {
	referral, err := s.getForUpdate(ctx, identity, id)
	if err != nil {
		return Referral{}, err
	}
	if referral.ReceiverUID != identity.UID {
		return Referral{}, forbiddenf("only the receiver can confirm this referral")
	}
	if referral.Status != ReferralStatusPending {
		return Referral{}, invalidf("only pending referrals can be confirmed")
	}
	referral.Status = ReferralStatusConfirmed
	referral.UpdatedAt = s.now()
	return s.save(ctx, referral)
}

// SubmitThankNote completes a confirmed referral with a thank-note message
// and a non-negative amount. Only the receiver may submit.
func (s *ReferralService) SubmitThankNote(ctx context.Context, identity Identity, id, message string, amount float64) (Referral, error) {
	if strings.TrimSpace(message) == "" {
		return Referral{}, invalidf("message is required")
	}
	if amount < 0 {
		return Referral{}, invalidf("amount must be a non-negative number")
	}

	referral, err := s.getForUpdate(ctx, identity, id)
	if err != nil {
		return Referral{}, err
	}
	if referral.ReceiverUID != identity.UID {
		return Referral{}, forbiddenf("only the receiver can complete this referral")
	}
	if referral.Status != ReferralStatusConfirmed {
		return Referral{}, invalidf("only confirmed referrals can be completed")
	}

	referral.ThankNoteMessage = strings.TrimSpace(message)
	amt := amount
	referral.ThankNoteAmount = &amt
	referral.Status = ReferralStatusCompleted
	referral.UpdatedAt = s.now()
	return s.save(ctx, referral)
}

// UpdateStatus applies a direct status change. Confirmation and completion
// have dedicated transitions; this endpoint accepts the remaining values.
func (s *ReferralService) UpdateStatus(ctx context.Context, identity Identity, id, status string) (Referral, error) {
	next := ReferralStatus(status)
	switch next {
	case ReferralStatusPending, ReferralStatusCompleted, ReferralStatusCancelled:
	default:
		return Referral{}, invalidf("invalid status %q", status)
	}

	referral, err := s.getForUpdate(ctx, identity, id)
	if err != nil {
		return Referral{}, err
	}
	referral.Status = next
	referral.UpdatedAt = s.now()
	return s.save(ctx, referral)
}

// ListGiven returns referrals the caller has given, newest first.
func (s *ReferralService) ListGiven(ctx context.Context, identity Identity) ([]Referral, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}
	referrals, err := s.referrals.ListReferrals(ctx, ReferralFilter{GiverUID: identity.UID})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return referrals, nil
}

// ListTaken returns referrals the caller has received, optionally filtered
// by status, newest first.
func (s *ReferralService) ListTaken(ctx context.Context, identity Identity, status string) ([]Referral, error) {
	if identity.UID == "" {
		return nil, ErrUnauthenticated
	}
	filter := ReferralFilter{ReceiverUID: identity.UID}
	switch ReferralStatus(status) {
	case ReferralStatusPending, ReferralStatusConfirmed, ReferralStatusCompleted, ReferralStatusCancelled:
		filter.Status = ReferralStatus(status)
	}
	referrals, err := s.referrals.ListReferrals(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return referrals, nil
}

func (s *ReferralService) getForUpdate(ctx context.Context, identity Identity, id string) (Referral, error) {
	if identity.UID == "" {
		return Referral{}, ErrUnauthenticated
	}
	if strings.TrimSpace(id) == "" {
		return Referral{}, invalidf("id is required")
	}
	referral, err := s.referrals.GetReferral(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Referral{}, notFoundf("referral not found")
		}
		return Referral{}, err
	}
	return referral, nil
}

func (s *ReferralService) save(ctx context.Context, referral Referral) (Referral, error) {
	updated, err := s.referrals.UpdateReferral(ctx, referral)
	if err != nil {
		return Referral{}, mapRepoError(err)
	}
	return updated, nil
}
