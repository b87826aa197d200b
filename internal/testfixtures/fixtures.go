// Package testfixtures provides deterministic clocks, identifier generators,
// domain fixtures, and an in-memory store for service and handler tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

var (
	memberCounter   uint64
	meetingCounter  uint64
	oneOnOneCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// NewMember returns a deterministic approved member with a distinct auth UID
// and phone number.
func NewMember() application.Member {
	n := atomic.AddUint64(&memberCounter, 1)
	return application.Member{
		ID:      fmt.Sprintf("member-%d", n),
		AuthUID: fmt.Sprintf("uid-%d", n),
		Personal: application.PersonalProfile{
			Name:    fmt.Sprintf("Member %d", n),
			Phone:   fmt.Sprintf("98765%05d", n),
			GroupID: "group-1",
		},
		Business: application.BusinessSummary{
			Name:     fmt.Sprintf("Business %d", n),
			Category: "services",
		},
		Status:       application.MemberStatusApproved,
		RegisteredAt: referenceTime,
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
}

// NewMeeting returns a scheduled general meeting starting one day after the
// reference time.
func NewMeeting() application.Meeting {
	n := atomic.AddUint64(&meetingCounter, 1)
	return application.Meeting{
		ID:        fmt.Sprintf("meeting-%d", n),
		Title:     fmt.Sprintf("Weekly Meeting %d", n),
		Type:      application.MeetingTypeGeneral,
		Location:  "Community Hall",
		StartsAt:  referenceTime.Add(24 * time.Hour),
		DateText:  "03-01-2024",
		TimeText:  "10:00 AM",
		Status:    application.MeetingStatusScheduled,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
}

// NewOneOnOne returns a pending request between the two given members,
// starting one day after the reference time.
func NewOneOnOne(requesterUID, requestedUID string) application.OneOnOne {
	n := atomic.AddUint64(&oneOnOneCounter, 1)
	return application.OneOnOne{
		ID:           fmt.Sprintf("oneonone-%d", n),
		Title:        fmt.Sprintf("Catch-up %d", n),
		Location:     "Cafe Central",
		StartsAt:     referenceTime.Add(24 * time.Hour),
		DateText:     "03-01-2024",
		TimeText:     "10:00 AM",
		Status:       application.OneOnOneStatusPending,
		RequesterUID: requesterUID,
		RequestedUID: requestedUID,
		CreatedBy:    requesterUID,
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
}
