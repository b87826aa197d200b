package application

import "time"

// Identity is the verified caller identity produced by the external identity
// resolver. UID is the opaque provider identifier matched against member
// records.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// MemberStatus tracks the registration review state of a member.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
	MemberStatusRejected MemberStatus = "rejected"
)

// PersonalProfile holds a member's personal details captured at registration.
type PersonalProfile struct {
	Name       string
	ProfilePic string
	Phone      string
	Email      string
	GroupID    string
}

// BusinessSummary is the business snapshot captured with a registration.
type BusinessSummary struct {
	Name     string
	Category string
	Phone    string
	Email    string
	Location string
}

// Member represents a registered member of the organization.
type Member struct {
	ID           string
	AuthUID      string
	Personal     PersonalProfile
	Business     BusinessSummary
	Status       MemberStatus
	RegisteredAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BusinessHours describes opening hours for a single day.
type BusinessHours struct {
	Day    string
	Open   string
	Close  string
	Closed bool
}

// BusinessSocials collects optional social media links for a business.
type BusinessSocials struct {
	Website   string
	WhatsApp  string
	Facebook  string
	Instagram string
	YouTube   string
	LinkedIn  string
}

// BusinessProduct is a product or service showcased on a business profile.
type BusinessProduct struct {
	ID          string
	Title       string
	Description string
	ImageURI    string
}

// Business is a member's full directory profile.
type Business struct {
	ID          string
	AuthUID     string
	Name        string
	Category    string
	Phone       string
	Email       string
	Location    string
	LogoURL     string
	CoverURL    string
	Description string
	Hours       []BusinessHours
	Socials     BusinessSocials
	Gallery     []string
	Products    []BusinessProduct
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MeetingType classifies group meetings.
type MeetingType string

const (
	MeetingTypeGeneral  MeetingType = "general"
	MeetingTypeSpecial  MeetingType = "special"
	MeetingTypeTraining MeetingType = "training"
)

// MeetingStatus tracks the lifecycle of a group meeting.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCompleted MeetingStatus = "completed"
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// Geofence constrains attendance marking to a radius around a point.
// A meeting carries either all three values or none.
type Geofence struct {
	Lat          float64
	Lng          float64
	RadiusMeters float64
}

// Meeting represents a scheduled group meeting.
type Meeting struct {
	ID          string
	Title       string
	Type        MeetingType
	Description string
	Location    string
	StartsAt    time.Time
	DateText    string
	TimeText    string
	Status      MeetingStatus
	CreatedBy   string
	Geofence    *Geofence
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AttendanceStatus is the recorded state of a member at a meeting.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// GeoPoint is a captured client location.
type GeoPoint struct {
	Lat     float64
	Lng     float64
	Address string
}

// Attendance is a single durable attendance mark. At most one exists per
// (meeting, member) pair; the store's unique index enforces this.
type Attendance struct {
	ID        string
	MeetingID string
	MemberID  string
	MarkedBy  string
	Status    AttendanceStatus
	MarkedAt  time.Time
	Location  *GeoPoint
	CreatedAt time.Time
}

// OneOnOneStatus tracks the negotiation lifecycle of a peer meeting.
type OneOnOneStatus string

const (
	OneOnOneStatusPending   OneOnOneStatus = "pending"
	OneOnOneStatusScheduled OneOnOneStatus = "scheduled"
	OneOnOneStatusCompleted OneOnOneStatus = "completed"
	OneOnOneStatusCancelled OneOnOneStatus = "cancelled"
)

// ProposalStatus tracks a reschedule proposal attached to a one-on-one.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// Proposal is a pending or settled reschedule offer. Only one proposal is
// live at a time; a fresh one replaces the previous slot entirely.
type Proposal struct {
	DateText      string
	TimeText      string
	Location      string
	ProposedByUID string
	ProposedAt    time.Time
	Status        ProposalStatus
	Note          string
}

// OneOnOne is a peer-to-peer meeting request between two members.
type OneOnOne struct {
	ID            string
	Title         string
	Description   string
	Location      string
	StartsAt      time.Time
	DateText      string
	TimeText      string
	Status        OneOnOneStatus
	RequesterUID  string
	RequestedUID  string
	CreatedBy     string
	Proposal      *Proposal
	LastActionAt  *time.Time
	ProofPhotoURL string
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReferralType distinguishes referrals of members from manual contacts.
type ReferralType string

const (
	ReferralTypeMember ReferralType = "member"
	ReferralTypeManual ReferralType = "manual"
)

// ReferralStatus tracks the confirm/thank-note lifecycle of a referral.
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusConfirmed ReferralStatus = "confirmed"
	ReferralStatusCompleted ReferralStatus = "completed"
	ReferralStatusCancelled ReferralStatus = "cancelled"
)

// ManualReferral describes a referred contact who is not a member.
type ManualReferral struct {
	Name         string
	BusinessName string
	Category     string
	Email        string
}

// ReferralAttachment is a named document attached to a referral.
type ReferralAttachment struct {
	Name string
	URL  string
}

// Referral is a business referral passed from one member to another.
type Referral struct {
	ID                string
	GiverUID          string
	ReceiverUID       string
	Type              ReferralType
	ReferredMemberUID string
	ReferredManual    *ManualReferral
	Description       string
	Notes             string
	Attachments       []ReferralAttachment
	ThankNoteMessage  string
	ThankNoteAmount   *float64
	Status            ReferralStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Requirement is an open request posted by a member, either publicly or
// tagged to a specific member.
type Requirement struct {
	ID              string
	CreatorUID      string
	Title           string
	Description     string
	Category        string
	Budget          string
	Timeline        *time.Time
	IsPublic        bool
	TaggedMemberUID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequirementResponse is a member's reply to a requirement.
type RequirementResponse struct {
	ID            string
	RequirementID string
	ResponderUID  string
	Message       string
	CreatedAt     time.Time
}
