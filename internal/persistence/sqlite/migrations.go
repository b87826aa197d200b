package sqlite

import "context"

// schema contains the SQL statements to set up the database schema. These
// run on startup to ensure tables exist. JSON columns hold the nested
// document fields (business hours/socials/products, referral attachments,
// attendance location) that have no relational consumers.
const schema = `
CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    auth_uid TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    profile_pic TEXT,
    phone TEXT NOT NULL,
    email TEXT,
    group_id TEXT NOT NULL,
    business_name TEXT NOT NULL,
    business_category TEXT NOT NULL,
    business_phone TEXT,
    business_email TEXT,
    business_location TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    registered_at TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS businesses (
    id TEXT PRIMARY KEY,
    auth_uid TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    phone TEXT,
    email TEXT,
    location TEXT,
    logo_url TEXT,
    cover_url TEXT,
    description TEXT,
    hours TEXT,
    socials TEXT,
    gallery TEXT,
    products TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meetings (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    meeting_type TEXT NOT NULL DEFAULT 'general',
    description TEXT,
    location TEXT NOT NULL,
    starts_at TEXT NOT NULL,
    date_text TEXT NOT NULL,
    time_text TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'scheduled',
    created_by TEXT,
    geofence_lat REAL,
    geofence_lng REAL,
    geofence_radius_m REAL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attendances (
    id TEXT PRIMARY KEY,
    meeting_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    marked_by TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'present',
    marked_at TEXT NOT NULL,
    location TEXT,
    created_at TEXT NOT NULL,
    FOREIGN KEY (meeting_id) REFERENCES meetings(id),
    FOREIGN KEY (member_id) REFERENCES members(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_attendances_meeting_member
    ON attendances(meeting_id, member_id);

CREATE TABLE IF NOT EXISTS one_on_ones (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    location TEXT NOT NULL,
    starts_at TEXT NOT NULL,
    date_text TEXT NOT NULL,
    time_text TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    requester_uid TEXT NOT NULL,
    requested_uid TEXT NOT NULL,
    created_by TEXT,
    proposal_date_text TEXT,
    proposal_time_text TEXT,
    proposal_location TEXT,
    proposal_by_uid TEXT,
    proposal_at TEXT,
    proposal_status TEXT,
    proposal_note TEXT,
    last_action_at TEXT,
    proof_photo_url TEXT,
    completed_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_one_on_ones_requester ON one_on_ones(requester_uid, starts_at DESC);
CREATE INDEX IF NOT EXISTS idx_one_on_ones_requested ON one_on_ones(requested_uid, starts_at DESC);

CREATE TABLE IF NOT EXISTS referrals (
    id TEXT PRIMARY KEY,
    giver_uid TEXT NOT NULL,
    receiver_uid TEXT NOT NULL,
    referral_type TEXT NOT NULL,
    referred_member_uid TEXT,
    manual_name TEXT,
    manual_business_name TEXT,
    manual_category TEXT,
    manual_email TEXT,
    description TEXT NOT NULL,
    notes TEXT,
    attachments TEXT,
    thank_note_message TEXT,
    thank_note_amount REAL,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_referrals_giver ON referrals(giver_uid, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_referrals_receiver ON referrals(receiver_uid, created_at DESC);

CREATE TABLE IF NOT EXISTS requirements (
    id TEXT PRIMARY KEY,
    creator_uid TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    category TEXT,
    budget TEXT,
    timeline TEXT,
    is_public INTEGER NOT NULL DEFAULT 1,
    tagged_member_uid TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_requirements_public ON requirements(is_public, created_at DESC);

CREATE TABLE IF NOT EXISTS requirement_responses (
    id TEXT PRIMARY KEY,
    requirement_id TEXT NOT NULL,
    responder_uid TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (requirement_id) REFERENCES requirements(id)
);

CREATE INDEX IF NOT EXISTS idx_requirement_responses_requirement
    ON requirement_responses(requirement_id, created_at DESC);
`

// Migrate applies the schema. Statements are idempotent so restarts are safe.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}
