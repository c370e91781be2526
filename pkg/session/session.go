// Package session implements the signing-session state machine: a
// document moves from Pending through Accepted to Completed, with
// off-path transitions to Declined or Expired, plus a per-recipient
// verify-attempt lockout sub-machine and resend semantics for expired
// sessions.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docforge/docforge/pkg/canonicalize"
)

// Status is the signing session's aggregate state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
	StatusExpired   Status = "expired"
)

const (
	defaultExpiryHours = 168
	lockoutThreshold   = 3
	lockoutDuration    = 15 * time.Minute
)

// FieldType enumerates the signable field kinds a session's document
// carries (mirrors render/markup.FieldType for the fields a template
// placed on the document being signed).
type FieldType string

const (
	FieldSignature FieldType = "signature"
	FieldInitial   FieldType = "initial"
	FieldDate      FieldType = "date"
	FieldText      FieldType = "text"
	FieldCheckbox  FieldType = "checkbox"
)

// Field is one signable placeholder bound to a recipient.
type Field struct {
	ID          string
	Type        FieldType
	RecipientID string
	Required    bool
	Value       string
	SignedAt    *time.Time
}

// VerifyAttempts is the per-recipient lockout sub-machine for email-suffix
// verification: three failures within the lockout's life apply a 15-minute
// lock, during which further attempts fail without incrementing.
type VerifyAttempts struct {
	Count       int
	LastAttempt *time.Time
	LockedUntil *time.Time
}

// Attempt records one verification attempt at now and reports whether it
// is allowed to proceed (false means locked out — the caller should not
// evaluate the submitted code at all).
func (v *VerifyAttempts) Attempt(now time.Time, success bool) bool {
	if v.LockedUntil != nil && now.Before(*v.LockedUntil) {
		return false
	}
	v.LastAttempt = &now

	if success {
		v.Count = 0
		v.LockedUntil = nil
		return true
	}

	v.Count++
	if v.Count >= lockoutThreshold {
		until := now.Add(lockoutDuration)
		v.LockedUntil = &until
	}
	return true
}

// Recipient is one party a session's document is routed to.
type Recipient struct {
	ID             string
	Email          string
	Name           string
	Status         Status
	AcceptedAt     *time.Time
	DeclinedAt     *time.Time
	DeclineReason  string
	VerifyAttempts VerifyAttempts
}

// SignedVersion is an immutable snapshot of one completed signature round:
// the field values in effect the moment the session reached Completed.
// A session accumulates one of these per completed round and never edits
// or removes an existing entry.
type SignedVersion struct {
	Version       int
	DocumentHash  string
	FieldValues   map[string]string
	FieldValuesID string // canonical hash of FieldValues, stable across re-marshaling
	CompletedAt   time.Time
}

// Session is a signing session over one document.
type Session struct {
	ID             string
	DocumentName   string
	DocumentHash   string
	Recipients     []Recipient
	Fields         []Field
	Status         Status
	SignedVersions []SignedVersion
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ExpiresAt      time.Time
	ResendOfID     string // non-empty when created to resend an Expired session
}

// New creates a Pending session expiring expiryHours from now (0 means the
// spec default of 168).
func New(documentName, documentHash string, recipients []Recipient, fields []Field, expiryHours int, now time.Time) *Session {
	if expiryHours <= 0 {
		expiryHours = defaultExpiryHours
	}
	return &Session{
		ID:           uuid.NewString(),
		DocumentName: documentName,
		DocumentHash: documentHash,
		Recipients:   recipients,
		Fields:       fields,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(time.Duration(expiryHours) * time.Hour),
	}
}

// touchExpiry moves the session to Expired if now is past ExpiresAt and it
// hasn't already reached a terminal state. Every exported transition calls
// this first, per §4.9: "clock past expires-at on any access: → Expired,
// no further state changes accepted."
func (s *Session) touchExpiry(now time.Time) {
	if s.Status == StatusCompleted || s.Status == StatusDeclined || s.Status == StatusExpired {
		return
	}
	if now.After(s.ExpiresAt) {
		s.Status = StatusExpired
		s.UpdatedAt = now
	}
}

func (s *Session) recipient(id string) (*Recipient, error) {
	for i := range s.Recipients {
		if s.Recipients[i].ID == id {
			return &s.Recipients[i], nil
		}
	}
	return nil, fmt.Errorf("session: recipient %q not found", id)
}

// Accept records a recipient's acceptance. The session aggregate becomes
// Accepted once any recipient accepts.
func (s *Session) Accept(recipientID string, now time.Time) error {
	s.touchExpiry(now)
	if s.Status == StatusExpired {
		return fmt.Errorf("session: expired, no further state changes accepted")
	}

	r, err := s.recipient(recipientID)
	if err != nil {
		return err
	}
	r.Status = StatusAccepted
	r.AcceptedAt = &now

	if s.Status == StatusPending {
		s.Status = StatusAccepted
	}
	s.UpdatedAt = now
	return nil
}

// Decline records a recipient's decline; declining is an off-path
// transition available from any non-terminal state.
func (s *Session) Decline(recipientID, reason string, now time.Time) error {
	s.touchExpiry(now)
	if s.Status == StatusExpired || s.Status == StatusCompleted {
		return fmt.Errorf("session: cannot decline from terminal state %s", s.Status)
	}

	r, err := s.recipient(recipientID)
	if err != nil {
		return err
	}
	r.Status = StatusDeclined
	r.DeclinedAt = &now
	r.DeclineReason = reason

	s.Status = StatusDeclined
	s.UpdatedAt = now
	return nil
}

// SubmitSignatures applies signature values to fields and transitions to
// Completed when every required field is signed and a submission
// timestamp is provided.
func (s *Session) SubmitSignatures(values map[string]string, submittedAt *time.Time, now time.Time) error {
	s.touchExpiry(now)
	if s.Status == StatusExpired {
		return fmt.Errorf("session: expired, no further state changes accepted")
	}

	for id, value := range values {
		for i := range s.Fields {
			if s.Fields[i].ID == id {
				s.Fields[i].Value = value
				s.Fields[i].SignedAt = &now
			}
		}
	}
	s.UpdatedAt = now

	if submittedAt == nil || !s.allRequiredFieldsSigned() {
		return nil
	}
	s.Status = StatusCompleted
	snapshot, err := s.snapshot(now)
	if err != nil {
		return fmt.Errorf("session: snapshot signed version: %w", err)
	}
	s.SignedVersions = append(s.SignedVersions, snapshot)
	return nil
}

// snapshot captures the current field values as an immutable signed-version
// entry at the moment the session completes. FieldValuesID is the RFC 8785
// canonical hash of the values, so two snapshots with the same signed
// content are recognizably identical regardless of map iteration order.
func (s *Session) snapshot(now time.Time) (SignedVersion, error) {
	values := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		values[f.ID] = f.Value
	}
	id, err := canonicalize.CanonicalHash(values)
	if err != nil {
		return SignedVersion{}, err
	}
	return SignedVersion{
		Version:       len(s.SignedVersions) + 1,
		DocumentHash:  s.DocumentHash,
		FieldValues:   values,
		FieldValuesID: id,
		CompletedAt:   now,
	}, nil
}

func (s *Session) allRequiredFieldsSigned() bool {
	for _, f := range s.Fields {
		if f.Required && f.SignedAt == nil {
			return false
		}
	}
	return true
}

// CheckExpiry exposes touchExpiry for callers that only want to observe
// (not mutate via another transition) whether access should now report
// Expired.
func (s *Session) CheckExpiry(now time.Time) {
	s.touchExpiry(now)
}

// Resend creates a fresh Pending session over the same document as an
// Expired session, leaving the original untouched. Only valid when the
// source session is Expired.
func Resend(expired *Session, now time.Time) (*Session, error) {
	if expired.Status != StatusExpired {
		return nil, fmt.Errorf("session: resend only valid for an Expired session, got %s", expired.Status)
	}

	recipients := make([]Recipient, len(expired.Recipients))
	for i, r := range expired.Recipients {
		recipients[i] = Recipient{ID: r.ID, Email: r.Email, Name: r.Name, Status: StatusPending}
	}
	fields := make([]Field, len(expired.Fields))
	copy(fields, expired.Fields)
	for i := range fields {
		fields[i].Value = ""
		fields[i].SignedAt = nil
	}

	next := New(expired.DocumentName, expired.DocumentHash, recipients, fields, 0, now)
	next.ResendOfID = expired.ID
	return next, nil
}
