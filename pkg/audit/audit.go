// Package audit implements the hash-linked, tamper-evident event log that
// backs every document's provenance trail: uploads, views, field edits,
// signatures, declines, sends, and compliance checks.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docforge/docforge/pkg/canonicalize"
)

// Action is the closed set of things an AuditEvent can record. Each variant
// canonicalizes itself into a stable byte representation so the event hash
// is reproducible regardless of how the action was constructed.
type Action interface {
	actionKind() string
	canonical() map[string]interface{}
}

type (
	Upload struct{}
	View   struct{}

	FieldAdded   struct{}
	FieldRemoved struct{}

	Sign     struct{}
	Decline  struct{}
	Complete struct{}
	Send     struct{}

	ComplianceCheck struct {
		ViolationsFound int
	}

	DocumentLoaded struct {
		Hash string
	}

	FieldAddedDetailed struct {
		FieldType string
		Page      int
	}

	FieldMoved struct {
		FieldID string
		NewX    float64
		NewY    float64
	}

	FieldDeleted struct {
		FieldID string
	}
)

func (Upload) actionKind() string   { return "upload" }
func (Upload) canonical() map[string]interface{} { return map[string]interface{}{} }

func (View) actionKind() string   { return "view" }
func (View) canonical() map[string]interface{} { return map[string]interface{}{} }

func (FieldAdded) actionKind() string   { return "field_added" }
func (FieldAdded) canonical() map[string]interface{} { return map[string]interface{}{} }

func (FieldRemoved) actionKind() string   { return "field_removed" }
func (FieldRemoved) canonical() map[string]interface{} { return map[string]interface{}{} }

func (Sign) actionKind() string   { return "sign" }
func (Sign) canonical() map[string]interface{} { return map[string]interface{}{} }

func (Decline) actionKind() string   { return "decline" }
func (Decline) canonical() map[string]interface{} { return map[string]interface{}{} }

func (Complete) actionKind() string   { return "complete" }
func (Complete) canonical() map[string]interface{} { return map[string]interface{}{} }

func (Send) actionKind() string   { return "send" }
func (Send) canonical() map[string]interface{} { return map[string]interface{}{} }

func (a ComplianceCheck) actionKind() string { return "compliance_check" }
func (a ComplianceCheck) canonical() map[string]interface{} {
	return map[string]interface{}{"violations_found": a.ViolationsFound}
}

func (a DocumentLoaded) actionKind() string { return "document_loaded" }
func (a DocumentLoaded) canonical() map[string]interface{} {
	return map[string]interface{}{"hash": a.Hash}
}

func (a FieldAddedDetailed) actionKind() string { return "field_added_detailed" }
func (a FieldAddedDetailed) canonical() map[string]interface{} {
	return map[string]interface{}{"field_type": a.FieldType, "page": a.Page}
}

func (a FieldMoved) actionKind() string { return "field_moved" }
func (a FieldMoved) canonical() map[string]interface{} {
	return map[string]interface{}{"field_id": a.FieldID, "new_x": a.NewX, "new_y": a.NewY}
}

func (a FieldDeleted) actionKind() string { return "field_deleted" }
func (a FieldDeleted) canonical() map[string]interface{} {
	return map[string]interface{}{"field_id": a.FieldID}
}

// AuditEvent is one hash-linked entry in a document's AuditChain.
type AuditEvent struct {
	EventID      string    `json:"event_id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       Action    `json:"-"`
	ActionKind   string    `json:"action_kind"`
	ActorEmail   string    `json:"actor_email"`
	ActorIPHash  string    `json:"actor_ip_hash,omitempty"`
	DocumentHash string    `json:"document_hash"`
	PreviousHash string    `json:"previous_hash,omitempty"`
	Details      string    `json:"details,omitempty"`
	Signature    string    `json:"signature,omitempty"`
	Hash         string    `json:"hash"`
}

// AuditChain is the ordered, hash-linked event sequence for one document.
type AuditChain struct {
	DocumentID string
	CreatedAt  time.Time
	Events     []AuditEvent

	clock func() time.Time
}

// NewAuditChain creates an empty chain for documentID. clock defaults to
// time.Now if nil; tests may supply a fixed clock for determinism.
func NewAuditChain(documentID string, clock func() time.Time) *AuditChain {
	if clock == nil {
		clock = time.Now
	}
	return &AuditChain{
		DocumentID: documentID,
		CreatedAt:  clock().UTC(),
		clock:      clock,
	}
}

// Append computes previous_hash from the last event (none for event[0]),
// assigns a fresh UUID and the current UTC timestamp, and pushes the new
// event onto the chain.
func (c *AuditChain) Append(action Action, actorEmail, actorIPHash, documentHash, details string) (*AuditEvent, error) {
	prev := ""
	if n := len(c.Events); n > 0 {
		prev = c.Events[n-1].Hash
	}

	evt := AuditEvent{
		EventID:      uuid.NewString(),
		Timestamp:    c.clock().UTC(),
		Action:       action,
		ActionKind:   action.actionKind(),
		ActorEmail:   actorEmail,
		ActorIPHash:  actorIPHash,
		DocumentHash: documentHash,
		PreviousHash: prev,
		Details:      details,
	}

	hash, err := hashEvent(&evt)
	if err != nil {
		return nil, fmt.Errorf("audit: hash event: %w", err)
	}
	evt.Hash = hash

	c.Events = append(c.Events, evt)
	return &c.Events[len(c.Events)-1], nil
}

// Verify walks the chain and reports whether every event's previous_hash
// matches the computed hash of its predecessor and every event's own hash
// matches its recomputed content hash.
func (c *AuditChain) Verify() (bool, error) {
	for i := range c.Events {
		evt := &c.Events[i]

		if i == 0 {
			if evt.PreviousHash != "" {
				return false, fmt.Errorf("audit: event 0 has non-empty previous_hash")
			}
		} else if evt.PreviousHash != c.Events[i-1].Hash {
			return false, fmt.Errorf("audit: chain broken at index %d: previous_hash mismatch", i)
		}

		recomputed, err := hashEvent(evt)
		if err != nil {
			return false, fmt.Errorf("audit: recompute hash at index %d: %w", i, err)
		}
		if recomputed != evt.Hash {
			return false, fmt.Errorf("audit: integrity failure at index %d", i)
		}
	}
	return true, nil
}

// LastHash returns the hash of the most recent event, or "" if the chain is
// empty — the value the next Append will use as previous_hash.
func (c *AuditChain) LastHash() string {
	if n := len(c.Events); n > 0 {
		return c.Events[n-1].Hash
	}
	return ""
}

// hashEvent computes SHA-256 over
// (event_id || timestamp || action_kind || canonical-serialization-of-action || actor_email || document_hash || previous_hash?)
// per §4.8.
func hashEvent(e *AuditEvent) (string, error) {
	actionBytes, err := canonicalize.JCS(e.Action.canonical())
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(e.EventID))
	h.Write([]byte(e.Timestamp.Format(time.RFC3339Nano)))
	h.Write([]byte(e.ActionKind))
	h.Write(actionBytes)
	h.Write([]byte(e.ActorEmail))
	h.Write([]byte(e.DocumentHash))
	if e.PreviousHash != "" {
		h.Write([]byte(e.PreviousHash))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
