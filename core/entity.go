package core

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ErrDraftNotFound is returned by DraftStore implementations when no draft
// exists for the requested id.
var ErrDraftNotFound = errors.New("draft not found")

// GeneratedIDPrefix marks server-generated draft ids.
const GeneratedIDPrefix = "d_"

type (
	// Draft is an e-card draft as the editor sent it. It is a plain JSON
	// object rather than a fixed struct so that absent fields stay absent:
	// the server only fills in id and updatedAt when the client omits them,
	// and everything else passes through unchanged.
	Draft map[string]any

	// DraftTable maps draft id to the full stored draft. Every entry carries
	// a non-empty "id" field equal to its key.
	DraftTable map[string]Draft

	DraftStore interface {
		FindID(ctx context.Context, id string) (Draft, error)
		// Upsert stores the draft under its id, generating one when the
		// draft has none, and returns the draft as persisted.
		Upsert(ctx context.Context, draft Draft) (Draft, error)
	}
)

// ID returns the draft's id, or "" when absent, empty, or not a string.
func (d Draft) ID() string {
	id, _ := d["id"].(string)
	return id
}

func (d Draft) SetID(id string) {
	d["id"] = id
}

// HasUpdatedAt reports whether the client supplied an updatedAt value of any
// kind. A supplied value is stored verbatim; the server only sets the field
// when it is missing entirely.
func (d Draft) HasUpdatedAt() bool {
	_, ok := d["updatedAt"]
	return ok
}

func (d Draft) SetUpdatedAt(epochMillis int64) {
	d["updatedAt"] = epochMillis
}

// Clone returns a copy of the draft so stored entries cannot be mutated
// through a reference handed back to a caller.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// NewDraftID generates a draft id of the form "d_<ulid>".
func NewDraftID() string {
	return GeneratedIDPrefix + strings.ToLower(ulid.Make().String())
}
