package datastores

import (
	"context"
	"errors"
	"strings"
	"time"
)

type (
	// ContactID is the opaque identifier of a [Contact].
	ContactID = UUID
	Contact   struct {
		ID        ContactID
		First     string
		Last      string
		Avatar    string
		Twitter   string
		Notes     string
		Favorite  bool
		CreatedAt time.Time
	}
)

// ContactPatch lists the fields to merge into a [Contact], nil fields are left untouched.
type ContactPatch struct {
	First    *string
	Last     *string
	Avatar   *string
	Twitter  *string
	Notes    *string
	Favorite *bool
}

// ContactsStore is the keyed collection of contacts.
//
// Every returned [Contact] is a copy owned by the caller. Get and Update
// report a missing id with [ErrObjectNotFound]; Delete never does.
type ContactsStore interface {
	List(ctx context.Context, query string) ([]*Contact, error)
	Get(ctx context.Context, id ContactID) (*Contact, error)
	Create(ctx context.Context) (*Contact, error)
	Update(ctx context.Context, id ContactID, patch *ContactPatch) (*Contact, error)
	Delete(ctx context.Context, id ContactID) (bool, error)
	Count(ctx context.Context) (int, error)
}

var ErrObjectNotFound = errors.New("store: object not found")

// ParseContactID parses the text form of a [ContactID].
func ParseContactID(s string) (ContactID, error) {
	var id ContactID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

// Apply merges p into c.
func (p *ContactPatch) Apply(c *Contact) {
	if p == nil {
		return
	}
	set(&c.First, p.First)
	set(&c.Last, p.Last)
	set(&c.Avatar, p.Avatar)
	set(&c.Twitter, p.Twitter)
	set(&c.Notes, p.Notes)
	set(&c.Favorite, p.Favorite)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Matches reports whether the first or last name of c contains query, ignoring case.
// The empty query matches every contact.
func (c *Contact) Matches(query string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.First), query) ||
		strings.Contains(strings.ToLower(c.Last), query)
}

func (c *Contact) clone() *Contact {
	clone := *c
	return &clone
}
