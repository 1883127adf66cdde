package datastores

import (
	"context"
	"slices"
	"sync"
	"time"
)

// ContactsInmem implements [ContactsStore].
//
// contacts is kept in creation order, listing walks it backwards.
type ContactsInmem struct {
	mu       sync.Mutex
	index    map[ContactID]*Contact
	contacts []*Contact
	now      func() time.Time
}

var _ ContactsStore = (*ContactsInmem)(nil)

func NewContactsInmem() *ContactsInmem {
	return &ContactsInmem{index: make(map[ContactID]*Contact), now: time.Now}
}

func (s *ContactsInmem) List(_ context.Context, query string) ([]*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contacts := make([]*Contact, 0, len(s.contacts))
	for _, c := range slices.Backward(s.contacts) {
		if c.Matches(query) {
			contacts = append(contacts, c.clone())
		}
	}
	return contacts, nil
}

func (s *ContactsInmem) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts), nil
}

func (s *ContactsInmem) Get(_ context.Context, id ContactID) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.index[id]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return c.clone(), nil
}

func (s *ContactsInmem) Create(_ context.Context) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Contact{CreatedAt: s.now()}
retry:
	c.ID = newUUID()
	_, loaded := s.index[c.ID]
	if loaded {
		goto retry
	}
	s.index[c.ID] = c
	s.contacts = append(s.contacts, c)
	return c.clone(), nil
}

func (s *ContactsInmem) Update(_ context.Context, id ContactID, patch *ContactPatch) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.index[id]
	if !ok {
		return nil, ErrObjectNotFound
	}
	patch.Apply(c)
	return c.clone(), nil
}

func (s *ContactsInmem) Delete(_ context.Context, id ContactID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.index[id]
	if !ok {
		return false, nil
	}
	delete(s.index, id)
	s.contacts = slices.DeleteFunc(s.contacts, func(e *Contact) bool { return e == c })
	return true, nil
}
