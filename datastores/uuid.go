package datastores

import (
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

// UUID is a [uuid.UUID] that uses [base64.RawURLEncoding]
// to marshal to and from text.
type UUID uuid.UUID

var errUUIDLength = errors.New("invalid length")

// newUUID returns a time-ordered UUID (version 7).
func newUUID() UUID { return UUID(uuid.Must(uuid.NewV7())) }

// encoding rejects non-zero trailing bits, an id has a single text form.
func (*UUID) encoding() *base64.Encoding { return base64.RawURLEncoding.Strict() }

func (id *UUID) encodedLen() int {
	return id.encoding().EncodedLen(len(id))
}

// IsZero reports whether id was never assigned.
func (id UUID) IsZero() bool { return id == UUID{} }

func (id UUID) String() string {
	b, _ := id.AppendText(nil)
	return string(b)
}

func (id *UUID) AppendText(b []byte) ([]byte, error) {
	return id.encoding().AppendEncode(b, id[:]), nil
}

func (id *UUID) MarshalText() ([]byte, error) {
	return id.AppendText(nil)
}

func (id *UUID) UnmarshalText(b []byte) error {
	if len(b) != id.encodedLen() {
		return errUUIDLength
	}
	_, err := id.encoding().Decode(id[:], b)
	return err
}
