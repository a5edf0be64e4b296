package domain

import (
	"errors"

	"github.com/mr-tron/base58"
)

const IdentitySize = 32

// An Identity is the opaque public key of an actor (seller, consumer,
// buyer). Every derivation and authorization check is keyed on it,
// never on a display name.
type Identity [IdentitySize]byte

var ErrInvalidIdentity = errors.New("invalid identity")

func ParseIdentity(s string) (Identity, error) {
	b, err := base58.Decode(s)
	if err != nil || len(b) != IdentitySize {
		return Identity{}, ErrInvalidIdentity
	}
	var id Identity
	copy(id[:], b)
	return id, nil
}

func (id Identity) Bytes() []byte {
	return id[:]
}

func (id Identity) String() string {
	return base58.Encode(id[:])
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(data []byte) error {
	v, err := ParseIdentity(string(data))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
