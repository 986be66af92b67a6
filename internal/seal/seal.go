// Package seal implements the dynamic identity tokens backing
// parametric polymorphism: fresh, unforgeable markers generated once
// per forall-contract instantiation and compared by identity, never by
// structure (spec §4.6, §9 "Seal identities").
package seal

import "github.com/google/uuid"

// ID is a freshly-generated, globally unique seal identity. The
// underlying uuid.UUID gives I5 ("every seal identity is fresh... and
// never reused") for free instead of hand-rolling a counter: two IDs
// are equal iff they were generated by the same call to New, which is
// exactly the reference-equality discipline spec §9 asks for.
type ID struct {
	token uuid.UUID
}

// New generates a fresh seal identity. Called once per entry of a
// forall contract (spec §4.6).
func New() ID {
	return ID{token: uuid.New()}
}

// Equal reports whether two identities were produced by the same call
// to New. This is the only operation user code can perform indirectly
// on a seal identity — equality, never structural inspection.
func (id ID) Equal(other ID) bool {
	return id.token == other.token
}

func (id ID) String() string {
	return id.token.String()
}
