package auth

import (
	"crypto/ed25519"
	"fmt"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
)

var _ port.Authorizer = (*Ed25519Verifier)(nil)

// Ed25519Verifier proves control of an identity by checking a
// signature over the operation payload against the identity bytes as
// an ed25519 public key.
type Ed25519Verifier struct{}

func NewEd25519Verifier() Ed25519Verifier {
	return Ed25519Verifier{}
}

func (Ed25519Verifier) Authorize(
	identity domain.Identity, message, signature []byte,
) error {
	const op = "Ed25519Verifier.Authorize"

	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%s: %w", op, domain.ErrAuthorizationFailed)
	}

	pub := ed25519.PublicKey(identity.Bytes())
	if !ed25519.Verify(pub, message, signature) {
		return fmt.Errorf("%s: %w", op, domain.ErrAuthorizationFailed)
	}
	return nil
}
