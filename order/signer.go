package order

import (
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v4/sign/schnorr"
)

// Signer produces SignedOrders with the General's private key.
// It is safe for concurrent use.
type Signer struct {
	key *PrivateKey
}

// NewSigner returns a Signer for key, or a *SigningError if the key cannot
// sign anything.
func NewSigner(key *PrivateKey) (*Signer, error) {
	if !key.valid() {
		return nil, &SigningError{Reason: "invalid private key"}
	}
	return &Signer{key: key}, nil
}

// Sign returns a freshly signed order for label. Two calls with the same
// arguments return different signatures.
func (s *Signer) Sign(label Label, senderID string) (SignedOrder, error) {
	if label != Attack && label != Retreat {
		return SignedOrder{}, &SigningError{Reason: fmt.Sprintf("unknown order %q", label)}
	}
	o := SignedOrder{Label: label, SenderID: senderID}
	sig, err := schnorr.Sign(suite, s.key.x, o.signedBytes())
	if err != nil {
		return SignedOrder{}, &SigningError{Reason: "schnorr", Err: err}
	}
	o.Signature = sig
	return o, nil
}

// CreateSignedOrder signs a single order with key.
func CreateSignedOrder(label Label, senderID string, key *PrivateKey) (SignedOrder, error) {
	s, err := NewSigner(key)
	if err != nil {
		return SignedOrder{}, err
	}
	return s.Sign(label, senderID)
}

// Verify checks o against the General's public key. This is what a
// lieutenant runs on every order it receives.
func Verify(pub *PublicKey, o SignedOrder) error {
	if pub == nil || pub.p == nil {
		return errors.New("missing public key")
	}
	if len(o.Signature) == 0 {
		return errors.New("missing signature")
	}
	return schnorr.Verify(suite, pub.p, o.signedBytes(), o.Signature)
}
