package order

import (
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/suites"
)

var suite suites.Suite = suites.MustFind("Ed25519")

const (
	privateKeyPEMType = "BYZANTINE GENERAL PRIVATE KEY"
	publicKeyPEMType  = "BYZANTINE GENERAL PUBLIC KEY"
)

// PrivateKey is the General's signing key.
type PrivateKey struct {
	x kyber.Scalar
}

// PublicKey is what lieutenants use to check the General's orders.
type PublicKey struct {
	p kyber.Point
}

// GenerateKey creates a fresh key pair.
func GenerateKey() (*PrivateKey, *PublicKey, error) {
	x := suite.Scalar().Pick(suite.RandomStream())
	if x.Equal(suite.Scalar().Zero()) {
		return nil, nil, errors.New("generated a zero scalar")
	}
	priv := &PrivateKey{x: x}
	return priv, priv.Public(), nil
}

// Public derives the public key matching k.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{p: suite.Point().Mul(k.x, nil)}
}

func (k *PrivateKey) valid() bool {
	return k != nil && k.x != nil && !k.x.Equal(suite.Scalar().Zero())
}

func (k *PrivateKey) MarshalBinary() ([]byte, error) {
	if k == nil || k.x == nil {
		return nil, errors.New("empty private key")
	}
	return k.x.MarshalBinary()
}

func (k *PublicKey) MarshalBinary() ([]byte, error) {
	if k == nil || k.p == nil {
		return nil, errors.New("empty public key")
	}
	return k.p.MarshalBinary()
}

// Equal reports whether both keys are the same point.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return k != nil && other != nil && k.p.Equal(other.p)
}

func UnmarshalPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != suite.ScalarLen() {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", suite.ScalarLen(), len(b))
	}
	x := suite.Scalar()
	if err := x.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return &PrivateKey{x: x}, nil
}

func UnmarshalPublicKey(b []byte) (*PublicKey, error) {
	p := suite.Point()
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return &PublicKey{p: p}, nil
}

// EncodePrivateKeyPEM returns the PEM form of k, as written by keygen.
func EncodePrivateKeyPEM(k *PrivateKey) ([]byte, error) {
	b, err := k.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: privateKeyPEMType, Bytes: b}), nil
}

// EncodePublicKeyPEM returns the PEM form of k, as written by keygen.
func EncodePublicKeyPEM(k *PublicKey) ([]byte, error) {
	b, err := k.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: publicKeyPEMType, Bytes: b}), nil
}

// ParsePrivateKey accepts either a PEM encoded key or the raw scalar bytes.
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != privateKeyPEMType {
			return nil, fmt.Errorf("unexpected PEM block %q", block.Type)
		}
		data = block.Bytes
	}
	return UnmarshalPrivateKey(data)
}

// ParsePublicKey accepts either a PEM encoded key or the raw point bytes.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != publicKeyPEMType {
			return nil, fmt.Errorf("unexpected PEM block %q", block.Type)
		}
		data = block.Bytes
	}
	return UnmarshalPublicKey(data)
}

// LoadPrivateKeyFile reads the General's private key from path.
func LoadPrivateKeyFile(path string) (*PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	k, err := ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return k, nil
}

// LoadPublicKeyFile reads a public key from path.
func LoadPublicKeyFile(path string) (*PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	k, err := ParsePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return k, nil
}
