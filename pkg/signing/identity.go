package signing

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"
)

// Identity is the capability set a signer exposes: DER public key and
// signatures, prehashed signing, and verification that never panics or
// errors on malformed input — wrong key or bad DER simply means false.
type Identity interface {
	PublicKeyDER() []byte
	Sign(data []byte) ([]byte, error)
	SignPrehashed(hash [32]byte) ([]byte, error)
	Verify(data, signature []byte) bool
	CertificateDER() []byte // nil for identities with no certificate
	SignerName() string     // "" when unknown
}

// EphemeralIdentity is a one-off P-256 keypair generated for the lifetime
// of a signing session; it carries no certificate.
type EphemeralIdentity struct {
	private *ecdsa.PrivateKey
}

// GenerateEphemeralIdentity generates a fresh P-256 keypair from crypto/rand.
func GenerateEphemeralIdentity() (*EphemeralIdentity, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("signing: generate key: %w", err)
	}
	return &EphemeralIdentity{private: priv}, nil
}

// PublicKeyDER returns the SEC1-uncompressed public key: a leading 0x04
// byte followed by the 32-byte big-endian X and Y coordinates (65 bytes).
func (e *EphemeralIdentity) PublicKeyDER() []byte {
	return elliptic.Marshal(elliptic.P256(), e.private.X, e.private.Y)
}

// Sign produces an ECDSA-over-SHA-256 signature, DER-encoded as
// SEQUENCE{INTEGER r, INTEGER s}.
func (e *EphemeralIdentity) Sign(data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)
	return e.SignPrehashed(hash)
}

// SignPrehashed signs a pre-computed SHA-256 digest.
func (e *EphemeralIdentity) SignPrehashed(hash [32]byte) ([]byte, error) {
	r, s, err := ecdsa.Sign(rand.Reader, e.private, hash[:])
	if err != nil {
		return nil, fmt.Errorf("signing: sign: %w", err)
	}
	return encodeECDSASignature(r, s), nil
}

// Verify reports whether signature is a valid DER ECDSA-over-SHA-256
// signature over data under this identity's public key. Malformed DER or
// a mismatched signature both report false; neither ever panics.
func (e *EphemeralIdentity) Verify(data, signature []byte) bool {
	r, s, err := decodeECDSASignature(signature)
	if err != nil {
		return false
	}
	hash := sha256.Sum256(data)
	return ecdsa.Verify(&e.private.PublicKey, hash[:], r, s)
}

func (e *EphemeralIdentity) CertificateDER() []byte { return nil }
func (e *EphemeralIdentity) SignerName() string     { return "" }

// ExportPrivateKey returns the private scalar as 32 big-endian bytes, for
// temporary storage bound to a signing session.
func (e *EphemeralIdentity) ExportPrivateKey() []byte {
	return e.private.D.FillBytes(make([]byte, 32))
}

// ImportEphemeralIdentity restores an identity from a previously exported
// 32-byte scalar. Any length other than 32 is rejected.
func ImportEphemeralIdentity(scalar []byte) (*EphemeralIdentity, error) {
	if len(scalar) != 32 {
		return nil, fmt.Errorf("signing: invalid private key length %d, want 32", len(scalar))
	}
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(scalar)
	x, y := curve.ScalarBaseMult(scalar)
	priv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         d,
	}
	return &EphemeralIdentity{private: priv}, nil
}

func encodeECDSASignature(r, s *big.Int) []byte {
	return encodeSequence(encodeInteger(r.Bytes()), encodeInteger(s.Bytes()))
}

func decodeECDSASignature(der []byte) (r, s *big.Int, err error) {
	outer, err := parseTLV(der)
	if err != nil || outer.tag != tagSequence {
		return nil, nil, fmt.Errorf("signing: malformed ECDSA signature")
	}
	rTLV, err := parseTLV(outer.content)
	if err != nil || rTLV.tag != tagInteger {
		return nil, nil, fmt.Errorf("signing: malformed ECDSA signature: r")
	}
	sTLV, err := parseTLV(outer.content[rTLV.next:])
	if err != nil || sTLV.tag != tagInteger {
		return nil, nil, fmt.Errorf("signing: malformed ECDSA signature: s")
	}
	return new(big.Int).SetBytes(rTLV.content), new(big.Int).SetBytes(sTLV.content), nil
}
