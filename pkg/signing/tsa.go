package signing

import (
	"crypto/sha256"
	"fmt"
)

// oidSHA256 is the DER arc-encoding of 2.16.840.1.101.3.4.2.1.
var oidSHA256 = []byte{0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01}

// OIDTimestampToken is id-smime-aa-timeStampToken, 1.2.840.113549.1.9.16.2.14.
var OIDTimestampToken = []byte{0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x09, 0x10, 0x02, 0x0E}

// BuildTimestampRequest builds a DER-encoded RFC 3161 TimeStampReq over the
// SHA-256 hash of signature:
//
//	TimeStampReq ::= SEQUENCE {
//	   version         INTEGER { v1(1) },
//	   messageImprint  MessageImprint,
//	   nonce           INTEGER OPTIONAL,
//	   certReq         BOOLEAN DEFAULT FALSE
//	}
//	MessageImprint ::= SEQUENCE { hashAlgorithm AlgorithmIdentifier, hashedMessage OCTET STRING }
func BuildTimestampRequest(signature []byte) ([]byte, error) {
	hash := sha256.Sum256(signature)

	algID := encodeSequence(encodeOID(oidSHA256))
	messageImprint := encodeSequence(algID, encodeOctetString(hash[:]))

	nonce, err := generateNonce()
	if err != nil {
		return nil, err
	}

	return encodeSequence(
		encodeSmallInteger(1),
		messageImprint,
		encodeInteger(nonce),
		encodeBoolean(true),
	), nil
}

// ParseTimestampResponse parses a DER-encoded RFC 3161 TimeStampResp:
//
//	TimeStampResp ::= SEQUENCE { status PKIStatusInfo, timeStampToken TimeStampToken OPTIONAL }
//
// and returns the raw TimeStampToken bytes (a ContentInfo wrapping
// SignedData) to be embedded as an unsigned CMS attribute. A non-zero
// PKIStatusInfo status yields an error naming the status code.
func ParseTimestampResponse(response []byte) ([]byte, error) {
	if len(response) == 0 {
		return nil, fmt.Errorf("signing: empty timestamp response")
	}
	if response[0] != tagSequence {
		return nil, fmt.Errorf("signing: invalid timestamp response: expected SEQUENCE")
	}

	outer, err := parseTLV(response)
	if err != nil {
		return nil, err
	}
	content := outer.content

	if len(content) == 0 || content[0] != tagSequence {
		return nil, fmt.Errorf("signing: invalid PKIStatusInfo")
	}
	statusInfo, err := parseTLV(content)
	if err != nil {
		return nil, err
	}
	remaining := content[statusInfo.next:]

	if len(statusInfo.content) == 0 || statusInfo.content[0] != tagInteger {
		return nil, fmt.Errorf("signing: invalid status in PKIStatusInfo")
	}
	statusValue, err := parseTLV(statusInfo.content)
	if err != nil {
		return nil, err
	}

	status := 255
	if len(statusValue.content) > 0 {
		status = int(statusValue.content[0])
	}
	if status != 0 {
		return nil, fmt.Errorf("signing: timestamp request failed with status %d", status)
	}

	if len(remaining) == 0 {
		return nil, fmt.Errorf("signing: no TimeStampToken in response")
	}
	return remaining, nil
}

// BuildTimestampUnsignedAttr wraps a TimeStampToken as the CMS unsigned
// attribute used to embed it in a SignerInfo:
//
//	[1] IMPLICIT SET { SEQUENCE { attrType OID(id-smime-aa-timeStampToken), attrValues SET { token } } }
func BuildTimestampUnsignedAttr(timestampToken []byte) []byte {
	attr := encodeSequence(encodeOID(OIDTimestampToken), encodeSet(timestampToken))
	return encodeContextConstructed(1, attr)
}

// ValidateTimestampToken performs a shallow structural check: non-empty,
// starts with a SEQUENCE tag, and declares a length that fits the buffer.
func ValidateTimestampToken(token []byte) error {
	if len(token) == 0 {
		return fmt.Errorf("signing: empty timestamp token")
	}
	if token[0] != tagSequence {
		return fmt.Errorf("signing: invalid timestamp token: expected SEQUENCE")
	}
	if _, err := parseTLV(token); err != nil {
		return fmt.Errorf("signing: timestamp token too short: %w", err)
	}
	return nil
}
