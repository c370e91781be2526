package signing

import (
	"bytes"
	"testing"
)

func TestEncodeLengthShortAndLongForms(t *testing.T) {
	if got := encodeLength(10); !bytes.Equal(got, []byte{0x0A}) {
		t.Fatalf("expected short form, got %x", got)
	}
	if got := encodeLength(200); !bytes.Equal(got, []byte{0x81, 0xC8}) {
		t.Fatalf("expected 1-byte long form, got %x", got)
	}
	if got := encodeLength(300); !bytes.Equal(got, []byte{0x82, 0x01, 0x2C}) {
		t.Fatalf("expected 2-byte long form, got %x", got)
	}
}

func TestEncodeIntegerPadsHighBit(t *testing.T) {
	got := encodeInteger([]byte{0x80})
	want := []byte{tagInteger, 0x02, 0x00, 0x80}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected a padding 0x00 byte, got %x want %x", got, want)
	}
}

func TestEncodeIntegerStripsLeadingZeros(t *testing.T) {
	got := encodeInteger([]byte{0x00, 0x00, 0x01})
	want := []byte{tagInteger, 0x01, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected leading zeros stripped, got %x want %x", got, want)
	}
}

func TestParseTLVRoundTripsSequence(t *testing.T) {
	encoded := encodeSequence(encodeSmallInteger(1), encodeOctetString([]byte("hi")))
	parsed, err := parseTLV(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.tag != tagSequence {
		t.Fatalf("expected SEQUENCE tag, got 0x%02x", parsed.tag)
	}
	if parsed.next != len(encoded) {
		t.Fatalf("expected next to consume the whole buffer, got %d of %d", parsed.next, len(encoded))
	}
}

func TestParseTLVRejectsTruncatedBuffer(t *testing.T) {
	if _, err := parseTLV([]byte{0x30, 0x10, 0x01}); err == nil {
		t.Fatal("expected an error for a length exceeding the buffer")
	}
}

func TestGenerateNonceProducesEightBytes(t *testing.T) {
	nonce, err := generateNonce()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nonce) != 8 {
		t.Fatalf("expected 8-byte nonce, got %d", len(nonce))
	}
}
