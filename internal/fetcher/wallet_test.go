package fetcher

import (
	"bytes"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const testSeedHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestEncodePublicKeyLayout(t *testing.T) {
	compressed := append([]byte{0x02}, bytes.Repeat([]byte{0x11}, 32)...)
	for _, testnet := range []bool{false, true} {
		encoded := EncodePublicKey(compressed, testnet)
		raw := base58.Decode(encoded)
		prefix := networkPrefix(testnet)
		if len(raw) != len(prefix)+len(compressed)+4 {
			t.Fatalf("unexpected payload length %d", len(raw))
		}
		if !bytes.Equal(raw[:len(prefix)], prefix) || !bytes.Equal(raw[len(prefix):len(prefix)+33], compressed) {
			t.Fatalf("prefix or key not where expected: %x", raw)
		}
		back, err := DecodePublicKey(encoded, testnet)
		if err != nil || !bytes.Equal(back, compressed) {
			t.Fatalf("round trip failed: %x %v", back, err)
		}
	}
	if got := EncodePublicKey(compressed, false); got[:3] != "BC1" {
		t.Fatalf("mainnet keys should start with BC1, got %s", got)
	}
}

func TestPublicKeyFromSeedHexRoundTrip(t *testing.T) {
	for _, testnet := range []bool{false, true} {
		key, err := PublicKeyFromSeedHex(testSeedHex, testnet)
		if err != nil {
			t.Fatalf("derive key: %v", err)
		}
		compressed, err := DecodePublicKey(key, testnet)
		if err != nil {
			t.Fatalf("derived key should decode: %v", err)
		}
		if len(compressed) != 33 || (compressed[0] != 0x02 && compressed[0] != 0x03) {
			t.Fatalf("expected compressed secp256k1 key, got %x", compressed)
		}
		if _, err := DecodePublicKey(key, !testnet); !errors.Is(err, ErrInvalidPublicKey) {
			t.Fatalf("network mismatch should be rejected, got %v", err)
		}
	}
}

func TestDecodePublicKeyChecksum(t *testing.T) {
	key, err := PublicKeyFromSeedHex(testSeedHex, false)
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	last := key[len(key)-1]
	swap := byte('2')
	if last == swap {
		swap = '3'
	}
	corrupted := key[:len(key)-1] + string(swap)
	if _, err := DecodePublicKey(corrupted, false); !errors.Is(err, ErrInvalidPublicKey) {
		t.Fatalf("corrupted key should fail checksum, got %v", err)
	}
	if _, err := DecodePublicKey("", false); !errors.Is(err, ErrInvalidPublicKey) {
		t.Fatalf("empty key should fail, got %v", err)
	}
	if _, err := DecodePublicKey("0OIl", false); !errors.Is(err, ErrInvalidPublicKey) {
		t.Fatalf("invalid alphabet should fail, got %v", err)
	}
}

func TestResolveWallet(t *testing.T) {
	got, err := ResolveWallet("explicit", testSeedHex, false)
	if err != nil || got != "explicit" {
		t.Fatalf("explicit wallet should win, got %q %v", got, err)
	}
	derived, err := ResolveWallet("", testSeedHex, false)
	if err != nil || derived == "" {
		t.Fatalf("seed should derive a wallet, got %q %v", derived, err)
	}
	if _, err := ResolveWallet("", "zz", false); err == nil {
		t.Fatal("bad seed hex should fail")
	}
	if _, err := ResolveWallet("", "", false); err == nil {
		t.Fatal("missing wallet and seed should fail")
	}
}
