package fetcher

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	mainnetPrefix = []byte{0xcd, 0x14, 0x00}
	testnetPrefix = []byte{0x11, 0xc2, 0x00}

	// ErrInvalidPublicKey is returned for keys that fail base58check decoding.
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// ResolveWallet returns the tracked wallet identifier. An explicit wallet
// wins; otherwise the public key is derived from a hex-encoded secp256k1
// private key.
func ResolveWallet(trackedWallet, seedHex string, testnet bool) (string, error) {
	if trackedWallet != "" {
		return trackedWallet, nil
	}
	if seedHex == "" {
		return "", errors.New("no tracked wallet or seed configured")
	}
	return PublicKeyFromSeedHex(seedHex, testnet)
}

// PublicKeyFromSeedHex derives the base58check public key for a private key.
func PublicKeyFromSeedHex(seedHex string, testnet bool) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(seedHex), "0x"))
	if err != nil {
		return "", fmt.Errorf("parse seed hex: %w", err)
	}
	return EncodePublicKey(crypto.CompressPubkey(&key.PublicKey), testnet), nil
}

// EncodePublicKey base58check-encodes a compressed public key with the network prefix.
func EncodePublicKey(compressed []byte, testnet bool) string {
	payload := append(append([]byte{}, networkPrefix(testnet)...), compressed...)
	return base58.Encode(append(payload, checksum(payload)...))
}

// DecodePublicKey verifies the checksum and network prefix and returns the
// compressed public key.
func DecodePublicKey(encoded string, testnet bool) ([]byte, error) {
	raw := base58.Decode(encoded)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: not base58", ErrInvalidPublicKey)
	}
	prefix := networkPrefix(testnet)
	if len(raw) != len(prefix)+33+4 {
		return nil, fmt.Errorf("%w: unexpected length %d", ErrInvalidPublicKey, len(raw))
	}
	payload, sum := raw[:len(raw)-4], raw[len(raw)-4:]
	if !bytes.Equal(checksum(payload), sum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidPublicKey)
	}
	if !bytes.Equal(payload[:len(prefix)], prefix) {
		return nil, fmt.Errorf("%w: wrong network prefix", ErrInvalidPublicKey)
	}
	return payload[len(prefix):], nil
}

func networkPrefix(testnet bool) []byte {
	if testnet {
		return testnetPrefix
	}
	return mainnetPrefix
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}
