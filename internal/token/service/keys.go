package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"gocloud.dev/secrets"
	"golang.org/x/crypto/hkdf"

	// Register the KMS provider drivers usable for SIGNING_KEY_KMS_URI
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeyConfig describes where the signing key comes from.
type KeyConfig struct {
	Algorithm string
	Issuer    string
	// Key is the key material, or its base64 ciphertext when KMSURI is set.
	Key string
	// KeyFile is read when Key is empty.
	KeyFile string
	// KMSURI is a gocloud.dev secrets keeper URI used to decrypt the key material.
	KMSURI string
}

// LoadSigner builds the Signer described by cfg. An EdDSA signer without key material
// falls back to an ephemeral key, which invalidates every token on restart.
func LoadSigner(ctx context.Context, cfg KeyConfig, logger *slog.Logger) (Signer, error) {
	material, err := readKeyMaterial(ctx, cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Algorithm {
	case AlgorithmEdDSA, "":
		if len(material) == 0 {
			logger.Warn("no signing key configured, using an ephemeral ed25519 key")
			_, privateKey, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
			}
			return NewEdDSASigner(privateKey, cfg.Issuer)
		}
		privateKey, err := ParseEd25519PrivateKey(material)
		if err != nil {
			return nil, err
		}
		return NewEdDSASigner(privateKey, cfg.Issuer)
	case AlgorithmHS256:
		return NewHMACSigner(material, cfg.Issuer)
	}

	return nil, fmt.Errorf("unsupported signing algorithm: %s", cfg.Algorithm)
}

// passphrasePrefix marks key material to be stretched into an ed25519 seed.
const passphrasePrefix = "passphrase:"

// ParseEd25519PrivateKey accepts a PEM encoded PKCS#8 key, the base64 encoding of a
// raw 32 byte seed or 64 byte private key, or "passphrase:<text>".
func ParseEd25519PrivateKey(material []byte) (ed25519.PrivateKey, error) {
	trimmed := strings.TrimSpace(string(material))
	if passphrase, ok := strings.CutPrefix(trimmed, passphrasePrefix); ok {
		return DeriveEd25519PrivateKey([]byte(passphrase))
	}
	if strings.HasPrefix(trimmed, "-----BEGIN") {
		key, err := jwt.ParseEdPrivateKeyFromPEM([]byte(trimmed))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ed25519 pem key: %w", err)
		}
		privateKey, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("pem key is not an ed25519 private key")
		}
		return privateKey, nil
	}

	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ed25519 key: %w", err)
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	}
	return nil, fmt.Errorf("invalid ed25519 key size: %d", len(raw))
}

// DeriveEd25519PrivateKey derives an ed25519 key from passphrase with HKDF-SHA256.
// The same passphrase always yields the same key.
func DeriveEd25519PrivateKey(passphrase []byte) (ed25519.PrivateKey, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("empty signing key passphrase")
	}

	reader := hkdf.New(sha256.New, passphrase, nil, []byte("keyosk-signing-key-v1"))
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(reader, seed); err != nil {
		return nil, fmt.Errorf("failed to derive ed25519 seed: %w", err)
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

func readKeyMaterial(ctx context.Context, cfg KeyConfig) ([]byte, error) {
	material := []byte(cfg.Key)
	if len(material) == 0 && cfg.KeyFile != "" {
		data, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read signing key file: %w", err)
		}
		material = data
	}

	if cfg.KMSURI == "" || len(material) == 0 {
		return material, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(material)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing key ciphertext: %w", err)
	}

	keeper, err := secrets.OpenKeeper(ctx, cfg.KMSURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt signing key: %w", err)
	}
	return plaintext, nil
}
