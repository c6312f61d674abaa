package service

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/allisson/keyosk/internal/errors"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// Supported signing algorithms.
const (
	AlgorithmEdDSA = "EdDSA"
	AlgorithmHS256 = "HS256"
)

// Signer turns claims into a compact token and back.
type Signer interface {
	// Sign returns the signed compact serialization of claims.
	Sign(claims *tokenDomain.Claims) (string, error)
	// Verify checks signature, issuer and expiry. It returns ErrTokenExpired for an
	// expired token and ErrInvalidSignature for every other failure.
	Verify(token string) (*tokenDomain.Claims, error)
	// Algorithm returns the JWT alg header value.
	Algorithm() string
	// PublicKeyPEM returns the PEM encoded verification key, or false for symmetric
	// algorithms.
	PublicKeyPEM() ([]byte, bool)
}

// jwtSigner implements Signer with golang-jwt.
type jwtSigner struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	publicPEM []byte
	issuer    string
}

// NewEdDSASigner returns a Signer producing EdDSA tokens with privateKey.
func NewEdDSASigner(privateKey ed25519.PrivateKey, issuer string) (Signer, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 private key size: %d", len(privateKey))
	}

	publicKey, ok := privateKey.Public().(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("failed to derive ed25519 public key")
	}
	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}

	return &jwtSigner{
		method:    jwt.SigningMethodEdDSA,
		signKey:   privateKey,
		verifyKey: publicKey,
		publicPEM: pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}),
		issuer:    issuer,
	}, nil
}

// NewHMACSigner returns a Signer producing HS256 tokens with secret.
func NewHMACSigner(secret []byte, issuer string) (Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("hs256 requires a non-empty secret")
	}

	return &jwtSigner{
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		issuer:    issuer,
	}, nil
}

// Sign implements Signer.
func (s *jwtSigner) Sign(claims *tokenDomain.Claims) (string, error) {
	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.signKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Verify implements Signer.
func (s *jwtSigner) Verify(token string) (*tokenDomain.Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)

	claims := &tokenDomain.Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.verifyKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, tokenDomain.ErrTokenExpired
		}
		return nil, tokenDomain.ErrInvalidSignature
	}
	if !parsed.Valid {
		return nil, tokenDomain.ErrInvalidSignature
	}

	return claims, nil
}

// Algorithm implements Signer.
func (s *jwtSigner) Algorithm() string {
	return s.method.Alg()
}

// PublicKeyPEM implements Signer.
func (s *jwtSigner) PublicKeyPEM() ([]byte, bool) {
	if s.publicPEM == nil {
		return nil, false
	}
	return s.publicPEM, true
}
