// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// MinHMACSecretBytes is the shortest shared secret accepted for HS256.
const MinHMACSecretBytes = 32

// KeyOptions describes where the signing material comes from.
type KeyOptions struct {
	// Algorithm is one of RS256, ES256 or HS256.
	Algorithm      string
	PrivateKeyPath string
	PublicKeyPath  string
	Secret         string
}

// KeySet is the immutable signing context of a [TokenService].
//
// It is loaded once at startup and shared read-only by every request.
type KeySet struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

// Algorithm returns the JWT "alg" value this key set signs with.
func (keys *KeySet) Algorithm() string {
	return keys.method.Alg()
}

// LoadKeySet reads key material from disk (or the shared secret) according to options.
func LoadKeySet(options KeyOptions) (*KeySet, error) {
	switch options.Algorithm {
	case jwt.SigningMethodHS256.Alg():
		return NewHMACKeySet([]byte(options.Secret))

	case jwt.SigningMethodRS256.Alg(), jwt.SigningMethodES256.Alg():
		privateKeyData, err := os.ReadFile(options.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to read private key from %s: %w", options.PrivateKeyPath, err)
		}

		publicKeyData, err := os.ReadFile(options.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to read public key from %s: %w", options.PublicKeyPath, err)
		}

		return NewKeySetFromPEM(options.Algorithm, privateKeyData, publicKeyData)

	default:
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", options.Algorithm)
	}
}

// NewKeySetFromPEM parses an asymmetric keypair for RS256 or ES256.
func NewKeySetFromPEM(algorithm string, privatePEM, publicPEM []byte) (*KeySet, error) {
	switch algorithm {
	case jwt.SigningMethodRS256.Alg():
		privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
		}
		publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
		}
		return &KeySet{method: jwt.SigningMethodRS256, signKey: privateKey, verifyKey: publicKey}, nil

	case jwt.SigningMethodES256.Alg():
		privateKey, err := jwt.ParseECPrivateKeyFromPEM(privatePEM)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
		}
		publicKey, err := jwt.ParseECPublicKeyFromPEM(publicPEM)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
		}
		return &KeySet{method: jwt.SigningMethodES256, signKey: privateKey, verifyKey: publicKey}, nil

	default:
		return nil, fmt.Errorf("sec: %q is not an asymmetric algorithm", algorithm)
	}
}

// NewHMACKeySet builds an HS256 key set from a shared secret.
func NewHMACKeySet(secret []byte) (*KeySet, error) {
	if len(secret) < MinHMACSecretBytes {
		return nil, errors.New("sec: HS256 secret must be at least 32 bytes")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &KeySet{method: jwt.SigningMethodHS256, signKey: key, verifyKey: key}, nil
}
