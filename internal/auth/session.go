// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// privateKey and publicKey sign and verify player tokens.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
)

// tokenTTL is how long a player token stays valid. Zero means no expiry.
var tokenTTL time.Duration

// Init generates a fresh ed25519 key pair at startup and reads the token
// TTL from PLAYER_TOKEN_TTL. Keys do not survive a restart; a client
// presenting a stale cookie simply gets a new identity.
func Init() {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		fmt.Printf("failed to generate ed25519 key pair: %v\n", err)
		os.Exit(1)
	}

	ttl := os.Getenv("PLAYER_TOKEN_TTL")
	if ttl == "" || ttl == "never" || ttl == "0" {
		tokenTTL = 0
		return
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		fmt.Printf("failed to parse PLAYER_TOKEN_TTL: %v\n", err)
		os.Exit(1)
	}
	tokenTTL = d
}

// CreateToken signs a JWT with "sub" = playerID.
func CreateToken(playerID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": playerID,
	}
	if tokenTTL > 0 {
		claims["exp"] = time.Now().Add(tokenTTL).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// VerifyToken validates a player token and returns its "sub" claim.
func VerifyToken(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid jwt claims")
	}
	playerID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("missing sub in jwt")
	}
	return playerID, nil
}
