package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type DeviceIdentity struct {
	UserID   string
	DeviceID string
	Email    string
}

type IdentityClaims struct {
	UserID   string `json:"uid"`
	DeviceID string `json:"did"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// CreateIdentityToken mints the HS256 token a mobile device presents to
// the sync endpoint.
func CreateIdentityToken(identity *DeviceIdentity, base64Secret string, ttl time.Duration) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}
	claims := IdentityClaims{
		UserID:   identity.UserID,
		DeviceID: identity.DeviceID,
		Email:    identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fieldsync",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretBytes)
}
