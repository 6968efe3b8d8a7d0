package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"gymflow/config"
	"gymflow/models"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "dev-only-secret"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT carrying the actor's organization
// context. Used by the identity collaborator in tests and tooling; the
// engine itself only parses.
func GenerateToken(orgCtx models.OrganizationContext, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  orgCtx.UserID,
		"org":  orgCtx.OrganizationID,
		"role": orgCtx.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ParseOrgContext validates a token string and extracts the organization
// context from its claims.
func ParseOrgContext(tokenString string) (models.OrganizationContext, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil || !token.Valid {
		return models.OrganizationContext{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.OrganizationContext{}, errors.New("invalid token claims")
	}

	orgCtx := models.OrganizationContext{}
	if sub, ok := claims["sub"].(string); ok {
		orgCtx.UserID = sub
	}
	if org, ok := claims["org"].(string); ok {
		orgCtx.OrganizationID = org
	}
	if role, ok := claims["role"].(string); ok {
		orgCtx.Role = role
	}
	if orgCtx.UserID == "" || orgCtx.OrganizationID == "" {
		return models.OrganizationContext{}, errors.New("token missing identity claims")
	}
	return orgCtx, nil
}
