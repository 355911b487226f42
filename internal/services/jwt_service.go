package services

import (
	"fmt"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"
	"staffhub/utils"

	"github.com/golang-jwt/jwt/v5"
)

type JWTService struct {
	JWTSecret string
	AccessTTL time.Duration

	now func() time.Time
}

func NewJWTService(jwtSecret string, accessTTL time.Duration) *JWTService {
	return &JWTService{
		JWTSecret: jwtSecret,
		AccessTTL: accessTTL,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin expiry checks.
func (jwt_s *JWTService) WithClock(now func() time.Time) *JWTService {
	jwt_s.now = now
	return jwt_s
}

func (jwt_s *JWTService) GenerateNewToken(roles []string, username, email, userID string) (string, error) {
	claim_id := "C-" + utils.GenerateRandomStringWithLength(6)
	issuedAt := jwt_s.now()
	claim := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(jwt_s.AccessTTL)),
			Issuer:    "staffhub",
			Subject:   userID,
		},
		Id:       claim_id,
		UserID:   userID,
		Username: username,
		Email:    email,
		Roles:    roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	tokenString, err := token.SignedString([]byte(jwt_s.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("error generate token string: %s", err)
	}
	return tokenString, nil
}

func (jwt_s *JWTService) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&models.Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwt_s.JWTSecret), nil
		},
		jwt.WithTimeFunc(jwt_s.now),
	)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token: %v", err)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized("invalid token claims")
	}

	return claims, nil
}
