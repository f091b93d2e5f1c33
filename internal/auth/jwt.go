// Package auth issues and validates the bearer tokens that identify a viewer.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
)

// Role is the portal a viewer signed in to.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDoctor   Role = "doctor"
	RoleBusiness Role = "business"
)

// Claims represents the JWT claims for access tokens.
// SubjectID is empty for admins, who act across subjects.
type Claims struct {
	UserID    string `json:"user_id"`
	Role      Role   `json:"role"`
	SubjectID string `json:"subject_id,omitempty"`
	jwt.RegisteredClaims
}

// SubjectKind maps a subject role to its catalog. Admins have none.
func (c *Claims) SubjectKind() (model.SubjectKind, bool) {
	switch c.Role {
	case RoleDoctor:
		return model.SubjectDoctor, true
	case RoleBusiness:
		return model.SubjectBusiness, true
	}
	return "", false
}

// IsAdmin reports whether the viewer may act on every subject.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccess reports whether the viewer may read or change subjectID's documents.
func (c *Claims) CanAccess(subjectID string) bool {
	return c.IsAdmin() || (c.SubjectID != "" && c.SubjectID == subjectID)
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

func NewJWTService(signingKey, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		now:        time.Now,
	}
}

// Issue signs a token for the viewer. It is used by tooling and tests; sessions are owned elsewhere.
func (s *JWTService) Issue(userID string, role Role, subjectID string, expiresIn time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		Role:      role,
		SubjectID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID,
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate parses a token and returns its claims. Every failure matches errs.ErrUnauthorized.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", errs.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid token", errs.ErrUnauthorized)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", errs.ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token claims", errs.ErrUnauthorized)
	}
	switch claims.Role {
	case RoleAdmin:
	case RoleDoctor, RoleBusiness:
		if claims.SubjectID == "" {
			return nil, fmt.Errorf("%w: subject role without subject id", errs.ErrUnauthorized)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", errs.ErrUnauthorized, claims.Role)
	}
	return claims, nil
}
