package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"eduhub/internal/model"
)

// DefaultTokenTTL is the validity window of issued credentials.
const DefaultTokenTTL = 30 * 24 * time.Hour

var (
	errInvalidToken = errors.New("invalid token")
	errUnknownRole  = errors.New("unknown role")
)

// Identity is the denormalized profile snapshot a credential is issued for.
type Identity struct {
	ID        uint
	Role      model.Role
	Email     string
	FirstName string
	LastName  string
	CourseID  uint
	Course    string
	Year      int
	Semester  int
}

// Claims represents JWT claims. Profile fields are snapshots taken at issue time.
type Claims struct {
	ID        uint       `json:"id"`
	Role      model.Role `json:"role"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	CourseID  uint       `json:"courseId,omitempty"`
	Course    string     `json:"course,omitempty"`
	Year      int        `json:"year,omitempty"`
	Semester  int        `json:"semester,omitempty"`
	jwt.RegisteredClaims
}

// TokenID returns the jti claim.
func (c *Claims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Remaining returns how long the credential stays valid.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// JWTService handles credential issuance and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and validity window.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the validity window used for new credentials.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new credential for id. Each credential gets a fresh jti so
// it can be revoked on its own.
func (s *JWTService) Issue(id Identity) (string, *Claims, error) {
	if !id.Role.Valid() {
		return "", nil, errUnknownRole
	}
	now := s.now()
	claims := &Claims{
		ID:        id.ID,
		Role:      id.Role,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		CourseID:  id.CourseID,
		Course:    id.Course,
		Year:      id.Year,
		Semester:  id.Semester,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify validates signature, signing method, expiry and role.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, errUnknownRole
	}
	return claims, nil
}
