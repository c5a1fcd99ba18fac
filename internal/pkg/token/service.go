package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carry the authenticated subject and role. Identity is issued by the
// external auth service; this process only verifies.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`

	jwtlib.RegisteredClaims
}

type Verifier interface {
	Verify(tokenString string) (Claims, error)
}

type HMACVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), now: time.Now}
}

func (s *HMACVerifier) Verify(tokenString string) (Claims, error) {
	var claims Claims
	tok, err := jwtlib.ParseWithClaims(tokenString, &claims, func(t *jwtlib.Token) (any, error) {
		// HS256 only; anything else is rejected outright.
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	}, jwtlib.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if claims.UserID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// Sign issues a token with the given subject and role. Production tokens come
// from the auth service; this is for local tooling and tests.
func Sign(secret string, userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString([]byte(secret))
}
