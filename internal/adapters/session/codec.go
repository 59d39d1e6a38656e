package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
	"github.com/golang-jwt/jwt/v4"
)

// Claims is the signed payload carried by the admin cookie.
type Claims struct {
	Strategy string                 `json:"strategy"`
	Session  domain.UpstreamSession `json:"admin:session"`
	Error    string                 `json:"admin:error,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies cookie values with HS256.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Encode(s domain.Session) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("session secret is empty")
	}
	now := time.Now()
	claims := &Claims{
		Strategy: s.Strategy,
		Session:  s.Upstream,
		Error:    s.Error,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  s.Principal.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if !s.Upstream.ExpiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(s.Upstream.ExpiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *Codec) Decode(value string) (domain.Session, error) {
	token, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Session{}, errors.New("invalid session cookie")
	}
	return domain.Session{
		Principal: claims.Session.User,
		Strategy:  claims.Strategy,
		Upstream:  claims.Session,
		Error:     claims.Error,
	}, nil
}
