package access

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"procurement/models"
)

const issuer = "neepco-procurement"

type claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens выпускает и проверяет bearer-токены (HS256)
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(user *models.User) (string, error) {
	now := t.now()
	c := claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Parse возвращает участника без VendorID: его подставляет Authenticate
func (t *Tokens) Parse(raw string) (Actor, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Actor{}, errors.Wrap(err, "parse token")
	}
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return Actor{}, errors.New("invalid token subject")
	}
	if !models.ValidRole(c.Role) {
		return Actor{}, errors.Errorf("invalid role %q", c.Role)
	}
	return Actor{UserID: id, Role: c.Role}, nil
}
