package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

const tokenIssuer = "backoffice"

type JWTTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type backofficeClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

func NewJWTTokens(secret string, ttl time.Duration) *JWTTokens {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &JWTTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWTTokens) Issue(user domain.User) (string, time.Time, error) {
	if user.ID < 1 {
		return "", time.Time{}, errors.New("cannot issue token without a user id")
	}
	issuedAt := j.now().UTC()
	expiresAt := issuedAt.Add(j.ttl)
	claims := backofficeClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    tokenIssuer,
		},
		Role: user.Role,
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (j *JWTTokens) Verify(_ context.Context, tokenStr string) (Identity, error) {
	claims := &backofficeClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	},
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithIssuer(tokenIssuer),
		jwtlib.WithTimeFunc(j.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, domain.ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, domain.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID < 1 {
		return Identity{}, domain.ErrInvalidToken
	}
	return Identity{UserID: userID, Subject: sub, Role: claims.Role}, nil
}
