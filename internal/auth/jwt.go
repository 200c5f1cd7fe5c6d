package auth

import (
	"fmt"
	"storefront-service/internal/config"
	"storefront-service/internal/domain"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

type Claims struct {
	UserID uint64      `json:"user_id"`
	Role   domain.Role `json:"role"`
	Type   TokenType   `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() domain.Identity {
	return domain.Identity{UserID: c.UserID, IsAdmin: c.Role == domain.RoleAdmin}
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

func (i *Issuer) sign(u *domain.User, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) IssueAccess(u *domain.User) (string, error) {
	return i.sign(u, AccessToken, i.accessTTL)
}

func (i *Issuer) IssuePair(u *domain.User) (*TokenPair, error) {
	access, err := i.sign(u, AccessToken, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(u, RefreshToken, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse validates the signature, expiry and token type.
func (i *Issuer) Parse(tokenStr string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, jwt.ErrTokenInvalidClaims)
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: %s token expected", domain.ErrUnauthorized, want)
	}
	return claims, nil
}
