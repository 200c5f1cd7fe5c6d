package services

import (
	"context"
	"net/mail"
	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
	"strings"

	"go.uber.org/zap"
)

const minPasswordLen = 8

type UserService struct {
	store  repository.Store
	issuer *auth.Issuer
}

func NewUserService(s repository.Store, issuer *auth.Issuer) *UserService {
	return &UserService{store: s, issuer: issuer}
}

func validateCredentials(username, email, password string) error {
	if username == "" {
		return domain.Invalid("username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Invalid("email is invalid")
	}
	if len(password) < minPasswordLen {
		return domain.Invalid("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(username, email, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Username: username, Email: email, PasswordHash: hash, Role: domain.RoleUser}
	err = s.store.Transaction(ctx, func(r repository.Repositories) error {
		if existing, err := r.Users.FindByEmail(ctx, email); err != nil {
			return err
		} else if existing != nil {
			return domain.Invalid("email is already registered")
		}
		if existing, err := r.Users.FindByUsername(ctx, username); err != nil {
			return err
		} else if existing != nil {
			return domain.Invalid("username is taken")
		}
		return r.Users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("user registered", zap.Uint64("userId", u.ID))
	return u, nil
}

// Login accepts either the email or the username as login.
func (s *UserService) Login(ctx context.Context, login, password string) (*auth.TokenPair, *domain.User, error) {
	login = strings.TrimSpace(login)
	users := s.store.Repos().Users

	var (
		u   *domain.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = users.FindByEmail(ctx, strings.ToLower(login))
	} else {
		u, err = users.FindByUsername(ctx, login)
	}
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, nil, domain.ErrUnauthorized
	}

	pair, err := s.issuer.IssuePair(u)
	if err != nil {
		return nil, nil, err
	}
	return pair, u, nil
}

// Refresh issues a new access token, picking up role changes made since login.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.Parse(refreshToken, auth.RefreshToken)
	if err != nil {
		return "", err
	}

	u, err := s.store.Repos().Users.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", domain.ErrUnauthorized
	}
	return s.issuer.IssueAccess(u)
}

// EnsureAdmin creates an admin account, or resets the password of and promotes
// the existing account with the same email. It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (*domain.User, bool, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(username, email, password); err != nil {
		return nil, false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	var (
		out     *domain.User
		created bool
	)
	err = s.store.Transaction(ctx, func(r repository.Repositories) error {
		u, err := r.Users.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u != nil {
			u.PasswordHash = hash
			u.Role = domain.RoleAdmin
			out = u
			return r.Users.Save(ctx, u)
		}

		out = &domain.User{Username: username, Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
		created = true
		return r.Users.Create(ctx, out)
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}
