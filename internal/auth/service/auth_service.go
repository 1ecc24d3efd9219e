package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/auth/domain"
	"github.com/bytedocker/site/internal/logging"
)

const (
	SessionTTL = 5 * 24 * time.Hour
	// Session cookies are only minted for a sign-in this fresh.
	maxLoginAge = 5 * time.Minute
)

// Client is the part of *auth.Client the service uses.
type Client interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*auth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

type RoleStore interface {
	Get(ctx context.Context, uid string) (*domain.AdminUser, error)
	GrantRole(ctx context.Context, uid, email, role string) error
}

type AuthService struct {
	client       Client
	roles        RoleStore
	now          func() time.Time
	userNotFound func(error) bool
}

func NewAuthService(client Client, roles RoleStore) *AuthService {
	return &AuthService{
		client:       client,
		roles:        roles,
		now:          time.Now,
		userNotFound: auth.IsUserNotFound,
	}
}

// Verify accepts either a bearer ID token or a session cookie. The bearer
// token wins when both are present.
func (s *AuthService) Verify(ctx context.Context, bearer, cookie string) (*auth.Token, error) {
	switch {
	case bearer != "":
		tok, err := s.client.VerifyIDToken(ctx, bearer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
		}
		return tok, nil
	case cookie != "":
		tok, err := s.client.VerifySessionCookieAndCheckRevoked(ctx, cookie)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
		}
		return tok, nil
	default:
		return nil, domain.ErrMissingToken
	}
}

// IsAdmin reports whether the token carries the admin claim or the user's
// Firestore record lists the admin role.
func (s *AuthService) IsAdmin(ctx context.Context, tok *auth.Token) (bool, error) {
	if v, ok := tok.Claims[domain.ClaimAdmin].(bool); ok && v {
		return true, nil
	}
	u, err := s.roles.Get(ctx, tok.UID)
	if err != nil {
		return false, err
	}
	return u != nil && u.HasRole(domain.RoleAdmin), nil
}

// Login exchanges a fresh admin ID token for a session cookie.
func (s *AuthService) Login(ctx context.Context, idToken string) (string, error) {
	tok, err := s.Verify(ctx, idToken, "")
	if err != nil {
		return "", err
	}
	if s.now().Sub(time.Unix(tok.AuthTime, 0)) > maxLoginAge {
		return "", domain.ErrStaleLogin
	}
	ok, err := s.IsAdmin(ctx, tok)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrNotAdmin
	}

	cookie, err := s.client.SessionCookie(ctx, idToken, SessionTTL)
	if err != nil {
		return "", fmt.Errorf("mint session cookie: %w", err)
	}
	logging.Op(ctx, "auth.login").Info("admin session created", zap.String("uid", tok.UID))
	return cookie, nil
}

// SetupAdmin makes email an administrator, creating the Firebase user when
// it does not exist yet. Running it twice is harmless.
func (s *AuthService) SetupAdmin(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("email is required")
	}

	var uid string
	rec, err := s.client.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		uid = rec.UID
	case s.userNotFound(err):
		if len(password) < 6 {
			return "", errors.New("password must be at least 6 characters")
		}
		created, err := s.client.CreateUser(ctx, (&auth.UserToCreate{}).Email(email).Password(password))
		if err != nil {
			return "", fmt.Errorf("create user: %w", err)
		}
		uid = created.UID
	default:
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := s.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{domain.ClaimAdmin: true}); err != nil {
		return "", fmt.Errorf("set admin claim: %w", err)
	}
	if err := s.roles.GrantRole(ctx, uid, email, domain.RoleAdmin); err != nil {
		return "", err
	}

	logging.Op(ctx, "auth.setup_admin").Info("admin ready", zap.String("uid", uid), zap.String("email", email))
	return uid, nil
}
