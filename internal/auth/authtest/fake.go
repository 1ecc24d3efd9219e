// Package authtest provides an in-memory Firebase Auth client for tests.
package authtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/bytedocker/site/internal/auth/domain"
)

// ErrUserNotFound is returned by GetUserByEmail for unknown emails.
var ErrUserNotFound = errors.New("no user record found for the given email")

func userNotFound(string) error { return ErrUserNotFound }

// Client accepts ID tokens and session cookies registered in Tokens and
// Cookies. Users are keyed by email.
type Client struct {
	mu      sync.Mutex
	Tokens  map[string]*auth.Token
	Cookies map[string]*auth.Token
	Users   map[string]string
	Claims  map[string]map[string]interface{}
	seq     int
}

func New() *Client {
	return &Client{
		Tokens:  map[string]*auth.Token{},
		Cookies: map[string]*auth.Token{},
		Users:   map[string]string{},
		Claims:  map[string]map[string]interface{}{},
	}
}

// AddToken registers an ID token for uid signed in at authTime.
func (c *Client) AddToken(token, uid string, authTime time.Time, claims map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if claims == nil {
		claims = map[string]interface{}{}
	}
	c.Tokens[token] = &auth.Token{UID: uid, AuthTime: authTime.Unix(), Claims: claims}
}

func (c *Client) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.Tokens[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("token signature invalid")
}

func (c *Client) VerifySessionCookieAndCheckRevoked(_ context.Context, cookie string) (*auth.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.Cookies[cookie]; ok {
		return t, nil
	}
	return nil, errors.New("session cookie revoked")
}

func (c *Client) SessionCookie(_ context.Context, idToken string, _ time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.Tokens[idToken]
	if !ok {
		return "", errors.New("unknown id token")
	}
	cookie := "session-" + idToken
	c.Cookies[cookie] = t
	return cookie, nil
}

func (c *Client) GetUserByEmail(_ context.Context, email string) (*auth.UserRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	uid, ok := c.Users[email]
	if !ok {
		return nil, userNotFound(email)
	}
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid, Email: email}}, nil
}

func (c *Client) CreateUser(context.Context, *auth.UserToCreate) (*auth.UserRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	uid := fmt.Sprintf("uid-%d", c.seq)
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid}}, nil
}

func (c *Client) SetCustomUserClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Claims[uid] = claims
	return nil
}

// Roles is an in-memory users/{uid} store.
type Roles struct {
	mu    sync.Mutex
	Users map[string]*domain.AdminUser
	Err   error
}

func NewRoles() *Roles {
	return &Roles{Users: map[string]*domain.AdminUser{}}
}

func (r *Roles) Get(_ context.Context, uid string) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.Users[uid]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *Roles) GrantRole(_ context.Context, uid, email, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[uid]
	if !ok {
		u = &domain.AdminUser{UID: uid, Email: email}
		r.Users[uid] = u
	}
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
	return nil
}
