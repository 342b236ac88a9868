// Package session maps requests to a logged-in identity via a signed cookie
// and carries the one-shot flash messages shown on the next page.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"taskr/internal/entity"
)

const CookieName = "taskr_session"

const LoginRequiredMessage = "You need to login first."

// Claims is the request-scoped identity snapshot carried by the session
// cookie.
type Claims struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Admin() bool {
	return c.Role == entity.RoleAdmin
}

// TokenStore optionally tracks issued session tokens server side so logout
// can revoke a token before it expires.
type TokenStore interface {
	Save(ctx context.Context, token string, ttl time.Duration) error
	Revoke(ctx context.Context, token string) error
	Valid(ctx context.Context, token string) (bool, error)
}

type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) key(token string) string {
	return "session:" + token
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(token), "1", ttl).Err()
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, s.key(token)).Err()
}

func (s *RedisTokenStore) Valid(ctx context.Context, token string) (bool, error) {
	_, err := s.rdb.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	tokens TokenStore
}

// NewManager creates a new session manager. tokens may be nil, in which case
// sessions live entirely in the signed cookie.
func NewManager(secret []byte, ttl time.Duration, tokens TokenStore) *Manager {
	return &Manager{secret: secret, ttl: ttl, tokens: tokens}
}

// Issue establishes a logged-in session for user by signing a cookie token.
func (m *Manager) Issue(c echo.Context, user *entity.User) error {
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	if m.tokens != nil {
		if err := m.tokens.Save(c.Request().Context(), signed, m.ttl); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(m.ttl),
	})
	return nil
}

// Clear drops the session. Clearing an absent session is not an error.
func (m *Manager) Clear(c echo.Context) error {
	if m.tokens != nil {
		if cookie, err := c.Cookie(CookieName); err == nil {
			if err := m.tokens.Revoke(c.Request().Context(), cookie.Value); err != nil {
				return err
			}
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

// Required guards a route: requests without a live session get the login
// notice and a redirect to the login page instead of the handler body.
func (m *Manager) Required() echo.MiddlewareFunc {
	guard := echojwt.WithConfig(echojwt.Config{
		SigningKey:  m.secret,
		TokenLookup: "cookie:" + CookieName,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return m.toLogin(c)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return guard(func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return m.toLogin(c)
			}
			if m.tokens != nil {
				cookie, err := c.Cookie(CookieName)
				if err != nil {
					return m.toLogin(c)
				}
				ok, err := m.tokens.Valid(c.Request().Context(), cookie.Value)
				if err != nil {
					return err
				}
				if !ok {
					return m.toLogin(c)
				}
			}
			return next(c)
		})
	}
}

// toLogin flashes the login notice and redirects to the login page.
func (m *Manager) toLogin(c echo.Context) error {
	m.Flash(c, LoginRequiredMessage)
	return c.Redirect(http.StatusFound, "/")
}

// CurrentUser returns the verified claims for this request, or nil when the
// request carries no valid session.
func CurrentUser(c echo.Context) *Claims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
