package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"moviepicker/internal/middleware"
	"moviepicker/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "session"
	sessionTTL        = 7 * 24 * time.Hour
	sessionIssuer     = "moviepicker"
	sessionAudience   = "moviepicker-web"

	localsUser    = "currentUser"
	localsSession = "session"
)

// session is a verified session cookie.
type session struct {
	UserID    uint
	ID        string
	ExpiresAt time.Time
}

// issueSession signs a session token for userID and sets it as the session cookie.
func (s *Server) issueSession(c *fiber.Ctx, userID uint) error {
	token, expires, err := s.generateToken(userID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// clearSession expires the session cookie.
func (s *Server) clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// generateToken creates a session JWT for userID.
func (s *Server) generateToken(userID uint) (string, time.Time, error) {
	if s.config.SessionSecret == "" {
		return "", time.Time{}, fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	expires := now.Add(sessionTTL)
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": sessionIssuer,
		"aud": sessionAudience,
		"exp": expires.Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// parseSession verifies a session token's signature and registered claims.
func (s *Server) parseSession(tokenString string) (*session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(s.config.SessionSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired session")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid session claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, errors.New("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, errors.New("invalid user ID in session")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("invalid expiration claim")
	}
	jti, _ := claims["jti"].(string)

	return &session{UserID: uint(userID), ID: jti, ExpiresAt: exp.Time}, nil
}

// CurrentUser resolves the session cookie into the current user. Invalid,
// revoked or orphaned sessions are cleared and the request proceeds anonymously.
func (s *Server) CurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(sessionCookieName)
		if raw == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		sess, err := s.parseSession(raw)
		if err != nil || s.cache.SessionRevoked(ctx, sess.ID) {
			s.clearSession(c)
			return c.Next()
		}

		user, err := s.authService.ResolveCurrentUser(ctx, sess.UserID)
		if err != nil {
			return s.respondError(c, err)
		}
		if user == nil {
			s.clearSession(c)
			return c.Next()
		}

		c.Locals(localsUser, user)
		c.Locals(localsSession, sess)
		c.SetUserContext(middleware.WithSessionUser(ctx, user.ID, string(user.Role)))
		return c.Next()
	}
}

// RequireRole lets the request through only when the current user holds at
// least role; everyone else is redirected to the login page.
func (s *Server) RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !models.HasRole(currentUser(c), role) {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// currentUser returns the user resolved for this request, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)
	return user
}

func currentSession(c *fiber.Ctx) *session {
	sess, _ := c.Locals(localsSession).(*session)
	return sess
}
