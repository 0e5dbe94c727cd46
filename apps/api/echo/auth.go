package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/admitdesk/core"
)

var audience = "AdmitDesk Dashboard"

// NewJWTConfig returns the JWT auth middleware config.
func NewJWTConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
// They carry the dashboard session: the backend bearer token and the profile fields.
type Claims struct {
	jwt.StandardClaims
	BackendToken string `json:"btk"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
}

func (c Claims) Session() core.Session {
	return core.Session{Token: c.BackendToken, Name: c.Name, Email: c.Email, Role: c.Role}
}

// GetSessionClaims returns the claims of a new dashboard session.
func GetSessionClaims(sess core.Session, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   uuid.New().String(),
			Audience:  audience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		BackendToken: sess.Token,
		Name:         sess.Name,
		Email:        sess.Email,
		Role:         sess.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(claims *Claims, config middleware.JWTConfig) (string, error) {
	method := jwt.GetSigningMethod(config.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(config.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context, config middleware.JWTConfig) (Claims, error) {
	if token, ok := ctx.Get(config.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
