package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/workbenchhq/workbench/server/chat"
)

const (
	// AccessTokenDuration is the lifetime of an issued access token.
	AccessTokenDuration = 7 * 24 * time.Hour

	keyID  = "v1"
	issuer = "workbench"
)

// ClaimsMessage is the JWT claims carried by an access token. TenantID is
// the isolation boundary for everything the token can touch.
type ClaimsMessage struct {
	TenantID string `json:"tenant"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a signed access token for the user within the
// tenant.
func GenerateAccessToken(tenantID, userID string, expirationTime time.Time, secret []byte) (string, error) {
	registeredClaims := jwt.RegisteredClaims{
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(time.Now()),
		Subject:  userID,
	}
	if !expirationTime.IsZero() {
		registeredClaims.ExpiresAt = jwt.NewNumericDate(expirationTime)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		TenantID:         tenantID,
		RegisteredClaims: registeredClaims,
	})
	token.Header["kid"] = keyID

	return token.SignedString(secret)
}

// Authenticate validates a bearer token and returns the tenant context it
// grants.
func Authenticate(authHeader string, secret []byte) (*chat.TenantContext, error) {
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	if claims.TenantID == "" || claims.Subject == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token is missing tenant or subject")
	}

	return &chat.TenantContext{
		TenantID: claims.TenantID,
		UserID:   claims.Subject,
	}, nil
}

// requireAuth extracts and validates the tenant context for a request.
func (s *APIV1Service) requireAuth(c echo.Context) (*chat.TenantContext, error) {
	return Authenticate(c.Request().Header.Get(echo.HeaderAuthorization), []byte(s.Secret))
}
