/* auth.go
 * Contains the bearer-token middleware. Tokens are issued and refreshed by the
 * upstream auth backend; this service only verifies the signature and unpacks the
 * identity payload into a shared.User
 */

package web

import (
	"net/http"
	"strings"

	"match-service/api/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userContextKey = "auth_user"

// requireAuth verifies the Authorization bearer token and stores the caller's
// identity in the request context
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, statusResponse{
				Status: "ERROR", Error: "Unauthorized", Message: "Please authenticate",
			})
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.jwtSecret), nil
		})
		if err != nil {
			return c.JSON(http.StatusUnauthorized, statusResponse{
				Status: "ERROR", Error: "Unauthorized", Message: "Please authenticate",
			})
		}

		c.Set(userContextKey, userFromClaims(claims))
		return next(c)
	}
}

// userFromClaims unpacks the identity payload. The backend puts the user id in _id
// and the role set in roles
func userFromClaims(claims jwt.MapClaims) shared.User {
	user := shared.User{}
	if id, ok := claims["_id"].(string); ok {
		user.UserID = id
	}
	if name, ok := claims["username"].(string); ok {
		user.Username = name
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if role, ok := r.(string); ok {
				user.Roles = append(user.Roles, role)
			}
		}
	}
	return user
}

// currentUser returns the identity the middleware stored on the context
func currentUser(c echo.Context) shared.User {
	if u, ok := c.Get(userContextKey).(shared.User); ok {
		return u
	}
	return shared.User{}
}
