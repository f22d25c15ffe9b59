package middleware

import (
	"net/http"

	"laundry-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenContextKey = "user"

// Auth verifies HS256 bearer tokens from the identity provider and puts
// userID, userName and userRole on the context for the handlers.
func Auth(secret string) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(models.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid or expired token"})
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(withIdentity(next))
	}
}

func withIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid or expired token"})
		}
		claims, ok := token.Claims.(*models.Claims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid token claims"})
		}

		userID := claims.UserID
		if userID == "" {
			userID = claims.Subject
		}
		if userID == "" {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Token has no subject"})
		}
		role := claims.Role
		if role == "" {
			role = models.RoleCustomer
		}

		c.Set("userID", userID)
		c.Set("userName", claims.Name)
		c.Set("userRole", role)
		return next(c)
	}
}

// RequireRole rejects requests whose token role is not one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("userRole").(string)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Access denied"})
		}
	}
}
