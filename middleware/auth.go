package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"academy/config"
	"academy/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"

	claimsKey = "claims"
)

// Claims are issued by the identity provider of the academy; this service only verifies them
type Claims struct {
	TeamID uint   `json:"team_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to a committee member
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ParseToken validates an HS256 token against secret and issuer
func ParseToken(secret, issuer, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// SignToken issues an HS256 token, used by tooling and tests
func SignToken(secret string, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// AuthMiddleware verifies the bearer token (or the token query parameter used by websockets)
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := ParseToken(config.JWTSecret, config.JWTIssuer, token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminMiddleware only lets committee members through. It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.IsAdmin() {
			response.Abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// TeamAccessMiddleware lets admins and members of the :id team through
func TeamAccessMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.Abort(c, http.StatusUnauthorized, "No token provided")
			return
		}
		if claims.IsAdmin() {
			c.Next()
			return
		}
		teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || claims.TeamID == 0 || uint(teamID) != claims.TeamID {
			response.Abort(c, http.StatusForbidden, "Access to this team is not allowed")
			return
		}
		c.Next()
	}
}

// GetClaims returns the verified claims of the request, nil when unauthenticated
func GetClaims(c *gin.Context) *Claims {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*Claims)
	return claims
}
