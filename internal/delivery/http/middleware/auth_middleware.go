package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"applicant-tracker/config"
	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/auth"
	"applicant-tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// AuthMiddleware verifies the bearer ID token and stores the caller's uid and
// email on the context. RS256 tokens are checked against the JWKS with the
// Firebase issuer and audience; HS256 is accepted only when a local secret is
// configured.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config) gin.HandlerFunc {
	var parseOpts []jwt.ParserOption
	if cfg.FirebaseProjectID != "" {
		parseOpts = append(parseOpts,
			jwt.WithIssuer(firebaseIssuerPrefix+cfg.FirebaseProjectID),
			jwt.WithAudience(cfg.FirebaseProjectID),
		)
	}
	parser := jwt.NewParser(parseOpts...)

	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusUnauthorized, "No token provided", nil)
			c.Abort()
			return
		}

		token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			switch token.Method.(type) {
			case *jwt.SigningMethodHMAC:
				if cfg.AuthJWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but AUTH_JWT_SECRET is not configured")
				}
				return []byte(cfg.AuthJWTSecret), nil
			case *jwt.SigningMethodRSA:
				if jwksProvider == nil {
					return nil, fmt.Errorf("RS256 token received but no key set is configured")
				}
				return jwksProvider.KeyFunc(token)
			}
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})
		if err != nil || !token.Valid {
			logger.Log.Info("Token validation failed",
				"request_id", c.GetString(string(domain.KeyRequestID)),
				"path", c.FullPath(),
				"error", err,
			)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		uid, _ := claims["user_id"].(string)
		if uid == "" {
			uid, _ = claims["sub"].(string)
		}
		email, _ := claims["email"].(string)

		c.Set(string(domain.KeyUserID), uid)
		c.Set(string(domain.KeyUserEmail), email)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
