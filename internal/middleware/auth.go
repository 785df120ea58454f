package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	"github.com/SscSPs/mdp_service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// MemberClaims are the claims of a member access token.
type MemberClaims struct {
	BusinessGroup     string `json:"bgroup"`
	ReferenceNumber   string `json:"refno"`
	SingleAuthSubject string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware handler that validates member JWT tokens.
// An empty issuer skips the issuer check.
func AuthMiddleware(jwtSecret, issuer string) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(parserOpts...)

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &MemberClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		if !token.Valid || claims.Subject == "" || claims.BusinessGroup == "" || claims.ReferenceNumber == "" {
			logger.Warn("Member claims missing from token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		principal := Principal{
			UserID: claims.Subject,
			Member: dto.MemberRef{
				BusinessGroup:   strings.ToUpper(claims.BusinessGroup),
				ReferenceNumber: claims.ReferenceNumber,
			},
		}
		if claims.SingleAuthSubject != "" {
			principal.SingleAuthClaim = &domain.SingleAuthClaim{SubjectID: claims.SingleAuthSubject}
		}

		enrichedLogger := logger.With(
			slog.String("user_id", principal.UserID),
			slog.String("business_group", principal.Member.BusinessGroup),
			slog.String("reference_number", principal.Member.ReferenceNumber),
		)
		ctx := WithPrincipal(c.Request.Context(), principal)
		ctx = WithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(principalKey), principal)
		c.Set(string(loggerKey), enrichedLogger)

		c.Next()
	}
}
