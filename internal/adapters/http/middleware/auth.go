package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/error-normalizer/internal/domain"
	"github.com/jsamuelsen/error-normalizer/internal/platform/config"
)

const (
	// ContextKeyClaims is the gin context key for storing extracted claims.
	ContextKeyClaims = "claims"

	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"
)

// Claims represents the caller identity forwarded by the gateway, which has
// already validated the credentials.
type Claims struct {
	Subject string
	Roles   []string
}

// HasRole checks if the caller has the specified role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole checks if the caller has any of the specified roles.
func (c *Claims) HasAnyRole(roles ...string) bool {
	return slices.ContainsFunc(roles, c.HasRole)
}

// ExtractClaims reads the claims from the configured headers.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := defaultSubjectHeader
	rolesHeader := defaultRolesHeader

	if cfg != nil {
		if cfg.SubjectHeader != "" {
			subjectHeader = cfg.SubjectHeader
		}

		if cfg.RolesHeader != "" {
			rolesHeader = cfg.RolesHeader
		}
	}

	claims := &Claims{Subject: strings.TrimSpace(c.GetHeader(subjectHeader))}

	for role := range strings.SplitSeq(c.GetHeader(rolesHeader), ",") {
		if role = strings.TrimSpace(role); role != "" {
			claims.Roles = append(claims.Roles, role)
		}
	}

	return claims
}

// GetClaims retrieves claims stored by RequireAuth or RequireRole, or nil.
func GetClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ContextKeyClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}

	return nil
}

// RequireAuth rejects requests without a subject with a 401 domain error.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := claimsFor(c, cfg); claims.Subject == "" {
			dto.Fail(c, domain.NewErrorWithMessage(http.StatusUnauthorized, "authentication required"))
			return
		}

		c.Next()
	}
}

// RequireRole rejects requests whose caller has none of roles with a 403
// domain error. An anonymous caller gets 401.
func RequireRole(cfg *config.AuthConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFor(c, cfg)

		switch {
		case claims.Subject == "":
			dto.Fail(c, domain.NewErrorWithMessage(http.StatusUnauthorized, "authentication required"))
		case !claims.HasAnyRole(roles...):
			dto.Fail(c, domain.NewForbiddenError(
				c.Request.Method+" "+c.FullPath(),
				"requires role "+strings.Join(roles, " or "),
			))
		default:
			c.Next()
		}
	}
}

func claimsFor(c *gin.Context, cfg *config.AuthConfig) *Claims {
	if claims := GetClaims(c); claims != nil {
		return claims
	}

	claims := ExtractClaims(c, cfg)
	c.Set(ContextKeyClaims, claims)

	return claims
}
