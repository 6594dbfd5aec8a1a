package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/holtzen/flatdocs-backend/internal/platform/ctxutil"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

// RouteClass partitions the URL space for the access gate.
type RouteClass int

const (
	RouteAPI RouteClass = iota
	RouteLogin
	RouteRegister
	RoutePublicShare
	RouteApp
	RouteUnknown
)

type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionRedirect
	DecisionDeny
)

// Decision is the gate's verdict for one request.
type Decision struct {
	Kind   DecisionKind
	Target string
	Status int
}

var uuidV4Pattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`,
)

// ClassifyRoute assigns a path to exactly one route class; first match wins.
func ClassifyRoute(path string) RouteClass {
	switch {
	case !strings.HasPrefix(path, "/"):
		return RouteUnknown
	case strings.HasPrefix(path, "/api"):
		return RouteAPI
	case strings.HasPrefix(path, "/login"):
		return RouteLogin
	case strings.HasPrefix(path, "/register"):
		return RouteRegister
	case isPublicSharePath(path):
		return RoutePublicShare
	default:
		return RouteApp
	}
}

// isPublicSharePath matches paths ending in /{uuidv4}/public, the read-only
// sharing URLs.
func isPublicSharePath(path string) bool {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-1] != "public" {
		return false
	}
	return uuidV4Pattern.MatchString(strings.ToLower(segments[len(segments)-2]))
}

// Authorize is the full route-level policy as a decision table over
// (route class, auth state). Every row is deliberate; there is no implicit
// fallthrough.
func Authorize(authenticated bool, path string) Decision {
	class := ClassifyRoute(path)

	if authenticated {
		switch class {
		case RouteAPI:
			return Decision{Kind: DecisionAllow}
		case RouteLogin, RouteRegister:
			return Decision{Kind: DecisionRedirect, Target: "/"}
		case RoutePublicShare, RouteApp:
			return Decision{Kind: DecisionAllow}
		case RouteUnknown:
			return Decision{Kind: DecisionRedirect, Target: "/"}
		}
	} else {
		switch class {
		case RouteAPI:
			return Decision{Kind: DecisionAllow}
		case RouteLogin, RouteRegister:
			return Decision{Kind: DecisionAllow}
		case RoutePublicShare:
			return Decision{Kind: DecisionAllow}
		case RouteApp:
			return Decision{Kind: DecisionRedirect, Target: "/login"}
		case RouteUnknown:
			return Decision{Kind: DecisionAllow}
		}
	}
	return Decision{Kind: DecisionDeny, Status: http.StatusUnauthorized}
}

type AccessGate struct {
	log *logger.Logger
}

func NewAccessGate(log *logger.Logger) *AccessGate {
	return &AccessGate{log: log.With("middleware", "AccessGate")}
}

// Handler applies the route-level policy. It runs after Identify so the
// caller's auth state is already resolved; row-level ownership stays with
// the services.
func (g *AccessGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		authenticated := rd != nil && rd.UserID != uuid.Nil

		decision := Authorize(authenticated, c.Request.URL.Path)
		switch decision.Kind {
		case DecisionAllow:
			c.Next()
		case DecisionRedirect:
			c.Redirect(http.StatusFound, decision.Target)
			c.Abort()
		case DecisionDeny:
			c.AbortWithStatusJSON(decision.Status, gin.H{
				"error": gin.H{"message": "access denied", "code": "unauthenticated"},
			})
		}
	}
}
