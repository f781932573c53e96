package middleware

import (
	"net/http"
	"strings"

	"monet/models"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// ActorMiddleware resolves the pre-authenticated caller identity from the
// gateway headers. Session issuance lives upstream; this layer only refuses
// requests without a usable identity.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-User-ID"))
		role := models.Role(strings.TrimSpace(c.GetHeader("X-User-Role")))
		if id == "" || !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid caller identity"})
			return
		}
		c.Set(actorContextKey, models.Actor{ID: id, Role: role})
		c.Next()
	}
}

// GetActor returns the actor set by ActorMiddleware.
func GetActor(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// RequireAdmin aborts unless the resolved actor is an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
