package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/pattarawin/webboard/cache"
)

// OnlineRecorder refreshes the presence marker of the authenticated user
// after the handler runs. The 300s TTL makes the flag expire on its own; no
// explicit logout bookkeeping is needed.
func OnlineRecorder(c *cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		value, exists := ctx.Get(ContextUserIDKey)
		if !exists {
			return
		}
		userID, ok := value.(uint)
		if !ok || userID == 0 {
			return
		}
		c.SetFlag(cache.OnlineKey(userID), cache.OnlineTTL)
	}
}
