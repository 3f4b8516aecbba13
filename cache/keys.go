package cache

import (
	"fmt"
	"time"
)

// Key builders live in one place so the layout stays bit-exact across the
// code base and matches what is already stored in Redis.
const (
	// TrendingKey holds the materialized home-page top-5 list.
	TrendingKey = "home:trending:top5"

	CommentCountTTL = 60 * time.Second
	TrendingTTL     = 300 * time.Second
	OnlineTTL       = 300 * time.Second
)

// CommentCountKey holds the live (non-deleted) comment count of a thread.
func CommentCountKey(threadID uint) string {
	return fmt.Sprintf("thread:%d:comment_count", threadID)
}

// OnlineKey is a presence marker refreshed on every authenticated request.
func OnlineKey(userID uint) string {
	return fmt.Sprintf("online:%d", userID)
}

// BlacklistKey marks a revoked JWT by its jti until natural expiry.
func BlacklistKey(jti string) string {
	return "jwt:blacklist:" + jti
}
