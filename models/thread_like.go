package models

import "time"

// ThreadLike marks that a user likes a thread. Row existence is the liked
// state: there is no counter column, counts are always derived. The unique
// index is the storage-level guard against double likes.
type ThreadLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"uniqueIndex:idx_thread_likes_pair;not null" json:"thread_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_thread_likes_pair;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
