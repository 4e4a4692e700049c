package kafka

import "time"

const (
	EventPostCreated    = "post.created"
	EventPostUpdated    = "post.updated"
	EventPostDeleted    = "post.deleted"
	EventPostLiked      = "post.liked"
	EventPostUnliked    = "post.unliked"
	EventCommentCreated = "comment.created"
	EventUserRegistered = "user.registered"
)

// Event 领域事件，按 PostID 分区以保证同一帖子的事件有序
type Event struct {
	Type       string    `json:"type"`
	PostID     uint64    `json:"postId,omitempty"`
	UserID     uint64    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent 以当前时间构造事件
func NewEvent(eventType string, userID, postID uint64) *Event {
	return &Event{
		Type:       eventType,
		PostID:     postID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}
