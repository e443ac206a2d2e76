package models

import "time"

// Comment represents a viewer comment on a tracked video. Classification
// flags are write-once: is_processed=true is terminal and gates
// re-classification. Only like_count and reply_count refresh on re-sight.
type Comment struct {
	YTCommentID       string    `db:"yt_comment_id" json:"yt_comment_id"`
	YTVideoID         string    `db:"yt_video_id" json:"yt_video_id"`
	Text              string    `db:"text" json:"text"`
	Author            string    `db:"author" json:"author"`
	PublishedAt       time.Time `db:"published_at" json:"published_at"`
	LikeCount         int64     `db:"like_count" json:"like_count"`
	ReplyCount        int64     `db:"reply_count" json:"reply_count"`
	IsEditingMistake  bool      `db:"is_editing_mistake" json:"is_editing_mistake"`
	IsSponsorMention  bool      `db:"is_sponsor_mention" json:"is_sponsor_mention"`
	IsQuestion        bool      `db:"is_question" json:"is_question"`
	IsPositiveComment bool      `db:"is_positive_comment" json:"is_positive_comment"`
	IsProcessed       bool      `db:"is_processed" json:"is_processed"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// CommentFlags holds the four classification booleans produced by the
// classifier for one comment.
type CommentFlags struct {
	IsEditingMistake  bool `json:"is_editing_mistake"`
	IsSponsorMention  bool `json:"is_sponsor_mention"`
	IsQuestion        bool `json:"is_question"`
	IsPositiveComment bool `json:"is_positive_comment"`
}

// NeedsAttention reports whether the comment should be surfaced to the
// creator as a flagged-comment notification.
func (f CommentFlags) NeedsAttention() bool {
	return f.IsEditingMistake || f.IsSponsorMention
}

// URL returns the deep link to the comment on its video page.
func (c *Comment) URL() string {
	return "https://www.youtube.com/watch?v=" + c.YTVideoID + "&lc=" + c.YTCommentID
}
