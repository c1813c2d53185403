package model

import "time"

// Comment 评论；ParentCommentID 为空表示顶层评论
type Comment struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PostID          string    `gorm:"type:varchar(36);index:idx_comment_post;not null" json:"postId"`
	AuthorID        string    `gorm:"type:varchar(36);not null" json:"authorId"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	ParentCommentID *string   `gorm:"type:varchar(36);index:idx_comment_parent" json:"parentCommentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`

	Post   *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) IsTopLevel() bool { return c.ParentCommentID == nil }

// CommentTarget 评论挂载位置：顶层或回复某条顶层评论
type CommentTarget struct {
	parentID string
}

func TopLevel() CommentTarget { return CommentTarget{} }

func ReplyTo(parentID string) CommentTarget { return CommentTarget{parentID: parentID} }

// Parent 返回被回复的评论 ID；顶层评论返回 false
func (t CommentTarget) Parent() (string, bool) {
	return t.parentID, t.parentID != ""
}

// CommentThread 顶层评论及其回复
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}
