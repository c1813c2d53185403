package model

import "time"

// Like 点赞（每个用户对每条内容至多一条）
type Like struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:ux_like_user_post;not null" json:"userId"`
	PostID    string    `gorm:"type:varchar(36);uniqueIndex:ux_like_user_post;index:idx_like_post;not null" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Like) TableName() string { return "likes" }
