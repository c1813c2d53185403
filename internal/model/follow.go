package model

import (
	"time"
)

// Follow 关注关系（A 关注 B）
type Follow struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FollowerID  string `gorm:"type:varchar(36);index:idx_follow_follower;uniqueIndex:ux_follow_pair;not null" json:"followerId"`
	FollowingID string `gorm:"type:varchar(36);index:idx_follow_following;uniqueIndex:ux_follow_pair;not null" json:"followingId"`
	// 复合唯一键，避免重复关注
	// ux_follow_pair = (follower_id, following_id)
	CreatedAt time.Time `json:"createdAt"`

	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string { return "follows" }

// FollowStats 关注数与粉丝数，实时统计自 follows 表
type FollowStats struct {
	UserID      string `json:"userId"`
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
	IsFollowing bool   `json:"isFollowing"`
}
