package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "PUBLIC"
	VisibilityFollowers Visibility = "FOLLOWERS"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityFollowers
}

// Tags 有序标签，以 JSON 文本存储
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	return string(b), err
}

func (t *Tags) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("tags: unsupported type %T", src)
	}
	return json.Unmarshal(raw, (*[]string)(t))
}

// Post 内容主体
// LikesCount/CommentsCount 为冗余计数，只允许通过计数器原子增减
type Post struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AuthorID      string     `gorm:"type:varchar(36);index:idx_post_author;not null" json:"authorId"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Tags          Tags       `gorm:"type:text" json:"tags"`
	Visibility    Visibility `gorm:"type:varchar(16);not null;default:'PUBLIC'" json:"visibility"`
	LikesCount    int64      `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int64      `gorm:"not null;default:0" json:"commentsCount"`
	CreatedAt     time.Time  `gorm:"index:idx_post_created" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string { return "posts" }
