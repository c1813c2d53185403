package model

import "time"

// User 校园用户（认证相关字段不在本服务维护）
type User struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name       string    `gorm:"type:varchar(128)" json:"name"`
	College    string    `gorm:"type:varchar(128)" json:"college,omitempty"`
	Department string    `gorm:"type:varchar(128)" json:"department,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
