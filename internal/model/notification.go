package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
	NotificationFollow  NotificationType = "FOLLOW"
	NotificationMessage NotificationType = "MESSAGE"
)

// Payload 通知负载，按类型区分的 sum type
type Payload interface {
	Type() NotificationType
	Actor() string
}

type LikePayload struct {
	PostID     string `json:"postId"`
	FromUserID string `json:"from"`
}

type CommentPayload struct {
	PostID     string `json:"postId"`
	CommentID  string `json:"commentId"`
	FromUserID string `json:"from"`
}

type FollowPayload struct {
	FromUserID string `json:"from"`
}

// MessagePayload 由私信模块产生，本服务只负责解码展示
type MessagePayload struct {
	FromUserID string `json:"from"`
	MessageID  string `json:"messageId,omitempty"`
}

func (LikePayload) Type() NotificationType    { return NotificationLike }
func (CommentPayload) Type() NotificationType { return NotificationComment }
func (FollowPayload) Type() NotificationType  { return NotificationFollow }
func (MessagePayload) Type() NotificationType { return NotificationMessage }

func (p LikePayload) Actor() string    { return p.FromUserID }
func (p CommentPayload) Actor() string { return p.FromUserID }
func (p FollowPayload) Actor() string  { return p.FromUserID }
func (p MessagePayload) Actor() string { return p.FromUserID }

// Notification 通知记录；Payload 以 JSON 文本落库，类型列决定解码方式
type Notification struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)"`
	UserID    string           `gorm:"type:varchar(36);index:idx_notification_user_created,priority:1;not null"`
	Type      NotificationType `gorm:"type:varchar(16);not null"`
	Payload   string           `gorm:"type:text;not null"`
	Read      bool             `gorm:"not null;default:false"`
	CreatedAt time.Time        `gorm:"index:idx_notification_user_created,priority:2"`
}

func (Notification) TableName() string { return "notifications" }

// NewNotification 按负载类型构造通知
func NewNotification(id, recipientID string, p Payload, at time.Time) (*Notification, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Type(), err)
	}
	return &Notification{
		ID:        id,
		UserID:    recipientID,
		Type:      p.Type(),
		Payload:   string(raw),
		CreatedAt: at,
	}, nil
}

// DecodePayload 根据 Type 还原具体负载
func (n *Notification) DecodePayload() (Payload, error) {
	var (
		p   Payload
		err error
	)
	switch n.Type {
	case NotificationLike:
		var v LikePayload
		err = json.Unmarshal([]byte(n.Payload), &v)
		p = v
	case NotificationComment:
		var v CommentPayload
		err = json.Unmarshal([]byte(n.Payload), &v)
		p = v
	case NotificationFollow:
		var v FollowPayload
		err = json.Unmarshal([]byte(n.Payload), &v)
		p = v
	case NotificationMessage:
		var v MessagePayload
		err = json.Unmarshal([]byte(n.Payload), &v)
		p = v
	default:
		return nil, fmt.Errorf("unknown notification type %q", n.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", n.Type, err)
	}
	return p, nil
}

// NotificationView 对外展示结构
type NotificationView struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Payload   Payload          `json:"payload"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (n *Notification) View() (NotificationView, error) {
	p, err := n.DecodePayload()
	if err != nil {
		return NotificationView{}, err
	}
	return NotificationView{ID: n.ID, Type: n.Type, Payload: p, Read: n.Read, CreatedAt: n.CreatedAt}, nil
}
