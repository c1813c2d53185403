package events

import (
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/d60-Lab/engagement/pkg/logger"
)

const (
	SubjectLikeCreated    = "engagement.like.created"
	SubjectCommentCreated = "engagement.comment.created"
	SubjectFollowCreated  = "engagement.follow.created"
)

// Connect 连接 NATS，断线自动重连
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("engagement"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
}

// DiscardSink 未启用 NATS 时使用
type DiscardSink struct{}

func (DiscardSink) Publish(string, []byte) error { return nil }
