package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/engagement/pkg/logger"
)

// Event 互动事件，通知落库后对外广播
type Event struct {
	Subject     string    `json:"-"`
	Type        string    `json:"type"`
	ActorID     string    `json:"actorId"`
	RecipientID string    `json:"recipientId"`
	PostID      string    `json:"postId,omitempty"`
	CommentID   string    `json:"commentId,omitempty"`
	At          time.Time `json:"at"`
}

// Sink 事件出口；*nats.Conn 满足该接口
type Sink interface {
	Publish(subject string, data []byte) error
}

// Relay 本地异步事件转发器：有界队列 + 若干 worker，队列满时丢弃并告警
type Relay struct {
	sink      Sink
	ch        chan Event
	metricsCh chan time.Duration
	stopCh    chan struct{}
}

func NewRelay(sink Sink, queueSize int) *Relay {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &Relay{
		sink:      sink,
		ch:        make(chan Event, queueSize),
		metricsCh: make(chan time.Duration, 1024),
		stopCh:    make(chan struct{}),
	}
}

// Start 启动 workers 个协程消费队列；返回的 stop 会在超时前尽量排空队列
func (r *Relay) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	done := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for {
				select {
				case e := <-r.ch:
					r.publish(e)
				case <-r.stopCh:
					// 退出前排空剩余事件
					for {
						select {
						case e := <-r.ch:
							r.publish(e)
						default:
							return
						}
					}
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(r.stopCh)
		for i := 0; i < workers; i++ {
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
}

func (r *Relay) publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		logger.Warn("relay: encode event", zap.String("subject", e.Subject), zap.Error(err))
		return
	}
	if err := r.sink.Publish(e.Subject, data); err != nil {
		logger.Warn("relay: publish event", zap.String("subject", e.Subject), zap.Error(err))
		return
	}
	if !e.At.IsZero() {
		select {
		case r.metricsCh <- time.Since(e.At):
		default:
		}
	}
}

// Enqueue 非阻塞入队
func (r *Relay) Enqueue(e Event) {
	select {
	case r.ch <- e:
	default:
		logger.Warn("relay queue full, drop event", zap.String("subject", e.Subject), zap.String("actor", e.ActorID))
	}
}

// Metrics 返回事件从产生到发布的耗时（采样，满则丢弃）
func (r *Relay) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）
func (r *Relay) QueueLen() int { return len(r.ch) }
