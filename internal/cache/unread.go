package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// versionTTL 远大于一次回源的耗时即可
const versionTTL = 24 * time.Hour

var errStaleFill = errors.New("cache: version moved")

// UnreadCounter 缓存每个用户的未读通知数（仅作展示角标，允许短暂过期）
//
// 失效时递增版本号；回源回填前比对版本，期间有新通知则放弃回填
type UnreadCounter struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUnreadCounter(rdb *redis.Client, ttl time.Duration) *UnreadCounter {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &UnreadCounter{rdb: rdb, ttl: ttl}
}

func unreadKey(userID string) string { return fmt.Sprintf("notifications:unread:%s", userID) }

func versionKey(userID string) string { return fmt.Sprintf("notifications:unread:%s:ver", userID) }

// Get 命中返回 (n, true)；未命中返回 (0, false)
func (c *UnreadCounter) Get(ctx context.Context, userID string) (int64, bool, error) {
	n, err := c.rdb.Get(ctx, unreadKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Version 回源前读取，交给 Fill 比对
func (c *UnreadCounter) Version(ctx context.Context, userID string) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Fill 版本未变才写入；返回是否写入
func (c *UnreadCounter) Fill(ctx context.Context, userID string, n, version int64) (bool, error) {
	vk := versionKey(userID)
	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, unreadKey(userID), n, c.ttl)
			return nil
		})
		return err
	}, vk)
	if errors.Is(err, errStaleFill) || errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate 删除缓存并递增版本，下次读取回源
func (c *UnreadCounter) Invalidate(ctx context.Context, userID string) error {
	vk := versionKey(userID)
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, vk)
		p.Expire(ctx, vk, versionTTL)
		p.Del(ctx, unreadKey(userID))
		return nil
	})
	return err
}
