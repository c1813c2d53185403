package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/engagement/config"
	"github.com/d60-Lab/engagement/internal/events"
	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/internal/service"
	"github.com/d60-Lab/engagement/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

type phase struct {
	name string
	recs []time.Duration
	errs int
	dur  time.Duration
}

func (p phase) print() {
	n := len(p.recs)
	if n == 0 {
		return
	}
	fmt.Printf("%-10s total=%v per_op=%v p50=%v p95=%v p99=%v errors=%d\n",
		p.name, p.dur, p.dur/time.Duration(n), pct(p.recs, 0.50), pct(p.recs, 0.95), pct(p.recs, 0.99), p.errs)
}

// run 用 conc 个 worker 并发执行 n 次 op，记录每次耗时
func run(name string, n, conc int, op func(i int) error) phase {
	if conc > n {
		conc = n
	}
	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
		ph = phase{name: name, recs: make([]time.Duration, 0, n)}
	)
	t0 := time.Now()
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				err := op(i)
				d := time.Since(st)
				mu.Lock()
				ph.recs = append(ph.recs, d)
				if err != nil {
					ph.errs++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	ph.dur = time.Since(t0)
	return ph
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := repository.AutoMigrate(db); err != nil {
		panic(err)
	}
	store := repository.NewStore(db)
	ctx := context.Background()

	N := envInt("N", 2000)
	if N < 2 {
		N = 2
	}
	CONC := envInt("CONC", 8)

	// 事件只统计落地延迟，不真正发往 NATS
	relay := events.NewRelay(events.DiscardSink{}, N*3)
	stop := relay.Start(4)
	counters := service.NewCounterReconciler(store)
	svc := service.NewEngagementService(store, counters, service.NewNotifier(store, nil, relay), cfg.Server.FanoutTimeout)

	// 一个热门作者 + N 个用户，全部互动集中在同一帖子上
	aid := uuid.New().String()
	author := model.User{ID: aid, Username: "author_" + aid[:8], Email: "a" + aid[:8] + "@campus.edu"}
	if err := store.Users.Create(ctx, &author); err != nil {
		panic(err)
	}
	users := make([]model.User, N)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@campus.edu"}
	}
	const batch = 500
	for i := 0; i < N; i += batch {
		end := i + batch
		if end > N {
			end = N
		}
		sub := users[i:end]
		if err := db.Create(&sub).Error; err != nil {
			panic(err)
		}
	}
	post := must(service.NewPostService(store).Publish(ctx, author.ID, service.CreatePostInput{Content: "hot post"}))

	repMetrics := relay.Metrics()
	var repRecs []time.Duration
	doneRep := make(chan struct{})
	repDone := make(chan struct{})
	go func() {
		defer close(repDone)
		for {
			select {
			case d := <-repMetrics:
				repRecs = append(repRecs, d)
			case <-doneRep:
				return
			}
		}
	}()

	maxQ := 0
	quitSample := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if q := relay.QueueLen(); q > maxQ {
					maxQ = q
				}
			case <-quitSample:
				return
			}
		}
	}()

	like := run("like", N, CONC, func(i int) error {
		_, err := svc.Like(ctx, users[i].ID, post.ID)
		return err
	})
	// 每个用户再点一次：全部应以 AlreadyLiked 失败，计数不变
	dup := run("dup-like", N, CONC, func(i int) error {
		_, err := svc.Like(ctx, users[i].ID, post.ID)
		return err
	})
	// 前一半取消两次：第二次应为空操作
	half := N / 2
	unlike := run("unlike", half*2, CONC, func(i int) error {
		return svc.Unlike(ctx, users[i%half].ID, post.ID)
	})
	follow := run("follow", N, CONC, func(i int) error {
		_, err := svc.Follow(ctx, users[i].ID, author.ID)
		return err
	})
	close(quitSample)

	drainStart := time.Now()
	_ = stop(context.Background())
	drainDur := time.Since(drainStart)
	close(doneRep)
	<-repDone

	fmt.Printf("N=%d, CONC=%d, driver=%s\n", N, CONC, cfg.Database.Driver)
	for _, p := range []phase{like, dup, unlike, follow} {
		p.print()
	}
	if len(repRecs) > 0 {
		fmt.Printf("Event relay: samples=%d, p50=%v, p95=%v, p99=%v, maxQueue=%d, drain=%v\n",
			len(repRecs), pct(repRecs, 0.50), pct(repRecs, 0.95), pct(repRecs, 0.99), maxQ, drainDur)
	}

	p := must(store.Posts.GetByID(ctx, post.ID))
	followers, _ := must2(counters.FollowCounts(ctx, author.ID))
	fmt.Printf("likes_count=%d (expected %d), followers=%d (expected %d)\n", p.LikesCount, N-half, followers, N)

	drifts := must(counters.Audit(ctx, 500))
	fmt.Printf("Counter drift: %d posts\n", len(drifts))
	if len(drifts) > 0 || p.LikesCount != int64(N-half) {
		os.Exit(1)
	}
}

func must2[A, B any](a A, b B, err error) (A, B) {
	if err != nil {
		panic(err)
	}
	return a, b
}
