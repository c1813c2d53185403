package cli

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/d60-Lab/engagement/internal/model"
	"github.com/d60-Lab/engagement/internal/repository"
	"github.com/d60-Lab/engagement/internal/service"
)

type seedOptions struct {
	users int
	posts int
	seed  int64
}

// SeedResult is the json output of the seed command.
type SeedResult struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Follows  int `json:"follows"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Populate demo users, posts and engagement",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := repository.AutoMigrate(store.DB()); err != nil {
				return err
			}
			res, err := seed(cmd.Context(), store, opts)
			if err != nil {
				return err
			}
			return writeResult(cmd, rootOpts, res, fmt.Sprintf("seeded %d users, %d posts, %d likes, %d comments, %d follows",
				res.Users, res.Posts, res.Likes, res.Comments, res.Follows))
		},
	}
	cmd.Flags().IntVar(&opts.users, "users", 20, "number of users")
	cmd.Flags().IntVar(&opts.posts, "posts", 50, "number of posts")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "random seed")
	return cmd
}

// seed 互动都走门面，保证计数与台账一致
func seed(ctx context.Context, store *repository.Store, opts *seedOptions) (SeedResult, error) {
	var res SeedResult
	rnd := rand.New(rand.NewSource(opts.seed))

	ids := make([]string, 0, opts.users)
	for i := 0; i < opts.users; i++ {
		id := uuid.New().String()
		u := &model.User{ID: id, Username: "user_" + id[:8], Email: id[:8] + "@campus.edu", Name: fmt.Sprintf("Student %d", i)}
		if err := store.Users.Create(ctx, u); err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		ids = append(ids, id)
	}
	res.Users = len(ids)
	if len(ids) == 0 {
		return res, nil
	}

	engagement := service.NewEngagementService(store, service.NewCounterReconciler(store), service.NewNotifier(store, nil, nil), 5*time.Second)
	posts := service.NewPostService(store)

	for _, follower := range ids {
		for _, target := range ids {
			if follower == target || rnd.Intn(4) != 0 {
				continue
			}
			if _, err := engagement.Follow(ctx, follower, target); err != nil {
				return res, fmt.Errorf("follow: %w", err)
			}
			res.Follows++
		}
	}

	for i := 0; i < opts.posts; i++ {
		author := ids[rnd.Intn(len(ids))]
		p, err := posts.Publish(ctx, author, service.CreatePostInput{
			Content: fmt.Sprintf("demo post #%d", i),
			Tags:    []string{"demo"},
		})
		if err != nil {
			return res, fmt.Errorf("publish: %w", err)
		}
		res.Posts++

		for _, uid := range ids {
			if rnd.Intn(3) == 0 {
				if _, err := engagement.Like(ctx, uid, p.ID); err != nil {
					return res, fmt.Errorf("like: %w", err)
				}
				res.Likes++
			}
			if rnd.Intn(6) == 0 {
				if _, _, err := engagement.Comment(ctx, uid, p.ID, "nice one", model.TopLevel()); err != nil {
					return res, fmt.Errorf("comment: %w", err)
				}
				res.Comments++
			}
		}
	}
	return res, nil
}
