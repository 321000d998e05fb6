package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
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

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	repos := repository.NewRepositories(db)
	engagement := service.NewEngagementService(db, repos)
	ctx := context.Background()

	users := envInt("USERS", 200)
	posts := envInt("POSTS", 20)
	ops := envInt("OPS", 5000)
	conc := envInt("CONC", 8)

	// 种子数据：一个作者，若干帖子与点赞用户
	run := strconv.FormatInt(time.Now().UnixNano(), 36)
	author := must(repos.Users.Create(ctx, "author_"+run, "bench-author-"+run))
	postIDs := make([]uint, posts)
	for i := range postIDs {
		p := must(repos.Posts.Create(ctx, fmt.Sprintf("bench %d", i), "likebench", author.Username))
		postIDs[i] = p.ID
	}
	userIDs := make([]uint, users)
	for i := range userIDs {
		u := must(repos.Users.Create(ctx, fmt.Sprintf("u%d_%s", i, run), fmt.Sprintf("bench-%s-%d", run, i)))
		userIDs[i] = u.ID
	}

	type result struct {
		d   time.Duration
		err error
	}
	feed := make(chan int, ops)
	for i := 0; i < ops; i++ {
		feed <- i
	}
	close(feed)

	results := make(chan result, ops)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for range feed {
				post := postIDs[rnd.Intn(len(postIDs))]
				user := userIDs[rnd.Intn(len(userIDs))]
				st := time.Now()
				_, err := engagement.ToggleLike(ctx, post, user)
				results <- result{d: time.Since(st), err: err}
			}
		}(int64(w) + 1)
	}
	wg.Wait()
	close(results)
	total := time.Since(t0)

	durations := make([]time.Duration, 0, ops)
	failed := 0
	for r := range results {
		if r.err != nil {
			failed++
			continue
		}
		durations = append(durations, r.d)
	}

	// 校验 like_count 与 likes 行数一致
	mismatched := 0
	for _, id := range postIDs {
		p := must(repos.Posts.FindByID(ctx, id))
		actual := must(repos.Likes.CountByPost(ctx, id))
		if p.LikeCount != actual {
			mismatched++
			fmt.Printf("post %d: like_count=%d likes=%d\n", id, p.LikeCount, actual)
		}
	}

	fmt.Printf("USERS=%d, POSTS=%d, OPS=%d, CONC=%d, driver=%s\n", users, posts, ops, conc, cfg.Database.Driver)
	fmt.Printf("Toggle like total: %v, per op: %v, p50: %v, p95: %v, p99: %v, failed: %d\n",
		total, total/time.Duration(ops), pct(durations, 0.50), pct(durations, 0.95), pct(durations, 0.99), failed)
	fmt.Printf("Counter check: %d/%d posts consistent\n", len(postIDs)-mismatched, len(postIDs))

	// 清理：注销作者会级联删除全部帖子与点赞
	accounts := service.NewAccountService(db, repos, nil)
	_, _ = accounts.DeleteAccount(ctx, author.ID)
	for _, id := range userIDs {
		_, _ = accounts.DeleteAccount(ctx, id)
	}
	if mismatched > 0 {
		os.Exit(1)
	}
}
