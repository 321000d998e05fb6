package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/cache"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/database"
)

type scenarioResult struct {
	durations   []time.Duration
	counters    cache.UserCacheCounters
	cacheKeys   int64
	memoryBytes int64
}

// 模拟每个请求都要解析会话用户：直接查库 vs Redis 读穿缓存
func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	mustDo(database.Migrate(db))
	repos := repository.NewRepositories(db)

	userCount := envInt("USERS", 2000)
	reqCount := envInt("REQS", 20000)

	fmt.Println("Setting up test data...")
	run := strconv.FormatInt(time.Now().UnixNano(), 36)
	ids := make([]uint, userCount)
	for i := range ids {
		u := must(repos.Users.Create(ctx, fmt.Sprintf("c%d_%s", i, run), fmt.Sprintf("cache-%s-%d", run, i)))
		ids[i] = u.ID
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", cfg.Redis.Addr, err))
	}

	users := cache.NewUserCache(client, cfg.Cache.UserTTL)
	reqs := makeRequests(ids, reqCount)

	noCache := runScenario(ctx, client, users, reqs, func(ctx context.Context, id uint) error {
		_, err := repos.Users.FindByID(ctx, id)
		return err
	})
	readThrough := runScenario(ctx, client, users, reqs, func(ctx context.Context, id uint) error {
		_, err := users.Get(ctx, id, repos.Users.FindByID)
		return err
	})

	fmt.Printf("\nSession user lookup (%d req across %d users, %s + Redis)\n", reqCount, userCount, cfg.Database.Driver)
	for _, row := range []struct {
		name string
		res  scenarioResult
	}{{"No cache", noCache}, {"Read-through", readThrough}} {
		fmt.Printf("%-14s avg=%v p95=%v p99=%v hits=%d misses=%d cache_keys=%d mem=%s\n",
			row.name, avg(row.res.durations), pct(row.res.durations, 0.95), pct(row.res.durations, 0.99),
			row.res.counters.Hits, row.res.counters.Misses, row.res.cacheKeys, formatBytes(row.res.memoryBytes))
	}

	for _, id := range ids {
		_, _ = repos.Users.Delete(ctx, id)
		users.Invalidate(ctx, id)
	}
}

func runScenario(ctx context.Context, client *redis.Client, users *cache.UserCache, reqs []uint, call func(context.Context, uint) error) scenarioResult {
	client.FlushDB(ctx)
	users.ResetCounters()

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(reqs))
	for _, id := range reqs {
		start := time.Now()
		mustDo(call(ctx, id))
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	keys, _ := client.DBSize(ctx).Result()
	var memBytes int64
	if info, err := client.Info(ctx, "memory").Result(); err == nil {
		memBytes = parseRedisMemory(info)
	}
	return scenarioResult{durations: out, counters: users.Counters(), cacheKeys: keys, memoryBytes: memBytes}
}

// parseRedisMemory extracts used_memory from Redis INFO
func parseRedisMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "used_memory:"); ok {
			n, _ := strconv.ParseInt(v, 10, 64)
			return n
		}
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// makeRequests 活跃用户占大头（zipf 分布）
func makeRequests(ids []uint, n int) []uint {
	rnd := rand.New(rand.NewSource(42))
	zipf := rand.NewZipf(rnd, 1.2, 1, uint64(len(ids)-1))
	out := make([]uint, n)
	for i := range out {
		out[i] = ids[zipf.Uint64()]
	}
	return out
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
