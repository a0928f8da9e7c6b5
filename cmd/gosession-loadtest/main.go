package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/storage"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type loadProvider struct {
	current *session.Session
}

func (p *loadProvider) GetCurrentSession(context.Context) (*session.Session, error) {
	return p.current, nil
}

func (p *loadProvider) OnSessionChange(func(*session.Session)) (goSession.Subscription, error) {
	return noopSubscription{}, nil
}

func (p *loadProvider) SignInWithPassword(context.Context, string, string) error { return nil }
func (p *loadProvider) SignUp(context.Context, string, string) error             { return nil }
func (p *loadProvider) SignOut(context.Context) error                            { return nil }
func (p *loadProvider) ResetPasswordForEmail(context.Context, string) error      { return nil }

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

func main() {
	var (
		records     = flag.Int("records", 100000, "number of session records to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (warm + cold)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gs", "storage key prefix")
	)
	flag.Parse()

	if *records <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "records, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  *redis.Client
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	store, err := storage.NewRedisStorage(client, *prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create redis storage: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeding %d records...\n", *records)
	startSeed := time.Now()
	for i := 0; i < *records; i++ {
		record, err := session.Encode(buildSession(fmt.Sprintf("u-%d", i)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
			os.Exit(1)
		}
		if err := store.Set(ctx, recordKey(i), record); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	warmStats := runBootstrapPhase(ctx, store, *records, *ops, *concurrency, true)
	coldStats := runBootstrapPhase(ctx, store, *records, *ops, *concurrency, false)

	fmt.Println("---- results ----")
	printStats("warm", warmStats)
	printStats("cold", coldStats)
}

// runBootstrapPhase builds and bootstraps one store per operation. Warm phases
// pick seeded record keys so the cached restore path runs; cold phases pick
// keys that are never present.
func runBootstrapPhase(ctx context.Context, store storage.Storage, records, ops, concurrency int, warm bool) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(records)

				cfg := goSession.Config{}
				if warm {
					cfg.Storage.Key = recordKey(idx)
				} else {
					cfg.Storage.Key = fmt.Sprintf("auth.session.missing.%d", idx)
				}

				provider := &loadProvider{current: buildSession(fmt.Sprintf("u-%d", idx))}
				s, err := goSession.New().
					WithConfig(cfg).
					WithProvider(provider).
					WithStorage(store).
					Build()
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}

				t0 := time.Now()
				err = s.Bootstrap(ctx)
				d := time.Since(t0)
				s.Close()
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func recordKey(i int) string {
	return fmt.Sprintf("auth.session.%d", i)
}

func buildSession(userID string) *session.Session {
	now := time.Now()
	return &session.Session{
		UserID:       userID,
		AccessToken:  "at-" + userID,
		TokenType:    "bearer",
		RefreshToken: "rt-" + userID,
		IssuedAt:     now.Unix(),
		ExpiresAt:    now.Add(time.Hour).Unix(),
	}
}
