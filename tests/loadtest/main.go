package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"
)

var (
	baseURL      = pflag.String("url", "http://127.0.0.1:8080", "proxy base URL")
	fakeUpstream = pflag.String("fake-upstream", "", "also serve a fake NextDNS API on this address, e.g. 127.0.0.1:18091")
	numWorkers   = pflag.Int("workers", 50, "concurrent workers")
	testDuration = pflag.Duration("duration", 10*time.Second, "duration of each phase")
	rps          = pflag.Float64("rps", 500, "global request rate limit")
)

var (
	statuses = []string{"", "default", "blocked", "allowed", "error"}
	devices  = []string{"", "dev1", "dev2", "__UNIDENTIFIED__"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	pflag.Parse()

	if *fakeUpstream != "" {
		go serveFakeUpstream(*fakeUpstream)
		fmt.Printf("Fake NextDNS API on http://%s (set nextdns.baseUrl to it)\n", *fakeUpstream)
	}

	fmt.Println("=== NDExplorer Proxy Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | RPS cap: %.0f\n\n", *numWorkers, *testDuration, *rps)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			os.Exit(1)
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	limiter := rate.NewLimiter(rate.Limit(*rps), *numWorkers)

	fmt.Println("\n--- Phase 1: Devices (cached) ---")
	runPhase(limiter, func(rng *rand.Rand) result {
		return doGet("GET /api/devices", "/api/devices", http.StatusOK)
	})

	fmt.Println("\n--- Phase 2: Searches with scroll (80% first page, 20% next page) ---")
	runPhase(limiter, func(rng *rand.Rand) result {
		if rng.Float64() < 0.80 {
			return doGet("GET /api/logs", "/api/logs?"+randomQuery(rng, ""), http.StatusOK)
		}
		return doGet("GET /api/logs (cursor)", "/api/logs?"+randomQuery(rng, fmt.Sprintf("c%d", rng.Intn(5)+1)), http.StatusOK)
	})

	fmt.Println("\n--- Phase 3: Mixed, with invalid params (10%) ---")
	runPhase(limiter, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doGet("GET /api/logs (invalid)", "/api/logs?status=denied", http.StatusBadRequest)
		case r < 0.30:
			return doGet("GET /api/devices", "/api/devices", http.StatusOK)
		case r < 0.35:
			return doGet("GET /health", "/health", http.StatusOK)
		default:
			return doGet("GET /api/logs", "/api/logs?"+randomQuery(rng, ""), http.StatusOK)
		}
	})
}

func runPhase(limiter *rate.Limiter, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	totalOps := atomic.NewInt64(0)

	ctx, cancel := context.WithTimeout(context.Background(), *testDuration)
	defer cancel()

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				r := workFn(rng)
				totalOps.Inc()
				results <- r
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	wg.Wait()
	close(results)
	<-done

	printResults(allResults, *testDuration, totalOps.Load())
}

func printResults(allResults map[string]*stats, duration time.Duration, totalOps int64) {
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  No requests completed")
		return
	}
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func randomQuery(rng *rand.Rand, cursor string) string {
	now := time.Now().UTC()
	windows := []time.Duration{time.Hour, 24 * time.Hour, 72 * time.Hour}
	from := now.Add(-windows[rng.Intn(len(windows))])

	parts := []string{
		"from=" + from.Format(time.RFC3339),
		"to=" + now.Format(time.RFC3339),
	}
	if s := statuses[rng.Intn(len(statuses))]; s != "" {
		parts = append(parts, "status="+s)
	}
	if d := devices[rng.Intn(len(devices))]; d != "" {
		parts = append(parts, "device="+d)
	}
	if cursor != "" {
		parts = append(parts, "cursor="+cursor)
	}
	return strings.Join(parts, "&")
}

func doGet(endpoint, path string, want int) result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

// serveFakeUpstream answers the two NextDNS endpoints the proxy calls so the
// load test never reaches the real API.
func serveFakeUpstream(addr string) {
	page := fakePage(200)
	devicesBody, _ := json.Marshal(map[string]any{"data": []map[string]string{
		{"id": "dev1", "name": "DEVICE_1"},
		{"id": "dev2", "model": "Pixel"},
		{"id": "__UNIDENTIFIED__"},
	}})

	mux := http.NewServeMux()
	mux.HandleFunc("/profiles/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/analytics/devices") {
			_, _ = w.Write(devicesBody)
			return
		}
		next := 1
		if c := r.URL.Query().Get("cursor"); c != "" {
			n, _ := strconv.Atoi(strings.TrimPrefix(c, "c"))
			next = n + 1
		}
		var cursor any
		if next <= 5 {
			cursor = fmt.Sprintf("c%d", next)
		}
		body, _ := json.Marshal(map[string]any{
			"data": page,
			"meta": map[string]any{"pagination": map[string]any{"cursor": cursor}},
		})
		_, _ = w.Write(body)
	})
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintln(os.Stderr, "fake upstream:", err)
	}
}

func fakePage(n int) []map[string]any {
	records := make([]map[string]any, n)
	now := time.Now().UTC()
	for i := range records {
		records[i] = map[string]any{
			"timestamp": now.Add(-time.Duration(i) * time.Second).Format(time.RFC3339),
			"domain":    fmt.Sprintf("host%d.example.com", i),
			"root":      "example.com",
			"protocol":  "DNS-over-HTTPS",
			"status":    statuses[1+i%4],
		}
	}
	return records
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
