package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numDevices   = 200
	numBathrooms = 40
)

var comments = []string{
	"Great bathroom, always clean and stocked!",
	"Soap dispenser was empty again",
	"Quiet, bright and the lock works",
	"FREE PRIZE at www.example.com",
	"ok",
	"AAAAAAAAAAAA",
	"Hand dryer is loud but it works fine",
}

var userNames = []string{"alice", "bob", "carol", "12345", "x9999", "testbot", "dana"}

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
	verdict  string
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== ReviewGuard Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Devices: %d\n\n", numWorkers, testDuration, numDevices)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Checks only (POST /check) ---")
	runPhase(testDuration, doCheck)

	fmt.Println("\n--- Phase 2: Mixed load (90% check, 5% reset, 5% health) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.90:
			return doCheck(rng)
		case r < 0.95:
			return doReset(rng)
		default:
			return doHealth()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	verdicts := make(map[string]*atomic.Int64)
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
			if r.verdict != "" {
				if _, ok := verdicts[r.verdict]; !ok {
					verdicts[r.verdict] = atomic.NewInt64(0)
				}
				verdicts[r.verdict].Inc()
			}
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
	for _, v := range []string{"clean", "captcha", "spam"} {
		if c, ok := verdicts[v]; ok {
			fmt.Printf("  %-8s %d\n", v, c.Load())
		}
	}
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-16s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 80))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-16s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 80))
	if totalOps == 0 {
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func post(path string, body any) (*http.Response, time.Duration, error) {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(data))
	return resp, time.Since(start), err
}

func doCheck(rng *rand.Rand) result {
	comment := comments[rng.Intn(len(comments))]
	body := map[string]any{
		"deviceId": fmt.Sprintf("dev-%d", rng.Intn(numDevices)),
		"submission": map[string]any{
			"bathroomId":  fmt.Sprintf("b-%d", rng.Intn(numBathrooms)),
			"comment":     comment,
			"userName":    userNames[rng.Intn(len(userNames))],
			"rating":      rng.Intn(5) + 1,
			"cleanliness": rng.Intn(5) + 1,
			"privacy":     rng.Intn(5) + 1,
		},
		"environment": map[string]any{
			"userAgent": fmt.Sprintf("agent/%d", rng.Intn(4)),
			"language":  "en-US",
		},
	}

	resp, lat, err := post("/check", body)
	if err != nil {
		return result{endpoint: "POST /check", latency: lat, err: true}
	}
	defer resp.Body.Close()

	var res struct {
		IsSpam          bool `json:"isSpam"`
		RequiresCaptcha bool `json:"requiresCaptcha"`
	}
	verdict := ""
	if json.NewDecoder(resp.Body).Decode(&res) == nil {
		switch {
		case res.IsSpam:
			verdict = "spam"
		case res.RequiresCaptcha:
			verdict = "captcha"
		default:
			verdict = "clean"
		}
	}
	return result{endpoint: "POST /check", status: resp.StatusCode, latency: lat, err: resp.StatusCode != http.StatusOK, verdict: verdict}
}

func doReset(rng *rand.Rand) result {
	body := map[string]any{
		"deviceId": fmt.Sprintf("dev-%d", rng.Intn(numDevices)),
		"scope":    []string{"all", "behavior"}[rng.Intn(2)],
	}
	resp, lat, err := post("/reset", body)
	if err != nil {
		return result{endpoint: "POST /reset", latency: lat, err: true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return result{endpoint: "POST /reset", status: resp.StatusCode, latency: lat, err: resp.StatusCode != http.StatusNoContent}
}

func doHealth() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/health")
	lat := time.Since(start)
	if err != nil {
		return result{endpoint: "GET /health", latency: lat, err: true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return result{endpoint: "GET /health", status: resp.StatusCode, latency: lat, err: resp.StatusCode != http.StatusOK}
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
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
