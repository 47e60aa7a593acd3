package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18099"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var labels = []string{"Workout", "Standup", "Meds", "School run", "Wake up"}

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

// idPool collects alarm ids created during the run so mutating endpoints have
// real targets.
type idPool struct {
	mu  sync.Mutex
	ids []string
}

func (p *idPool) add(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
}

func (p *idPool) random(rng *rand.Rand) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ids) == 0 {
		return "", false
	}
	return p.ids[rng.Intn(len(p.ids))], true
}

func (p *idPool) take(rng *rand.Rand) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ids) == 0 {
		return "", false
	}
	i := rng.Intn(len(p.ids))
	id := p.ids[i]
	p.ids = append(p.ids[:i], p.ids[i+1:]...)
	return id, true
}

var pool = &idPool{}

func main() {
	fmt.Println("=== ChronoRise Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed alarms with POST requests
	fmt.Println("\n--- Phase 1: Seeding alarms (POST /create) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doCreate(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (40% writes, 60% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.15:
			return doCreate(rng)
		case r < 0.25:
			return doUpdate(rng)
		case r < 0.35:
			return doToggle(rng)
		case r < 0.40:
			return doDelete(rng)
		case r < 0.75:
			return doGetList()
		default:
			return doGetRinging()
		}
	})

	// Phase 3: Read-heavy load, close to a polling frontend
	fmt.Println("\n--- Phase 3: Read-heavy load (5% writes, 95% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doCreate(rng)
		case r < 0.55:
			return doGetList()
		default:
			return doGetRinging()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
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
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
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

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func randomTime(rng *rand.Rand) string {
	return fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60))
}

func doCreate(rng *rand.Rand) result {
	body := map[string]interface{}{
		"time":  randomTime(rng),
		"label": labels[rng.Intn(len(labels))],
		"useAI": rng.Float64() < 0.3,
	}
	if rng.Float64() < 0.5 {
		nDays := rng.Intn(4) + 1
		days := make([]int, nDays)
		for i := range days {
			days[i] = rng.Intn(7)
		}
		body["days"] = days
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/create", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /create", 0, lat, true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == 201 {
		var alarm struct {
			ID string `json:"id"`
		}
		if json.NewDecoder(resp.Body).Decode(&alarm) == nil && alarm.ID != "" {
			pool.add(alarm.ID)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return result{"POST /create", resp.StatusCode, lat, resp.StatusCode != 201}
}

func doUpdate(rng *rand.Rand) result {
	id, ok := pool.random(rng)
	if !ok {
		return doCreate(rng)
	}

	body := map[string]interface{}{"time": randomTime(rng)}
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/update?id="+id, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /update", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /update", resp.StatusCode, lat, resp.StatusCode != 204}
}

func doToggle(rng *rand.Rand) result {
	id, ok := pool.random(rng)
	if !ok {
		return doCreate(rng)
	}

	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/toggle?id="+id, "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /toggle", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /toggle", resp.StatusCode, lat, resp.StatusCode != 204}
}

func doDelete(rng *rand.Rand) result {
	id, ok := pool.take(rng)
	if !ok {
		return doCreate(rng)
	}

	req, _ := http.NewRequest(http.MethodDelete, baseURL+"/delete?id="+id, nil)
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"DELETE /delete", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"DELETE /delete", resp.StatusCode, lat, resp.StatusCode != 204}
}

func doGetList() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/list")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /list", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /list", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetRinging() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/ringing")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /ringing", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /ringing", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

func fmtDur(d time.Duration) string {
	return d.Round(10 * time.Microsecond).String()
}
