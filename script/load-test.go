package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// DeltaRequest is the payload for POST /api/v1/credits/transactions
type DeltaRequest struct {
	Amount         int64  `json:"amount"`
	Type           string `json:"type"`
	Description    string `json:"description,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// DeltaResponse is the API response for an applied delta
type DeltaResponse struct {
	TransactionID string `json:"transactionId"`
	UserID        string `json:"userId"`
	Success       bool   `json:"success"`
	Balance       int64  `json:"balance"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// DeltaScenario defines one load scenario
type DeltaScenario struct {
	Name   string
	Amount int64
	Type   string
}

// TestStats contains aggregated test statistics
type TestStats struct {
	SuccessfulRequests int
	FailedRequests     int
	InsufficientFunds  int
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	UserStats          map[string]int
	ScenarioStats      map[string]int
	Lock               sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	usersStr := flag.String("u", "user-1,user-2,user-3", "Comma-separated list of user IDs to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	secret := flag.String("secret", "dev-secret-change-me-in-prod", "Shared HS256 secret for minting test tokens")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	retryRatio := flag.Float64("retry", 0.1, "Fraction of requests resent with a reused idempotency key")
	flag.Parse()

	userIDs := []string{}
	for _, id := range strings.Split(*usersStr, ",") {
		if id = strings.TrimSpace(id); id != "" {
			userIDs = append(userIDs, id)
		}
	}
	if len(userIDs) == 0 {
		userIDs = []string{"user-1"}
	}

	scenarios := []DeltaScenario{
		{"Earn Small", 10, "earn"},
		{"Earn Large", 50, "earn"},
		{"Gift", 25, "gift"},
		{"Spend Small", -15, "spend"},
		{"Spend Large", -60, "spend"},
		{"Expire", -5, "expire"},
	}

	fmt.Printf("Load testing ledger across %d users: %v\n", len(userIDs), userIDs)
	fmt.Printf("Concurrency: %d goroutines, %d requests, %d ms delay, %.0f%% idempotent retries\n",
		*concurrency, *totalRequests, *delayMs, *retryRatio*100)

	tokens := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		token, err := mintToken(*secret, id)
		if err != nil {
			fmt.Printf("Failed to mint token for %s: %v\n", id, err)
			return
		}
		tokens[id] = token
	}

	stats := &TestStats{
		ErrorCounts:   make(map[string]int),
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
		UserStats:     make(map[string]int),
		ScenarioStats: make(map[string]int),
	}

	client := &http.Client{Timeout: 10 * time.Second}
	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var lastKey string
			for range jobs {
				userID := userIDs[rand.Intn(len(userIDs))]
				scenario := scenarios[rand.Intn(len(scenarios))]

				key := xid.New().String()
				if lastKey != "" && rand.Float64() < *retryRatio {
					key = lastKey
				}
				lastKey = key

				runDelta(client, *baseURL, tokens[userID], userID, scenario, key, stats)
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	printStats(stats, *totalRequests, time.Since(start))
}

// mintToken signs a short-lived token the way the auth service would
func mintToken(secret, userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func runDelta(
	client *http.Client,
	baseURL, token, userID string,
	scenario DeltaScenario,
	idempotencyKey string,
	stats *TestStats,
) {
	payload, _ := json.Marshal(DeltaRequest{
		Amount:      scenario.Amount,
		Type:        scenario.Type,
		Description: "load test " + scenario.Name,
	})

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/credits/transactions", bytes.NewReader(payload))
	if err != nil {
		recordError(stats, err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	begin := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(begin)
	if err != nil {
		recordError(stats, err.Error())
		return
	}
	defer resp.Body.Close()

	var body DeltaResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)

	stats.Lock.Lock()
	defer stats.Lock.Unlock()

	stats.ResponseTimes = append(stats.ResponseTimes, elapsed)
	stats.UserStats[userID]++
	stats.ScenarioStats[scenario.Name]++

	switch {
	case resp.StatusCode == http.StatusOK:
		stats.SuccessfulRequests++
	case resp.StatusCode == http.StatusBadRequest && strings.Contains(body.ErrorMessage, "insufficient balance"):
		// Expected outcome under spend-heavy load, not a failure
		stats.InsufficientFunds++
	default:
		stats.FailedRequests++
		stats.ErrorCounts[fmt.Sprintf("HTTP %d: %s", resp.StatusCode, body.ErrorMessage)]++
	}
}

func recordError(stats *TestStats, message string) {
	stats.Lock.Lock()
	defer stats.Lock.Unlock()
	stats.FailedRequests++
	stats.ErrorCounts[message]++
}

func printStats(stats *TestStats, total int, elapsed time.Duration) {
	fmt.Printf("\n--- Results ---\n")
	fmt.Printf("Total requests:      %d in %s (%.1f req/s)\n",
		total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	fmt.Printf("Successful:          %d\n", stats.SuccessfulRequests)
	fmt.Printf("Insufficient funds:  %d\n", stats.InsufficientFunds)
	fmt.Printf("Failed:              %d\n", stats.FailedRequests)

	if len(stats.ResponseTimes) > 0 {
		times := make([]time.Duration, len(stats.ResponseTimes))
		copy(times, stats.ResponseTimes)
		sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

		var sum time.Duration
		for _, t := range times {
			sum += t
		}
		fmt.Printf("Latency min/avg/p95/max: %s / %s / %s / %s\n",
			times[0].Round(time.Millisecond),
			(sum / time.Duration(len(times))).Round(time.Millisecond),
			times[len(times)*95/100].Round(time.Millisecond),
			times[len(times)-1].Round(time.Millisecond))
	}

	fmt.Println("\nRequests per user:")
	for user, count := range stats.UserStats {
		fmt.Printf("  %-12s %d\n", user, count)
	}
	fmt.Println("Requests per scenario:")
	for name, count := range stats.ScenarioStats {
		fmt.Printf("  %-12s %d\n", name, count)
	}
	if len(stats.ErrorCounts) > 0 {
		fmt.Println("Errors:")
		for msg, count := range stats.ErrorCounts {
			fmt.Printf("  %dx %s\n", count, msg)
		}
	}
}
