package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

type Rating struct {
	Email   string  `json:"email"`
	MovieID string  `json:"movieId"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment,omitempty"`
}

var (
	apiURL      = flag.String("url", "http://localhost:5001", "Base URL of the ratings API")
	numRatings  = flag.Int("ratings", 300, "Number of ratings to submit (200-500)")
	workers     = flag.Int("workers", 10, "Number of concurrent submitters")
	sendRate    = flag.Duration("send-rate", 10*time.Millisecond, "Time between submissions per worker (set to 0 for maximum speed)")
	simulate    = flag.Bool("simulate", false, "Enable continuous simulation at a steady rate")
	invalidRate = flag.Float64("invalid-rate", 0.05, "Probability of sending an invalid submission (0.0-1.0)")
)

var movieIDs = []string{
	"tt0111161", "tt0068646", "tt0468569", "tt0108052", "tt0167260",
	"tt0110912", "tt0060196", "tt0137523", "tt1375666", "tt0109830",
}

var comments = []string{
	"A classic", "Overrated", "Would watch again", "Slow start, great finish",
	"Best soundtrack ever", "", "", "Not my genre but solid",
}

type stats struct {
	accepted    atomic.Int64
	rejected    atomic.Int64
	unavailable atomic.Int64
	failed      atomic.Int64
}

func main() {
	flag.Parse()

	if *numRatings < 200 || *numRatings > 500 {
		fmt.Println("Warning: Recommended rating count is 200-500, got:", *numRatings)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	// Test connection
	resp, err := client.Get(*apiURL + "/healthz")
	if err != nil {
		fmt.Printf("Failed to reach ratings API: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusServiceUnavailable {
		fmt.Printf("⚠️  API is up at %s but reports the broker as disconnected\n", *apiURL)
	} else {
		fmt.Printf("✅ Connected to ratings API at %s\n", *apiURL)
	}

	var st stats
	submitRatings(client, &st, *numRatings)

	fmt.Printf("\n✅ Submitted %d ratings\n", *numRatings)
	printStats(&st)

	if *simulate {
		fmt.Printf("\n🎬 Starting continuous simulation...\n")
		fmt.Printf("   Invalid submission rate: %.1f%%\n", *invalidRate*100)
		fmt.Printf("   Press Ctrl+C to stop\n\n")
		runSimulation(client, &st)
	} else {
		fmt.Println("\n💡 Tip: Use --simulate flag to keep a steady stream of submissions running")
	}
}

func submitRatings(client *http.Client, st *stats, total int) {
	fmt.Printf("\n🚀 Submitting %d ratings with %d workers...\n", total, *workers)
	startTime := time.Now()

	jobs := make(chan int)
	var wg sync.WaitGroup

	var progress atomic.Int64
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				submitOne(client, st, i)

				if done := progress.Add(1); done%50 == 0 || done == int64(total) {
					fmt.Printf("   Progress: %d/%d ratings submitted\n", done, total)
				}

				if *sendRate > 0 {
					time.Sleep(*sendRate)
				}
			}
		}()
	}

	for i := 0; i < total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("⏱️  Completed in %v (%.0f ratings/sec)\n", elapsed, float64(total)/elapsed.Seconds())
}

func submitOne(client *http.Client, st *stats, seq int) {
	rating := Rating{
		Email:   fmt.Sprintf("demo-user-%d@example.com", seq+1),
		MovieID: movieIDs[rand.Intn(len(movieIDs))],
		Rating:  float64(rand.Intn(9)+1) / 2.0,
		Comment: comments[rand.Intn(len(comments))],
	}

	// An invalid submission drops a required field so the 400 path gets
	// exercised too.
	if rand.Float64() < *invalidRate {
		rating.MovieID = ""
	}

	body, _ := json.Marshal(rating)
	resp, err := client.Post(*apiURL+"/ratings", "application/json", bytes.NewReader(body))
	if err != nil {
		st.failed.Add(1)
		return
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		st.accepted.Add(1)
	case http.StatusBadRequest:
		st.rejected.Add(1)
	case http.StatusServiceUnavailable:
		st.unavailable.Add(1)
	default:
		st.failed.Add(1)
	}
}

func runSimulation(client *http.Client, st *stats) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	statsTicker := time.NewTicker(10 * time.Second)
	defer statsTicker.Stop()

	sendTicker := time.NewTicker(maxDuration(*sendRate, time.Millisecond))
	defer sendTicker.Stop()

	seq := *numRatings
	for {
		select {
		case <-sigChan:
			fmt.Println("\n\n🛑 Simulation stopped")
			printStats(st)
			return

		case <-statsTicker.C:
			fmt.Printf("[%s] Accepted: %d | Rejected: %d | Unavailable: %d | Failed: %d\n",
				time.Now().Format("15:04:05"),
				st.accepted.Load(),
				st.rejected.Load(),
				st.unavailable.Load(),
				st.failed.Load(),
			)

		case <-sendTicker.C:
			seq++
			submitOne(client, st, seq)
		}
	}
}

func printStats(st *stats) {
	fmt.Println("\n📊 Statistics:")
	fmt.Printf("   Accepted (201): %d\n", st.accepted.Load())
	fmt.Printf("   Rejected (400): %d\n", st.rejected.Load())
	fmt.Printf("   Unavailable (503): %d\n", st.unavailable.Load())
	fmt.Printf("   Failed: %d\n", st.failed.Load())
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
