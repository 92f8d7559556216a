package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"dbperf-analytics/internal/app"
	"dbperf-analytics/internal/loadgen"
	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/shared/configs"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	seed       = 2025 // Generator seed
	iterations = 200  // Iterations per database worker; each iteration logs 6 operations
	pauseEvery = 50   // Idle pause after every 50 iterations
)

var (
	startUTC   = time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	pauseFor   = 10 * time.Minute
	operations = []string{"commit", "connect", "delete", "insert", "select", "update"}
)

// ### End - fixed configs

type seriesResponse struct {
	RecordCount    int `json:"recordCount"`
	PerMinuteCount struct {
		Points []struct {
			Y *float64 `json:"y"`
		} `json:"points"`
	} `json:"perMinuteCount"`
	RollingDuration []struct {
		Group   string `json:"group"`
		Segment int    `json:"segment"`
	} `json:"rollingDuration"`
}

// main runs the e2e scenario: 001_basic_report
//
// This scenario generates a deterministic performance log, starts the service on it and
// exercises the HTTP API the way a dashboard would.
//
// What it tests:
//   - Series bundles via POST /series for every database, sent concurrently
//   - Filter discovery via GET /filters
//   - Per-minute throughput adding up to the record count of the selection
//   - Idle pauses splitting the rolling average into segments
//   - Background report export via POST /reports and polling GET /reports/{id}
//
// Expected results:
//   - Every database selection returns 1,200 records (200 iterations x 6 operations)
//   - The summed per-minute counts equal the record count for each selection
//   - Each database/operation group has 4 rolling average segments (3 pauses)
//   - The report completes with bundle, Parquet and summary artifacts
func main() {
	// these configs can be changed to run the scenario
	port := 18080                          // Port the in-process server listens on
	parallel := 3                          // Number of concurrent series requests
	workDir := ".tmp/e2e/001"              // Scenario directory relative to project root
	pollTimeout := 30 * time.Second        // How long to wait for the report export
	pollInterval := 200 * time.Millisecond // Delay between report state polls

	projectRoot, err := findProjectRoot()
	if err != nil {
		fail("%v", err)
	}
	scenarioDir := filepath.Join(projectRoot, workDir)
	if err := os.RemoveAll(scenarioDir); err != nil {
		fail("failed to clean scenario directory: %v", err)
	}
	if err := os.MkdirAll(scenarioDir, 0o755); err != nil {
		fail("failed to create scenario directory: %v", err)
	}

	fmt.Println("Starting e2e scenario: 001_basic_report")
	fmt.Printf("SCENARIO_DIR: %s\n", scenarioDir)
	fmt.Printf("SEED: %d\n", seed)
	fmt.Printf("ITERATIONS: %d\n", iterations)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Println()

	// Generate the log
	profiles := loadgen.DefaultProfiles()
	logPath := filepath.Join(scenarioDir, "perf_log.csv")
	if err := writeLog(logPath, profiles); err != nil {
		fail("failed to generate log: %v", err)
	}
	fmt.Printf("Generated log at %s\n", logPath)

	// Start the service on the generated log
	cfg, err := configs.LoadConfig("", nil, nil)
	if err != nil {
		fail("failed to load config: %v", err)
	}
	cfg.Server.Port = port
	cfg.Log.Level = "warn"
	cfg.Source.Kind = "csv"
	cfg.Source.Path = logPath
	cfg.FileStorage.RootDir = filepath.Join(scenarioDir, "data")
	cfg.RateLimit.RPS = 0

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		fail("failed to initialize app: %v", err)
	}
	go func() {
		if err := application.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fail("server failed: %v", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
		defer cancel()
		_ = application.Shutdown(ctx)
	}()

	baseURL := fmt.Sprintf("http://localhost:%d", port)
	if err := waitHealthy(baseURL, 5*time.Second); err != nil {
		fail("%v", err)
	}

	// Filters
	var filters models.FilterSelection
	if status, err := doJSON(http.MethodGet, baseURL+"/filters", nil, &filters); err != nil || status != http.StatusOK {
		fail("GET /filters failed (status %d): %v", status, err)
	}
	if len(filters.Databases) != len(profiles) || len(filters.Operations) != len(operations) {
		fail("unexpected filters: %+v", filters)
	}

	// Series per database, sent concurrently
	workerChan := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	var okRequests int64

	for _, db := range filters.Databases {
		wg.Add(1)
		workerChan <- struct{}{} // Acquire worker slot

		go func(db string) {
			defer wg.Done()
			defer func() { <-workerChan }() // Release worker slot

			if err := checkDatabaseSeries(baseURL, db); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("database %s: %w", db, err))
				mu.Unlock()
				return
			}
			atomic.AddInt64(&okRequests, 1)
			fmt.Printf("Series for %s verified\n", db)
		}(db)
	}
	wg.Wait()

	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		fail("%d series checks failed", len(errs))
	}

	// Report export
	var state models.ReportState
	status, err := doJSON(http.MethodPost, baseURL+"/reports", filters, &state)
	if err != nil || status != http.StatusAccepted {
		fail("POST /reports failed (status %d): %v", status, err)
	}
	fmt.Printf("Report %s requested\n", state.ReportID)

	deadline := time.Now().Add(pollTimeout)
	for state.Status != models.ReportStatusCompleted {
		if time.Now().After(deadline) {
			fail("report %s still %s after %s", state.ReportID, state.Status, pollTimeout)
		}
		time.Sleep(pollInterval)
		if _, err := doJSON(http.MethodGet, baseURL+"/reports/"+state.ReportID, nil, &state); err != nil {
			fail("GET /reports/%s failed: %v", state.ReportID, err)
		}
	}

	fmt.Println()
	fmt.Println("=== Statistics ===")
	fmt.Printf("Series checks passed: %d\n", atomic.LoadInt64(&okRequests))
	fmt.Printf("Report artifacts: %v\n", state.Artifacts)
	fmt.Println("Scenario completed successfully")
}

func writeLog(path string, profiles []loadgen.Profile) error {
	entries, err := loadgen.Generate(loadgen.Options{
		Seed:       seed,
		Start:      startUTC,
		Iterations: iterations,
		Profiles:   profiles,
		PauseEvery: pauseEvery,
		Pause:      pauseFor,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return loadgen.WriteCSV(f, entries)
}

func checkDatabaseSeries(baseURL, db string) error {
	filter := models.FilterSelection{Databases: []string{db}, Operations: operations}

	var bundle seriesResponse
	status, err := doJSON(http.MethodPost, baseURL+"/series", filter, &bundle)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}

	if want := iterations * len(operations); bundle.RecordCount != want {
		return fmt.Errorf("record count %d, want %d", bundle.RecordCount, want)
	}

	total := 0.0
	for _, p := range bundle.PerMinuteCount.Points {
		if p.Y != nil {
			total += *p.Y
		}
	}
	if int(total) != bundle.RecordCount {
		return fmt.Errorf("per-minute total %v, want %d", total, bundle.RecordCount)
	}

	segments := make(map[string]int)
	for _, s := range bundle.RollingDuration {
		segments[s.Group] = max(segments[s.Group], s.Segment+1)
	}
	wantSegments := iterations / pauseEvery
	for group, n := range segments {
		if n != wantSegments {
			return fmt.Errorf("group %s has %d segments, want %d", group, n, wantSegments)
		}
	}
	return nil
}

func doJSON(method, url string, body, out any) (int, error) {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequest(method, url, &payload)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func waitHealthy(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server not healthy after %s", timeout)
}

// findProjectRoot walks up from the working directory until it finds go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("could not find go.mod, run from inside the project")
		}
		dir = parent
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}
