// Package loadgen produces synthetic performance logs in the format written by the
// database test harness: one worker per database repeating connect, select, insert,
// update, delete and commit, then sleeping for its interval.
package loadgen

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"
)

var ErrInvalidOptions = errors.New("invalid generator options")

// cycle is the operation sequence of one worker iteration after connect.
var cycle = []string{"select", "insert", "update", "delete", "commit"}

const OperationConnect = "connect"

// Profile describes one simulated database worker. Durations are means in milliseconds.
type Profile struct {
	Database  string
	Interval  time.Duration
	ConnectMs float64
	QueryMs   float64
}

type Options struct {
	Seed       uint64
	Start      time.Time
	Iterations int
	Profiles   []Profile
	// PauseEvery inserts an idle Pause after every n-th iteration of each worker. 0 disables.
	PauseEvery int
	Pause      time.Duration
}

// Entry is one CSV row. TimeBetweenMs is measured from the start of the previous
// operation of the same connection and is 0 for connect.
type Entry struct {
	Database      string
	Operation     string
	Timestamp     time.Time
	DurationMs    int64
	TimeBetweenMs int64
}

func DefaultProfiles() []Profile {
	return []Profile{
		{Database: "oracle", Interval: time.Second, ConnectMs: 180, QueryMs: 12},
		{Database: "postgres", Interval: 1500 * time.Millisecond, ConnectMs: 60, QueryMs: 6},
		{Database: "mysql", Interval: 2 * time.Second, ConnectMs: 40, QueryMs: 8},
	}
}

func (o Options) validate() error {
	if o.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1", ErrInvalidOptions)
	}
	if len(o.Profiles) == 0 {
		return fmt.Errorf("%w: at least one database profile is required", ErrInvalidOptions)
	}
	if o.PauseEvery < 0 || o.Pause < 0 {
		return fmt.Errorf("%w: pause settings cannot be negative", ErrInvalidOptions)
	}
	for _, p := range o.Profiles {
		if p.Database == "" {
			return fmt.Errorf("%w: database name cannot be empty", ErrInvalidOptions)
		}
		if p.Interval < 0 || p.ConnectMs <= 0 || p.QueryMs <= 0 {
			return fmt.Errorf("%w: profile %q needs positive durations", ErrInvalidOptions, p.Database)
		}
	}
	return nil
}

// Generate simulates every worker and returns the entries ordered by timestamp,
// the order in which a shared log file would receive them. The same options always
// produce the same entries.
func Generate(opts Options) ([]Entry, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, opts.Iterations*(len(cycle)+1)*len(opts.Profiles))
	for i, profile := range opts.Profiles {
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))
		// stagger worker start so that connects do not collide
		clock := opts.Start.Add(time.Duration(i*37) * time.Millisecond)
		entries = simulate(entries, rng, profile, opts, clock)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func simulate(entries []Entry, rng *rand.Rand, p Profile, opts Options, clock time.Time) []Entry {
	for iter := 0; iter < opts.Iterations; iter++ {
		connectStart := clock
		connectMs := sample(rng, p.ConnectMs)
		cursor := connectStart.Add(ms(connectMs))
		entries = append(entries, Entry{
			Database:   p.Database,
			Operation:  OperationConnect,
			Timestamp:  cursor,
			DurationMs: connectMs,
		})

		last := connectStart
		for _, op := range cycle {
			start := cursor.Add(ms(rng.Int64N(3)))
			durationMs := sample(rng, p.QueryMs)
			cursor = start.Add(ms(durationMs))
			entries = append(entries, Entry{
				Database:      p.Database,
				Operation:     op,
				Timestamp:     cursor,
				DurationMs:    durationMs,
				TimeBetweenMs: start.Sub(last).Milliseconds(),
			})
			last = start
		}

		clock = cursor.Add(p.Interval)
		if opts.PauseEvery > 0 && (iter+1)%opts.PauseEvery == 0 {
			clock = clock.Add(opts.Pause)
		}
	}
	return entries
}

// sample draws a right-skewed duration around mean, never below 1 ms.
func sample(rng *rand.Rand, mean float64) int64 {
	v := mean * (0.5 + 0.5*rng.ExpFloat64())
	return max(1, int64(math.Round(v)))
}

func ms(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}
