package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"dbperf-analytics/internal/loadgen"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("loggen", pflag.ExitOnError)
	seed := flags.Uint64("seed", 1, "Random seed; equal seeds produce equal logs")
	iterations := flags.IntP("iterations", "n", 100, "Iterations per database worker")
	databases := flags.StringSlice("databases", nil, "Databases to simulate (default oracle,postgres,mysql)")
	start := flags.String("start", "2025-02-03T10:00:00Z", "Start time (RFC3339)")
	pauseEvery := flags.Int("pause-every", 0, "Insert an idle pause after every n-th iteration (0 disables)")
	pause := flags.Duration("pause", 10*time.Minute, "Length of each idle pause")
	output := flags.StringP("output", "o", "", "Output CSV path (default stdout)")
	_ = flags.Parse(os.Args[1:])

	if err := run(*seed, *iterations, *databases, *start, *pauseEvery, *pause, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(seed uint64, iterations int, databases []string, start string, pauseEvery int, pause time.Duration, output string) error {
	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return fmt.Errorf("invalid start time: %w", err)
	}

	entries, err := loadgen.Generate(loadgen.Options{
		Seed:       seed,
		Start:      startTime,
		Iterations: iterations,
		Profiles:   selectProfiles(databases),
		PauseEvery: pauseEvery,
		Pause:      pause,
	})
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := loadgen.WriteCSV(w, entries); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Generated %d records\n", len(entries))
	return nil
}

// selectProfiles keeps the default profile for known names and derives one for the rest.
func selectProfiles(databases []string) []loadgen.Profile {
	defaults := loadgen.DefaultProfiles()
	if len(databases) == 0 {
		return defaults
	}

	profiles := make([]loadgen.Profile, 0, len(databases))
	for i, name := range databases {
		profile := defaults[i%len(defaults)]
		for _, d := range defaults {
			if d.Database == name {
				profile = d
			}
		}
		profile.Database = name
		profiles = append(profiles, profile)
	}
	return profiles
}
