// Package main provides a performance benchmarking tool for the farol CLI.
// It generates synthetic datasets of increasing size, imports each one into a fresh
// SQLite store and times the report commands, running each test multiple times,
// treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - farol binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated datasets and store files (defaults to a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/farolescolar/farol/schema"
	"gopkg.in/yaml.v3"
)

// BenchmarkResult holds the result of a benchmark run (import time, cold run and average of warm runs).
type BenchmarkResult struct {
	Schools    int
	Command    string
	ImportTime string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Year     int
	Sizes    []int
	Commands [][]string
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "farol-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 2 * time.Minute,
		Runs:    4,
		Year:    2024,
		Sizes:   []int{50, 500, 5000},
		Commands: [][]string{
			{"matrix"},
			{"ranking", "--metric", "freq"},
			{"regional-ranking", "--metric", "nps"},
			{"attention"},
			{"series"},
			{"export", "--output", "csv"},
		},
	}

	if _, err := exec.LookPath("farol"); err != nil {
		fmt.Printf("Prerequisites check failed: farol binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks generates, imports and times every configured dataset size.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: sizes %v, %v timeout, %d runs per command\n",
		config.Sizes, config.Timeout, config.Runs)

	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %d schools\n", size)

		datasetPath := filepath.Join(config.WorkDir, fmt.Sprintf("dataset_%d.yaml", size))
		if err := writeDataset(datasetPath, generateDataset(size, config.Year)); err != nil {
			return nil, err
		}
		// Each size starts from an empty store file.
		dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("store_%d.db", size))
		if err := os.Remove(dbPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		env := []string{
			"FAROL_DB_BACKEND=sqlite",
			"FAROL_DB_CONNECT=" + dbPath,
			"FAROL_YEAR=" + fmt.Sprint(config.Year),
		}

		importTime, err := runFarol(config, env, "store", "import", datasetPath)
		if err != nil {
			return nil, fmt.Errorf("import of %d schools failed: %w", size, err)
		}
		importStr := fmt.Sprintf("%.3fs", importTime)

		for _, args := range config.Commands {
			cold, warmAvg := runBenchmark(config, env, args)
			coldStr := "TIMEOUT"
			if cold > 0 {
				coldStr = fmt.Sprintf("%.3fs", cold)
			}
			fmt.Printf("  %-18s Cold: %s, Warm average: %s\n", args[0], coldStr, warmAvg)
			results = append(results, BenchmarkResult{
				Schools:    size,
				Command:    args[0],
				ImportTime: importStr,
				ColdTime:   coldStr,
				WarmTime:   warmAvg,
			})
		}
	}

	return results, nil
}

// runBenchmark executes a farol command multiple times and returns the cold time and warm average.
func runBenchmark(config BenchmarkConfig, env, args []string) (coldTime float64, warmAvg string) {
	var times []float64
	for range config.Runs {
		elapsed, err := runFarol(config, env, args...)
		if err == nil {
			times = append(times, elapsed)
		}
	}
	if len(times) == 0 {
		return 0, "TIMEOUT"
	}
	coldTime = times[0]
	warm := times[1:]
	if len(warm) == 0 {
		return coldTime, "n/a"
	}
	var sum float64
	for _, t := range warm {
		sum += t
	}
	return coldTime, fmt.Sprintf("%.3fs", sum/float64(len(warm)))
}

// runFarol runs the binary once with the given environment, returning the wall time in seconds.
func runFarol(config BenchmarkConfig, env []string, args ...string) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "farol", args...)
	cmd.Env = append(os.Environ(), env...)

	start := time.Now()
	output, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 0, ctx.Err()
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", err, string(output))
	}
	return time.Since(start).Seconds(), nil
}

// generateDataset builds a synthetic dataset with ten schools per regional and one
// record per school for every period of the year.
func generateDataset(schools, year int) *schema.Dataset {
	rng := rand.New(rand.NewPCG(uint64(schools), uint64(year)))
	data := &schema.Dataset{}

	for i := range (schools + 9) / 10 {
		data.Regionals = append(data.Regionals, schema.Regional{
			ID:   fmt.Sprintf("r%d", i+1),
			Name: fmt.Sprintf("Regional %03d", i+1),
		})
	}

	for i := range schools {
		id := fmt.Sprintf("e%d", i+1)
		regional := data.Regionals[i/10]
		data.Schools = append(data.Schools, schema.School{
			ID:         id,
			Name:       fmt.Sprintf("Escola %05d", i+1),
			RegionalID: regional.ID,
		})

		for f := 1; f <= schema.MaxFortnight; f++ {
			data.OpenClass = append(data.OpenClass, schema.OpenClassRecord{
				SchoolID: id, Year: year, Fortnight: f, HasOpenClass: rng.IntN(10) == 0,
			})
			for _, cat := range schema.AllStaffCategories {
				expected := float64(10 + rng.IntN(11))
				data.Attendance = append(data.Attendance, schema.AttendanceRecord{
					SchoolID: id, Category: cat, Year: year, Fortnight: f,
					Worked: expected - float64(rng.IntN(3)), Expected: expected,
				})
			}
			data.Vacancy = append(data.Vacancy, schema.VacancyRecord{
				SchoolID: id, Year: year, Fortnight: f, TotalOpen: rng.IntN(4), DaysOpen: rng.IntN(20),
			})
			data.Routine = append(data.Routine, schema.RoutineRecord{
				SchoolID: id, Year: year, Fortnight: f, Completed: 6 + rng.IntN(5), Goal: 10,
			})
		}

		for m := 1; m <= schema.MaxMonth; m++ {
			data.Quality = append(data.Quality, schema.QualityRecord{
				SchoolID: id, Year: year, Month: m, Score: 2.5 + rng.Float64()*2.5,
			})
			data.Infra = append(data.Infra, schema.InfraRecord{
				SchoolID: id, Year: year, Month: m, Completed: rng.IntN(4) != 0,
			})
			promoters := 40 + rng.Float64()*50
			data.NPS = append(data.NPS, schema.NPSRecord{
				SchoolID: id, Year: year, Month: m,
				PromotersPct: promoters, DetractorsPct: rng.Float64() * (100 - promoters),
			})
		}

		data.Frequency = append(data.Frequency, schema.FrequencyRecord{
			SchoolID: id, Year: year, Result: 80 + rng.Float64()*20,
		})
		data.Targets = append(data.Targets,
			schema.Target{SchoolID: id, RegionalID: regional.ID, Year: year, Metric: schema.FrequencyMetric, Value: 90},
			schema.Target{SchoolID: id, RegionalID: regional.ID, Year: year, Metric: schema.NPSMetric, Value: 50},
		)
	}
	return data
}

// writeDataset encodes the dataset as YAML.
func writeDataset(path string, data *schema.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	enc := yaml.NewEncoder(file)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", path, err)
	}
	return nil
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("farol_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"schools", "cmd", "import_time", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{fmt.Sprint(result.Schools), result.Command, result.ImportTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, args := range config.Commands {
		fmt.Printf("%s:\n", args[0])
		for _, result := range results {
			if result.Command == args[0] {
				fmt.Printf("  %6d schools: Cold: %s, Warm: %s\n", result.Schools, result.ColdTime, result.WarmTime)
			}
		}
	}
}
