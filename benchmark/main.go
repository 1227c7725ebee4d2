// Package main provides a performance benchmarking tool for the metacount CLI.
// It generates synthetic Salesforce projects of increasing size, runs each command
// several times with one worker and with many, treats the first successful run as cold
// and averages the rest as warm, and writes the results to CSV.
//
// Prerequisites:
// - metacount binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic projects are generated
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (single-worker average, cold run and average of warm runs).
type BenchmarkResult struct {
	Project    string
	Command    string
	SerialTime string
	ColdTime   string
	WarmTime   string
}

// ProjectShape controls how many components of each kind a synthetic project has.
type ProjectShape struct {
	Classes    int
	Bundles    int
	Objects    int
	FieldsEach int
	Layouts    int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	Workers    int
	SerialRuns int
	ParRuns    int
	Projects   []string
	Shapes     map[string]ProjectShape
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    os.Args[1],
		Timeout:    5 * time.Minute,
		Workers:    runtime.NumCPU(),
		SerialRuns: 3,
		ParRuns:    4,
		Projects:   []string{"small", "medium", "large"},
		Shapes: map[string]ProjectShape{
			"small":  {Classes: 50, Bundles: 10, Objects: 5, FieldsEach: 10, Layouts: 5},
			"medium": {Classes: 1000, Bundles: 200, Objects: 100, FieldsEach: 30, Layouts: 100},
			"large":  {Classes: 10000, Bundles: 2000, Objects: 800, FieldsEach: 60, Layouts: 800},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	for _, name := range config.Projects {
		fmt.Printf("Generating %s project...\n", name)
		if err := generateProject(filepath.Join(config.WorkDir, name), config.Shapes[name]); err != nil {
			fmt.Printf("Failed to generate %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the metacount binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("metacount"); err != nil {
		return fmt.Errorf("metacount binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// generateProject writes a source-format project with the requested shape.
func generateProject(root string, shape ProjectShape) error {
	if err := os.RemoveAll(root); err != nil {
		return err
	}
	src := filepath.Join(root, "force-app", "main", "default")

	var files []string
	files = append(files, filepath.Join(root, "sfdx-project.json"))
	for i := range shape.Classes {
		base := filepath.Join(src, "classes", fmt.Sprintf("Class%05d.cls", i))
		files = append(files, base, base+"-meta.xml")
	}
	for i := range shape.Bundles {
		dir := filepath.Join(src, "lwc", fmt.Sprintf("cmp%05d", i))
		name := fmt.Sprintf("cmp%05d", i)
		files = append(files,
			filepath.Join(dir, name+".js"),
			filepath.Join(dir, name+".html"),
			filepath.Join(dir, name+".js-meta.xml"))
	}
	for i := range shape.Objects {
		name := fmt.Sprintf("Obj%04d__c", i)
		dir := filepath.Join(src, "objects", name)
		files = append(files, filepath.Join(dir, name+".object-meta.xml"))
		for j := range shape.FieldsEach {
			files = append(files, filepath.Join(dir, "fields", fmt.Sprintf("F%03d__c.field-meta.xml", j)))
		}
	}
	for i := range shape.Layouts {
		files = append(files, filepath.Join(src, "layouts", fmt.Sprintf("Obj%04d__c-Layout.layout-meta.xml", i)))
	}

	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(f, []byte("<x/>\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across generated projects
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d projects, %v timeout, %d workers, serial: %d runs, parallel: %d runs\n",
		len(config.Projects), config.Timeout, config.Workers, config.SerialRuns, config.ParRuns)

	for _, name := range config.Projects {
		fmt.Printf("Benchmarking %s\n", name)
		projectPath := filepath.Join(config.WorkDir, name)

		results = append(results,
			runBenchmarkSuite(config, name, projectPath, "count", "--output json"),
			runBenchmarkSuite(config, name, projectPath, "report", "--output json"))
	}

	return results
}

// runBenchmarkSuite runs both serial and parallel benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, project, projectPath, command, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, project)

	runPhase := func(workers, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, projectPath, command, extraArgs, workers, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: single worker
	_, serialAvg := runPhase(1, config.SerialRuns, "Serial")

	// Phase 2: all workers
	coldTime, warmAvg := runPhase(config.Workers, config.ParRuns, "Parallel")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Serial average: %s, Cold time: %s, Warm average: %s\n", serialAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Project:    project,
		Command:    command,
		SerialTime: serialAvg,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes a metacount command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, projectPath, command, extraArgs string, workers, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, "--workers", fmt.Sprint(workers)}
	if extraArgs != "" {
		args = append(args, strings.Fields(extraArgs)...)
	}

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("metacount", args...)
		cmd.Dir = projectPath

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output looks like a completed JSON result
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, `"total"`) && strings.Contains(outputStr, `"source_root"`)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("metacount_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"project", "cmd", "serial_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Project, result.Command, result.SerialTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "count", "Count:")
	printCommandSummary(results, "report", "Report:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: Serial: %s, Cold: %s, Warm: %s\n", result.Project, result.SerialTime, result.ColdTime, result.WarmTime)
		}
	}
}
