package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type SearchRecord struct {
	ID   int
	Seed uint32
	SearchMetric
}

type CandidateRecord struct {
	Search   int    // SearchRecord.ID
	Ranking  string // "mean" or "variance"
	Rank     int
	Order    []int
	Mean     float64
	Variance float64
	P10      float64
	P90      float64
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named by the current timestamp.
func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSearchRecords(records []SearchRecord) error {
	header := []string{"id", "seed", "goroutines", "candidates", "games_per_candidate", "duration", "evaluated", "games_simulated"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.FormatUint(uint64(record.Seed), 10),
			strconv.Itoa(record.Goroutines),
			strconv.Itoa(record.Candidates),
			strconv.Itoa(record.GamesPerCandidate),
			record.Duration.String(),
			strconv.Itoa(record.Evaluated),
			strconv.Itoa(record.GamesSimulated),
		})
	}
	return w.write("search_records.csv", header, rows)
}

func (w *Writer) WriteCandidateRecords(records []CandidateRecord) error {
	header := []string{"search", "ranking", "rank", "order", "mean", "variance", "p10", "p90"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		order := make([]string, len(record.Order))
		for i, idx := range record.Order {
			order[i] = strconv.Itoa(idx)
		}
		rows = append(rows, []string{
			strconv.Itoa(record.Search),
			record.Ranking,
			strconv.Itoa(record.Rank),
			strings.Join(order, " "),
			formatFloat(record.Mean),
			formatFloat(record.Variance),
			formatFloat(record.P10),
			formatFloat(record.P90),
		})
	}
	return w.write("candidate_records.csv", header, rows)
}

// WriteDistribution stores a run-total histogram, one row per run total.
func (w *Writer) WriteDistribution(distribution []int) error {
	header := []string{"runs", "games"}
	rows := make([][]string, 0, len(distribution))
	for runs, count := range distribution {
		rows = append(rows, []string{strconv.Itoa(runs), strconv.Itoa(count)})
	}
	return w.write("distribution.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	// Create a file
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}

	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
