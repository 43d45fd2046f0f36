package player

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

var ErrInvalidHeader = errors.New("invalid stats header")

var Header = []string{"id", "name", "team", "position", "pa", "single", "double", "triple", "hr", "bb", "hbp", "so"}

var bom = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads player stats with the columns in Header. Rows that fail
// validation are skipped and reported as line-numbered warnings. A header
// mismatch fails the whole read with ErrInvalidHeader; an empty input yields
// no players and no error.
func ParseCSV(r io.Reader) ([]Player, []string, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(bom)); err == nil && bytes.Equal(prefix, bom) {
		br.Discard(len(bom))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := nextRecord(reader)
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if got := normalizeHeader(header); got != strings.Join(Header, ",") {
		return nil, nil, fmt.Errorf("%w: want %s, got %s", ErrInvalidHeader, strings.Join(Header, ","), got)
	}

	var players []Player
	var warnings []string
	for {
		record, err := nextRecord(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read stats: %w", err)
		}

		line, _ := reader.FieldPos(0)
		p, err := parseRow(record)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		players = append(players, p)
	}

	return players, warnings, nil
}

// nextRecord skips lines that hold only whitespace.
func nextRecord(reader *csv.Reader) ([]string, error) {
	for {
		record, err := reader.Read()
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		return record, nil
	}
}

func normalizeHeader(header []string) string {
	cols := make([]string, len(header))
	for i, c := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(width.Fold.String(c)))
	}
	return strings.Join(cols, ",")
}

func parseRow(record []string) (Player, error) {
	if len(record) != len(Header) {
		return Player{}, fmt.Errorf("got %d columns, want %d", len(record), len(Header))
	}
	for i := range record {
		// Japanese sheets often carry full-width digits and spaces.
		record[i] = strings.TrimSpace(width.Fold.String(record[i]))
	}

	var p Player
	p.Name, p.Team, p.Position = record[1], record[2], record[3]

	numeric := []struct {
		field *int
		value string
	}{
		{&p.ID, record[0]},
		{&p.PA, record[4]},
		{&p.Single, record[5]},
		{&p.Double, record[6]},
		{&p.Triple, record[7]},
		{&p.HR, record[8]},
		{&p.BB, record[9]},
		{&p.HBP, record[10]},
		{&p.SO, record[11]},
	}
	for _, n := range numeric {
		v, err := strconv.Atoi(n.value)
		if err != nil {
			return Player{}, fmt.Errorf("invalid numeric field %q", n.value)
		}
		*n.field = v
	}

	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

// WriteCSV writes players with a Header row.
func WriteCSV(w io.Writer, players []Player) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range players {
		row := []string{
			strconv.Itoa(p.ID), p.Name, p.Team, p.Position,
			strconv.Itoa(p.PA), strconv.Itoa(p.Single), strconv.Itoa(p.Double), strconv.Itoa(p.Triple),
			strconv.Itoa(p.HR), strconv.Itoa(p.BB), strconv.Itoa(p.HBP), strconv.Itoa(p.SO),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write player %d: %w", p.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
