package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
)

var ErrInvalidSpreadsheetURL = errors.New("not a Google Sheets URL (expected https://docs.google.com/spreadsheets/d/...)")

var (
	sheetURL    = regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	exportPath  = regexp.MustCompile(`/export\b`)
	csvFormatQS = regexp.MustCompile(`[?&]format=csv`)
)

// ExportURL converts a Google Sheets link into its CSV export link. Links that
// already export CSV are returned unchanged.
func ExportURL(url string) (string, error) {
	trimmed := strings.TrimSpace(url)
	match := sheetURL.FindStringSubmatch(trimmed)
	if match == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSpreadsheetURL, trimmed)
	}

	if exportPath.MatchString(trimmed) && csvFormatQS.MatchString(trimmed) {
		return trimmed, nil
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", match[1]), nil
}

// LoadSpreadsheet downloads a public spreadsheet as CSV and parses it with
// ParseCSV.
func LoadSpreadsheet(ctx context.Context, client *http.Client, url string) ([]Player, []string, error) {
	exportURL, err := ExportURL(url)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch spreadsheet, check that it is shared publicly: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, nil, fmt.Errorf("failed to fetch spreadsheet (HTTP %d), check that it is shared publicly", resp.StatusCode)
	}

	return ParseCSV(resp.Body)
}
