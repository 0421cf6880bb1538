package tabular

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore backs the tabular contract with one Google Spreadsheet: every
// table is a worksheet whose first row holds the column names.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetId string
}

// NewSheetsStore authenticates with a service-account credentials file and
// binds to the given spreadsheet.
func NewSheetsStore(ctx context.Context, spreadsheetId, credentialsFile string) (*SheetsStore, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheets credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsStore{svc: svc, spreadsheetId: spreadsheetId}, nil
}

func (s *SheetsStore) Read(ctx context.Context, table string) ([]Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetId, table).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return nil, &TableNotFoundError{Table: table}
		}
		err := fmt.Errorf("could not read table %q: %w", table, err)
		log.Error(err)
		return nil, err
	}

	if len(resp.Values) == 0 {
		return []Row{}, nil
	}

	header := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		header = append(header, fmt.Sprint(cell))
	}

	rows := make([]Row, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := Row{}
		for i, column := range header {
			if i < len(raw) {
				row[column] = fmt.Sprint(raw[i])
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *SheetsStore) Write(ctx context.Context, table string, columns []string, rows []Row) error {
	values := make([][]interface{}, 0, len(rows)+1)

	header := make([]interface{}, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	values = append(values, header)

	for _, row := range rows {
		cells := make([]interface{}, len(columns))
		for i, column := range columns {
			cells[i] = row[column]
		}
		values = append(values, cells)
	}

	// Clear first so a shrinking table leaves no stale rows behind.
	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetId, table, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return &TableNotFoundError{Table: table}
		}
		err := fmt.Errorf("could not clear table %q: %w", table, err)
		log.Error(err)
		return err
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetId, table, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		err := fmt.Errorf("could not write table %q: %w", table, err)
		log.Error(err)
		return err
	}
	return nil
}

// isMissingSheet detects the API error the Sheets backend returns when a range
// references a worksheet that does not exist. That comes back as a 404 or as a
// 400 "Unable to parse range"; other 400s are unrelated bad requests.
func isMissingSheet(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == 404 {
		return true
	}
	return apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range")
}
