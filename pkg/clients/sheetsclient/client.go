package sheetsclient

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
	ctx     context.Context
}

// NewClient creates a Sheets client authenticated with a service account key file.
// The spreadsheet must be shared with the service account's email address.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return NewClientWithTokenSource(ctx, creds.TokenSource)
}

// NewClientWithTokenSource creates a Sheets client from an existing token source
func NewClientWithTokenSource(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		ctx:     ctx,
	}, nil
}

// UpdateValues overwrites a range starting at the given cell
func (c *Client) UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, sheetRange, valueRange).
		ValueInputOption("RAW").
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update values: %w", err)
	}

	return nil
}

// FindSheet returns the ID of the tab with the given title
func (c *Client) FindSheet(spreadsheetID, sheetTitle string) (int64, bool, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(c.ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetTitle {
			return sheet.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

// CreateSheet creates a new sheet/tab in the spreadsheet
func (c *Client) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	req := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: sheetTitle,
			},
		},
	}

	resp, err := c.batchUpdate(spreadsheetID, []*sheets.Request{req})
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unexpected response from create sheet")
	}

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// ClearSheet removes every value and format from a tab
func (c *Client) ClearSheet(spreadsheetID string, sheetID int64) error {
	req := &sheets.Request{
		UpdateCells: &sheets.UpdateCellsRequest{
			Range:  &sheets.GridRange{SheetId: sheetID},
			Fields: "userEnteredValue,userEnteredFormat",
		},
	}

	if _, err := c.batchUpdate(spreadsheetID, []*sheets.Request{req}); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}
	return nil
}

func (c *Client) batchUpdate(spreadsheetID string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}
	return c.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdateRequest).Context(c.ctx).Do()
}
