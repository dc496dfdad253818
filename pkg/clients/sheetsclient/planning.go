package sheetsclient

import (
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/turnify/pkg/utils"
)

// PublishedTag is one assignment inside a published cell
type PublishedTag struct {
	Text       string
	Background string // "#rrggbb"
	Foreground string // "#rrggbb"
}

// PublishedRow is one employee (or uncovered role) across a week
type PublishedRow struct {
	Title string // label with worked/expected hours
	Cells [][]PublishedTag
}

// PublishedWeek is one week block of the published planning
type PublishedWeek struct {
	Title   string
	Columns []string // e.g. "Mon 2025-01-06"
	Rows    []PublishedRow
}

// PublishedPlanning represents the complete published planning data
type PublishedPlanning struct {
	TabTitle string
	Weeks    []PublishedWeek
}

// cellFormat is the colouring of a single grid cell, zero-indexed
type cellFormat struct {
	Row        int
	Col        int
	Background string
	Foreground string
	Bold       bool
}

const rowHeaderTitle = "Employee (worked/expected h)"

// PublishPlanning writes the planning to its tab, creating the tab if needed.
// An existing tab is cleared first so stale weeks do not linger.
func (c *Client) PublishPlanning(spreadsheetID string, published *PublishedPlanning) error {
	sheetID, found, err := c.FindSheet(spreadsheetID, published.TabTitle)
	if err != nil {
		return err
	}

	if found {
		if err := c.ClearSheet(spreadsheetID, sheetID); err != nil {
			return err
		}
	} else {
		sheetID, err = c.CreateSheet(spreadsheetID, published.TabTitle)
		if err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	values, formats := buildPlanningGrid(published)

	if err := c.UpdateValues(spreadsheetID, fmt.Sprintf("'%s'!A1", published.TabTitle), values); err != nil {
		return fmt.Errorf("failed to write planning: %w", err)
	}

	if len(formats) == 0 {
		return nil
	}
	if _, err := c.batchUpdate(spreadsheetID, formatRequests(sheetID, formats)); err != nil {
		return fmt.Errorf("failed to format planning: %w", err)
	}
	return nil
}

// buildPlanningGrid lays the weeks out top to bottom with an empty row between
// them. Each week is a title row, a header row and one row per employee.
func buildPlanningGrid(published *PublishedPlanning) ([][]interface{}, []cellFormat) {
	var values [][]interface{}
	var formats []cellFormat

	for i, week := range published.Weeks {
		if i > 0 {
			values = append(values, []interface{}{})
		}

		formats = append(formats, cellFormat{Row: len(values), Col: 0, Bold: true})
		values = append(values, []interface{}{week.Title})

		header := []interface{}{rowHeaderTitle}
		for _, column := range week.Columns {
			header = append(header, column)
		}
		for col := range header {
			formats = append(formats, cellFormat{Row: len(values), Col: col, Bold: true})
		}
		values = append(values, header)

		for _, row := range week.Rows {
			sheetRow := []interface{}{row.Title}
			for col, tags := range row.Cells {
				if len(tags) == 0 {
					sheetRow = append(sheetRow, "-")
					continue
				}
				texts := make([]string, 0, len(tags))
				for _, tag := range tags {
					texts = append(texts, tag.Text)
				}
				sheetRow = append(sheetRow, strings.Join(texts, "\n"))

				// A cell has a single background; the first assignment sets it
				formats = append(formats, cellFormat{
					Row:        len(values),
					Col:        col + 1,
					Background: tags[0].Background,
					Foreground: tags[0].Foreground,
				})
			}
			values = append(values, sheetRow)
		}
	}

	return values, formats
}

func formatRequests(sheetID int64, formats []cellFormat) []*sheets.Request {
	requests := make([]*sheets.Request, 0, len(formats))
	for _, f := range formats {
		format := &sheets.CellFormat{
			TextFormat:   &sheets.TextFormat{Bold: f.Bold},
			WrapStrategy: "WRAP",
		}
		fields := "userEnteredFormat(textFormat,wrapStrategy)"

		if f.Background != "" {
			format.BackgroundColor = hexToColor(f.Background)
			format.TextFormat.ForegroundColor = hexToColor(f.Foreground)
			fields = "userEnteredFormat(backgroundColor,textFormat,wrapStrategy)"
		}

		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(f.Row),
					EndRowIndex:      int64(f.Row + 1),
					StartColumnIndex: int64(f.Col),
					EndColumnIndex:   int64(f.Col + 1),
				},
				Cell:   &sheets.CellData{UserEnteredFormat: format},
				Fields: fields,
			},
		})
	}
	return requests
}

// hexToColor converts "#rrggbb" to a Sheets colour; unparseable values become black
func hexToColor(hex string) *sheets.Color {
	c, _ := utils.ParseHexColor(hex)
	return &sheets.Color{
		Red:   float64(c.R) / 255,
		Green: float64(c.G) / 255,
		Blue:  float64(c.B) / 255,
	}
}
