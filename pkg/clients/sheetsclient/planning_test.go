package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanningGrid(t *testing.T) {
	published := &PublishedPlanning{
		TabTitle: "Planning 2025-01-06",
		Weeks: []PublishedWeek{
			{
				Title:   "Week 1 · 2025-01-06 → 2025-01-07",
				Columns: []string{"Mon 2025-01-06", "Tue 2025-01-07"},
				Rows: []PublishedRow{
					{
						Title: "Alice (8/40h)",
						Cells: [][]PublishedTag{
							{{Text: "Morning · Sniper (06:00-14:30)", Background: "#ef4444", Foreground: "#ffffff"}},
							nil,
						},
					},
				},
			},
			{
				Title:   "Week 2 · 2025-01-13 → 2025-01-13",
				Columns: []string{"Mon 2025-01-13"},
				Rows: []PublishedRow{
					{
						Title: "Alice (16/40h)",
						Cells: [][]PublishedTag{
							{
								{Text: "Morning · Sniper (06:00-14:30)", Background: "#ef4444", Foreground: "#ffffff"},
								{Text: "Night · Sniper (22:00-06:00)", Background: "#22d3ee", Foreground: "#000000"},
							},
						},
					},
				},
			},
		},
	}

	values, formats := buildPlanningGrid(published)

	require.Len(t, values, 7)
	assert.Equal(t, []interface{}{"Week 1 · 2025-01-06 → 2025-01-07"}, values[0])
	assert.Equal(t, []interface{}{rowHeaderTitle, "Mon 2025-01-06", "Tue 2025-01-07"}, values[1])
	assert.Equal(t, []interface{}{"Alice (8/40h)", "Morning · Sniper (06:00-14:30)", "-"}, values[2])
	assert.Empty(t, values[3], "weeks are separated by an empty row")
	assert.Equal(t, []interface{}{"Week 2 · 2025-01-13 → 2025-01-13"}, values[4])
	assert.Equal(t, "Morning · Sniper (06:00-14:30)\nNight · Sniper (22:00-06:00)", values[6][1])

	var coloured []cellFormat
	for _, f := range formats {
		if f.Background != "" {
			coloured = append(coloured, f)
		}
	}
	require.Len(t, coloured, 2)
	assert.Equal(t, cellFormat{Row: 2, Col: 1, Background: "#ef4444", Foreground: "#ffffff"}, coloured[0])
	assert.Equal(t, cellFormat{Row: 6, Col: 1, Background: "#ef4444", Foreground: "#ffffff"}, coloured[1])
}

func TestBuildPlanningGrid_Empty(t *testing.T) {
	values, formats := buildPlanningGrid(&PublishedPlanning{TabTitle: "Planning"})
	assert.Empty(t, values)
	assert.Empty(t, formats)
}

func TestFormatRequests(t *testing.T) {
	requests := formatRequests(42, []cellFormat{
		{Row: 0, Col: 0, Bold: true},
		{Row: 3, Col: 2, Background: "#ffffff", Foreground: "#000000"},
	})

	require.Len(t, requests, 2)

	header := requests[0].RepeatCell
	require.NotNil(t, header)
	assert.Equal(t, int64(42), header.Range.SheetId)
	assert.True(t, header.Cell.UserEnteredFormat.TextFormat.Bold)
	assert.Nil(t, header.Cell.UserEnteredFormat.BackgroundColor)
	assert.NotContains(t, header.Fields, "backgroundColor")

	cell := requests[1].RepeatCell
	require.NotNil(t, cell)
	assert.Equal(t, int64(3), cell.Range.StartRowIndex)
	assert.Equal(t, int64(4), cell.Range.EndRowIndex)
	assert.Equal(t, int64(2), cell.Range.StartColumnIndex)
	assert.Equal(t, int64(3), cell.Range.EndColumnIndex)
	assert.Contains(t, cell.Fields, "backgroundColor")
	assert.InDelta(t, 1.0, cell.Cell.UserEnteredFormat.BackgroundColor.Red, 1e-9)
	assert.InDelta(t, 0.0, cell.Cell.UserEnteredFormat.TextFormat.ForegroundColor.Red, 1e-9)
}

func TestHexToColor(t *testing.T) {
	c := hexToColor("#ff8000")
	assert.InDelta(t, 1.0, c.Red, 1e-9)
	assert.InDelta(t, 128.0/255, c.Green, 1e-9)
	assert.InDelta(t, 0.0, c.Blue, 1e-9)

	black := hexToColor("not-a-colour")
	assert.Zero(t, black.Red)
	assert.Zero(t, black.Green)
	assert.Zero(t, black.Blue)
}
