package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/klabast/wb-services/study-diary/internal/calendar"
)

var exportProgress = calendar.ProgressMap{
	{Year: 2025, Month: 0, Day: 20}: {false, true},
	{Year: 2025, Month: 0, Day: 15}: {true, false, true, false, false, true},
}

func TestGenerateICS(t *testing.T) {
	var buf bytes.Buffer
	GenerateICS(&buf, "공부왕", exportProgress, time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC))
	body := buf.String()

	// Check for required ICS structure
	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ICSProductID,
		"X-WR-CALNAME:학습일지 공부왕",
		"BEGIN:VEVENT",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(body, field) {
			t.Errorf("ICS output missing required field: %s", field)
		}
	}

	// Check for all-day event format
	if !strings.Contains(body, "DTSTART;VALUE=DATE:20250115") {
		t.Error("Event should be all-day (DTSTART;VALUE=DATE)")
	}
	if !strings.Contains(body, "DTEND;VALUE=DATE:20250116") {
		t.Error("All-day event should end on next day")
	}
	if !strings.Contains(body, "DTSTAMP:20250201T120000Z") {
		t.Error("DTSTAMP should use the export time in UTC")
	}

	if !strings.Contains(body, "SUMMARY:학습 3/6교시") {
		t.Error("Missing summary for 15 January")
	}
	if !strings.Contains(body, "DESCRIPTION:완료: 1\\, 3\\, 6") {
		t.Error("Commas in DESCRIPTION must be escaped")
	}

	// Events come out in date order
	if strings.Index(body, "UID:2025-01-15@study-diary") > strings.Index(body, "UID:2025-01-20@study-diary") {
		t.Error("Events should be sorted by date")
	}

	if got := strings.Count(body, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("Expected 2 events, got %d", got)
	}
}

func TestGenerateICSEmpty(t *testing.T) {
	var buf bytes.Buffer
	GenerateICS(&buf, "n", calendar.ProgressMap{}, time.Now())

	if strings.Contains(buf.String(), "BEGIN:VEVENT") {
		t.Error("Empty progress should produce no events")
	}
	if !strings.HasSuffix(buf.String(), "END:VCALENDAR\r\n") {
		t.Error("Calendar must be closed")
	}
}

func TestGenerateCSV(t *testing.T) {
	var buf bytes.Buffer
	GenerateCSV(&buf, exportProgress)

	want := "date,completed,periods\n2025-01-15,3,1;3;6\n2025-01-20,1,2\n"
	if buf.String() != want {
		t.Errorf("GenerateCSV() = %q, want %q", buf.String(), want)
	}
}

func TestGenerateJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateJSON(&buf, "공부왕", exportProgress); err != nil {
		t.Fatalf("GenerateJSON() failed: %v", err)
	}

	var doc struct {
		Nickname      string      `json:"nickname"`
		PeriodsPerDay int         `json:"periods_per_day"`
		Days          []DayRecord `json:"days"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if doc.Nickname != "공부왕" || doc.PeriodsPerDay != 6 {
		t.Errorf("Unexpected header: %+v", doc)
	}
	if len(doc.Days) != 2 || doc.Days[0].Date != "2025-01-15" || doc.Days[0].Completed != 3 {
		t.Errorf("Unexpected days: %+v", doc.Days)
	}
}

func TestExportFormats(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{FormatICS, false},
		{FormatCSV, false},
		{FormatJSON, false},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Export(&buf, tt.format, "n", exportProgress, time.Now())
			if (err != nil) != tt.wantErr {
				t.Errorf("Export(%s) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if _, ok := ContentType(tt.format); ok == tt.wantErr {
				t.Errorf("ContentType(%s) ok = %v", tt.format, ok)
			}
		})
	}
}
