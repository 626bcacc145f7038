package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klabast/wb-services/study-diary/internal/calendar"
)

// Export formats
const (
	FormatICS  = "ics"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// DayRecord is one studied day in an export
type DayRecord struct {
	Date      string            `json:"date"`
	Completed int               `json:"completed"`
	Periods   []calendar.Period `json:"periods"`
}

// Records lists studied days in date order
func Records(progress calendar.ProgressMap) []DayRecord {
	keys := make([]calendar.DateKey, 0, len(progress))
	for k, day := range progress {
		if !day.Empty() {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) < 0
	})

	records := make([]DayRecord, 0, len(keys))
	for _, k := range keys {
		day := progress[k]
		rec := DayRecord{Date: k.ISO(), Completed: day.Count()}
		for _, p := range calendar.Periods() {
			if day.Checked(p) {
				rec.Periods = append(rec.Periods, p)
			}
		}
		records = append(records, rec)
	}
	return records
}

// ContentType returns the MIME type and file extension of format
func ContentType(format string) (string, bool) {
	switch format {
	case FormatICS:
		return "text/calendar; charset=utf-8", true
	case FormatCSV:
		return "text/csv; charset=utf-8", true
	case FormatJSON:
		return "application/json; charset=utf-8", true
	default:
		return "", false
	}
}

// Export writes progress in format
func Export(w io.Writer, format, nickname string, progress calendar.ProgressMap, now time.Time) error {
	switch format {
	case FormatICS:
		GenerateICS(w, nickname, progress, now)
		return nil
	case FormatCSV:
		GenerateCSV(w, progress)
		return nil
	case FormatJSON:
		return GenerateJSON(w, nickname, progress)
	default:
		return fmt.Errorf("%s: %q", ErrInvalidFormat, format)
	}
}

// writeString writes to w and logs any error (helper for ICS generation)
func writeString(w io.Writer, s string) {
	if _, err := fmt.Fprint(w, s); err != nil {
		log.Printf("Error writing export: %v", err)
	}
}

// GenerateICS writes an iCalendar file with one all-day event per studied day
func GenerateICS(w io.Writer, nickname string, progress calendar.ProgressMap, now time.Time) {
	stamp := now.UTC().Format("20060102T150405Z")

	// ICS header
	writeString(w, "BEGIN:VCALENDAR\r\n")
	writeString(w, "VERSION:2.0\r\n")
	writeString(w, fmt.Sprintf("PRODID:%s\r\n", ICSProductID))
	writeString(w, fmt.Sprintf("X-WR-CALNAME:학습일지 %s\r\n", nickname))
	writeString(w, fmt.Sprintf("X-WR-TIMEZONE:%s\r\n", ICSTimezone))
	writeString(w, "CALSCALE:GREGORIAN\r\n")

	for _, rec := range Records(progress) {
		start, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			continue
		}

		// UID is stable so re-imports update instead of duplicating
		uid := fmt.Sprintf("%s@study-diary", rec.Date)

		writeString(w, "BEGIN:VEVENT\r\n")
		writeString(w, fmt.Sprintf("UID:%s\r\n", uid))
		writeString(w, fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
		writeString(w, fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", start.Format("20060102")))
		writeString(w, fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", start.AddDate(0, 0, 1).Format("20060102")))
		writeString(w, fmt.Sprintf("SUMMARY:학습 %d/%d교시\r\n", rec.Completed, calendar.PeriodsPerDay))
		writeString(w, fmt.Sprintf("DESCRIPTION:완료: %s\r\n", periodList(rec.Periods, "\\, ")))
		writeString(w, "END:VEVENT\r\n")
	}

	writeString(w, "END:VCALENDAR\r\n")
}

// GenerateCSV writes one row per studied day
func GenerateCSV(w io.Writer, progress calendar.ProgressMap) {
	writeString(w, "date,completed,periods\n")
	for _, rec := range Records(progress) {
		writeString(w, fmt.Sprintf("%s,%d,%s\n", rec.Date, rec.Completed, periodList(rec.Periods, ";")))
	}
}

// GenerateJSON writes the studied days as a JSON document
func GenerateJSON(w io.Writer, nickname string, progress calendar.ProgressMap) error {
	data := map[string]interface{}{
		"nickname":        nickname,
		"periods_per_day": calendar.PeriodsPerDay,
		"days":            Records(progress),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

func periodList(periods []calendar.Period, sep string) string {
	parts := make([]string, len(periods))
	for i, p := range periods {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, sep)
}
