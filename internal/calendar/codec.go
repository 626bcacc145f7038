package calendar

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// EncodeProgress serializes m as {"<year>-<monthIndex>-<day>": {"<period>": true}}.
// Only checked periods are written; empty days are skipped.
func EncodeProgress(m ProgressMap) (string, error) {
	doc := make(map[string]map[string]bool, len(m))
	for key, day := range m {
		if day.Empty() {
			continue
		}
		periods := make(map[string]bool, PeriodsPerDay)
		for _, p := range Periods() {
			if day.Checked(p) {
				periods[strconv.Itoa(int(p))] = true
			}
		}
		doc[key.String()] = periods
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode progress: %w", err)
	}
	return string(data), nil
}

// DecodeProgress parses persisted progress. It fails with ErrMalformedData only
// when the document itself is not a JSON object; bad date keys, out-of-range
// periods, non-boolean values and empty days are dropped and counted.
func DecodeProgress(data string) (ProgressMap, int, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return ProgressMap{}, 0, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	m := make(ProgressMap, len(doc))
	dropped := 0
	for rawKey, rawDay := range doc {
		key, err := ParseDateKey(rawKey)
		if err != nil {
			dropped++
			continue
		}

		var periods map[string]json.RawMessage
		if err := json.Unmarshal(rawDay, &periods); err != nil {
			dropped++
			continue
		}

		var day DayProgress
		for rawPeriod, rawValue := range periods {
			n, err := strconv.Atoi(rawPeriod)
			if err != nil || !Period(n).Valid() {
				dropped++
				continue
			}
			var checked bool
			if err := json.Unmarshal(rawValue, &checked); err != nil || string(rawValue) == "null" {
				dropped++
				continue
			}
			day[n-1] = checked
		}

		if day.Empty() {
			// legacy data keeps unchecked periods around; nothing to restore
			continue
		}
		m[key] = day
	}
	return m, dropped, nil
}
