package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dottedTimePattern  = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})\s+(\d{2}):(\d{2})(?::(\d{2}))?`)
	dashedTimePattern  = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})\s+(\d{2}):(\d{2})(?::(\d{2}))?`)
	slashedTimePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{2}):(\d{2})(?::(\d{2}))?`)
)

// excelEpoch is day zero of spreadsheet serial dates. Serial 1 is 1900-01-01 and
// the format counts a 29 February 1900 that never existed, hence 30 December.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseTerminalTime reads the terminal timestamp "2024.12.24 05:48[:00]".
// Report timestamps carry no zone; they are returned as UTC wall clock times.
func ParseTerminalTime(s string) (time.Time, bool) {
	match := dottedTimePattern.FindStringSubmatch(s)
	if match == nil {
		return time.Time{}, false
	}

	return buildTime(match[1], match[2], match[3], match[4], match[5], match[6])
}

// ParseSheetTime reads a spreadsheet timestamp. Text formats are tried before
// serial numbers so "2025.11.12" is never read as the number 2025.11.
// Order: dotted, dashed, US slashed, then a serial day count when s has no separators.
func ParseSheetTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := ParseTerminalTime(s); ok {
		return t, true
	}

	if match := dashedTimePattern.FindStringSubmatch(s); match != nil {
		return buildTime(match[1], match[2], match[3], match[4], match[5], match[6])
	}

	if match := slashedTimePattern.FindStringSubmatch(s); match != nil {
		return buildTime(match[3], match[1], match[2], match[4], match[5], match[6])
	}

	if strings.ContainsAny(s, "./-:") {
		return time.Time{}, false
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 1 || serial >= 100000 {
		return time.Time{}, false
	}

	return ExcelSerialTime(serial), true
}

// ExcelSerialTime converts a serial day count to a UTC time, keeping the fractional day.
func ExcelSerialTime(serial float64) time.Time {
	return excelEpoch.Add(time.Duration(serial * float64(24*time.Hour))).Round(time.Second)
}

func buildTime(year, month, day, hour, minute, second string) (time.Time, bool) {
	parts := make([]int, 6)

	for i, raw := range []string{year, month, day, hour, minute, second} {
		if raw == "" {
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, false
		}

		parts[i] = n
	}

	if parts[1] < 1 || parts[1] > 12 || parts[2] < 1 || parts[2] > 31 || parts[3] > 23 || parts[4] > 59 || parts[5] > 59 {
		return time.Time{}, false
	}

	return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC), true
}
