package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const ISODateFormat = "2006-01-02"

// MonthFolderFormat is the layout of input month directories, e.g. "August 2025".
const MonthFolderFormat = "January 2006"

var monthNumbers = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

var (
	dmySlashRe = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	dmyTextRe  = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`)
	isoRe      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	periodRe   = regexp.MustCompile(`([A-Z]+)\s*-\s*(\d{4})`)
)

// NormalizeDate converts the date formats seen across statements
// (DD/MM/YYYY, D/M/YY, "14 Apr 2025", YYYY-MM-DD) to YYYY-MM-DD.
// Unrecognized input is returned unchanged so it still surfaces in logs.
func NormalizeDate(dateStr string) string {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return ""
	}

	if m := isoRe.FindString(s); m != "" {
		return m
	}

	if m := dmySlashRe.FindStringSubmatch(s); m != nil {
		day, month, year := m[1], m[2], m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
	}

	if m := dmyTextRe.FindStringSubmatch(s); m != nil {
		day, monthName, year := m[1], m[2], m[3]
		month, ok := monthNumber(monthName)
		if !ok {
			return dateStr
		}
		return fmt.Sprintf("%s-%s-%s", year, month, pad2(day))
	}

	return dateStr
}

// FindFirstDate scans free text for the first recognizable date and returns
// it normalized, or "" when none is present.
func FindFirstDate(text string) string {
	if m := dmySlashRe.FindString(text); m != "" {
		return NormalizeDate(m)
	}
	if m := dmyTextRe.FindString(text); m != "" {
		return NormalizeDate(m)
	}
	if m := isoRe.FindString(text); m != "" {
		return m
	}
	return ""
}

// MonthEndFromPeriod turns a statement period like "AUGUST - 2025" into the
// last day of that month, the convention used for report dates.
func MonthEndFromPeriod(period string) string {
	m := periodRe.FindStringSubmatch(strings.ToUpper(period))
	if m == nil {
		return ""
	}
	monthName, year := m[1], m[2]
	num, ok := monthNumber(monthName)
	if !ok {
		return ""
	}
	t, err := time.Parse("2006-01", year+"-"+num)
	if err != nil {
		return ""
	}
	lastDay := t.AddDate(0, 1, -1)
	return lastDay.Format(ISODateFormat)
}

// ParseMonthFolder parses an input directory name like "August 2025".
func ParseMonthFolder(name string) (time.Time, error) {
	return time.Parse(MonthFolderFormat, strings.TrimSpace(name))
}

// MonthEnd returns the last day of t's month in ISO form. Statements that do
// not print a report date are dated to the end of their statement month.
func MonthEnd(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Format(ISODateFormat)
}

func monthNumber(name string) (string, bool) {
	lowered := strings.ToLower(name)
	if len(lowered) < 3 {
		return "", false
	}
	num, ok := monthNumbers[lowered[:3]]
	return num, ok
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
