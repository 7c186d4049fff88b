package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/crediario/loan-engine/internal/domain/service"
)

// fixedHolidays are the recurring month/day national holidays observed by the
// back office. Movable feasts come in through the holiday file.
var fixedHolidays = [][2]int{
	{1, 1},   // new year
	{4, 21},  // tiradentes
	{5, 1},   // labor day
	{9, 7},   // independence
	{10, 12}, // our lady aparecida
	{11, 2},  // all souls
	{11, 15}, // republic
	{12, 25}, // christmas
}

// BuildHolidaySet expands the fixed holidays over a year range and merges any
// extra dates from the optional holiday file (one YYYY-MM-DD per line, '#'
// starts a comment).
func BuildHolidaySet(fromYear, toYear int, extraFile string) (service.HolidaySet, error) {
	var days []time.Time
	for year := fromYear; year <= toYear; year++ {
		for _, md := range fixedHolidays {
			days = append(days, time.Date(year, time.Month(md[0]), md[1], 0, 0, 0, 0, time.UTC))
		}
	}

	if extraFile != "" {
		extra, err := loadHolidayFile(extraFile)
		if err != nil {
			return nil, err
		}
		days = append(days, extra...)
	}

	return service.NewHolidaySet(days...), nil
}

func loadHolidayFile(path string) ([]time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holiday file: %w", err)
	}
	defer f.Close()

	var days []time.Time
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d, err := time.ParseInLocation(time.DateOnly, line, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse holiday %q: %w", line, err)
		}
		days = append(days, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read holiday file: %w", err)
	}
	return days, nil
}
