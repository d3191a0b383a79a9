package cmd

import (
	"fmt"
	"regexp"
	"time"
)

var dateFormats = []struct {
	pattern *regexp.Regexp
	layout  string
	next    func(time.Time) time.Time
}{
	{regexp.MustCompile(`^\d{4}$`), "2006", func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }},
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "2006-01", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
}

// parseDateRangeFromArgs turns one or two date strings into a [start, end)
// range. A single argument covers its whole year, month, or day; two
// arguments are the range's endpoints.
func parseDateRangeFromArgs(args []string) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 1:
		start, end, err = getImplicitDateRange(args[0])

	case 2:
		start, _, err = parseSingleDatestring(args[0])
		if err != nil {
			return
		}
		end, _, err = parseSingleDatestring(args[1])

	default:
		err = fmt.Errorf("expected one or two date arguments")
	}
	return
}

func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	start, next, err := parseSingleDatestring(ds)
	if err != nil {
		return
	}
	end = next(start)
	return
}

func parseSingleDatestring(ds string) (time.Time, func(time.Time) time.Time, error) {
	for _, f := range dateFormats {
		if !f.pattern.MatchString(ds) {
			continue
		}
		date, err := time.Parse(f.layout, ds)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("parsing datestring: %w", err)
		}
		return date, f.next, nil
	}
	return time.Time{}, nil, fmt.Errorf("invalid date format: %q", ds)
}
