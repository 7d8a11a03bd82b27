package listing

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Criteria narrows the article collection. The zero value matches everything.
type Criteria struct {
	Query    string    // substring of title or body, case-insensitive
	Category string    // exact category name
	From     time.Time // first day included, UTC
	To       time.Time // last day included, UTC
}

func (c Criteria) Empty() bool {
	return c.Query == "" && c.Category == "" && c.From.IsZero() && c.To.IsZero()
}

// Until returns the exclusive upper bound of the date range, or the zero time.
func (c Criteria) Until() time.Time {
	if c.To.IsZero() {
		return time.Time{}
	}
	return c.To.AddDate(0, 0, 1)
}

// ParseCriteria reads q, category, from and to. Unknown keys are ignored.
func ParseCriteria(values url.Values) (Criteria, error) {
	c := Criteria{
		Query:    strings.TrimSpace(values.Get("q")),
		Category: strings.TrimSpace(values.Get("category")),
	}

	var err error
	if c.From, err = parseDate("from", values.Get("from")); err != nil {
		return Criteria{}, err
	}
	if c.To, err = parseDate("to", values.Get("to")); err != nil {
		return Criteria{}, err
	}
	if !c.From.IsZero() && !c.To.IsZero() && c.To.Before(c.From) {
		return Criteria{}, fmt.Errorf("to (%s) is before from (%s)", c.To.Format(dateLayout), c.From.Format(dateLayout))
	}
	return c, nil
}

func parseDate(key, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date like 2006-01-02", key)
	}
	return t, nil
}
