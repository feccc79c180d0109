package db

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// LocalTime stores timestamps as UTC "2006-01-02 15:04:05" strings, the
// format SQLite's CURRENT_TIMESTAMP produces, and surfaces them in the
// local zone.
type LocalTime struct {
	time.Time
}

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Value implements driver.Valuer.
func (lt LocalTime) Value() (driver.Value, error) {
	if lt.IsZero() {
		return nil, nil
	}
	return lt.UTC().Format(sqliteTimeLayout), nil
}

// Scan implements sql.Scanner.
func (lt *LocalTime) Scan(src interface{}) error {
	if src == nil {
		lt.Time = time.Time{}
		return nil
	}

	switch v := src.(type) {
	case time.Time:
		lt.Time = v.Local()
		return nil
	case string:
		return lt.parse(v)
	case []byte:
		return lt.parse(string(v))
	default:
		return fmt.Errorf("scan LocalTime: unsupported type %T", src)
	}
}

func (lt *LocalTime) parse(s string) error {
	if s == "" {
		lt.Time = time.Time{}
		return nil
	}
	// CURRENT_TIMESTAMP writes UTC without a zone marker; RFC3339 shows
	// up when rows were inserted with a time.Time directly.
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == sqliteTimeLayout {
				t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
			}
			lt.Time = t.Local()
			return nil
		}
	}
	return fmt.Errorf("scan LocalTime: unparsable %q", s)
}

// NewLocalTime wraps a time.Time.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}
