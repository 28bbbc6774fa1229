package calendar

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Day is a calendar day in the program timezone. It is stored and serialized as YYYY-MM-DD.
type Day struct {
	civil.Date
}

// Month is a calendar month. It is stored and serialized as YYYY-MM.
type Month struct {
	Year  int
	Month time.Month
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	return Day{civil.DateOf(t)}
}

func Today(c Clock, loc *time.Location) Day {
	return DayOf(c.Now(), loc)
}

func MonthOf(t time.Time, loc *time.Location) Month {
	return DayOf(t, loc).Month()
}

func ParseDay(s string) (Day, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Day{}, err
	}
	return Day{d}, nil
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("calendar: invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (d Day) Month() Month {
	return Month{Year: d.Year, Month: d.Date.Month}
}

func (d Day) IsZero() bool {
	return d.Date == civil.Date{}
}

func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.String(), nil
}

func (d *Day) Scan(src any) error {
	s, err := scanString(src)
	if err != nil || s == "" {
		*d = Day{}
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.Scan(s)
}

// GormDataType stores Day as a plain string column.
func (Day) GormDataType() string { return "string" }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) Contains(d Day) bool {
	return d.Month() == m
}

// Start returns the first day of the month.
func (m Month) Start() Day {
	return Day{civil.Date{Year: m.Year, Month: m.Month, Day: 1}}
}

func (m Month) Value() (driver.Value, error) {
	if m.IsZero() {
		return "", nil
	}
	return m.String(), nil
}

func (m *Month) Scan(src any) error {
	s, err := scanString(src)
	if err != nil || s == "" {
		*m = Month{}
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Month) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(m.String())
}

func (m *Month) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return m.Scan(s)
}

func (Month) GormDataType() string { return "string" }

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case time.Time:
		return v.Format("2006-01-02"), nil
	default:
		return "", fmt.Errorf("calendar: cannot scan %T", src)
	}
}
