package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayOfRespectsLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	instant := time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)
	require.Equal(t, "2024-03-31", DayOf(instant, time.UTC).String())
	require.Equal(t, "2024-04-01", DayOf(instant, kolkata).String())
	require.Equal(t, "2024-04", MonthOf(instant, kolkata).String())
}

func TestMonthContains(t *testing.T) {
	m, err := ParseMonth("2024-05")
	require.NoError(t, err)

	in, _ := ParseDay("2024-05-31")
	out, _ := ParseDay("2024-06-01")
	require.True(t, m.Contains(in))
	require.False(t, m.Contains(out))
	require.Equal(t, "2024-05-01", m.Start().String())
}

func TestScanAndValue(t *testing.T) {
	var d Day
	require.NoError(t, d.Scan([]byte("2024-02-29")))
	v, err := d.Value()
	require.NoError(t, err)
	require.Equal(t, "2024-02-29", v)

	var m Month
	require.NoError(t, m.Scan("2024-02"))
	require.Equal(t, time.February, m.Month)

	require.Error(t, d.Scan("29/02/2024"))
	require.NoError(t, d.Scan(nil))
	require.True(t, d.IsZero())
}

func TestJSON(t *testing.T) {
	d, _ := ParseDay("2024-01-09")
	b, err := json.Marshal(struct {
		Date Day `json:"date"`
	}{d})
	require.NoError(t, err)
	require.JSONEq(t, `{"date":"2024-01-09"}`, string(b))

	var out struct {
		Month Month `json:"month"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"month":"2023-12"}`), &out))
	require.Equal(t, Month{Year: 2023, Month: time.December}, out.Month)
}

func TestFixedClock(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 30, 0, 0, time.UTC)
	require.Equal(t, "2024-07-01", Today(FixedClock(now), time.UTC).String())
}
