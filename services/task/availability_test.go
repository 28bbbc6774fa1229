package task

import (
	"testing"

	"github.com/stretchr/testify/require"

	"growpreen/pkg/calendar"
)

func day(t *testing.T, s string) calendar.Day {
	t.Helper()
	d, err := calendar.ParseDay(s)
	require.NoError(t, err)
	return d
}

func sub(tplID string, status Status, date calendar.Day) *Submission {
	return &Submission{TemplateID: &tplID, Type: KindTemplate, Status: status, Date: date}
}

func ids(tpls []*Template) []string {
	out := make([]string, 0, len(tpls))
	for _, t := range tpls {
		out = append(out, t.ID)
	}
	return out
}

func TestAvailableTasks(t *testing.T) {
	today := day(t, "2024-03-15")
	yesterday := day(t, "2024-03-14")
	lastMonth := day(t, "2024-02-20")

	daily := &Template{ID: "daily", Period: PeriodDaily, IsActive: true}
	monthly := &Template{ID: "monthly", Period: PeriodMonthly, IsActive: true}
	once := &Template{ID: "once", Period: PeriodOneTime, IsActive: true}
	inactive := &Template{ID: "off", Period: PeriodDaily, IsActive: false}
	templates := []*Template{daily, monthly, once, inactive}

	cases := []struct {
		name string
		subs []*Submission
		want []string
	}{
		{
			name: "no submissions",
			want: []string{"daily", "monthly", "once"},
		},
		{
			name: "daily pending today hides",
			subs: []*Submission{sub("daily", StatusPending, today)},
			want: []string{"monthly", "once"},
		},
		{
			name: "daily rejected today stays",
			subs: []*Submission{sub("daily", StatusRejected, today)},
			want: []string{"daily", "monthly", "once"},
		},
		{
			name: "daily approved yesterday stays",
			subs: []*Submission{sub("daily", StatusApproved, yesterday)},
			want: []string{"daily", "monthly", "once"},
		},
		{
			name: "monthly approved this month hides",
			subs: []*Submission{sub("monthly", StatusApproved, yesterday)},
			want: []string{"daily", "once"},
		},
		{
			name: "monthly pending this month stays",
			subs: []*Submission{sub("monthly", StatusPending, today)},
			want: []string{"daily", "monthly", "once"},
		},
		{
			name: "monthly approved last month stays",
			subs: []*Submission{sub("monthly", StatusApproved, lastMonth)},
			want: []string{"daily", "monthly", "once"},
		},
		{
			name: "one time approved ever hides",
			subs: []*Submission{sub("once", StatusApproved, lastMonth)},
			want: []string{"daily", "monthly"},
		},
		{
			name: "one time pending stays",
			subs: []*Submission{sub("once", StatusPending, today)},
			want: []string{"daily", "monthly", "once"},
		},
		{
			name: "reel submissions are ignored",
			subs: []*Submission{{Type: KindReel, Status: StatusApproved, Date: today}},
			want: []string{"daily", "monthly", "once"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AvailableTasks(templates, tc.subs, today)
			require.Equal(t, tc.want, ids(got))
		})
	}
}

func TestAvailableTasksPreservesOrder(t *testing.T) {
	today := day(t, "2024-03-15")
	templates := []*Template{
		{ID: "c", Period: PeriodDaily, IsActive: true},
		{ID: "a", Period: PeriodDaily, IsActive: true},
		{ID: "b", Period: PeriodDaily, IsActive: true},
	}
	require.Equal(t, []string{"c", "a", "b"}, ids(AvailableTasks(templates, nil, today)))
}
