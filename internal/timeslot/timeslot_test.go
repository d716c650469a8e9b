package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Clock
		wantErr bool
	}{
		{name: "Short format", in: "10:00", want: 600},
		{name: "With seconds from postgres", in: "13:30:00", want: 810},
		{name: "Midnight", in: "00:00", want: 0},
		{name: "Last minute", in: "23:59", want: 1439},
		{name: "Non-zero seconds", in: "10:00:30", wantErr: true},
		{name: "Hour out of range", in: "24:00", wantErr: true},
		{name: "Single digit hour", in: "9:00", wantErr: true},
		{name: "Empty", in: "", wantErr: true},
		{name: "Garbage", in: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockAdd(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		d      time.Duration
		want   string
		wantOK bool
	}{
		{name: "Thirty minutes", start: "14:00", d: 30 * time.Minute, want: "14:30", wantOK: true},
		{name: "Hour rollover", start: "10:45", d: 90 * time.Minute, want: "12:15", wantOK: true},
		{name: "Fractional hours", start: "09:00", d: time.Duration(2.5 * float64(time.Hour)), want: "11:30", wantOK: true},
		{name: "Ends one minute before midnight", start: "23:00", d: 59 * time.Minute, want: "23:59", wantOK: true},
		{name: "Ends exactly at midnight", start: "23:00", d: time.Hour, wantOK: false},
		{name: "Crosses midnight", start: "22:00", d: 3 * time.Hour, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MustClock(tt.start).Add(tt.d)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		existing Interval
		proposed Interval
		want     bool
	}{
		{name: "Partial overlap at end", existing: iv("10:00", "13:00"), proposed: iv("12:00", "14:00"), want: true},
		{name: "Touching after", existing: iv("10:00", "13:00"), proposed: iv("13:00", "14:00"), want: false},
		{name: "Touching before", existing: iv("10:00", "13:00"), proposed: iv("09:00", "10:00"), want: false},
		{name: "Contained", existing: iv("10:00", "13:00"), proposed: iv("11:00", "11:30"), want: true},
		{name: "Containing", existing: iv("10:00", "13:00"), proposed: iv("09:00", "14:00"), want: true},
		{name: "Identical", existing: iv("10:00", "13:00"), proposed: iv("10:00", "13:00"), want: true},
		{name: "Disjoint", existing: iv("10:00", "11:00"), proposed: iv("15:00", "16:00"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.existing.Overlaps(tt.proposed))
		})
	}
}

// Every pair of intervals on a quarter-hour grid: overlap is symmetric and
// agrees with a minute-by-minute shared-instant check.
func TestOverlapsMatchesSharedInstant(t *testing.T) {
	var points []Clock
	for m := 8 * 60; m <= 12*60; m += 15 {
		points = append(points, Clock(m))
	}

	for _, as := range points {
		for _, ae := range points {
			if ae <= as {
				continue
			}
			for _, bs := range points {
				for _, be := range points {
					if be <= bs {
						continue
					}
					got := Overlaps(as, ae, bs, be)
					require.Equal(t, got, Overlaps(bs, be, as, ae), "symmetry %v-%v %v-%v", as, ae, bs, be)

					shared := false
					for m := as; m < ae; m++ {
						if m >= bs && m < be {
							shared = true
							break
						}
					}
					require.Equal(t, shared, got, "shared instant %v-%v %v-%v", as, ae, bs, be)
				}
			}
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-24")
	require.NoError(t, err)
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 24, d.Day())

	_, err = ParseDate("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("24/06/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestClockText(t *testing.T) {
	b, err := MustClock("09:05").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "09:05", string(b))

	var c Clock
	require.NoError(t, c.UnmarshalText([]byte("17:45")))
	assert.Equal(t, MustClock("17:45"), c)
	assert.Error(t, c.UnmarshalText([]byte("5pm")))
}

func iv(start, end string) Interval {
	return Interval{Start: MustClock(start), End: MustClock(end)}
}
