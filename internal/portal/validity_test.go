package portal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestIsValidAt(t *testing.T) {
	today := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		from *time.Time
		till *time.Time
		want bool
	}{
		{"both bounds absent", nil, nil, true},
		{"inside window", date(2024, 1, 1), date(2024, 12, 31), true},
		{"window starts today", date(2024, 6, 1), nil, true},
		{"window ends today", nil, date(2024, 6, 1), true},
		{"before window", date(2024, 6, 2), nil, false},
		{"after window", nil, date(2024, 5, 31), false},
		{"single-day window hit", date(2024, 6, 1), date(2024, 6, 1), true},
		{"single-day window miss", date(2024, 5, 30), date(2024, 5, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAt(tt.from, tt.till, today))
		})
	}
}

func TestIsValidAtIgnoresTimeOfDay(t *testing.T) {
	// Bound carries a late-evening timestamp; the day still counts.
	till := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	today := time.Date(2024, 6, 1, 0, 0, 1, 0, time.UTC)
	assert.True(t, IsValidAt(nil, &till, today))

	from := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	assert.True(t, IsValidAt(&from, nil, today))
}

func TestIsValidAtIgnoresZoneOffsetWithinDay(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	from := time.Date(2024, 6, 1, 1, 0, 0, 0, zone)
	today := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, IsValidAt(&from, nil, today))
}
