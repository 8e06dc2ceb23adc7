package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanize(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{90 * time.Second, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{61 * time.Minute, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{30 * time.Hour, "1 day ago"},
		{3 * day, "3 days ago"},
		{45 * day, "1 month ago"},
		{100 * day, "3 months ago"},
		{400 * day, "1 year ago"},
		{3 * 365 * day, "3 years ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Humanize(now.Add(-tt.ago), now), tt.ago.String())
	}
}

func TestHumanizeString(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2 days ago", HumanizeString("2025-05-30T11:00:00.000Z", now))
	assert.Equal(t, "not a date", HumanizeString("not a date", now))
	assert.Equal(t, "", HumanizeString("", now))
}
