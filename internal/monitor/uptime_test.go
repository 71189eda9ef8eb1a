package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUptimeFromSamples(t *testing.T) {
	assert.Equal(t, 1440, UptimeFromSamples(288).Minutes)
	assert.Equal(t, 0, UptimeFromSamples(0).Minutes)
}

func TestUptimeString(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{1440, "1 day, 0 hours, 0 minutes"},
		{0, "0 minutes"},
		{45, "45 minutes"},
		{1, "1 minute"},
		{60, "1 hour, 0 minutes"},
		{90, "1 hour, 30 minutes"},
		{150, "2 hours, 30 minutes"},
		{2945, "2 days, 1 hour, 5 minutes"},
		{10080, "7 days, 0 hours, 0 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Uptime{Minutes: tt.minutes}.String())
		})
	}
}
