package report

import "testing"

func TestFormatLapTime(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		want string
	}{
		{name: "typical lap", ms: 61234, want: "1:01.234"},
		{name: "under a minute", ms: 59999, want: "0:59.999"},
		{name: "exact minute", ms: 60000, want: "1:00.000"},
		{name: "long lap", ms: 754321, want: "12:34.321"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLapTime(tt.ms); got != tt.want {
				t.Errorf("formatLapTime(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}

func TestFormatOptLapTime(t *testing.T) {
	if got := formatOptLapTime(nil); got != "-" {
		t.Errorf("formatOptLapTime(nil) = %q, want -", got)
	}
	ms := 61234
	if got := formatOptLapTime(&ms); got != "1:01.234" {
		t.Errorf("formatOptLapTime(&ms) = %q, want 1:01.234", got)
	}
}
