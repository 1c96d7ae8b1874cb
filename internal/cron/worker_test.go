package cron

import (
	"testing"
	"time"
)

func TestGetNextRunSeconds(t *testing.T) {
	last := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	next := getNextRun("90", last)
	if want := last.Add(90 * time.Second); !next.Equal(want) {
		t.Errorf("getNextRun(90) = %v, want %v", next, want)
	}
}

func TestGetNextRunCronExpression(t *testing.T) {
	last := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	next := getNextRun("0 * * * *", last)
	if want := time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("getNextRun(hourly cron) = %v, want %v", next, want)
	}
}

func TestGetNextRunFallback(t *testing.T) {
	last := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	for _, setting := range []string{"", "garbage", "-5", "0"} {
		next := getNextRun(setting, last)
		if want := last.Add(defaultInterval); !next.Equal(want) {
			t.Errorf("getNextRun(%q) = %v, want fallback %v", setting, next, want)
		}
	}
}
