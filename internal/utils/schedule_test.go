package utils

import (
	"testing"
	"time"

	"github.com/orowoletimothy/vane/internal/models"
)

func TestIsScheduledOn(t *testing.T) {
	mwf := []models.Weekday{models.Monday, models.Wednesday, models.Friday}

	tests := []struct {
		name    string
		days    []models.Weekday
		weekday time.Weekday
		want    bool
	}{
		{name: "empty list is daily", days: nil, weekday: time.Sunday, want: true},
		{name: "listed day", days: mwf, weekday: time.Wednesday, want: true},
		{name: "unlisted day", days: mwf, weekday: time.Tuesday, want: false},
		{name: "weekend only", days: []models.Weekday{models.Saturday, models.Sunday}, weekday: time.Sunday, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsScheduledOn(tt.days, tt.weekday); got != tt.want {
				t.Errorf("IsScheduledOn(%v, %v) = %v, want %v", tt.days, tt.weekday, got, tt.want)
			}
		})
	}
}

func TestScheduledDaysPerWeek(t *testing.T) {
	tests := []struct {
		name string
		days []models.Weekday
		want int
	}{
		{name: "daily", days: nil, want: 7},
		{name: "three days", days: []models.Weekday{models.Monday, models.Wednesday, models.Friday}, want: 3},
		{name: "duplicates", days: []models.Weekday{models.Monday, models.Monday}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScheduledDaysPerWeek(tt.days); got != tt.want {
				t.Errorf("ScheduledDaysPerWeek(%v) = %d, want %d", tt.days, got, tt.want)
			}
		})
	}
}
