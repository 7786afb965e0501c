package models

// WeekdayTrend is the completion ratio for one weekday across all habits.
type WeekdayTrend struct {
	Weekday Weekday `json:"weekday"`
	Tracked int     `json:"tracked"`
	Met     int     `json:"met"`
	Rate    float64 `json:"rate"`
}

// TimeOfDayTrend counts met days by the local hour their target was reached.
type TimeOfDayTrend struct {
	Period string  `json:"period"` // morning, afternoon, evening or night
	Met    int     `json:"met"`
	Share  float64 `json:"share"`
}

// Analytics aggregates closed days of all of a user's habits.
type Analytics struct {
	UserID         string           `json:"user_id"`
	WindowDays     int              `json:"window_days"`
	DaysTracked    int              `json:"days_tracked"`
	DaysMet        int              `json:"days_met"`
	CompletionRate float64          `json:"completion_rate"`
	AverageStreak  float64          `json:"average_streak"`
	Weekdays       []WeekdayTrend   `json:"weekdays"`
	TimesOfDay     []TimeOfDayTrend `json:"times_of_day"`
}
