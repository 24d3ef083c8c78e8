package config

import (
	"os"
	"strconv"
)

const (
	horizonWeeksEnv = "SCHEDULE_HORIZON_WEEKS"
	dailyCapEnv     = "SCHEDULE_DAILY_CAP"
	pickTopKEnv     = "SCHEDULE_PICK_TOP_K"

	defaultHorizonWeeks = 4
	defaultDailyCap     = 4
	defaultPickTopK     = 1
)

type ScheduleConfig struct {
	// HorizonWeeks is how many weeks ahead candidate slots are searched.
	HorizonWeeks int
	// DailyCap is the maximum number of posts per subreddit per UTC day.
	DailyCap int
	// PickTopK widens the single-post pick to a uniform choice among the
	// first K candidates. 1 keeps the canonical earliest-first pick. Bulk
	// assignment always uses earliest-first regardless of this setting.
	PickTopK int
}

func LoadScheduleConfig() *ScheduleConfig {
	horizonWeeks := defaultHorizonWeeks
	if v := os.Getenv(horizonWeeksEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			horizonWeeks = parsed
		}
	}

	dailyCap := defaultDailyCap
	if v := os.Getenv(dailyCapEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			dailyCap = parsed
		}
	}

	pickTopK := defaultPickTopK
	if v := os.Getenv(pickTopKEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			pickTopK = parsed
		}
	}

	return &ScheduleConfig{
		HorizonWeeks: horizonWeeks,
		DailyCap:     dailyCap,
		PickTopK:     pickTopK,
	}
}
