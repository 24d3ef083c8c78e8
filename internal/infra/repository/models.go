package repository

import (
	"time"
)

// bestTimeRow mirrors the best-time table. Day and hour stay raw strings so
// a hand-edited bad row survives loading and is skipped by the core instead
// of failing the whole query.
type bestTimeRow struct {
	ID        uint   `gorm:"primaryKey"`
	Subreddit string `gorm:"column:subreddit"`
	BestDay   string `gorm:"column:best_day"`
	BestHour  string `gorm:"column:best_hour"`
}

func (bestTimeRow) TableName() string {
	return "best_times"
}

// postRow mirrors the post queue. PostTimeUTC holds the canonical
// "YYYY-MM-DD HH:MM:SS" serialization; empty means unscheduled.
type postRow struct {
	ID          string `gorm:"primaryKey"`
	ClientName  string `gorm:"column:client_name"`
	Subreddit   string `gorm:"column:subreddit"`
	Title       string `gorm:"column:title"`
	URL         string `gorm:"column:url"`
	FlairText   string `gorm:"column:flair_text"`
	PostTimeUTC string `gorm:"column:post_time_utc"`
	Posted      bool   `gorm:"column:posted"`
	CreatedAt   time.Time
}

func (postRow) TableName() string {
	return "post_queue"
}

// clientRow mirrors the client template table. Platform credentials live in
// further columns owned by the posting worker; the scheduler never reads
// them.
type clientRow struct {
	ClientName     string `gorm:"primaryKey;column:client_name"`
	RedditUsername string `gorm:"column:reddit_username"`
	UserAgent      string `gorm:"column:user_agent"`
}

func (clientRow) TableName() string {
	return "clients"
}
