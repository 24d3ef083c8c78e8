package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/reddwatch/postqueue/internal/domain"
)

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) domain.RuleStore {
	return &ruleRepository{db: db}
}

// ListRules reads the full best-time table. Rows come back in insertion
// order; every scheduling operation calls this fresh so table edits take
// effect on the next run.
func (r *ruleRepository) ListRules(ctx context.Context) ([]domain.BestTimeRule, error) {
	var rows []bestTimeRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	rules := make([]domain.BestTimeRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, domain.BestTimeRule{
			Subreddit: row.Subreddit,
			Weekday:   row.BestDay,
			Hour:      row.BestHour,
		})
	}

	return rules, nil
}
