package repository

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/reddwatch/postqueue/internal/domain"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) domain.PostStore {
	return &postRepository{db: db}
}

func (r *postRepository) ListPosts(ctx context.Context) ([]domain.Post, error) {
	var rows []postRow
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.toPosts(ctx, rows), nil
}

// ListUnscheduled returns the posts awaiting a slot, in storage order, which
// is the order bulk assignment processes them in.
func (r *postRepository) ListUnscheduled(ctx context.Context) ([]domain.Post, error) {
	var rows []postRow
	err := r.db.WithContext(ctx).
		Where("post_time_utc = '' OR post_time_utc IS NULL").
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.toPosts(ctx, rows), nil
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	if post == nil || post.ID == "" {
		return ErrInvalidPostData
	}

	row := postRow{
		ID:         post.ID,
		ClientName: post.ClientName,
		Subreddit:  post.Subreddit,
		Title:      post.Title,
		URL:        post.URL,
		FlairText:  post.FlairText,
		Posted:     post.Posted,
		CreatedAt:  post.CreatedAt,
	}
	if post.PostTime != nil {
		row.PostTimeUTC = domain.FormatSlot(*post.PostTime)
	}

	return r.db.WithContext(ctx).Create(&row).Error
}

// AssignTime writes the slot onto an unscheduled post. The guard in the
// WHERE clause is what makes "never re-scheduled once assigned" hold even
// against a concurrent writer.
func (r *postRepository) AssignTime(ctx context.Context, postID string, slot string) error {
	result := r.db.WithContext(ctx).
		Model(&postRow{}).
		Where("id = ? AND (post_time_utc = '' OR post_time_utc IS NULL)", postID).
		Update("post_time_utc", slot)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var row postRow
		err := r.db.WithContext(ctx).First(&row, "id = ?", postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPostNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrPostAlreadyScheduled
	}

	return nil
}

func (r *postRepository) toPosts(ctx context.Context, rows []postRow) []domain.Post {
	posts := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		post := domain.Post{
			ID:         row.ID,
			ClientName: row.ClientName,
			Subreddit:  row.Subreddit,
			Title:      row.Title,
			URL:        row.URL,
			FlairText:  row.FlairText,
			Posted:     row.Posted,
			CreatedAt:  row.CreatedAt,
		}

		if row.PostTimeUTC != "" {
			parsed, err := domain.ParseSlot(row.PostTimeUTC)
			if err != nil {
				// A hand-edited bad timestamp degrades that row to
				// unscheduled rather than poisoning the whole list.
				slog.WarnContext(ctx, "post has unparseable post_time_utc",
					slog.String("post_id", row.ID),
					slog.String("post_time_utc", row.PostTimeUTC),
					slog.String("error", err.Error()),
				)
			} else {
				post.PostTime = &parsed
			}
		}

		posts = append(posts, post)
	}
	return posts
}
