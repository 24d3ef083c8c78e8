package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/reddwatch/postqueue/internal/domain"
)

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) domain.ClientStore {
	return &clientRepository{db: db}
}

func (r *clientRepository) ListClients(ctx context.Context) ([]domain.ClientTemplate, error) {
	var rows []clientRow
	if err := r.db.WithContext(ctx).Order("client_name").Find(&rows).Error; err != nil {
		return nil, err
	}

	clients := make([]domain.ClientTemplate, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, domain.ClientTemplate{
			ClientName:     row.ClientName,
			RedditUsername: row.RedditUsername,
			UserAgent:      row.UserAgent,
		})
	}
	return clients, nil
}

func (r *clientRepository) GetClient(ctx context.Context, clientName string) (*domain.ClientTemplate, error) {
	var row clientRow
	err := r.db.WithContext(ctx).First(&row, "client_name = ?", clientName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	return &domain.ClientTemplate{
		ClientName:     row.ClientName,
		RedditUsername: row.RedditUsername,
		UserAgent:      row.UserAgent,
	}, nil
}
