package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/forohub-backend/models"
)

type ReplyStore struct {
	db *gorm.DB
}

func NewReplyStore(db *gorm.DB) *ReplyStore {
	return &ReplyStore{db: db}
}

func (s *ReplyStore) Create(ctx context.Context, r *models.Reply) error {
	return translate(conn(ctx, s.db).Omit(clause.Associations).Create(r).Error)
}

func (s *ReplyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Reply, error) {
	var r models.Reply
	if err := conn(ctx, s.db).Preload("Author").First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *ReplyStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, s.db).Delete(&models.Reply{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByTopic returns one page of a topic's replies, oldest first, and the total count.
func (s *ReplyStore) ListByTopic(ctx context.Context, topicID uuid.UUID, offset, limit int) ([]models.Reply, int64, error) {
	db := conn(ctx, s.db)

	var total int64
	if err := db.Model(&models.Reply{}).Where("topic_id = ?", topicID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var replies []models.Reply
	err := db.
		Preload("Author").
		Where("topic_id = ?", topicID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&replies).Error
	if err != nil {
		return nil, 0, err
	}
	return replies, total, nil
}
