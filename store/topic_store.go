package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/forohub-backend/models"
)

type TopicStore struct {
	db *gorm.DB
}

func NewTopicStore(db *gorm.DB) *TopicStore {
	return &TopicStore{db: db}
}

// Create inserts a topic. A taken title or message yields ErrDuplicate.
func (s *TopicStore) Create(ctx context.Context, t *models.Topic) error {
	return translate(conn(ctx, s.db).Omit(clause.Associations).Create(t).Error)
}

// Update writes every column of t except associations.
func (s *TopicStore) Update(ctx context.Context, t *models.Topic) error {
	return translate(conn(ctx, s.db).Omit(clause.Associations).Save(t).Error)
}

// Delete removes the topic together with its replies.
func (s *TopicStore) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Topic{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *TopicStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, s.db), &models.Topic{}, "id = ?", id)
}

// ExistsByTitle ignores the topic identified by exclude (uuid.Nil excludes nothing).
func (s *TopicStore) ExistsByTitle(ctx context.Context, title string, exclude uuid.UUID) (bool, error) {
	return exists(conn(ctx, s.db), &models.Topic{}, "title = ? AND id <> ?", title, exclude)
}

// ExistsByMessage ignores the topic identified by exclude (uuid.Nil excludes nothing).
func (s *TopicStore) ExistsByMessage(ctx context.Context, message string, exclude uuid.UUID) (bool, error) {
	return exists(conn(ctx, s.db), &models.Topic{}, "message_hash = ? AND id <> ?", models.HashMessage(message), exclude)
}

// GetByID loads the topic with its author and course.
func (s *TopicStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	var t models.Topic
	err := conn(ctx, s.db).
		Preload("Author").
		Preload("Course").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// GetWithReplies loads the topic, its author and all of its replies
// ordered by creation time.
func (s *TopicStore) GetWithReplies(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	var t models.Topic
	err := conn(ctx, s.db).
		Preload("Author").
		Preload("Course").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.Author").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// List returns one page of topics, newest first, and the total count.
func (s *TopicStore) List(ctx context.Context, offset, limit int) ([]models.Topic, int64, error) {
	db := conn(ctx, s.db)

	var total int64
	if err := db.Model(&models.Topic{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var topics []models.Topic
	err := db.
		Order("created_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, 0, err
	}
	return topics, total, nil
}
