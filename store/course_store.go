package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/forohub-backend/models"
)

type CourseStore struct {
	db *gorm.DB
}

func NewCourseStore(db *gorm.DB) *CourseStore {
	return &CourseStore{db: db}
}

func (s *CourseStore) Create(ctx context.Context, c *models.Course) error {
	return translate(conn(ctx, s.db).Create(c).Error)
}

func (s *CourseStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, s.db), &models.Course{}, "id = ?", id)
}

func (s *CourseStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(conn(ctx, s.db), &models.Course{}, "LOWER(name) = LOWER(?)", name)
}

func (s *CourseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	if err := conn(ctx, s.db).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *CourseStore) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := conn(ctx, s.db).Order("name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}
