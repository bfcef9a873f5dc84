package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/forohub-backend/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user. A taken email yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return translate(conn(ctx, s.db).Create(u).Error)
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(conn(ctx, s.db), &models.User{}, "email = ?", email)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := conn(ctx, s.db).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := conn(ctx, s.db).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
