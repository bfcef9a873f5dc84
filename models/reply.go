package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reply struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID   uuid.UUID `gorm:"type:uuid;not null;index" json:"topic_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Solution  *string   `gorm:"type:text" json:"solution,omitempty"`
	Status    Status    `gorm:"type:smallint;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
