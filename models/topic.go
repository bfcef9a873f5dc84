package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic is a forum thread. Title and message are unique across all topics;
// message uniqueness is indexed through MessageHash so long bodies fit a btree.
// CreatedAt/UpdatedAt are set by the topic service, not by gorm callbacks.
type Topic struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"size:200;not null;uniqueIndex"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	MessageHash string    `json:"-" gorm:"size:64;not null;uniqueIndex"`
	Slug        string    `json:"slug" gorm:"type:text;index"`
	Status      Status    `json:"-" gorm:"type:smallint;not null"`
	AuthorID    uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	CourseID    uuid.UUID `json:"course_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`

	Author  User    `gorm:"foreignKey:AuthorID" json:"-"`
	Course  Course  `gorm:"foreignKey:CourseID" json:"-"`
	Replies []Reply `gorm:"foreignKey:TopicID" json:"-"`
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps MessageHash in step with Message on create and save.
func (t *Topic) BeforeSave(tx *gorm.DB) error {
	t.MessageHash = HashMessage(t.Message)
	return nil
}

// HashMessage is the hex sha256 of a topic message, used for uniqueness lookups.
func HashMessage(message string) string {
	sum := sha256.Sum256([]byte(message))
	return hex.EncodeToString(sum[:])
}
