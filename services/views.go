package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/forohub-backend/models"
)

// PageRequest selects one page of a list. Zero values mean defaults.
type PageRequest struct {
	Page  int
	Limit int
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func newPage[T any](items []T, req PageRequest, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data:       items,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: (total + int64(req.Limit) - 1) / int64(req.Limit),
	}
}

// TopicSummary is returned by RegisterTopic and UpdateTopic.
type TopicSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Slug      string    `json:"slug"`
	Author    string    `json:"author"`
	CourseID  uuid.UUID `json:"course_id"`
	Course    string    `json:"course"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TopicListItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicDetail is a topic together with all of its replies.
type TopicDetail struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Author    string      `json:"author"`
	Course    string      `json:"course"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Replies   []ReplyView `json:"replies"`
}

type ReplyView struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Solution  *string   `json:"solution"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// ReplyDetail is returned when a reply is created.
type ReplyDetail struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Solution  *string   `json:"solution"`
	Author    string    `json:"author"`
	TopicID   uuid.UUID `json:"topic_id"`
	Topic     string    `json:"topic"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageType string

const MessageSuccess MessageType = "SUCCESS"

// Message acknowledges an operation that has nothing else to return.
type Message struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func deletedMessage(kind string, id uuid.UUID) *Message {
	return &Message{
		Type:    MessageSuccess,
		Message: fmt.Sprintf("%s with id: %s was deleted successfully", kind, id),
	}
}

func newTopicSummary(t *models.Topic) TopicSummary {
	return TopicSummary{
		ID:        t.ID,
		Title:     t.Title,
		Message:   t.Message,
		Slug:      t.Slug,
		Author:    t.Author.FullName,
		CourseID:  t.CourseID,
		Course:    t.Course.Name,
		Status:    t.Status.String(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func newTopicListItem(t models.Topic) TopicListItem {
	return TopicListItem{
		ID:        t.ID,
		Title:     t.Title,
		Message:   t.Message,
		Status:    t.Status.String(),
		CreatedAt: t.CreatedAt,
	}
}

func newTopicDetail(t *models.Topic) TopicDetail {
	replies := make([]ReplyView, 0, len(t.Replies))
	for _, r := range t.Replies {
		replies = append(replies, newReplyView(r))
	}
	return TopicDetail{
		ID:        t.ID,
		Title:     t.Title,
		Message:   t.Message,
		Author:    t.Author.FullName,
		Course:    t.Course.Name,
		Status:    t.Status.String(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Replies:   replies,
	}
}

func newReplyView(r models.Reply) ReplyView {
	return ReplyView{
		ID:        r.ID,
		Message:   r.Message,
		Solution:  r.Solution,
		Author:    r.Author.FullName,
		CreatedAt: r.CreatedAt,
	}
}
