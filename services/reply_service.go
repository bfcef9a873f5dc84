package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/store"
)

type replyStore interface {
	Create(ctx context.Context, r *models.Reply) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reply, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type topicReader interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Topic, error)
}

type CreateReplyInput struct {
	Message  string  `json:"message"`
	Solution *string `json:"solution"`
}

func (i CreateReplyInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Message, validation.Required, validation.RuneLength(1, maxMessageLen)),
		validation.Field(&i.Solution, validation.NilOrNotEmpty, validation.RuneLength(1, maxMessageLen)),
	)
}

type ReplyService struct {
	tx       txManager
	replies  replyStore
	topics   topicReader
	notifier Notifier
	log      *slog.Logger
}

func NewReplyService(log *slog.Logger, tx txManager, replies replyStore, topics topicReader, opts ...Option) *ReplyService {
	o := buildOptions(opts)
	return &ReplyService{
		tx:       tx,
		replies:  replies,
		topics:   topics,
		notifier: o.notifier,
		log:      log.With("service", "reply"),
	}
}

// CreateReply adds a reply by author to an existing topic.
func (s *ReplyService) CreateReply(ctx context.Context, author models.User, topicID uuid.UUID, input CreateReplyInput) (*ReplyDetail, error) {
	if author.ID == uuid.Nil {
		return nil, unauthenticated("authenticated user required")
	}
	if topicID == uuid.Nil {
		return nil, invalidInput("topic id must not be null")
	}
	input.Message = cleanText(input.Message)
	input.Solution = trimPtr(input.Solution)
	if err := validate(input); err != nil {
		return nil, err
	}

	var (
		reply *models.Reply
		topic *models.Topic
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.topics.ExistsByID(ctx, topicID)
		if err != nil {
			return fmt.Errorf("check topic: %w", err)
		}
		if !ok {
			return notFound("topic reference does not exist")
		}
		topic, err = s.topics.GetByID(ctx, topicID)
		if err != nil {
			return fmt.Errorf("get topic: %w", err)
		}

		reply = &models.Reply{
			TopicID:  topicID,
			AuthorID: author.ID,
			Message:  input.Message,
			Solution: input.Solution,
			Status:   models.StatusOpen,
		}
		if err := s.replies.Create(ctx, reply); err != nil {
			return fmt.Errorf("create reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "reply created",
		slog.String("reply_id", reply.ID.String()),
		slog.String("topic_id", topicID.String()),
	)

	detail := ReplyDetail{
		ID:        reply.ID,
		Message:   reply.Message,
		Solution:  reply.Solution,
		Author:    author.FullName,
		TopicID:   topicID,
		Topic:     topic.Title,
		Status:    reply.Status.String(),
		CreatedAt: reply.CreatedAt,
	}
	s.notifier.Notify(Event{Type: EventReplyCreated, TopicID: topicID, Data: detail})
	return &detail, nil
}

// DeleteReply removes a reply. Only its author or staff may do so.
func (s *ReplyService) DeleteReply(ctx context.Context, caller models.User, replyID uuid.UUID) (*Message, error) {
	if replyID == uuid.Nil {
		return nil, invalidInput("reply id must not be null")
	}

	var topicID uuid.UUID
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		reply, err := s.replies.GetByID(ctx, replyID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("reply reference does not exist")
		}
		if err != nil {
			return fmt.Errorf("get reply: %w", err)
		}
		if !canModerate(caller, reply.AuthorID) {
			return forbidden("only the author or a moderator can delete this reply")
		}
		topicID = reply.TopicID
		if err := s.replies.Delete(ctx, replyID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound("reply reference does not exist")
			}
			return fmt.Errorf("delete reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "reply deleted",
		slog.String("reply_id", replyID.String()),
		slog.String("deleted_by", caller.ID.String()),
	)
	s.notifier.Notify(Event{Type: EventReplyDeleted, TopicID: topicID, Data: map[string]any{"id": replyID}})
	return deletedMessage("reply", replyID), nil
}
