package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/store"
)

type topicStore interface {
	Create(ctx context.Context, t *models.Topic) error
	Update(ctx context.Context, t *models.Topic) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByTitle(ctx context.Context, title string, exclude uuid.UUID) (bool, error)
	ExistsByMessage(ctx context.Context, message string, exclude uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Topic, error)
	GetWithReplies(ctx context.Context, id uuid.UUID) (*models.Topic, error)
	List(ctx context.Context, offset, limit int) ([]models.Topic, int64, error)
}

type courseLookup interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type replyLister interface {
	ListByTopic(ctx context.Context, topicID uuid.UUID, offset, limit int) ([]models.Reply, int64, error)
}

// TopicService implements topic registration, listing, detail, update and delete.
// Every method runs its checks and writes inside one transaction.
type TopicService struct {
	tx       txManager
	topics   topicStore
	courses  courseLookup
	replies  replyLister
	now      func() time.Time
	notifier Notifier
	log      *slog.Logger
}

func NewTopicService(
	log *slog.Logger,
	tx txManager,
	topics topicStore,
	courses courseLookup,
	replies replyLister,
	opts ...Option,
) *TopicService {
	o := buildOptions(opts)
	return &TopicService{
		tx:       tx,
		topics:   topics,
		courses:  courses,
		replies:  replies,
		now:      o.now,
		notifier: o.notifier,
		log:      log.With("service", "topic"),
	}
}

// RegisterTopic creates a topic owned by author. Checks run in this order and
// stop at the first failure: course id present, topic shape, course exists,
// title unused, message unused.
func (s *TopicService) RegisterTopic(ctx context.Context, author models.User, input RegisterTopicInput) (*TopicSummary, error) {
	if author.ID == uuid.Nil {
		return nil, unauthenticated("authenticated user required")
	}
	input = input.normalize()
	if input.CourseID == nil || *input.CourseID == uuid.Nil {
		return nil, invalidInput("course id must not be null")
	}
	if err := validate(input); err != nil {
		return nil, err
	}
	courseID := *input.CourseID

	var topic *models.Topic
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.courses.ExistsByID(ctx, courseID)
		if err != nil {
			return fmt.Errorf("check course: %w", err)
		}
		if !ok {
			return notFound("course reference does not exist")
		}

		taken, err := s.topics.ExistsByTitle(ctx, input.Title, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if taken {
			return conflict("a topic with this title already exists")
		}
		taken, err = s.topics.ExistsByMessage(ctx, input.Message, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check message: %w", err)
		}
		if taken {
			return conflict("a topic with this message already exists")
		}

		course, err := s.courses.GetByID(ctx, courseID)
		if err != nil {
			return fmt.Errorf("get course: %w", err)
		}

		now := s.now()
		topic = &models.Topic{
			Title:     input.Title,
			Message:   input.Message,
			Slug:      slug.Make(input.Title),
			Status:    models.StatusOpen,
			AuthorID:  author.ID,
			CourseID:  courseID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.topics.Create(ctx, topic); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return conflict("a topic with this title or message already exists")
			}
			return fmt.Errorf("create topic: %w", err)
		}
		topic.Author = author
		topic.Course = *course
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "topic registered",
		slog.String("topic_id", topic.ID.String()),
		slog.String("author_id", author.ID.String()),
		slog.String("course_id", courseID.String()),
	)

	summary := newTopicSummary(topic)
	s.notifier.Notify(Event{Type: EventTopicCreated, TopicID: topic.ID, Data: summary})
	return &summary, nil
}

// ListTopics returns topics newest first; ties are broken by id.
func (s *TopicService) ListTopics(ctx context.Context, req PageRequest) (*Page[TopicListItem], error) {
	req = req.normalize()

	var (
		topics []models.Topic
		total  int64
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		topics, total, err = s.topics.List(ctx, req.offset(), req.Limit)
		if err != nil {
			return fmt.Errorf("list topics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]TopicListItem, 0, len(topics))
	for _, t := range topics {
		items = append(items, newTopicListItem(t))
	}
	return newPage(items, req, total), nil
}

// GetTopic returns the topic with all of its replies, oldest reply first.
func (s *TopicService) GetTopic(ctx context.Context, id uuid.UUID) (*TopicDetail, error) {
	if id == uuid.Nil {
		return nil, invalidInput("topic id must not be null")
	}

	var topic *models.Topic
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireTopic(ctx, id); err != nil {
			return err
		}
		var err error
		topic, err = s.topics.GetWithReplies(ctx, id)
		if err != nil {
			return fmt.Errorf("get topic: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	detail := newTopicDetail(topic)
	return &detail, nil
}

// UpdateTopic applies the non-nil fields of input and always refreshes updated_at.
// Only the author or staff may edit. A new title or message must not be used by
// another topic.
func (s *TopicService) UpdateTopic(ctx context.Context, caller models.User, id uuid.UUID, input UpdateTopicInput) (*TopicSummary, error) {
	if id == uuid.Nil {
		return nil, invalidInput("topic id must not be null")
	}
	if caller.ID == uuid.Nil {
		return nil, unauthenticated("authenticated user required")
	}
	input = input.normalize()
	if err := validate(input); err != nil {
		return nil, err
	}
	var status *models.Status
	if input.Status != nil {
		parsed, err := models.ParseStatus(*input.Status)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		status = &parsed
	}

	var topic *models.Topic
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireTopic(ctx, id); err != nil {
			return err
		}
		var err error
		topic, err = s.topics.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get topic: %w", err)
		}
		if !canModerate(caller, topic.AuthorID) {
			return forbidden("only the author or a moderator can edit this topic")
		}

		if input.CourseID != nil && *input.CourseID != topic.CourseID {
			ok, err := s.courses.ExistsByID(ctx, *input.CourseID)
			if err != nil {
				return fmt.Errorf("check course: %w", err)
			}
			if !ok {
				return notFound("course reference does not exist")
			}
			course, err := s.courses.GetByID(ctx, *input.CourseID)
			if err != nil {
				return fmt.Errorf("get course: %w", err)
			}
			topic.CourseID = course.ID
			topic.Course = *course
		}
		if input.Title != nil && *input.Title != topic.Title {
			taken, err := s.topics.ExistsByTitle(ctx, *input.Title, id)
			if err != nil {
				return fmt.Errorf("check title: %w", err)
			}
			if taken {
				return conflict("a topic with this title already exists")
			}
			topic.Title = *input.Title
			topic.Slug = slug.Make(*input.Title)
		}
		if input.Message != nil && *input.Message != topic.Message {
			taken, err := s.topics.ExistsByMessage(ctx, *input.Message, id)
			if err != nil {
				return fmt.Errorf("check message: %w", err)
			}
			if taken {
				return conflict("a topic with this message already exists")
			}
			topic.Message = *input.Message
		}
		if status != nil {
			topic.Status = *status
		}

		now := s.now()
		if now.Before(topic.UpdatedAt) {
			now = topic.UpdatedAt
		}
		topic.UpdatedAt = now

		if err := s.topics.Update(ctx, topic); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return conflict("a topic with this title or message already exists")
			}
			return fmt.Errorf("update topic: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "topic updated", slog.String("topic_id", id.String()))

	summary := newTopicSummary(topic)
	s.notifier.Notify(Event{Type: EventTopicUpdated, TopicID: id, Data: summary})
	return &summary, nil
}

// DeleteTopic removes the topic and all of its replies. Only the author or
// staff may delete.
func (s *TopicService) DeleteTopic(ctx context.Context, caller models.User, id uuid.UUID) (*Message, error) {
	if id == uuid.Nil {
		return nil, invalidInput("topic id must not be null")
	}
	if caller.ID == uuid.Nil {
		return nil, unauthenticated("authenticated user required")
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireTopic(ctx, id); err != nil {
			return err
		}
		topic, err := s.topics.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get topic: %w", err)
		}
		if !canModerate(caller, topic.AuthorID) {
			return forbidden("only the author or a moderator can delete this topic")
		}
		if err := s.topics.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound("topic reference does not exist")
			}
			return fmt.Errorf("delete topic: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "topic deleted",
		slog.String("topic_id", id.String()),
		slog.String("caller_id", caller.ID.String()),
	)
	s.notifier.Notify(Event{Type: EventTopicDeleted, TopicID: id})
	return deletedMessage("topic", id), nil
}

// ListReplies returns one page of the topic's replies, oldest first.
func (s *TopicService) ListReplies(ctx context.Context, topicID uuid.UUID, req PageRequest) (*Page[ReplyView], error) {
	if topicID == uuid.Nil {
		return nil, invalidInput("topic id must not be null")
	}
	req = req.normalize()

	var (
		replies []models.Reply
		total   int64
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireTopic(ctx, topicID); err != nil {
			return err
		}
		var err error
		replies, total, err = s.replies.ListByTopic(ctx, topicID, req.offset(), req.Limit)
		if err != nil {
			return fmt.Errorf("list replies: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]ReplyView, 0, len(replies))
	for _, r := range replies {
		items = append(items, newReplyView(r))
	}
	return newPage(items, req, total), nil
}

func (s *TopicService) requireTopic(ctx context.Context, id uuid.UUID) error {
	ok, err := s.topics.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check topic: %w", err)
	}
	if !ok {
		return notFound("topic reference does not exist")
	}
	return nil
}

// canModerate reports whether caller may change content written by authorID.
func canModerate(caller models.User, authorID uuid.UUID) bool {
	return caller.ID == authorID || caller.IsStaff()
}
