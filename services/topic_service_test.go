package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/store/storetest"
)

func TestRegisterTopic_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Spring Boot")

	got, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{
		Title:    "Error 404",
		Message:  "Page not found on deploy",
		CourseID: &course.ID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Error 404", got.Title)
	assert.Equal(t, "Page not found on deploy", got.Message)
	assert.Equal(t, "error-404", got.Slug)
	assert.Equal(t, author.FullName, got.Author)
	assert.Equal(t, course.ID, got.CourseID)
	assert.Equal(t, course.Name, got.Course)
	assert.Equal(t, "OPEN", got.Status)
	assert.Equal(t, f.clock.Now(), got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)

	stored, err := f.topics.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, stored.AuthorID)
	assert.Equal(t, models.StatusOpen, stored.Status)

	assert.Equal(t, []string{EventTopicCreated}, f.notifier.Types())
}

func TestRegisterTopic_TrimsInput(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	got, err := f.topicService.RegisterTopic(context.Background(), author, RegisterTopicInput{
		Title:    "  Channels  ",
		Message:  "line one   \r\n\r\n\r\n\r\nline two\n",
		CourseID: &course.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Channels", got.Title)
	assert.Equal(t, "line one\n\nline two", got.Message)
}

func TestRegisterTopic_NilCourseIsInvalidInput(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "ana@example.com", models.RoleUser)

	tests := []struct {
		name     string
		courseID *uuid.UUID
		title    string
	}{
		{name: "missing course", courseID: nil, title: "valid title"},
		{name: "nil uuid", courseID: ptr(uuid.Nil), title: "valid title"},
		{name: "missing course and blank title", courseID: nil, title: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.topicService.RegisterTopic(context.Background(), author, RegisterTopicInput{
				Title:    tt.title,
				Message:  "message",
				CourseID: tt.courseID,
			})
			requireKind(t, err, ErrInvalidInput, "course id must not be null")
		})
	}
	assert.Zero(t, f.countTopics(t))
	assert.Empty(t, f.notifier.Types())
}

func TestRegisterTopic_ShapeValidation(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	_, err := f.topicService.RegisterTopic(context.Background(), author, RegisterTopicInput{
		Title:    "   ",
		Message:  "message",
		CourseID: &course.ID,
	})
	requireKind(t, err, ErrInvalidInput, "")

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Fields, "title")
	assert.Zero(t, f.countTopics(t))
}

func TestRegisterTopic_MissingCourseReportedBeforeDuplicateTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	_, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "Dup", Message: "one", CourseID: &course.ID})
	require.NoError(t, err)

	missing := uuid.New()
	_, err = f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "Dup", Message: "one", CourseID: &missing})
	requireKind(t, err, ErrNotFound, "course reference does not exist")
	assert.Equal(t, int64(1), f.countTopics(t))
}

func TestRegisterTopic_DuplicateTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	other := f.user(t, "bob@example.com", models.RoleUser)
	goCourse := f.course(t, "Go")
	javaCourse := f.course(t, "Java")

	_, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "Error 404", Message: "first", CourseID: &goCourse.ID})
	require.NoError(t, err)

	_, err = f.topicService.RegisterTopic(ctx, other, RegisterTopicInput{Title: "Error 404", Message: "second", CourseID: &javaCourse.ID})
	requireKind(t, err, ErrConflict, "a topic with this title already exists")

	var n int64
	require.NoError(t, f.db.Model(&models.Topic{}).Where("title = ?", "Error 404").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRegisterTopic_DuplicateMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	_, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "one", Message: "same text", CourseID: &course.ID})
	require.NoError(t, err)

	_, err = f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "two", Message: "same text", CourseID: &course.ID})
	requireKind(t, err, ErrConflict, "a topic with this message already exists")
	assert.Equal(t, int64(1), f.countTopics(t))
}

func TestRegisterTopic_RequiresAuthor(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go")

	_, err := f.topicService.RegisterTopic(context.Background(), models.User{}, RegisterTopicInput{Title: "t", Message: "m", CourseID: &course.ID})
	requireKind(t, err, ErrUnauthenticated, "")
}

func TestTopicIDChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := f.user(t, "ana@example.com", models.RoleUser)
	missing := uuid.New()

	ops := map[string]func(id uuid.UUID) error{
		"get": func(id uuid.UUID) error {
			_, err := f.topicService.GetTopic(ctx, id)
			return err
		},
		"update": func(id uuid.UUID) error {
			_, err := f.topicService.UpdateTopic(ctx, caller, id, UpdateTopicInput{Title: ptr("new")})
			return err
		},
		"delete": func(id uuid.UUID) error {
			_, err := f.topicService.DeleteTopic(ctx, caller, id)
			return err
		},
		"list replies": func(id uuid.UUID) error {
			_, err := f.topicService.ListReplies(ctx, id, PageRequest{})
			return err
		},
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			requireKind(t, op(uuid.Nil), ErrInvalidInput, "topic id must not be null")
			requireKind(t, op(missing), ErrNotFound, "topic reference does not exist")
		})
	}
}

func TestListTopics_PagesNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	for i := 0; i < 5; i++ {
		_, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{
			Title:    fmt.Sprintf("topic %d", i),
			Message:  fmt.Sprintf("message %d", i),
			CourseID: &course.ID,
		})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	page, err := f.topicService.ListTopics(ctx, PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, int64(3), page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "topic 4", page.Data[0].Title)
	assert.Equal(t, "topic 3", page.Data[1].Title)
	assert.Equal(t, "OPEN", page.Data[0].Status)

	last, err := f.topicService.ListTopics(ctx, PageRequest{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, last.Data, 1)
	assert.Equal(t, "topic 0", last.Data[0].Title)
}

func TestListTopics_DefaultsAndEmpty(t *testing.T) {
	f := newFixture(t)

	page, err := f.topicService.ListTopics(context.Background(), PageRequest{Page: 0, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxPageLimit, page.Limit)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Zero(t, page.TotalPages)
}

func TestGetTopic_IncludesReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	replier := f.user(t, "bob@example.com", models.RoleUser)
	course := f.course(t, "Go")

	created, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "Mutex", Message: "when to lock", CourseID: &course.ID})
	require.NoError(t, err)
	topic, err := f.topics.GetByID(ctx, created.ID)
	require.NoError(t, err)

	base := f.clock.Now()
	storetest.SeedReply(t, f.db, &replier, topic, "later", base.Add(2*time.Minute))
	storetest.SeedReply(t, f.db, &replier, topic, "earlier", base.Add(time.Minute))

	detail, err := f.topicService.GetTopic(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mutex", detail.Title)
	assert.Equal(t, author.FullName, detail.Author)
	assert.Equal(t, "Go", detail.Course)
	require.Len(t, detail.Replies, 2)
	assert.Equal(t, "earlier", detail.Replies[0].Message)
	assert.Equal(t, "later", detail.Replies[1].Message)
	assert.Equal(t, replier.FullName, detail.Replies[0].Author)
}

func TestUpdateTopic_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")
	other := f.course(t, "Rust")

	created, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "Old title", Message: "body", CourseID: &course.ID})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	updated, err := f.topicService.UpdateTopic(ctx, author, created.ID, UpdateTopicInput{
		Title:    ptr("New title"),
		Status:   ptr("in_progress"),
		CourseID: &other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "new-title", updated.Slug)
	assert.Equal(t, "body", updated.Message)
	assert.Equal(t, "IN_PROGRESS", updated.Status)
	assert.Equal(t, "Rust", updated.Course)
	assert.Equal(t, author.FullName, updated.Author)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.Equal(created.CreatedAt.Add(time.Hour)))

	assert.Equal(t, []string{EventTopicCreated, EventTopicUpdated}, f.notifier.Types())
}

func TestUpdateTopic_UpdatedAtNeverMovesBackwards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	created, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "t", Message: "m", CourseID: &course.ID})
	require.NoError(t, err)

	f.clock.Advance(-time.Hour)
	updated, err := f.topicService.UpdateTopic(ctx, author, created.ID, UpdateTopicInput{})
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateTopic_Uniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	first, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "first", Message: "first body", CourseID: &course.ID})
	require.NoError(t, err)
	_, err = f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "second", Message: "second body", CourseID: &course.ID})
	require.NoError(t, err)

	_, err = f.topicService.UpdateTopic(ctx, author, first.ID, UpdateTopicInput{Title: ptr("second")})
	requireKind(t, err, ErrConflict, "a topic with this title already exists")

	_, err = f.topicService.UpdateTopic(ctx, author, first.ID, UpdateTopicInput{Message: ptr("second body")})
	requireKind(t, err, ErrConflict, "a topic with this message already exists")

	// keeping its own title and message is not a conflict
	_, err = f.topicService.UpdateTopic(ctx, author, first.ID, UpdateTopicInput{Title: ptr("first"), Message: ptr("first body")})
	require.NoError(t, err)
}

func TestUpdateTopic_InvalidFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	created, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "t", Message: "m", CourseID: &course.ID})
	require.NoError(t, err)

	_, err = f.topicService.UpdateTopic(ctx, author, created.ID, UpdateTopicInput{Status: ptr("ARCHIVED")})
	requireKind(t, err, ErrInvalidInput, "")

	_, err = f.topicService.UpdateTopic(ctx, author, created.ID, UpdateTopicInput{Title: ptr("  ")})
	requireKind(t, err, ErrInvalidInput, "")

	missing := uuid.New()
	_, err = f.topicService.UpdateTopic(ctx, author, created.ID, UpdateTopicInput{CourseID: &missing})
	requireKind(t, err, ErrNotFound, "course reference does not exist")
}

func TestDeleteTopic_RemovesTopicAndReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	created, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "t", Message: "m", CourseID: &course.ID})
	require.NoError(t, err)
	_, err = f.replyService.CreateReply(ctx, author, created.ID, CreateReplyInput{Message: "reply"})
	require.NoError(t, err)

	msg, err := f.topicService.DeleteTopic(ctx, author, created.ID)
	require.NoError(t, err)
	assert.Equal(t, MessageSuccess, msg.Type)
	assert.Equal(t, fmt.Sprintf("topic with id: %s was deleted successfully", created.ID), msg.Message)

	_, err = f.topicService.GetTopic(ctx, created.ID)
	requireKind(t, err, ErrNotFound, "topic reference does not exist")

	var replies int64
	require.NoError(t, f.db.Model(&models.Reply{}).Count(&replies).Error)
	assert.Zero(t, replies)
}

func TestListReplies_Pages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	created, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "t", Message: "m", CourseID: &course.ID})
	require.NoError(t, err)
	topic, err := f.topics.GetByID(ctx, created.ID)
	require.NoError(t, err)

	base := f.clock.Now()
	for i := 0; i < 3; i++ {
		storetest.SeedReply(t, f.db, &author, topic, fmt.Sprintf("reply %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page, err := f.topicService.ListReplies(ctx, created.ID, PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "reply 2", page.Data[0].Message)
	assert.Equal(t, author.FullName, page.Data[0].Author)
}

func TestUpdateDeleteTopic_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	stranger := f.user(t, "eve@example.com", models.RoleUser)
	moderator := f.user(t, "mod@example.com", models.RoleModerator)
	course := f.course(t, "Go")

	created, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: "t", Message: "m", CourseID: &course.ID})
	require.NoError(t, err)

	_, err = f.topicService.UpdateTopic(ctx, stranger, created.ID, UpdateTopicInput{Title: ptr("hijacked")})
	requireKind(t, err, ErrForbidden, "only the author or a moderator can edit this topic")
	_, err = f.topicService.DeleteTopic(ctx, stranger, created.ID)
	requireKind(t, err, ErrForbidden, "only the author or a moderator can delete this topic")

	stored, err := f.topics.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", stored.Title)

	_, err = f.topicService.UpdateTopic(ctx, models.User{}, created.ID, UpdateTopicInput{Status: ptr("CLOSED")})
	requireKind(t, err, ErrUnauthenticated, "")

	updated, err := f.topicService.UpdateTopic(ctx, moderator, created.ID, UpdateTopicInput{Status: ptr("CLOSED")})
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", updated.Status)

	_, err = f.topicService.DeleteTopic(ctx, moderator, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{EventTopicCreated, EventTopicUpdated, EventTopicDeleted}, f.notifier.Types())
}

func TestRegisterTopic_LengthsCountCharacters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "ana@example.com", models.RoleUser)
	course := f.course(t, "Go")

	title := strings.Repeat("ñ", maxTitleLen)
	message := strings.Repeat("ção ", maxMessageLen/4)
	got, err := f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: title, Message: message, CourseID: &course.ID})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)

	_, err = f.topicService.RegisterTopic(ctx, author, RegisterTopicInput{Title: title + "ñ", Message: "other", CourseID: &course.ID})
	requireKind(t, err, ErrInvalidInput, "")
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Fields, "title")

	_, err = f.topicService.UpdateTopic(ctx, author, got.ID, UpdateTopicInput{Title: ptr(strings.Repeat("é", maxTitleLen))})
	require.NoError(t, err)
}
