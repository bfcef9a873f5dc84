package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/store"
	"github.com/vnkhanh/forohub-backend/store/storetest"
)

func TestReplyStore_ListByTopicPagesOldestFirst(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	author := storetest.SeedUser(t, db, "ana@example.com", models.RoleUser)
	course := storetest.SeedCourse(t, db, "Go")
	topic := storetest.SeedTopic(t, db, author, course, "Interfaces", base)
	other := storetest.SeedTopic(t, db, author, course, "Generics", base)

	var want []uuid.UUID
	for i := 0; i < 5; i++ {
		r := storetest.SeedReply(t, db, author, topic, "reply", base.Add(time.Duration(i)*time.Minute))
		want = append(want, r.ID)
	}
	storetest.SeedReply(t, db, author, other, "elsewhere", base)
	replies := store.NewReplyStore(db)

	page, total, err := replies.ListByTopic(ctx, topic.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, want[2], page[0].ID)
	assert.Equal(t, want[3], page[1].ID)
	assert.Equal(t, author.FullName, page[0].Author.FullName)
}

func TestReplyStore_CreateGetDelete(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	author := storetest.SeedUser(t, db, "ana@example.com", models.RoleUser)
	course := storetest.SeedCourse(t, db, "Go")
	topic := storetest.SeedTopic(t, db, author, course, "Errors", base)
	replies := store.NewReplyStore(db)

	solution := "wrap with %w"
	r := &models.Reply{TopicID: topic.ID, AuthorID: author.ID, Message: "use errors.Is", Solution: &solution}
	require.NoError(t, replies.Create(ctx, r))
	assert.False(t, r.CreatedAt.IsZero())

	got, err := replies.GetByID(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Solution)
	assert.Equal(t, solution, *got.Solution)

	require.NoError(t, replies.Delete(ctx, r.ID))
	_, err = replies.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, replies.Delete(ctx, r.ID), store.ErrNotFound)
}
