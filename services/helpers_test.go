package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/store"
	"github.com/vnkhanh/forohub-backend/store/storetest"
	"github.com/vnkhanh/forohub-backend/utils"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(ev Event) {
	n.mu.Lock()
	n.events = append(n.events, ev)
	n.mu.Unlock()
}

func (n *recordingNotifier) Types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		types = append(types, ev.Type)
	}
	return types
}

type fixture struct {
	db       *gorm.DB
	clock    *fakeClock
	notifier *recordingNotifier
	tx       *store.TxManager
	users    *store.UserStore
	courses  *store.CourseStore
	topics   *store.TopicStore
	replies  *store.ReplyStore

	topicService  *TopicService
	replyService  *ReplyService
	courseService *CourseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storetest.NewDB(t)
	f := &fixture{
		db:       db,
		clock:    newFakeClock(),
		notifier: &recordingNotifier{},
		tx:       store.NewTxManager(db),
		users:    store.NewUserStore(db),
		courses:  store.NewCourseStore(db),
		topics:   store.NewTopicStore(db),
		replies:  store.NewReplyStore(db),
	}
	log := storetest.Logger()
	f.topicService = NewTopicService(log, f.tx, f.topics, f.courses, f.replies,
		WithClock(f.clock.Now), WithNotifier(f.notifier))
	f.replyService = NewReplyService(log, f.tx, f.replies, f.topics, WithNotifier(f.notifier))
	f.courseService = NewCourseService(log, f.tx, f.courses)
	return f
}

func (f *fixture) authService(opts ...Option) (*AuthService, *utils.JWT) {
	jwtManager := utils.NewJWT("test-secret-that-is-long-enough-123456", "forohub", time.Hour)
	opts = append([]Option{WithBcryptCost(bcrypt.MinCost)}, opts...)
	return NewAuthService(storetest.Logger(), f.tx, f.users, jwtManager, utils.NewMemoryTokenRevoker(), opts...), jwtManager
}

func (f *fixture) user(t *testing.T, email string, role models.UserRole) models.User {
	t.Helper()
	return *storetest.SeedUser(t, f.db, email, role)
}

func (f *fixture) course(t *testing.T, name string) models.Course {
	t.Helper()
	return *storetest.SeedCourse(t, f.db, name)
}

func (f *fixture) countTopics(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Topic{}).Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.ErrorIs(t, err, kind)
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *services.Error, got %T", err)
	if message != "" {
		require.Equal(t, message, svcErr.Message)
	}
}

func ptr[T any](v T) *T { return &v }
