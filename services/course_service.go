package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/store"
)

type courseStore interface {
	Create(ctx context.Context, c *models.Course) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]models.Course, error)
}

type CreateCourseInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (i CreateCourseInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.RuneLength(1, 150)),
		validation.Field(&i.Category, validation.Required, validation.RuneLength(1, 100)),
	)
}

type CourseService struct {
	tx      txManager
	courses courseStore
	log     *slog.Logger
}

func NewCourseService(log *slog.Logger, tx txManager, courses courseStore) *CourseService {
	return &CourseService{
		tx:      tx,
		courses: courses,
		log:     log.With("service", "course"),
	}
}

func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	if err := validate(input); err != nil {
		return nil, err
	}

	course := &models.Course{Name: input.Name, Category: input.Category}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		taken, err := s.courses.ExistsByName(ctx, course.Name)
		if err != nil {
			return fmt.Errorf("check course name: %w", err)
		}
		if taken {
			return conflict("a course with this name already exists")
		}
		if err := s.courses.Create(ctx, course); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return conflict("a course with this name already exists")
			}
			return fmt.Errorf("create course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "course created", slog.String("course_id", course.ID.String()))
	return course, nil
}
