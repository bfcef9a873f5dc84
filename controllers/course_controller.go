package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/services"
)

type courseService interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, input services.CreateCourseInput) (*models.Course, error)
}

type CourseController struct {
	courses courseService
}

func NewCourseController(courses courseService) *CourseController {
	return &CourseController{courses: courses}
}

type CreateCourseRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

func (cc *CourseController) GetCourses(c *gin.Context) {
	courses, err := cc.courses.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": courses})
}

func (cc *CourseController) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	course, err := cc.courses.CreateCourse(c.Request.Context(), services.CreateCourseInput{
		Name:     req.Name,
		Category: req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}
