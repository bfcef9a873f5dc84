package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/services"
	"github.com/vnkhanh/forohub-backend/utils"
)

type topicService interface {
	RegisterTopic(ctx context.Context, author models.User, input services.RegisterTopicInput) (*services.TopicSummary, error)
	ListTopics(ctx context.Context, req services.PageRequest) (*services.Page[services.TopicListItem], error)
	GetTopic(ctx context.Context, id uuid.UUID) (*services.TopicDetail, error)
	UpdateTopic(ctx context.Context, caller models.User, id uuid.UUID, input services.UpdateTopicInput) (*services.TopicSummary, error)
	DeleteTopic(ctx context.Context, caller models.User, id uuid.UUID) (*services.Message, error)
	ListReplies(ctx context.Context, topicID uuid.UUID, req services.PageRequest) (*services.Page[services.ReplyView], error)
}

type TopicController struct {
	topics topicService
}

func NewTopicController(topics topicService) *TopicController {
	return &TopicController{topics: topics}
}

type CreateTopicRequest struct {
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	CourseID *uuid.UUID `json:"course_id"`
}

type UpdateTopicRequest struct {
	Title    *string    `json:"title"`
	Message  *string    `json:"message"`
	Status   *string    `json:"status"`
	CourseID *uuid.UUID `json:"course_id"`
}

func (tc *TopicController) CreateTopic(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	topic, err := tc.topics.RegisterTopic(c.Request.Context(), user, services.RegisterTopicInput{
		Title:    req.Title,
		Message:  req.Message,
		CourseID: req.CourseID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/topics/"+topic.ID.String())
	c.JSON(http.StatusCreated, topic)
}

func (tc *TopicController) GetTopics(c *gin.Context) {
	page, limit := utils.ParsePage(c)
	result, err := tc.topics.ListTopics(c.Request.Context(), services.PageRequest{Page: page, Limit: limit})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (tc *TopicController) GetTopicDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	topic, err := tc.topics.GetTopic(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (tc *TopicController) UpdateTopic(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	topic, err := tc.topics.UpdateTopic(c.Request.Context(), user, id, services.UpdateTopicInput{
		Title:    req.Title,
		Message:  req.Message,
		Status:   req.Status,
		CourseID: req.CourseID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (tc *TopicController) DeleteTopic(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	msg, err := tc.topics.DeleteTopic(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (tc *TopicController) GetTopicReplies(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, limit := utils.ParsePage(c)
	result, err := tc.topics.ListReplies(c.Request.Context(), id, services.PageRequest{Page: page, Limit: limit})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
