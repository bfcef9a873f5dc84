package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/services"
)

type replyService interface {
	CreateReply(ctx context.Context, author models.User, topicID uuid.UUID, input services.CreateReplyInput) (*services.ReplyDetail, error)
	DeleteReply(ctx context.Context, caller models.User, replyID uuid.UUID) (*services.Message, error)
}

type ReplyController struct {
	replies replyService
}

func NewReplyController(replies replyService) *ReplyController {
	return &ReplyController{replies: replies}
}

type CreateReplyRequest struct {
	Message  string  `json:"message" binding:"required"`
	Solution *string `json:"solution"`
}

func (rc *ReplyController) CreateReply(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	topicID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := rc.replies.CreateReply(c.Request.Context(), user, topicID, services.CreateReplyInput{
		Message:  req.Message,
		Solution: req.Solution,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (rc *ReplyController) DeleteReply(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	msg, err := rc.replies.DeleteReply(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
