package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forohub-backend/middleware"
	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/services"
)

type authService interface {
	RegisterUser(ctx context.Context, input services.RegisterUserInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

type AuthController struct {
	auth authService
}

func NewAuthController(auth authService) *AuthController {
	return &AuthController{auth: auth}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, err := ac.auth.RegisterUser(c.Request.Context(), services.RegisterUserInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    user,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	res, err := ac.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (ac *AuthController) GoogleLogin(c *gin.Context) {
	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	res, err := ac.auth.LoginWithGoogle(c.Request.Context(), input.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.auth.Logout(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
