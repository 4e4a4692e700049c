package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
	postSvc service.PostService
}

func NewUserHandler(userSvc service.UserService, postSvc service.PostService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
		postSvc: postSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := s.userSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "registered", "user": user})
}

func (s *UserHandler) Login(c *gin.Context) {
	var req dto.CredentialDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	user, token, err := s.userSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	security.SetSessionCookie(c, token)
	response.Success(c, http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// Logout 总是清除 Cookie，携带有效 Token 时将其吊销
func (s *UserHandler) Logout(c *gin.Context) {
	s.userSvc.Logout(c.Request.Context(), security.SessionToken(c))
	security.ClearSessionCookie(c)
	response.Message(c, http.StatusOK, "logged out")
}

func (s *UserHandler) Me(c *gin.Context) {
	user := s.userSvc.GetCurrentUser(c.Request.Context(), security.SessionToken(c))
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (s *UserHandler) GetUserPosts(c *gin.Context) {
	page, err := s.postSvc.GetUserPosts(c.Request.Context(),
		c.Param("username"),
		util.ParseCursor(c.Query("cursor")),
		util.ParseLimit(c.Query("limit")),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}
