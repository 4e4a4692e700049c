package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PostActionHandler struct {
	actionSvc service.PostActionService
}

func NewPostActionHandler(actionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{
		actionSvc: actionSvc,
	}
}

func (s *PostActionHandler) ListComments(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	postID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	comments, err := s.actionSvc.GetCommentsByPostID(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, comments)
}

func (s *PostActionHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	postID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CommentCreateDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.actionSvc.CreateComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "comment created", "comment": comment})
}

func (s *PostActionHandler) GetLikeStatus(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	postID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	state, err := s.actionSvc.GetLikeStatus(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

func (s *PostActionHandler) ToggleLike(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	postID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.actionSvc.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "post liked"
	if !result.Liked {
		message = "like removed"
	}
	response.Success(c, http.StatusOK, gin.H{"message": message, "liked": result.Liked, "count": result.Count})
}
