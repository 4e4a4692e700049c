package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// listParams 任一出现即走分页列表，否则返回最新帖子
var listParams = []string{"q", "tag", "cursor", "limit", "status"}

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

func (s *PostHandler) ListPosts(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	query := c.Request.URL.Query()

	paged := false
	for _, key := range listParams {
		if query.Has(key) {
			paged = true
			break
		}
	}

	if !paged {
		posts, err := s.postSvc.ListLatestPosts(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, posts)
		return
	}

	page, err := s.postSvc.ListPosts(c.Request.Context(), userID, &dto.PostListQuery{
		Keyword: query.Get("q"),
		Tag:     query.Get("tag"),
		Status:  query.Get("status"),
		Cursor:  util.ParseCursor(query.Get("cursor")),
		Limit:   util.ParseLimit(query.Get("limit")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)

	var req dto.CreatePostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "post created", "post": post})
}

func (s *PostHandler) GetPost(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	postID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, post)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	postID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdatePostDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.UpdatePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "post updated", "post": post})
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	postID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.postSvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "post deleted")
}
