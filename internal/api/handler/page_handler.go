package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// PageHandler 提供前端页面：存在的静态文件直接返回，其余路径回落到 index.html
type PageHandler struct {
	root string
}

func NewPageHandler(root string) *PageHandler {
	return &PageHandler{
		root: root,
	}
}

// RejectAPI 未匹配的 API 请求与非 GET 请求直接返回 404，不进入页面逻辑
func (s *PageHandler) RejectAPI(c *gin.Context) {
	method := c.Request.Method
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || (method != http.MethodGet && method != http.MethodHead) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Next()
}

func (s *PageHandler) Serve(c *gin.Context) {

	name := filepath.Join(s.root, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		c.File(name)
		return
	}

	index := filepath.Join(s.root, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.File(index)
}
