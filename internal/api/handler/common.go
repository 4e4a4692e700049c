package handler

import (
	"Inkwell/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID 解析路径中的正整数 id
func parseID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrInvalidID
	}
	return id, nil
}
