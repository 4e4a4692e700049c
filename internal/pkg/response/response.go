package response

import (
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	gojson "github.com/goccy/go-json"
)

// Success 成功返回，直接输出 JSON 文档
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Message 仅包含提示信息的成功返回
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, http.StatusBadRequest, util.ValidationMessage(ve))
		return
	}

	if isJSONError(err) {
		Fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	code, message, ok := service.StatusOf(err)
	if !ok || code == http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "Error", "path", c.FullPath(), "err", err)
	}
	Fail(c, code, message)
}

func isJSONError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var goSyntaxErr *gojson.SyntaxError
	var goTypeErr *gojson.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &goSyntaxErr) ||
		errors.As(err, &goTypeErr)
}
