package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("invalid request")
	ErrInvalidID          = errors.New("invalid id")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExist          = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrPostNotFound       = errors.New("post not found")
	ErrPostContentEmpty   = errors.New("title and content are required")
	ErrPostStatusInvalid  = errors.New("status must be one of [DRAFT PUBLISHED]")
	ErrTagTooLong         = errors.New("tag must be at most 50 characters")
	ErrCommentEmpty       = errors.New("comment content is required")
	ErrCommentTooLong     = errors.New("comment must be at most 5000 characters")
	ErrSlugExhausted      = errors.New("could not allocate a unique slug")
	UnExpectedError       = errors.New("internal server error")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrInvalidID:          BadRequest,
	ErrUserNotFound:       NotFound,
	ErrUserExist:          Conflict,
	ErrInvalidCredentials: Unauthorized,
	ErrUnauthorized:       Unauthorized,
	ErrForbidden:          Forbidden,
	ErrPostNotFound:       NotFound,
	ErrPostContentEmpty:   BadRequest,
	ErrPostStatusInvalid:  BadRequest,
	ErrTagTooLong:         BadRequest,
	ErrCommentEmpty:       BadRequest,
	ErrCommentTooLong:     BadRequest,
	ErrSlugExhausted:      InternalServerError,
	UnExpectedError:       InternalServerError,
}

// StatusOf 查找错误链上已登记的业务错误，返回状态码与对外提示
func StatusOf(err error) (int, string, bool) {
	for known, code := range ErrorMap {
		if errors.Is(err, known) {
			return code, known.Error(), true
		}
	}
	return InternalServerError, UnExpectedError.Error(), false
}
