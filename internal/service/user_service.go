package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, dto *dto.CredentialDTO) (*dto.UserDTO, string, error)
	Logout(ctx context.Context, token string)
	GetCurrentUser(ctx context.Context, token string) *dto.UserDTO
	GetUserByUsername(ctx context.Context, username string) (*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo  repository.UserRepo
	publisher kafka.Publisher
}

func NewUserService(userRepo repository.UserRepo, publisher kafka.Publisher) UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error) {
	regDTO.Username = strings.TrimSpace(regDTO.Username)
	regDTO.Email = strings.TrimSpace(regDTO.Email)
	if regDTO.Name != nil {
		name := strings.TrimSpace(*regDTO.Name)
		regDTO.Name = &name
		if name == "" {
			regDTO.Name = nil
		}
	}
	if err := util.ValidateDTO(regDTO); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, regDTO.Username, regDTO.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrParamInvalid
		}
		return nil, err
	}

	user := &model.User{}
	if err = copier.Copy(user, regDTO); err != nil {
		return nil, err
	}
	user.Password = passwordHash

	// 并发注册时由唯一索引兜底
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrUserExist
		}
		return nil, err
	}

	log.InfoContext(ctx, "user registered", "userID", user.ID, "username", user.Username)
	s.publisher.Publish(ctx, kafka.NewEvent(kafka.EventUserRegistered, user.ID, 0))
	return toUserDTO(user), nil
}

func (s *UserServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (*dto.UserDTO, string, error) {
	credDTO.Username = strings.TrimSpace(credDTO.Username)
	if err := util.ValidateDTO(credDTO); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetUserByUsername(ctx, credDTO.Username)
	if err != nil {
		return nil, "", err
	}
	// 用户不存在与密码错误返回同一个错误
	if user == nil || !security.CheckPasswordHash(credDTO.Password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return toUserDTO(user), token, nil
}

// Logout 将 Token 签名写入吊销列表直至其自然过期，失败只记录日志
func (s *UserServiceImpl) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		return
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return
	}

	ttl := security.ExpirationTime()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return
	}
	if err = redis.SetWithExpiration(ctx, consts.TokenRevokedKey+signature, 1, ttl); err != nil {
		log.WarnContext(ctx, "revoke token failed", "userID", claims.UserID, "err", err)
		return
	}
	log.InfoContext(ctx, "user logged out", "userID", claims.UserID)
}

// GetCurrentUser 解析会话对应的用户，任何失败都视为未登录并返回 nil
func (s *UserServiceImpl) GetCurrentUser(ctx context.Context, token string) *dto.UserDTO {
	claims, err := Authenticate(ctx, token)
	if err != nil {
		return nil
	}
	user, err := s.userRepo.GetUserById(ctx, claims.UserID)
	if err != nil {
		log.WarnContext(ctx, "load current user failed", "userID", claims.UserID, "err", err)
		return nil
	}
	if user == nil {
		return nil
	}
	return toUserDTO(user)
}

func (s *UserServiceImpl) GetUserByUsername(ctx context.Context, username string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user), nil
}

// Authenticate 完整校验会话 Token：签名、过期、声明以及是否已被吊销
func Authenticate(ctx context.Context, token string) (*security.UserClaims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	revoked, err := redis.Exists(ctx, consts.TokenRevokedKey+signature)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func toUserDTO(user *model.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
	}
}

func toAuthorDTO(user *model.User) dto.AuthorDTO {
	return dto.AuthorDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}
}
