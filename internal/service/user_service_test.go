package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/security"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestRegisterLoginCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered := env.register(t, "alice")
	if registered.ID == 0 || registered.Email != "alice@example.com" {
		t.Fatalf("unexpected registered user %+v", registered)
	}

	user, token, err := env.users.Login(ctx, &dto.CredentialDTO{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID || token == "" {
		t.Fatalf("login returned %+v / %q", user, token)
	}

	me := env.users.GetCurrentUser(ctx, token)
	if me == nil || me.ID != registered.ID {
		t.Fatalf("current user = %+v, want id %d", me, registered.ID)
	}
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	cases := []struct {
		name string
		req  dto.RegisterDTO
		want error
	}{
		{"duplicate username", dto.RegisterDTO{Username: "alice", Email: "other@example.com", Password: "secret123"}, ErrUserExist},
		{"duplicate email", dto.RegisterDTO{Username: "bob", Email: "alice@example.com", Password: "secret123"}, ErrUserExist},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.users.Register(ctx, &tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	invalid := []dto.RegisterDTO{
		{Username: "", Email: "x@example.com", Password: "secret123"},
		{Username: "carol", Email: "x@example.com", Password: "short"},
		{Username: "dave", Email: "not-an-email", Password: "secret123"},
		{Username: "ed", Email: "ed@example.com", Password: "secret123"},
	}
	for _, req := range invalid {
		_, err := env.users.Register(ctx, &req)
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			t.Fatalf("register %+v: expected validation error, got %v", req, err)
		}
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	_, _, errWrongPassword := env.users.Login(ctx, &dto.CredentialDTO{Username: "alice", Password: "wrong-password"})
	_, _, errUnknownUser := env.users.Login(ctx, &dto.CredentialDTO{Username: "nobody", Password: "secret123"})

	if !errors.Is(errWrongPassword, ErrInvalidCredentials) || !errors.Is(errUnknownUser, ErrInvalidCredentials) {
		t.Fatalf("got %v and %v", errWrongPassword, errUnknownUser)
	}
	if errWrongPassword.Error() != errUnknownUser.Error() {
		t.Fatal("unknown user and wrong password must be indistinguishable")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	_, token, err := env.users.Login(ctx, &dto.CredentialDTO{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err = Authenticate(ctx, token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	env.users.Logout(ctx, token)

	signature, _ := security.ExtractSignature(token)
	if !env.mr.Exists(consts.TokenRevokedKey + signature) {
		t.Fatal("revocation key not written")
	}
	if ttl := env.mr.TTL(consts.TokenRevokedKey + signature); ttl <= 0 {
		t.Fatalf("revocation key should expire with the token, ttl = %v", ttl)
	}
	if _, err = Authenticate(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("revoked token accepted: %v", err)
	}
	if me := env.users.GetCurrentUser(ctx, token); me != nil {
		t.Fatalf("revoked token resolved to %+v", me)
	}

	// 无效 Token 登出不报错
	env.users.Logout(ctx, "garbage")
	env.users.Logout(ctx, "")
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "alice")

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	forged := tamperSignature(token)
	if _, err = Authenticate(ctx, forged); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("forged token accepted: %v", err)
	}
	if _, err = Authenticate(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty token accepted: %v", err)
	}
}

func TestGetCurrentUserForDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	token, err := security.GenerateToken(999, "ghost")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if me := env.users.GetCurrentUser(context.Background(), token); me != nil {
		t.Fatalf("expected nil for missing user, got %+v", me)
	}
}

// tamperSignature 修改签名段中间的一个字符，保持 Token 结构合法
func tamperSignature(token string) string {
	i := strings.LastIndex(token, ".") + 5
	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}
	return token[:i] + string(replacement) + token[i+1:]
}
