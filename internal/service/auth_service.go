package service

import (
	"crypto/subtle"

	"leaflow_checkin/internal/config"
	"leaflow_checkin/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// AuthService 管理员登录，账号来自环境变量/配置（无用户表）
type AuthService struct {
	Cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{Cfg: cfg}
}

// Login 校验管理员凭据并签发 JWT
// 配置了 ADMIN_PASSWORD_HASH 时走 bcrypt，否则对明文做常量时间比较
func (s *AuthService) Login(username, password string) (string, error) {
	admin := s.Cfg.Admin

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1

	var passOK bool
	if admin.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(admin.Password)) == 1
	}

	if !userOK || !passOK {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(admin.Username, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}
