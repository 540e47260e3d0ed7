package service

import (
	"fmt"

	"clubhouse/auth"
	"clubhouse/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type UserService struct {
	userRepository  *repository.UserRepository
	oauthRepository *repository.OauthRepository
}

func NewUserService() *UserService {
	return &UserService{
		userRepository:  repository.NewUserRepository(),
		oauthRepository: repository.NewOauthRepository(),
	}
}

func (s *UserService) GetUserById(userId int) (*repository.User, error) {
	return s.userRepository.GetUserById(userId)
}

func (s *UserService) GetUsersByIds(userIds []int) ([]*repository.User, error) {
	return s.userRepository.GetUsersByIds(userIds)
}

func (s *UserService) GetAllUsers() ([]*repository.User, error) {
	return s.userRepository.GetAllUsers()
}

func (s *UserService) SaveUser(user *repository.User) (*repository.User, error) {
	return s.userRepository.SaveUser(user)
}

func (s *UserService) GetUserByOauthProviderAndAccountId(provider repository.Provider, accountId string) (*repository.User, error) {
	oauth, err := s.oauthRepository.GetOauthByProviderAndAccountId(provider, accountId)
	if err != nil {
		return nil, err
	}
	return oauth.User, nil
}

func (s *UserService) ChangePermissions(userId int, permissions []repository.Permission) (*repository.User, error) {
	user, err := s.GetUserById(userId)
	if err != nil {
		return nil, err
	}
	stringPermissions := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		stringPermissions = append(stringPermissions, string(permission))
	}
	user.Permissions = stringPermissions
	return s.userRepository.SaveUser(user)
}

// GetUserFromContext resolves the authenticated user from the request,
// accepting either a bearer header or the auth cookie. Websocket upgrades
// cannot set headers, so those handlers copy the query token into the
// header before calling this.
func (s *UserService) GetUserFromContext(c *gin.Context) (*repository.User, error) {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return s.GetUserFromToken(authHeader[7:])
	}
	authCookie, err := c.Cookie("auth")
	if err != nil {
		return nil, fmt.Errorf("no credentials supplied")
	}
	return s.GetUserFromToken(authCookie)
}

func (s *UserService) GetUserFromToken(tokenString string) (*repository.User, error) {
	token, err := auth.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrInvalidKey
	}
	claims := &auth.Claims{}
	claims.FromJWTClaims(token.Claims)
	if err := claims.Valid(); err != nil {
		return nil, err
	}
	return s.GetUserById(claims.UserId)
}
