package repository

import (
	"clubhouse/config"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Permission string

const (
	PermissionAdmin Permission = "admin"
)

type User struct {
	Id          int            `gorm:"primaryKey"`
	DisplayName string         `gorm:"not null"`
	Permissions pq.StringArray `gorm:"type:text[];not null;default:'{}'"`

	OauthAccounts []*Oauth `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (u *User) HasPermission(permission Permission) bool {
	for _, p := range u.Permissions {
		if p == string(permission) {
			return true
		}
	}
	return false
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository() *UserRepository {
	return &UserRepository{DB: config.DatabaseConnection()}
}

func (r *UserRepository) GetUserById(userId int) (*User, error) {
	var user User
	result := r.DB.Preload("OauthAccounts").First(&user, userId)
	if result.Error != nil {
		return nil, fmt.Errorf("user with id %d not found", userId)
	}
	return &user, nil
}

func (r *UserRepository) GetUsersByIds(userIds []int) ([]*User, error) {
	var users []*User
	result := r.DB.Find(&users, "id IN ?", userIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find users: %v", result.Error)
	}
	return users, nil
}

func (r *UserRepository) GetAllUsers() ([]*User, error) {
	var users []*User
	result := r.DB.Preload("OauthAccounts").Order("id asc").Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find users: %v", result.Error)
	}
	return users, nil
}

func (r *UserRepository) SaveUser(user *User) (*User, error) {
	result := r.DB.Save(user)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save user: %v", result.Error)
	}
	return user, nil
}

func (r *UserRepository) Delete(userId int) error {
	return r.DB.Delete(&User{}, userId).Error
}
