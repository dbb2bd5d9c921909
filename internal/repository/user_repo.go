package repository

import (
	"context"
	"fmt"

	"github.com/shared-tw/backend/internal/model"
	"gorm.io/gorm"
)

// CreateUser 创建用户及其资料（机构或捐赠者）
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %q: %w", user.Username, err)
		}
		return nil
	})
}

// GetUser 获取用户及其资料
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).
		Preload("Organization").
		Preload("Donor").
		First(&user, id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

// UsernameTaken 用户名是否已存在
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetOrganizationOwner 获取机构所属用户，用于以机构身份执行级联取消
func (s *Store) GetOrganizationOwner(ctx context.Context, organizationId int64) (*model.User, error) {
	var org model.Organization
	if err := s.db.WithContext(ctx).First(&org, organizationId).Error; err != nil {
		return nil, translate(err, "organization", organizationId)
	}
	return s.GetUser(ctx, org.UserId)
}
