package repository

import (
	"context"
	"fmt"

	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/model"
)

// CreateRequiredItem 创建需求物资
func (s *Store) CreateRequiredItem(ctx context.Context, item *model.RequiredItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create required item: %w", err)
	}
	return nil
}

// GetRequiredItem 获取需求物资及所属机构
func (s *Store) GetRequiredItem(ctx context.Context, id int64) (*model.RequiredItem, error) {
	var item model.RequiredItem
	if err := s.db.WithContext(ctx).Preload("Organization").First(&item, id).Error; err != nil {
		return nil, translate(err, "required item", id)
	}
	return &item, nil
}

// ListRequiredItems 分页获取需求物资，organizationId 为 0 时不过滤机构
func (s *Store) ListRequiredItems(ctx context.Context, organizationId int64, page, pageSize int) ([]model.RequiredItem, int64, error) {
	var items []model.RequiredItem
	var total int64

	// 获取总数
	count := s.db.WithContext(ctx).Model(&model.RequiredItem{})
	if organizationId != 0 {
		count = count.Where("organization_id = ?", organizationId)
	}
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 获取数据
	offset := (page - 1) * pageSize
	find := s.db.WithContext(ctx).Preload("Organization")
	if organizationId != 0 {
		find = find.Where("organization_id = ?", organizationId)
	}
	if err := find.Offset(offset).
		Limit(pageSize).
		Order("ended_date DESC").
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// TransitionItem 条件更新需求物资状态，状态已不是 from 时返回 ErrStateChanged
func (s *Store) TransitionItem(ctx context.Context, id int64, from, to event.ItemState) error {
	res := s.db.WithContext(ctx).Model(&model.RequiredItem{}).
		Where("id = ? AND state = ?", id, from).
		Update("state", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update required item %d state: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: required item %d is no longer %s", ErrStateChanged, id, from)
	}
	return nil
}
