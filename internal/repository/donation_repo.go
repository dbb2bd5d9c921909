package repository

import (
	"context"
	"fmt"

	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/model"
	"gorm.io/gorm"
)

// CreateDonation 创建捐赠
func (s *Store) CreateDonation(ctx context.Context, d *model.Donation) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

// SaveDonation 在锁定的事务中保存捐赠的状态、日志和高水位
func (s *Store) SaveDonation(tx *gorm.DB, d *model.Donation) error {
	err := tx.Model(d).
		Select("state", "events", "processed_events", "excepted_delivery_date", "updated_at").
		Updates(d).Error
	if err != nil {
		return fmt.Errorf("failed to save donation %d: %w", d.Id, err)
	}
	return nil
}

// GetDonation 获取捐赠
func (s *Store) GetDonation(ctx context.Context, id int64) (*model.Donation, error) {
	var d model.Donation
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err, "donation", id)
	}
	return &d, nil
}

// ListItemDonations 获取需求物资下的全部捐赠
func (s *Store) ListItemDonations(ctx context.Context, itemId int64) ([]model.Donation, error) {
	var donations []model.Donation
	if err := s.db.WithContext(ctx).
		Where("required_item_id = ?", itemId).
		Order("id ASC").
		Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("failed to list donations of item %d: %w", itemId, err)
	}
	return donations, nil
}

// ListUserDonations 分页获取用户创建的捐赠
func (s *Store) ListUserDonations(ctx context.Context, userId int64, page, pageSize int) ([]model.Donation, int64, error) {
	var donations []model.Donation
	var total int64

	// 获取总数
	if err := s.db.WithContext(ctx).Model(&model.Donation{}).
		Where("created_by = ?", userId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 获取数据
	offset := (page - 1) * pageSize
	if err := s.db.WithContext(ctx).
		Where("created_by = ?", userId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

// ListOpenDonations 批量获取未到终态的捐赠，afterId 用于翻页
func (s *Store) ListOpenDonations(ctx context.Context, afterId int64, limit int) ([]model.Donation, error) {
	var donations []model.Donation
	err := s.db.WithContext(ctx).
		Where("id > ? AND state NOT IN ?", afterId, []event.DonationState{
			event.DonationDone,
			event.DonationCancelled,
			event.DonationInvalid,
		}).
		Order("id ASC").
		Limit(limit).
		Find(&donations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open donations: %w", err)
	}
	return donations, nil
}

// SummarizeItems 批量计算需求物资的已核准、已送达数量
func (s *Store) SummarizeItems(ctx context.Context, items []model.RequiredItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Id)
	}

	var donations []model.Donation
	if err := s.db.WithContext(ctx).
		Select("id", "required_item_id", "amount", "state").
		Where("required_item_id IN ?", ids).
		Find(&donations).Error; err != nil {
		return fmt.Errorf("failed to summarize items: %w", err)
	}
	for i := range items {
		items[i].Summarize(donations)
	}
	return nil
}

// RepairDonationState 将缓存状态修正为日志重放结果，缓存已被修改时返回 ErrStateChanged
func (s *Store) RepairDonationState(ctx context.Context, id int64, cached, replayed event.DonationState) error {
	res := s.db.WithContext(ctx).Model(&model.Donation{}).
		Where("id = ? AND state = ?", id, cached).
		Update("state", replayed)
	if res.Error != nil {
		return fmt.Errorf("failed to repair donation %d state: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: donation %d is no longer %s", ErrStateChanged, id, cached)
	}
	return nil
}
