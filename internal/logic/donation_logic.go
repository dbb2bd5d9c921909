package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/model"
	"github.com/shared-tw/backend/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DonationLogic 捐赠业务逻辑
type DonationLogic struct {
	store *repository.Store
	items *RequiredItemLogic
	now   func() time.Time
}

// CreateDonationRequest 创建捐赠参数
type CreateDonationRequest struct {
	Amount                uint
	EstimatedDeliveryDays uint
	ExceptedDeliveryDate  *datatypes.Date
}

// CreateDonation 捐赠者对需求物资认捐
func (l *DonationLogic) CreateDonation(ctx context.Context, user *model.User, itemId int64, req CreateDonationRequest) (*model.Donation, error) {
	switch user.Role() {
	case event.RoleDonor:
	case event.RoleNone:
		return nil, event.ErrInvalidUser
	default:
		return nil, fmt.Errorf("%w: only donors can pledge", ErrPermissionDenied)
	}
	if req.Amount == 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidArgument)
	}

	now := l.now()
	days := req.EstimatedDeliveryDays
	if req.ExceptedDeliveryDate != nil {
		today := model.DateOf(now)
		if model.DateBefore(*req.ExceptedDeliveryDate, today) {
			return nil, fmt.Errorf("%w: excepted delivery date is in the past", ErrInvalidArgument)
		}
		if days == 0 {
			days = uint(time.Time(*req.ExceptedDeliveryDate).Sub(time.Time(today)).Hours() / 24)
		}
	}

	// 访问时检查需求物资是否过期或已完成
	item, err := l.items.Recompute(ctx, itemId)
	if err != nil {
		return nil, err
	}
	if !item.Accepting(now) {
		return nil, fmt.Errorf("%w: required item %d is %s", ErrItemClosed, item.Id, item.State)
	}

	donation := model.NewDonation(item.Id, user.Id, req.Amount, days)
	donation.ExceptedDeliveryDate = req.ExceptedDeliveryDate
	if err := l.store.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	logger.Info("Donor %d pledged %d %s to required item %d (donation %d)",
		user.Id, donation.Amount, item.Unit, item.Id, donation.Id)
	return donation, nil
}

// SubmitEvent 提交捐赠事件，是捐赠状态唯一的修改入口
func (l *DonationLogic) SubmitEvent(ctx context.Context, user *model.User, donationId int64, raw event.Raw) (*model.Donation, error) {
	e, err := event.Parse(raw)
	if err != nil {
		return nil, err
	}
	e = event.NewAt(e.Name, e.Comment, l.now())
	return l.submit(ctx, user, donationId, e, true)
}

// submit 校验角色和所有权，锁定捐赠后追加事件。
// recompute 为 false 时不重算需求物资，供级联取消使用。
func (l *DonationLogic) submit(ctx context.Context, user *model.User, donationId int64, e event.Event, recompute bool) (*model.Donation, error) {
	role := user.Role()
	if err := event.Authorize(role, e.Name); err != nil {
		return nil, err
	}

	current, err := l.store.GetDonation(ctx, donationId)
	if err != nil {
		return nil, err
	}
	if err := l.authorizeOwner(ctx, user, role, current); err != nil {
		return nil, err
	}
	if current.State.IsTerminal() {
		return nil, fmt.Errorf("%w: donation %d is %s", event.ErrTerminalState, current.Id, current.State)
	}

	var updated *model.Donation
	err = l.store.WithDonationLock(ctx, donationId, func(tx *gorm.DB, locked *model.Donation) error {
		// 加锁后重新检查，期间可能已被其他请求修改
		if locked.State.IsTerminal() {
			return fmt.Errorf("%w: donation %d is %s", event.ErrTerminalState, locked.Id, locked.State)
		}
		if err := locked.Append(e, l.now()); err != nil {
			return err
		}
		if err := l.store.SaveDonation(tx, locked); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrInvalidTransition):
			logger.Error("Rejected %s on donation %d by user %d: %v", e.Name, donationId, user.Id, err)
		case errors.Is(err, event.ErrLockContention):
			logger.Warn("Donation %d is locked, %s from user %d rejected", donationId, e.Name, user.Id)
		}
		return nil, err
	}

	logger.Info("Donation %d: %s by %s %d, now %s", updated.Id, e.Name, role, user.Id, updated.State)

	if recompute {
		if _, err := l.items.Recompute(ctx, updated.RequiredItemId); err != nil {
			// 需求物资可随时由捐赠重新推导，这里不回滚捐赠
			logger.Warn("Failed to recompute required item %d after donation %d changed: %v",
				updated.RequiredItemId, updated.Id, err)
		}
	}
	return updated, nil
}

// authorizeOwner 机构只能操作自己需求物资下的捐赠，捐赠者只能操作自己的捐赠
func (l *DonationLogic) authorizeOwner(ctx context.Context, user *model.User, role event.Role, d *model.Donation) error {
	switch role {
	case event.RoleDonor:
		if d.CreatedBy != user.Id {
			return fmt.Errorf("%w: donation %d belongs to another donor", event.ErrForbiddenEvent, d.Id)
		}
	case event.RoleOrganization:
		item, err := l.store.GetRequiredItem(ctx, d.RequiredItemId)
		if err != nil {
			return err
		}
		if item.OrganizationId != user.Organization.Id {
			return fmt.Errorf("%w: donation %d belongs to another organization", event.ErrForbiddenEvent, d.Id)
		}
	default:
		return event.ErrInvalidUser
	}
	return nil
}

// GetDonation 获取捐赠详情
func (l *DonationLogic) GetDonation(ctx context.Context, id int64) (*model.Donation, error) {
	return l.store.GetDonation(ctx, id)
}

// GetItemDonations 获取需求物资下的捐赠
func (l *DonationLogic) GetItemDonations(ctx context.Context, itemId int64) ([]model.Donation, error) {
	if _, err := l.store.GetRequiredItem(ctx, itemId); err != nil {
		return nil, err
	}
	return l.store.ListItemDonations(ctx, itemId)
}

// GetUserDonations 分页获取捐赠者自己的捐赠
func (l *DonationLogic) GetUserDonations(ctx context.Context, user *model.User, page, pageSize int) ([]model.Donation, int64, error) {
	if user.Role() != event.RoleDonor {
		return nil, 0, fmt.Errorf("%w: only donors have donations", ErrPermissionDenied)
	}
	return l.store.ListUserDonations(ctx, user.Id, page, pageSize)
}
