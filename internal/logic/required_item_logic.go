package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/model"
	"github.com/shared-tw/backend/internal/repository"
	"gorm.io/datatypes"
)

// expiredComment 过期自动取消时写入事件的备注
const expiredComment = "required item expired"

// RequiredItemLogic 需求物资业务逻辑
type RequiredItemLogic struct {
	store     *repository.Store
	donations *DonationLogic
	workers   int
	now       func() time.Time
}

// CreateRequiredItemRequest 创建需求物资参数
type CreateRequiredItemRequest struct {
	Name      string
	Amount    uint
	Unit      model.Unit
	EndedDate datatypes.Date
}

// GroupedRequiredItems 按机构分组的需求物资
type GroupedRequiredItems struct {
	Organization *model.Organization  `json:"organization"`
	Items        []model.RequiredItem `json:"items"`
}

// CreateRequiredItem 机构发布需求物资
func (l *RequiredItemLogic) CreateRequiredItem(ctx context.Context, user *model.User, req CreateRequiredItemRequest) (*model.RequiredItem, error) {
	if user.Role() != event.RoleOrganization {
		return nil, fmt.Errorf("%w: only organizations can post required items", ErrPermissionDenied)
	}
	if err := l.validateRequiredItem(req); err != nil {
		return nil, err
	}

	item := &model.RequiredItem{
		OrganizationId: user.Organization.Id,
		Name:           strings.TrimSpace(req.Name),
		Amount:         req.Amount,
		Unit:           req.Unit,
		EndedDate:      model.DateOf(time.Time(req.EndedDate)),
		State:          event.ItemCollecting,
	}
	if err := l.store.CreateRequiredItem(ctx, item); err != nil {
		return nil, err
	}
	item.Organization = user.Organization

	logger.Info("Organization %d posted required item %d: %d %s of %s",
		item.OrganizationId, item.Id, item.Amount, item.Unit, item.Name)
	return item, nil
}

// GetRequiredItem 获取需求物资详情，访问时重算状态
func (l *RequiredItemLogic) GetRequiredItem(ctx context.Context, id int64) (*model.RequiredItem, error) {
	return l.Recompute(ctx, id)
}

// Recompute 根据捐赠重新计算需求物资。
// 募集中且已过截止日期则级联取消；否则送达数量超过需求数量时标记为完成。
// 该操作幂等，不锁定需求物资，并发时以条件更新保证状态只前进一次。
func (l *RequiredItemLogic) Recompute(ctx context.Context, id int64) (*model.RequiredItem, error) {
	item, err := l.store.GetRequiredItem(ctx, id)
	if err != nil {
		return nil, err
	}
	donations, err := l.store.ListItemDonations(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Summarize(donations)

	switch {
	case item.Expired(l.now()):
		owner, err := l.store.GetOrganizationOwner(ctx, item.OrganizationId)
		if err != nil {
			return nil, err
		}
		logger.Info("Required item %d ended on %s, cancelling",
			item.Id, time.Time(item.EndedDate).Format(time.DateOnly))
		if err := l.cancel(ctx, owner, item, donations, expiredComment); err != nil {
			return nil, err
		}
		return l.reload(ctx, id)
	case item.State == event.ItemCollecting && item.Fulfilled():
		err := l.store.TransitionItem(ctx, item.Id, event.ItemCollecting, event.ItemDone)
		if err != nil && !errors.Is(err, repository.ErrStateChanged) {
			return nil, err
		}
		if err == nil {
			logger.Info("Required item %d fulfilled: %d/%d delivered",
				item.Id, item.DeliveredAmount, item.Amount)
		}
		return l.reload(ctx, id)
	}
	return item, nil
}

// Cancel 机构取消需求物资，尽力取消其下所有未结束的捐赠
func (l *RequiredItemLogic) Cancel(ctx context.Context, user *model.User, id int64, comment string) (*model.RequiredItem, error) {
	if user.Role() != event.RoleOrganization {
		return nil, fmt.Errorf("%w: only organizations can cancel required items", ErrPermissionDenied)
	}
	item, err := l.store.GetRequiredItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.OrganizationId != user.Organization.Id {
		return nil, fmt.Errorf("%w: required item %d belongs to another organization", ErrPermissionDenied, id)
	}

	donations, err := l.store.ListItemDonations(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Summarize(donations)
	if item.State != event.ItemCollecting {
		return item, nil
	}

	if err := l.cancel(ctx, user, item, donations, comment); err != nil {
		return nil, err
	}
	return l.reload(ctx, id)
}

// cancel 级联取消：每笔未结束的捐赠都走完整的提交流程，单笔失败只记录日志。
// 这不是全有或全无的事务，已到终态或正被修改的捐赠保持原样。
func (l *RequiredItemLogic) cancel(ctx context.Context, submitter *model.User, item *model.RequiredItem, donations []model.Donation, comment string) error {
	e := event.NewAt(event.KindDonationCancelled, comment, l.now())

	pool, err := ants.NewPool(l.workers)
	if err != nil {
		return fmt.Errorf("failed to create cancel pool for required item %d: %w", item.Id, err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, d := range donations {
		if d.State.IsTerminal() {
			continue
		}
		donationId := d.Id
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if _, err := l.donations.submit(ctx, submitter, donationId, e, false); err != nil {
				logger.Warn("Cascade cancel of donation %d (required item %d) skipped: %v",
					donationId, item.Id, err)
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit cancel of donation %d to pool: %v", donationId, err)
		}
	}
	wg.Wait()

	next := event.ApplyItem(item.State, e)
	if err := l.store.TransitionItem(ctx, item.Id, item.State, next); err != nil {
		if errors.Is(err, repository.ErrStateChanged) {
			logger.Warn("Required item %d changed state during cancellation", item.Id)
			return nil
		}
		return err
	}
	item.State = next

	logger.Info("Required item %d cancelled by user %d", item.Id, submitter.Id)
	return nil
}

// reload 重新读取需求物资并汇总数量
func (l *RequiredItemLogic) reload(ctx context.Context, id int64) (*model.RequiredItem, error) {
	item, err := l.store.GetRequiredItem(ctx, id)
	if err != nil {
		return nil, err
	}
	donations, err := l.store.ListItemDonations(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Summarize(donations)
	return item, nil
}

// GetRequiredItems 公开的需求物资列表，按机构分组
func (l *RequiredItemLogic) GetRequiredItems(ctx context.Context, page, pageSize int) ([]GroupedRequiredItems, int64, error) {
	items, total, err := l.list(ctx, 0, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	var groups []GroupedRequiredItems
	index := make(map[int64]int)
	for _, item := range items {
		i, ok := index[item.OrganizationId]
		if !ok {
			i = len(groups)
			index[item.OrganizationId] = i
			groups = append(groups, GroupedRequiredItems{Organization: item.Organization})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups, total, nil
}

// GetOrganizationRequiredItems 机构自己的需求物资列表
func (l *RequiredItemLogic) GetOrganizationRequiredItems(ctx context.Context, user *model.User, page, pageSize int) ([]model.RequiredItem, int64, error) {
	if user.Role() != event.RoleOrganization {
		return nil, 0, fmt.Errorf("%w: only organizations have required items", ErrPermissionDenied)
	}
	return l.list(ctx, user.Organization.Id, page, pageSize)
}

// list 分页读取并汇总，需要变更状态的需求物资走 Recompute
func (l *RequiredItemLogic) list(ctx context.Context, organizationId int64, page, pageSize int) ([]model.RequiredItem, int64, error) {
	items, total, err := l.store.ListRequiredItems(ctx, organizationId, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := l.store.SummarizeItems(ctx, items); err != nil {
		return nil, 0, err
	}

	now := l.now()
	for i := range items {
		if !items[i].Expired(now) && !(items[i].State == event.ItemCollecting && items[i].Fulfilled()) {
			continue
		}
		refreshed, err := l.Recompute(ctx, items[i].Id)
		if err != nil {
			return nil, 0, err
		}
		items[i] = *refreshed
	}
	return items, total, nil
}

// validateRequiredItem 验证需求物资数据
func (l *RequiredItemLogic) validateRequiredItem(req CreateRequiredItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if len(req.Name) > 256 {
		return fmt.Errorf("%w: name is too long", ErrInvalidArgument)
	}
	if req.Amount == 0 {
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidArgument)
	}
	if !req.Unit.Valid() {
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidArgument, req.Unit)
	}
	if model.DateBefore(req.EndedDate, model.DateOf(l.now())) {
		return fmt.Errorf("%w: ended date is in the past", ErrInvalidArgument)
	}
	return nil
}
