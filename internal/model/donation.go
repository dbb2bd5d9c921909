package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/shared-tw/backend/internal/event"
	"gorm.io/datatypes"
)

// Donation 捐赠，状态由事件日志重放得到
type Donation struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"modified_at"`

	RequiredItemId int64 `json:"required_item_id" gorm:"not null;index"`
	CreatedBy      int64 `json:"created_by" gorm:"not null;index"`

	// 捐赠信息
	Amount                uint            `json:"amount" gorm:"not null"`
	EstimatedDeliveryDays uint            `json:"estimated_delivery_days" gorm:"default:0"`
	ExceptedDeliveryDate  *datatypes.Date `json:"excepted_delivery_date"`

	// 状态缓存，事件日志才是真实来源
	State           event.DonationState              `json:"state" gorm:"type:varchar(32);not null;index"`
	Events          datatypes.JSONSlice[event.Event] `json:"events"`
	ProcessedEvents int                              `json:"-" gorm:"not null;default:0"` // 已执行动作的事件数
}

// TableName 自定义表名
func (Donation) TableName() string {
	return "donation"
}

// NewDonation 创建待核准的捐赠
func NewDonation(itemId, userId int64, amount, estimatedDeliveryDays uint) *Donation {
	return &Donation{
		RequiredItemId:        itemId,
		CreatedBy:             userId,
		Amount:                amount,
		EstimatedDeliveryDays: estimatedDeliveryDays,
		State:                 event.DonationPendingApproval,
		Events:                datatypes.JSONSlice[event.Event]{},
	}
}

// Append 追加事件并重放整个日志。
// 重放结果为 Invalid 时返回 ErrInvalidTransition，捐赠保持不变。
func (d *Donation) Append(e event.Event, now time.Time) error {
	events := append(slices.Clone([]event.Event(d.Events)), e)
	state, steps := event.Replay(events, d.ProcessedEvents)
	if state == event.DonationInvalid {
		return fmt.Errorf("%w: %s on %s donation %d", event.ErrInvalidTransition, e.Name, d.State, d.Id)
	}

	for _, step := range steps {
		d.apply(step.Action, now)
	}
	d.Events = events
	d.State = state
	d.ProcessedEvents = len(events)
	return nil
}

// Replayed 重放日志得到的状态
func (d *Donation) Replayed() event.DonationState {
	state, _ := event.Replay(d.Events, len(d.Events))
	return state
}

func (d *Donation) apply(action event.Action, now time.Time) {
	switch action {
	case event.ActionApproval:
		date := AddDays(DateOf(now), d.EstimatedDeliveryDays)
		d.ExceptedDeliveryDate = &date
	case event.ActionNone:
	}
}
