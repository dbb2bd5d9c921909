package model

import (
	"time"

	"github.com/shared-tw/backend/internal/event"
	"gorm.io/datatypes"
)

// RequiredItem 机构发布的物资需求
type RequiredItem struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"modified_at"`

	OrganizationId int64 `json:"organization_id" gorm:"not null;index"`

	// 需求信息
	Name      string         `json:"name" gorm:"size:256;not null"`
	Amount    uint           `json:"amount" gorm:"not null"`
	Unit      Unit           `json:"unit" gorm:"size:16;not null"`
	EndedDate datatypes.Date `json:"ended_date" gorm:"not null;index"`

	// 状态
	State event.ItemState `json:"state" gorm:"type:varchar(32);not null;index"`

	// 由捐赠推导，不落库
	ApprovedAmount  uint `json:"approved_amount" gorm:"-"`
	DeliveredAmount uint `json:"delivered_amount" gorm:"-"`
	DonationCount   int  `json:"donation_count" gorm:"-"`

	// 关联
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationId"`
}

// TableName 自定义表名
func (RequiredItem) TableName() string {
	return "required_item"
}

// Summarize 根据捐赠重新计算已核准、已送达数量
func (r *RequiredItem) Summarize(donations []Donation) {
	var approved, delivered uint
	var count int
	for _, d := range donations {
		if d.RequiredItemId != r.Id {
			continue
		}
		count++
		if d.State.Approved() {
			approved += d.Amount
		}
		if d.State == event.DonationDone {
			delivered += d.Amount
		}
	}
	r.ApprovedAmount = approved
	r.DeliveredAmount = delivered
	r.DonationCount = count
}

// Expired 募集中且已过截止日期
func (r *RequiredItem) Expired(now time.Time) bool {
	return r.State == event.ItemCollecting && DateBefore(r.EndedDate, DateOf(now))
}

// Fulfilled 已送达数量超过需求数量
func (r *RequiredItem) Fulfilled() bool {
	return r.DeliveredAmount > r.Amount
}

// Accepting 是否接受新的捐赠
func (r *RequiredItem) Accepting(now time.Time) bool {
	return r.State == event.ItemCollecting && !r.Expired(now)
}
