package model

import (
	"time"

	"github.com/shared-tw/backend/internal/event"
)

// User 用户，机构和捐赠者资料最多各一份
type User struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Username string `json:"username" gorm:"size:150;uniqueIndex;not null"`

	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:UserId"`
	Donor        *Donor        `json:"donor,omitempty" gorm:"foreignKey:UserId"`
}

// TableName 自定义表名
func (User) TableName() string {
	return "user_account"
}

// Role 用户的提交角色，机构优先
func (u *User) Role() event.Role {
	if u == nil {
		return event.RoleNone
	}
	if u.Organization != nil && u.Organization.Id != 0 {
		return event.RoleOrganization
	}
	if u.Donor != nil && u.Donor.Id != 0 {
		return event.RoleDonor
	}
	return event.RoleNone
}

// Organization 机构资料
type Organization struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserId int64 `json:"-" gorm:"uniqueIndex;not null"`

	Type               OrganizationType `json:"type" gorm:"size:16;not null"`
	TypeOther          string           `json:"type_other" gorm:"size:20"`
	Name               string           `json:"name" gorm:"size:32;not null"`
	City               City             `json:"city" gorm:"size:16;not null"`
	Address            string           `json:"address" gorm:"size:128"`
	Phone              string           `json:"phone" gorm:"size:15"`
	OfficeHours        string           `json:"office_hours" gorm:"size:128"`
	OtherContactMethod ContactMethod    `json:"other_contact_method" gorm:"size:16"`
	OtherContact       string           `json:"other_contact" gorm:"size:128"`
}

// TableName 自定义表名
func (Organization) TableName() string {
	return "organization"
}

// Donor 捐赠者资料
type Donor struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserId int64 `json:"-" gorm:"uniqueIndex;not null"`

	Phone              string        `json:"phone" gorm:"size:15"`
	OtherContactMethod ContactMethod `json:"other_contact_method" gorm:"size:16"`
	OtherContact       string        `json:"other_contact" gorm:"size:128"`
}

// TableName 自定义表名
func (Donor) TableName() string {
	return "donor"
}
