package event

import "fmt"

// Role 提交者角色
type Role string

const (
	RoleNone         Role = ""
	RoleOrganization Role = "organization"
	RoleDonor        Role = "donor"
)

var (
	organizationEvents = []Kind{KindDonationApproved, KindDonationDelivered, KindDonationCancelled}
	donorEvents        = []Kind{KindDonationDispatched, KindDonationCancelled}
)

// AllowedEvents 返回角色可以提交的事件
func AllowedEvents(role Role) []Kind {
	switch role {
	case RoleOrganization:
		return append([]Kind(nil), organizationEvents...)
	case RoleDonor:
		return append([]Kind(nil), donorEvents...)
	default:
		return nil
	}
}

// Authorize 检查角色能否提交该事件
func Authorize(role Role, kind Kind) error {
	if role != RoleOrganization && role != RoleDonor {
		return ErrInvalidUser
	}
	for _, k := range AllowedEvents(role) {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot submit %s", ErrForbiddenEvent, role, kind)
}
