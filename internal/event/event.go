package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind 捐赠事件类型
type Kind string

const (
	KindDonationApproved   Kind = "DonationApproved"   // 机构核准
	KindDonationDispatched Kind = "DonationDispatched" // 捐赠者寄出
	KindDonationDelivered  Kind = "DonationDelivered"  // 机构签收
	KindDonationCancelled  Kind = "DonationCancelled"  // 取消
)

// Kinds 全部事件类型
var Kinds = []Kind{
	KindDonationApproved,
	KindDonationDispatched,
	KindDonationDelivered,
	KindDonationCancelled,
}

// ParseKind 解析事件类型
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(raw); k {
	case KindDonationApproved, KindDonationDispatched, KindDonationDelivered, KindDonationCancelled:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, raw)
}

// Event 捐赠事件，事件日志中的一条不可变记录
type Event struct {
	Name      Kind    `json:"name"`
	Timestamp float64 `json:"timestamp"`
	Comment   string  `json:"comment"`
}

// Raw 未校验的事件载荷
type Raw struct {
	Name      string  `json:"name"`
	Timestamp float64 `json:"timestamp,omitempty"`
	Comment   string  `json:"comment"`
}

// New 创建事件，名称只由 kind 决定
func New(kind Kind, comment string) Event {
	return NewAt(kind, comment, time.Now())
}

// NewAt 使用指定时间创建事件
func NewAt(kind Kind, comment string, at time.Time) Event {
	return Event{
		Name:      kind,
		Timestamp: float64(at.UnixNano()) / float64(time.Second),
		Comment:   comment,
	}
}

// Parse 校验原始载荷并构造事件
func Parse(raw Raw) (Event, error) {
	kind, err := ParseKind(raw.Name)
	if err != nil {
		return Event{}, err
	}
	e := New(kind, raw.Comment)
	if raw.Timestamp > 0 {
		e.Timestamp = raw.Timestamp
	}
	return e, nil
}

// Time 事件发生时间
func (e Event) Time() time.Time {
	sec := int64(e.Timestamp)
	nsec := int64((e.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// UnmarshalJSON 反序列化时同样拒绝未知事件
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := ParseKind(raw.Name)
	if err != nil {
		return err
	}
	*e = Event{Name: kind, Timestamp: raw.Timestamp, Comment: raw.Comment}
	return nil
}
