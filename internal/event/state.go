package event

// DonationState 捐赠状态
type DonationState string

const (
	DonationPendingApproval DonationState = "PendingApproval" // 待核准
	DonationPendingDispatch DonationState = "PendingDispatch" // 待寄出
	DonationPendingDelivery DonationState = "PendingDelivery" // 待签收
	DonationDone            DonationState = "Done"            // 完成
	DonationCancelled       DonationState = "Cancelled"       // 已取消
	DonationInvalid         DonationState = "Invalid"         // 非法
)

// IsTerminal 终态不再接受修改
func (s DonationState) IsTerminal() bool {
	switch s {
	case DonationDone, DonationCancelled, DonationInvalid:
		return true
	}
	return false
}

// Valid 是否为已知状态
func (s DonationState) Valid() bool {
	switch s {
	case DonationPendingApproval, DonationPendingDispatch, DonationPendingDelivery,
		DonationDone, DonationCancelled, DonationInvalid:
		return true
	}
	return false
}

// Approved 计入已核准数量
func (s DonationState) Approved() bool {
	return s == DonationPendingDispatch || s == DonationDone
}

// ItemState 需求物资状态
type ItemState string

const (
	ItemCollecting ItemState = "Collecting" // 募集中
	ItemDone       ItemState = "Done"       // 已完成
	ItemCancelled  ItemState = "Cancelled"  // 已取消
	ItemInvalid    ItemState = "Invalid"    // 非法
)

// Action 状态转换附带的副作用
type Action int

const (
	ActionNone Action = iota
	// ActionApproval 设置预计送达日期
	ActionApproval
)

func (a Action) String() string {
	switch a {
	case ActionApproval:
		return "approval"
	default:
		return "none"
	}
}
