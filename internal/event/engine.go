package event

// Apply 对当前状态应用一个事件，返回下一状态和需要执行的动作
func Apply(state DonationState, e Event) (DonationState, Action) {
	switch state {
	case DonationPendingApproval:
		switch e.Name {
		case KindDonationApproved:
			return DonationPendingDispatch, ActionApproval
		case KindDonationCancelled:
			return DonationCancelled, ActionNone
		default:
			return DonationInvalid, ActionNone
		}
	case DonationPendingDispatch:
		switch e.Name {
		case KindDonationDispatched:
			// 寄出即完成，PendingDelivery 目前不在转换路径上
			return DonationDone, ActionNone
		case KindDonationCancelled:
			return DonationCancelled, ActionNone
		default:
			return DonationInvalid, ActionNone
		}
	case DonationPendingDelivery:
		if e.Name == KindDonationDelivered {
			return DonationDone, ActionNone
		}
		return DonationInvalid, ActionNone
	case DonationDone, DonationCancelled, DonationInvalid:
		return state, ActionNone
	default:
		return DonationInvalid, ActionNone
	}
}

// Step 重放中产生的动作，Index 为事件在日志中的位置
type Step struct {
	Index  int
	Event  Event
	Action Action
}

// Replay 从 PendingApproval 开始按顺序重放事件日志。
// processed 是已处理事件数（高水位），只有位置不小于它的事件产生的动作会被返回。
func Replay(events []Event, processed int) (DonationState, []Step) {
	state := DonationPendingApproval
	var steps []Step
	for i, e := range events {
		var action Action
		state, action = Apply(state, e)
		if action != ActionNone && i >= processed {
			steps = append(steps, Step{Index: i, Event: e, Action: action})
		}
	}
	return state, steps
}

// ApplyItem 需求物资状态机，只有取消路径会驱动它
func ApplyItem(state ItemState, e Event) ItemState {
	switch state {
	case ItemCollecting:
		return ItemCancelled
	case ItemDone, ItemCancelled, ItemInvalid:
		return state
	default:
		return ItemInvalid
	}
}
