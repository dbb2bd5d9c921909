package event

import "errors"

var (
	// ErrUnknownEvent 事件名称无法识别
	ErrUnknownEvent = errors.New("unknown event")
	// ErrInvalidUser 提交者既不是机构也不是捐赠者
	ErrInvalidUser = errors.New("invalid user")
	// ErrForbiddenEvent 提交者的角色不允许该事件
	ErrForbiddenEvent = errors.New("forbidden event")
	// ErrTerminalState 捐赠已处于终态
	ErrTerminalState = errors.New("donation is in a terminal state")
	// ErrLockContention 同一捐赠正在被其他请求修改
	ErrLockContention = errors.New("donation is being modified by another request")
	// ErrInvalidTransition 重放事件后状态为 Invalid
	ErrInvalidTransition = errors.New("invalid state transition")
)
