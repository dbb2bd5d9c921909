package handler

import (
	"github.com/shared-tw/backend/internal/logic"
	"github.com/shared-tw/backend/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// 账号相关请求模型

// RegisterOrganizationRequest 机构注册请求
type RegisterOrganizationRequest struct {
	Username           string                 `json:"username" binding:"required"`
	Type               model.OrganizationType `json:"type" binding:"required"`
	TypeOther          string                 `json:"type_other"`
	Name               string                 `json:"name" binding:"required"`
	City               model.City             `json:"city" binding:"required"`
	Address            string                 `json:"address"`
	Phone              string                 `json:"phone"`
	OfficeHours        string                 `json:"office_hours"`
	OtherContactMethod model.ContactMethod    `json:"other_contact_method"`
	OtherContact       string                 `json:"other_contact"`
}

// RegisterDonorRequest 捐赠者注册请求
type RegisterDonorRequest struct {
	Username           string              `json:"username" binding:"required"`
	Phone              string              `json:"phone"`
	OtherContactMethod model.ContactMethod `json:"other_contact_method"`
	OtherContact       string              `json:"other_contact"`
}

// 需求物资相关模型

// CreateRequiredItemRequest 创建需求物资请求，日期格式 2006-01-02
type CreateRequiredItemRequest struct {
	Name      string     `json:"name" binding:"required"`
	Amount    uint       `json:"amount"`
	Unit      model.Unit `json:"unit" binding:"required"`
	EndedDate string     `json:"ended_date" binding:"required"`
}

// CancelRequiredItemRequest 取消需求物资请求
type CancelRequiredItemRequest struct {
	Comment string `json:"comment"`
}

// GetRequiredItemsResponse 公开需求物资列表响应
type GetRequiredItemsResponse struct {
	Groups     []logic.GroupedRequiredItems `json:"groups"`
	Pagination Pagination                   `json:"pagination"`
}

// GetOrganizationRequiredItemsResponse 机构需求物资列表响应
type GetOrganizationRequiredItemsResponse struct {
	RequiredItems []model.RequiredItem `json:"required_items"`
	Pagination    Pagination           `json:"pagination"`
}

// 捐赠相关模型

// CreateDonationRequest 认捐请求
type CreateDonationRequest struct {
	Amount                uint   `json:"amount"`
	EstimatedDeliveryDays uint   `json:"estimated_delivery_days"`
	ExceptedDeliveryDate  string `json:"excepted_delivery_date"`
}

// SubmitEventRequest 提交捐赠事件请求
type SubmitEventRequest struct {
	Event   string `json:"event" binding:"required"`
	Comment string `json:"comment"`
}

// GetDonationsResponse 捐赠列表响应
type GetDonationsResponse struct {
	Donations  []model.Donation `json:"donations"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}
