package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/logic"
)

type DonationHandler struct {
	donationLogic *logic.DonationLogic
	pageSize      int
}

func NewDonationHandler(donationLogic *logic.DonationLogic, pageSize int) *DonationHandler {
	return &DonationHandler{
		donationLogic: donationLogic,
		pageSize:      pageSize,
	}
}

// CreateDonation 对需求物资认捐
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	itemId, ok := idParam(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的需求物资ID")
		return
	}
	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	params := logic.CreateDonationRequest{
		Amount:                req.Amount,
		EstimatedDeliveryDays: req.EstimatedDeliveryDays,
	}
	if req.ExceptedDeliveryDate != "" {
		date, err := parseDate(req.ExceptedDeliveryDate)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "无效的预计送达日期")
			return
		}
		params.ExceptedDeliveryDate = &date
	}

	donation, err := h.donationLogic.CreateDonation(c.Request.Context(), CurrentUser(c), itemId, params)
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "认捐成功", donation)
}

// SubmitEvent 提交捐赠事件
func (h *DonationHandler) SubmitEvent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的捐赠ID")
		return
	}
	var req SubmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	donation, err := h.donationLogic.SubmitEvent(c.Request.Context(), CurrentUser(c), id, event.Raw{
		Name:    req.Event,
		Comment: req.Comment,
	})
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "事件提交成功", donation)
}

// GetDonation 获取捐赠详情
func (h *DonationHandler) GetDonation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的捐赠ID")
		return
	}

	donation, err := h.donationLogic.GetDonation(c.Request.Context(), id)
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取捐赠成功", donation)
}

// GetItemDonations 获取需求物资下的捐赠
func (h *DonationHandler) GetItemDonations(c *gin.Context) {
	itemId, ok := idParam(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的需求物资ID")
		return
	}

	donations, err := h.donationLogic.GetItemDonations(c.Request.Context(), itemId)
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取捐赠列表成功", GetDonationsResponse{Donations: donations})
}

// GetUserDonations 获取捐赠者自己的捐赠
func (h *DonationHandler) GetUserDonations(c *gin.Context) {
	page, pageSize := pageParams(c, h.pageSize)

	donations, total, err := h.donationLogic.GetUserDonations(c.Request.Context(), CurrentUser(c), page, pageSize)
	if err != nil {
		FailResponse(c, err)
		return
	}

	pagination := newPagination(page, pageSize, total)
	SuccessResponse(c, http.StatusOK, "获取捐赠列表成功", GetDonationsResponse{
		Donations:  donations,
		Pagination: &pagination,
	})
}
