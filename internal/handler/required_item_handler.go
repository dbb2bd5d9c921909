package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shared-tw/backend/internal/logic"
)

type RequiredItemHandler struct {
	requiredItemLogic *logic.RequiredItemLogic
	pageSize          int
}

func NewRequiredItemHandler(requiredItemLogic *logic.RequiredItemLogic, pageSize int) *RequiredItemHandler {
	return &RequiredItemHandler{
		requiredItemLogic: requiredItemLogic,
		pageSize:          pageSize,
	}
}

// GetRequiredItems 公开的需求物资列表，按机构分组
func (h *RequiredItemHandler) GetRequiredItems(c *gin.Context) {
	page, pageSize := pageParams(c, h.pageSize)

	groups, total, err := h.requiredItemLogic.GetRequiredItems(c.Request.Context(), page, pageSize)
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取需求物资列表成功", GetRequiredItemsResponse{
		Groups:     groups,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetRequiredItem 获取需求物资详情
func (h *RequiredItemHandler) GetRequiredItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的需求物资ID")
		return
	}

	item, err := h.requiredItemLogic.GetRequiredItem(c.Request.Context(), id)
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取需求物资成功", item)
}

// GetOrganizationRequiredItems 机构自己的需求物资
func (h *RequiredItemHandler) GetOrganizationRequiredItems(c *gin.Context) {
	page, pageSize := pageParams(c, h.pageSize)

	items, total, err := h.requiredItemLogic.GetOrganizationRequiredItems(c.Request.Context(), CurrentUser(c), page, pageSize)
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取需求物资列表成功", GetOrganizationRequiredItemsResponse{
		RequiredItems: items,
		Pagination:    newPagination(page, pageSize, total),
	})
}

// CreateRequiredItem 机构发布需求物资
func (h *RequiredItemHandler) CreateRequiredItem(c *gin.Context) {
	var req CreateRequiredItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	endedDate, err := parseDate(req.EndedDate)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的截止日期")
		return
	}

	item, err := h.requiredItemLogic.CreateRequiredItem(c.Request.Context(), CurrentUser(c), logic.CreateRequiredItemRequest{
		Name:      req.Name,
		Amount:    req.Amount,
		Unit:      req.Unit,
		EndedDate: endedDate,
	})
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "需求物资发布成功", item)
}

// CancelRequiredItem 机构取消需求物资
func (h *RequiredItemHandler) CancelRequiredItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的需求物资ID")
		return
	}
	var req CancelRequiredItemRequest
	// 备注可选，空请求体也接受
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	item, err := h.requiredItemLogic.Cancel(c.Request.Context(), CurrentUser(c), id, req.Comment)
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "需求物资已取消", item)
}
