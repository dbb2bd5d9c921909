package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shared-tw/backend/internal/logic"
)

type AccountHandler struct {
	accountLogic *logic.AccountLogic
}

func NewAccountHandler(accountLogic *logic.AccountLogic) *AccountHandler {
	return &AccountHandler{
		accountLogic: accountLogic,
	}
}

// RegisterOrganization 注册机构
func (h *AccountHandler) RegisterOrganization(c *gin.Context) {
	var req RegisterOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.accountLogic.RegisterOrganization(c.Request.Context(), logic.RegisterOrganizationRequest{
		Username:           req.Username,
		Type:               req.Type,
		TypeOther:          req.TypeOther,
		Name:               req.Name,
		City:               req.City,
		Address:            req.Address,
		Phone:              req.Phone,
		OfficeHours:        req.OfficeHours,
		OtherContactMethod: req.OtherContactMethod,
		OtherContact:       req.OtherContact,
	})
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "机构注册成功", user)
}

// RegisterDonor 注册捐赠者
func (h *AccountHandler) RegisterDonor(c *gin.Context) {
	var req RegisterDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.accountLogic.RegisterDonor(c.Request.Context(), logic.RegisterDonorRequest{
		Username:           req.Username,
		Phone:              req.Phone,
		OtherContactMethod: req.OtherContactMethod,
		OtherContact:       req.OtherContact,
	})
	if err != nil {
		FailResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "捐赠者注册成功", user)
}

// Me 当前用户及其资料
func (h *AccountHandler) Me(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "获取用户成功", CurrentUser(c))
}
