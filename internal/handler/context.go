package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shared-tw/backend/internal/model"
	"gorm.io/datatypes"
)

// ContextUserKey 认证中间件存放当前用户的键
const ContextUserKey = "user"

const maxPageSize = 100

// CurrentUser 当前请求的用户，未认证时为 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// pageParams 读取分页参数
func pageParams(c *gin.Context, defaultPageSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// idParam 读取路径中的 id
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseDate 解析 2006-01-02 格式的日期
func parseDate(raw string) (datatypes.Date, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}
