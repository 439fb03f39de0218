package handlers

import (
	"errors"
	"log"
	"net/http"

	"senlin/internal/middleware"
	"senlin/internal/models"
	"senlin/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUser 从上下文取当前登录用户，匿名访问返回 nil
func currentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

// renderError 把服务层错误映射成 HTTP 状态码：
//   - 封禁/锁定是正常的业务拒绝，不记日志；
//   - 无结果（翻页过尾、未知时间窗）映射为 404；
//   - 契约错误（排序/Criteria 误用）是 400，记日志方便排查调用方；
//   - 其余是基础设施故障，500 并记日志。
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoResults), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrInvalidSortMode),
		errors.Is(err, services.ErrInvalidChoice),
		errors.Is(err, services.ErrViewAlreadySet),
		errors.Is(err, services.ErrExclusionAlreadySet),
		errors.Is(err, services.ErrNoActingUser):
		log.Printf("bad request on %s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error on %s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
