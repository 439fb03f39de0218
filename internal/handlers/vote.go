package handlers

import (
	"net/http"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"
	"senlin/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	ledger *services.VoteLedger
}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{
		ledger: services.NewVoteLedger(db.DB),
	}
}

// votableFromParams 从路径参数还原被投实体（"submission" 或 "comment"）
func votableFromParams(c *gin.Context) models.Votable {
	id := utils.StringToUint(c.Param("id"))
	switch c.Param("type") {
	case "submission":
		return &models.Submission{ID: id}
	case "comment":
		return &models.Comment{ID: id}
	default:
		return nil
	}
}

// Cast 投票。POST /vote/:type/:id，表单字段 choice: 1 赞 / -1 踩 / 0 撤回。
// 返回投票后的最新净分。
func (h *VoteHandler) Cast(c *gin.Context) {
	user := currentUser(c)

	v := votableFromParams(c)
	if v == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown votable type"})
		return
	}

	choice := utils.StringToInt(c.PostForm("choice"))
	if err := h.ledger.Cast(v, user, choice, c.ClientIP()); err != nil {
		renderError(c, err)
		return
	}

	// 回读落库后的净分
	var netScore int
	var err error
	switch target := v.(type) {
	case *models.Submission:
		err = db.DB.Model(&models.Submission{}).Select("net_score").
			Where("id = ?", target.ID).Scan(&netScore).Error
	case *models.Comment:
		err = db.DB.Model(&models.Comment{}).Select("net_score").
			Where("id = ?", target.ID).Scan(&netScore).Error
	}
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"net_score": netScore, "choice": choice})
}

// Choice 查询当前用户在实体上的投票方向
func (h *VoteHandler) Choice(c *gin.Context) {
	user := currentUser(c)

	v := votableFromParams(c)
	if v == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown votable type"})
		return
	}

	choice, err := h.ledger.Choice(v, user.ID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"choice": choice})
}
