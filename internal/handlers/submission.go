package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"
	"senlin/internal/utils"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	finder *services.SubmissionFinder
}

func NewSubmissionHandler() *SubmissionHandler {
	return &SubmissionHandler{
		finder: services.NewSubmissionFinder(db.DB),
	}
}

// parseIDList 解析逗号分隔的 id 列表（view=forums/users 的参数）
func parseIDList(raw string) []uint {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		if id := utils.StringToUint(strings.TrimSpace(p)); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// List 排行列表。
// GET /s/:sort?view=&forums=&users=&t=&next=&hide_hidden=1&stickies=1&per_page=
// next 是上一页返回的不透明 token，调用方不要自行构造。
func (h *SubmissionHandler) List(c *gin.Context) {
	sort := c.Param("sort")
	if sort == "" {
		sort = services.SortHot
	}
	user := currentUser(c)

	crit := services.NewCriteria(sort, user)
	switch c.Query("view") {
	case "featured":
		crit.ShowFeatured()
	case "subscribed":
		crit.ShowSubscribed()
	case "moderated":
		crit.ShowModerated()
	case "forums":
		crit.ShowForums(parseIDList(c.Query("forums"))...)
	case "users":
		crit.ShowUsers(parseIDList(c.Query("users"))...)
	case "", "all":
		// 默认不加范围限制
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view"})
		return
	}
	if c.Query("hide_hidden") == "1" {
		crit.ExcludeHiddenForums()
	}
	if c.Query("stickies") == "1" {
		crit.StickiesFirst()
	}
	if t := c.Query("t"); t != "" {
		crit.WithTime(t)
	}
	if n := utils.StringToInt(c.Query("per_page")); n > 0 {
		crit.MaxPerPage(n)
	}

	next := c.Query("next")

	// 匿名第一页走短 TTL 缓存，投票高峰时挡掉大部分重复查询
	cacheKey := ""
	if next == "" && user == nil && c.Query("view") == "" && c.Query("t") == "" {
		cacheKey = fmt.Sprintf("submissions:%s:page1", sort)
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if page, ok := cached.(*services.SubmissionPage); ok {
				c.JSON(http.StatusOK, listResponse(page))
				return
			}
		}
	}

	page, err := h.finder.Find(crit, next)
	if err != nil {
		renderError(c, err)
		return
	}
	if cacheKey != "" {
		utils.GetCache().Set(cacheKey, page, time.Minute)
	}
	c.JSON(http.StatusOK, listResponse(page))
}

func listResponse(page *services.SubmissionPage) gin.H {
	resp := gin.H{"items": page.Submissions}
	if page.NextCursor != "" {
		resp["next"] = page.NextCursor
	} else {
		resp["next"] = nil
	}
	return resp
}

// Detail 帖子详情，连同可见评论
func (h *SubmissionHandler) Detail(c *gin.Context) {
	var s models.Submission
	if err := db.DB.Preload("User").Preload("Forum").
		Where("sid = ? AND visibility = ?", c.Param("sid"), models.VisibilityVisible).
		First(&s).Error; err != nil {
		renderError(c, err)
		return
	}

	var comments []models.Comment
	if err := db.DB.Preload("User").
		Where("submission_id = ? AND visibility = ?", s.ID, models.VisibilityVisible).
		Order("id ASC").Find(&comments).Error; err != nil {
		renderError(c, err)
		return
	}

	if user := currentUser(c); user != nil {
		ledger := services.NewVoteLedger(db.DB)
		if choice, err := ledger.Choice(&s, user.ID); err == nil {
			s.UserVote = choice
		}
	}

	c.JSON(http.StatusOK, gin.H{"submission": s, "comments": comments})
}

// Create 发帖
func (h *SubmissionHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var req struct {
		ForumID uint   `json:"forum_id" binding:"required"`
		Title   string `json:"title" binding:"required"`
		URL     string `json:"url"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := services.PostSubmission(db.DB, user, req.ForumID, req.Title, req.URL, req.Content)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// CreateComment 发表评论
func (h *SubmissionHandler) CreateComment(c *gin.Context) {
	user := currentUser(c)

	var s models.Submission
	if err := db.DB.Where("sid = ?", c.Param("sid")).First(&s).Error; err != nil {
		renderError(c, err)
		return
	}

	var req struct {
		ParentID *uint  `json:"parent_id"`
		Content  string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := services.PostComment(db.DB, user, s.ID, req.ParentID, req.Content)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Delete 软删除，仅作者或管理员
func (h *SubmissionHandler) Delete(c *gin.Context) {
	user := currentUser(c)

	var s models.Submission
	if err := db.DB.Where("sid = ?", c.Param("sid")).First(&s).Error; err != nil {
		renderError(c, err)
		return
	}
	if s.UserID != user.ID && !user.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your submission"})
		return
	}
	if err := services.DeleteSubmission(db.DB, s.ID); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
