package controllers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LVVS666/yatube-project/models"
	"github.com/LVVS666/yatube-project/utils"
)

// GroupController manages groups. Creation and deletion are administrator
// operations; posts survive their group's deletion with the reference nulled.
type GroupController struct {
	db *gorm.DB
}

// NewGroupController creates a GroupController.
func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{db: db}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ListGroups returns every group, newest first.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	var groups []models.Group
	if err := g.db.Order("created_at DESC, id DESC").Find(&groups).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// CreateGroup creates a named group with a unique slug.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40310, "administrator access required")
		return
	}

	var req struct {
		Slug        string `form:"slug" json:"slug"`
		Title       string `form:"title" json:"title"`
		Description string `form:"description" json:"description"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if !slugPattern.MatchString(slug) || len(slug) > 50 {
		fieldErrors(ctx, 40051, gin.H{"slug": "slug must be lowercase letters, digits and hyphens"})
		return
	}
	if title == "" {
		fieldErrors(ctx, 40052, gin.H{"title": "title cannot be empty"})
		return
	}

	group := models.Group{
		Slug:        slug,
		Title:       title,
		Description: utils.Sanitize(req.Description),
	}
	if err := g.db.Create(&group).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40910, "group slug already exists")
		return
	}

	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group and detaches its posts.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40311, "administrator access required")
		return
	}

	slug := ctx.Param("slug")
	var group models.Group
	if err := g.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40414, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load group")
		return
	}

	// Posts outlive their group: null the reference, then drop the group.
	err := g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", group.ID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to delete group")
		return
	}

	utils.Success(ctx, gin.H{"message": "group deleted"})
}
