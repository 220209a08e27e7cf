package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LVVS666/yatube-project/config"
	"github.com/LVVS666/yatube-project/middleware"
	"github.com/LVVS666/yatube-project/models"
	"github.com/LVVS666/yatube-project/utils"
)

// PostController handles the write side: creating and editing posts, adding
// comments, deleting posts and uploading post images.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// postForm is the create/edit payload, accepted as form fields or JSON.
type postForm struct {
	Text    string `form:"text" json:"text"`
	GroupID *uint  `form:"group" json:"group"`
	Image   string `form:"image" json:"image"`
}

// NewPostForm returns the data a client needs to render the create form:
// the selectable groups.
func (p *PostController) NewPostForm(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40118, "unauthorized")
		return
	}

	var groups []models.Group
	if err := p.db.Order("title ASC").Find(&groups).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// EditPostForm returns the post to prefill the edit form. A non-author caller
// is redirected to the detail view, same as a write attempt.
func (p *PostController) EditPostForm(ctx *gin.Context) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40406, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40119, "unauthorized")
		return
	}
	if post.AuthorID != userID {
		ctx.Redirect(http.StatusFound, "/posts/"+postID+"/")
		return
	}

	var groups []models.Group
	if err := p.db.Order("title ASC").Find(&groups).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"post": post, "groups": groups})
}

// CreatePost persists a new post for the authenticated caller and redirects
// to their profile. Validation failures return the field errors instead.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req postForm
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		fieldErrors(ctx, 40021, gin.H{"text": "text cannot be empty"})
		return
	}

	groupID, err := p.resolveGroupID(req.GroupID)
	if err != nil {
		fieldErrors(ctx, 40022, gin.H{"group": "unknown group"})
		return
	}

	post := models.Post{
		AuthorID: userID,
		GroupID:  groupID,
		Text:     text,
		Image:    strings.TrimSpace(req.Image),
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	username, _ := getUsername(ctx)
	ctx.Redirect(http.StatusFound, "/profile/"+username+"/")
}

// EditPost updates a post in place. A non-author caller is redirected to the
// detail view without any modification; the publication time never changes.
func (p *PostController) EditPost(ctx *gin.Context) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	if post.AuthorID != userID {
		ctx.Redirect(http.StatusFound, "/posts/"+postID+"/")
		return
	}

	var req postForm
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		fieldErrors(ctx, 40025, gin.H{"text": "text cannot be empty"})
		return
	}

	groupID, err := p.resolveGroupID(req.GroupID)
	if err != nil {
		fieldErrors(ctx, 40026, gin.H{"group": "unknown group"})
		return
	}

	// Column-selective update keeps created_at untouched.
	updates := map[string]interface{}{
		"text":     text,
		"group_id": groupID,
		"image":    strings.TrimSpace(req.Image),
	}
	if err := p.db.Model(&post).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	ctx.Redirect(http.StatusFound, "/posts/"+postID+"/")
}

// AddComment attaches a comment to a post and redirects to the detail view.
// Empty or over-long text returns the field errors.
func (p *PostController) AddComment(ctx *gin.Context) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var req struct {
		Text string `form:"text" json:"text"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40027, "invalid request payload")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		fieldErrors(ctx, 40028, gin.H{"text": "text cannot be empty"})
		return
	}
	if maxLen := config.Get().CommentMaxLen; len([]rune(text)) > maxLen {
		fieldErrors(ctx, 40029, gin.H{"text": fmt.Sprintf("text must be at most %d characters", maxLen)})
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: userID,
		Text:     text,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to create comment")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	ctx.Redirect(http.StatusFound, "/posts/"+postID+"/")
}

// DeletePost removes a post together with its comments. Author or admin only.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}
	if post.AuthorID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		return
	}

	// Migrations run without FK constraints, so the comment fan-out is ours.
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// UploadImage stores a post image under static/uploads and returns its URL.
func (p *PostController) UploadImage(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40031, "unsupported image type")
		return
	}

	const maxSize = 10 * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40032, "file size exceeds 10MB")
		return
	}

	baseDir := filepath.Join(".", "static", "uploads", "posts")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}

	safeName := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, safeName)
	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		return
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil || written > maxSize {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40032, "failed to write file")
		return
	}

	utils.Success(ctx, gin.H{"url": "/static/uploads/posts/" + safeName})
}

// resolveGroupID verifies an optional group reference exists.
func (p *PostController) resolveGroupID(id *uint) (*uint, error) {
	if id == nil {
		return nil, nil
	}
	var group models.Group
	if err := p.db.First(&group, *id).Error; err != nil {
		return nil, err
	}
	return &group.ID, nil
}

func fieldErrors(ctx *gin.Context, code int, fields gin.H) {
	ctx.JSON(http.StatusBadRequest, utils.JSONResponse{
		Code:    code,
		Message: "validation failed",
		Data:    gin.H{"errors": fields},
	})
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func getUsername(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return "", false
	}
	name, _ := value.(string)
	return name, name != ""
}

func isAdmin(ctx *gin.Context) bool {
	uname, ok := getUsername(ctx)
	if !ok {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}
