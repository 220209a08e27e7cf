package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LVVS666/yatube-project/config"
	"github.com/LVVS666/yatube-project/models"
	"github.com/LVVS666/yatube-project/services"
	"github.com/LVVS666/yatube-project/utils"
)

// FeedController serves the read side: global, group, author and followed
// feeds plus the post detail view.
type FeedController struct {
	db     *gorm.DB
	feed   *services.FeedService
	follow *services.FollowService
}

// NewFeedController creates a FeedController.
func NewFeedController(db *gorm.DB, feed *services.FeedService, follow *services.FollowService) *FeedController {
	return &FeedController{db: db, feed: feed, follow: follow}
}

// Index returns the global feed. The serialized payload is cached for a short
// TTL; hits are returned verbatim, so posts written after a populate stay
// invisible until the TTL elapses or the cache is cleared.
func (f *FeedController) Index(ctx *gin.Context) {
	page := parsePage(ctx.Query("page"))

	cacheKey := fmt.Sprintf("feed:index:page=%d", page)
	if b, ok := utils.FeedCacheGet(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	result, err := f.feed.ListAll(page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list posts")
		return
	}

	payload := gin.H{"page_obj": result}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	if b, err := json.Marshal(wrapper); err == nil {
		ttl := time.Duration(config.Get().FeedCacheTTLSeconds) * time.Second
		utils.FeedCacheSet(cacheKey, b, ttl)
	}
	utils.Success(ctx, payload)
}

// GroupPosts returns the feed of a single group, 404 on an unknown slug.
func (f *FeedController) GroupPosts(ctx *gin.Context) {
	slug := ctx.Param("slug")
	page := parsePage(ctx.Query("page"))

	group, result, err := f.feed.ListByGroup(slug, page)
	if err != nil {
		if err == services.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list group posts")
		return
	}

	utils.Success(ctx, gin.H{
		"group":    group,
		"page_obj": result,
	})
}

// Profile returns an author's feed together with their total post count and,
// for an authenticated caller, whether the caller already follows them.
func (f *FeedController) Profile(ctx *gin.Context) {
	username := ctx.Param("username")
	page := parsePage(ctx.Query("page"))

	author, result, err := f.feed.ListByAuthor(username, page)
	if err != nil {
		if err == services.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to list user posts")
		return
	}

	following := false
	if callerID, ok := getUserID(ctx); ok {
		following, _ = f.follow.IsFollowing(callerID, author.ID)
	}

	utils.Success(ctx, gin.H{
		"author":     sanitizeUserResponse(*author),
		"post_count": result.TotalItems,
		"following":  following,
		"page_obj":   result,
	})
}

// PostDetail returns a single post with its comments.
func (f *FeedController) PostDetail(ctx *gin.Context) {
	postID := ctx.Param("id")

	// Warm path: redis-cached detail payload, invalidated on writes.
	if b, ok := utils.CacheGetBytes("cache:post:detail:" + postID); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var post models.Post
	if err := f.db.Preload("Author").Preload("Group").First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load post")
		return
	}

	var comments []models.Comment
	if err := f.db.Where("post_id = ?", post.ID).Order("created_at ASC, id ASC").Find(&comments).Error; err == nil {
		attachCommentAuthors(f.db, comments)
		post.Comments = comments
	}

	var postCount int64
	f.db.Model(&models.Post{}).Where("author_id = ?", post.AuthorID).Count(&postCount)

	payload := gin.H{"post": post, "post_count": postCount}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:post:detail:"+postID, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// attachCommentAuthors loads the distinct comment authors in one query and
// fans them back onto the comments.
func attachCommentAuthors(db *gorm.DB, comments []models.Comment) {
	if len(comments) == 0 {
		return
	}
	var userIDs []uint
	for _, c := range comments {
		userIDs = append(userIDs, c.AuthorID)
	}
	userIDs = utils.UniqueUint(userIDs)

	var users []models.User
	if err := db.Find(&users, userIDs).Error; err != nil {
		return
	}
	userMap := make(map[uint]models.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}
	for i := range comments {
		if user, ok := userMap[comments[i].AuthorID]; ok {
			comments[i].Author = user
		}
	}
}

func parsePage(pageStr string) int {
	page := 1
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	return page
}
