package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LVVS666/yatube-project/services"
	"github.com/LVVS666/yatube-project/utils"
)

// FollowController manages follow edges and the personalized feed.
type FollowController struct {
	feed   *services.FeedService
	follow *services.FollowService
}

// NewFollowController creates a FollowController.
func NewFollowController(feed *services.FeedService, follow *services.FollowService) *FollowController {
	return &FollowController{feed: feed, follow: follow}
}

// FollowIndex returns posts authored by everyone the caller follows.
func (f *FollowController) FollowIndex(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return
	}

	result, err := f.feed.ListFollowed(userID, parsePage(ctx.Query("page")))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list followed posts")
		return
	}

	utils.Success(ctx, gin.H{"page_obj": result})
}

// Follow creates a follow edge towards the named author and redirects back to
// their profile. Re-following is a no-op; following yourself is rejected.
func (f *FollowController) Follow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "unauthorized")
		return
	}

	username := ctx.Param("username")
	switch err := f.follow.Follow(userID, username); err {
	case nil:
		ctx.Redirect(http.StatusFound, "/profile/"+username+"/")
	case services.ErrNotFound:
		utils.Error(ctx, http.StatusNotFound, 40412, "user not found")
	case services.ErrSelfFollow:
		fieldErrors(ctx, 40040, gin.H{"author": "cannot follow yourself"})
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to follow user")
	}
}

// Unfollow removes the follow edge towards the named author and redirects
// back to their profile. A missing edge is a no-op.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40117, "unauthorized")
		return
	}

	username := ctx.Param("username")
	switch err := f.follow.Unfollow(userID, username); err {
	case nil:
		ctx.Redirect(http.StatusFound, "/profile/"+username+"/")
	case services.ErrNotFound:
		utils.Error(ctx, http.StatusNotFound, 40413, "user not found")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to unfollow user")
	}
}
