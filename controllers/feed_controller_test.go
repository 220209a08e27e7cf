package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LVVS666/yatube-project/models"
	"github.com/LVVS666/yatube-project/utils"
)

func TestIndexPagination(t *testing.T) {
	r, db := setupRouter(t)
	author := createUser(t, db, "writer")
	for i := 0; i < 13; i++ {
		createPost(t, db, author, fmt.Sprintf("post %d", i))
	}

	w := doGet(r, feedPath(1), "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Len(t, pageItems(t, data), 10)
	pageObj := data["page_obj"].(map[string]any)
	assert.Equal(t, true, pageObj["has_next"])

	w = doGet(r, feedPath(2), "")
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Len(t, pageItems(t, data), 3)
	pageObj = data["page_obj"].(map[string]any)
	assert.Equal(t, false, pageObj["has_next"])

	// Out-of-range pages clamp to the last valid page.
	w = doGet(r, feedPath(3), "")
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Len(t, pageItems(t, data), 3)
	pageObj = data["page_obj"].(map[string]any)
	assert.Equal(t, float64(2), pageObj["page"])
}

func TestIndexCacheServesStalePayloadUntilCleared(t *testing.T) {
	r, db := setupRouter(t)
	author := createUser(t, db, "writer")
	createPost(t, db, author, "first post")

	w := doGet(r, feedPath(1), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pageItems(t, decodeData(t, w)), 1)

	// A post created after the cache was populated stays invisible.
	createPost(t, db, author, "second post")
	w = doGet(r, feedPath(1), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, pageItems(t, decodeData(t, w)), 1)

	// After an explicit clear the new post appears.
	utils.FeedCacheClear()
	w = doGet(r, feedPath(1), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, pageItems(t, decodeData(t, w)), 2)
}

func TestGroupFeed(t *testing.T) {
	r, db := setupRouter(t)
	author := createUser(t, db, "writer")
	group := createGroup(t, db, "test-slug")
	post := createPost(t, db, author, "grouped post")
	require.NoError(t, db.Model(post).Update("group_id", group.ID).Error)
	createPost(t, db, author, "ungrouped post")

	w := doGet(r, "/group/test-slug/", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Len(t, pageItems(t, data), 1)
}

func TestGroupFeedEmptyGroup(t *testing.T) {
	r, db := setupRouter(t)
	createGroup(t, db, "test-slug")

	w := doGet(r, "/group/test-slug/", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Empty(t, pageItems(t, data))
	pageObj := data["page_obj"].(map[string]any)
	assert.Equal(t, false, pageObj["has_next"])
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	r, _ := setupRouter(t)

	w := doGet(r, "/group/missing/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileShowsPostCountAndFollowState(t *testing.T) {
	r, db := setupRouter(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	createPost(t, db, author, "a post")
	createPost(t, db, author, "another post")
	require.NoError(t, db.Create(&models.Follow{FollowerID: reader.ID, AuthorID: author.ID}).Error)

	// Anonymous caller: no follow state.
	w := doGet(r, "/profile/author/", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(2), data["post_count"])
	assert.Equal(t, false, data["following"])

	// Authenticated follower sees the edge.
	w = doGet(r, "/profile/author/", authHeader(t, reader))
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, true, data["following"])
}

func TestProfileUnknownUsername(t *testing.T) {
	r, _ := setupRouter(t)

	w := doGet(r, "/profile/nobody/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostDetailWithComments(t *testing.T) {
	r, db := setupRouter(t)
	author := createUser(t, db, "author")
	commenter := createUser(t, db, "commenter")
	post := createPost(t, db, author, "discussed post")
	require.NoError(t, db.Create(&models.Comment{
		PostID:   post.ID,
		AuthorID: commenter.ID,
		Text:     "nice one",
	}).Error)

	w := doGet(r, fmt.Sprintf("/posts/%d/", post.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	detail := data["post"].(map[string]any)
	assert.Equal(t, "discussed post", detail["text"])
	comments := detail["comments"].([]any)
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]any)
	assert.Equal(t, "nice one", comment["text"])
	commentAuthor := comment["author"].(map[string]any)
	assert.Equal(t, "commenter", commentAuthor["username"])
}

func TestPostDetailUnknownID(t *testing.T) {
	r, _ := setupRouter(t)

	w := doGet(r, "/posts/999/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrailingSlashRedirect(t *testing.T) {
	r, db := setupRouter(t)
	createGroup(t, db, "test-slug")

	w := doGet(r, "/group/test-slug", "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/group/test-slug/", w.Header().Get("Location"))
}

func TestUnknownRouteIs404(t *testing.T) {
	r, _ := setupRouter(t)

	w := doGet(r, "/nonexist-page/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
