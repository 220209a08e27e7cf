package controllers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LVVS666/yatube-project/models"
)

func TestCreateGroupAdminOnly(t *testing.T) {
	r, db := setupRouter(t)
	admin := createUser(t, db, "admin")
	regular := createUser(t, db, "regular")

	form := url.Values{
		"slug":        {"cats"},
		"title":       {"Cats"},
		"description": {"All about cats"},
	}

	w := doForm(r, http.MethodPost, "/group/", authHeader(t, regular), form)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doForm(r, http.MethodPost, "/group/", authHeader(t, admin), form)
	require.Equal(t, http.StatusOK, w.Code)

	var group models.Group
	require.NoError(t, db.Where("slug = ?", "cats").First(&group).Error)
	assert.Equal(t, "Cats", group.Title)
}

func TestCreateGroupRejectsBadSlug(t *testing.T) {
	r, db := setupRouter(t)
	admin := createUser(t, db, "admin")

	form := url.Values{
		"slug":  {"Bad Slug!"},
		"title": {"Broken"},
	}
	w := doForm(r, http.MethodPost, "/group/", authHeader(t, admin), form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGroupDuplicateSlug(t *testing.T) {
	r, db := setupRouter(t)
	admin := createUser(t, db, "admin")
	createGroup(t, db, "taken")

	form := url.Values{
		"slug":  {"taken"},
		"title": {"Again"},
	}
	w := doForm(r, http.MethodPost, "/group/", authHeader(t, admin), form)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteGroupDetachesPosts(t *testing.T) {
	r, db := setupRouter(t)
	admin := createUser(t, db, "admin")
	author := createUser(t, db, "author")
	group := createGroup(t, db, "doomed")

	post := createPost(t, db, author, "survives its group")
	require.NoError(t, db.Model(post).Update("group_id", group.ID).Error)

	w := doForm(r, http.MethodDelete, "/group/doomed/", authHeader(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var groupCount int64
	db.Model(&models.Group{}).Count(&groupCount)
	assert.Equal(t, int64(0), groupCount)

	var after models.Post
	require.NoError(t, db.First(&after, post.ID).Error)
	assert.Nil(t, after.GroupID)

	// Detached post is still visible in the global and author feeds.
	for _, path := range []string{"/", "/profile/author/"} {
		resp := doGet(r, path, "")
		require.Equal(t, http.StatusOK, resp.Code, path)
		data := decodeData(t, resp)
		items := pageItems(t, data)
		require.Len(t, items, 1, path)
		got := items[0].(map[string]any)
		assert.Equal(t, fmt.Sprintf("%d", post.ID), fmt.Sprintf("%v", got["id"]), path)
	}
}

func TestDeleteGroupNonAdminForbidden(t *testing.T) {
	r, db := setupRouter(t)
	regular := createUser(t, db, "regular")
	createGroup(t, db, "guarded")

	w := doForm(r, http.MethodDelete, "/group/guarded/", authHeader(t, regular), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.Group{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestListGroups(t *testing.T) {
	r, db := setupRouter(t)
	createGroup(t, db, "alpha")
	createGroup(t, db, "beta")

	w := doGet(r, "/groups/", "")
	require.Equal(t, http.StatusOK, w.Code)
}
