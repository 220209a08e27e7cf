package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LVVS666/yatube-project/models"
)

func edgeCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	return count
}

func TestFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	follow := NewFollowService(db)
	reader := createUser(t, db, "reader")
	createUser(t, db, "author")

	require.NoError(t, follow.Follow(reader.ID, "author"))
	require.NoError(t, follow.Follow(reader.ID, "author"))

	assert.Equal(t, int64(1), edgeCount(t, db))
}

func TestFollowSelfRejected(t *testing.T) {
	db := newTestDB(t)
	follow := NewFollowService(db)
	user := createUser(t, db, "narcissus")

	err := follow.Follow(user.ID, "narcissus")
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.Equal(t, int64(0), edgeCount(t, db))
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	follow := NewFollowService(db)
	reader := createUser(t, db, "reader")

	err := follow.Follow(reader.ID, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollow(t *testing.T) {
	db := newTestDB(t)
	follow := NewFollowService(db)
	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")

	require.NoError(t, follow.Follow(reader.ID, "author"))
	require.NoError(t, follow.Unfollow(reader.ID, "author"))
	assert.Equal(t, int64(0), edgeCount(t, db))

	following, err := follow.IsFollowing(reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
	db := newTestDB(t)
	follow := NewFollowService(db)
	reader := createUser(t, db, "reader")
	createUser(t, db, "author")

	require.NoError(t, follow.Unfollow(reader.ID, "author"))
	assert.Equal(t, int64(0), edgeCount(t, db))

	err := follow.Unfollow(reader.ID, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsFollowing(t *testing.T) {
	db := newTestDB(t)
	follow := NewFollowService(db)
	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")

	following, err := follow.IsFollowing(reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, follow.Follow(reader.ID, "author"))

	following, err = follow.IsFollowing(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestFollowedAuthorIDs(t *testing.T) {
	db := newTestDB(t)
	follow := NewFollowService(db)
	reader := createUser(t, db, "reader")
	first := createUser(t, db, "first")
	second := createUser(t, db, "second")
	createUser(t, db, "unfollowed")

	require.NoError(t, follow.Follow(reader.ID, "first"))
	require.NoError(t, follow.Follow(reader.ID, "second"))

	ids, err := follow.FollowedAuthorIDs(reader.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, ids)
}
