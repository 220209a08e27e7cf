package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LVVS666/yatube-project/models"
)

// FollowService maintains directed follow edges between users.
//
// Edge uniqueness is guaranteed by the composite unique index on
// (follower_id, author_id); creation goes through ON CONFLICT DO NOTHING so
// two racing follow requests can never produce a duplicate. Self-follows are
// a business rule and rejected here, before any insert.
type FollowService struct {
	db *gorm.DB
}

// NewFollowService creates a FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow creates an edge from follower to the author with the given username.
// Following an already-followed author is a no-op.
func (s *FollowService) Follow(followerID uint, authorUsername string) error {
	author, err := s.resolveAuthor(authorUsername)
	if err != nil {
		return err
	}
	if author.ID == followerID {
		return ErrSelfFollow
	}

	edge := models.Follow{FollowerID: followerID, AuthorID: author.ID}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}

// Unfollow removes the edge to the author with the given username. A missing
// edge is a no-op.
func (s *FollowService) Unfollow(followerID uint, authorUsername string) error {
	author, err := s.resolveAuthor(authorUsername)
	if err != nil {
		return err
	}
	return s.db.
		Where("follower_id = ? AND author_id = ?", followerID, author.ID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether follower already follows the author.
func (s *FollowService) IsFollowing(followerID, authorID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowedAuthorIDs returns the ids of every author the follower follows.
func (s *FollowService) FollowedAuthorIDs(followerID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("author_id", &ids).Error
	return ids, err
}

func (s *FollowService) resolveAuthor(username string) (*models.User, error) {
	var author models.User
	if err := s.db.Where("username = ?", username).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &author, nil
}
