package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/LVVS666/yatube-project/models"
)

// FeedService builds ordered, paginated post listings: the global feed, a
// group feed, an author feed and the personalized followed-authors feed.
type FeedService struct {
	db       *gorm.DB
	pageSize int
}

// NewFeedService creates a FeedService with a fixed page size.
func NewFeedService(db *gorm.DB, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &FeedService{db: db, pageSize: pageSize}
}

// PageSize returns the configured page size.
func (s *FeedService) PageSize() int {
	return s.pageSize
}

// feedOrder is the deterministic feed ordering: newest first, row id as the
// tie-break for equal timestamps.
const feedOrder = "created_at DESC, id DESC"

// ListAll returns the global feed, newest first.
func (s *FeedService) ListAll(page int) (Page, error) {
	q := s.db.Model(&models.Post{})
	return s.paginate(q, page)
}

// ListByGroup returns posts assigned to the group with the given slug.
func (s *FeedService) ListByGroup(slug string, page int) (*models.Group, Page, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Page{}, ErrNotFound
		}
		return nil, Page{}, err
	}
	q := s.db.Model(&models.Post{}).Where("group_id = ?", group.ID)
	p, err := s.paginate(q, page)
	return &group, p, err
}

// ListByAuthor returns the named user's posts together with their total post
// count. The follow affordance for an authenticated caller is resolved by
// FollowService.IsFollowing at the boundary.
func (s *FeedService) ListByAuthor(username string, page int) (*models.User, Page, error) {
	var author models.User
	if err := s.db.Where("username = ?", username).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Page{}, ErrNotFound
		}
		return nil, Page{}, err
	}
	q := s.db.Model(&models.Post{}).Where("author_id = ?", author.ID)
	p, err := s.paginate(q, page)
	return &author, p, err
}

// ListFollowed returns posts authored by every user the caller follows.
func (s *FeedService) ListFollowed(followerID uint, page int) (Page, error) {
	followed := s.db.Model(&models.Follow{}).
		Select("author_id").
		Where("follower_id = ?", followerID)
	q := s.db.Model(&models.Post{}).Where("author_id IN (?)", followed)
	return s.paginate(q, page)
}

// paginate counts the filtered set, clamps the requested page into range and
// loads that page with authors and groups preloaded.
func (s *FeedService) paginate(q *gorm.DB, requested int) (Page, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page{}, err
	}

	page, totalPages := clampPage(requested, s.pageSize, total)

	var posts []models.Post
	err := q.Preload("Author").Preload("Group").
		Order(feedOrder).
		Offset((page - 1) * s.pageSize).
		Limit(s.pageSize).
		Find(&posts).Error
	if err != nil {
		return Page{}, err
	}

	return newPage(posts, page, s.pageSize, total, totalPages), nil
}
