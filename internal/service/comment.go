package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inkletapp/inklet/internal/apperr"
	"github.com/inkletapp/inklet/internal/models"
	"github.com/inkletapp/inklet/internal/policy"
	"github.com/inkletapp/inklet/internal/query"
)

type CommentService struct {
	DB *gorm.DB
}

// LazyMeta is the cursor-pagination metadata for comment listings.
type LazyMeta struct {
	NextCursor *uint `json:"nextCursor"`
	HasMore    bool  `json:"hasMore"`
}

// getPostBySlug resolves a comment's parent post and enforces visibility.
// A draft the viewer cannot see is reported as missing.
func (s *CommentService) getPostBySlug(slug string, viewer *policy.Viewer) (*models.Post, error) {
	var post models.Post
	err := s.DB.Select("id", "status", "author_id").Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Post not found")
	}
	if err != nil {
		return nil, err
	}
	if !policy.CanView(post.Status, post.AuthorID, viewer) {
		return nil, apperr.NotFound("Post not found")
	}
	return &post, nil
}

// ListLazy pages the post's comments with a forward-only cursor over the
// comment ID. It over-fetches one row to decide hasMore; the next cursor is
// the last returned comment's ID.
func (s *CommentService) ListLazy(postSlug string, viewer *policy.Viewer, p query.LazyParams) ([]models.Comment, LazyMeta, error) {
	lq := query.BuildLazyQuery(p)

	post, err := s.getPostBySlug(postSlug, viewer)
	if err != nil {
		return nil, LazyMeta{}, err
	}

	var comments []models.Comment
	err = lq.Apply(s.DB.Where("post_id = ?", post.ID)).
		Preload("User").
		Limit(lq.Limit + 1).
		Find(&comments).Error
	if err != nil {
		return nil, LazyMeta{}, err
	}

	hasMore := len(comments) > lq.Limit
	if hasMore {
		comments = comments[:lq.Limit]
	}

	meta := LazyMeta{HasMore: hasMore}
	if len(comments) > 0 {
		cursor := comments[len(comments)-1].ID
		meta.NextCursor = &cursor
	}
	return comments, meta, nil
}

// Add creates a comment on a post the viewer can see. Owners may comment on
// their own drafts; nobody else can reach a draft here. The parent post's
// status is returned so callers can keep draft activity out of public
// channels.
func (s *CommentService) Add(postSlug string, viewer *policy.Viewer, content string) (*models.Comment, string, error) {
	post, err := s.getPostBySlug(postSlug, viewer)
	if err != nil {
		return nil, "", err
	}
	comment := models.Comment{
		Content: content,
		PostID:  post.ID,
		UserID:  viewer.ID,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, "", err
	}
	if err := s.DB.First(&comment.User, viewer.ID).Error; err != nil {
		return nil, "", err
	}
	return &comment, post.Status, nil
}

// canModify checks edit rights on a comment. Direct authorship is the cheap
// path; only when that misses do we fetch the parent post's owner.
func (s *CommentService) canModify(c *models.Comment, viewer *policy.Viewer) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	if c.UserID == viewer.ID {
		return true, nil
	}
	var post models.Post
	err := s.DB.Select("author_id").First(&post, c.PostID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return policy.CanModifyComment(c.UserID, post.AuthorID, viewer), nil
}

// Edit replaces a comment's content. Allowed for the comment's author and
// for the owner of the post it sits on.
func (s *CommentService) Edit(id uint, viewer *policy.Viewer, content string) (*models.Comment, error) {
	var comment models.Comment
	err := s.DB.First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Comment not found")
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.canModify(&comment, viewer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("You are not authorized to edit this comment")
	}

	if comment.Content != content {
		comment.Content = content
		if err := s.DB.Save(&comment).Error; err != nil {
			return nil, err
		}
	}
	if err := s.DB.First(&comment.User, comment.UserID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Remove deletes a comment under the same ownership rule as Edit.
func (s *CommentService) Remove(id uint, viewer *policy.Viewer) error {
	var comment models.Comment
	err := s.DB.First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Comment not found")
	}
	if err != nil {
		return err
	}

	ok, err := s.canModify(&comment, viewer)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("You are not authorized to remove this comment")
	}
	return s.DB.Delete(&comment).Error
}
