package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inkletapp/inklet/internal/apperr"
	"github.com/inkletapp/inklet/internal/models"
	"github.com/inkletapp/inklet/internal/policy"
	"github.com/inkletapp/inklet/internal/query"
)

type PostService struct {
	DB *gorm.DB
}

// PostInput creates a post. Status defaults to draft.
type PostInput struct {
	Title   string
	Content string
	Status  string
}

// PostUpdate carries a partial edit; nil fields are left untouched.
type PostUpdate struct {
	Title   *string
	Content *string
	Status  *string
}

// PostListItem is a listed post plus whether the viewer has favorited it.
type PostListItem struct {
	models.Post
	IsFavorited bool `json:"isFavorited"`
}

// ListMeta is the offset-pagination metadata for post listings.
type ListMeta struct {
	PostCount  int64 `json:"postCount"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// List returns the page of posts the viewer may see. Visibility is folded
// into the filter, so requests for content the viewer cannot see come back
// empty rather than failing.
func (s *PostService) List(viewerID *uint, p query.PostListParams) ([]PostListItem, ListMeta, error) {
	pg := query.BuildPagination(p.Page, p.Limit)
	filter := query.BuildPostFilter(viewerID, p)

	base := filter.Apply(s.DB.Model(&models.Post{})).Session(&gorm.Session{})

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, ListMeta{}, err
	}
	if count == 0 {
		return []PostListItem{}, ListMeta{}, nil
	}

	var posts []models.Post
	err := base.
		Preload("Author").
		Order(query.BuildPostSort(p.SortedBy)).
		Offset(pg.Skip).
		Limit(pg.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, ListMeta{}, err
	}

	items := make([]PostListItem, len(posts))
	for i, post := range posts {
		items[i] = PostListItem{Post: post}
	}

	if viewerID != nil && len(posts) > 0 {
		favorited, err := s.favoritedSet(*viewerID, posts)
		if err != nil {
			return nil, ListMeta{}, err
		}
		for i := range items {
			items[i].IsFavorited = favorited[items[i].ID]
		}
	}

	totalPages, hasMore := pg.Meta(count)
	return items, ListMeta{PostCount: count, TotalPages: totalPages, HasMore: hasMore}, nil
}

// favoritedSet returns the subset of the given posts the viewer has favorited.
func (s *PostService) favoritedSet(viewerID uint, posts []models.Post) (map[uint]bool, error) {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	var postIDs []uint
	err := s.DB.Model(&models.Favorite{}).
		Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Pluck("post_id", &postIDs).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(postIDs))
	for _, id := range postIDs {
		set[id] = true
	}
	return set, nil
}

// Add creates a post for the author. The slug is derived from the title.
func (s *PostService) Add(authorID uint, in PostInput) (*models.Post, error) {
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	post := models.Post{
		Title:    in.Title,
		Content:  in.Content,
		Slug:     makeSlug(in.Title),
		Status:   status,
		AuthorID: authorID,
	}
	if err := s.DB.Create(&post).Error; err != nil {
		return nil, err
	}
	if err := s.DB.First(&post.Author, authorID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetDetails fetches a post by slug. An invisible draft fails exactly like a
// missing post so existence is never leaked.
func (s *PostService) GetDetails(slug string, viewer *policy.Viewer) (*models.Post, bool, error) {
	var post models.Post
	err := s.DB.Preload("Author").Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.NotFound("Post not found")
	}
	if err != nil {
		return nil, false, err
	}
	if !policy.CanView(post.Status, post.AuthorID, viewer) {
		return nil, false, apperr.NotFound("Post not found")
	}

	isFavorited := false
	if viewer != nil {
		var n int64
		err := s.DB.Model(&models.Favorite{}).
			Where("user_id = ? AND post_id = ?", viewer.ID, post.ID).
			Count(&n).Error
		if err != nil {
			return nil, false, err
		}
		isFavorited = n > 0
	}
	return &post, isFavorited, nil
}

// Edit applies a partial update. Only the author may edit; a title change
// regenerates the slug. The status the post held before the edit is returned
// so callers can react to a publish transition.
func (s *PostService) Edit(slug string, viewer *policy.Viewer, up PostUpdate) (*models.Post, string, error) {
	var post models.Post
	err := s.DB.Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperr.NotFound("Post not found")
	}
	if err != nil {
		return nil, "", err
	}
	if !policy.CanModifyPost(post.AuthorID, viewer) {
		return nil, "", apperr.Forbidden("You are not authorized to edit this post")
	}
	priorStatus := post.Status

	if up.Title != nil && *up.Title != post.Title {
		post.Title = *up.Title
		post.Slug = makeSlug(*up.Title)
	}
	if up.Content != nil {
		post.Content = *up.Content
	}
	if up.Status != nil {
		post.Status = *up.Status
	}
	if err := s.DB.Save(&post).Error; err != nil {
		return nil, "", err
	}
	if err := s.DB.First(&post.Author, post.AuthorID).Error; err != nil {
		return nil, "", err
	}
	return &post, priorStatus, nil
}

// Remove deletes a post and cascades to its comments and favorites.
func (s *PostService) Remove(slug string, viewer *policy.Viewer) error {
	var post models.Post
	err := s.DB.Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Post not found")
	}
	if err != nil {
		return err
	}
	if !policy.CanModifyPost(post.AuthorID, viewer) {
		return apperr.Forbidden("You are not authorized to delete this post")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// ToggleFavorite flips the viewer's favorite on a published post and keeps
// the denormalized like counter in step. The toggle and the counter update
// are separate statements: the unique (user, post) index is the correctness
// backstop, the counter a companion write that can drift under a truly
// concurrent double toggle.
func (s *PostService) ToggleFavorite(slug string, viewer *policy.Viewer) (bool, error) {
	var post models.Post
	err := s.DB.Select("id", "status", "author_id").Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperr.NotFound("Post not found")
	}
	if err != nil {
		return false, err
	}
	if !policy.CanView(post.Status, post.AuthorID, viewer) {
		return false, apperr.NotFound("Post not found")
	}
	if post.Status == models.StatusDraft {
		return false, apperr.BadRequest("You cannot favorite draft posts")
	}

	res := s.DB.Where("user_id = ? AND post_id = ?", viewer.ID, post.ID).Delete(&models.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		err := s.DB.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
		return false, err
	}

	if err := s.DB.Create(&models.Favorite{UserID: viewer.ID, PostID: post.ID}).Error; err != nil {
		return false, err
	}
	err = s.DB.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	return true, err
}

// FavoriteAuthor is the author display fields on a favorites listing row.
type FavoriteAuthor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// FavoriteItem is one shaped row of the favorites listing.
type FavoriteItem struct {
	PostID      uint           `json:"postId"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	LikeCount   int            `json:"likeCount"`
	Author      FavoriteAuthor `json:"author"`
	IsFavorited bool           `json:"isFavorited"`
	FavoritedAt time.Time      `json:"favoritedAt"`
}

// FavoritesMeta is the pagination metadata for the favorites listing.
type FavoritesMeta struct {
	FavoriteCount int64 `json:"favoriteCount"`
	TotalPages    int   `json:"totalPages"`
	HasMore       bool  `json:"hasMore"`
}

// favoriteRow is the flat scan target for the favorites join.
type favoriteRow struct {
	PostID         uint
	Title          string
	Slug           string
	LikeCount      int
	AuthorID       uint
	AuthorUsername string
	FavoritedAt    time.Time
}

// The favorites listing pipeline, stage by stage. Keeping each stage a named
// function lets the filter be exercised directly against a fixture database.

// stageViewerFavorites starts the pipeline from the viewer's favorite rows.
func stageViewerFavorites(tx *gorm.DB, viewerID uint) *gorm.DB {
	return tx.Table("favorites").Where("favorites.user_id = ?", viewerID)
}

// stageJoinPosts joins each favorite to its post.
func stageJoinPosts(tx *gorm.DB) *gorm.DB {
	return tx.Joins("JOIN posts ON posts.id = favorites.post_id")
}

// stageFilterPublished drops favorites whose post has since left the
// published state. A stale favorite on a draft must not leak the draft.
func stageFilterPublished(tx *gorm.DB) *gorm.DB {
	return tx.Where("posts.status = ?", models.StatusPublished)
}

// stageJoinAuthors joins the post's author for display fields.
func stageJoinAuthors(tx *gorm.DB) *gorm.DB {
	return tx.Joins("JOIN users ON users.id = posts.author_id")
}

// favoritesBase composes the full filtered set once; both the count branch
// and the page branch fork from the returned session, so they always see
// the identical rows.
func (s *PostService) favoritesBase(viewerID uint) *gorm.DB {
	tx := stageViewerFavorites(s.DB, viewerID)
	tx = stageJoinPosts(tx)
	tx = stageFilterPublished(tx)
	tx = stageJoinAuthors(tx)
	return tx.Session(&gorm.Session{})
}

// ListFavorites pages through the viewer's favorites, newest favorite first,
// restricted to posts that are still published.
func (s *PostService) ListFavorites(viewerID uint, page, limit int) ([]FavoriteItem, FavoritesMeta, error) {
	pg := query.BuildPagination(page, limit)
	base := s.favoritesBase(viewerID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, FavoritesMeta{}, err
	}
	if count == 0 {
		return []FavoriteItem{}, FavoritesMeta{}, nil
	}

	var rows []favoriteRow
	err := base.
		Select(`posts.id AS post_id, posts.title, posts.slug, posts.like_count,
			users.id AS author_id, users.username AS author_username,
			favorites.created_at AS favorited_at`).
		Order("favorites.created_at DESC, favorites.id DESC").
		Offset(pg.Skip).
		Limit(pg.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, FavoritesMeta{}, err
	}

	items := make([]FavoriteItem, len(rows))
	for i, r := range rows {
		items[i] = FavoriteItem{
			PostID:      r.PostID,
			Title:       r.Title,
			Slug:        r.Slug,
			LikeCount:   r.LikeCount,
			Author:      FavoriteAuthor{ID: r.AuthorID, Username: r.AuthorUsername},
			IsFavorited: true,
			FavoritedAt: r.FavoritedAt,
		}
	}

	totalPages, hasMore := pg.Meta(count)
	return items, FavoritesMeta{FavoriteCount: count, TotalPages: totalPages, HasMore: hasMore}, nil
}
