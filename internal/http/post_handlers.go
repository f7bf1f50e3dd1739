package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkletapp/inklet/internal/models"
	"github.com/inkletapp/inklet/internal/query"
	"github.com/inkletapp/inklet/internal/service"
)

type CreatePostInput struct {
	Title   string `json:"title" binding:"required,min=3,max=150"`
	Content string `json:"content" binding:"required,min=10,max=5000"`
	Status  string `json:"status" binding:"omitempty,oneof=draft published"`
}

type EditPostInput struct {
	Title   *string `json:"title" binding:"omitempty,min=3,max=150"`
	Content *string `json:"content" binding:"omitempty,min=10,max=5000"`
	Status  *string `json:"status" binding:"omitempty,oneof=draft published"`
}

type postListQuery struct {
	Search   string `form:"search"`
	Author   uint   `form:"author"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published"`
	SortedBy string `form:"sortedBy" binding:"omitempty,oneof=like-count latest oldest"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=5,max=20"`
}

type paginationQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=5,max=20"`
}

func (e *Env) ListPosts(c *gin.Context) {
	var q postListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	params := query.PostListParams{
		Search:   q.Search,
		Status:   q.Status,
		SortedBy: q.SortedBy,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.Author > 0 {
		author := q.Author
		params.AuthorID = &author
	}

	var viewerID *uint
	if viewer := viewerFrom(c); viewer != nil {
		viewerID = &viewer.ID
	}

	items, meta, err := e.Posts.List(viewerID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Posts fetched successfully"
	if meta.PostCount == 0 {
		message = "No posts available"
	}
	respond(c, http.StatusOK, message, items, meta)
}

func (e *Env) CreatePost(c *gin.Context) {
	viewer := viewerFrom(c)
	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	post, err := e.Posts.Add(viewer.ID, service.PostInput(input))
	if err != nil {
		respondError(c, err)
		return
	}
	if post.Status == models.StatusPublished {
		e.broadcast(WsMessage{Type: "new_post", Data: post})
	}
	respond(c, http.StatusCreated, "Post created successfully", post, nil)
}

func (e *Env) GetPostDetails(c *gin.Context) {
	post, isFavorited, err := e.Posts.GetDetails(c.Param("slug"), viewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Post data fetched successfully",
		gin.H{"post": post, "isFavorited": isFavorited}, nil)
}

func (e *Env) UpdatePost(c *gin.Context) {
	var input EditPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	post, priorStatus, err := e.Posts.Edit(c.Param("slug"), viewerFrom(c), service.PostUpdate(input))
	if err != nil {
		respondError(c, err)
		return
	}
	if priorStatus != models.StatusPublished && post.Status == models.StatusPublished {
		e.broadcast(WsMessage{Type: "new_post", Data: post})
	}
	respond(c, http.StatusOK, "Post data updated successfully", post, nil)
}

func (e *Env) DeletePost(c *gin.Context) {
	if err := e.Posts.Remove(c.Param("slug"), viewerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (e *Env) ToggleFavorite(c *gin.Context) {
	favorited, err := e.Posts.ToggleFavorite(c.Param("slug"), viewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Post removed from favorites"
	if favorited {
		message = "Post added to favorites"
	}
	respond(c, http.StatusOK, message, gin.H{"favorited": favorited}, nil)
}

func (e *Env) ListFavorites(c *gin.Context) {
	viewer := viewerFrom(c)
	var q paginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	items, meta, err := e.Posts.ListFavorites(viewer.ID, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Favorites fetched successfully"
	if meta.FavoriteCount == 0 {
		message = "No posts available"
	}
	respond(c, http.StatusOK, message, items, meta)
}
