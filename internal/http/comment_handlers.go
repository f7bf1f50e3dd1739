package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkletapp/inklet/internal/models"
	"github.com/inkletapp/inklet/internal/query"
)

type CommentInput struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

type lazyQuery struct {
	Cursor    string `form:"cursor"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=15"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

func (e *Env) ListComments(c *gin.Context) {
	var q lazyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	comments, meta, err := e.Comments.ListLazy(c.Param("postSlug"), viewerFrom(c), query.LazyParams{
		Cursor:    q.Cursor,
		Limit:     q.Limit,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Comments fetched successfully"
	if len(comments) == 0 {
		message = "No comments available"
	}
	respond(c, http.StatusOK, message, comments, meta)
}

func (e *Env) CreateComment(c *gin.Context) {
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	comment, postStatus, err := e.Comments.Add(c.Param("postSlug"), viewerFrom(c), input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	// Comments on drafts stay between the draft and its owner.
	if postStatus == models.StatusPublished {
		e.broadcast(WsMessage{Type: "new_comment", Data: comment})
	}
	respond(c, http.StatusCreated, "Comment added successfully", comment, nil)
}

func (e *Env) UpdateComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid comment ID"})
		return
	}
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	comment, err := e.Comments.Edit(uint(id), viewerFrom(c), input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Comment updated successfully", comment, nil)
}

func (e *Env) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid comment ID"})
		return
	}
	if err := e.Comments.Remove(uint(id), viewerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
