package service

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkletapp/inklet/internal/apperr"
	"github.com/inkletapp/inklet/internal/models"
	"github.com/inkletapp/inklet/internal/query"
)

func commentIDs(comments []models.Comment) []uint {
	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	return ids
}

func TestListLazyPaging(t *testing.T) {
	db := openTestDB(t)
	svc := &CommentService{DB: db}

	author := createUser(t, db, "talked_about")
	commenter := createUser(t, db, "chatty_one")
	post := createPost(t, db, author, "Much discussed", models.StatusPublished)

	var ids []uint
	for i := 1; i <= 7; i++ {
		c, _, err := svc.Add(post.Slug, viewerFor(commenter), fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	t.Run("descending pages walk newest to oldest", func(t *testing.T) {
		page1, meta, err := svc.ListLazy(post.Slug, nil, query.LazyParams{Limit: 3, SortOrder: "desc"})
		require.NoError(t, err)
		assert.Equal(t, []uint{ids[6], ids[5], ids[4]}, commentIDs(page1))
		require.NotNil(t, meta.NextCursor)
		assert.Equal(t, ids[4], *meta.NextCursor)
		assert.True(t, meta.HasMore)

		page2, meta, err := svc.ListLazy(post.Slug, nil, query.LazyParams{
			Cursor: strconv.FormatUint(uint64(*meta.NextCursor), 10), Limit: 3, SortOrder: "desc",
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{ids[3], ids[2], ids[1]}, commentIDs(page2))
		assert.True(t, meta.HasMore)

		page3, meta, err := svc.ListLazy(post.Slug, nil, query.LazyParams{
			Cursor: strconv.FormatUint(uint64(*meta.NextCursor), 10), Limit: 3, SortOrder: "desc",
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{ids[0]}, commentIDs(page3))
		assert.False(t, meta.HasMore)
		require.NotNil(t, meta.NextCursor)
		assert.Equal(t, ids[0], *meta.NextCursor)
	})

	t.Run("ascending traversal", func(t *testing.T) {
		page, meta, err := svc.ListLazy(post.Slug, nil, query.LazyParams{Limit: 3, SortOrder: "asc"})
		require.NoError(t, err)
		assert.Equal(t, []uint{ids[0], ids[1], ids[2]}, commentIDs(page))
		assert.True(t, meta.HasMore)

		page, _, err = svc.ListLazy(post.Slug, nil, query.LazyParams{
			Cursor: strconv.FormatUint(uint64(*meta.NextCursor), 10), Limit: 3, SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{ids[3], ids[4], ids[5]}, commentIDs(page))
	})

	t.Run("full iteration yields every comment once", func(t *testing.T) {
		var seen []uint
		params := query.LazyParams{Limit: 2, SortOrder: "desc"}
		for {
			page, meta, err := svc.ListLazy(post.Slug, nil, params)
			require.NoError(t, err)
			seen = append(seen, commentIDs(page)...)
			if !meta.HasMore {
				break
			}
			params.Cursor = strconv.FormatUint(uint64(*meta.NextCursor), 10)
		}
		want := []uint{ids[6], ids[5], ids[4], ids[3], ids[2], ids[1], ids[0]}
		assert.Equal(t, want, seen)
	})

	t.Run("empty post yields empty page and nil cursor", func(t *testing.T) {
		quiet := createPost(t, db, author, "Nobody cares", models.StatusPublished)
		page, meta, err := svc.ListLazy(quiet.Slug, nil, query.LazyParams{})
		require.NoError(t, err)
		assert.Empty(t, page)
		assert.Nil(t, meta.NextCursor)
		assert.False(t, meta.HasMore)
	})
}

func TestListLazyVisibility(t *testing.T) {
	db := openTestDB(t)
	svc := &CommentService{DB: db}

	owner := createUser(t, db, "secret_writer")
	outsider := createUser(t, db, "nosy_reader")
	draft := createPost(t, db, owner, "Still cooking", models.StatusDraft)

	t.Run("owner may list comments on own draft", func(t *testing.T) {
		_, _, err := svc.ListLazy(draft.Slug, viewerFor(owner), query.LazyParams{})
		require.NoError(t, err)
	})

	t.Run("everyone else sees the post as missing", func(t *testing.T) {
		_, _, err := svc.ListLazy(draft.Slug, viewerFor(outsider), query.LazyParams{})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

		_, _, err = svc.ListLazy(draft.Slug, nil, query.LazyParams{})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("owner may comment on own draft, others cannot reach it", func(t *testing.T) {
		_, status, err := svc.Add(draft.Slug, viewerFor(owner), "note to self")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, status)

		_, _, err = svc.Add(draft.Slug, viewerFor(outsider), "let me in")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestCommentOwnership(t *testing.T) {
	db := openTestDB(t)
	svc := &CommentService{DB: db}

	postOwner := createUser(t, db, "thread_host")
	commenter := createUser(t, db, "guest_voice")
	thirdParty := createUser(t, db, "bystander1")
	post := createPost(t, db, postOwner, "Open thread", models.StatusPublished)

	comment, status, err := svc.Add(post.Slug, viewerFor(commenter), "hot take")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, status)

	t.Run("author edits own comment without owning the post", func(t *testing.T) {
		updated, err := svc.Edit(comment.ID, viewerFor(commenter), "tempered take")
		require.NoError(t, err)
		assert.Equal(t, "tempered take", updated.Content)
		assert.Equal(t, "guest_voice", updated.User.Username)
	})

	t.Run("third party is forbidden", func(t *testing.T) {
		_, err := svc.Edit(comment.ID, viewerFor(thirdParty), "vandalism")
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

		err = svc.Remove(comment.ID, viewerFor(thirdParty))
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("anonymous is forbidden", func(t *testing.T) {
		_, err := svc.Edit(comment.ID, nil, "ghost edit")
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("post owner moderates comments they did not write", func(t *testing.T) {
		updated, err := svc.Edit(comment.ID, viewerFor(postOwner), "[moderated]")
		require.NoError(t, err)
		assert.Equal(t, "[moderated]", updated.Content)

		require.NoError(t, svc.Remove(comment.ID, viewerFor(postOwner)))
	})

	t.Run("missing comment reported before authorization", func(t *testing.T) {
		_, err := svc.Edit(comment.ID, viewerFor(thirdParty), "too late")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
