package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkletapp/inklet/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestBuildPagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		pg := BuildPagination(0, 0)
		assert.Equal(t, Pagination{Page: 1, Limit: 5, Skip: 0}, pg)
	})

	t.Run("skip for page 2", func(t *testing.T) {
		pg := BuildPagination(2, 10)
		assert.Equal(t, Pagination{Page: 2, Limit: 10, Skip: 10}, pg)
	})

	t.Run("limit clamped to bounds", func(t *testing.T) {
		assert.Equal(t, MinLimit, BuildPagination(1, 2).Limit)
		assert.Equal(t, MaxLimit, BuildPagination(1, 500).Limit)
	})
}

func TestPaginationMeta(t *testing.T) {
	pg := BuildPagination(1, 5)

	totalPages, hasMore := pg.Meta(11)
	assert.Equal(t, 3, totalPages)
	assert.True(t, hasMore)

	last := BuildPagination(3, 5)
	totalPages, hasMore = last.Meta(11)
	assert.Equal(t, 3, totalPages)
	assert.False(t, hasMore)

	totalPages, hasMore = pg.Meta(0)
	assert.Equal(t, 0, totalPages)
	assert.False(t, hasMore)
}

func TestBuildPostFilter(t *testing.T) {
	viewer := uintPtr(1)
	other := uintPtr(2)

	t.Run("guest general feed pins to published", func(t *testing.T) {
		f := BuildPostFilter(nil, PostListParams{})
		require.NotNil(t, f.Status)
		assert.Equal(t, models.StatusPublished, *f.Status)
		assert.False(t, f.MatchNone)
	})

	t.Run("guest viewing another user's feed", func(t *testing.T) {
		f := BuildPostFilter(nil, PostListParams{AuthorID: other})
		require.NotNil(t, f.AuthorID)
		assert.Equal(t, uint(2), *f.AuthorID)
		require.NotNil(t, f.Status)
		assert.Equal(t, models.StatusPublished, *f.Status)
	})

	t.Run("guest asking for drafts matches nothing", func(t *testing.T) {
		f := BuildPostFilter(nil, PostListParams{Status: models.StatusDraft})
		assert.True(t, f.MatchNone)
	})

	t.Run("own feed with explicit draft status", func(t *testing.T) {
		f := BuildPostFilter(viewer, PostListParams{AuthorID: uintPtr(1), Status: models.StatusDraft})
		require.NotNil(t, f.Status)
		assert.Equal(t, models.StatusDraft, *f.Status)
		assert.False(t, f.MatchNone)
	})

	t.Run("own feed without status is unrestricted", func(t *testing.T) {
		f := BuildPostFilter(viewer, PostListParams{AuthorID: uintPtr(1)})
		assert.Nil(t, f.Status)
		assert.False(t, f.MatchNone)
	})

	t.Run("authenticated general feed still pinned to published", func(t *testing.T) {
		f := BuildPostFilter(viewer, PostListParams{})
		require.NotNil(t, f.Status)
		assert.Equal(t, models.StatusPublished, *f.Status)
	})

	t.Run("another author's drafts match nothing, never error", func(t *testing.T) {
		f := BuildPostFilter(viewer, PostListParams{AuthorID: other, Status: models.StatusDraft})
		require.NotNil(t, f.AuthorID)
		assert.True(t, f.MatchNone)
	})

	t.Run("blank search is ignored", func(t *testing.T) {
		f := BuildPostFilter(nil, PostListParams{Search: "   "})
		assert.Empty(t, f.Search)
	})

	t.Run("search is trimmed and carried", func(t *testing.T) {
		f := BuildPostFilter(nil, PostListParams{Search: " hello "})
		assert.Equal(t, "hello", f.Search)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike(`100%`))
	assert.Equal(t, `a\_b`, EscapeLike(`a_b`))
	assert.Equal(t, `c:\\temp`, EscapeLike(`c:\temp`))
	assert.Equal(t, `plain`, EscapeLike(`plain`))
}

func TestBuildPostSort(t *testing.T) {
	assert.Equal(t, "like_count DESC, created_at DESC", BuildPostSort(SortLikeCount))
	assert.Equal(t, "created_at ASC", BuildPostSort(SortOldest))
	assert.Equal(t, "created_at DESC", BuildPostSort(SortLatest))
	assert.Equal(t, "created_at DESC", BuildPostSort("bogus"))
}

func TestBuildLazyQuery(t *testing.T) {
	t.Run("defaults to first page, descending", func(t *testing.T) {
		q := BuildLazyQuery(LazyParams{})
		assert.Nil(t, q.Cursor)
		assert.Equal(t, DefaultLazyLimit, q.Limit)
		assert.True(t, q.Desc)
	})

	t.Run("valid cursor is parsed", func(t *testing.T) {
		q := BuildLazyQuery(LazyParams{Cursor: "42", Limit: 10, SortOrder: "desc"})
		require.NotNil(t, q.Cursor)
		assert.Equal(t, uint(42), *q.Cursor)
		assert.True(t, q.Desc)
	})

	t.Run("ascending order", func(t *testing.T) {
		q := BuildLazyQuery(LazyParams{Cursor: "42", SortOrder: "asc"})
		require.NotNil(t, q.Cursor)
		assert.False(t, q.Desc)
	})

	t.Run("garbage cursor means first page", func(t *testing.T) {
		q := BuildLazyQuery(LazyParams{Cursor: "not-a-number"})
		assert.Nil(t, q.Cursor)
	})

	t.Run("limit clamped", func(t *testing.T) {
		assert.Equal(t, MaxLazyLimit, BuildLazyQuery(LazyParams{Limit: 100}).Limit)
		assert.Equal(t, DefaultLazyLimit, BuildLazyQuery(LazyParams{Limit: -1}).Limit)
	})
}
