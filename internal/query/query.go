// Package query translates caller-supplied listing parameters plus the
// viewer's identity into concrete GORM filters, sort orders and pagination
// windows. The visibility scoping for post listings lives here: what a
// viewer may not see is excluded by the filter itself, so a list request
// can never fail with an authorization error, only come back empty.
package query

import (
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/inkletapp/inklet/internal/models"
)

// Pagination bounds for offset-paged listings (posts, favorites).
const (
	DefaultPage  = 1
	DefaultLimit = 5
	MinLimit     = 5
	MaxLimit     = 20
)

// Bounds for the comment lazy loader.
const (
	DefaultLazyLimit = 3
	MaxLazyLimit     = 15
)

// Sort keys accepted by post listings.
const (
	SortLikeCount = "like-count"
	SortLatest    = "latest"
	SortOldest    = "oldest"
)

// Pagination is an offset window. Skip is derived, never supplied.
type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// BuildPagination normalizes page/limit into a window. Zero values take the
// defaults; out-of-range limits are clamped rather than rejected.
func BuildPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// Meta computes page metadata from a total row count.
func (p Pagination) Meta(count int64) (totalPages int, hasMore bool) {
	totalPages = int(math.Ceil(float64(count) / float64(p.Limit)))
	return totalPages, p.Page < totalPages
}

// PostListParams are the raw listing inputs after transport-level parsing.
type PostListParams struct {
	Search   string
	AuthorID *uint
	Status   string
	SortedBy string
	Page     int
	Limit    int
}

// PostFilter is the resolved filter for a post listing. MatchNone is an
// explicit sentinel: the query must return zero rows. The SQL translation
// maps it to a trivially false predicate instead of leaning on any implicit
// null-status trick.
type PostFilter struct {
	Search    string
	AuthorID  *uint
	Status    *string
	MatchNone bool
}

// BuildPostFilter resolves the effective filter for a viewer.
//
// Status scoping: an author browsing their own feed sees whatever status
// they ask for, drafts included, or everything when they ask for nothing.
// Anyone else is pinned to published posts, and a request for another
// author's drafts resolves to MatchNone, so the listing degrades to an
// empty page instead of an error.
func BuildPostFilter(viewerID *uint, p PostListParams) PostFilter {
	f := PostFilter{AuthorID: p.AuthorID}

	if s := strings.TrimSpace(p.Search); s != "" {
		f.Search = s
	}

	isSelf := viewerID != nil && p.AuthorID != nil && *viewerID == *p.AuthorID

	if isSelf {
		if p.Status != "" {
			status := p.Status
			f.Status = &status
		}
		return f
	}

	if p.Status == "" || p.Status == models.StatusPublished {
		published := models.StatusPublished
		f.Status = &published
	} else {
		f.MatchNone = true
	}
	return f
}

// Apply attaches the filter's predicates to a post query.
func (f PostFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.MatchNone {
		return tx.Where("1 = 0")
	}
	if f.Search != "" {
		pattern := "%" + EscapeLike(strings.ToLower(f.Search)) + "%"
		tx = tx.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.AuthorID != nil {
		tx = tx.Where("author_id = ?", *f.AuthorID)
	}
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}
	return tx
}

// BuildPostSort maps a sort key to an ORDER BY expression. Unknown keys fall
// back to newest-first.
func BuildPostSort(key string) string {
	switch key {
	case SortLikeCount:
		return "like_count DESC, created_at DESC"
	case SortOldest:
		return "created_at ASC"
	default:
		return "created_at DESC"
	}
}

// EscapeLike escapes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// LazyParams are the raw cursor-pagination inputs for comment listings.
type LazyParams struct {
	Cursor    string
	Limit     int
	SortOrder string
}

// LazyQuery is a resolved forward-only cursor window over comment IDs.
type LazyQuery struct {
	Cursor *uint
	Limit  int
	Desc   bool
}

// BuildLazyQuery normalizes cursor parameters. An absent or unparsable
// cursor means "first page". Descending order is the default.
func BuildLazyQuery(p LazyParams) LazyQuery {
	q := LazyQuery{Limit: p.Limit, Desc: p.SortOrder != "asc"}
	if q.Limit < 1 {
		q.Limit = DefaultLazyLimit
	}
	if q.Limit > MaxLazyLimit {
		q.Limit = MaxLazyLimit
	}
	if n, err := strconv.ParseUint(strings.TrimSpace(p.Cursor), 10, 32); err == nil && n > 0 {
		cursor := uint(n)
		q.Cursor = &cursor
	}
	return q
}

// Apply attaches the cursor predicate and sort order. Descending traversal
// fetches rows strictly below the cursor, ascending strictly above it.
func (q LazyQuery) Apply(tx *gorm.DB) *gorm.DB {
	if q.Cursor != nil {
		if q.Desc {
			tx = tx.Where("id < ?", *q.Cursor)
		} else {
			tx = tx.Where("id > ?", *q.Cursor)
		}
	}
	if q.Desc {
		return tx.Order("id DESC")
	}
	return tx.Order("id ASC")
}
