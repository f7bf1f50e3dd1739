// Package policy holds the visibility and ownership rules as pure functions.
// All inputs arrive as arguments; nothing here touches storage.
package policy

import "github.com/inkletapp/inklet/internal/models"

// Viewer is the authenticated identity attached to a request. A nil *Viewer
// means the request is anonymous.
type Viewer struct {
	ID       uint
	Username string
}

// CanView reports whether a viewer may read a post. Published posts are
// visible to everyone; drafts only to their author. Callers translate a
// false result on a single fetch into "not found" so draft existence is
// never leaked.
func CanView(status string, authorID uint, viewer *Viewer) bool {
	if status != models.StatusDraft {
		return true
	}
	return viewer != nil && viewer.ID == authorID
}

// CanModifyPost reports whether a viewer may edit or delete a post.
// Only the author may; there is no delegation.
func CanModifyPost(authorID uint, viewer *Viewer) bool {
	return viewer != nil && viewer.ID == authorID
}

// CanModifyComment reports whether a viewer may edit or delete a comment.
// The comment's author may, and so may the owner of the post it sits on.
func CanModifyComment(commentAuthorID, postAuthorID uint, viewer *Viewer) bool {
	if viewer == nil {
		return false
	}
	return viewer.ID == commentAuthorID || viewer.ID == postAuthorID
}
