package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkletapp/inklet/internal/models"
)

func TestCanView(t *testing.T) {
	owner := &Viewer{ID: 1, Username: "author"}
	other := &Viewer{ID: 2, Username: "reader"}

	t.Run("published visible to everyone", func(t *testing.T) {
		assert.True(t, CanView(models.StatusPublished, 1, nil))
		assert.True(t, CanView(models.StatusPublished, 1, other))
		assert.True(t, CanView(models.StatusPublished, 1, owner))
	})

	t.Run("draft visible only to its author", func(t *testing.T) {
		assert.True(t, CanView(models.StatusDraft, 1, owner))
		assert.False(t, CanView(models.StatusDraft, 1, other))
		assert.False(t, CanView(models.StatusDraft, 1, nil))
	})
}

func TestCanModifyPost(t *testing.T) {
	owner := &Viewer{ID: 1}
	other := &Viewer{ID: 2}

	assert.True(t, CanModifyPost(1, owner))
	assert.False(t, CanModifyPost(1, other))
	assert.False(t, CanModifyPost(1, nil))
}

func TestCanModifyComment(t *testing.T) {
	commentAuthor := &Viewer{ID: 10}
	postOwner := &Viewer{ID: 1}
	thirdParty := &Viewer{ID: 99}

	t.Run("comment author may modify without owning the post", func(t *testing.T) {
		assert.True(t, CanModifyComment(10, 1, commentAuthor))
	})

	t.Run("post owner may moderate comments they did not write", func(t *testing.T) {
		assert.True(t, CanModifyComment(10, 1, postOwner))
	})

	t.Run("anyone else may not", func(t *testing.T) {
		assert.False(t, CanModifyComment(10, 1, thirdParty))
		assert.False(t, CanModifyComment(10, 1, nil))
	})
}
