package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequestClampsPageNumber(t *testing.T) {
	for _, number := range []int{0, -5} {
		page := NewPageRequest(number, 10)
		assert.Equal(t, 1, page.Number, "page=%d", number)
		assert.Equal(t, 0, page.Offset())
	}
}

func TestNewPageRequestDefaultsWindowSize(t *testing.T) {
	page := NewPageRequest(1, 0)
	assert.Equal(t, 10, page.Size)
}

func TestPageRequestOffsetWindows(t *testing.T) {
	assert.Equal(t, 0, NewPageRequest(1, 10).Offset())
	assert.Equal(t, 10, NewPageRequest(2, 10).Offset())
	// A window past the last row is a valid, empty page.
	assert.Equal(t, 90, NewPageRequest(10, 10).Offset())
}
