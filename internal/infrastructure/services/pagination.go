package services

import (
	"math"
	"strconv"

	"github.com/sophialabs/inkwell/internal/domain/content"
)

// PostPage is one page of the post listing with navigation metadata.
type PostPage struct {
	Posts       []*content.Post
	Page        int
	Size        int
	TotalItems  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
	// NextPage and PrevPage are precomputed for link building.
	NextPage int
	PrevPage int
}

// PaginatePosts slices posts for the 1-based page selected by pageParam
// (anything unparseable or below 1 resolves to page 1). Pages past the end
// come back empty rather than clamped, so a stale link renders an empty
// listing instead of repeating the last page.
func PaginatePosts(posts []*content.Post, pageParam string, size int) PostPage {
	if size <= 0 {
		size = 10
	}

	page := 1
	if n, err := strconv.Atoi(pageParam); err == nil && n >= 1 {
		page = n
	}

	totalItems := len(posts)
	totalPages := int(math.Ceil(float64(totalItems) / float64(size)))
	if totalPages == 0 {
		totalPages = 1
	}

	// Guard the multiplication: a huge parseable page value would overflow
	// into a negative offset and panic on the slice below.
	start, end := totalItems, totalItems
	if page-1 <= totalItems/size {
		offset := (page - 1) * size
		start = min(offset, totalItems)
		end = min(offset+size, totalItems)
	}

	return PostPage{
		Posts:       posts[start:end],
		Page:        page,
		Size:        size,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     end < totalItems,
		HasPrevious: page > 1 && totalItems > 0,
		NextPage:    page + 1,
		PrevPage:    page - 1,
	}
}
