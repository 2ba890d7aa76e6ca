package services

import (
	"sort"

	"github.com/sophialabs/inkwell/internal/domain/content"
)

// PostIndex holds published posts sorted by date descending, with lookups by
// slug and tag. It is built once per site load and read-only afterwards.
type PostIndex struct {
	posts  []*content.Post
	bySlug map[string]*content.Post
	byTag  map[string][]*content.Post
}

// NewPostIndex creates an empty index.
func NewPostIndex() *PostIndex {
	return &PostIndex{
		bySlug: make(map[string]*content.Post),
		byTag:  make(map[string][]*content.Post),
	}
}

// Add inserts a post into the index.
func (idx *PostIndex) Add(p *content.Post) {
	idx.posts = append(idx.posts, p)
	idx.bySlug[p.Slug] = p
	for _, tag := range p.Tags {
		idx.byTag[tag] = append(idx.byTag[tag], p)
	}
}

// Build sorts posts newest-first (ties broken by slug for stable output).
func (idx *PostIndex) Build() {
	newestFirst := func(posts []*content.Post) {
		sort.SliceStable(posts, func(i, j int) bool {
			if !posts[i].Date.Equal(posts[j].Date) {
				return posts[i].Date.After(posts[j].Date)
			}
			return posts[i].Slug < posts[j].Slug
		})
	}
	newestFirst(idx.posts)
	for _, posts := range idx.byTag {
		newestFirst(posts)
	}
}

// All returns every indexed post, newest first.
func (idx *PostIndex) All() []*content.Post {
	return idx.posts
}

// BySlug returns the post with the given slug, or nil.
func (idx *PostIndex) BySlug(slug string) *content.Post {
	return idx.bySlug[slug]
}

// ByTag returns the posts carrying the given tag, newest first.
func (idx *PostIndex) ByTag(tag string) []*content.Post {
	return idx.byTag[tag]
}

// Tags returns all distinct tags, sorted.
func (idx *PostIndex) Tags() []string {
	tags := make([]string, 0, len(idx.byTag))
	for tag := range idx.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len returns the number of indexed posts.
func (idx *PostIndex) Len() int {
	return len(idx.posts)
}
