package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopwire/content-engine/internal/domain"
)

type fakeCategorySource struct {
	byName   map[string]*domain.Category
	topLevel []*domain.Category
	children map[int64][]*domain.Category
	err      error
}

func (f *fakeCategorySource) TopLevelByName(_ context.Context, name string) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byName[name], nil
}

func (f *fakeCategorySource) TopLevel(_ context.Context) ([]*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.topLevel, nil
}

func (f *fakeCategorySource) Children(_ context.Context, parentID int64) ([]*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.children[parentID], nil
}

func TestHierarchyResolverExactParent(t *testing.T) {
	src := &fakeCategorySource{
		byName: map[string]*domain.Category{
			"electronics": {ID: 1, Name: "Electronics"},
		},
		children: map[int64][]*domain.Category{
			1: {
				{ID: 10, Name: "Smartphones"},
				{ID: 11, Name: "Laptops"},
			},
		},
	}
	r := NewHierarchyResolver(src, nil)

	vocab := r.Resolve(context.Background(), "Electronics")

	assert.True(t, vocab.Broadened)
	assert.Contains(t, vocab.Hierarchy, "smartphones")
	assert.Contains(t, vocab.Hierarchy, "laptops")
	// Child synonym expansion rides along.
	assert.Contains(t, vocab.Hierarchy, "mobile phone")
	// Base stays untouched.
	assert.NotContains(t, vocab.Base, "smartphones")
}

func TestHierarchyResolverTokenScanFallback(t *testing.T) {
	src := &fakeCategorySource{
		byName: map[string]*domain.Category{},
		topLevel: []*domain.Category{
			{ID: 1, Name: "Consumer Electronics"},
			{ID: 2, Name: "Fashion"},
		},
		children: map[int64][]*domain.Category{
			1: {{ID: 10, Name: "Cameras"}},
		},
	}
	r := NewHierarchyResolver(src, nil)

	// "gadgets" is a synonym token of electronics; "Consumer Electronics"
	// contains the token "electronics" as a substring.
	vocab := r.Resolve(context.Background(), "Electronics")

	assert.True(t, vocab.Broadened)
	assert.Contains(t, vocab.Hierarchy, "cameras")
}

func TestHierarchyResolverNoParent(t *testing.T) {
	src := &fakeCategorySource{
		byName:   map[string]*domain.Category{},
		topLevel: []*domain.Category{{ID: 1, Name: "Fashion"}},
	}
	r := NewHierarchyResolver(src, nil)

	vocab := r.Resolve(context.Background(), "Garden Tools")

	assert.False(t, vocab.Broadened)
	assert.Equal(t, vocab.Base, vocab.Hierarchy)
	assert.Contains(t, vocab.Base, "garden tools")
}

func TestHierarchyResolverLookupErrorDegrades(t *testing.T) {
	src := &fakeCategorySource{err: errors.New("no such table: categories")}
	r := NewHierarchyResolver(src, nil)

	vocab := r.Resolve(context.Background(), "Electronics")

	assert.False(t, vocab.Broadened)
	assert.Equal(t, vocab.Base, vocab.Hierarchy)
	assert.NotEmpty(t, vocab.Base)
}

func TestHierarchyResolverEmptyInput(t *testing.T) {
	r := NewHierarchyResolver(&fakeCategorySource{}, nil)

	vocab := r.Resolve(context.Background(), "   ")

	assert.Empty(t, vocab.Base)
	assert.Empty(t, vocab.Hierarchy)
	assert.False(t, vocab.Broadened)
}
