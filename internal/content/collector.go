package content

import (
	"context"
	"iter"

	"github.com/starford/seokit/internal/models"
)

// Collector aggregates every content source into public paths.
type Collector struct {
	sources []Source
}

// NewCollector creates a Collector over sources. Lookup returns the first
// source, in order, holding a visible item for the path.
func NewCollector(sources ...Source) *Collector {
	return &Collector{sources: sources}
}

// Collect returns a lazy sequence of visible paths. Every range over the
// sequence queries the sources again; nothing is cached between passes.
// A source failure is yielded once and ends the sequence.
func (c *Collector) Collect(ctx context.Context) iter.Seq2[models.PathRef, error] {
	return func(yield func(models.PathRef, error) bool) {
		for _, src := range c.sources {
			items, err := src.ListVisible(ctx)
			if err != nil {
				yield(models.PathRef{}, err)
				return
			}
			for _, it := range items {
				if !yield(models.PathRef{Path: src.Path(it.Slug), LastModified: it.UpdatedAt}, nil) {
					return
				}
			}
		}
	}
}

// All drains Collect into a slice.
func (c *Collector) All(ctx context.Context) ([]models.PathRef, error) {
	var out []models.PathRef
	for ref, err := range c.Collect(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

// Lookup resolves a public path to the page context of a visible item. Title
// and description come back as plain text.
func (c *Collector) Lookup(ctx context.Context, path string) (models.PageContext, bool, error) {
	for _, src := range c.sources {
		slug, ok := src.Match(path)
		if !ok {
			continue
		}
		it, found, err := src.Get(ctx, slug)
		if err != nil {
			return models.PageContext{}, false, err
		}
		if !found {
			continue
		}
		return models.PageContext{
			Path:        src.Path(it.Slug),
			Kind:        it.Kind,
			Title:       plainText(it.Title),
			Description: plainText(it.Description),
			Image:       it.Image,
		}, true, nil
	}
	return models.PageContext{}, false, nil
}
