package search

import "context"

type productMatcher interface {
	SearchProductIDs(ctx context.Context, query string, offset, limit int) (int64, []uint, error)
}

// Database searches name and description with LIKE. Indexing is a no-op.
type Database struct {
	Repo productMatcher
}

func (s *Database) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	return s.Repo.SearchProductIDs(ctx, query, from, size)
}

func (s *Database) Index(context.Context, Document) error { return nil }
func (s *Database) Delete(context.Context, uint) error    { return nil }
