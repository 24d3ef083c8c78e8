package domain

import "context"

// RuleStore reads the best-time table. Implementations must return the
// current table contents on every call; the scheduler never caches rules
// across operations, so edits are visible to the next run.
type RuleStore interface {
	ListRules(ctx context.Context) ([]BestTimeRule, error)
}

// PostStore reads and writes the post queue. AssignTime is the only write
// the scheduler performs: it moves a post from unscheduled to scheduled and
// must refuse to overwrite an existing assignment.
type PostStore interface {
	ListPosts(ctx context.Context) ([]Post, error)
	ListUnscheduled(ctx context.Context) ([]Post, error)
	Create(ctx context.Context, post *Post) error
	AssignTime(ctx context.Context, postID string, slot string) error
}

// ClientStore reads the client template table.
type ClientStore interface {
	ListClients(ctx context.Context) ([]ClientTemplate, error)
	GetClient(ctx context.Context, clientName string) (*ClientTemplate, error)
}
