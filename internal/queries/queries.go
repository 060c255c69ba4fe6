// Package queries wraps the data-access functions with a keyed result cache.
// List reads are cached per caller scope and filter; successful mutations
// invalidate every cached list of the entities they touch.
package queries

import (
	"context"
	"log"
	"net/url"
	"time"

	"lingoplay/internal/api"
	"lingoplay/internal/cache"
	"lingoplay/internal/metrics"
)

// Cached entity names, used as key prefixes
const (
	EntityLessons      = "lessons"
	EntityUsers        = "users"
	EntityVocabularies = "vocabularies"
	EntityTopics       = "topics"
	EntityQuestions    = "questions"
	EntityGames        = "games"
)

const anonymousScope = "anon"

// Queries is the cached read/write surface used by handlers
type Queries struct {
	api   *api.API
	cache cache.Cache
	ttl   time.Duration
}

// New creates the query layer
func New(a *api.API, c cache.Cache, ttl time.Duration) *Queries {
	return &Queries{api: a, cache: c, ttl: ttl}
}

type scopeKey struct{}

// WithScope tags ctx with the cache scope of the caller. Lesson progress is
// per learner, so cached reads never cross scopes.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

func scopeFrom(ctx context.Context) string {
	if scope, ok := ctx.Value(scopeKey{}).(string); ok && scope != "" {
		return scope
	}
	return anonymousScope
}

// Key builds the cache key of a list query
func Key(entity, scope string, params url.Values) string {
	return "q:" + entity + ":" + scope + ":" + params.Encode()
}

func entityPrefix(entity string) string {
	return "q:" + entity + ":"
}

// fetch returns the cached value for entity+params or loads and stores it.
// Cache errors are logged and fall through to the network.
func fetch[T any](ctx context.Context, q *Queries, entity string, params url.Values, load func(context.Context) (T, error)) (T, error) {
	key := Key(entity, scopeFrom(ctx), params)

	var cached T
	hit, err := q.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.Printf("Query cache read %s failed: %v", key, err)
	case hit:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := q.cache.Set(ctx, key, value, q.ttl); err != nil {
		log.Printf("Query cache write %s failed: %v", key, err)
	}
	return value, nil
}

// mutate runs a write and, only when it succeeds, drops the related lists
func mutate[T any](ctx context.Context, q *Queries, run func(context.Context) (T, error), entities ...string) (T, error) {
	value, err := run(ctx)
	if err != nil {
		return value, err
	}
	q.Invalidate(ctx, entities...)
	return value, nil
}

// Invalidate drops every cached list of the given entities, in all scopes
func (q *Queries) Invalidate(ctx context.Context, entities ...string) {
	for _, entity := range entities {
		if err := q.cache.DeletePrefix(ctx, entityPrefix(entity)); err != nil {
			log.Printf("Query cache invalidation of %s failed: %v", entity, err)
		}
	}
}

// invalidateScope drops cached lists of the given entities for the caller only
func (q *Queries) invalidateScope(ctx context.Context, entities ...string) {
	scope := scopeFrom(ctx)
	for _, entity := range entities {
		if err := q.cache.DeletePrefix(ctx, entityPrefix(entity)+scope+":"); err != nil {
			log.Printf("Query cache invalidation of %s for %s failed: %v", entity, scope, err)
		}
	}
}

// done adapts an error-only call to mutate
func done(run func(context.Context) error) func(context.Context) (struct{}, error) {
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, run(ctx)
	}
}
