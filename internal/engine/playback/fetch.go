package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

// Searcher is the video search provider.
type Searcher interface {
	Search(ctx context.Context, phrase string) ([]engine.RawResult, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, phrase string) ([]engine.RawResult, error)

func (f SearcherFunc) Search(ctx context.Context, phrase string) ([]engine.RawResult, error) {
	return f(ctx, phrase)
}

// ResultCache stores provider results by exact phrase.
// Eviction policy belongs to the implementation.
type ResultCache interface {
	Get(ctx context.Context, phrase string) ([]engine.RawResult, bool)
	Put(ctx context.Context, phrase string, results []engine.RawResult)
}

// MapCache is an unbounded, process-lifetime ResultCache.
type MapCache struct {
	mu sync.RWMutex
	m  map[string][]engine.RawResult
}

// NewMapCache returns an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{m: make(map[string][]engine.RawResult)}
}

func (c *MapCache) Get(_ context.Context, phrase string) ([]engine.RawResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.m[phrase]
	return r, ok
}

func (c *MapCache) Put(_ context.Context, phrase string, results []engine.RawResult) {
	c.mu.Lock()
	c.m[phrase] = results
	c.mu.Unlock()
}

// Fetcher resolves raw results for a phrase, consulting the cache first.
// Provider failures never escape: they are logged and become an empty result.
type Fetcher struct {
	searcher Searcher
	cache    ResultCache
	group    *singleflight.Group
}

// NewFetcher builds a Fetcher. A nil cache gets a fresh MapCache.
func NewFetcher(searcher Searcher, cache ResultCache) *Fetcher {
	if cache == nil {
		cache = NewMapCache()
	}
	return &Fetcher{searcher: searcher, cache: cache, group: &singleflight.Group{}}
}

// Fetch returns the provider results for phrase. The second value is false
// when the provider failed and the empty result is a degradation.
func (f *Fetcher) Fetch(ctx context.Context, phrase string) ([]engine.RawResult, bool) {
	if results, ok := f.cache.Get(ctx, phrase); ok {
		return results, true
	}

	// Concurrent misses on one phrase share a single provider call.
	v, err, _ := f.group.Do(phrase, func() (any, error) {
		if results, ok := f.cache.Get(ctx, phrase); ok {
			return results, nil
		}
		results, err := f.callProvider(ctx, phrase)
		if err != nil {
			return nil, err
		}
		f.cache.Put(ctx, phrase, results)
		return results, nil
	})
	if err != nil {
		engine.IncrProviderErrors()
		slog.Error("youtube search failed",
			slog.String("phrase", phrase),
			slog.Any("error", err))
		return nil, false
	}
	return v.([]engine.RawResult), true
}

// callProvider invokes the searcher once, turning a panic into an error.
func (f *Fetcher) callProvider(ctx context.Context, phrase string) (results []engine.RawResult, err error) {
	engine.IncrProviderCalls()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	err = engine.TrackOperation(ctx, "youtube_search", func(ctx context.Context) error {
		var serr error
		results, serr = f.searcher.Search(ctx, phrase)
		return serr
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []engine.RawResult{}
	}
	return results, nil
}
