package memory

import (
	"fmt"
	"time"

	"activity-tracker-be/internal/classifier"

	"github.com/patrickmn/go-cache"
)

// CategorizationCache memoizes engine verdicts per (app, title) key. It is
// flushed whenever the catalog mutates, so cached results never outlive the
// rules that produced them.
type CategorizationCache struct {
	cache *cache.Cache
}

func NewCategorizationCache() *CategorizationCache {
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &CategorizationCache{cache: c}
}

func key(appName, windowTitle string) string {
	return fmt.Sprintf("%s|%s", appName, windowTitle)
}

func (r *CategorizationCache) Get(appName, windowTitle string) (classifier.Categorization, bool) {
	if x, found := r.cache.Get(key(appName, windowTitle)); found {
		return x.(classifier.Categorization), true
	}
	return classifier.Categorization{}, false
}

func (r *CategorizationCache) Set(appName, windowTitle string, result classifier.Categorization) {
	r.cache.Set(key(appName, windowTitle), result, cache.DefaultExpiration)
}

func (r *CategorizationCache) Flush() {
	r.cache.Flush()
}
