package services

import (
	"time"

	pkgcache "github.com/ghuser/stocktake/pkg/cache"
)

func toCached(s Summary, builtAt time.Time) *pkgcache.CachedSummary {
	out := &pkgcache.CachedSummary{
		Total:      s.Total,
		Categories: make([]pkgcache.CategoryCount, len(s.Categories)),
		BuiltAt:    builtAt,
	}
	for i, c := range s.Categories {
		out.Categories[i] = pkgcache.CategoryCount{Category: c.Category, Count: c.Count}
	}
	return out
}

func fromCached(c *pkgcache.CachedSummary) Summary {
	out := Summary{Total: c.Total, Categories: make([]CategoryCount, len(c.Categories))}
	for i, cc := range c.Categories {
		out.Categories[i] = CategoryCount{Category: cc.Category, Count: cc.Count}
	}
	return out
}
