package statistics

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/TinasheMavura/SmileCheckout/app/repository"
	"github.com/TinasheMavura/SmileCheckout/internal/pkg/cache"
)

const (
	CacheKeyTransactionStats = "statistics:transactions:%s" // format with merchant id
	CacheExpiration          = 5 * time.Minute
)

// GetTransactionStats returns the aggregate transaction overview for a
// merchant, served from the cache when possible. A cold or unreachable cache
// falls through to the ledger; the dashboard never errors on a cache problem.
func GetTransactionStats(repos *repository.Repositories, merchantID string) (*repository.TransactionStats, error) {
	key := fmt.Sprintf(CacheKeyTransactionStats, merchantID)

	if val, err := cache.Get(key); err == nil {
		var stats repository.TransactionStats
		if err := json.Unmarshal([]byte(val), &stats); err == nil {
			return &stats, nil
		}
		// Unreadable cache entry, drop it and recompute.
		_ = cache.Delete(key)
	}

	stats, err := repos.Transaction.GetStats(merchantID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := cache.Set(key, string(encoded), CacheExpiration); err != nil {
			log.Printf("Error caching transaction stats: %v", err)
		}
	}

	return stats, nil
}

// InvalidateTransactionStats drops the cached overview after a ledger write so
// the next dashboard read reflects it.
func InvalidateTransactionStats(merchantID string) {
	key := fmt.Sprintf(CacheKeyTransactionStats, merchantID)
	if err := cache.Delete(key); err != nil {
		log.Printf("Error invalidating transaction stats cache: %v", err)
	}
}
