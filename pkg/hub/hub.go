package hub

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/meltano/hub-api/pkg/observability"
	"github.com/meltano/hub-api/pkg/storage"
)

// Defaults applied when Config fields are zero.
const (
	DefaultHubURL       = "https://hub.meltano.com"
	DefaultCacheEntries = 1024
	DefaultCacheTTL     = 5 * time.Minute
)

// Config tunes a Hub.
type Config struct {
	// APIURL is the absolute base URL of this API, used in variant
	// references. Empty produces site-relative references.
	APIURL string
	// HubURL is the base URL of the hub website, used for docs pages
	// and logo assets.
	HubURL string
	// CacheEntries and CacheTTL bound the plugin details cache.
	CacheEntries int
	CacheTTL     time.Duration
	// Metrics receives cache hit and miss counts when set.
	Metrics *observability.Metrics
}

// detailsCacheType labels details cache traffic in metrics.
const detailsCacheType = "details"

// Hub is the read-side facade over the plugin catalog. It assembles the
// documents the API serves and caches assembled plugin details.
type Hub struct {
	store   *storage.Store
	apiURL  string
	hubURL  string
	details *lru.LRU[string, PluginDetails]
	metrics *observability.Metrics
}

// New creates a Hub over the given store.
func New(store *storage.Store, cfg Config) *Hub {
	if cfg.HubURL == "" {
		cfg.HubURL = DefaultHubURL
	}
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = DefaultCacheEntries
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return &Hub{
		store:   store,
		apiURL:  cfg.APIURL,
		hubURL:  cfg.HubURL,
		details: lru.NewLRU[string, PluginDetails](cfg.CacheEntries, nil, cfg.CacheTTL),
		metrics: cfg.Metrics,
	}
}

func (h *Hub) countCacheHit() {
	if h.metrics != nil {
		h.metrics.CacheHitsTotal.WithLabelValues(detailsCacheType).Inc()
	}
}

func (h *Hub) countCacheMiss() {
	if h.metrics != nil {
		h.metrics.CacheMissesTotal.WithLabelValues(detailsCacheType).Inc()
	}
}
