package cache

import (
	"github.com/flexprice/taxadmin/internal/config"
	"github.com/flexprice/taxadmin/internal/logger"
)

// Initialize builds the process-wide query cache backend
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache",
		"enabled", cfg.Cache.Enabled,
		"ttl", cfg.Cache.TTL.String(),
	)
	return NewInMemoryCache(cfg)
}
