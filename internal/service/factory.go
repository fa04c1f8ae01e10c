package service

import (
	"github.com/flexprice/taxadmin/internal/config"
	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/flexprice/taxadmin/internal/query"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Query  Queries
}

// NewServiceParams creates a new instance of ServiceParams
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	queries *query.Cache,
) ServiceParams {
	return ServiceParams{
		Logger: logger,
		Config: config,
		Query:  queries,
	}
}
