package testutil

import (
	"context"

	"github.com/flexprice/taxadmin/internal/cache"
	"github.com/flexprice/taxadmin/internal/config"
	"github.com/flexprice/taxadmin/internal/fallback"
	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/flexprice/taxadmin/internal/metrics"
	"github.com/flexprice/taxadmin/internal/types"
	"github.com/flexprice/taxadmin/internal/validator"
	"github.com/stretchr/testify/suite"
)

// BaseServiceTestSuite provides the shared collaborators every suite above
// the remote client needs: config, logger, a scriptable HTTP client, the
// built-in fallback dataset, a fresh cache store and an isolated metrics
// registry.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	config  *config.Configuration
	logger  *logger.Logger
	http    *MockHTTPClient
	dataset *fallback.Dataset
	store   *cache.InMemoryCache
	metrics *metrics.Metrics
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.config.Remote.BaseURL = "http://tax.test/api/v1"

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.http = NewMockHTTPClient()
	s.dataset = fallback.Default()
	s.store = cache.NewInMemoryCache(s.config)
	s.metrics = metrics.New()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.http.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetHTTPClient returns the scriptable HTTP client
func (s *BaseServiceTestSuite) GetHTTPClient() *MockHTTPClient {
	return s.http
}

// GetDataset returns the fallback dataset
func (s *BaseServiceTestSuite) GetDataset() *fallback.Dataset {
	return s.dataset
}

// GetStore returns the cache backend
func (s *BaseServiceTestSuite) GetStore() *cache.InMemoryCache {
	return s.store
}

// GetMetrics returns the per-test metrics
func (s *BaseServiceTestSuite) GetMetrics() *metrics.Metrics {
	return s.metrics
}
