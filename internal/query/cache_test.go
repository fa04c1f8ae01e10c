package query

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/flexprice/taxadmin/internal/cache"
	"github.com/flexprice/taxadmin/internal/domain/country"
	"github.com/flexprice/taxadmin/internal/domain/tax"
	ierr "github.com/flexprice/taxadmin/internal/errors"
	"github.com/flexprice/taxadmin/internal/metrics"
	"github.com/flexprice/taxadmin/internal/remote"
	"github.com/flexprice/taxadmin/internal/testutil"
	"github.com/flexprice/taxadmin/internal/types"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type QueryCacheSuite struct {
	testutil.BaseServiceTestSuite
	query *Cache
}

func TestQueryCache(t *testing.T) {
	suite.Run(t, new(QueryCacheSuite))
}

func (s *QueryCacheSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.query = s.newQuery()
}

func (s *QueryCacheSuite) newQuery() *Cache {
	client := remote.NewClient(s.GetConfig(), s.GetHTTPClient(), s.GetDataset())
	return NewCache(client, s.GetStore(), s.GetConfig(), s.GetLogger(), s.GetMetrics())
}

func (s *QueryCacheSuite) remoteTaxes(name string) []*tax.Tax {
	return []*tax.Tax{
		{ID: "1", Name: "VAT", Country: "United Kingdom", Rate: decimal.NewFromInt(20), CreatedAt: "2024-01-15T10:00:00Z"},
		{ID: "2", Name: name, Country: "India", Rate: decimal.NewFromInt(18), CreatedAt: "2024-02-20T14:30:00Z"},
	}
}

func (s *QueryCacheSuite) taxFetches() int {
	return s.GetHTTPClient().CountRequests(http.MethodGet, "/taxes")
}

func (s *QueryCacheSuite) TestGetTaxesCachesResult() {
	s.GetHTTPClient().RegisterJSONResponse(http.MethodGet, "/taxes", s.remoteTaxes("GST"))
	s.Equal(StateEmpty, s.query.State(KeyTaxes))

	first, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	second, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(1, s.taxFetches())
	s.Equal(StateFresh, s.query.State(KeyTaxes))
}

func (s *QueryCacheSuite) TestGetTaxesNeverFailsWhenRemoteIsDown() {
	s.GetHTTPClient().SetDown(true)

	taxes, err := s.query.GetTaxes(s.GetContext())

	s.Require().NoError(err)
	s.NotEmpty(taxes)
	s.Equal(s.GetDataset().Taxes(), taxes)
	s.Equal(StateFresh, s.query.State(KeyTaxes))
	s.Equal(float64(1), promtest.ToFloat64(s.GetMetrics().RemoteCalls.WithLabelValues(metrics.OpFetchTaxes, "fallback")))
}

func (s *QueryCacheSuite) TestGetCountriesNeverFails() {
	s.GetHTTPClient().SetDown(true)

	countries, err := s.query.GetCountries(s.GetContext())
	s.Require().NoError(err)
	s.Len(countries, 10)
}

func (s *QueryCacheSuite) TestReturnedListsDoNotAliasCache() {
	s.GetHTTPClient().RegisterJSONResponse(http.MethodGet, "/taxes", s.remoteTaxes("GST"))

	taxes, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	taxes[1].Name = "mutated"

	again, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	s.Equal("GST", again[1].Name)
}

func (s *QueryCacheSuite) TestSuccessfulUpdateInvalidatesOnce() {
	h := s.GetHTTPClient()
	h.RegisterJSONResponse(http.MethodGet, "/taxes", s.remoteTaxes("GST"))
	h.RegisterJSONResponse(http.MethodPut, "/taxes/2", s.remoteTaxes("GST Revised")[1])

	_, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)

	updated, err := s.query.UpdateTax(s.GetContext(), "2", tax.UpdatePayload{Name: lo.ToPtr("GST Revised")})
	s.Require().NoError(err)
	s.Equal("GST Revised", updated.Name)
	s.Equal(StateStale, s.query.State(KeyTaxes))

	// upstream now reflects the write
	h.RegisterJSONResponse(http.MethodGet, "/taxes", s.remoteTaxes("GST Revised"))

	taxes, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	s.Equal("GST Revised", taxes[1].Name)

	_, err = s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)

	s.Equal(2, s.taxFetches(), "exactly one re-fetch after the update")
	s.Equal(StateFresh, s.query.State(KeyTaxes))
	s.Equal(float64(1), promtest.ToFloat64(s.GetMetrics().Invalidations.WithLabelValues(KeyTaxes)))
}

func (s *QueryCacheSuite) TestFallbackUpdateStillInvalidates() {
	h := s.GetHTTPClient()
	h.SetDown(true)

	_, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)

	updated, err := s.query.UpdateTax(s.GetContext(), "2", tax.UpdatePayload{Name: lo.ToPtr("GST Revised")})
	s.Require().NoError(err)
	s.Equal(&tax.Tax{ID: "2", Name: "GST Revised", Country: "India", Rate: decimal.NewFromInt(18), CreatedAt: "2024-02-20T14:30:00Z"}, updated)
	s.Equal(StateStale, s.query.State(KeyTaxes))

	_, err = s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	s.Equal(2, s.taxFetches())
}

func (s *QueryCacheSuite) TestFailedUpdateLeavesCacheUntouched() {
	h := s.GetHTTPClient()
	h.RegisterJSONResponse(http.MethodGet, "/taxes", s.remoteTaxes("GST"))

	before, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)

	h.SetDown(true)
	_, err = s.query.UpdateTax(s.GetContext(), "999", tax.UpdatePayload{Name: lo.ToPtr("X")})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
	s.Equal(StateFresh, s.query.State(KeyTaxes))

	after, err := s.query.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	s.Equal(before, after)
	s.Equal(1, s.taxFetches())
	s.Equal(float64(0), promtest.ToFloat64(s.GetMetrics().Invalidations.WithLabelValues(KeyTaxes)))
}

func (s *QueryCacheSuite) TestUpdateDoesNotInvalidateCountries() {
	h := s.GetHTTPClient()
	h.SetDown(true)

	_, err := s.query.GetCountries(s.GetContext())
	s.Require().NoError(err)
	_, err = s.query.UpdateTax(s.GetContext(), "1", tax.NewUpdatePayload("VAT", "France"))
	s.Require().NoError(err)

	s.Equal(StateFresh, s.query.State(KeyCountries))
}

func (s *QueryCacheSuite) TestRepeatedUpdateIsIdempotent() {
	s.GetHTTPClient().SetDown(true)
	p := tax.NewUpdatePayload("GST Revised", "Japan")

	first, err := s.query.UpdateTax(s.GetContext(), "2", p)
	s.Require().NoError(err)
	second, err := s.query.UpdateTax(s.GetContext(), "2", p)
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *QueryCacheSuite) TestInvalidateEmptyStaysEmpty() {
	s.query.Invalidate(s.GetContext(), KeyTaxes)
	s.Equal(StateEmpty, s.query.State(KeyTaxes))
}

func (s *QueryCacheSuite) TestTTLExpiryMakesEntryStale() {
	ttl := s.GetConfig().Cache.TTL
	s.GetConfig().Cache.TTL = 20 * time.Millisecond
	defer func() { s.GetConfig().Cache.TTL = ttl }()
	q := s.newQuery()
	s.GetHTTPClient().RegisterJSONResponse(http.MethodGet, "/taxes", s.remoteTaxes("GST"))

	_, err := q.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	time.Sleep(50 * time.Millisecond)

	_, err = q.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	s.Equal(2, s.taxFetches())
}

func (s *QueryCacheSuite) TestDisabledStoreFetchesEveryTime() {
	cfg := *s.GetConfig()
	cfg.Cache.Enabled = false
	client := remote.NewClient(&cfg, s.GetHTTPClient(), s.GetDataset())
	q := NewCache(client, cache.NewInMemoryCache(&cfg), &cfg, s.GetLogger(), s.GetMetrics())
	s.GetHTTPClient().SetDown(true)

	for i := 0; i < 3; i++ {
		taxes, err := q.GetTaxes(s.GetContext())
		s.Require().NoError(err)
		s.NotEmpty(taxes)
	}
	s.Equal(3, s.taxFetches())
}

// blockingRemote lets a test hold a fetch in flight
type blockingRemote struct {
	remote.Client
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (b *blockingRemote) FetchTaxes(ctx context.Context) remote.TaxListResult {
	b.mu.Lock()
	b.calls++
	name := "VAT"
	if b.calls > 1 {
		name = fmt.Sprintf("VAT v%d", b.calls)
	}
	b.mu.Unlock()
	b.started <- struct{}{}
	<-b.release
	return remote.TaxListResult{
		Taxes:   []*tax.Tax{{ID: "1", Name: name}},
		Outcome: types.OutcomeSuccess,
	}
}

func (s *QueryCacheSuite) newBlockingQuery() (*Cache, *blockingRemote) {
	b := &blockingRemote{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
	return NewCache(b, s.GetStore(), s.GetConfig(), s.GetLogger(), s.GetMetrics()), b
}

func (s *QueryCacheSuite) TestConcurrentReadsShareOneFetch() {
	q, b := s.newBlockingQuery()

	var wg sync.WaitGroup
	results := make([][]*tax.Tax, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = q.GetTaxes(s.GetContext())
		}(i)
	}

	<-b.started
	s.Equal(StateLoading, q.State(KeyTaxes))
	// give the other readers time to join the flight
	time.Sleep(20 * time.Millisecond)
	close(b.release)
	wg.Wait()

	s.Equal(1, b.calls)
	for _, r := range results {
		s.Equal([]*tax.Tax{{ID: "1", Name: "VAT"}}, r)
	}
}

func (s *QueryCacheSuite) TestInvalidateDuringLoadDiscardsResult() {
	q, b := s.newBlockingQuery()

	done := make(chan []*tax.Tax)
	go func() {
		taxes, _ := q.GetTaxes(s.GetContext())
		done <- taxes
	}()

	<-b.started
	q.Invalidate(s.GetContext(), KeyTaxes)
	close(b.release)

	s.Len(<-done, 1, "the caller still gets its answer")
	s.Equal(StateStale, q.State(KeyTaxes))
	_, found := s.GetStore().Get(s.GetContext(), KeyTaxes)
	s.False(found)
}

func (s *QueryCacheSuite) TestReadAfterInvalidateDoesNotJoinStaleFetch() {
	q, b := s.newBlockingQuery()

	first := make(chan []*tax.Tax)
	go func() {
		taxes, _ := q.GetTaxes(s.GetContext())
		first <- taxes
	}()
	<-b.started

	q.Invalidate(s.GetContext(), KeyTaxes)

	second := make(chan []*tax.Tax)
	go func() {
		taxes, _ := q.GetTaxes(s.GetContext())
		second <- taxes
	}()
	// the second reader must start its own fetch while the first is still held
	<-b.started
	close(b.release)

	s.Equal("VAT", (<-first)[0].Name)
	s.Equal("VAT v2", (<-second)[0].Name)

	b.mu.Lock()
	s.Equal(2, b.calls)
	b.mu.Unlock()

	s.Equal(StateFresh, q.State(KeyTaxes))
	cached, err := q.GetTaxes(s.GetContext())
	s.Require().NoError(err)
	s.Equal("VAT v2", cached[0].Name)
}

func (s *QueryCacheSuite) TestCanceledCallerDoesNotDegradeSharedFetch() {
	s.GetHTTPClient().RegisterJSONResponse(http.MethodGet, "/taxes", s.remoteTaxes("GST"))
	ctx, cancel := context.WithCancel(s.GetContext())
	cancel()

	taxes, err := s.query.GetTaxes(ctx)
	s.Require().NoError(err)
	s.Equal("GST", taxes[1].Name)
	s.Equal(float64(1), promtest.ToFloat64(s.GetMetrics().RemoteCalls.WithLabelValues(metrics.OpFetchTaxes, "success")))
}

func (s *QueryCacheSuite) TestCountriesFromRemote() {
	remoteCountries := []*country.Country{{ID: "1", Name: "Portugal", Code: "PT"}}
	s.GetHTTPClient().RegisterJSONResponse(http.MethodGet, "/countries", remoteCountries)

	countries, err := s.query.GetCountries(s.GetContext())
	s.Require().NoError(err)
	s.Equal(remoteCountries, countries)
}
