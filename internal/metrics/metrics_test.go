package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

type stubTokenCache struct{ err error }

func (s stubTokenCache) GetToken(context.Context, string) (domain.Token, error) {
	return domain.Token{Symbol: "SOL"}, s.err
}
func (s stubTokenCache) SetToken(context.Context, domain.Token) error { return nil }

type stubPriceCache struct{ got map[string]domain.Price }

func (s stubPriceCache) GetPrice(context.Context, domain.PricePair) (domain.Price, error) {
	return domain.Price{}, domain.ErrNotFound
}
func (s stubPriceCache) GetPrices(context.Context, []domain.PricePair) (map[string]domain.Price, error) {
	return s.got, nil
}
func (s stubPriceCache) SetPrice(context.Context, domain.Price) error { return nil }

func TestInstrumentTokenCache(t *testing.T) {
	m := New()
	ctx := context.Background()

	_, _ = InstrumentTokenCache(stubTokenCache{}, m).GetToken(ctx, "a")
	_, _ = InstrumentTokenCache(stubTokenCache{err: domain.ErrNotFound}, m).GetToken(ctx, "a")
	_, _ = InstrumentTokenCache(stubTokenCache{err: errors.New("down")}, m).GetToken(ctx, "a")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("token", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("token", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("token", "error")))
}

func TestInstrumentPriceCacheBatch(t *testing.T) {
	m := New()
	c := InstrumentPriceCache(stubPriceCache{got: map[string]domain.Price{"a:b": {}}}, m)

	_, err := c.GetPrices(context.Background(), []domain.PricePair{{InputToken: "a", OutputToken: "b"}, {InputToken: "c", OutputToken: "d"}, {InputToken: "e", OutputToken: "f"}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("price", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("price", "miss")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveUpstream(http.MethodGet, 200)
	m.ObserveUpstream(http.MethodGet, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `jupmcp_upstream_requests_total{method="GET",status="200"} 1`))
	assert.True(t, strings.Contains(body, `jupmcp_upstream_requests_total{method="GET",status="error"} 1`))
}
