package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillmap-backend/domain/config"
	pkgerrors "skillmap-backend/pkg/errors"
	"skillmap-backend/pkg/observability"
)

// stubFetcher maps URLs to canned outcomes and records call behavior so the
// tests can assert on ordering and concurrency.
type stubFetcher struct {
	mu       sync.Mutex
	results  map[string]string
	failures map[string]error
	calls    []string
	inFlight int
	maxSeen  int
	barrier  chan struct{}
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		results:  make(map[string]string),
		failures: make(map[string]error),
	}
}

func (f *stubFetcher) FetchPage(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	if f.barrier != nil {
		<-f.barrier
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err, ok := f.failures[url]; ok {
		return "", err
	}
	return f.results[url], nil
}

func (f *stubFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

func newTestFetchService(f *stubFetcher) *FetchService {
	return NewFetchService(
		f,
		config.DefaultDomainConfig(),
		observability.NewCollector("skillmap_test"),
		zap.NewNop(),
	)
}

func longContent(tag string) string {
	return tag + ": " + strings.Repeat("x", 120)
}

func TestFetchAllSequentialPreservesInputOrder(t *testing.T) {
	fetcher := newStubFetcher()
	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	for _, u := range urls {
		fetcher.results[u] = longContent(u)
	}
	svc := newTestFetchService(fetcher)

	docs, err := svc.FetchAll(context.Background(), urls, 1)

	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, u := range urls {
		assert.Equal(t, u, docs[i].URL)
	}
	assert.Equal(t, urls, fetcher.calls)
}

func TestFetchAllSkipsGenericFailures(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.results["https://ok.example"] = longContent("ok")
	fetcher.failures["https://down.example"] = errors.New("connection refused")
	svc := newTestFetchService(fetcher)

	docs, err := svc.FetchAll(context.Background(), []string{"https://down.example", "https://ok.example"}, 1)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "https://ok.example", docs[0].URL)
}

func TestFetchAllDropsShortDocuments(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.results["https://thin.example"] = strings.Repeat("x", 99)
	fetcher.results["https://exact.example"] = strings.Repeat("x", 100)
	svc := newTestFetchService(fetcher)

	docs, err := svc.FetchAll(context.Background(), []string{"https://thin.example", "https://exact.example"}, 1)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "https://exact.example", docs[0].URL)
	assert.Len(t, docs[0].Content, 100)
}

func TestFetchAllSequentialPlanLimitAbortsImmediately(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.results["https://first.example"] = longContent("first")
	fetcher.failures["https://limited.example"] = errors.New("429: too many concurrent sessions, upgrade your plan")
	fetcher.results["https://never.example"] = longContent("never")
	svc := newTestFetchService(fetcher)

	docs, err := svc.FetchAll(context.Background(),
		[]string{"https://first.example", "https://limited.example", "https://never.example"}, 1)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsPlanLimit(err))
	assert.Nil(t, docs)
	assert.Zero(t, fetcher.callCount("https://never.example"))
}

func TestFetchAllConcurrentRespectsLimit(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.barrier = make(chan struct{})
	urls := make([]string, 10)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site%d.example", i)
		fetcher.results[urls[i]] = longContent(urls[i])
	}
	svc := newTestFetchService(fetcher)

	done := make(chan struct{})
	var got int
	var fetchErr error
	go func() {
		defer close(done)
		d, err := svc.FetchAll(context.Background(), urls, 3)
		got = len(d)
		fetchErr = err
	}()

	// Release all fetches; the in-flight high-water mark must never exceed
	// the limit.
	close(fetcher.barrier)
	<-done

	require.NoError(t, fetchErr)
	assert.Equal(t, 10, got)
	fetcher.mu.Lock()
	maxSeen := fetcher.maxSeen
	fetcher.mu.Unlock()
	assert.LessOrEqual(t, maxSeen, 3)
}

func TestFetchAllConcurrentAttemptsEachURLAtMostOnce(t *testing.T) {
	fetcher := newStubFetcher()
	urls := make([]string, 20)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site%d.example", i)
		fetcher.results[urls[i]] = longContent(urls[i])
	}
	svc := newTestFetchService(fetcher)

	docs, err := svc.FetchAll(context.Background(), urls, 4)

	require.NoError(t, err)
	assert.Len(t, docs, 20)
	for _, u := range urls {
		assert.Equal(t, 1, fetcher.callCount(u), "url %s fetched more than once", u)
	}
}

func TestFetchAllConcurrentPlanLimitDiscardsPartialResults(t *testing.T) {
	fetcher := newStubFetcher()
	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site%d.example", i)
		fetcher.results[urls[i]] = longContent(urls[i])
	}
	fetcher.failures[urls[0]] = errors.New("concurrency limit exceeded for current plan")
	svc := newTestFetchService(fetcher)

	docs, err := svc.FetchAll(context.Background(), urls, 2)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsPlanLimit(err))
	assert.Nil(t, docs)
}

func TestFetchAllEmptyInput(t *testing.T) {
	svc := newTestFetchService(newStubFetcher())

	docs, err := svc.FetchAll(context.Background(), nil, 4)

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFetchAllAllFailuresYieldEmptySet(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failures["https://a.example"] = errors.New("timeout")
	fetcher.failures["https://b.example"] = errors.New("404 not found")
	svc := newTestFetchService(fetcher)

	docs, err := svc.FetchAll(context.Background(), []string{"https://a.example", "https://b.example"}, 1)

	require.NoError(t, err)
	assert.Empty(t, docs)
}
