package fimcp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/fiadvisor"
	"github.com/etnz/fiadvisor/fimcp/fimcptest"
)

// countingFetcher returns a profile per phone and counts the calls.
type countingFetcher struct {
	calls   atomic.Int32
	release chan struct{} // when set, fetches wait for it
	err     error
}

func (f *countingFetcher) FetchProfile(ctx context.Context, phone string) (*fiadvisor.Profile, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	p := fiadvisor.NewProfile()
	for _, t := range fiadvisor.RecordTypes() {
		p.Set(t, fimcptest.Record(t))
	}
	return p, nil
}

func TestCacheHitAndExpiry(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f, time.Minute)
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	for range 3 {
		if _, err := c.FetchProfile(ctx, fimcptest.FullPhone); err != nil {
			t.Fatalf("FetchProfile() unexpected error: %v", err)
		}
	}
	if got := f.calls.Load(); got != 1 {
		t.Errorf("got %d fetches within the ttl, want 1", got)
	}

	now = now.Add(time.Minute)
	if _, err := c.FetchProfile(ctx, fimcptest.FullPhone); err != nil {
		t.Fatal(err)
	}
	if got := f.calls.Load(); got != 2 {
		t.Errorf("got %d fetches after expiry, want 2", got)
	}

	c.Invalidate(fimcptest.FullPhone)
	if _, err := c.FetchProfile(ctx, fimcptest.FullPhone); err != nil {
		t.Fatal(err)
	}
	if got := f.calls.Load(); got != 3 {
		t.Errorf("got %d fetches after invalidation, want 3", got)
	}
}

func TestCacheCollapsesConcurrentMisses(t *testing.T) {
	f := &countingFetcher{release: make(chan struct{})}
	c := NewCache(f, 0)

	const callers = 8
	var wg sync.WaitGroup
	profiles := make([]*fiadvisor.Profile, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := c.FetchProfile(context.Background(), fimcptest.FullPhone)
			if err != nil {
				t.Errorf("FetchProfile() unexpected error: %v", err)
			}
			profiles[i] = p
		}()
	}
	// let the callers pile up on the in-flight fetch.
	for f.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	close(f.release)
	wg.Wait()

	if got := f.calls.Load(); got != 1 {
		t.Errorf("got %d fetches for concurrent misses, want 1", got)
	}
	for i, p := range profiles {
		if p.Len() != 4 {
			t.Errorf("caller %d got %d records, want 4", i, p.Len())
		}
	}
	// each caller owns its copy.
	profiles[0].SetError(fiadvisor.NetWorth, nil)
	if r, _ := profiles[1].Record(fiadvisor.NetWorth); !r.OK() {
		t.Errorf("mutating one caller profile changed another one")
	}
}

func TestCacheCanceledCallerDoesNotFailOthers(t *testing.T) {
	f := &countingFetcher{release: make(chan struct{})}
	c := NewCache(f, 0)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.FetchProfile(first, fimcptest.FullPhone)
		firstErr <- err
	}()
	for f.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	type result struct {
		p   *fiadvisor.Profile
		err error
	}
	second := make(chan result, 1)
	go func() {
		p, err := c.FetchProfile(context.Background(), fimcptest.FullPhone)
		second <- result{p, err}
	}()
	// let the second caller join the in-flight fetch.
	time.Sleep(10 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled FetchProfile() error = %v, want %v", err, context.Canceled)
	}
	close(f.release)

	got := <-second
	if got.err != nil {
		t.Fatalf("FetchProfile() unexpected error: %v", got.err)
	}
	if got.p.Len() != 4 {
		t.Errorf("got %d records, want 4", got.p.Len())
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("got %d fetches, want 1", n)
	}
	// the shared fetch completed, so the profile is cached for later callers.
	if _, err := c.FetchProfile(context.Background(), fimcptest.FullPhone); err != nil {
		t.Fatal(err)
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("got %d fetches after the shared one completed, want 1", n)
	}
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	f := &countingFetcher{err: ErrAuthenticationFailed}
	c := NewCache(f, time.Minute)

	for range 2 {
		p, err := c.FetchProfile(context.Background(), fimcptest.FullPhone)
		if !errors.Is(err, ErrAuthenticationFailed) {
			t.Errorf("FetchProfile() error = %v, want %v", err, ErrAuthenticationFailed)
		}
		if p != nil {
			t.Errorf("FetchProfile() = %v, want nil", p)
		}
	}
	if got := f.calls.Load(); got != 2 {
		t.Errorf("got %d fetches, want 2: failures must not be cached", got)
	}
}

func TestCacheOverClient(t *testing.T) {
	srv := fimcptest.NewServer()
	defer srv.Close()

	c := NewCache(newTestClient(t, srv.URL), time.Minute)
	for range 2 {
		if _, err := c.FetchProfile(context.Background(), fimcptest.NoCreditScorePhone); err != nil {
			t.Fatalf("FetchProfile() unexpected error: %v", err)
		}
	}
	// one handshake only.
	logins := 0
	for _, call := range srv.Calls() {
		if call.Path == "/login" {
			logins++
		}
	}
	if logins != 1 {
		t.Errorf("got %d logins, want 1", logins)
	}
}
