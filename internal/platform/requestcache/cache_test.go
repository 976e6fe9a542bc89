package requestcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryRequest struct {
	ID              string         `json:"id"`
	Values          []int          `json:"values"`
	Location        string         `json:"location"`
	DeliveryEnabled bool           `json:"deliveryEnabled"`
	Distance        float64        `json:"distance"`
	Inventory       map[string]int `json:"inventory"`
}

type inventoryResponse struct {
	ID        string
	Cost      float64
	Delivered bool
	Status    string
}

var (
	fakeRequest = inventoryRequest{
		ID:              "xHD87228BCE8",
		Values:          []int{3, 5, 8, 2, 7, 8},
		Location:        "123 Place St",
		DeliveryEnabled: true,
		Distance:        105.5,
		Inventory:       map[string]int{"D": 35, "A": 10, "C": 5, "B": 20},
	}

	// Same payload, built as a generic map in a different key order.
	sortedRequest = map[string]any{
		"deliveryEnabled": true,
		"distance":        105.5,
		"id":              "xHD87228BCE8",
		"inventory":       map[string]any{"A": 10, "B": 20, "C": 5, "D": 35},
		"location":        "123 Place St",
		"values":          []any{3, 5, 8, 2, 7, 8},
	}

	fakeResponse  = inventoryResponse{ID: "xHD87228BCE8", Cost: 110.75, Delivered: true, Status: "OK"}
	fakeResponse2 = inventoryResponse{ID: "xHD87228BCE8", Cost: 110.75, Delivered: false, Status: "UNKNOWN"}
)

func neverRetry(error) bool  { return false }
func alwaysRetry(error) bool { return true }

func TestCacheMissReturnsAbsent(t *testing.T) {
	c := New[inventoryResponse]("test", 10, neverRetry)

	f, ok := c.Get(fakeRequest)
	assert.False(t, ok)
	assert.Nil(t, f)
}

func TestCacheReturnsExistingResult(t *testing.T) {
	c := New[inventoryResponse]("test", 10, neverRetry)
	require.NoError(t, c.Set(fakeRequest, Resolved(fakeResponse)))

	f, ok := c.Get(fakeRequest)
	require.True(t, ok)

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeResponse, got)
}

func TestCacheSetReplacesExistingResult(t *testing.T) {
	c := New[inventoryResponse]("test", 10, neverRetry)
	require.NoError(t, c.Set(fakeRequest, Resolved(fakeResponse)))
	require.NoError(t, c.Set(fakeRequest, Resolved(fakeResponse2)))

	f, ok := c.Get(fakeRequest)
	require.True(t, ok)

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeResponse2, got)
}

func TestCacheDropsRetryableFailure(t *testing.T) {
	c := New[inventoryResponse]("test", 10, alwaysRetry)
	require.NoError(t, c.Set(fakeRequest, Rejected[inventoryResponse](errors.New("boom"))))

	assert.Eventually(t, func() bool {
		_, ok := c.Get(fakeRequest)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestCacheKeepsPermanentFailure(t *testing.T) {
	failure := errors.New("invalid request")
	c := New[inventoryResponse]("test", 10, neverRetry)
	require.NoError(t, c.Set(fakeRequest, Rejected[inventoryResponse](failure)))

	// Give the completion observer a chance to run.
	time.Sleep(20 * time.Millisecond)

	f, ok := c.Get(fakeRequest)
	require.True(t, ok)
	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, failure)
}

func TestCacheRetryableFailureDoesNotDropNewerEntry(t *testing.T) {
	c := New[inventoryResponse]("test", 10, alwaysRetry)

	failing := NewFuture[inventoryResponse]()
	require.NoError(t, c.Set(fakeRequest, failing))
	require.NoError(t, c.Set(fakeRequest, Resolved(fakeResponse)))

	failing.Complete(inventoryResponse{}, errors.New("transient"))
	time.Sleep(20 * time.Millisecond)

	f, ok := c.Get(fakeRequest)
	require.True(t, ok)
	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeResponse, got)
}

func TestCacheIgnoresPropertyOrder(t *testing.T) {
	c := New[inventoryResponse]("test", 10, neverRetry)
	require.NoError(t, c.Set(fakeRequest, Resolved(fakeResponse)))

	f, ok := c.Get(sortedRequest)
	require.True(t, ok)

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeResponse, got)
}

func TestCacheArrayOrderMatters(t *testing.T) {
	c := New[inventoryResponse]("test", 10, neverRetry)
	require.NoError(t, c.Set(fakeRequest, Resolved(fakeResponse)))

	reordered := fakeRequest
	reordered.Values = []int{8, 7, 2, 8, 5, 3}

	_, ok := c.Get(reordered)
	assert.False(t, ok)
}

func TestCacheDoSharesSingleCall(t *testing.T) {
	c := New[inventoryResponse]("test", 10, neverRetry)

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (inventoryResponse, error) {
		calls.Add(1)
		<-release
		return fakeResponse, nil
	}

	var wg sync.WaitGroup
	results := make([]inventoryResponse, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := c.Do(context.Background(), fakeRequest, fn)
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}

	// Let every caller queue on the same future before it settles.
	assert.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, fakeResponse, r)
	}
}

func TestCacheDoRetriesAfterRetryableFailure(t *testing.T) {
	transient := errors.New("over query limit")
	c := New[inventoryResponse]("test", 10, func(err error) bool { return errors.Is(err, transient) })

	var calls atomic.Int32
	fn := func(ctx context.Context) (inventoryResponse, error) {
		if calls.Add(1) == 1 {
			return inventoryResponse{}, transient
		}
		return fakeResponse, nil
	}

	_, err := c.Do(context.Background(), fakeRequest, fn)
	require.ErrorIs(t, err, transient)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, time.Millisecond)

	got, err := c.Do(context.Background(), fakeRequest, fn)
	require.NoError(t, err)
	assert.Equal(t, fakeResponse, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCacheDoCallerCancellationKeepsRequestRunning(t *testing.T) {
	c := New[inventoryResponse]("test", 10, neverRetry)

	release := make(chan struct{})
	fn := func(ctx context.Context) (inventoryResponse, error) {
		<-release
		return fakeResponse, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Do(ctx, fakeRequest, fn)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	got, err := c.Do(context.Background(), fakeRequest, fn)
	require.NoError(t, err)
	assert.Equal(t, fakeResponse, got)
}

func TestCacheReset(t *testing.T) {
	c := New[inventoryResponse]("test", 10, neverRetry)
	require.NoError(t, c.Set(fakeRequest, Resolved(fakeResponse)))

	c.Reset()

	_, ok := c.Get(fakeRequest)
	assert.False(t, ok)
}

func TestFingerprintRejectsUnencodable(t *testing.T) {
	_, err := Fingerprint(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)

	c := New[inventoryResponse]("test", 10, neverRetry)
	_, ok := c.Get(map[string]any{"ch": make(chan int)})
	assert.False(t, ok)
}
