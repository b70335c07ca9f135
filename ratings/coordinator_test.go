package ratings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/recarr/api"
)

// fakeAPI lets tests control when and how each rating submission resolves
type fakeAPI struct {
	mu      sync.Mutex
	rateFn  func(r api.Rating) error
	fetchFn func(userID string) ([]api.Rating, error)
	calls   []api.Rating
}

func (f *fakeAPI) RateItem(ctx context.Context, r api.Rating) error {
	f.mu.Lock()
	f.calls = append(f.calls, r)
	fn := f.rateFn
	f.mu.Unlock()
	if fn != nil {
		return fn(r)
	}
	return nil
}

func (f *fakeAPI) GetUserRatings(ctx context.Context, userID string) ([]api.Rating, error) {
	if f.fetchFn != nil {
		return f.fetchFn(userID)
	}
	return nil, nil
}

func (f *fakeAPI) submitted() []api.Rating {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Rating, len(f.calls))
	copy(out, f.calls)
	return out
}

// captureNotifier records every signal the coordinator emits
type captureNotifier struct {
	mu      sync.Mutex
	notices []NoticeKind
	msgs    []string
}

func (n *captureNotifier) Notify(kind NoticeKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, kind)
	n.msgs = append(n.msgs, message)
}

func (n *captureNotifier) kinds() []NoticeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]NoticeKind, len(n.notices))
	copy(out, n.notices)
	return out
}

func newTestCoordinator(t *testing.T, fake *fakeAPI, notifier Notifier) *Coordinator {
	t.Helper()
	coord, err := NewCoordinator(fake, "alice", notifier, zerolog.Nop())
	require.NoError(t, err)
	return coord
}

func TestNewCoordinator(t *testing.T) {
	_, err := NewCoordinator(nil, "alice", nil, zerolog.Nop())
	require.Error(t, err)

	_, err = NewCoordinator(&fakeAPI{}, "", nil, zerolog.Nop())
	require.Error(t, err)
}

func TestRateValidation(t *testing.T) {
	coord := newTestCoordinator(t, &fakeAPI{}, nil)
	ctx := context.Background()

	require.Error(t, coord.Rate(ctx, 1, "album", 1))
	require.Error(t, coord.Rate(ctx, 1, api.MediaTypeMovie, 5))
}

func TestOptimisticApplyIsImmediate(t *testing.T) {
	block := make(chan struct{})
	fake := &fakeAPI{rateFn: func(api.Rating) error {
		<-block
		return nil
	}}
	coord := newTestCoordinator(t, fake, nil)

	require.NoError(t, coord.Rate(context.Background(), 42, api.MediaTypeMovie, api.RatingUp))
	assert.Equal(t, api.RatingUp, coord.Value(42, api.MediaTypeMovie),
		"snapshot must reflect the change before the request resolves")
	assert.Equal(t, api.RatingNone, coord.Confirmed(42, api.MediaTypeMovie))

	close(block)
	coord.Wait()
	assert.Equal(t, api.RatingUp, coord.Confirmed(42, api.MediaTypeMovie))
}

func TestToggleOff(t *testing.T) {
	fake := &fakeAPI{}
	coord := newTestCoordinator(t, fake, nil)
	ctx := context.Background()

	require.NoError(t, coord.Rate(ctx, 42, api.MediaTypeMovie, api.RatingUp))
	coord.Wait()
	assert.Equal(t, api.RatingUp, coord.Value(42, api.MediaTypeMovie))

	// Submitting the active value again clears it.
	require.NoError(t, coord.Rate(ctx, 42, api.MediaTypeMovie, api.RatingUp))
	coord.Wait()
	assert.Equal(t, api.RatingNone, coord.Value(42, api.MediaTypeMovie))
	assert.Equal(t, api.RatingNone, coord.Confirmed(42, api.MediaTypeMovie))

	calls := fake.submitted()
	require.Len(t, calls, 2)
	assert.Equal(t, api.RatingUp, calls[0].Rating)
	assert.Equal(t, api.RatingNone, calls[1].Rating)
}

func TestToggleReplacesDifferentValue(t *testing.T) {
	fake := &fakeAPI{}
	coord := newTestCoordinator(t, fake, nil)
	ctx := context.Background()

	require.NoError(t, coord.Rate(ctx, 42, api.MediaTypeShow, api.RatingUp))
	coord.Wait()
	require.NoError(t, coord.Rate(ctx, 42, api.MediaTypeShow, api.RatingDown))
	coord.Wait()

	assert.Equal(t, api.RatingDown, coord.Value(42, api.MediaTypeShow))
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var callNo int
	var mu sync.Mutex

	fake := &fakeAPI{}
	fake.rateFn = func(api.Rating) error {
		mu.Lock()
		callNo++
		first := callNo == 1
		mu.Unlock()
		if first {
			close(firstStarted)
			<-releaseFirst
		}
		return nil
	}

	notifier := &captureNotifier{}
	coord := newTestCoordinator(t, fake, notifier)
	ctx := context.Background()

	// First mutation: thumbs-up, held in flight.
	require.NoError(t, coord.Rate(ctx, 7, api.MediaTypeMovie, api.RatingUp))
	<-firstStarted

	// Second mutation before the first resolves: thumbs-down.
	require.NoError(t, coord.Rate(ctx, 7, api.MediaTypeMovie, api.RatingDown))
	assert.Eventually(t, func() bool {
		return coord.Confirmed(7, api.MediaTypeMovie) == api.RatingDown
	}, 2*time.Second, 5*time.Millisecond)

	// Now the slow first response arrives. It must be discarded.
	close(releaseFirst)
	coord.Wait()

	assert.Equal(t, api.RatingDown, coord.Value(7, api.MediaTypeMovie))
	assert.Equal(t, api.RatingDown, coord.Confirmed(7, api.MediaTypeMovie))

	// Only the second mutation produced a signal; the stale one was silent.
	assert.Equal(t, []NoticeKind{NoticeSaved}, notifier.kinds())
}

func TestStaleFailureDoesNotRollBack(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var callNo int
	var mu sync.Mutex

	fake := &fakeAPI{}
	fake.rateFn = func(api.Rating) error {
		mu.Lock()
		callNo++
		first := callNo == 1
		mu.Unlock()
		if first {
			close(firstStarted)
			<-releaseFirst
			return &api.APIError{Kind: api.KindTimeout, Message: "request timed out", Retryable: true}
		}
		return nil
	}

	notifier := &captureNotifier{}
	coord := newTestCoordinator(t, fake, notifier)
	ctx := context.Background()

	require.NoError(t, coord.Rate(ctx, 7, api.MediaTypeMovie, api.RatingUp))
	<-firstStarted
	require.NoError(t, coord.Rate(ctx, 7, api.MediaTypeMovie, api.RatingDown))
	assert.Eventually(t, func() bool {
		return coord.Confirmed(7, api.MediaTypeMovie) == api.RatingDown
	}, 2*time.Second, 5*time.Millisecond)

	// A stale failure must not roll back the newer value either.
	close(releaseFirst)
	coord.Wait()

	assert.Equal(t, api.RatingDown, coord.Value(7, api.MediaTypeMovie))
	assert.Equal(t, []NoticeKind{NoticeSaved}, notifier.kinds())
}

func TestFailureRollsBackAndNotifies(t *testing.T) {
	fake := &fakeAPI{rateFn: func(api.Rating) error {
		return &api.APIError{Kind: api.KindServerError, StatusCode: 500, Message: "database unavailable", Retryable: true}
	}}
	notifier := &captureNotifier{}
	coord := newTestCoordinator(t, fake, notifier)

	require.NoError(t, coord.Rate(context.Background(), 9, api.MediaTypeMovie, api.RatingUp))
	coord.Wait()

	assert.Equal(t, api.RatingNone, coord.Value(9, api.MediaTypeMovie),
		"failed mutation must roll back to the confirmed value")
	require.Equal(t, []NoticeKind{NoticeRolledBack}, notifier.kinds())
	assert.Equal(t, "database unavailable", notifier.msgs[0])
}

func TestRollbackRestoresConfirmedValue(t *testing.T) {
	fail := false
	fake := &fakeAPI{rateFn: func(api.Rating) error {
		if fail {
			return &api.APIError{Kind: api.KindNetwork, Message: "connection reset", Retryable: true}
		}
		return nil
	}}
	coord := newTestCoordinator(t, fake, nil)
	ctx := context.Background()

	require.NoError(t, coord.Rate(ctx, 5, api.MediaTypeMovie, api.RatingDown))
	coord.Wait()
	require.Equal(t, api.RatingDown, coord.Confirmed(5, api.MediaTypeMovie))

	fail = true
	require.NoError(t, coord.Rate(ctx, 5, api.MediaTypeMovie, api.RatingUp))
	coord.Wait()

	assert.Equal(t, api.RatingDown, coord.Value(5, api.MediaTypeMovie),
		"rollback must restore the last confirmed value, not zero")
}

func TestRefresh(t *testing.T) {
	fake := &fakeAPI{fetchFn: func(userID string) ([]api.Rating, error) {
		return []api.Rating{
			{UserID: userID, TraktID: 1, MediaType: api.MediaTypeMovie, Rating: api.RatingUp},
			{UserID: userID, TraktID: 2, MediaType: api.MediaTypeShow, Rating: api.RatingDown},
		}, nil
	}}
	coord := newTestCoordinator(t, fake, nil)

	require.NoError(t, coord.Refresh(context.Background()))
	assert.Equal(t, api.RatingUp, coord.Value(1, api.MediaTypeMovie))
	assert.Equal(t, api.RatingDown, coord.Value(2, api.MediaTypeShow))

	all := coord.All()
	assert.Len(t, all, 2)
}

func TestRefreshKeepsInFlightOptimisticValue(t *testing.T) {
	block := make(chan struct{})
	fake := &fakeAPI{
		rateFn: func(api.Rating) error {
			<-block
			return nil
		},
		fetchFn: func(userID string) ([]api.Rating, error) {
			return []api.Rating{{UserID: userID, TraktID: 3, MediaType: api.MediaTypeMovie, Rating: api.RatingDown}}, nil
		},
	}
	coord := newTestCoordinator(t, fake, nil)
	ctx := context.Background()

	require.NoError(t, coord.Rate(ctx, 3, api.MediaTypeMovie, api.RatingUp))
	require.NoError(t, coord.Refresh(ctx))

	assert.Equal(t, api.RatingUp, coord.Value(3, api.MediaTypeMovie),
		"refresh must not clobber a pending optimistic value")
	assert.Equal(t, api.RatingDown, coord.Confirmed(3, api.MediaTypeMovie))

	close(block)
	coord.Wait()
}
