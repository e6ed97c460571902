package flavor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/playroom/internal/model"
)

type stubProvider struct {
	msg   string
	err   error
	block bool
}

func (s stubProvider) Message(ctx context.Context, _ Request) (string, error) {
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.msg, s.err
}

func TestFetchFallsBack(t *testing.T) {
	ctx := context.Background()

	msg, err := Fetch(ctx, nil, Request{}, 0)
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.Equal(t, FallbackMessage, msg)

	boom := errors.New("boom")
	msg, err = Fetch(ctx, stubProvider{err: boom}, Request{}, 0)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, FallbackMessage, msg)

	msg, err = Fetch(ctx, stubProvider{block: true}, Request{}, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, FallbackMessage, msg)

	msg, err = Fetch(ctx, stubProvider{msg: "   "}, Request{}, 0)
	require.NoError(t, err)
	assert.Equal(t, EmptyMessage, msg)

	msg, err = Fetch(ctx, stubProvider{msg: " Jump! "}, Request{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Jump!", msg)
}

func TestRequestFor(t *testing.T) {
	now := time.Date(2024, time.January, 1, 19, 5, 0, 0, time.Local)
	req := RequestFor(&model.Event{Title: "Bath & Stories"}, now)
	assert.Equal(t, Request{EventTitle: "Bath & Stories", HasEvent: true, TimeOfDay: "7:05 PM", Hour: 19}, req)

	req = RequestFor(nil, now)
	assert.False(t, req.HasEvent)
	assert.Empty(t, req.EventTitle)
}

func TestMoodFor(t *testing.T) {
	assert.Equal(t, MoodSleepy, MoodFor(Request{EventTitle: "Bedtime", HasEvent: true, Hour: 21}))
	assert.Equal(t, MoodSleepy, MoodFor(Request{EventTitle: "Nap", HasEvent: true, Hour: 13}))
	assert.Equal(t, MoodSleepy, MoodFor(Request{Hour: 23}))
	assert.Equal(t, MoodEnergetic, MoodFor(Request{EventTitle: "Taekwondo", HasEvent: true, Hour: 16}))
	assert.Equal(t, MoodCheerful, MoodFor(Request{Hour: 10}))
}

func TestLocalProviderIsDeterministicAndMoodAware(t *testing.T) {
	p := NewLocalProvider()
	req := Request{EventTitle: "Bedtime", HasEvent: true, TimeOfDay: "8:45 PM", Hour: 20}

	first, err := p.Message(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Message(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, pools[MoodSleepy], first)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Message(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
}
