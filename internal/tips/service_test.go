package tips

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"greensteps/internal/waste"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEntrySource struct{ mock.Mock }

func (m *MockEntrySource) Recent(ctx context.Context, userID, limit int) ([]waste.Record, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]waste.Record), args.Error(1)
}

type countingAdvisor struct {
	calls  atomic.Int32
	advice Advice
	err    error
}

func (a *countingAdvisor) Advise(context.Context, string) (Advice, error) {
	a.calls.Add(1)
	return a.advice, a.err
}

func TestGetTips_CachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	source := new(MockEntrySource)
	advisor := &countingAdvisor{advice: Advice{Lines: []string{"tip one", "tip two"}}}
	svc := NewService(source, advisor, NewCache(time.Hour, clock))

	source.On("Recent", ctx, 1, recentLimit).Return([]waste.Record{rec("Plastic", 2)}, nil)

	first := svc.GetTips(ctx, 1)
	second := svc.GetTips(ctx, 1)
	assert.Equal(t, []string{"tip one", "tip two"}, first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, advisor.calls.Load())
	source.AssertNumberOfCalls(t, "Recent", 1)

	clock.Advance(time.Hour)
	svc.GetTips(ctx, 1)
	assert.EqualValues(t, 2, advisor.calls.Load(), "recomputed after expiry")
}

func TestGetTips_AdvisorFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	source := new(MockEntrySource)
	advisor := &countingAdvisor{err: context.DeadlineExceeded}
	svc := NewService(source, advisor, NewCache(time.Hour, newFakeClock()))

	source.On("Recent", ctx, 1, recentLimit).Return([]waste.Record{rec("Food Waste", 2)}, nil)

	assert.Equal(t, compostTips, svc.GetTips(ctx, 1))
}

func TestGetTips_ShortAdviceFallsBack(t *testing.T) {
	ctx := context.Background()
	source := new(MockEntrySource)
	advisor := &countingAdvisor{advice: Advice{Lines: []string{"only one"}}}
	svc := NewService(source, advisor, NewCache(time.Hour, newFakeClock()))

	source.On("Recent", ctx, 1, recentLimit).Return([]waste.Record{rec("Paper", 2)}, nil)

	assert.Equal(t, paperTips, svc.GetTips(ctx, 1))
}

func TestGetTips_NoAdvisorUsesHeuristic(t *testing.T) {
	ctx := context.Background()
	source := new(MockEntrySource)
	svc := NewService(source, nil, NewCache(time.Hour, newFakeClock()))

	source.On("Recent", ctx, 1, recentLimit).Return([]waste.Record{rec("Glass", 2)}, nil)

	tips := svc.GetTips(ctx, 1)
	assert.Equal(t, genericTips, tips)
	assert.GreaterOrEqual(t, len(tips), 2)
	assert.LessOrEqual(t, len(tips), MaxTips)
}

func TestGetTips_NoEntriesSkipsAdvisor(t *testing.T) {
	ctx := context.Background()
	source := new(MockEntrySource)
	advisor := &countingAdvisor{advice: Advice{Lines: []string{"a", "b"}}}
	svc := NewService(source, advisor, NewCache(time.Hour, newFakeClock()))

	source.On("Recent", ctx, 1, recentLimit).Return([]waste.Record{}, nil)

	assert.Equal(t, onboardingTips, svc.GetTips(ctx, 1))
	assert.EqualValues(t, 0, advisor.calls.Load())
}

func TestGetTips_SourceFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	source := new(MockEntrySource)
	svc := NewService(source, nil, NewCache(time.Hour, newFakeClock()))

	source.On("Recent", ctx, 1, recentLimit).Return(nil, errors.New("db down")).Once()
	source.On("Recent", ctx, 1, recentLimit).Return([]waste.Record{rec("Plastic", 1)}, nil).Once()

	assert.Equal(t, onboardingTips, svc.GetTips(ctx, 1))
	assert.Equal(t, containerTips, svc.GetTips(ctx, 1))
	source.AssertNumberOfCalls(t, "Recent", 2)
}
