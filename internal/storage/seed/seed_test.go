package seed

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error) {
	args := m.Called(ctx, filter)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

func (m *StoreMock) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.Event), args.Error(1)
}

func (m *StoreMock) Subscribe(ctx context.Context, req models.SubscribeRequest) (models.Subscription, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sample = `
events:
  - event_name: Town Fair
    user_id: u_alice
    startdate: 2025-05-10
    enddate: "2025-05-12"
    tags: community,outdoor
    published: true
  - title: Book Club
    ownerId: u_bob
    startDate: "2025-06-01"
    tags: [books]
    draft: true
subscriptions:
  - event_name: Town Fair
    subscriber_email: carol@x.io
    subscriber_ntid: u_carol
`

func TestDecode(t *testing.T) {
	data, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Len(t, data.Events, 2)
	assert.Len(t, data.Subscriptions, 1)
}

func TestApply(t *testing.T) {
	data, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	store := new(StoreMock)
	store.On("FetchEvents", mock.Anything, models.FetchFilter{Limit: 1}).Return([]models.Event{}, nil)
	store.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
		return e.Name == "Town Fair" && e.OwnerID == "u_alice" &&
			e.StartDate == dateops.MustParse("2025-05-10") && e.Published && e.CreatedAt.Equal(now)
	})).Return(models.Event{ID: "1"}, nil).Once()
	store.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
		return e.Name == "Book Club" && e.Draft && len(e.Tags) == 1
	})).Return(models.Event{ID: "2"}, nil).Once()
	store.On("Subscribe", mock.Anything, models.SubscribeRequest{
		EventName: "Town Fair", Email: "carol@x.io", PrincipalID: "u_carol",
	}).Return(models.Subscription{ID: "s1"}, nil).Once()

	created, err := Apply(context.Background(), newNoopLogger(), store, data, now)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	store.AssertExpectations(t)
}

func TestApply_SkipsNonEmptyStore(t *testing.T) {
	store := new(StoreMock)
	store.On("FetchEvents", mock.Anything, models.FetchFilter{Limit: 1}).Return([]models.Event{{ID: "x"}}, nil)

	created, err := Apply(context.Background(), newNoopLogger(), store, &Data{Events: []map[string]any{{"name": "A"}}}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, created)
	store.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}
