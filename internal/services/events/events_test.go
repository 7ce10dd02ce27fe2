package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

type StoreMock struct{ mock.Mock }

func (m *StoreMock) FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *StoreMock) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.Event), args.Error(1)
}

func (m *StoreMock) UpdateEvent(ctx context.Context, id string, fields models.EventFields) (models.Event, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(models.Event), args.Error(1)
}

func (m *StoreMock) DeleteEvent(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var (
	alice = models.Principal{ID: "u_alice", DisplayName: "alice", Email: "alice@Bosch.in"}
	bob   = models.Principal{ID: "u_bob", DisplayName: "bob", Email: "bob@Bosch.in"}
	now   = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
)

func newTestService(store *StoreMock, cache *CacheMock) *Service {
	return NewService(store, cache, dateops.FixedClock{At: now}, newNoopLogger(), time.Minute)
}

func validInput() models.EventInput {
	return models.EventInput{
		Name:         "Town Fair",
		Description:  "Annual fair",
		Location:     "Main square",
		StartDate:    "2025-06-01",
		EndDate:      "2025-06-03",
		ContactEmail: "fair@town.org",
		Tags:         []string{" community ", "", "outdoor"},
	}
}

func storedEvent(owner string, published bool) models.Event {
	return models.Event{
		ID:           "e1",
		OwnerID:      owner,
		Name:         "Town Fair",
		Description:  "Annual fair",
		Location:     "Main square",
		StartDate:    dateops.MustParse("2025-06-01"),
		EndDate:      dateops.MustParse("2025-06-03"),
		ContactEmail: "fair@town.org",
		Published:    published,
		Draft:        !published,
	}
}

func expectInvalidate(c *CacheMock) {
	c.On("Invalidate", mock.Anything, []string{CacheKeyAll}).Return(nil).Once()
}

func TestValidate_FailFast(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *models.EventInput)
		wantField string
		wantMsg   string
	}{
		{name: "empty name", mutate: func(in *models.EventInput) { in.Name = "  " }, wantField: "name", wantMsg: "Event name is required"},
		{name: "empty name reported before other fields", mutate: func(in *models.EventInput) {
			in.Name, in.Location = "", ""
		}, wantField: "name"},
		{name: "empty description", mutate: func(in *models.EventInput) { in.Description = "" }, wantField: "description"},
		{name: "empty start", mutate: func(in *models.EventInput) { in.StartDate = "" }, wantField: "start_date"},
		{name: "empty end", mutate: func(in *models.EventInput) { in.EndDate = "" }, wantField: "end_date"},
		{name: "empty location", mutate: func(in *models.EventInput) { in.Location = "" }, wantField: "location"},
		{name: "empty email", mutate: func(in *models.EventInput) { in.ContactEmail = "" }, wantField: "contact_email"},
		{name: "bad email", mutate: func(in *models.EventInput) { in.ContactEmail = "fair@town" }, wantField: "contact_email", wantMsg: "Enter a valid contact email"},
		{name: "bad date format", mutate: func(in *models.EventInput) { in.StartDate = "01-06-2025" }, wantField: "start_date"},
		{name: "start after end", mutate: func(in *models.EventInput) { in.StartDate = "2025-06-04" }, wantField: "start_date", wantMsg: "Start date cannot be after end date"},
		{name: "comma inside tag", mutate: func(in *models.EventInput) { in.Tags = []string{"music", "food,drinks"} }, wantField: "tags", wantMsg: "Tags cannot contain commas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := Validate(in)
			ve, ok := models.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ve.Message)
			}
		})
	}

	assert.NoError(t, Validate(validInput()))
}

func TestService_Publish_InvalidInputMakesNoStoreCalls(t *testing.T) {
	store, cache := new(StoreMock), new(CacheMock)
	s := newTestService(store, cache)

	in := validInput()
	in.Name = ""

	_, err := s.Publish(context.Background(), alice, in, "")
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "name", ve.Field)

	_, err = s.CreateDraft(context.Background(), alice, in, "e1")
	_, ok = models.AsValidationError(err)
	require.True(t, ok)

	assert.Empty(t, store.Calls)
	assert.Empty(t, cache.Calls)
}

func TestService_Publish_New(t *testing.T) {
	store, cache := new(StoreMock), new(CacheMock)
	s := newTestService(store, cache)

	store.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
		return e.OwnerID == "u_alice" &&
			e.Published && !e.Draft &&
			e.LastPublishedAt != nil && e.LastPublishedAt.Equal(now) &&
			e.CreatedAt.Equal(now) &&
			assert.ObjectsAreEqual([]string{"community", "outdoor"}, e.Tags)
	})).Return(func() models.Event {
		e := storedEvent("u_alice", true)
		e.LastPublishedAt = &now
		return e
	}(), nil).Once()
	expectInvalidate(cache)

	got, err := s.Publish(context.Background(), alice, validInput(), "")
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)
	assert.True(t, got.Published)
	assert.False(t, got.Draft)
	assert.Equal(t, models.StatusUpcoming, got.Status)

	store.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Publish_Anonymous(t *testing.T) {
	store, cache := new(StoreMock), new(CacheMock)
	s := newTestService(store, cache)

	_, err := s.Publish(context.Background(), models.Principal{}, validInput(), "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Empty(t, store.Calls)
}

func TestService_CreateDraft(t *testing.T) {
	t.Run("new draft", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		store.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
			return e.Draft && !e.Published && e.LastPublishedAt == nil
		})).Return(storedEvent("u_alice", false), nil).Once()
		expectInvalidate(cache)

		got, err := s.CreateDraft(context.Background(), alice, validInput(), "")
		require.NoError(t, err)
		assert.True(t, got.Draft)
		assert.False(t, got.Published)
	})

	t.Run("editing moves event back to drafts", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
			Return(storedEvent("u_alice", true), nil).Once()
		store.On("UpdateEvent", mock.Anything, "e1", mock.MatchedBy(func(f models.EventFields) bool {
			return f.Draft != nil && *f.Draft &&
				f.Published != nil && !*f.Published &&
				f.Name != nil && *f.Name == "Town Fair"
		})).Return(storedEvent("u_alice", false), nil).Once()
		expectInvalidate(cache)

		got, err := s.CreateDraft(context.Background(), alice, validInput(), "e1")
		require.NoError(t, err)
		assert.True(t, got.Draft)
		store.AssertExpectations(t)
	})

	t.Run("editing foreign event", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
			Return(storedEvent("u_alice", true), nil).Once()

		_, err := s.CreateDraft(context.Background(), bob, validInput(), "e1")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
		store.AssertNumberOfCalls(t, "UpdateEvent", 1)
		assert.Empty(t, cache.Calls)
	})
}

func TestService_Update(t *testing.T) {
	desc := "Moved indoors"
	late := dateops.MustParse("2025-06-10")
	badEmail := "nobody"
	commaTags := []string{"a,b"}

	tests := []struct {
		name      string
		principal models.Principal
		fields    models.EventFields
		setup     func(store *StoreMock, cache *CacheMock)
		wantErr   error
		wantField string
	}{
		{
			name:      "owner updates description only",
			principal: alice,
			fields:    models.EventFields{Description: &desc},
			setup: func(store *StoreMock, cache *CacheMock) {
				store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
					Return(storedEvent("u_alice", true), nil).Once()
				store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{Description: &desc}).
					Return(storedEvent("u_alice", true), nil).Once()
				expectInvalidate(cache)
			},
		},
		{
			name:      "foreign principal",
			principal: bob,
			fields:    models.EventFields{Description: &desc},
			setup: func(store *StoreMock, _ *CacheMock) {
				store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
					Return(storedEvent("u_alice", true), nil).Once()
			},
			wantErr: models.ErrUnauthorized,
		},
		{
			name:      "anonymous principal",
			principal: models.Principal{Email: "carol@x.io"},
			fields:    models.EventFields{Description: &desc},
			setup:     func(*StoreMock, *CacheMock) {},
			wantErr:   models.ErrUnauthorized,
		},
		{
			name:      "missing event",
			principal: alice,
			fields:    models.EventFields{Description: &desc},
			setup: func(store *StoreMock, _ *CacheMock) {
				store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
					Return(models.Event{}, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
		{
			name:      "start moved after stored end",
			principal: alice,
			fields:    models.EventFields{StartDate: &late},
			setup: func(store *StoreMock, _ *CacheMock) {
				store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
					Return(storedEvent("u_alice", true), nil).Once()
			},
			wantField: "start_date",
		},
		{
			name:      "malformed email",
			principal: alice,
			fields:    models.EventFields{ContactEmail: &badEmail},
			setup: func(store *StoreMock, _ *CacheMock) {
				store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
					Return(storedEvent("u_alice", true), nil).Once()
			},
			wantField: "contact_email",
		},
		{
			name:      "comma inside tag",
			principal: alice,
			fields:    models.EventFields{Tags: &commaTags},
			setup: func(store *StoreMock, _ *CacheMock) {
				store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
					Return(storedEvent("u_alice", true), nil).Once()
			},
			wantField: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cache := new(StoreMock), new(CacheMock)
			tt.setup(store, cache)
			s := newTestService(store, cache)

			_, err := s.Update(context.Background(), tt.principal, "e1", tt.fields)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				ve, ok := models.AsValidationError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantField, ve.Field)
			default:
				require.NoError(t, err)
			}
			store.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_TogglePublish_KeepsFlagsExclusive(t *testing.T) {
	tests := []struct {
		name          string
		published     bool
		wantPublished bool
	}{
		{name: "unpublish", published: true, wantPublished: false},
		{name: "publish draft", published: false, wantPublished: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cache := new(StoreMock), new(CacheMock)
			s := newTestService(store, cache)

			store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
				Return(storedEvent("u_alice", tt.published), nil).Once()
			store.On("UpdateEvent", mock.Anything, "e1", mock.MatchedBy(func(f models.EventFields) bool {
				if f.Published == nil || f.Draft == nil || *f.Published == *f.Draft {
					return false
				}
				if *f.Published {
					return f.LastPublishedAt != nil && f.LastPublishedAt.Equal(now)
				}
				return f.LastPublishedAt == nil
			})).Return(storedEvent("u_alice", tt.wantPublished), nil).Once()
			expectInvalidate(cache)

			got, err := s.TogglePublish(context.Background(), alice, "e1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPublished, got.Published)
			assert.NotEqual(t, got.Published, got.Draft)
			store.AssertExpectations(t)
		})
	}
}

func TestService_Delete(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
			Return(storedEvent("u_alice", true), nil).Once()
		store.On("DeleteEvent", mock.Anything, "e1").Return(true, nil).Once()
		expectInvalidate(cache)

		require.NoError(t, s.Delete(context.Background(), alice, "e1"))
		store.AssertExpectations(t)
	})

	t.Run("foreign principal", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
			Return(storedEvent("u_alice", true), nil).Once()

		err := s.Delete(context.Background(), bob, "e1")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
		store.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).
			Return(storedEvent("u_alice", true), nil).Once()
		store.On("DeleteEvent", mock.Anything, "e1").Return(false, models.ErrBackendUnavailable).Once()

		err := s.Delete(context.Background(), alice, "e1")
		assert.ErrorIs(t, err, models.ErrBackendUnavailable)
		assert.Empty(t, cache.Calls)
	})
}

func TestService_List(t *testing.T) {
	past := storedEvent("u_alice", true)
	past.EndDate = dateops.MustParse("2025-04-30")
	past.StartDate = dateops.MustParse("2025-04-28")
	events := []models.Event{storedEvent("u_alice", true), past}

	t.Run("cache hit", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		cache.On("Get", mock.Anything, CacheKeyAll, mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*[]models.Event) = events
			}).Return(true, nil).Once()

		got, err := s.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, models.StatusUpcoming, got[0].Status)
		assert.Equal(t, models.StatusExpired, got[1].Status)
		assert.Empty(t, store.Calls)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		cache.On("Get", mock.Anything, CacheKeyAll, mock.Anything).Return(false, nil).Once()
		store.On("FetchEvents", mock.Anything, models.FetchFilter{}).Return(events, nil).Once()
		cache.On("Set", mock.Anything, CacheKeyAll, events, time.Minute).Return(nil).Once()

		got, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure falls back to store", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		cache.On("Get", mock.Anything, CacheKeyAll, mock.Anything).Return(false, errors.New("redis down")).Once()
		store.On("FetchEvents", mock.Anything, models.FetchFilter{}).Return(events, nil).Once()
		cache.On("Set", mock.Anything, CacheKeyAll, events, time.Minute).Return(errors.New("redis down")).Once()

		got, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("store failure", func(t *testing.T) {
		store, cache := new(StoreMock), new(CacheMock)
		s := newTestService(store, cache)

		cache.On("Get", mock.Anything, CacheKeyAll, mock.Anything).Return(false, nil).Once()
		store.On("FetchEvents", mock.Anything, models.FetchFilter{}).Return(nil, models.ErrBackendUnavailable).Once()

		_, err := s.List(context.Background())
		assert.ErrorIs(t, err, models.ErrBackendUnavailable)
	})
}

func TestService_OwnerTabs(t *testing.T) {
	store, cache := new(StoreMock), new(CacheMock)
	s := newTestService(store, cache)

	active := storedEvent("u_alice", true)
	active.ID = "active"
	draft := storedEvent("u_alice", false)
	draft.ID = "draft"
	unsaved := storedEvent("u_alice", false)
	unsaved.ID, unsaved.Draft = "unsaved", false
	expired := storedEvent("u_alice", true)
	expired.ID, expired.StartDate, expired.EndDate = "expired", dateops.MustParse("2025-04-01"), dateops.MustParse("2025-04-02")
	foreign := storedEvent("u_bob", true)
	foreign.ID = "foreign"

	cache.On("Get", mock.Anything, CacheKeyAll, mock.Anything).Return(false, nil).Once()
	store.On("FetchEvents", mock.Anything, models.FetchFilter{}).
		Return([]models.Event{active, draft, unsaved, expired, foreign}, nil).Once()
	cache.On("Set", mock.Anything, CacheKeyAll, mock.Anything, time.Minute).Return(nil).Once()

	tabs, err := s.OwnerTabs(context.Background(), alice)
	require.NoError(t, err)

	ids := func(events []models.Event) []string {
		out := make([]string, 0, len(events))
		for _, e := range events {
			out = append(out, e.ID)
		}
		return out
	}
	assert.Equal(t, []string{"active"}, ids(tabs.Active))
	assert.Equal(t, []string{"draft", "unsaved"}, ids(tabs.Drafts))
	assert.Equal(t, []string{"expired"}, ids(tabs.Expired))
}

func TestService_Get(t *testing.T) {
	store, cache := new(StoreMock), new(CacheMock)
	s := newTestService(store, cache)

	ongoing := storedEvent("u_alice", true)
	ongoing.StartDate = dateops.MustParse("2025-05-01")
	store.On("UpdateEvent", mock.Anything, "e1", models.EventFields{}).Return(ongoing, nil).Once()
	store.On("UpdateEvent", mock.Anything, "gone", models.EventFields{}).Return(models.Event{}, models.ErrNotFound).Once()

	got, err := s.Get(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, got.Status)

	_, err = s.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, cache.Calls)
}
