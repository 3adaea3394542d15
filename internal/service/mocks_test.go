package service

import (
	"context"
	"io"
	"sync"

	"holidaze/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

type mockVenueAPI struct {
	mock.Mock
}

func (m *mockVenueAPI) GetVenues(ctx context.Context, page int, query string) ([]models.Venue, models.PageMeta, error) {
	args := m.Called(ctx, page, query)
	var venues []models.Venue
	if args.Get(0) != nil {
		venues = args.Get(0).([]models.Venue)
	}
	return venues, args.Get(1).(models.PageMeta), args.Error(2)
}
func (m *mockVenueAPI) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}
func (m *mockVenueAPI) CreateVenue(ctx context.Context, input models.VenueInput) (*models.Venue, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}
func (m *mockVenueAPI) UpdateVenue(ctx context.Context, id string, input models.VenueInput) (*models.Venue, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}
func (m *mockVenueAPI) DeleteVenue(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBookingAPI struct {
	mock.Mock
}

func (m *mockBookingAPI) CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingAPI) DeleteBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockProfileAPI struct {
	mock.Mock
}

func (m *mockProfileAPI) GetProfile(ctx context.Context, name string) (*models.Profile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
func (m *mockProfileAPI) UpdateProfile(ctx context.Context, name string, input models.ProfileInput) (*models.Profile, error) {
	args := m.Called(ctx, name, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type mockAuthAPI struct {
	mock.Mock
}

func (m *mockAuthAPI) Login(ctx context.Context, input models.LoginInput) (*models.AuthUser, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthUser), args.Error(1)
}
func (m *mockAuthAPI) Register(ctx context.Context, input models.RegisterInput) (*models.AuthUser, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthUser), args.Error(1)
}

// memSessions is a hand-rolled session store for tests that assert on
// persisted state rather than call counts.
type memSessions struct {
	mu       sync.Mutex
	sessions map[int64]*models.Session
	failAll  bool
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[int64]*models.Session)}
}

func (m *memSessions) GetSession(_ context.Context, chatID int64) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	return m.sessions[chatID], nil
}

func (m *memSessions) SetSession(_ context.Context, chatID int64, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStoreDown
	}
	m.sessions[chatID] = session
	return nil
}

func (m *memSessions) ClearSession(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStoreDown
	}
	delete(m.sessions, chatID)
	return nil
}
