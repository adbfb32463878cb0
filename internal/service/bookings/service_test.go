package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/infra/events"
	bookingRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/booking"
	"github.com/tourvia/TRV-BookingService/internal/service/bookings/models"
	"github.com/tourvia/TRV-BookingService/pkg/types"
)

type MockBookingRepository struct {
	GetByIDFunc             func(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserIDFunc         func(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByTourWithFilterFunc func(ctx context.Context, filter domain.TourBookingsFilter) ([]*domain.Booking, error)
	CancelFunc              func(ctx context.Context, id int64, reason string) error
	UpdateStatusFunc        func(ctx context.Context, id int64, status domain.BookingStatus) error
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return m.GetByUserIDFunc(ctx, userID, status)
}

func (m *MockBookingRepository) GetByTourWithFilter(ctx context.Context, filter domain.TourBookingsFilter) ([]*domain.Booking, error) {
	return m.GetByTourWithFilterFunc(ctx, filter)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64, reason string) error {
	return m.CancelFunc(ctx, id, reason)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

type MockTourRepository struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Tour, error)
}

func (m *MockTourRepository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	return m.GetByIDFunc(ctx, id)
}

type MockLedgerRepository struct {
	ReleaseCapacityFunc func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error
}

func (m *MockLedgerRepository) ReleaseCapacity(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
	if m.ReleaseCapacityFunc == nil {
		return nil
	}
	return m.ReleaseCapacityFunc(ctx, tourID, date, slotTime, guests)
}

type MockAvailabilityCache struct {
	InvalidateMonthFunc func(ctx context.Context, tourID int64, month string) error
}

func (m *MockAvailabilityCache) InvalidateMonth(ctx context.Context, tourID int64, month string) error {
	if m.InvalidateMonthFunc == nil {
		return nil
	}
	return m.InvalidateMonthFunc(ctx, tourID, month)
}

type MockEventPublisher struct {
	PublishFunc func(ctx context.Context, key string, event interface{}) error
}

func (m *MockEventPublisher) Publish(ctx context.Context, key string, event interface{}) error {
	if m.PublishFunc == nil {
		return nil
	}
	return m.PublishFunc(ctx, key, event)
}

type MockTransactionManager struct{}

func (m *MockTransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *MockTransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *MockTransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type NopLogger struct{}

func (NopLogger) Info(format string, v ...interface{})  {}
func (NopLogger) Warn(format string, v ...interface{})  {}
func (NopLogger) Error(format string, v ...interface{}) {}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:        100,
		Reference: "b7f9e5a2-1c3d-4e6f-8a9b-0c1d2e3f4a5b",
		TourID:    1,
		UserID:    7,
		Date:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		Adults:    2,
		Children:  1,
		Guests:    3,
		Status:    domain.StatusConfirmed,
	}
}

func adminTour() *domain.Tour {
	return &domain.Tour{
		ID:       1,
		AdminIDs: []int64{50},
	}
}

func newTestService(
	bookings BookingRepository,
	tours TourRepository,
	ledger LedgerRepository,
	cache AvailabilityCache,
	publisher EventPublisher,
) *Service {
	return NewService(bookings, tours, ledger, cache, publisher, &MockTransactionManager{}, NopLogger{})
}

func TestGetByID_Owner(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
		},
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				t.Fatal("владельцу бронирования тур для проверки прав не нужен")
				return nil, nil
			},
		},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	resp, err := svc.GetByID(context.Background(), 100, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "2026-09-15", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestGetByID_TourAdmin(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
		},
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return adminTour(), nil
			},
		},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	resp, err := svc.GetByID(context.Background(), 100, 50)

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
}

func TestGetByID_AccessDenied(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
		},
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return adminTour(), nil
			},
		},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	_, err := svc.GetByID(context.Background(), 100, 999)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return nil, bookingRepo.ErrBookingNotFound
			},
		},
		&MockTourRepository{},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	_, err := svc.GetByID(context.Background(), 100, 7)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_Success(t *testing.T) {
	var cancelledID int64
	var cancelReason string
	var releasedGuests int
	var invalidatedMonth string
	var publishedEvent events.BookingEvent

	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
			CancelFunc: func(ctx context.Context, id int64, reason string) error {
				cancelledID = id
				cancelReason = reason
				return nil
			},
		},
		&MockTourRepository{},
		&MockLedgerRepository{
			ReleaseCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				releasedGuests = guests
				return nil
			},
		},
		&MockAvailabilityCache{
			InvalidateMonthFunc: func(ctx context.Context, tourID int64, month string) error {
				invalidatedMonth = month
				return nil
			},
		},
		&MockEventPublisher{
			PublishFunc: func(ctx context.Context, key string, event interface{}) error {
				publishedEvent = event.(events.BookingEvent)
				return nil
			},
		},
	)

	err := svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{
		UserID:             7,
		CancellationReason: "изменились планы",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(100), cancelledID)
	assert.Equal(t, "изменились планы", cancelReason)

	// Места возвращены в слот
	assert.Equal(t, 3, releasedGuests)
	assert.Equal(t, "2026-09", invalidatedMonth)

	assert.Equal(t, events.EventBookingCancelled, publishedEvent.Type)
	assert.Equal(t, int64(100), publishedEvent.BookingID)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				booking := testBooking()
				booking.Status = domain.StatusCancelled
				return booking, nil
			},
			CancelFunc: func(ctx context.Context, id int64, reason string) error {
				t.Fatal("повторная отмена не должна доходить до репозитория")
				return nil
			},
		},
		&MockTourRepository{},
		&MockLedgerRepository{
			ReleaseCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				t.Fatal("места не должны возвращаться повторно")
				return nil
			},
		},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	err := svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_ConcurrentCancelReleasesOnce(t *testing.T) {
	// Второй из двух конкурентных запросов на отмену: статус в прочитанном
	// бронировании ещё confirmed, но условный UPDATE в репозитории уже
	// не находит строку
	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
			CancelFunc: func(ctx context.Context, id int64, reason string) error {
				return bookingRepo.ErrAlreadyCancelled
			},
		},
		&MockTourRepository{},
		&MockLedgerRepository{
			ReleaseCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				t.Fatal("места не должны возвращаться повторно")
				return nil
			},
		},
		&MockAvailabilityCache{
			InvalidateMonthFunc: func(ctx context.Context, tourID int64, month string) error {
				t.Fatal("кэш не должен сбрасываться при неуспешной отмене")
				return nil
			},
		},
		&MockEventPublisher{},
	)

	err := svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_AccessDenied(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
		},
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return adminTour(), nil
			},
		},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	err := svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 999})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_AdminCanCancelForeignBooking(t *testing.T) {
	var cancelled bool

	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
			CancelFunc: func(ctx context.Context, id int64, reason string) error {
				cancelled = true
				return nil
			},
		},
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return adminTour(), nil
			},
		},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	err := svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 50})

	require.NoError(t, err)
	assert.True(t, cancelled)
}

func TestCancel_ReleaseFailureRollsBack(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
			CancelFunc: func(ctx context.Context, id int64, reason string) error {
				return nil
			},
		},
		&MockTourRepository{},
		&MockLedgerRepository{
			ReleaseCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				return errors.New("connection reset by peer")
			},
		},
		&MockAvailabilityCache{
			InvalidateMonthFunc: func(ctx context.Context, tourID int64, month string) error {
				t.Fatal("кэш не должен сбрасываться при откате транзакции")
				return nil
			},
		},
		&MockEventPublisher{},
	)

	err := svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetUserBookings(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByUserIDFunc: func(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
				require.NotNil(t, status)
				assert.Equal(t, domain.StatusConfirmed, *status)
				return []*domain.Booking{testBooking()}, nil
			},
		},
		&MockTourRepository{},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	status := "confirmed"
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 7,
		Status: &status,
	})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(100), resp.Bookings[0].ID)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{},
		&MockTourRepository{},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	status := "shipped"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 7,
		Status: &status,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTourBookings_AdminOnly(t *testing.T) {
	svc := newTestService(
		&MockBookingRepository{
			GetByTourWithFilterFunc: func(ctx context.Context, filter domain.TourBookingsFilter) ([]*domain.Booking, error) {
				assert.Equal(t, int64(1), filter.TourID)
				assert.True(t, filter.IncludeCancelled)
				return []*domain.Booking{testBooking()}, nil
			},
		},
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return adminTour(), nil
			},
		},
		&MockLedgerRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	resp, err := svc.GetTourBookings(context.Background(), &models.GetTourBookingsRequest{
		UserID:           50,
		TourID:           1,
		IncludeCancelled: true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	// Не администратор получает отказ
	_, err = svc.GetTourBookings(context.Background(), &models.GetTourBookingsRequest{
		UserID: 7,
		TourID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
