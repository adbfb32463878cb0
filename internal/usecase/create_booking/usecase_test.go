package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/infra/events"
	ledgerRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/ledger"
	tourRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/tour"
	"github.com/tourvia/TRV-BookingService/pkg/types"
)

type MockTourRepository struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Tour, error)
}

func (m *MockTourRepository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	return m.GetByIDFunc(ctx, id)
}

type MockBookingRepository struct {
	CreateFunc func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return m.CreateFunc(ctx, booking)
}

type MockLedgerRepository struct {
	EnsureDayFunc       func(ctx context.Context, tourID int64, date time.Time, template []domain.TemplateSlot) error
	ReserveCapacityFunc func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error
}

func (m *MockLedgerRepository) EnsureDay(ctx context.Context, tourID int64, date time.Time, template []domain.TemplateSlot) error {
	if m.EnsureDayFunc == nil {
		return nil
	}
	return m.EnsureDayFunc(ctx, tourID, date, template)
}

func (m *MockLedgerRepository) ReserveCapacity(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
	return m.ReserveCapacityFunc(ctx, tourID, date, slotTime, guests)
}

type MockStopSaleRepository struct {
	ListActiveByTourAndRangeFunc func(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.StopSaleRule, error)
}

func (m *MockStopSaleRepository) ListActiveByTourAndRange(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.StopSaleRule, error) {
	if m.ListActiveByTourAndRangeFunc == nil {
		return nil, nil
	}
	return m.ListActiveByTourAndRangeFunc(ctx, tourID, from, to)
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

func (m *MockTransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type StubTimeProvider struct {
	now time.Time
}

func (p *StubTimeProvider) Now() time.Time {
	return p.now
}

type NopLogger struct{}

func (NopLogger) Info(format string, v ...interface{})  {}
func (NopLogger) Warn(format string, v ...interface{})  {}
func (NopLogger) Error(format string, v ...interface{}) {}

func testTour() *domain.Tour {
	return &domain.Tour{
		ID:            1,
		Name:          "Old Town Walking Tour",
		AvailableDays: []int{0, 1, 2, 3, 4, 5, 6},
		Slots: []domain.TemplateSlot{
			{Time: "10:00", Capacity: 10},
			{Time: "14:00", Capacity: 8},
		},
	}
}

func validRequest() *Request {
	return &Request{
		UserID:    7,
		TourID:    1,
		Date:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		Adults:    2,
		Children:  1,
		Infants:   1,
	}
}

func newTestUseCase(
	tours TourRepository,
	bookings BookingRepository,
	ledger LedgerRepository,
	stopSales StopSaleRepository,
	cache AvailabilityCache,
	publisher EventPublisher,
) *UseCase {
	uc := NewUseCase(tours, bookings, ledger, stopSales, cache, publisher, &MockTransactionManager{}, NopLogger{})
	uc.timeProvider = &StubTimeProvider{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	return uc
}

func TestRequest_Guests(t *testing.T) {
	tests := []struct {
		name     string
		adults   int
		children int
		infants  int
		want     int
	}{
		{name: "full party counts everyone", adults: 2, children: 1, infants: 1, want: 4},
		{name: "adults only", adults: 3, want: 3},
		{name: "infants count toward the total", adults: 1, infants: 2, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Adults: tt.adults, Children: tt.children, Infants: tt.infants}
			assert.Equal(t, tt.want, req.Guests())
		})
	}
}

func TestExecute_Success(t *testing.T) {
	var reservedGuests int
	var invalidatedMonth string
	var publishedKey string
	var publishedEvent events.BookingEvent

	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return testTour(), nil
			},
		},
		&MockBookingRepository{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
				// Инварианты доменной модели перед записью
				assert.NotEmpty(t, booking.Reference)
				assert.Equal(t, domain.StatusConfirmed, booking.Status)
				assert.Equal(t, 4, booking.Guests)
				assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), booking.Date)

				created := *booking
				created.ID = 100
				return &created, nil
			},
		},
		&MockLedgerRepository{
			ReserveCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				reservedGuests = guests
				return nil
			},
		},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{
			InvalidateMonthFunc: func(ctx context.Context, tourID int64, month string) error {
				invalidatedMonth = month
				return nil
			},
		},
		&MockEventPublisher{
			PublishFunc: func(ctx context.Context, key string, event interface{}) error {
				publishedKey = key
				publishedEvent = event.(events.BookingEvent)
				return nil
			},
		},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int64(100), resp.ID)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, "confirmed", resp.Status)

	// Резервируется вся группа, включая младенцев
	assert.Equal(t, 4, reservedGuests)

	assert.Equal(t, "2026-09", invalidatedMonth)

	assert.Equal(t, resp.Reference, publishedKey)
	assert.Equal(t, events.EventBookingCreated, publishedEvent.Type)
	assert.Equal(t, int64(100), publishedEvent.BookingID)
	assert.Equal(t, "2026-09-15", publishedEvent.Date)
	assert.Equal(t, "10:00", publishedEvent.StartTime)
	assert.Equal(t, 4, publishedEvent.Guests)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return testTour(), nil
			},
		},
		&MockBookingRepository{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
				t.Fatal("бронирование не должно создаваться без резервирования мест")
				return nil, nil
			},
		},
		&MockLedgerRepository{
			ReserveCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				return ledgerRepo.ErrCapacityExceeded
			},
		},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_SlotBlocked(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return testTour(), nil
			},
		},
		&MockBookingRepository{},
		&MockLedgerRepository{
			ReserveCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				return ledgerRepo.ErrSlotBlocked
			},
		},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSalesStopped)
}

func TestExecute_StopSaleRuleBlocks(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return testTour(), nil
			},
		},
		&MockBookingRepository{},
		&MockLedgerRepository{
			ReserveCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				t.Fatal("резервирование не должно выполняться при действующем stop-sale")
				return nil
			},
		},
		&MockStopSaleRepository{
			ListActiveByTourAndRangeFunc: func(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.StopSaleRule, error) {
				return []*domain.StopSaleRule{
					{
						TourID:    1,
						StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
						EndDate:   time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSalesStopped)
}

func TestExecute_OptionScopedRuleDoesNotBlockOtherOption(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return testTour(), nil
			},
		},
		&MockBookingRepository{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
				created := *booking
				created.ID = 101
				return &created, nil
			},
		},
		&MockLedgerRepository{
			ReserveCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				return nil
			},
		},
		&MockStopSaleRepository{
			ListActiveByTourAndRangeFunc: func(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.StopSaleRule, error) {
				return []*domain.StopSaleRule{
					{
						TourID:    1,
						OptionIDs: []string{"premium"},
						StartDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
						EndDate:   time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	req := validRequest()
	standard := "standard"
	req.OptionID = &standard

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
}

func TestExecute_DayNotAvailable(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				// Тур работает только по воскресеньям; 2026-09-15 - вторник
				tour := testTour()
				tour.AvailableDays = []int{0}
				return tour, nil
			},
		},
		&MockBookingRepository{},
		&MockLedgerRepository{},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrDayNotAvailable)
}

func TestExecute_SlotNotInTemplate(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return testTour(), nil
			},
		},
		&MockBookingRepository{},
		&MockLedgerRepository{},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	req := validRequest()
	req.StartTime = "12:00"

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_TourNotFound(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return nil, tourRepo.ErrTourNotFound
			},
		},
		&MockBookingRepository{},
		&MockLedgerRepository{},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestExecute_DateInPast(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{},
		&MockBookingRepository{},
		&MockLedgerRepository{},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	req := validRequest()
	req.Date = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestExecute_BookingToday(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return testTour(), nil
			},
		},
		&MockBookingRepository{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
				created := *booking
				created.ID = 102
				return &created, nil
			},
		},
		&MockLedgerRepository{
			ReserveCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				return nil
			},
		},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	// Сегодняшняя дата допустима
	req := validRequest()
	req.Date = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{},
		&MockBookingRepository{},
		&MockLedgerRepository{},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{},
		&MockEventPublisher{},
	)

	longNotes := make([]byte, domain.MaxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'a'
	}
	notes := string(longNotes)

	tests := []struct {
		name   string
		modify func(req *Request)
	}{
		{name: "non-positive user id", modify: func(req *Request) { req.UserID = 0 }},
		{name: "non-positive tour id", modify: func(req *Request) { req.TourID = -1 }},
		{name: "zero date", modify: func(req *Request) { req.Date = time.Time{} }},
		{name: "invalid start time", modify: func(req *Request) { req.StartTime = "25:00" }},
		{name: "negative adults", modify: func(req *Request) { req.Adults = -1 }},
		{name: "empty party", modify: func(req *Request) { req.Adults = 0; req.Children = 0; req.Infants = 0 }},
		{name: "party too large", modify: func(req *Request) { req.Adults = domain.MaxGuestsPerBooking + 1 }},
		{name: "empty option id", modify: func(req *Request) { empty := ""; req.OptionID = &empty }},
		{name: "notes too long", modify: func(req *Request) { req.Notes = &notes }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_PublishFailureDoesNotFailBooking(t *testing.T) {
	uc := newTestUseCase(
		&MockTourRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Tour, error) {
				return testTour(), nil
			},
		},
		&MockBookingRepository{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
				created := *booking
				created.ID = 103
				return &created, nil
			},
		},
		&MockLedgerRepository{
			ReserveCapacityFunc: func(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
				return nil
			},
		},
		&MockStopSaleRepository{},
		&MockAvailabilityCache{
			InvalidateMonthFunc: func(ctx context.Context, tourID int64, month string) error {
				return errors.New("redis: connection pool timeout")
			},
		},
		&MockEventPublisher{
			PublishFunc: func(ctx context.Context, key string, event interface{}) error {
				return errors.New("kafka: broker unreachable")
			},
		},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(103), resp.ID)
}
