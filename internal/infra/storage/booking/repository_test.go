package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/types"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func bookingColumns() []string {
	return []string{
		"id", "tenant_id", "service_id", "customer_id",
		"customer_name", "customer_email", "customer_phone",
		"booking_date", "booking_time", "duration_minutes",
		"service_name", "service_price", "status", "notes",
		"created_at", "updated_at",
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	booking := &domain.Booking{
		TenantID:        uuid.New(),
		ServiceID:       uuid.New(),
		CustomerName:    "João Silva",
		CustomerEmail:   "joao@example.com",
		CustomerPhone:   "+55 11 99999-0000",
		BookingDate:     time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		BookingTime:     types.TimeString("14:30"),
		DurationMinutes: 30,
		ServiceName:     "Corte Masculino",
		ServicePrice:    45,
		Status:          domain.StatusPending,
	}

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(id, now, now),
		)

	created, err := repo.Create(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SlotTaken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: uniqueActiveSlotIndex})

	_, err := repo.Create(context.Background(), &domain.Booking{
		TenantID:    uuid.New(),
		ServiceID:   uuid.New(),
		BookingDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		BookingTime: types.TimeString("14:30"),
		Status:      domain.StatusPending,
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_OtherUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	// нарушение другого ограничения не маскируется под занятый слот
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "customers_tenant_email_key"})

	_, err := repo.Create(context.Background(), &domain.Booking{
		TenantID:    uuid.New(),
		ServiceID:   uuid.New(),
		BookingDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		BookingTime: types.TimeString("14:30"),
		Status:      domain.StatusPending,
	})

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	tenantID := uuid.New()
	serviceID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(bookingColumns()).
		AddRow(
			id, tenantID, serviceID, nil,
			"Maria Souza", "maria@example.com", "+55 11 98888-0000",
			time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), "09:00", 45,
			"Barba Completa", 35.0, "confirmed", nil,
			now, now,
		)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(id).
		WillReturnRows(rows)

	booking, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, booking.ID)
	assert.Equal(t, tenantID, booking.TenantID)
	assert.Nil(t, booking.CustomerID)
	assert.Equal(t, types.TimeString("09:00"), booking.BookingTime)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(sqlmock.NewRows(bookingColumns()))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByTenantWithFilter_ExcludesInactive(t *testing.T) {
	repo, mock := newMockRepo(t)

	tenantID := uuid.New()
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	// по умолчанию отмененные и no_show не попадают в выборку
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE (.+) NOT IN (.+) ORDER BY booking_time ASC`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()))

	bookings, err := repo.GetByTenantWithFilter(context.Background(), domain.TenantBookingsFilter{
		TenantID:  tenantID,
		StartDate: &date,
		EndDate:   &date,
	})
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountActiveOnDate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountActiveOnDate(
		context.Background(),
		uuid.New(),
		time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	notes := "[15/10/2025 14:30] Status alterado de pending para confirmed"

	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), id, domain.StatusPending, domain.StatusConfirmed, &notes)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_StatusConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Статус в БД уже не совпадает с ожидаемым - условный UPDATE
	// не затрагивает строк
	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), uuid.New(), domain.StatusPending, domain.StatusCancelled, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TotalRevenueSince(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(service_price\), 0\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(1250.50))

	total, err := repo.TotalRevenueSince(
		context.Background(),
		uuid.New(),
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.InDelta(t, 1250.50, total, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
