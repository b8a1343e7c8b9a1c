package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flytaxi/service-booking/internal/domain"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/flytaxi/service-booking/internal/domain/geo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber string          `gorm:"uniqueIndex;not null;size:20"`
	StartLat      float64         `gorm:"not null"`
	StartLng      float64         `gorm:"not null"`
	EndLat        float64         `gorm:"not null"`
	EndLng        float64         `gorm:"not null"`
	Stops         json.RawMessage `gorm:"type:jsonb;not null"`
	DistanceKm    float64         `gorm:"not null"`
	Tier          string          `gorm:"not null;size:20"`
	FareAmount    float64         `gorm:"not null"`
	Currency      string          `gorm:"not null;size:3;default:'INR'"`
	Status        string          `gorm:"not null;size:30;index"`
	Version       int64           `gorm:"not null;default:1"`
	BookingTime   time.Time       `gorm:"not null;index"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// ListAll retrieves all bookings with pagination, newest first.
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("booking_time DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists the booking's status with optimistic locking. Route, distance
// and fare are immutable once booked and are never rewritten.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	// IncrementVersion has already been called, so the stored row holds version-1.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(bk.Status()),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	route := bk.Route()
	stops := route.Stops
	if stops == nil {
		stops = []geo.Coordinate{}
	}
	stopsJSON, err := json.Marshal(stops)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stops: %w", err)
	}

	return &BookingModel{
		ID:            bk.ID(),
		BookingNumber: bk.BookingNumber(),
		StartLat:      route.Start.Lat,
		StartLng:      route.Start.Lng,
		EndLat:        route.End.Lat,
		EndLng:        route.End.Lng,
		Stops:         stopsJSON,
		DistanceKm:    bk.DistanceKm(),
		Tier:          string(bk.Tier()),
		FareAmount:    bk.FareAmount(),
		Currency:      bk.Currency(),
		Status:        string(bk.Status()),
		Version:       bk.Version(),
		BookingTime:   bk.BookingTime(),
		UpdatedAt:     bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var stops []geo.Coordinate
	if len(m.Stops) > 0 {
		if err := json.Unmarshal(m.Stops, &stops); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stops: %w", err)
		}
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	route := bookingDomain.Route{
		Start: geo.Coordinate{Lat: m.StartLat, Lng: m.StartLng},
		End:   geo.Coordinate{Lat: m.EndLat, Lng: m.EndLng},
		Stops: stops,
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		route,
		m.DistanceKm,
		bookingDomain.Tier(m.Tier),
		m.FareAmount,
		m.Currency,
		status,
		m.Version,
		m.BookingTime,
		m.UpdatedAt,
	), nil
}
