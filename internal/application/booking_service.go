package application

import (
	"context"
	"fmt"
	"time"

	"github.com/flytaxi/service-booking/internal/contracts"
	"github.com/flytaxi/service-booking/internal/domain"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/flytaxi/service-booking/internal/domain/geo"
	"github.com/flytaxi/service-booking/internal/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const eventSource = "service-booking"

// EventPublisher publishes cloud events to the message bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event messaging.CloudEvent) error
}

// BookingCache holds snapshots of bookings for the status page.
type BookingCache interface {
	Get(ctx context.Context, id uuid.UUID, dst interface{}) (bool, error)
	Set(ctx context.Context, id uuid.UUID, v interface{}) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	Start *geo.Coordinate  `json:"start" binding:"required"`
	End   *geo.Coordinate  `json:"end" binding:"required"`
	Stops []geo.Coordinate `json:"stops"`
	Tier  string           `json:"tier" binding:"required"`
}

// QuoteRequest asks for a fare on a possibly incomplete route.
type QuoteRequest struct {
	Start *geo.Coordinate  `json:"start"`
	End   *geo.Coordinate  `json:"end"`
	Stops []geo.Coordinate `json:"stops"`
	Tier  string           `json:"tier"`
}

// TierDTO describes one service tier.
type TierDTO struct {
	Tier      string  `json:"tier"`
	Seats     int     `json:"seats"`
	RatePerKm float64 `json:"rate_per_km"`
	FixedFee  float64 `json:"fixed_fee"`
}

// TierEstimateDTO is the fare a route would cost in one tier.
type TierEstimateDTO struct {
	TierDTO
	EstimatedFare        float64 `json:"estimated_fare"`
	EstimatedFareDisplay string  `json:"estimated_fare_display"`
}

// FareQuoteDTO is the response to a fare quote.
type FareQuoteDTO struct {
	DistanceKm      float64                     `json:"distance_km"`
	DistanceDisplay string                      `json:"distance_display"`
	Breakdown       bookingDomain.FareBreakdown `json:"breakdown"`
	Tiers           []TierEstimateDTO           `json:"tiers"`
	Currency        string                      `json:"currency"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                     uuid.UUID        `json:"id"`
	BookingNumber          string           `json:"booking_number"`
	Start                  geo.Coordinate   `json:"start"`
	End                    geo.Coordinate   `json:"end"`
	Stops                  []geo.Coordinate `json:"stops"`
	DistanceKm             float64          `json:"distance_km"`
	Tier                   string           `json:"tier"`
	Seats                  int              `json:"seats"`
	FareAmount             float64          `json:"fare_amount"`
	FareDisplay            string           `json:"fare_display"`
	Currency               string           `json:"currency"`
	Status                 string           `json:"status"`
	StatusMessage          string           `json:"status_message"`
	EstimatedFlightMinutes int              `json:"estimated_flight_minutes"`
	Version                int64            `json:"version"`
	BookingTime            time.Time        `json:"booking_time"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

// BookingStatsDTO holds booking statistics for the ops dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	pricing   bookingDomain.PricingStrategy
	publisher EventPublisher
	cache     BookingCache
	currency  string
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService. cache may be nil.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	pricing bookingDomain.PricingStrategy,
	publisher EventPublisher,
	cache BookingCache,
	currency string,
	logger *zap.Logger,
) *BookingService {
	if currency == "" {
		currency = domain.CurrencyINR
	}
	return &BookingService{
		repo:      repo,
		pricing:   pricing,
		publisher: publisher,
		cache:     cache,
		currency:  currency,
		logger:    logger,
	}
}

// ListTiers returns the tier catalogue.
func (s *BookingService) ListTiers() []TierDTO {
	tiers := bookingDomain.AllTiers()
	dtos := make([]TierDTO, len(tiers))
	for i, t := range tiers {
		dtos[i] = toTierDTO(t)
	}
	return dtos
}

// QuoteFare prices a route. An incomplete route has distance 0, and an
// unrecognised tier is treated as no tier; both yield a fare of 0.
func (s *BookingService) QuoteFare(req QuoteRequest) (*FareQuoteDTO, error) {
	var distanceKm float64
	if req.Start != nil && req.End != nil {
		route, err := bookingDomain.NewRoute(*req.Start, *req.End, req.Stops)
		if err != nil {
			return nil, err
		}
		distanceKm = route.DistanceKm()
	} else {
		for _, c := range []*geo.Coordinate{req.Start, req.End} {
			if c == nil {
				continue
			}
			if err := c.Validate(); err != nil {
				return nil, err
			}
		}
	}

	quote := s.quote(distanceKm, bookingDomain.ParseTier(req.Tier))
	return &quote, nil
}

func (s *BookingService) quote(distanceKm float64, tier *bookingDomain.Tier) FareQuoteDTO {
	tiers := bookingDomain.AllTiers()
	estimates := make([]TierEstimateDTO, len(tiers))
	for i := range tiers {
		fare := s.pricing.Calculate(distanceKm, &tiers[i])
		estimates[i] = TierEstimateDTO{
			TierDTO:              toTierDTO(tiers[i]),
			EstimatedFare:        fare,
			EstimatedFareDisplay: bookingDomain.FormatAmount(fare),
		}
	}

	return FareQuoteDTO{
		DistanceKm:      distanceKm,
		DistanceDisplay: bookingDomain.FormatAmount(distanceKm),
		Breakdown:       bookingDomain.NewFareBreakdown(s.pricing, distanceKm, tier),
		Tiers:           estimates,
		Currency:        s.currency,
	}
}

// CreateBooking prices and persists a confirmed booking.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	if req.Start == nil || req.End == nil {
		return nil, domain.NewValidationError("start and end are required")
	}
	tier := bookingDomain.ParseTier(req.Tier)
	if tier == nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid tier: %q", req.Tier))
	}

	route, err := bookingDomain.NewRoute(*req.Start, *req.End, req.Stops)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(route, *tier, s.pricing, s.currency)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking confirmed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("tier", string(bk.Tier())),
		zap.Float64("distance_km", bk.DistanceKm()),
		zap.Float64("fare_amount", bk.FareAmount()),
	)

	result := toBookingDTO(bk)
	s.cacheBooking(ctx, result)
	s.publishBookingConfirmed(ctx, bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID, serving from cache when possible.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	if s.cache != nil {
		var cached BookingDTO
		hit, err := s.cache.Get(ctx, bookingID, &cached)
		if err != nil {
			s.logger.Warn("booking cache read failed", zap.String("booking_id", bookingID.String()), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	s.cacheBooking(ctx, result)
	return &result, nil
}

// GetBookingByNumber retrieves a single booking by its booking number.
func (s *BookingService) GetBookingByNumber(ctx context.Context, number string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateStatus applies an externally driven lifecycle transition. Moving a
// booking to the status it already has is a no-op.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status bookingDomain.BookingStatus) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.Status()
	if from == status {
		result := toBookingDTO(bk)
		return &result, nil
	}

	if err := bk.TransitionTo(status); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		if s.cache != nil {
			_ = s.cache.Invalidate(ctx, bookingID)
		}
		return nil, err
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)

	result := toBookingDTO(bk)
	s.cacheBooking(ctx, result)

	evt := contracts.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		FromStatus:    string(from),
		ToStatus:      string(status),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, contracts.TopicBookingEvents, contracts.BookingStatusChanged, bk.ID().String(), evt)

	return &result, nil
}

// ListAllBookings returns a paginated list of all bookings.
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetBookingStats returns aggregate booking statistics.
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toTierDTO(t bookingDomain.Tier) TierDTO {
	return TierDTO{
		Tier:      string(t),
		Seats:     t.Seats(),
		RatePerKm: t.RatePerKm(),
		FixedFee:  bookingDomain.FixedFee,
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	route := bk.Route()
	stops := route.Stops
	if stops == nil {
		stops = []geo.Coordinate{}
	}
	return BookingDTO{
		ID:                     bk.ID(),
		BookingNumber:          bk.BookingNumber(),
		Start:                  route.Start,
		End:                    route.End,
		Stops:                  stops,
		DistanceKm:             bk.DistanceKm(),
		Tier:                   string(bk.Tier()),
		Seats:                  bk.Tier().Seats(),
		FareAmount:             bk.FareAmount(),
		FareDisplay:            bookingDomain.FormatAmount(bk.FareAmount()),
		Currency:               bk.Currency(),
		Status:                 string(bk.Status()),
		StatusMessage:          bk.Status().Message(),
		EstimatedFlightMinutes: geo.EstimatedFlightMinutes(bk.DistanceKm()),
		Version:                bk.Version(),
		BookingTime:            bk.BookingTime(),
		UpdatedAt:              bk.UpdatedAt(),
	}
}

func (s *BookingService) cacheBooking(ctx context.Context, dto BookingDTO) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, dto.ID, dto); err != nil {
		s.logger.Warn("booking cache write failed", zap.String("booking_id", dto.ID.String()), zap.Error(err))
	}
}

func (s *BookingService) publishBookingConfirmed(ctx context.Context, bk *bookingDomain.Booking) {
	route := bk.Route()
	evt := contracts.BookingConfirmedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		StartLat:      route.Start.Lat,
		StartLng:      route.Start.Lng,
		EndLat:        route.End.Lat,
		EndLng:        route.End.Lng,
		StopCount:     len(route.Stops),
		DistanceKm:    bk.DistanceKm(),
		Tier:          string(bk.Tier()),
		Seats:         bk.Tier().Seats(),
		FareAmount:    bk.FareAmount(),
		Currency:      bk.Currency(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, contracts.TopicBookingEvents, contracts.BookingConfirmed, bk.ID().String(), evt)
}

// publishEvent is best effort: the booking is already persisted, so a broker
// failure is logged rather than returned.
func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := messaging.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
