package application

import (
	"context"
	"time"

	"github.com/flytaxi/service-booking/internal/domain"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/flytaxi/service-booking/internal/domain/geo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RouteDraftDTO is the response representation of a route draft.
type RouteDraftDTO struct {
	ID            uuid.UUID        `json:"id"`
	Start         *geo.Coordinate  `json:"start,omitempty"`
	End           *geo.Coordinate  `json:"end,omitempty"`
	Stops         []geo.Coordinate `json:"stops"`
	NextSelection string           `json:"next_selection"`
	Ready         bool             `json:"ready"`
	Tier          *string          `json:"tier,omitempty"`
	Quote         *FareQuoteDTO    `json:"quote,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// RouteDraftService drives map-based route picking up to booking confirmation.
type RouteDraftService struct {
	drafts   bookingDomain.DraftRepository
	bookings *BookingService
	logger   *zap.Logger
}

// NewRouteDraftService creates a new RouteDraftService.
func NewRouteDraftService(drafts bookingDomain.DraftRepository, bookings *BookingService, logger *zap.Logger) *RouteDraftService {
	return &RouteDraftService{drafts: drafts, bookings: bookings, logger: logger}
}

// StartDraft opens an empty draft.
func (s *RouteDraftService) StartDraft(ctx context.Context) (*RouteDraftDTO, error) {
	draft := bookingDomain.NewRouteDraft()
	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, err
	}
	return s.toDTO(draft), nil
}

// GetDraft loads a draft with a quote once both endpoints are set.
func (s *RouteDraftService) GetDraft(ctx context.Context, id uuid.UUID) (*RouteDraftDTO, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(draft), nil
}

// AddPoint records a map selection: pickup, then destination, then stops.
func (s *RouteDraftService) AddPoint(ctx context.Context, id uuid.UUID, point geo.Coordinate) (*RouteDraftDTO, error) {
	return s.modify(ctx, id, func(d *bookingDomain.RouteDraft) error {
		return d.Builder.AddPoint(point)
	})
}

// RemoveStop drops the intermediate stop at index.
func (s *RouteDraftService) RemoveStop(ctx context.Context, id uuid.UUID, index int) (*RouteDraftDTO, error) {
	return s.modify(ctx, id, func(d *bookingDomain.RouteDraft) error {
		return d.Builder.RemoveStop(index)
	})
}

// SelectTier sets the draft's tier. An unrecognised value clears the selection.
func (s *RouteDraftService) SelectTier(ctx context.Context, id uuid.UUID, tier string) (*RouteDraftDTO, error) {
	return s.modify(ctx, id, func(d *bookingDomain.RouteDraft) error {
		d.Tier = bookingDomain.ParseTier(tier)
		return nil
	})
}

// ConfirmDraft books the draft's route and discards the draft.
func (s *RouteDraftService) ConfirmDraft(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !draft.Builder.Ready() {
		return nil, domain.NewValidationError("please select a pickup and a destination")
	}
	if draft.Tier == nil {
		return nil, domain.NewValidationError("please select a tier")
	}

	result, err := s.bookings.CreateBooking(ctx, CreateBookingRequest{
		Start: draft.Builder.Start,
		End:   draft.Builder.End,
		Stops: draft.Builder.Stops,
		Tier:  string(*draft.Tier),
	})
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to discard confirmed draft",
			zap.String("draft_id", id.String()),
			zap.Error(err),
		)
	}
	return result, nil
}

func (s *RouteDraftService) modify(ctx context.Context, id uuid.UUID, fn func(*bookingDomain.RouteDraft) error) (*RouteDraftDTO, error) {
	draft, err := s.drafts.Update(ctx, id, func(d *bookingDomain.RouteDraft) error {
		if err := fn(d); err != nil {
			return err
		}
		d.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(draft), nil
}

func (s *RouteDraftService) toDTO(d *bookingDomain.RouteDraft) *RouteDraftDTO {
	stops := d.Builder.Stops
	if stops == nil {
		stops = []geo.Coordinate{}
	}
	dto := &RouteDraftDTO{
		ID:            d.ID,
		Start:         d.Builder.Start,
		End:           d.Builder.End,
		Stops:         stops,
		NextSelection: d.Builder.NextSelection(),
		Ready:         d.Builder.Ready(),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Tier != nil {
		t := string(*d.Tier)
		dto.Tier = &t
	}
	if dto.Ready {
		quote := s.bookings.quote(d.Builder.DistanceKm(), d.Tier)
		dto.Quote = &quote
	}
	return dto
}
