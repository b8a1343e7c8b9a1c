package application

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/flytaxi/service-booking/internal/domain"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/flytaxi/service-booking/internal/messaging"
	"github.com/google/uuid"
)

type memoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	saveErr  error
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *memoryBookingRepo) clone(bk *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(bk.ID(), bk.BookingNumber(), bk.Route(), bk.DistanceKm(),
		bk.Tier(), bk.FareAmount(), bk.Currency(), bk.Status(), bk.Version(), bk.BookingTime(), bk.UpdatedAt())
}

func (r *memoryBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return r.clone(bk), nil
}

func (r *memoryBookingRepo) FindByNumber(_ context.Context, number string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.BookingNumber() == number {
			return r.clone(bk), nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", number)
}

func (r *memoryBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, bk := range r.bookings {
		all = append(all, r.clone(bk))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].BookingTime().After(all[j].BookingTime()) })

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *memoryBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *memoryBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = r.clone(bk)
	return nil
}

func (r *memoryBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[bk.ID()]
	if !ok || stored.Version() != bk.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[bk.ID()] = r.clone(bk)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.CloudEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, _ string, event messaging.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]byte
	gets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[uuid.UUID][]byte)}
}

func (c *memoryCache) Get(_ context.Context, id uuid.UUID, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.entries[id]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(data, dst)
}

func (c *memoryCache) Set(_ context.Context, id uuid.UUID, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = data
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

type memoryDraftRepo struct {
	mu     sync.Mutex
	drafts map[uuid.UUID][]byte
}

func newMemoryDraftRepo() *memoryDraftRepo {
	return &memoryDraftRepo{drafts: make(map[uuid.UUID][]byte)}
}

func (r *memoryDraftRepo) Create(_ context.Context, d *bookingDomain.RouteDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drafts[d.ID]; ok {
		return domain.NewConflictError("draft exists")
	}
	data, err := json.Marshal(d)
	r.drafts[d.ID] = data
	return err
}

func (r *memoryDraftRepo) Get(_ context.Context, id uuid.UUID) (*bookingDomain.RouteDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.drafts[id]
	if !ok {
		return nil, domain.NewNotFoundError("RouteDraft", id.String())
	}
	var d bookingDomain.RouteDraft
	return &d, json.Unmarshal(data, &d)
}

func (r *memoryDraftRepo) Update(_ context.Context, id uuid.UUID, fn func(*bookingDomain.RouteDraft) error) (*bookingDomain.RouteDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.drafts[id]
	if !ok {
		return nil, domain.NewNotFoundError("RouteDraft", id.String())
	}
	var d bookingDomain.RouteDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if err := fn(&d); err != nil {
		return nil, err
	}
	updated, err := json.Marshal(&d)
	if err != nil {
		return nil, err
	}
	r.drafts[id] = updated
	return &d, nil
}

func (r *memoryDraftRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

var errBrokerDown = errors.New("broker down")
