package services

import (
	"context"
	"time"

	"socialdesk/internal/domain"
	"socialdesk/internal/repository"
	desk_errors "socialdesk/pkg/errors"
)

type BookingService struct {
	repo   *repository.BookingRepository
	counts countsTracker
	now    func() time.Time
}

func NewBookingService(repo *repository.BookingRepository, counts countsTracker) *BookingService {
	return &BookingService{repo: repo, counts: counts, now: time.Now}
}

// Create validates and stores a booking. A taken slot is reported by the
// pre-check or, when two requests race, by the unique slot index.
func (s *BookingService) Create(ctx context.Context, in domain.BookingInput) (*domain.Booking, error) {
	booking, err := domain.NewBooking(in, s.now())
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.Exists(ctx, slotFilter(booking.AppointmentDate, booking.AppointmentTime))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, desk_errors.Invalid(domain.MsgSlotTaken)
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.counts.invalidate(ctx)
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, page repository.Page) (repository.PageResult[domain.Booking], error) {
	return s.repo.List(ctx, page)
}

func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.counts.invalidate(ctx)
	return nil
}

// Recent returns the newest bookings.
func (s *BookingService) Recent(ctx context.Context, n int64) ([]domain.Booking, error) {
	return s.repo.Find(ctx, nil, n)
}

type Availability struct {
	Date      string   `json:"date"`
	Available []string `json:"available"`
	Booked    []string `json:"booked"`
}

// Availability lists the free and booked slots of one day.
func (s *BookingService) Availability(ctx context.Context, date string) (Availability, error) {
	day, ok := domain.ParseDate(date)
	if !ok {
		return Availability{}, desk_errors.Invalid(domain.MsgInvalidDate)
	}
	bookings, err := s.repo.Find(ctx, repository.Filter{"appointmentDate": day}, 0)
	if err != nil {
		return Availability{}, err
	}
	taken := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		taken[b.AppointmentTime] = true
	}
	out := Availability{Date: day.Format("2006-01-02"), Available: []string{}, Booked: []string{}}
	for _, slot := range domain.AppointmentTimes {
		if taken[slot] {
			out.Booked = append(out.Booked, slot)
		} else {
			out.Available = append(out.Available, slot)
		}
	}
	return out, nil
}

func slotFilter(date time.Time, slot string) repository.Filter {
	return repository.Filter{"appointmentDate": date, "appointmentTime": slot}
}
