package services

import (
	"context"
	"errors"

	"socialdesk/internal/domain"
	"socialdesk/internal/media"
	"socialdesk/internal/repository"
	desk_errors "socialdesk/pkg/errors"
	"socialdesk/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const dashboardRecentBookings = 5

type AdminService struct {
	collections *repository.Collections
	media       *media.Handler
	cache       CountsCache
	logger      *logger.Logger
}

func NewAdminService(c *repository.Collections, m *media.Handler, cache CountsCache, l *logger.Logger) *AdminService {
	return &AdminService{collections: c, media: m, cache: cache, logger: l}
}

// Counts returns the number of records per collection, served from the cache
// when it holds a fresh value.
func (s *AdminService) Counts(ctx context.Context) (domain.Counts, error) {
	log := s.logger.WithContext(ctx)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			log.Warnf("read counts cache: %v", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	var counts domain.Counts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { counts.Bookings, err = s.collections.Bookings.Count(gctx); return })
	g.Go(func() (err error) { counts.Feedbacks, err = s.collections.Feedback.Count(gctx); return })
	g.Go(func() (err error) { counts.Reports, err = s.collections.Reports.Count(gctx); return })
	g.Go(func() (err error) { counts.AccountRecoveries, err = s.collections.Recoveries.Count(gctx); return })
	g.Go(func() (err error) { counts.Blogs, err = s.collections.Blogs.Count(gctx); return })
	if err := g.Wait(); err != nil {
		return domain.Counts{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, counts); err != nil {
			log.Warnf("write counts cache: %v", err)
		}
	}
	return counts, nil
}

type Dashboard struct {
	Admin          *domain.Admin    `json:"admin"`
	Counts         domain.Counts    `json:"counts"`
	RecentBookings []domain.Booking `json:"recentBookings"`
}

func (s *AdminService) Dashboard(ctx context.Context, admin *domain.Admin) (Dashboard, error) {
	counts, err := s.Counts(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.collections.Bookings.Find(ctx, nil, dashboardRecentBookings)
	if err != nil {
		return Dashboard{}, err
	}
	if recent == nil {
		recent = []domain.Booking{}
	}
	return Dashboard{Admin: admin, Counts: counts, RecentBookings: recent}, nil
}

// UpdateProfile changes the name and e-mail of the admin. An e-mail owned by
// another admin is a conflict.
func (s *AdminService) UpdateProfile(ctx context.Context, adminID string, in domain.ProfileInput) (*domain.Admin, error) {
	if in.Email != nil {
		email, err := domain.ValidateEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		other, err := s.collections.Admins.FindOne(ctx, repository.Filter{"email": email})
		switch {
		case err == nil && other.ID.Hex() != adminID:
			return nil, desk_errors.ErrConflict
		case err != nil && !errors.Is(err, desk_errors.ErrNotFound):
			return nil, err
		}
	}
	admin, err := s.collections.Admins.Update(ctx, adminID, in.Apply)
	if errors.Is(err, desk_errors.ErrNotFound) {
		return nil, desk_errors.Unauthorized(MsgTokenInvalid)
	}
	return admin, err
}

// DestroyMedia removes one object from the media host and reports failures.
func (s *AdminService) DestroyMedia(ctx context.Context, publicID, resourceType string) error {
	if err := s.media.Destroy(ctx, publicID, resourceType); err != nil {
		return err
	}
	s.logger.WithContext(ctx).Infof("media %s destroyed", publicID)
	return nil
}
