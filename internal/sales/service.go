package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// ServiceConfig carries the optional collaborators of Service.
type ServiceConfig struct {
	Location *time.Location
	Logger   *slog.Logger
	Recorder Recorder
	Now      func() time.Time
}

// Service runs the dashboard pipeline and the record lifecycle.
type Service struct {
	repo       Repository
	reconciler *Reconciler
	logger     *slog.Logger
	loc        *time.Location
	now        func() time.Time
}

// NewService wires the service on top of repo.
func NewService(repo Repository, cfg ServiceConfig) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		repo:       repo,
		reconciler: NewReconciler(repo, cfg.Logger, cfg.Recorder),
		logger:     cfg.Logger,
		loc:        cfg.Location,
		now:        cfg.Now,
	}
}

// Location returns the zone civil dates are read in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns the current civil date.
func (s *Service) Today() time.Time {
	return Today(s.now(), s.loc)
}

// Dashboard loads, reconciles and aggregates the sales matching filter.
func (s *Service) Dashboard(ctx context.Context, filter Filter) (Dashboard, error) {
	q, err := filter.Query(s.loc)
	if err != nil {
		return Dashboard{}, err
	}

	var filtered, all []Sale
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.List(gctx, q)
		if err != nil {
			return fmt.Errorf("list filtered sales: %w", err)
		}
		filtered = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.List(gctx, Query{})
		if err != nil {
			return fmt.Errorf("list all sales: %w", err)
		}
		all = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	if filtered == nil {
		filtered = []Sale{}
	}

	today := s.Today()
	result := s.reconciler.Reconcile(ctx, filtered, today, s.loc)
	if result.Checked > 0 {
		s.logger.Info("sales reconciled",
			slog.Int("transitioned", result.Transitioned),
			slog.Int("failed", result.Failed),
		)
	}
	AnnotateOverdue(filtered, today, s.loc)

	return Dashboard{
		Sales:   filtered,
		Metrics: ComputeMetrics(filtered),
		Options: DeriveFilterOptions(all),
		Filter:  filter,
	}, nil
}

// Get loads one sale with its overdue annotation.
func (s *Service) Get(ctx context.Context, id string) (*Sale, error) {
	sale, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.OverdueDays = OverdueDays(*sale, s.Today(), s.loc)
	return sale, nil
}

// Create stores a new sale, defaulting an empty status to Due.
func (s *Service) Create(ctx context.Context, sale Sale) (Sale, error) {
	if err := normaliseStatus(&sale); err != nil {
		return Sale{}, err
	}
	id, err := s.repo.Insert(ctx, sale)
	if err != nil {
		return Sale{}, fmt.Errorf("insert sale: %w", err)
	}
	sale.ID = id
	return sale, nil
}

// Update replaces the persisted fields of the sale identified by id.
func (s *Service) Update(ctx context.Context, id string, sale Sale) error {
	if err := normaliseStatus(&sale); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, sale); err != nil {
		return fmt.Errorf("update sale %s: %w", id, err)
	}
	return nil
}

// Delete removes the sale. A sale that is already gone is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete sale %s: %w", id, err)
	}
	return nil
}

// ProductNames lists the products already on record, for form suggestions.
func (s *Service) ProductNames(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx, Query{})
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return DeriveFilterOptions(all).Products, nil
}

// SweepOverdue reconciles every Due sale regardless of any dashboard filter.
func (s *Service) SweepOverdue(ctx context.Context) (ReconcileResult, error) {
	due, err := s.repo.List(ctx, Query{Status: StatusDue})
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list due sales: %w", err)
	}
	return s.reconciler.Reconcile(ctx, due, s.Today(), s.loc), nil
}

// Seed replaces every stored sale with the given set.
func (s *Service) Seed(ctx context.Context, sales []Sale) (int, error) {
	for i := range sales {
		if err := normaliseStatus(&sales[i]); err != nil {
			return 0, err
		}
	}
	n, err := s.repo.ReplaceAll(ctx, sales)
	if err != nil {
		return 0, fmt.Errorf("replace sales: %w", err)
	}
	return n, nil
}

func normaliseStatus(sale *Sale) error {
	if sale.PaymentStatus == "" {
		sale.PaymentStatus = StatusDue
		return nil
	}
	if !sale.PaymentStatus.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
