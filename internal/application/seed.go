package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type SeedOptions struct {
	DefaultUser      domain.Credentials
	CustomerPassword string
	Concurrency      int
}

// SeedService wipes and reloads the demo dataset through the hosted API.
// A failed run is not rolled back: rows written before the failure stay.
type SeedService struct {
	accounts  domain.AuthProvider
	rows      domain.RowStore
	generator domain.DatasetGenerator
	journal   domain.JournalRepository
	opts      SeedOptions
	newID     func() string
}

func NewSeedService(accounts domain.AuthProvider, rows domain.RowStore, generator domain.DatasetGenerator, journal domain.JournalRepository, opts SeedOptions) *SeedService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &SeedService{
		accounts:  accounts,
		rows:      rows,
		generator: generator,
		journal:   journal,
		opts:      opts,
		newID:     uuid.NewString,
	}
}

// Regenerate runs one full replace of the dataset and journals the outcome.
func (s *SeedService) Regenerate(ctx context.Context) (domain.SeedRun, error) {
	journalCtx := context.WithoutCancel(ctx)
	run, err := s.journal.CreateSeedRun(journalCtx, domain.SeedRun{
		Status:    domain.SeedRunRunning,
		StartedAt: time.Now().UTC(),
		Counts:    map[string]int{},
	})
	if err != nil {
		return domain.SeedRun{}, fmt.Errorf("journal seed run: %w", err)
	}

	counts, runErr := s.regenerate(ctx, run.Counts)

	finished := time.Now().UTC()
	run.Counts = counts
	run.FinishedAt = &finished
	run.Status = domain.SeedRunSucceeded
	if runErr != nil {
		run.Status = domain.SeedRunFailed
		run.Error = runErr.Error()
	}

	if err := s.journal.FinishSeedRun(journalCtx, run); err != nil {
		log.Printf("journal seed run %d: %v", run.ID, err)
	}
	_ = s.journal.CreateAuditEntry(journalCtx, domain.AuditEntry{
		Action:   "seed.regenerate",
		Target:   "dataset",
		Metadata: fmt.Sprintf("run=%d status=%s", run.ID, run.Status),
	})
	return run, runErr
}

func (s *SeedService) regenerate(ctx context.Context, counts map[string]int) (map[string]int, error) {
	if counts == nil {
		counts = map[string]int{}
	}
	s.ensureDefaultUser(ctx)

	for _, entity := range domain.DeletionOrder {
		if err := s.rows.DeleteAll(ctx, entity); err != nil {
			log.Printf("delete %s: %v", entity, err)
			return counts, fmt.Errorf("delete %s: %w", entity, err)
		}
	}

	data, err := s.generator.Generate(ctx)
	if err != nil {
		return counts, fmt.Errorf("generate dataset: %w", err)
	}
	plan, err := buildPlan(data, s.newID)
	if err != nil {
		return counts, err
	}

	if err := s.insert(ctx, counts, domain.EntityCategory, plan.Categories, len(plan.Categories)); err != nil {
		return counts, err
	}
	if err := s.insert(ctx, counts, domain.EntityProduct, plan.Products, len(plan.Products)); err != nil {
		return counts, err
	}
	if err := s.loadCustomers(ctx, plan.Customers); err != nil {
		return counts, err
	}
	counts[domain.EntityCustomer] = len(plan.Customers)
	if err := s.insert(ctx, counts, domain.EntityCommand, plan.Commands, len(plan.Commands)); err != nil {
		return counts, err
	}
	if err := s.insert(ctx, counts, domain.EntityInvoice, plan.Invoices, len(plan.Invoices)); err != nil {
		return counts, err
	}
	if err := s.insert(ctx, counts, domain.EntityReview, plan.Reviews, len(plan.Reviews)); err != nil {
		return counts, err
	}
	return counts, nil
}

func (s *SeedService) ensureDefaultUser(ctx context.Context) {
	if strings.TrimSpace(s.opts.DefaultUser.Email) == "" {
		return
	}
	_, err := s.accounts.CreateUser(ctx, s.opts.DefaultUser)
	switch {
	case err == nil:
		log.Printf("created default user %s", s.opts.DefaultUser.Email)
	case errors.Is(err, domain.ErrAccountExists):
		log.Printf("default user %s already exists", s.opts.DefaultUser.Email)
	default:
		log.Printf("create default user %s: %v", s.opts.DefaultUser.Email, err)
	}
}

func (s *SeedService) insert(ctx context.Context, counts map[string]int, entity string, rows any, n int) error {
	if n == 0 {
		counts[entity] = 0
		return nil
	}
	log.Printf("adding %d %s", n, entity)
	if err := s.rows.Insert(ctx, entity, rows); err != nil {
		log.Printf("insert %d %s: %v", n, entity, err)
		return fmt.Errorf("insert %d %s: %w", n, entity, err)
	}
	counts[entity] = n
	log.Printf("added %d %s", n, entity)
	return nil
}

// loadCustomers creates one login account per customer, then inserts the
// customer row pointing at it. Customers load concurrently; the first
// failure cancels the rest.
func (s *SeedService) loadCustomers(ctx context.Context, customers []domain.CustomerRow) error {
	log.Printf("adding %d %s", len(customers), domain.EntityCustomer)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, row := range customers {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			account, err := s.accounts.CreateUser(gctx, domain.Credentials{Email: row.Email, Password: s.opts.CustomerPassword})
			if err != nil {
				return fmt.Errorf("create account %s: %w", row.Email, err)
			}
			row.UserID = account.ID
			if err := s.rows.Insert(gctx, domain.EntityCustomer, row); err != nil {
				log.Printf("insert customer %s: %v", row.Email, err)
				return fmt.Errorf("insert customer %s: %w", row.Email, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf("added %d %s", len(customers), domain.EntityCustomer)
	return nil
}
