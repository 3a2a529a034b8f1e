package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marealta/backend/internal/domain/finance"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/logger"
)

// Service manages the financial ledger. Workflow entries (order
// receivables, counter sales) are written by their own services; this
// one covers manual entries and settlement.
type Service struct {
	repo finance.TransactionRepository
}

// NewService creates a new finance Service
func NewService(repo finance.TransactionRepository) *Service {
	return &Service{repo: repo}
}

func tenantFromContext(ctx context.Context) (uuid.UUID, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return uuid.Nil, shared.ErrTenantRequired
	}
	return tenantID, nil
}

// RecordRequest carries the input for a manual ledger entry
type RecordRequest struct {
	Type        string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     *time.Time      `json:"due_date"`
}

// Record writes a manual pending transaction
func (s *Service) Record(ctx context.Context, req RecordRequest) (*finance.Transaction, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := finance.NewTransaction(tenantID, finance.TransactionType(req.Type), req.Category, req.Description, req.Amount, nil)
	if err != nil {
		return nil, err
	}
	tx.DueDate = req.DueDate

	if err := s.repo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Get returns a transaction by ID
func (s *Service) Get(ctx context.Context, txID uuid.UUID) (*finance.Transaction, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByIDForTenant(ctx, tenantID, txID)
}

// List returns ledger entries for the active tenant
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]*finance.Transaction, int64, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListForTenant(ctx, tenantID, filter)
}

// ListByReference returns the entries a workflow wrote for one aggregate
func (s *Service) ListByReference(ctx context.Context, referenceID uuid.UUID) ([]*finance.Transaction, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByReferenceForTenant(ctx, tenantID, referenceID)
}

// MarkPaid settles a pending transaction
func (s *Service) MarkPaid(ctx context.Context, txID uuid.UUID) (*finance.Transaction, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.FindByIDForTenant(ctx, tenantID, txID)
	if err != nil {
		return nil, err
	}
	if err := tx.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Cancel voids a pending transaction
func (s *Service) Cancel(ctx context.Context, txID uuid.UUID) (*finance.Transaction, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.FindByIDForTenant(ctx, tenantID, txID)
	if err != nil {
		return nil, err
	}
	if err := tx.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Summary aggregates the ledger over a period. A zero from/to pair means
// the current month.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*finance.Summary, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if from.IsZero() && to.IsZero() {
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	}
	return s.repo.SummaryForTenant(ctx, tenantID, from, to)
}
