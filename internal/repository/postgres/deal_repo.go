package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dealColumns = `id, public_id, workspace_id, name, deal_type, loan_amount, annual_rate_percent,
	amortization_months, is_interest_only, allocation_method, properties, status, analysis, notes,
	created_at, updated_at, deleted_at`

// DealRepository implements domain.DealRepository using PostgreSQL. The
// property list and the analysis snapshot are stored as JSONB documents.
type DealRepository struct {
	pool *pgxpool.Pool
}

var _ domain.DealRepository = (*DealRepository)(nil)

// NewDealRepository creates a new DealRepository
func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{pool: pool}
}

// dealParams holds a deal's column values in database types
type dealParams struct {
	loanAmount pgtype.Numeric
	rate       pgtype.Numeric
	properties []byte
	analysis   []byte
	notes      pgtype.Text
}

func toDealParams(deal *domain.Deal) (dealParams, error) {
	var p dealParams
	var err error

	if p.loanAmount, err = decimalToPgNumeric(deal.LoanAmount); err != nil {
		return p, fmt.Errorf("encode loan amount: %w", err)
	}
	if p.rate, err = decimalToPgNumeric(deal.AnnualRatePercent); err != nil {
		return p, fmt.Errorf("encode rate: %w", err)
	}
	if p.properties, err = json.Marshal(deal.Properties); err != nil {
		return p, fmt.Errorf("encode properties: %w", err)
	}
	if deal.Analysis != nil {
		if p.analysis, err = json.Marshal(deal.Analysis); err != nil {
			return p, fmt.Errorf("encode analysis: %w", err)
		}
	}
	p.notes = textOrNull(deal.Notes)
	return p, nil
}

// Create inserts a deal and returns the stored row
func (r *DealRepository) Create(deal *domain.Deal) (*domain.Deal, error) {
	params, err := toDealParams(deal)
	if err != nil {
		return nil, err
	}

	publicID := deal.PublicID
	if publicID == uuid.Nil {
		publicID = uuid.New()
	}
	status := deal.Status
	if status == "" {
		status = domain.DealStatusDraft
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO deals (public_id, workspace_id, name, deal_type, loan_amount, annual_rate_percent,
			amortization_months, is_interest_only, allocation_method, properties, status, analysis, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+dealColumns,
		pgtype.UUID{Bytes: publicID, Valid: true},
		deal.WorkspaceID,
		deal.Name,
		string(deal.Type),
		params.loanAmount,
		params.rate,
		deal.AmortizationMonths,
		deal.IsInterestOnly,
		string(deal.AllocationMethod),
		params.properties,
		string(status),
		params.analysis,
		params.notes,
	)
	return scanDeal(row)
}

// GetByID retrieves a live deal within a workspace
func (r *DealRepository) GetByID(workspaceID int32, id int32) (*domain.Deal, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+dealColumns+` FROM deals
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`, workspaceID, id)
	return scanDeal(row)
}

// GetAllByWorkspace lists live deals, newest first
func (r *DealRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Deal, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+dealColumns+` FROM deals
		WHERE workspace_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]*domain.Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

// Update overwrites the deal's editable columns, including status and the
// analysis snapshot as given
func (r *DealRepository) Update(deal *domain.Deal) (*domain.Deal, error) {
	params, err := toDealParams(deal)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE deals SET
			name = $3,
			deal_type = $4,
			loan_amount = $5,
			annual_rate_percent = $6,
			amortization_months = $7,
			is_interest_only = $8,
			allocation_method = $9,
			properties = $10,
			status = $11,
			analysis = $12,
			notes = $13,
			updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+dealColumns,
		deal.WorkspaceID,
		deal.ID,
		deal.Name,
		string(deal.Type),
		params.loanAmount,
		params.rate,
		deal.AmortizationMonths,
		deal.IsInterestOnly,
		string(deal.AllocationMethod),
		params.properties,
		string(deal.Status),
		params.analysis,
		params.notes,
	)
	return scanDeal(row)
}

// SaveAnalysis stores an analysis snapshot and marks the deal analyzed,
// provided the row is unchanged since it was read at updatedAt
func (r *DealRepository) SaveAnalysis(workspaceID int32, id int32, analysis *domain.DealAnalysis, updatedAt time.Time) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	tag, err := r.pool.Exec(context.Background(), `
		UPDATE deals SET analysis = $3, status = $4, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL AND updated_at = $5`,
		workspaceID, id, payload, string(domain.DealStatusAnalyzed), updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.pool.QueryRow(context.Background(), `
		SELECT EXISTS (SELECT 1 FROM deals WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL)`,
		workspaceID, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrDealNotFound
	}
	return domain.ErrDealModified
}

// SoftDelete hides a deal until the retention worker purges it
func (r *DealRepository) SoftDelete(workspaceID int32, id int32) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE deals SET deleted_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

// PurgeDeleted hard-deletes deals soft-deleted before the cutoff
func (r *DealRepository) PurgeDeleted(before time.Time) (int64, error) {
	tag, err := r.pool.Exec(context.Background(), `
		DELETE FROM deals WHERE deleted_at IS NOT NULL AND deleted_at < $1`,
		pgtype.Timestamptz{Time: before, Valid: true})
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// dealRow is a deals row in database types
type dealRow struct {
	ID                 int32
	PublicID           pgtype.UUID
	WorkspaceID        int32
	Name               string
	Type               string
	LoanAmount         pgtype.Numeric
	AnnualRatePercent  pgtype.Numeric
	AmortizationMonths int32
	IsInterestOnly     bool
	AllocationMethod   string
	Properties         []byte
	Status             string
	Analysis           []byte
	Notes              pgtype.Text
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          pgtype.Timestamptz
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var d dealRow
	err := row.Scan(
		&d.ID, &d.PublicID, &d.WorkspaceID, &d.Name, &d.Type, &d.LoanAmount, &d.AnnualRatePercent,
		&d.AmortizationMonths, &d.IsInterestOnly, &d.AllocationMethod, &d.Properties, &d.Status,
		&d.Analysis, &d.Notes, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDealNotFound
		}
		return nil, err
	}
	return d.toDomain()
}

func (d dealRow) toDomain() (*domain.Deal, error) {
	deal := &domain.Deal{
		ID:                 d.ID,
		PublicID:           uuid.UUID(d.PublicID.Bytes),
		WorkspaceID:        d.WorkspaceID,
		Name:               d.Name,
		Type:               domain.DealType(d.Type),
		LoanAmount:         pgNumericToDecimal(d.LoanAmount),
		AnnualRatePercent:  pgNumericToDecimal(d.AnnualRatePercent),
		AmortizationMonths: d.AmortizationMonths,
		IsInterestOnly:     d.IsInterestOnly,
		AllocationMethod:   domain.AllocationMethod(d.AllocationMethod),
		Status:             domain.DealStatus(d.Status),
		Notes:              textPtr(d.Notes),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.DeletedAt.Valid {
		deletedAt := d.DeletedAt.Time
		deal.DeletedAt = &deletedAt
	}

	if err := json.Unmarshal(d.Properties, &deal.Properties); err != nil {
		return nil, fmt.Errorf("decode properties of deal %d: %w", d.ID, err)
	}
	if len(d.Analysis) > 0 {
		var analysis domain.DealAnalysis
		if err := json.Unmarshal(d.Analysis, &analysis); err != nil {
			return nil, fmt.Errorf("decode analysis of deal %d: %w", d.ID, err)
		}
		deal.Analysis = &analysis
	}
	return deal, nil
}
