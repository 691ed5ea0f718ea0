package service

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/metrics"
	"github.com/dafibh/underwriter/underwriter-backend/internal/repository/cache"
	"github.com/dafibh/underwriter/underwriter-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DealService handles deal business logic
type DealService struct {
	dealRepo       domain.DealRepository
	underwriting   *UnderwritingService
	cache          cache.AnalysisCache
	cacheTTL       time.Duration
	metrics        *metrics.Metrics
	eventPublisher websocket.EventPublisher
}

// NewDealService creates a new DealService. analysisCache may be nil.
func NewDealService(dealRepo domain.DealRepository, underwriting *UnderwritingService, analysisCache cache.AnalysisCache, cacheTTL time.Duration, m *metrics.Metrics) *DealService {
	return &DealService{
		dealRepo:     dealRepo,
		underwriting: underwriting,
		cache:        analysisCache,
		cacheTTL:     cacheTTL,
		metrics:      m,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *DealService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes an event if a publisher is configured
func (s *DealService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// DealInput contains the editable fields of a deal
type DealInput struct {
	Name               string
	Type               domain.DealType
	LoanAmount         decimal.Decimal
	AnnualRatePercent  decimal.Decimal
	AmortizationMonths int32
	IsInterestOnly     bool
	AllocationMethod   domain.AllocationMethod
	Properties         []domain.DealProperty
	Notes              *string
}

func (in DealInput) apply(deal *domain.Deal) {
	deal.Name = in.Name
	deal.Type = in.Type
	deal.LoanAmount = in.LoanAmount
	deal.AnnualRatePercent = in.AnnualRatePercent
	deal.AmortizationMonths = in.AmortizationMonths
	deal.IsInterestOnly = in.IsInterestOnly
	deal.AllocationMethod = in.AllocationMethod
	deal.Properties = append([]domain.DealProperty(nil), in.Properties...)
	deal.Notes = in.Notes
}

// CreateDeal validates and stores a new draft deal
func (s *DealService) CreateDeal(workspaceID int32, input DealInput) (*domain.Deal, error) {
	deal := &domain.Deal{
		WorkspaceID: workspaceID,
		Status:      domain.DealStatusDraft,
	}
	input.apply(deal)
	if err := deal.Validate(); err != nil {
		return nil, err
	}

	created, err := s.dealRepo.Create(deal)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.DealCreated(created))
	return created, nil
}

// GetDeal retrieves a deal by ID within a workspace
func (s *DealService) GetDeal(workspaceID int32, id int32) (*domain.Deal, error) {
	return s.dealRepo.GetByID(workspaceID, id)
}

// ListDeals retrieves all live deals of a workspace
func (s *DealService) ListDeals(workspaceID int32) ([]*domain.Deal, error) {
	return s.dealRepo.GetAllByWorkspace(workspaceID)
}

// UpdateDeal replaces a deal's fields. Photos are kept for properties whose
// ID is unchanged. A stored analysis survives only if the analysis inputs
// are unchanged; otherwise the deal returns to draft.
func (s *DealService) UpdateDeal(workspaceID int32, id int32, input DealInput) (*domain.Deal, error) {
	existing, err := s.dealRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	photos := make(map[string]*string, len(existing.Properties))
	for _, p := range existing.Properties {
		if p.PhotoURL != nil {
			photos[p.PropertyID] = p.PhotoURL
		}
	}

	deal := *existing
	input.apply(&deal)
	for i := range deal.Properties {
		if deal.Properties[i].PhotoURL == nil {
			deal.Properties[i].PhotoURL = photos[deal.Properties[i].PropertyID]
		}
	}
	if err := deal.Validate(); err != nil {
		return nil, err
	}

	if deal.Analysis != nil && deal.Analysis.Fingerprint != s.fingerprint(&deal) {
		deal.Analysis = nil
		deal.Status = domain.DealStatusDraft
	}

	updated, err := s.dealRepo.Update(&deal)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.DealUpdated(updated))
	return updated, nil
}

// DeleteDeal soft-deletes a deal; the purge worker removes it later
func (s *DealService) DeleteDeal(workspaceID int32, id int32) error {
	if err := s.dealRepo.SoftDelete(workspaceID, id); err != nil {
		return err
	}
	s.publishEvent(workspaceID, websocket.DealDeleted(map[string]int32{"id": id}))
	return nil
}

// AnalyzeDeal evaluates a deal, stores the snapshot and marks it analyzed.
// Results are reused from the analysis cache when the inputs are unchanged.
func (s *DealService) AnalyzeDeal(ctx context.Context, workspaceID int32, id int32) (*domain.Deal, error) {
	deal, err := s.dealRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	fingerprint := s.fingerprint(deal)
	analysis := s.cachedAnalysis(ctx, deal, fingerprint)
	if analysis == nil {
		analysis, err = s.underwriting.AnalyzeDeal(deal)
		if err != nil {
			return nil, err
		}
		analysis.Fingerprint = fingerprint
		if s.cache != nil {
			if err := s.cache.Set(ctx, fingerprint, analysis, s.cacheTTL); err != nil {
				log.Warn().Err(err).Int32("deal_id", id).Msg("Failed to cache deal analysis")
			}
		}
	}

	if err := s.dealRepo.SaveAnalysis(workspaceID, id, analysis, deal.UpdatedAt); err != nil {
		return nil, err
	}
	deal.Analysis = analysis
	deal.Status = domain.DealStatusAnalyzed

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("deal_id", id).
		Str("dscr", analysis.DSCRRatio.String()).
		Bool("qualifies", analysis.Qualifies).
		Msg("Deal analyzed")

	s.publishEvent(workspaceID, websocket.DealAnalyzed(deal))
	return deal, nil
}

func (s *DealService) fingerprint(deal *domain.Deal) string {
	return cache.Fingerprint(deal, s.underwriting.Policy())
}

// cachedAnalysis returns a cached analysis restamped for this deal, or nil
func (s *DealService) cachedAnalysis(ctx context.Context, deal *domain.Deal, fingerprint string) *domain.DealAnalysis {
	if s.cache == nil {
		return nil
	}

	analysis, err := s.cache.Get(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Int32("deal_id", deal.ID).Msg("Analysis cache lookup failed")
		}
		s.metrics.CacheLookup(false)
		return nil
	}
	s.metrics.CacheLookup(true)

	// Addresses are not part of the fingerprint
	if len(analysis.Properties) == len(deal.Properties) {
		for i := range analysis.Properties {
			analysis.Properties[i].Address = deal.Properties[i].Address
		}
	}
	analysis.AnalyzedAt = time.Now().UTC()
	return analysis
}
