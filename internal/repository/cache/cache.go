// Package cache stores computed deal analyses keyed by a fingerprint of
// every input that affects them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dafibh/underwriter/underwriter-backend/internal/config"
	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/finance"
)

// ErrMiss is returned when no analysis is cached for a fingerprint
var ErrMiss = errors.New("analysis not cached")

// AnalysisCache stores deal analyses by fingerprint
type AnalysisCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.DealAnalysis, error)
	Set(ctx context.Context, fingerprint string, analysis *domain.DealAnalysis, ttl time.Duration) error
}

// fingerprintInput lists everything an analysis depends on, including the
// policy thresholds behind its warnings. Names, notes and photos are left
// out so cosmetic edits reuse the cached result.
type fingerprintInput struct {
	Calculator         finance.Config          `json:"calculator"`
	Policy             []string                `json:"policy"`
	Type               domain.DealType         `json:"type"`
	LoanAmount         string                  `json:"loanAmount"`
	AnnualRatePercent  string                  `json:"annualRatePercent"`
	AmortizationMonths int32                   `json:"amortizationMonths"`
	IsInterestOnly     bool                    `json:"isInterestOnly"`
	AllocationMethod   domain.AllocationMethod `json:"allocationMethod"`
	Properties         []fingerprintProperty   `json:"properties"`
}

type fingerprintProperty struct {
	PropertyID string   `json:"id"`
	Values     []string `json:"values"`
	Allocated  string   `json:"allocated,omitempty"`
}

// Fingerprint hashes the analysis inputs of a deal under policy with
// xxhash. Decimal values are normalized so "7.50" and "7.5" hash the same.
func Fingerprint(deal *domain.Deal, policy config.Policy) string {
	in := fingerprintInput{
		Calculator: policy.Calculator,
		Policy: []string{
			policy.MinimumDSCR.String(),
			policy.TargetDSCR.String(),
			policy.WarnAnnualRatePercent.String(),
			policy.MaxLTVPercent.String(),
		},
		Type:               deal.Type,
		LoanAmount:         deal.LoanAmount.String(),
		AnnualRatePercent:  deal.AnnualRatePercent.String(),
		AmortizationMonths: deal.AmortizationMonths,
		IsInterestOnly:     deal.IsInterestOnly,
		AllocationMethod:   deal.AllocationMethod,
		Properties:         make([]fingerprintProperty, len(deal.Properties)),
	}
	for i, p := range deal.Properties {
		fp := fingerprintProperty{
			PropertyID: p.PropertyID,
			Values: []string{
				p.PropertyValue.String(),
				p.CurrentLeaseRent.String(),
				p.MarketRent.String(),
				p.PropertyTaxesAnnual.String(),
				p.InsuranceAnnual.String(),
				p.FloodInsuranceAnnual.String(),
				p.HOADuesMonthly.String(),
			},
		}
		if p.AllocatedLoanAmount != nil {
			fp.Allocated = p.AllocatedLoanAmount.String()
		}
		in.Properties[i] = fp
	}

	// Marshalling plain strings, ints and bools cannot fail
	raw, _ := json.Marshal(in)
	return strconv.FormatUint(xxhash.Sum64(raw), 16)
}

func key(fingerprint string) string {
	return fmt.Sprintf("underwriter:analysis:%s", fingerprint)
}

// sweepInterval is the minimum time between expiry sweeps of a MemoryCache
const sweepInterval = time.Minute

// MemoryCache is an in-process AnalysisCache used when Redis is not
// configured, and in tests. Expired entries are swept on Set.
type MemoryCache struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

var _ AnalysisCache = (*MemoryCache)(nil)

// NewMemoryCache creates an empty MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns a copy of the cached analysis
func (c *MemoryCache) Get(ctx context.Context, fingerprint string) (*domain.DealAnalysis, error) {
	c.mu.RLock()
	entry, ok := c.entries[key(fingerprint)]
	c.mu.RUnlock()

	if !ok || entry.expired(c.now()) {
		return nil, ErrMiss
	}
	var analysis domain.DealAnalysis
	if err := json.Unmarshal(entry.payload, &analysis); err != nil {
		return nil, fmt.Errorf("decode cached analysis: %w", err)
	}
	return &analysis, nil
}

// Set stores the analysis; a ttl of zero never expires
func (c *MemoryCache) Set(ctx context.Context, fingerprint string, analysis *domain.DealAnalysis, ttl time.Duration) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	now := c.now()
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !now.Before(c.nextSweep) {
		for k, e := range c.entries {
			if e.expired(now) {
				delete(c.entries, k)
			}
		}
		c.nextSweep = now.Add(sweepInterval)
	}
	c.entries[key(fingerprint)] = entry
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
