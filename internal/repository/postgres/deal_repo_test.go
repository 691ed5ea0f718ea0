package postgres

import (
	"io/fs"
	"testing"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "500000", "7.5", "3496.07", "0.0001", "-12.34"} {
		in := decimal.RequireFromString(s)
		num, err := decimalToPgNumeric(in)
		require.NoError(t, err)
		assert.True(t, in.Equal(pgNumericToDecimal(num)), s)
	}
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{}).IsZero())
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/uw?sslmode=disable", migrationURL("postgres://u:p@localhost:5432/uw?sslmode=disable"))
	assert.Equal(t, "pgx5://localhost/uw", migrationURL("postgresql://localhost/uw"))
	assert.Equal(t, "pgx5://localhost/uw", migrationURL("pgx5://localhost/uw"))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, ups)
	assert.Equal(t, len(ups), len(downs))
}

func TestDealParamsAndRowRoundTrip(t *testing.T) {
	allocated := decimal.RequireFromString("150000")
	notes := "seller credit pending"
	deal := &domain.Deal{
		ID:                 5,
		WorkspaceID:        2,
		Name:               "Oak row",
		Type:               domain.DealTypeBlanket,
		LoanAmount:         decimal.RequireFromString("400000"),
		AnnualRatePercent:  decimal.RequireFromString("7.25"),
		AmortizationMonths: 360,
		AllocationMethod:   domain.AllocationMethodManual,
		Properties: []domain.DealProperty{
			{PropertyID: "a", PropertyValue: decimal.RequireFromString("250000"), MarketRent: decimal.RequireFromString("2100"), AllocatedLoanAmount: &allocated},
		},
		Status: domain.DealStatusAnalyzed,
		Analysis: &domain.DealAnalysis{
			DSCRRatio: decimal.RequireFromString("1.31"),
			Qualifies: true,
		},
		Notes: &notes,
	}

	params, err := toDealParams(deal)
	require.NoError(t, err)
	assert.True(t, params.notes.Valid)

	publicID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	row := dealRow{
		ID:                 deal.ID,
		PublicID:           pgtype.UUID{Bytes: publicID, Valid: true},
		WorkspaceID:        deal.WorkspaceID,
		Name:               deal.Name,
		Type:               string(deal.Type),
		LoanAmount:         params.loanAmount,
		AnnualRatePercent:  params.rate,
		AmortizationMonths: deal.AmortizationMonths,
		AllocationMethod:   string(deal.AllocationMethod),
		Properties:         params.properties,
		Status:             string(deal.Status),
		Analysis:           params.analysis,
		Notes:              params.notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	got, err := row.toDomain()
	require.NoError(t, err)
	assert.Equal(t, publicID, got.PublicID)
	assert.True(t, got.LoanAmount.Equal(deal.LoanAmount))
	assert.True(t, got.AnnualRatePercent.Equal(deal.AnnualRatePercent))
	require.Len(t, got.Properties, 1)
	require.NotNil(t, got.Properties[0].AllocatedLoanAmount)
	assert.True(t, got.Properties[0].AllocatedLoanAmount.Equal(allocated))
	require.NotNil(t, got.Analysis)
	assert.True(t, got.Analysis.DSCRRatio.Equal(decimal.RequireFromString("1.31")))
	assert.Equal(t, notes, *got.Notes)
	assert.Nil(t, got.DeletedAt)
}

func TestDealRow_NoAnalysis(t *testing.T) {
	row := dealRow{ID: 1, Properties: []byte(`[]`)}
	got, err := row.toDomain()
	require.NoError(t, err)
	assert.Nil(t, got.Analysis)
	assert.Nil(t, got.Notes)
}

func TestDealRow_CorruptProperties(t *testing.T) {
	row := dealRow{ID: 9, Properties: []byte(`{not json`)}
	_, err := row.toDomain()
	assert.ErrorContains(t, err, "decode properties of deal 9")
}
