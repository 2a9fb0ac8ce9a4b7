package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozledger/taxengine/internal/domain"
)

const sampleBatch = `
entity:
  id: "acme-group"
  name: "ACME Group Pty Ltd"
  period: "2024-25"
grouping:
  is_group_member: true
  total_group_wages: 4000000
  entity_count: 3
wage_records:
  - jurisdiction: "NSW"
    gross_wages: 2500000
    contractor_payments: 400000
    contractor_deeming_assessed: true
    employee_count: 24
  - jurisdiction: "VIC"
    gross_wages: 600000
contributions:
  - beneficiary_id: "emp-001"
    amount: 18000
    type: "SG"
    total_balance: 250000
    prior_year_contributions:
      "2023-24": 15000
distributions:
  - trust_id: "trust-01"
    beneficiary_id: "ben-01"
    amount: 90000
    type: "upe"
    is_non_resident: false
    upe_balance: 90000
    upe_age_years: 4
`

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	parser := NewInputParser()
	batch, err := parser.LoadFromFile(writeBatchFile(t, sampleBatch))
	require.NoError(t, err)

	assert.Equal(t, "acme-group", batch.Entity.ID)
	assert.Equal(t, "2024-25", batch.Entity.Period)
	require.Len(t, batch.WageRecords, 2)
	require.Len(t, batch.Contributions, 1)
	require.Len(t, batch.Distributions, 1)
	require.NotNil(t, batch.Grouping)
	assert.True(t, batch.Grouping.IsGroupMember)
}

func TestLoadFromFileErrors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = parser.LoadFromFile(writeBatchFile(t, "entity: [not a mapping"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name    string
		mutate  func(*BatchInput)
		wantErr string
	}{
		{
			name:    "missing entity id",
			mutate:  func(b *BatchInput) { b.Entity.ID = "" },
			wantErr: "entity id",
		},
		{
			name:    "bad period",
			mutate:  func(b *BatchInput) { b.Entity.Period = "2024/25" },
			wantErr: "entity period",
		},
		{
			name: "rate table period mismatch",
			mutate: func(b *BatchInput) {
				b.Rates = &domain.RateConfig{Period: "2023-24"}
			},
			wantErr: "does not match entity period",
		},
		{
			name: "bad prior year key",
			mutate: func(b *BatchInput) {
				b.Contributions = []ContributionInput{{
					BeneficiaryID:          "emp-001",
					PriorYearContributions: map[string]decimal.Decimal{"FY24": decimal.Zero},
				}}
			},
			wantErr: "prior year",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := &BatchInput{Entity: EntityInfo{ID: "acme", Period: "2024-25"}}
			tt.mutate(batch)
			err := parser.Validate(batch)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid minimal batch", func(t *testing.T) {
		batch := &BatchInput{Entity: EntityInfo{ID: "acme", Period: "2024-25"}}
		assert.NoError(t, parser.Validate(batch))
	})
}

func TestConverters(t *testing.T) {
	parser := NewInputParser()
	batch, err := parser.LoadFromFile(writeBatchFile(t, sampleBatch))
	require.NoError(t, err)

	t.Run("wage records keep tri-state answers", func(t *testing.T) {
		records := batch.DomainWageRecords()
		require.Len(t, records, 2)
		assert.Equal(t, domain.KnownTrue, records[0].ContractorDeemingAssessed)
		assert.Equal(t, domain.Unknown, records[1].ContractorDeemingAssessed, "an omitted answer is not a no")
		assert.True(t, records[0].LabourCost().Equal(decimal.NewFromInt(2900000)))
	})

	t.Run("contributions inherit the entity period", func(t *testing.T) {
		records := batch.DomainContributions()
		require.Len(t, records, 1)
		assert.Equal(t, "2024-25", records[0].Period)
		assert.Equal(t, domain.ContributionSG, records[0].Type)
		require.True(t, records[0].TotalBalance.Valid)
		assert.True(t, records[0].TotalBalance.Decimal.Equal(decimal.NewFromInt(250000)))
	})

	t.Run("missing balance stays null", func(t *testing.T) {
		b := &BatchInput{
			Entity:        EntityInfo{Period: "2024-25"},
			Contributions: []ContributionInput{{BeneficiaryID: "emp-002", Amount: decimal.NewFromInt(1000)}},
		}
		records := b.DomainContributions()
		require.Len(t, records, 1)
		assert.False(t, records[0].TotalBalance.Valid)
	})

	t.Run("distributions carry unknown flags", func(t *testing.T) {
		records := batch.DomainDistributions()
		require.Len(t, records, 1)
		assert.Equal(t, domain.KnownFalse, records[0].IsNonResident)
		assert.Equal(t, domain.Unknown, records[0].HasReimbursementPattern)
		require.True(t, records[0].UPEBalance.Valid)
		assert.Equal(t, 4, records[0].UPEAgeYears)
	})

	t.Run("grouping context", func(t *testing.T) {
		grouping := batch.GroupingContext()
		require.NotNil(t, grouping)
		assert.True(t, grouping.TotalGroupWages.Equal(decimal.NewFromInt(4000000)))

		empty := &BatchInput{}
		assert.Nil(t, empty.GroupingContext())
	})
}
