package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/core/services"
)

func TestSplitGrossVAT(t *testing.T) {
	net, vat := services.SplitGrossVAT(domain.MoneyFromFloat(1200), domain.VATRateStandard)

	assert.True(t, net.WithinTolerance(domain.MoneyFromFloat(1000)))
	assert.True(t, vat.WithinTolerance(domain.MoneyFromFloat(200)))
	assert.True(t, net.Add(vat).WithinTolerance(domain.MoneyFromFloat(1200)))
}

func TestSplitGrossVAT_ZeroRate(t *testing.T) {
	net, vat := services.SplitGrossVAT(domain.MoneyFromFloat(500), domain.VATRateZero)

	assert.True(t, net.Equal(domain.MoneyFromFloat(500)))
	assert.True(t, vat.IsZero())
}

func TestBuildPostings_Revenue(t *testing.T) {
	o := domain.Occurrence{
		Kind:        domain.OccurrenceRevenue,
		PatternName: "consulting",
		NetAmount:   domain.MoneyFromFloat(1000),
		VATAmount:   domain.MoneyFromFloat(200),
	}

	postings, err := services.BuildPostings(o)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, domain.Operating, postings[0].Account)
	assert.True(t, postings[0].Amount.Equal(domain.MoneyFromFloat(1000)))
	assert.Equal(t, domain.VAT, postings[1].Account)
	assert.True(t, postings[1].Amount.Equal(domain.MoneyFromFloat(200)))
}

func TestBuildPostings_ExpenseDeductible(t *testing.T) {
	deductible := true
	o := domain.Occurrence{
		Kind:          domain.OccurrenceExpense,
		PatternName:   "rent",
		NetAmount:     domain.MoneyFromFloat(2000),
		VATAmount:     domain.MoneyFromFloat(400),
		VATDeductible: &deductible,
	}

	postings, err := services.BuildPostings(o)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.True(t, postings[0].Amount.Equal(domain.MoneyFromFloat(-2000)))
	assert.True(t, postings[1].Amount.Equal(domain.MoneyFromFloat(-400)))
}

func TestBuildPostings_ExpenseNonDeductible(t *testing.T) {
	deductible := false
	o := domain.Occurrence{
		Kind:          domain.OccurrenceExpense,
		PatternName:   "insurance",
		NetAmount:     domain.MoneyFromFloat(800),
		VATAmount:     domain.MoneyFromFloat(160),
		VATDeductible: &deductible,
	}

	postings, err := services.BuildPostings(o)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, domain.Operating, postings[0].Account)
}

func TestBuildPostings_UnknownKind(t *testing.T) {
	_, err := services.BuildPostings(domain.Occurrence{Kind: "mystery"})
	assert.Error(t, err)
}
