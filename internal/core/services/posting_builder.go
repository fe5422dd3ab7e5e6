package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
)

// SplitGrossVAT derives the net and VAT components of a gross amount at the
// given VAT rate: vat = gross * r/(1+r), net = gross - vat (spec §4.3).
func SplitGrossVAT(gross domain.Money, rate domain.VATRate) (net, vat domain.Money) {
	r := decimal.NewFromFloat(rate.Fraction())
	vat = gross.MulRate(r.Div(decimal.NewFromInt(1).Add(r)))
	net = gross.Sub(vat)
	return net, vat
}

// BuildPostings derives the signed AccountPostings for one Occurrence,
// mirroring the teacher's CalculateSignedAmount shape: the sign is
// determined by the occurrence's kind rather than a five-way AccountType
// switch, since this domain has a fixed four-account model instead of a
// general chart of accounts.
func BuildPostings(o domain.Occurrence) ([]domain.AccountPosting, error) {
	switch o.Kind {
	case domain.OccurrenceRevenue:
		return []domain.AccountPosting{
			{Account: domain.Operating, Amount: o.NetAmount, Description: fmt.Sprintf("%s (revenue)", o.PatternName)},
			{Account: domain.VAT, Amount: o.VATAmount, Description: fmt.Sprintf("%s (VAT collected)", o.PatternName)},
		}, nil
	case domain.OccurrenceExpense:
		postings := []domain.AccountPosting{
			{Account: domain.Operating, Amount: o.NetAmount.Neg(), Description: fmt.Sprintf("%s (expense)", o.PatternName)},
		}
		if o.VATDeductible != nil && *o.VATDeductible && o.VATAmount.IsPositive() {
			postings = append(postings, domain.AccountPosting{
				Account:     domain.VAT,
				Amount:      o.VATAmount.Neg(),
				Description: fmt.Sprintf("%s (VAT deducted)", o.PatternName),
			})
		}
		return postings, nil
	default:
		return nil, fmt.Errorf("unknown occurrence kind %q for pattern %s", o.Kind, o.PatternID)
	}
}
