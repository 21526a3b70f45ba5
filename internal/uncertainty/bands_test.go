package uncertainty

import (
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestWidth(t *testing.T) {
	c := DefaultConfig()
	assert.True(t, c.Width(0, domain.KindIncomeTax, false).Equal(d(0.12)))
	assert.True(t, c.Width(0, domain.KindSpending, false).Equal(d(0.08)))
	assert.True(t, c.Width(0, domain.KindIncomeTax, true).Equal(d(0.18)))
	assert.True(t, c.Width(9, domain.KindTransfer, false).Equal(d(0.224)))
}

func TestBand_BracketsCentral(t *testing.T) {
	central := []decimal.Decimal{d(-250), d(-10), decimal.Zero, d(10), d(400), d(-3), d(7), d(1), d(-1), d(99)}

	for _, kind := range []domain.Kind{domain.KindIncomeTax, domain.KindSpending} {
		for _, dynamic := range []bool{false, true} {
			low, high := Band(central, kind, dynamic)
			for i, c := range central {
				assert.True(t, low[i].LessThanOrEqual(c), "year %d kind %s: low %s > central %s", i, kind, low[i], c)
				assert.True(t, high[i].GreaterThanOrEqual(c), "year %d kind %s: high %s < central %s", i, kind, high[i], c)
			}
		}
	}
}

func TestBand_Values(t *testing.T) {
	low, high := Band([]decimal.Decimal{d(100)}, domain.KindIncomeTax, false)
	// width 0.12: 100 * (1 - 0.108), 100 * (1 + 0.132)
	assert.True(t, low[0].Equal(d(89.2)), "got %s", low[0])
	assert.True(t, high[0].Equal(d(113.2)), "got %s", high[0])

	low, high = Band([]decimal.Decimal{d(-100)}, domain.KindIncomeTax, false)
	assert.True(t, low[0].Equal(d(-113.2)))
	assert.True(t, high[0].Equal(d(-89.2)))
}
