package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFunding_RoundTrip(t *testing.T) {
	assert.Equal(t, 1500.0, ParseFunding("$1.5B"))
	assert.Equal(t, 0.25, ParseFunding("$250K"))
	assert.Equal(t, 0.0, ParseFunding("unknown"))
	assert.Equal(t, 0.0, ParseFunding(""))
}

func TestParseFunding_Variants(t *testing.T) {
	assert.Equal(t, 12.0, ParseFunding("Series A, $12M raised"))
	assert.Equal(t, 30.0, ParseFunding("30M"))
	assert.Equal(t, 2000.0, ParseFunding("$2b"))
	assert.Equal(t, 5.0, ParseFunding("5"))
	assert.Equal(t, 0.5, ParseFunding("$500k seed"))
}

func TestFundingMillions_OK(t *testing.T) {
	v, ok := FundingMillions("$120M")
	assert.True(t, ok)
	assert.Equal(t, 120.0, v)

	_, ok = FundingMillions("undisclosed")
	assert.False(t, ok)

	_, ok = FundingMillions("   ")
	assert.False(t, ok)

	// A bare dot matches the amount pattern but is not a number.
	_, ok = FundingMillions("t.b.d.")
	assert.False(t, ok)

	v, ok = FundingMillions("e.g. $5M raised")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
}
