package model

import (
	"strings"
	"testing"

	"github.com/kasflow/txbuilder/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(prefix string) string {
	return prefix + ":" + strings.Repeat("q", 61)
}

func TestValidateAddress(t *testing.T) {
	require.NoError(t, ValidateAddress("mainnet", testAddress("kaspa")))
	require.NoError(t, ValidateAddress("testnet-10", testAddress("kaspatest")))
	require.NoError(t, ValidateAddress("simnet", testAddress("kaspasim")))
}

func TestValidateAddressWrongNetwork(t *testing.T) {
	err := ValidateAddress("mainnet", testAddress("kaspatest"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestValidateAddressMissingPrefix(t *testing.T) {
	err := ValidateAddress("mainnet", strings.Repeat("q", 61))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestValidateAddressBadCharset(t *testing.T) {
	// 'b' and '1' are not in the bech32 charset
	err := ValidateAddress("mainnet", "kaspa:"+strings.Repeat("b", 61))
	require.Error(t, err)

	err = ValidateAddress("mainnet", "kaspa:"+strings.Repeat("1", 61))
	require.Error(t, err)
}

func TestValidateAddressBadLength(t *testing.T) {
	require.Error(t, ValidateAddress("mainnet", "kaspa:"+strings.Repeat("q", 10)))
	require.Error(t, ValidateAddress("mainnet", "kaspa:"+strings.Repeat("q", 80)))
}

func TestValidateAddressUnknownNetwork(t *testing.T) {
	err := ValidateAddress("regtest", testAddress("kaspa"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestPaymentOutputValidate(t *testing.T) {
	p := &PaymentOutput{Address: testAddress("kaspa"), Amount: 100}
	require.NoError(t, p.Validate("mainnet"))

	p = &PaymentOutput{Address: testAddress("kaspa"), Amount: 0}
	require.Error(t, p.Validate("mainnet"))
}

func TestSumPaymentAmountsOverflow(t *testing.T) {
	payments := []*PaymentOutput{
		{Address: testAddress("kaspa"), Amount: ^uint64(0)},
		{Address: testAddress("kaspa"), Amount: 1},
	}

	_, err := SumPaymentAmounts(payments)
	require.Error(t, err)
}
