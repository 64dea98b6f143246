package models

import (
	"errors"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"
)

// NearNominationExp is the number of decimals in one NEAR (1 NEAR = 10^24 yoctoNEAR)
const NearNominationExp = 24

// ErrInvalidAmount is returned for negative, fractional-yocto or oversized amounts
var ErrInvalidAmount = errors.New("invalid amount")

// maxU128Digits is the number of decimal digits of 2^128-1
const maxU128Digits = 39

var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ParseNearAmount converts a NEAR denominated decimal ("1.5") into yoctoNEAR
func ParseNearAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	if d.IsZero() {
		return new(big.Int), nil
	}
	// bound the magnitude before shifting so huge exponents never get expanded
	magnitude := int64(d.Exponent()) + int64(d.NumDigits()) + NearNominationExp
	if magnitude > maxU128Digits {
		return nil, fmt.Errorf("%w: %q overflows u128", ErrInvalidAmount, s)
	}
	if magnitude < 0 {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, NearNominationExp)
	}
	yocto := d.Shift(NearNominationExp)
	if !yocto.Equal(yocto.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, NearNominationExp)
	}
	v := yocto.BigInt()
	if v.Cmp(maxU128) > 0 {
		return nil, fmt.Errorf("%w: %q overflows u128", ErrInvalidAmount, s)
	}
	return v, nil
}

// FormatNearAmount renders yoctoNEAR as a NEAR denominated decimal
func FormatNearAmount(yocto *big.Int) string {
	if yocto == nil {
		return "0"
	}
	return decimal.NewFromBigInt(yocto, -NearNominationExp).String()
}

// writeU128 writes a borsh u128. A nil amount is zero.
func writeU128(encoder *bin.Encoder, v *big.Int) error {
	var buf [16]byte
	if v != nil {
		if v.Sign() < 0 || v.Cmp(maxU128) > 0 {
			return fmt.Errorf("%w: %s does not fit u128", ErrInvalidAmount, v.String())
		}
		v.FillBytes(buf[:])
	}
	// FillBytes is big-endian, borsh is little-endian
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return encoder.WriteBytes(buf[:], false)
}
