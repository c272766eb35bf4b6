package model

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 金額（最小単位=1/100で保持する）
// 12.50 は Money(1250)。小数の丸め誤差を持ち込まないため int64。
type Money int64

var (
	ErrInvalidMoney  = errors.New("invalid money")
	ErrMoneyOverflow = errors.New("money overflow")
)

// 単価×数量。負の値とint64を超える結果はエラー。
func (m Money) Mul(qty int64) (Money, error) {
	if m < 0 || qty < 0 {
		return 0, ErrMoneyOverflow
	}
	if m != 0 && qty > math.MaxInt64/int64(m) {
		return 0, ErrMoneyOverflow
	}
	return m * Money(qty), nil
}

// 合計の加算（非負同士）
func (m Money) Add(o Money) (Money, error) {
	if m < 0 || o < 0 || o > math.MaxInt64-m {
		return 0, ErrMoneyOverflow
	}
	return m + o, nil
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// JSONでは小数2桁の数値で出す（"12.50" ではなく 12.50）
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	// "12.5" のような文字列表現も受け付ける
	s := strings.Trim(string(b), `"`)
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// 10進表記をMoneyに変換する。小数3桁以上はエラー。
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMoney
	}

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" || len(frac) > 2 {
		return 0, ErrInvalidMoney
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 || w > (math.MaxInt64-99)/100 {
		return 0, ErrInvalidMoney
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || f < 0 {
		return 0, ErrInvalidMoney
	}

	v := w*100 + f
	if neg {
		v = -v
	}
	return Money(v), nil
}
