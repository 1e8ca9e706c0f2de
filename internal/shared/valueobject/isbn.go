package valueobject

import (
	"strings"

	"pubs-backend/internal/shared"
)

// ISBN là mã sách đã được kiểm tra checksum (ISBN-10 hoặc ISBN-13).
// Value luôn là dạng chỉ gồm chữ số (và 'X' cho ISBN-10), không có gạch nối.
type ISBN struct {
	value string
}

// NewISBN strips hyphens and spaces, then validates the checksum.
func NewISBN(raw string) (ISBN, error) {
	if strings.TrimSpace(raw) == "" {
		return ISBN{}, shared.NewInvalidArgument("isbn", "ISBN cannot be empty")
	}

	clean := strings.NewReplacer("-", "", " ", "").Replace(raw)

	var ok bool
	switch len(clean) {
	case 10:
		ok = validISBN10(clean)
	case 13:
		ok = validISBN13(clean)
	}
	if !ok {
		return ISBN{}, shared.NewInvalidFormat("isbn", "invalid ISBN format")
	}

	return ISBN{value: clean}, nil
}

// MustISBN panics on invalid input. Dùng cho test và seed data.
func MustISBN(raw string) ISBN {
	isbn, err := NewISBN(raw)
	if err != nil {
		panic(err)
	}
	return isbn
}

func (i ISBN) Value() string  { return i.value }
func (i ISBN) String() string { return i.value }

// IsZero reports whether the ISBN was never constructed.
func (i ISBN) IsZero() bool { return i.value == "" }

// Is13 reports whether this is an ISBN-13.
func (i ISBN) Is13() bool { return len(i.value) == 13 }

// Weighted sum: digit i * (10 - i), last char may be 'X' = 10.
func validISBN10(s string) bool {
	sum := 0
	for i := 0; i < 9; i++ {
		d, ok := digit(s[i])
		if !ok {
			return false
		}
		sum += d * (10 - i)
	}

	last := s[9]
	switch {
	case last == 'X':
		sum += 10
	case last >= '0' && last <= '9':
		sum += int(last - '0')
	default:
		return false
	}

	return sum%11 == 0
}

// Weights alternate 1/3 over the first 12 digits.
func validISBN13(s string) bool {
	sum := 0
	for i := 0; i < 12; i++ {
		d, ok := digit(s[i])
		if !ok {
			return false
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}

	check, ok := digit(s[12])
	if !ok {
		return false
	}

	return (10-sum%10)%10 == check
}

func digit(c byte) (int, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}
