package validate_test

import (
	"fmt"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/validate"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC)

func TestDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"15/07/2024", true},
		{" 01/01/2020 ", true},
		{"15/07/2026", true},
		{"16/07/2026", false},
		{"31/12/2019", false},
		{"1/7/2024", false},
		{"2024-07-15", false},
		{"31/02/2024", false},
		{"15/07/24", false},
		{"", false},
		{"oggi", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := validate.Date(tt.input, now, 2020)
			assert.Equal(t, tt.ok, res.OK(), res.Reason)
			if tt.ok {
				assert.Equal(t, validate.Accepted(res.Value), res)
			} else {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestDate_RandomValidRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	span := int(end.Sub(start).Hours() / 24)

	for i := 0; i < 500; i++ {
		d := start.AddDate(0, 0, rng.Intn(span+1))
		input := d.Format(validate.DateLayout)
		res := validate.Date(input, now, 2020)
		assert.True(t, res.OK(), "expected %s to be accepted: %s", input, res.Reason)
		assert.Equal(t, input, res.Value)
	}
}

func TestDate_RandomOutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		var d time.Time
		if i%2 == 0 {
			d = time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -rng.Intn(5000))
		} else {
			d = time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.Intn(5000))
		}
		input := d.Format(validate.DateLayout)
		assert.False(t, validate.Date(input, now, 2020).OK(), "expected %s to be rejected", input)
	}
}

func TestDocumentNumber(t *testing.T) {
	assert.True(t, validate.DocumentNumber("AB1").OK())
	assert.Equal(t, "CA12345", validate.DocumentNumber("  CA12345 ").Value)
	assert.False(t, validate.DocumentNumber(" AB ").OK())
	assert.False(t, validate.DocumentNumber("").OK())
}

func TestText(t *testing.T) {
	assert.Equal(t, "Rossi", validate.Text(" Rossi ").Value)
	assert.False(t, validate.Text("   ").OK())
}

func TestSlotID_MemberLounger(t *testing.T) {
	for c := 'A'; c <= 'Z'; c++ {
		res := validate.SlotID(domain.KindLounger, true, string(c))
		assert.True(t, res.OK(), string(c))
		assert.Equal(t, string(c), res.Value)
	}
	assert.Equal(t, "C", validate.SlotID(domain.KindLounger, true, "c").Value)

	for n := 0; n <= 99; n++ {
		assert.False(t, validate.SlotID(domain.KindLounger, true, strconv.Itoa(n)).OK(), n)
	}
	assert.False(t, validate.SlotID(domain.KindLounger, true, "").OK())
	assert.False(t, validate.SlotID(domain.KindLounger, true, "AB").OK())
	assert.False(t, validate.SlotID(domain.KindLounger, true, "È").OK())
}

func TestSlotID_Numbered(t *testing.T) {
	kinds := []struct {
		kind   domain.RentalKind
		member bool
	}{
		{domain.KindLounger, false},
		{domain.KindPhoneBag, false},
		{domain.KindPhoneBag, true},
		{domain.KindDryBag, true},
	}
	for _, k := range kinds {
		t.Run(fmt.Sprintf("%s/member=%t", k.kind, k.member), func(t *testing.T) {
			for n := 0; n <= 99; n++ {
				res := validate.SlotID(k.kind, k.member, strconv.Itoa(n))
				assert.True(t, res.OK(), n)
				assert.Equal(t, strconv.Itoa(n), res.Value)
			}
			for c := 'A'; c <= 'Z'; c++ {
				assert.False(t, validate.SlotID(k.kind, k.member, string(c)).OK(), string(c))
			}
			assert.Equal(t, "7", validate.SlotID(k.kind, k.member, "07").Value)
			assert.False(t, validate.SlotID(k.kind, k.member, "100").OK())
			assert.False(t, validate.SlotID(k.kind, k.member, "-1").OK())
			assert.False(t, validate.SlotID(k.kind, k.member, "+5").OK())
			assert.False(t, validate.SlotID(k.kind, k.member, "").OK())
		})
	}
}

func TestSlotID_KindWithoutSlot(t *testing.T) {
	assert.False(t, validate.SlotID(domain.KindSUP, false, "1").OK())
	assert.False(t, validate.SlotID(domain.KindKayak, true, "A").OK())
}

func TestPairing(t *testing.T) {
	assert.True(t, validate.Pairing(domain.KindSUP, true, "").OK())
	assert.False(t, validate.Pairing(domain.KindSUP, true, "3").OK())
	assert.True(t, validate.Pairing(domain.KindLounger, true, "C").OK())
	assert.False(t, validate.Pairing(domain.KindLounger, false, "C").OK())
	assert.False(t, validate.Pairing(domain.KindDryBag, false, "").OK())
}

func TestAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"25", "25.00 EUR", true},
		{"30,50", "30.50 EUR", true},
		{"30.5", "30.50 EUR", true},
		{" 12.345 ", "12.35 EUR", true},
		{"15 EUR", "15.00 EUR", true},
		{"15eur", "15.00 EUR", true},
		{"15€", "15.00 EUR", true},
		{"-5", "", false},
		{"0", "", false},
		{"0.001", "", false},
		{"abc", "", false},
		{"1.000,50", "", false},
		{"", "", false},
		{"1e3", "", false},
		{"2E2", "", false},
		{"999999.99", "999999.99 EUR", true},
		{"1000000", "", false},
		{"184467440737095516.17", "", false},
		{"92233720368547758.08", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := validate.Amount(tt.input, "EUR")
			assert.Equal(t, tt.ok, res.OK(), res.Reason)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestChoice(t *testing.T) {
	allowed := validate.Tokens(domain.PaymentMethods)
	assert.Equal(t, []string{"CARD", "BANK_TRANSFER"}, allowed)

	res := validate.Choice("card", allowed)
	assert.True(t, res.OK())
	assert.Equal(t, "CARD", res.Value)

	res = validate.Choice("CASH", allowed)
	assert.False(t, res.OK())
	assert.Contains(t, res.Reason, "CARD, BANK_TRANSFER")
}

func TestDuration(t *testing.T) {
	allowed := domain.Catalog{MaxDurationHours: 8}.Durations()
	assert.Equal(t, "1.5h", validate.Duration("1,5h", allowed).Value)
	assert.Equal(t, "8h", validate.Duration("8H", allowed).Value)
	assert.False(t, validate.Duration("8.5h", allowed).OK())
	assert.False(t, validate.Duration("0.5h", allowed).OK())
}

func TestNotes(t *testing.T) {
	assert.Equal(t, validate.Accepted(""), validate.Notes("SKIP"))
	assert.Equal(t, validate.Accepted(""), validate.Notes("  "))
	assert.Equal(t, "board scratched", validate.Notes(" board scratched ").Value)
}
