package records

import (
	"sort"
	"time"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/validate"
)

// ClientGroup holds the records of one client.
type ClientGroup struct {
	Client  string                `json:"client"`
	Records []domain.RentalRecord `json:"records"`
}

// GroupByClient groups records by "lastName firstName", keeping the order in
// which clients first appear and the insertion order within each client.
func GroupByClient(records []domain.RentalRecord) []ClientGroup {
	var groups []ClientGroup
	pos := make(map[string]int)
	for _, r := range records {
		key := r.ClientName()
		i, ok := pos[key]
		if !ok {
			i = len(groups)
			pos[key] = i
			groups = append(groups, ClientGroup{Client: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// DateGroup holds the records of one rental date.
type DateGroup struct {
	Date    string                `json:"date"`
	Records []domain.RentalRecord `json:"records"`
}

// Timeline groups records by date, oldest first. When last > 0 only the most
// recent last dates are kept. Dates that do not parse sort before all others
// in first-seen order.
func Timeline(records []domain.RentalRecord, last int) []DateGroup {
	var groups []DateGroup
	pos := make(map[string]int)
	for _, r := range records {
		i, ok := pos[r.Date]
		if !ok {
			i = len(groups)
			pos[r.Date] = i
			groups = append(groups, DateGroup{Date: r.Date})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	parsed := make(map[string]time.Time, len(groups))
	for _, g := range groups {
		if t, err := validate.ParseDate(g.Date); err == nil {
			parsed[g.Date] = t
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ti, iok := parsed[groups[i].Date]
		tj, jok := parsed[groups[j].Date]
		if iok != jok {
			return !iok
		}
		return ti.Before(tj)
	})

	if last > 0 && len(groups) > last {
		groups = groups[len(groups)-last:]
	}
	return groups
}

// ReceiptStatus is one client's receipt coverage.
type ReceiptStatus struct {
	Client       string `json:"client"`
	Records      int    `json:"records"`
	WithReceipts int    `json:"with_receipts"`
}

// ReceiptReport partitions clients by whether any of their rentals has a receipt photo.
type ReceiptReport struct {
	WithReceipt    []ReceiptStatus `json:"with_receipt"`
	WithoutReceipt []ReceiptStatus `json:"without_receipt"`
}

// Receipts builds the receipt report over clients grouped as in GroupByClient.
func Receipts(records []domain.RentalRecord) ReceiptReport {
	var rep ReceiptReport
	for _, g := range GroupByClient(records) {
		st := ReceiptStatus{Client: g.Client, Records: len(g.Records)}
		for _, r := range g.Records {
			if r.ReceiptPhotoRef != "" {
				st.WithReceipts++
			}
		}
		if st.WithReceipts > 0 {
			rep.WithReceipt = append(rep.WithReceipt, st)
		} else {
			rep.WithoutReceipt = append(rep.WithoutReceipt, st)
		}
	}
	return rep
}
