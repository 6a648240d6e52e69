package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// CSVColumns is the fixed column projection of the export. Notes are left out.
var CSVColumns = []string{
	"Date", "LastName", "FirstName", "DocumentType", "DocumentNumber", "Phone",
	"Member", "RentalKind", "RentalVariant", "Slot", "Duration", "PaymentMethod",
	"Amount", "ReceiptPhoto", "CreatedAt",
}

// WriteCSV serializes records with the CSVColumns projection.
func WriteCSV(w io.Writer, records []domain.RentalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, r := range records {
		row := []string{
			r.Date,
			r.LastName,
			r.FirstName,
			string(r.IDDocumentType),
			r.IDDocumentNumber,
			r.Phone,
			strconv.FormatBool(r.IsMember),
			string(r.RentalKind),
			r.RentalVariant,
			r.SlotIdentifier,
			r.Duration,
			string(r.PaymentMethod),
			r.Amount.String(),
			r.ReceiptPhotoRef,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes every record in insertion order.
func (s *Store) ExportCSV(w io.Writer) error {
	return WriteCSV(w, s.All())
}
