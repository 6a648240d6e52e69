package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	conversationID := "contract-conv-" + time.Now().Format("20060102150405")
	now := time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		sess := domain.NewSession(conversationID, now)
		member := true
		amount := domain.Amount{Cents: 2550, Currency: "EUR"}
		sess.State = domain.StateCollectAmount
		sess.Fields.Date = "15/07/2024"
		sess.Fields.LastName = "Rossi"
		sess.Fields.IsMember = &member
		sess.Fields.RentalKind = domain.KindLounger
		sess.Fields.SlotIdentifier = "C"
		sess.Fields.Amount = &amount
		sess.Base = &domain.ClientIdentity{LastName: "Rossi", FirstName: "Mario", IsMember: true}
		sess.Persisted = []int{3}

		require.NoError(t, store.Save(ctx, conversationID, sess), "Save should not return error")

		loaded, err := store.Load(ctx, conversationID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sess.State, loaded.State)
		assert.Equal(t, sess.Fields, loaded.Fields)
		assert.Equal(t, sess.Base, loaded.Base)
		assert.Equal(t, sess.Persisted, loaded.Persisted)
		assert.True(t, sess.StartedAt.Equal(loaded.StartedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+conversationID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, conversationID, domain.NewSession(conversationID, now)))

		require.NoError(t, store.Delete(ctx, conversationID), "Delete should not return error")

		_, err := store.Load(ctx, conversationID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, conversationID), "Delete should be idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := conversationID + "-1"
		id2 := conversationID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewSession(id1, now)))
		require.NoError(t, store.Save(ctx, id2, domain.NewSession(id2, now)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// ContractRecords returns a deterministic record sequence for backend tests.
func ContractRecords(n int) []domain.RentalRecord {
	kinds := domain.RentalKinds
	out := make([]domain.RentalRecord, 0, n)
	for i := 0; i < n; i++ {
		kind := kinds[i%len(kinds)]
		rec := domain.RentalRecord{
			Date:             fmt.Sprintf("%02d/07/2024", 1+i%28),
			LastName:         fmt.Sprintf("Last%d", i%3),
			FirstName:        fmt.Sprintf("First%d", i%3),
			IDDocumentType:   domain.DocumentTypes[i%len(domain.DocumentTypes)],
			IDDocumentNumber: fmt.Sprintf("DOC%04d", i),
			Phone:            fmt.Sprintf("333%07d", i),
			IsMember:         i%2 == 0,
			RentalKind:       kind,
			RentalVariant:    "Standard",
			Duration:         "2h",
			PaymentMethod:    domain.PaymentMethods[i%len(domain.PaymentMethods)],
			Amount:           domain.Amount{Cents: int64(1000 + i*50), Currency: "EUR"},
			CreatedAt:        time.Date(2024, 7, 1, 10, i%60, 0, 0, time.UTC),
		}
		if kind.HasSlot() {
			rec.SlotIdentifier = fmt.Sprint(i % 100)
		}
		if i%4 == 0 {
			rec.ReceiptPhotoRef = fmt.Sprintf("photos/%d.jpg", i)
			rec.Notes = "ok"
		}
		out = append(out, rec)
	}
	return out
}

// RunRecordBackendContract runs a suite of tests to verify that a RecordBackend
// implementation adheres to the interface contract. The backend must start empty.
func RunRecordBackendContract(t *testing.T, backend RecordBackend) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		records, err := backend.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Round Trip", func(t *testing.T) {
		want := ContractRecords(12)
		require.NoError(t, backend.Save(ctx, want))

		got, err := backend.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got, "reloaded sequence must equal the saved one field by field")
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, backend.Save(ctx, ContractRecords(12)))
		shorter := ContractRecords(3)
		shorter[1].Notes = "edited"
		require.NoError(t, backend.Save(ctx, shorter))

		got, err := backend.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, shorter, got)
	})

	t.Run("Save Empty", func(t *testing.T) {
		require.NoError(t, backend.Save(ctx, nil))
		got, err := backend.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
