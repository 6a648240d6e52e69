package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/rentdesk/internal/config"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() []domain.RentalRecord {
	return []domain.RentalRecord{
		{
			Date: "15/07/2024", LastName: "Rossi", FirstName: "Mario",
			IDDocumentType: domain.DocIDCard, IDDocumentNumber: "CA12345", Phone: "333",
			RentalKind: domain.KindSUP, RentalVariant: "Touring", Duration: "2h",
			PaymentMethod: domain.PayCard, Amount: domain.Amount{Cents: 2500, Currency: "EUR"},
			ReceiptPhotoRef: "photo-1",
		},
		{
			Date: "16/07/2024", LastName: "Bianchi", FirstName: "Anna",
			IDDocumentType: domain.DocPassport, IDDocumentNumber: "YA0001", Phone: "347",
			RentalKind: domain.KindLounger, RentalVariant: "Pineta", SlotIdentifier: "C", Duration: "1h",
			PaymentMethod: domain.PayCard, Amount: domain.Amount{Cents: 1000, Currency: "EUR"},
		},
	}
}

func seededEnvironment(t *testing.T) *Environment {
	t.Helper()
	env := newTestEnvironment(t, testConfig(config.BackendMemory, config.BackendMemory))
	_, err := env.Desk.Import(context.Background(), seed())
	require.NoError(t, err)
	return env
}

func TestListRecords(t *testing.T) {
	env := seededEnvironment(t)

	var buf bytes.Buffer
	require.NoError(t, ListRecords(&buf, env.Desk, ListOptions{}))
	out := buf.String()
	assert.Contains(t, out, "Rossi Mario")
	assert.Contains(t, out, "Bianchi Anna")
	assert.Contains(t, out, "25.00 EUR")

	buf.Reset()
	require.NoError(t, ListRecords(&buf, env.Desk, ListOptions{Date: "16/07/2024"}))
	assert.NotContains(t, buf.String(), "Rossi")
	assert.Contains(t, buf.String(), "Bianchi")

	buf.Reset()
	require.NoError(t, ListRecords(&buf, env.Desk, ListOptions{Last: 1}))
	assert.NotContains(t, buf.String(), "Rossi")

	buf.Reset()
	require.NoError(t, ListRecords(&buf, env.Desk, ListOptions{Date: "01/01/2000"}))
	assert.Equal(t, "No records found.\n", buf.String())
}

func TestSearchAndReports(t *testing.T) {
	env := seededEnvironment(t)
	var buf bytes.Buffer

	require.NoError(t, SearchRecords(&buf, env.Desk, "lounger"))
	assert.Contains(t, buf.String(), "Bianchi Anna")

	buf.Reset()
	require.NoError(t, SearchRecords(&buf, env.Desk, "Verdi"))
	assert.Contains(t, buf.String(), `No records match "Verdi"`)

	buf.Reset()
	require.NoError(t, PrintClients(&buf, env.Desk, "16/07/2024"))
	assert.Contains(t, buf.String(), "Bianchi Anna (1)")
	assert.Contains(t, buf.String(), "slot C")

	buf.Reset()
	require.NoError(t, PrintTimeline(&buf, env.Desk, 0))
	assert.Contains(t, buf.String(), "15/07/2024: 1 rental(s)")
	assert.Contains(t, buf.String(), "Total: 2 rental(s)")

	buf.Reset()
	require.NoError(t, PrintReceipts(&buf, env.Desk))
	assert.Contains(t, buf.String(), "With receipt (1):\n  Rossi Mario: 1/1")
	assert.Contains(t, buf.String(), "Without receipt (1):\n  Bianchi Anna: 1 rental(s)")
}

func TestExportRecords(t *testing.T) {
	env := seededEnvironment(t)

	var buf bytes.Buffer
	require.NoError(t, ExportRecords(&buf, env.Desk, "-"))
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 3)

	path := filepath.Join(t.TempDir(), "out.csv")
	buf.Reset()
	require.NoError(t, ExportRecords(&buf, env.Desk, path))
	assert.Contains(t, buf.String(), "Exported 2 record(s)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Rossi")
}

func TestEditRecord(t *testing.T) {
	env := seededEnvironment(t)
	ctx := context.Background()
	var buf bytes.Buffer

	err := EditRecord(ctx, &buf, env.Desk, EditOptions{Query: "Bianchi", Index: -1, Field: "duration", Value: "1.5h"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `duration "1h" -> "1.5h"`)
	assert.Equal(t, "1.5h", env.Desk.Records()[1].Duration)

	buf.Reset()
	err = EditRecord(ctx, &buf, env.Desk, EditOptions{Index: 0, Field: "notes", Value: "late return"})
	require.NoError(t, err)
	assert.Equal(t, "late return", env.Desk.Records()[0].Notes)

	err = EditRecord(ctx, &buf, env.Desk, EditOptions{Index: -1, Field: "notes", Value: "x"})
	assert.Error(t, err)

	err = EditRecord(ctx, &buf, env.Desk, EditOptions{Query: "Verdi", Index: -1, Field: "notes", Value: "x"})
	var lerr *domain.LookupError
	assert.ErrorAs(t, err, &lerr)
}

func TestImportLegacy(t *testing.T) {
	env := newTestEnvironment(t, testConfig(config.BackendMemory, config.BackendMemory))
	path := filepath.Join(t.TempDir(), "legacy.json")
	data := `[
  {"data": "15/07/2024", "cognome": "Rossi", "nome": "Mario", "documento": "PAT",
   "numero_documento": "X1", "telefono": "333", "associato": "NO",
   "tipo_noleggio": "KAYAK", "dettagli": "", "numero": "", "tempo": "1,5h",
   "pagamento": "BONIFICO", "foto_ricevuta": "", "timestamp": "2024-07-15T10:00:00"},
  {"data": "15/07/2024", "cognome": "Verdi", "nome": "Luca", "documento": "C.I.",
   "numero_documento": "X2", "telefono": "334", "associato": "NO",
   "tipo_noleggio": "PEDALO", "dettagli": "", "numero": "", "tempo": "1h",
   "pagamento": "CARD", "foto_ricevuta": "", "timestamp": "2024-07-15T11:00:00"}
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	var buf bytes.Buffer
	require.NoError(t, ImportLegacy(context.Background(), &buf, env.Desk, ImportOptions{Path: path, DryRun: true}))
	assert.Contains(t, buf.String(), "1 record(s) would be imported, 1 skipped")
	assert.Empty(t, env.Desk.Records())

	buf.Reset()
	require.NoError(t, ImportLegacy(context.Background(), &buf, env.Desk, ImportOptions{Path: path}))
	assert.Contains(t, buf.String(), "skipped entry 1")
	require.Len(t, env.Desk.Records(), 1)
	rec := env.Desk.Records()[0]
	assert.Equal(t, "1.5h", rec.Duration)
	assert.Equal(t, domain.PayBankTransfer, rec.PaymentMethod)
	assert.Equal(t, domain.DocDriversLicense, rec.IDDocumentType)

	err := ImportLegacy(context.Background(), &buf, env.Desk, ImportOptions{Path: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestSessionsCommands(t *testing.T) {
	env := newTestEnvironment(t, testConfig(config.BackendMemory, config.BackendMemory))
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, ListSessions(ctx, &buf, env.Desk))
	assert.Equal(t, "No active sessions found.\n", buf.String())

	_, err := env.Desk.Begin(ctx, "chat-1")
	require.NoError(t, err)
	_, err = env.Desk.OnText(ctx, "chat-1", "15/07/2024")
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, ListSessions(ctx, &buf, env.Desk))
	assert.Contains(t, buf.String(), "- chat-1 (collect_last_name")

	buf.Reset()
	require.NoError(t, InspectSession(ctx, &buf, env.Desk, "chat-1"))
	assert.Contains(t, buf.String(), `"date": "15/07/2024"`)

	buf.Reset()
	require.NoError(t, PrintFlow(ctx, &buf, env.Desk, "chat-1"))
	assert.Contains(t, buf.String(), "graph TD")

	buf.Reset()
	require.NoError(t, RemoveSessions(ctx, &buf, env.Desk, []string{"chat-1"}))
	assert.Contains(t, buf.String(), "Removed session 'chat-1'")

	err = InspectSession(ctx, &buf, env.Desk, "chat-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	err = PrintFlow(ctx, &buf, env.Desk, "chat-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestVisited(t *testing.T) {
	member := false
	f := domain.Fields{Date: "15/07/2024", LastName: "Rossi", IsMember: &member, RentalKind: domain.KindSUP, RentalVariant: "Touring"}
	assert.Equal(t, []domain.StateID{
		domain.StateCollectDate,
		domain.StateCollectLastName,
		domain.StateCollectMembership,
		domain.StateCollectRentalKind,
		domain.StateCollectSUPVariant,
	}, visited(f))
}

func TestRunRegister_JSON(t *testing.T) {
	env := newTestEnvironment(t, testConfig(config.BackendMemory, config.BackendMemory))

	in := strings.NewReader("\"15/07/2024\"\n")
	var out bytes.Buffer
	err := RunRegister(context.Background(), env, RegisterOptions{JSON: true, ConversationID: "term-1", In: in, Out: &out})
	require.NoError(t, err)

	assert.Contains(t, out.String(), `"state":"collect_date"`)
	assert.Contains(t, out.String(), `"state":"collect_last_name"`)

	ids, err := env.Desk.Sessions().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, HandleExecutionError(nil))
	assert.NoError(t, HandleExecutionError(context.Canceled))
	assert.Error(t, HandleExecutionError(assert.AnError))
}
