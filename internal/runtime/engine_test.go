package runtime_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/aretw0/rentdesk/internal/runtime"
	"github.com/aretw0/rentdesk/pkg/catalog"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC)

type fakeRecorder struct {
	records []domain.RentalRecord
	err     error
}

func (f *fakeRecorder) Append(_ context.Context, rec domain.RentalRecord) (int, error) {
	if f.err != nil {
		return -1, f.err
	}
	f.records = append(f.records, rec)
	return len(f.records) - 1, nil
}

func (f *fakeRecorder) Get(index int) (domain.RentalRecord, error) {
	if index < 0 || index >= len(f.records) {
		return domain.RentalRecord{}, domain.ErrRecordNotFound
	}
	return f.records[index], nil
}

func newEngine(t *testing.T, rec runtime.Recorder, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	cat, err := catalog.Builtin("standard")
	require.NoError(t, err)
	opts = append([]runtime.EngineOption{runtime.WithClock(func() time.Time { return fixedNow })}, opts...)
	return runtime.NewEngine(cat, rec, opts...)
}

// drive feeds text inputs and fails on any rejection or error.
func drive(t *testing.T, eng *runtime.Engine, sess *domain.Session, inputs ...string) (*domain.Session, runtime.Outcome) {
	t.Helper()
	var out runtime.Outcome
	for _, in := range inputs {
		var err error
		out, err = eng.Handle(context.Background(), sess, domain.TextInput(in))
		require.NoError(t, err, "input %q", in)
		require.Nil(t, out.Rejection, "input %q rejected in %s", in, sess.State)
		sess = out.Session
	}
	return sess, out
}

var identity = []string{"15/07/2024", "Rossi", "Mario", "id_card", "CA12345", "3331234567"}

func TestEngine_SUPRental(t *testing.T) {
	rec := &fakeRecorder{}
	eng := newEngine(t, rec)

	start := eng.Start(context.Background(), "conv-1")
	require.Len(t, start.Prompts, 1)
	assert.Equal(t, domain.StateCollectDate, start.Prompts[0].State)

	inputs := append(append([]string{}, identity...), "NO", "SUP", "touring", "2h", "CARD", "25", "NO", "skip")
	sess, out := drive(t, eng, start.Session, inputs...)

	assert.Equal(t, domain.StateOfferContinue, sess.State)
	require.Len(t, rec.records, 1)
	r := rec.records[0]
	assert.Equal(t, "25.00 EUR", r.Amount.String())
	assert.Equal(t, domain.KindSUP, r.RentalKind)
	assert.Equal(t, "Touring", r.RentalVariant)
	assert.Equal(t, domain.DocIDCard, r.IDDocumentType)
	assert.Empty(t, r.SlotIdentifier)
	assert.Empty(t, r.Notes)
	assert.Equal(t, fixedNow, r.CreatedAt)
	assert.Equal(t, []int{0}, sess.Persisted)
	require.NotNil(t, sess.Base)
	assert.Equal(t, r.Identity(), *sess.Base)
	assert.Contains(t, out.Prompts[0].Text, "Saved SUP Touring")
	assert.Equal(t, []string{domain.ChoiceAddAnother, domain.ChoiceFinished}, out.Prompts[0].Choices)

	_, out = drive(t, eng, sess, "FINISHED")
	assert.True(t, out.Done())
	require.NotNil(t, out.Prompts[0].Summary)
	assert.Equal(t, domain.StateFinished, out.Prompts[0].State)
	assert.Equal(t, "Rossi Mario", out.Prompts[0].Summary.Client)
	assert.Len(t, out.Prompts[0].Summary.Records, 1)
	assert.Equal(t, "25.00 EUR", out.Prompts[0].Summary.Total.String())
}

func TestEngine_AmountWithComma(t *testing.T) {
	rec := &fakeRecorder{}
	eng := newEngine(t, rec)
	sess := eng.Start(context.Background(), "c").Session

	inputs := append(append([]string{}, identity...), "NO", "KAYAK", "1,5h", "BANK_TRANSFER", "30,50", "NO", "left at dock 2")
	drive(t, eng, sess, inputs...)

	require.Len(t, rec.records, 1)
	assert.Equal(t, "30.50 EUR", rec.records[0].Amount.String())
	assert.Equal(t, "Standard", rec.records[0].RentalVariant)
	assert.Equal(t, "1.5h", rec.records[0].Duration)
	assert.Equal(t, "left at dock 2", rec.records[0].Notes)
}

func TestEngine_KayakSkipsToDuration(t *testing.T) {
	eng := newEngine(t, &fakeRecorder{})
	sess := eng.Start(context.Background(), "c").Session
	sess, _ = drive(t, eng, sess, append(append([]string{}, identity...), "NO", "KAYAK")...)
	assert.Equal(t, domain.StateCollectDuration, sess.State)
	assert.Equal(t, "Standard", sess.Fields.RentalVariant)
}

func TestEngine_Branching(t *testing.T) {
	tests := []struct {
		kind   string
		member string
		next   domain.StateID
	}{
		{"SUP", "NO", domain.StateCollectSUPVariant},
		{"LOUNGER", "YES", domain.StateCollectLoungerArea},
		{"PHONE_BAG", "NO", domain.StateCollectSlotID},
		{"DRY_BAG", "YES", domain.StateCollectSlotID},
		{"KAYAK", "NO", domain.StateCollectDuration},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			eng := newEngine(t, &fakeRecorder{})
			sess := eng.Start(context.Background(), "c").Session
			sess, out := drive(t, eng, sess, append(append([]string{}, identity...), tt.member, tt.kind)...)
			assert.Equal(t, tt.next, sess.State)
			assert.Equal(t, tt.next, out.Prompts[0].State)
		})
	}
}

func TestEngine_RejectedAmountKeepsState(t *testing.T) {
	for _, bad := range []string{"-5", "abc"} {
		t.Run(bad, func(t *testing.T) {
			rec := &fakeRecorder{}
			eng := newEngine(t, rec)
			sess := eng.Start(context.Background(), "c").Session
			sess, _ = drive(t, eng, sess, append(append([]string{}, identity...), "NO", "SUP", "Race", "2h", "CARD")...)
			require.Equal(t, domain.StateCollectAmount, sess.State)
			before := sess.Snapshot()

			out, err := eng.Handle(context.Background(), sess, domain.TextInput(bad))
			require.NoError(t, err)
			require.NotNil(t, out.Rejection)
			assert.Equal(t, "amount", out.Rejection.Field)
			assert.Equal(t, domain.StateCollectAmount, out.Session.State)
			assert.Equal(t, before, out.Session)
			assert.NotEmpty(t, out.Prompts[0].Reason)
			assert.Equal(t, domain.StateCollectAmount, out.Prompts[0].State)
			assert.Empty(t, rec.records)
		})
	}
}

func TestEngine_RejectionCarriesChoices(t *testing.T) {
	eng := newEngine(t, &fakeRecorder{})
	sess := eng.Start(context.Background(), "c").Session
	sess, _ = drive(t, eng, sess, identity[:3]...)

	out, err := eng.Handle(context.Background(), sess, domain.TextInput("BADGE"))
	require.NoError(t, err)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, []string{"ID_CARD", "DRIVERS_LICENSE", "PASSPORT", "OTHER"}, out.Rejection.Choices)
	assert.ErrorContains(t, out.Rejection, "valid: ID_CARD")
}

func TestEngine_MultiRentalSharesIdentity(t *testing.T) {
	rec := &fakeRecorder{}
	eng := newEngine(t, rec)
	sess := eng.Start(context.Background(), "c").Session

	first := append(append([]string{}, identity...), "YES", "LOUNGER", "Pineta", "c", "4h", "CARD", "15", "NO", "skip")
	sess, _ = drive(t, eng, sess, first...)

	sess, out := drive(t, eng, sess, "ADD_ANOTHER")
	assert.Equal(t, domain.StateCollectRentalKind, sess.State)
	assert.Equal(t, domain.StateCollectRentalKind, out.Prompts[0].State)
	assert.Equal(t, "Rossi", sess.Fields.LastName)
	assert.True(t, sess.Fields.Member())
	assert.Empty(t, sess.Fields.SlotIdentifier)
	assert.Nil(t, sess.Fields.Amount)

	sess, _ = drive(t, eng, sess, "PHONE_BAG", "7", "2h", "BANK_TRANSFER", "5", "NO", "skip")
	assert.Equal(t, []int{0, 1}, sess.Persisted)

	require.Len(t, rec.records, 2)
	a, b := rec.records[0], rec.records[1]
	assert.Equal(t, a.Identity(), b.Identity())
	assert.Equal(t, a.Date, b.Date)
	assert.Equal(t, "C", a.SlotIdentifier)
	assert.Equal(t, domain.KindLounger, a.RentalKind)
	assert.Equal(t, "Pineta", a.RentalVariant)
	assert.Equal(t, "7", b.SlotIdentifier)
	assert.Equal(t, domain.KindPhoneBag, b.RentalKind)
	assert.Equal(t, "Standard", b.RentalVariant)
	assert.Equal(t, domain.PayBankTransfer, b.PaymentMethod)

	_, out = drive(t, eng, sess, "finished")
	require.NotNil(t, out.Prompts[0].Summary)
	assert.Len(t, out.Prompts[0].Summary.Records, 2)
	assert.Equal(t, "20.00 EUR", out.Prompts[0].Summary.Total.String())
}

func TestEngine_SummaryCoversOwnRecordsOnly(t *testing.T) {
	rec := &fakeRecorder{}
	eng := newEngine(t, rec)
	rental := append(append([]string{}, identity...), "NO", "KAYAK", "1h", "CARD", "10", "NO", "skip")

	earlier, _ := drive(t, eng, eng.Start(context.Background(), "morning").Session, rental...)
	_, out := drive(t, eng, earlier, "FINISHED")
	require.Len(t, out.Prompts[0].Summary.Records, 1)

	later, _ := drive(t, eng, eng.Start(context.Background(), "afternoon").Session, rental...)
	assert.Equal(t, []int{1}, later.Persisted)
	_, out = drive(t, eng, later, "FINISHED")

	summary := out.Prompts[0].Summary
	require.NotNil(t, summary)
	assert.Len(t, rec.records, 2)
	assert.Len(t, summary.Records, 1)
	assert.Equal(t, "10.00 EUR", summary.Total.String())
	assert.Contains(t, out.Prompts[0].Text, "1 rental(s)")
}

func TestEngine_MemberLoungerRejectsNumber(t *testing.T) {
	eng := newEngine(t, &fakeRecorder{})
	sess := eng.Start(context.Background(), "c").Session
	sess, _ = drive(t, eng, sess, append(append([]string{}, identity...), "YES", "LOUNGER", "Squero")...)
	assert.Equal(t, "Lounger letter (A-Z)?", eng.Prompt(sess).Text)

	out, err := eng.Handle(context.Background(), sess, domain.TextInput("12"))
	require.NoError(t, err)
	assert.NotNil(t, out.Rejection)
	assert.Equal(t, domain.StateCollectSlotID, out.Session.State)
}

func TestEngine_ReceiptPhoto(t *testing.T) {
	rec := &fakeRecorder{}
	eng := newEngine(t, rec)
	sess := eng.Start(context.Background(), "c").Session
	sess, _ = drive(t, eng, sess, append(append([]string{}, identity...), "NO", "SUP", "Yoga", "1h", "CARD", "10", "YES")...)
	require.Equal(t, domain.StateAwaitPhoto, sess.State)

	out, err := eng.Handle(context.Background(), sess, domain.TextInput("here it is"))
	require.NoError(t, err)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, domain.StateAwaitPhoto, out.Session.State)

	out, err = eng.Handle(context.Background(), sess, domain.PhotoInput("photos/abc.jpg"))
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	assert.Equal(t, domain.StateCollectNotes, out.Session.State)

	drive(t, eng, out.Session, "skip")
	require.Len(t, rec.records, 1)
	assert.Equal(t, "photos/abc.jpg", rec.records[0].ReceiptPhotoRef)
}

func TestEngine_PhotoOutsideAwaitIsRejected(t *testing.T) {
	eng := newEngine(t, &fakeRecorder{})
	sess := eng.Start(context.Background(), "c").Session

	out, err := eng.Handle(context.Background(), sess, domain.PhotoInput("photos/x.jpg"))
	require.NoError(t, err)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, domain.StateCollectDate, out.Session.State)
}

func TestEngine_PersistFailureDiscardsSession(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	var failed []*domain.RecordEvent
	eng := newEngine(t, rec, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnPersistFailed: func(_ context.Context, e *domain.RecordEvent) { failed = append(failed, e) },
	}))
	sess := eng.Start(context.Background(), "c").Session
	sess, _ = drive(t, eng, sess, append(append([]string{}, identity...), "NO", "SUP", "Race", "2h", "CARD", "25", "NO")...)

	out, err := eng.Handle(context.Background(), sess, domain.TextInput("skip"))
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, out.Done())
	assert.Equal(t, domain.StateCancelled, out.Prompts[0].State)
	require.Len(t, failed, 1)
	assert.Equal(t, "c", failed[0].ConversationID)
}

func TestEngine_Cancel(t *testing.T) {
	var cancelled []domain.StateID
	eng := newEngine(t, &fakeRecorder{}, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnCancelled: func(_ context.Context, e *domain.StateEvent) { cancelled = append(cancelled, e.State) },
	}))
	sess := eng.Start(context.Background(), "c").Session
	sess, _ = drive(t, eng, sess, "15/07/2024")

	out := eng.Cancel(context.Background(), sess)
	assert.True(t, out.Done())
	assert.Equal(t, domain.StateCancelled, out.Prompts[0].State)
	assert.Equal(t, []domain.StateID{domain.StateCollectLastName}, cancelled)

	out = eng.Cancel(context.Background(), nil)
	assert.True(t, out.Done())
	assert.Empty(t, out.Prompts)
	assert.Len(t, cancelled, 1)
}

func TestEngine_NoActiveConversation(t *testing.T) {
	eng := newEngine(t, &fakeRecorder{})
	_, err := eng.Handle(context.Background(), nil, domain.TextInput("hi"))
	assert.ErrorIs(t, err, domain.ErrNoActiveConversation)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var entered []domain.StateID
	var rejected int
	var persisted []int
	eng := newEngine(t, &fakeRecorder{}, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStateEnter:      func(_ context.Context, e *domain.StateEvent) { entered = append(entered, e.State) },
		OnInputRejected:   func(context.Context, *domain.StateEvent) { rejected++ },
		OnRecordPersisted: func(_ context.Context, e *domain.RecordEvent) { persisted = append(persisted, e.Index) },
	}))
	sess := eng.Start(context.Background(), "c").Session
	_, err := eng.Handle(context.Background(), sess, domain.TextInput("yesterday"))
	require.NoError(t, err)
	drive(t, eng, sess, append(append([]string{}, identity...), "NO", "KAYAK", "3h", "CARD", "20", "NO", "skip")...)

	assert.Equal(t, 1, rejected)
	assert.Equal(t, []int{0}, persisted)
	assert.Equal(t, []domain.StateID{
		domain.StateCollectDate,
		domain.StateCollectLastName,
		domain.StateCollectFirstName,
		domain.StateCollectDocType,
		domain.StateCollectDocNumber,
		domain.StateCollectPhone,
		domain.StateCollectMembership,
		domain.StateCollectRentalKind,
		domain.StateCollectDuration,
		domain.StateCollectPaymentMethod,
		domain.StateCollectAmount,
		domain.StateOfferPhoto,
		domain.StateCollectNotes,
		domain.StatePersistRecord,
		domain.StateOfferContinue,
	}, entered)
}

func TestEngine_DateStep(t *testing.T) {
	eng := newEngine(t, &fakeRecorder{})
	rng := rand.New(rand.NewSource(1))
	first := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	days := int(time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC).Sub(first).Hours() / 24)

	for i := 0; i < 100; i++ {
		sess := eng.Start(context.Background(), "c").Session
		input := first.AddDate(0, 0, rng.Intn(days+1)).Format("02/01/2006")
		out, err := eng.Handle(context.Background(), sess, domain.TextInput(input))
		require.NoError(t, err)
		assert.Nil(t, out.Rejection, input)
		assert.Equal(t, domain.StateCollectLastName, out.Session.State)
	}

	for _, bad := range []string{"", "32/01/2024", "01/13/2024", "15/07/2019", "16/07/2026", "15-07-2024", "abc"} {
		sess := eng.Start(context.Background(), "c").Session
		out, err := eng.Handle(context.Background(), sess, domain.TextInput(bad))
		require.NoError(t, err)
		assert.NotNil(t, out.Rejection, bad)
		assert.Equal(t, domain.StateCollectDate, out.Session.State)
	}
}

func TestEngine_SanitizesInput(t *testing.T) {
	eng := newEngine(t, &fakeRecorder{})
	sess := eng.Start(context.Background(), "c").Session
	sess, _ = drive(t, eng, sess, "15/07/2024")

	out, err := eng.Handle(context.Background(), sess, domain.TextInput("Ros\x1bsi\x00"))
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	assert.Equal(t, "Rossi", out.Session.Fields.LastName)

	t.Setenv(validate.EnvMaxInputSize, "8")
	out, err = eng.Handle(context.Background(), out.Session, domain.TextInput("Bartholomew"))
	require.NoError(t, err)
	require.NotNil(t, out.Rejection)
	assert.Contains(t, out.Rejection.Reason, "maximum allowed size")
	assert.Equal(t, domain.StateCollectFirstName, out.Session.State)
}
