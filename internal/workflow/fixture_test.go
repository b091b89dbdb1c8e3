package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nordicmaskin/kma/internal/report"
	"github.com/nordicmaskin/kma/internal/services"
	"github.com/nordicmaskin/kma/internal/store"
	"github.com/nordicmaskin/kma/internal/tabular"
	"github.com/nordicmaskin/kma/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap/zaptest"
)

var (
	fixedNow = time.Date(2026, 10, 15, 9, 30, 5, 0, time.UTC)

	gauge = types.Equipment{Type: "Spormål", Brand: "Geismar", Model: "RCA-D-1435", Serial: "123456789"}
)

type sentMail struct {
	recipients []string
	subject    string
	body       string
	attachment []byte
	filename   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(ctx context.Context, recipients []string, subject, body string, attachment []byte, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{recipients, subject, body, attachment, filename})
	return nil
}

type fakeArchive struct {
	saved map[string][]byte
	err   error
}

func (f *fakeArchive) SaveReport(ctx context.Context, filename string, data []byte, attrs map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[filename] = data
	return "/srv/reports/" + filename, nil
}

type fakePublisher struct {
	events []any
	err    error
}

func (f *fakePublisher) PublishEvent(ctx context.Context, eventType string, payload any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.events = append(f.events, payload)
	return "msg-1", nil
}

// failingAudit wraps an AuditLog and fails the selected appends.
type failingAudit struct {
	AuditLog
	inspection error
	login      error
}

func (f failingAudit) AppendInspection(ctx context.Context, rec types.InspectionRecord) error {
	if f.inspection != nil {
		return f.inspection
	}
	return f.AuditLog.AppendInspection(ctx, rec)
}

func (f failingAudit) AppendLogin(ctx context.Context, ev types.LoginEvent) error {
	if f.login != nil {
		return f.login
	}
	return f.AuditLog.AppendLogin(ctx, ev)
}

type fixture struct {
	backend   *tabular.MemoryBackend
	audit     *store.AuditRepository
	sender    *fakeSender
	archive   *fakeArchive
	publisher *fakePublisher
	deps      Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := tabular.NewMemoryBackend()
	tables := tabular.NewStore(backend)

	f := &fixture{
		backend:   backend,
		audit:     store.NewAuditRepository(tables),
		sender:    &fakeSender{},
		archive:   &fakeArchive{},
		publisher: &fakePublisher{},
	}
	users := services.NewUserService(store.NewUserRepository(tables)).WithHashCost(bcrypt.MinCost)
	equipment := services.NewEquipmentService(store.NewEquipmentRepository(tables))
	checklists := services.NewChecklistService(store.NewTemplateRepository(tables))

	ctx := context.Background()
	_, err := users.CreateUser(ctx, "Anna Jensen", "hemmelig", "anna@example.com")
	require.NoError(t, err)
	require.NoError(t, equipment.Upsert(ctx, gauge))
	_, err = checklists.Seed(ctx,
		[]types.Template{{Name: "TPL_RCA", Type: "Spormål", Brand: "Geismar", Model: "RCA-D-1435"}},
		[]types.TemplateItem{
			{Template: "TPL_RCA", Item: "Visuel kontrol", Instruction: "Ingen skader"},
			{Template: "TPL_RCA", Item: "Sporvidde", Instruction: "1435 mm ±1"},
			{Template: "TPL_RCA", Item: "Overhøjde", Instruction: "0 mm"},
		},
	)
	require.NoError(t, err)

	f.deps = Deps{
		Users:     users,
		Catalog:   equipment,
		Checklist: checklists,
		Renderer:  report.NewRenderer(report.WithCompression(false)),
		Archive:   f.archive,
		Sender:    f.sender,
		Audit:     f.audit,
		Publisher: f.publisher,
	}
	return f
}

func (f *fixture) controller(t *testing.T, opts ...Option) *Controller {
	base := []Option{
		WithRecipients([]string{"qa@example.com"}),
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewController(f.deps, append(base, opts...)...)
}

// atChecklist drives a fresh session up to the checklist screen.
func atChecklist(t *testing.T, c *Controller, action types.Action) *Session {
	t.Helper()
	ctx := context.Background()
	s := NewSession()
	require.NoError(t, c.Login(ctx, s, "anna jensen", "hemmelig"))
	require.NoError(t, c.ChooseAction(s, action))
	require.NoError(t, c.SelectEquipment(ctx, s, gauge))
	return s
}

func allGreen(n int) Submission {
	answers := make([]Answer, n)
	for i := range answers {
		answers[i] = Answer{Status: types.StatusGreen}
	}
	return Submission{Answers: answers}
}

var errBoom = errors.New("boom")
