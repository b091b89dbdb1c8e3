// Package workflow drives an operator session through the inspection
// wizard: login, action, equipment, checklist and completion.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nordicmaskin/kma/types"
	"go.uber.org/zap"
)

// Authenticator verifies and registers operators.
type Authenticator interface {
	Authenticate(ctx context.Context, fullName, password string) (types.User, error)
	CreateUser(ctx context.Context, fullName, password, email string) (types.User, error)
}

// Catalog looks up and registers equipment.
type Catalog interface {
	Exists(ctx context.Context, eq types.Equipment) (bool, error)
	Upsert(ctx context.Context, eq types.Equipment) error
}

// Resolver finds the checklist for an equipment class.
type Resolver interface {
	Resolve(ctx context.Context, typ, brand, model string) (types.Checklist, error)
}

// Renderer turns a report into PDF bytes.
type Renderer interface {
	Render(rep types.Report) ([]byte, error)
}

// Archive persists a rendered PDF and returns where it was stored.
type Archive interface {
	SaveReport(ctx context.Context, filename string, data []byte, attrs map[string]string) (string, error)
}

// Sender emails a report.
type Sender interface {
	Send(ctx context.Context, recipients []string, subject, body string, attachment []byte, filename string) error
}

// AuditLog appends audit rows.
type AuditLog interface {
	AppendInspection(ctx context.Context, rec types.InspectionRecord) error
	AppendLogin(ctx context.Context, ev types.LoginEvent) error
}

// Publisher announces completed inspections.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType string, payload any) (string, error)
}

// Deps are the collaborators of a Controller. Archive, Sender and
// Publisher may be nil; the matching step is then skipped.
type Deps struct {
	Users     Authenticator
	Catalog   Catalog
	Checklist Resolver
	Renderer  Renderer
	Archive   Archive
	Sender    Sender
	Audit     AuditLog
	Publisher Publisher
}

// Controller applies wizard transitions to sessions.
type Controller struct {
	deps       Deps
	recipients []string
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecipients sets who receives completed reports.
func WithRecipients(recipients []string) Option {
	return func(c *Controller) {
		c.recipients = append([]string(nil), recipients...)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func NewController(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		deps:   deps,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recipients returns the configured report recipients.
func (c *Controller) Recipients() []string {
	return append([]string(nil), c.recipients...)
}

// Signup registers an operator. It does not log the session in.
func (c *Controller) Signup(ctx context.Context, fullName, password, email string) (types.User, error) {
	user, err := c.deps.Users.CreateUser(ctx, fullName, password, email)
	if err != nil {
		return types.User{}, err
	}
	c.logger.Info("user created", zap.String("user", user.FullName))
	return user, nil
}

// Login authenticates the operator and moves to the action screen.
func (c *Controller) Login(ctx context.Context, s *Session, fullName, password string) error {
	if err := s.expect(StepLoggedOut); err != nil {
		return err
	}
	user, err := c.deps.Users.Authenticate(ctx, fullName, password)
	if err != nil {
		c.logger.Info("login rejected", zap.String("user", strings.TrimSpace(fullName)), zap.Error(err))
		return err
	}

	s.User = user.FullName
	s.Step = StepActionChosen
	c.logger.Info("login", zap.String("session", s.ID), zap.String("user", s.User))
	return nil
}

// ChooseAction records the report kind and moves to equipment selection.
func (c *Controller) ChooseAction(s *Session, action types.Action) error {
	if err := s.expect(StepActionChosen); err != nil {
		return err
	}
	if !action.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	s.Action = action
	s.Step = StepEquipmentSelected
	return nil
}

// SelectEquipment picks a registered unit and resolves its checklist.
func (c *Controller) SelectEquipment(ctx context.Context, s *Session, eq types.Equipment) error {
	if err := s.expect(StepEquipmentSelected); err != nil {
		return err
	}
	eq = trimEquipment(eq)
	if err := requireIdentity(eq); err != nil {
		return err
	}

	ok, err := c.deps.Catalog.Exists(ctx, eq)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEquipment, eq.Label())
	}
	return c.resolve(ctx, s, eq)
}

// CreateEquipment registers or updates a unit, then continues as
// SelectEquipment does.
func (c *Controller) CreateEquipment(ctx context.Context, s *Session, eq types.Equipment) error {
	if err := s.expect(StepEquipmentSelected); err != nil {
		return err
	}
	eq = trimEquipment(eq)
	if err := c.deps.Catalog.Upsert(ctx, eq); err != nil {
		return err
	}
	c.logger.Info("equipment saved", zap.String("equipment", eq.Label()))
	return c.resolve(ctx, s, eq)
}

func (c *Controller) resolve(ctx context.Context, s *Session, eq types.Equipment) error {
	checklist, err := c.deps.Checklist.Resolve(ctx, eq.Type, eq.Brand, eq.Model)
	if err != nil {
		return err
	}
	if !checklist.Found() || checklist.Empty() {
		return fmt.Errorf("%w: %s/%s/%s", ErrNoChecklist, eq.Type, eq.Brand, eq.Model)
	}

	s.Equipment = eq
	s.Checklist = checklist
	s.Step = StepChecklistInProgress
	return nil
}

// Back moves one step backward and discards what that step collected.
func (c *Controller) Back(s *Session) error {
	switch s.Step {
	case StepActionChosen:
		s.User = ""
		s.Action = ""
		s.Step = StepLoggedOut
	case StepEquipmentSelected:
		s.Action = ""
		s.clearSelection()
		s.Step = StepActionChosen
	case StepChecklistInProgress:
		s.clearSelection()
		s.Step = StepEquipmentSelected
	default:
		return fmt.Errorf("%w: cannot go back from %s", ErrWrongStep, s.Step)
	}
	return nil
}

// Restart starts a new report for the same operator after completion.
func (c *Controller) Restart(s *Session) error {
	if err := s.expect(StepCompleted); err != nil {
		return err
	}
	s.Action = ""
	s.clearSelection()
	s.Step = StepActionChosen
	return nil
}

// Logout clears the session from any step.
func (c *Controller) Logout(s *Session) {
	if s.User != "" {
		c.logger.Info("logout", zap.String("session", s.ID), zap.String("user", s.User))
	}
	s.User = ""
	s.Action = ""
	s.clearSelection()
	s.Completion = nil
	s.Step = StepLoggedOut
}

func trimEquipment(eq types.Equipment) types.Equipment {
	return types.Equipment{
		Type:   strings.TrimSpace(eq.Type),
		Brand:  strings.TrimSpace(eq.Brand),
		Model:  strings.TrimSpace(eq.Model),
		Serial: strings.TrimSpace(eq.Serial),
		Notes:  strings.TrimSpace(eq.Notes),
	}
}
