package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nordicmaskin/kma/internal/mq"
	"github.com/nordicmaskin/kma/internal/report"
	"github.com/nordicmaskin/kma/internal/services"
	"github.com/nordicmaskin/kma/types"
	"go.uber.org/zap"
)

const (
	// TimestampLayout is the minute resolution timestamp shared by the
	// certificate and both audit rows.
	TimestampLayout = "2006-01-02 15:04"

	// DateLayout is used for NextDate.
	DateLayout = "2006-01-02"

	// DefaultIntervalDays is added to today when NextDate is left blank.
	DefaultIntervalDays = 365
)

// Answer is the operator's verdict on one checklist item.
type Answer struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// Submission is the filled checklist. Answers follow checklist order.
type Submission struct {
	Answers      []Answer `json:"answers"`
	CalibratedTo string   `json:"calibrated_to"`
	OrderNo      string   `json:"order_no"`
	Comment      string   `json:"comment"`

	// NextDate is "YYYY-MM-DD"; blank means one year from today.
	NextDate string `json:"next_date"`
}

// Outcome states of a completion side effect.
const (
	OutcomeOK      = "ok"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Outcome reports how one side effect of Complete went.
type Outcome struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	Err    error  `json:"-"`
}

func okOutcome(detail string) Outcome { return Outcome{Status: OutcomeOK, Detail: detail} }
func skippedOutcome(detail string) Outcome { return Outcome{Status: OutcomeSkipped, Detail: detail} }

func failedOutcome(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Detail: err.Error(), Err: err}
}

// OK reports whether the step succeeded.
func (o Outcome) OK() bool { return o.Status == OutcomeOK }

// Completion is the result of Complete.
type Completion struct {
	Report   types.Report `json:"report"`
	FileName string       `json:"file_name"`
	PDF      []byte       `json:"-"`

	// PdfPath is where the PDF was persisted, empty if that failed.
	PdfPath string `json:"pdf_path"`

	Saved      Outcome `json:"saved"`
	Emailed    Outcome `json:"emailed"`
	Inspection Outcome `json:"inspection_logged"`
	Login      Outcome `json:"login_logged"`
	Published  Outcome `json:"published"`
}

// Complete renders the certificate, delivers it and writes the audit
// trail. Persisting, emailing and publishing are best-effort and only
// reported in the Completion. A failed audit append returns an error
// wrapping ErrAuditIncomplete and leaves the session on the checklist.
func (c *Controller) Complete(ctx context.Context, s *Session, sub Submission) (*Completion, error) {
	if err := s.expect(StepChecklistInProgress); err != nil {
		return nil, err
	}

	now := c.now()
	rep, err := c.buildReport(s, sub, now)
	if err != nil {
		return nil, err
	}

	pdf, err := c.deps.Renderer.Render(rep)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	done := &Completion{
		Report:   rep,
		FileName: report.FileName(rep, now),
		PDF:      pdf,
	}
	log := c.logger.With(
		zap.String("session", s.ID),
		zap.String("user", rep.User),
		zap.String("equipment", rep.Equipment.Label()),
	)

	c.save(ctx, log, done)
	c.email(ctx, log, done)

	var auditErrs []error
	rec := c.inspectionRecord(done)
	if err := c.deps.Audit.AppendInspection(ctx, rec); err != nil {
		done.Inspection = failedOutcome(err)
		auditErrs = append(auditErrs, fmt.Errorf("append inspection: %w", err))
	} else {
		done.Inspection = okOutcome("")
	}
	if err := c.deps.Audit.AppendLogin(ctx, loginEvent(rep)); err != nil {
		done.Login = failedOutcome(err)
		auditErrs = append(auditErrs, fmt.Errorf("append login: %w", err))
	} else {
		done.Login = okOutcome("")
	}

	if len(auditErrs) > 0 {
		done.Published = skippedOutcome("audit trail incomplete")
		log.Error("audit append failed", zap.Error(errors.Join(auditErrs...)))
		return done, fmt.Errorf("%w: %w", ErrAuditIncomplete, errors.Join(auditErrs...))
	}

	c.publish(ctx, log, rec, done)

	s.Completion = done
	s.Step = StepCompleted
	log.Info("report completed",
		zap.String("action", string(rep.Action)),
		zap.String("file", done.FileName),
		zap.String("pdf_path", done.PdfPath),
	)
	return done, nil
}

func (c *Controller) buildReport(s *Session, sub Submission, now time.Time) (types.Report, error) {
	items := s.Checklist.Items
	if len(sub.Answers) != len(items) {
		return types.Report{}, &services.ValidationError{
			Fields: []string{fmt.Sprintf("answers (want %d, got %d)", len(items), len(sub.Answers))},
		}
	}

	var invalid []string
	results := make([]types.ChecklistResult, len(items))
	for i, item := range items {
		status := strings.ToLower(strings.TrimSpace(sub.Answers[i].Status))
		switch status {
		case types.StatusGreen, types.StatusYellow, types.StatusRed:
		default:
			invalid = append(invalid, "answers["+strconv.Itoa(i)+"].status")
		}
		results[i] = types.ChecklistResult{
			Item:        item.Item,
			Instruction: item.Instruction,
			Status:      status,
			Note:        strings.TrimSpace(sub.Answers[i].Note),
		}
	}

	nextDate := strings.TrimSpace(sub.NextDate)
	if nextDate == "" {
		nextDate = now.AddDate(0, 0, DefaultIntervalDays).Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, nextDate); err != nil {
		invalid = append(invalid, "next_date")
	}
	if len(invalid) > 0 {
		return types.Report{}, &services.ValidationError{Fields: invalid}
	}

	return types.Report{
		Timestamp:    now.Format(TimestampLayout),
		User:         s.User,
		Action:       s.Action,
		Equipment:    s.Equipment,
		Results:      results,
		Comment:      strings.TrimSpace(sub.Comment),
		NextDate:     nextDate,
		CalibratedTo: strings.TrimSpace(sub.CalibratedTo),
		OrderNo:      strings.TrimSpace(sub.OrderNo),
	}, nil
}

func (c *Controller) save(ctx context.Context, log *zap.Logger, done *Completion) {
	if c.deps.Archive == nil {
		done.Saved = skippedOutcome("no archive configured")
		return
	}
	attrs := map[string]string{
		"user":      done.Report.User,
		"action":    string(done.Report.Action),
		"equipment": done.Report.Equipment.Label(),
		"timestamp": done.Report.Timestamp,
	}
	location, err := c.deps.Archive.SaveReport(ctx, done.FileName, done.PDF, attrs)
	if err != nil {
		log.Warn("saving report failed", zap.String("file", done.FileName), zap.Error(err))
		done.Saved = failedOutcome(err)
		return
	}
	done.PdfPath = location
	done.Saved = okOutcome(location)
}

func (c *Controller) email(ctx context.Context, log *zap.Logger, done *Completion) {
	if len(c.recipients) == 0 {
		log.Warn("no report recipients configured, email skipped")
		done.Emailed = skippedOutcome("no recipients")
		return
	}
	if c.deps.Sender == nil {
		log.Warn("no mailer configured, email skipped")
		done.Emailed = skippedOutcome("no mailer")
		return
	}

	rep := done.Report
	subject := fmt.Sprintf("Rapport: %s — %s", rep.Action, rep.Equipment.Label())
	body := fmt.Sprintf("Se vedhæftet PDF.\n\nBruger: %s\nDato: %s", rep.User, rep.Timestamp)
	if err := c.deps.Sender.Send(ctx, c.recipients, subject, body, done.PDF, done.FileName); err != nil {
		log.Warn("sending report failed", zap.Strings("recipients", c.recipients), zap.Error(err))
		done.Emailed = failedOutcome(err)
		return
	}
	done.Emailed = okOutcome(strings.Join(c.recipients, ", "))
}

func (c *Controller) publish(ctx context.Context, log *zap.Logger, rec types.InspectionRecord, done *Completion) {
	if c.deps.Publisher == nil {
		done.Published = skippedOutcome("no broker configured")
		return
	}
	id, err := c.deps.Publisher.PublishEvent(ctx, mq.EventInspectionCompleted, rec)
	if err != nil {
		log.Warn("publishing completion event failed", zap.Error(err))
		done.Published = failedOutcome(err)
		return
	}
	done.Published = okOutcome(id)
}

func (c *Controller) inspectionRecord(done *Completion) types.InspectionRecord {
	rep := done.Report
	results, err := json.Marshal(rep.Results)
	if err != nil {
		// Results are plain strings; this cannot fail.
		results = []byte("[]")
	}
	return types.InspectionRecord{
		Timestamp:   rep.Timestamp,
		User:        rep.User,
		Action:      string(rep.Action),
		Type:        rep.Equipment.Type,
		Brand:       rep.Equipment.Brand,
		Model:       rep.Equipment.Model,
		Serial:      rep.Equipment.Serial,
		ResultsJSON: string(results),
		Comment:     rep.Comment,
		NextDate:    rep.NextDate,
		PdfPath:     done.PdfPath,
		Recipients:  strings.Join(c.recipients, ", "),
	}
}

func loginEvent(rep types.Report) types.LoginEvent {
	return types.LoginEvent{
		Timestamp: rep.Timestamp,
		User:      rep.User,
		Action:    string(rep.Action),
		Equipment: rep.Equipment.Label(),
		NextDate:  rep.NextDate,
	}
}

func requireIdentity(eq types.Equipment) error {
	return services.Required("type", eq.Type, "brand", eq.Brand, "model", eq.Model, "serial", eq.Serial)
}
