package artifact

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/internal/disposal"
	"github.com/dmitrymomot/pdfmail/pkg/job"
	"github.com/dmitrymomot/pdfmail/pkg/logger"
	"github.com/dmitrymomot/pdfmail/pkg/mailer"
	"github.com/dmitrymomot/pdfmail/pkg/pdf"
	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

// DirectoryStore prepares the output directory.
type DirectoryStore interface {
	EnsureDir(ctx context.Context, uri string, flags storage.DirFlag) error
}

// Printer renders pages and stores the result. Implemented by *pdf.Printer.
type Printer interface {
	Engine(format string) (pdf.Engine, error)
	SavePrintable(ctx context.Context, pages []pdf.Page, engine pdf.Engine, uri string) (*pdf.Printable, error)
}

// Sender delivers templated mail. Implemented by *mailer.Mailer.
type Sender interface {
	Send(ctx context.Context, params mailer.SendParams) error
}

// Queue accepts disposal jobs. Implemented by *job.Queue.
type Queue interface {
	Enqueue(ctx context.Context, task string, payload any, opts ...job.EnqueueOption) error
}

// Steps of Process, used in logs and as metric outcomes.
const (
	stepDirectory = "directory_unavailable"
	stepRender    = "render_failure"
	stepSend      = "send_failure"
	stepSchedule  = "schedule_failure"
	outcomeSent   = "sent"
)

// Artifact is a rendered document ready to attach.
type Artifact struct {
	URI         string
	Filename    string
	ContentType string
	Blob        []byte
}

// Result describes one Process run.
type Result struct {
	// Artifact is set once rendering succeeded, even when a later step failed.
	Artifact *Artifact
	// Err joins the failed step's sentinel with its cause.
	Err error
	// Redirect is the canonical view of the entity. Always set.
	Redirect string
	// Notice is the status message for the user, set only when Notified.
	Notice   string
	Notified bool
}

// Mailer renders an entity to PDF, mails it and schedules its deletion.
type Mailer struct {
	cfg      Config
	dirs     DirectoryStore
	printer  Printer
	sender   Sender
	queue    Queue
	logger   *slog.Logger
	outcome  *prometheus.CounterVec
	schedule []job.EnqueueOption
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithOutcomeCounter counts runs labelled by outcome.
func WithOutcomeCounter(c *prometheus.CounterVec) Option {
	return func(m *Mailer) {
		m.outcome = c
	}
}

// WithDisposalOptions sets the enqueue options of disposal jobs,
// typically a delay and an attempt limit.
func WithDisposalOptions(opts ...job.EnqueueOption) Option {
	return func(m *Mailer) {
		m.schedule = append(m.schedule, opts...)
	}
}

// New validates cfg and creates a Mailer.
func New(cfg Config, dirs DirectoryStore, printer Printer, sender Sender, queue Queue, opts ...Option) (*Mailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dirs == nil || printer == nil || sender == nil || queue == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("all collaborators are required"))
	}

	m := &Mailer{
		cfg:     cfg,
		dirs:    dirs,
		printer: printer,
		sender:  sender,
		queue:   queue,
		logger:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

type mailData struct {
	Label    string
	Filename string
	URL      string
	ID       int64
}

// Process runs the pipeline for e. Steps stop at the first failure:
//
//  1. ensure the output directory exists and is writable
//  2. render the PDF and store it
//  3. mail it to the configured recipient
//  4. enqueue its disposal
//
// Only a run that completes every step sets Notified. The artifact of a
// failed send stays on disk until the stale sweeper removes it.
func (m *Mailer) Process(ctx context.Context, e *content.Entity, locale string) *Result {
	if e == nil {
		return &Result{Redirect: "/", Err: errors.Join(ErrRenderFailure, content.ErrInvalidInput)}
	}

	res := &Result{Redirect: e.URL()}
	log := m.logger.With(slog.Int64("entity_id", e.ID))

	uri, err := m.cfg.artifactURI(e)
	if err != nil {
		return m.fail(ctx, log, res, stepDirectory, ErrDirectoryUnavailable, err)
	}
	log = log.With(slog.String("uri", uri.String()))

	if err := m.dirs.EnsureDir(ctx, uri.Dir().String(), storage.CreateDirectory|storage.ModifyPermissions); err != nil {
		return m.fail(ctx, log, res, stepDirectory, ErrDirectoryUnavailable, err)
	}

	engine, err := m.printer.Engine(pdf.FormatPDF)
	if err != nil {
		return m.fail(ctx, log, res, stepRender, ErrRenderFailure, err)
	}
	printable, err := m.printer.SavePrintable(ctx, []pdf.Page{e}, engine, uri.String())
	if err != nil {
		return m.fail(ctx, log, res, stepRender, ErrRenderFailure, err)
	}
	if printable == nil || printable.URI == "" {
		return m.fail(ctx, log, res, stepRender, ErrRenderFailure, errors.New("no stored file"))
	}

	contentType := printable.ContentType
	if contentType == "" {
		contentType = pdf.ContentTypePDF
	}
	res.Artifact = &Artifact{
		URI:         printable.URI,
		Filename:    uri.Base(),
		ContentType: contentType,
		Blob:        printable.Blob,
	}

	err = m.sender.Send(ctx, mailer.SendParams{
		To:       m.cfg.Recipient,
		ReplyTo:  m.cfg.ReplyTo,
		Subject:  m.cfg.Subject,
		Template: m.cfg.Template,
		Locale:   locale,
		Data: mailData{
			Label:    e.Label,
			Filename: res.Artifact.Filename,
			URL:      e.URL(),
			ID:       e.ID,
		},
		Attachments: []mailer.Attachment{{
			Filename:    res.Artifact.Filename,
			ContentType: res.Artifact.ContentType,
			Content:     res.Artifact.Blob,
		}},
	})
	if err != nil {
		return m.fail(ctx, log, res, stepSend, ErrSendFailure, err)
	}

	rec := disposal.Record{URI: res.Artifact.URI}
	if err := m.queue.Enqueue(ctx, disposal.TaskName, rec, m.schedule...); err != nil {
		return m.fail(ctx, log, res, stepSchedule, ErrScheduleFailure, err)
	}

	res.Notified = true
	res.Notice = m.cfg.Notice
	m.count(outcomeSent)
	log.InfoContext(ctx, "artifact mailed", slog.String("recipient", m.cfg.Recipient))
	return res
}

func (m *Mailer) fail(ctx context.Context, log *slog.Logger, res *Result, step string, sentinel, cause error) *Result {
	res.Err = errors.Join(sentinel, cause)
	m.count(step)

	level := slog.LevelWarn
	if step == stepSchedule {
		// The mail went out but its artifact now depends on the sweeper.
		level = slog.LevelError
	}
	log.Log(ctx, level, "artifact mail failed",
		slog.String("step", step),
		slog.Any("error", cause))
	return res
}

func (m *Mailer) count(outcome string) {
	if m.outcome != nil {
		m.outcome.WithLabelValues(outcome).Inc()
	}
}
