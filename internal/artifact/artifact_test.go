package artifact_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pdfmail/internal/artifact"
	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/internal/disposal"
	"github.com/dmitrymomot/pdfmail/pkg/job"
	"github.com/dmitrymomot/pdfmail/pkg/mailer"
	"github.com/dmitrymomot/pdfmail/pkg/pdf"
	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

// MockDirs is a mock implementation of artifact.DirectoryStore.
type MockDirs struct {
	mock.Mock
}

func (m *MockDirs) EnsureDir(ctx context.Context, uri string, flags storage.DirFlag) error {
	return m.Called(ctx, uri, flags).Error(0)
}

// MockPrinter is a mock implementation of artifact.Printer.
type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) Engine(format string) (pdf.Engine, error) {
	args := m.Called(format)
	if e := args.Get(0); e != nil {
		return e.(pdf.Engine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPrinter) SavePrintable(ctx context.Context, pages []pdf.Page, engine pdf.Engine, uri string) (*pdf.Printable, error) {
	args := m.Called(ctx, pages, engine, uri)
	if p := args.Get(0); p != nil {
		return p.(*pdf.Printable), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSender is a mock implementation of artifact.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, params mailer.SendParams) error {
	return m.Called(ctx, params).Error(0)
}

// MockQueue is a mock implementation of artifact.Queue.
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, task string, payload any, opts ...job.EnqueueOption) error {
	return m.Called(ctx, task, payload, len(opts)).Error(0)
}

// MockEngine is a mock implementation of pdf.Engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Format() string      { return pdf.FormatPDF }
func (m *MockEngine) ContentType() string { return pdf.ContentTypePDF }

func (m *MockEngine) Render(ctx context.Context, doc pdf.Document) ([]byte, error) {
	args := m.Called(ctx, doc)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

const (
	outputDir = "public://emailed_pdfs"
	reportURI = "public://emailed_pdfs/Annual Report.pdf"
)

var (
	blob   = []byte("%PDF-1.7 annual report")
	report = &content.Entity{ID: 42, Label: "Annual Report", Body: "<p>Revenue grew.</p>"}
)

func defaultConfig() artifact.Config {
	return artifact.Config{
		OutputDir: outputDir,
		Naming:    artifact.NamingLabel,
		Recipient: "test@test.com",
		Template:  "artifact_mail.md",
		Notice:    "Email sent successfully",
	}
}

type deps struct {
	dirs    *MockDirs
	printer *MockPrinter
	sender  *MockSender
	queue   *MockQueue
	engine  *MockEngine
	counter *prometheus.CounterVec
}

func (d *deps) assert(t *testing.T) {
	t.Helper()
	d.dirs.AssertExpectations(t)
	d.printer.AssertExpectations(t)
	d.sender.AssertExpectations(t)
	d.queue.AssertExpectations(t)
}

func newMailer(t *testing.T, cfg artifact.Config, opts ...artifact.Option) (*artifact.Mailer, *deps) {
	t.Helper()

	d := &deps{
		dirs:    &MockDirs{},
		printer: &MockPrinter{},
		sender:  &MockSender{},
		queue:   &MockQueue{},
		engine:  &MockEngine{},
		counter: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "artifacts_total"}, []string{"outcome"}),
	}
	opts = append(opts, artifact.WithOutcomeCounter(d.counter))

	m, err := artifact.New(cfg, d.dirs, d.printer, d.sender, d.queue, opts...)
	require.NoError(t, err)
	return m, d
}

func (d *deps) expectDir(err error) {
	d.dirs.On("EnsureDir", mock.Anything, outputDir, storage.CreateDirectory|storage.ModifyPermissions).Return(err).Once()
}

func (d *deps) expectRender(err error) {
	d.printer.On("Engine", pdf.FormatPDF).Return(d.engine, nil).Once()
	if err != nil {
		d.printer.On("SavePrintable", mock.Anything, mock.Anything, d.engine, reportURI).Return(nil, err).Once()
		return
	}
	d.printer.On("SavePrintable", mock.Anything, []pdf.Page{report}, d.engine, reportURI).
		Return(&pdf.Printable{URI: reportURI, ContentType: pdf.ContentTypePDF, Blob: blob}, nil).Once()
}

func (d *deps) expectSend(err error) {
	d.sender.On("Send", mock.Anything, mock.MatchedBy(func(p mailer.SendParams) bool {
		return p.To == "test@test.com" &&
			p.Template == "artifact_mail.md" &&
			p.Locale == "de" &&
			len(p.Attachments) == 1 &&
			p.Attachments[0].Filename == "Annual Report.pdf" &&
			p.Attachments[0].ContentType == "application/pdf" &&
			string(p.Attachments[0].Content) == string(blob)
	})).Return(err).Once()
}

func (d *deps) expectEnqueue(err error) {
	d.queue.On("Enqueue", mock.Anything, disposal.TaskName, disposal.Record{URI: reportURI}, mock.Anything).Return(err).Once()
}

func (d *deps) outcome(name string) float64 {
	return testutil.ToFloat64(d.counter.WithLabelValues(name))
}

func TestMailer_Process_Success(t *testing.T) {
	t.Parallel()

	m, d := newMailer(t, defaultConfig())
	d.expectDir(nil)
	d.expectRender(nil)
	d.expectSend(nil)
	d.expectEnqueue(nil)

	res := m.Process(context.Background(), report, "de")

	require.NoError(t, res.Err)
	assert.True(t, res.Notified)
	assert.Equal(t, "Email sent successfully", res.Notice)
	assert.Equal(t, "/content/42", res.Redirect)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, reportURI, res.Artifact.URI)
	assert.Equal(t, "Annual Report.pdf", res.Artifact.Filename)
	assert.Equal(t, blob, res.Artifact.Blob)
	assert.InDelta(t, 1, d.outcome("sent"), 0)
	d.assert(t)
}

func TestMailer_Process_Failures(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name     string
		setup    func(d *deps)
		sentinel error
		outcome  string
		artifact bool
	}{
		{
			name:     "directory unavailable",
			setup:    func(d *deps) { d.expectDir(cause) },
			sentinel: artifact.ErrDirectoryUnavailable,
			outcome:  "directory_unavailable",
		},
		{
			name: "unknown engine",
			setup: func(d *deps) {
				d.expectDir(nil)
				d.printer.On("Engine", pdf.FormatPDF).Return(nil, pdf.ErrUnknownFormat).Once()
			},
			sentinel: artifact.ErrRenderFailure,
			outcome:  "render_failure",
		},
		{
			name: "render failure",
			setup: func(d *deps) {
				d.expectDir(nil)
				d.expectRender(cause)
			},
			sentinel: artifact.ErrRenderFailure,
			outcome:  "render_failure",
		},
		{
			name: "no stored file",
			setup: func(d *deps) {
				d.expectDir(nil)
				d.printer.On("Engine", pdf.FormatPDF).Return(d.engine, nil).Once()
				d.printer.On("SavePrintable", mock.Anything, mock.Anything, d.engine, reportURI).
					Return(&pdf.Printable{Blob: blob}, nil).Once()
			},
			sentinel: artifact.ErrRenderFailure,
			outcome:  "render_failure",
		},
		{
			name: "send failure",
			setup: func(d *deps) {
				d.expectDir(nil)
				d.expectRender(nil)
				d.expectSend(cause)
			},
			sentinel: artifact.ErrSendFailure,
			outcome:  "send_failure",
			artifact: true,
		},
		{
			name: "schedule failure",
			setup: func(d *deps) {
				d.expectDir(nil)
				d.expectRender(nil)
				d.expectSend(nil)
				d.expectEnqueue(cause)
			},
			sentinel: artifact.ErrScheduleFailure,
			outcome:  "schedule_failure",
			artifact: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, d := newMailer(t, defaultConfig())
			tt.setup(d)

			res := m.Process(context.Background(), report, "de")

			require.ErrorIs(t, res.Err, tt.sentinel)
			assert.False(t, res.Notified)
			assert.Empty(t, res.Notice)
			assert.Equal(t, "/content/42", res.Redirect)
			assert.Equal(t, tt.artifact, res.Artifact != nil)
			assert.InDelta(t, 1, d.outcome(tt.outcome), 0)
			assert.InDelta(t, 0, d.outcome("sent"), 0)
			d.assert(t)

			// Later steps never run after a failure.
			if tt.sentinel != artifact.ErrScheduleFailure {
				d.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestMailer_Process_NilEntity(t *testing.T) {
	t.Parallel()

	m, d := newMailer(t, defaultConfig())
	res := m.Process(context.Background(), nil, "")

	require.ErrorIs(t, res.Err, artifact.ErrRenderFailure)
	require.Equal(t, "/", res.Redirect)
	d.assert(t)
}

func TestMailer_Process_DisposalOptions(t *testing.T) {
	t.Parallel()

	m, d := newMailer(t, defaultConfig(), artifact.WithDisposalOptions(job.ScheduledIn(0), job.MaxAttempts(3)))
	d.expectDir(nil)
	d.expectRender(nil)
	d.expectSend(nil)
	d.queue.On("Enqueue", mock.Anything, disposal.TaskName, disposal.Record{URI: reportURI}, 2).Return(nil).Once()

	res := m.Process(context.Background(), report, "de")
	require.NoError(t, res.Err)
	d.assert(t)
}

func TestMailer_Process_ReplyToAndSubject(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.ReplyTo = "office@example.com"
	cfg.Subject = "Your copy of {{.Label}}"

	m, d := newMailer(t, cfg)
	d.expectDir(nil)
	d.expectRender(nil)
	d.sender.On("Send", mock.Anything, mock.MatchedBy(func(p mailer.SendParams) bool {
		return p.ReplyTo == "office@example.com" && p.Subject == "Your copy of {{.Label}}"
	})).Return(nil).Once()
	d.expectEnqueue(nil)

	require.NoError(t, m.Process(context.Background(), report, "").Err)
	d.assert(t)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(c *artifact.Config)
	}{
		{"bad output dir", func(c *artifact.Config) { c.OutputDir = "emailed_pdfs" }},
		{"scheme root", func(c *artifact.Config) { c.OutputDir = "public://" }},
		{"unknown naming", func(c *artifact.Config) { c.Naming = "hash" }},
		{"bad recipient", func(c *artifact.Config) { c.Recipient = "not an address" }},
		{"bad reply-to", func(c *artifact.Config) { c.ReplyTo = "nope" }},
		{"no template", func(c *artifact.Config) { c.Template = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.modify(&cfg)
			_, err := artifact.New(cfg, &MockDirs{}, &MockPrinter{}, &MockSender{}, &MockQueue{})
			require.ErrorIs(t, err, artifact.ErrInvalidConfig)
		})
	}

	t.Run("missing collaborator", func(t *testing.T) {
		t.Parallel()
		_, err := artifact.New(defaultConfig(), &MockDirs{}, nil, &MockSender{}, &MockQueue{})
		require.ErrorIs(t, err, artifact.ErrInvalidConfig)
	})
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  string
	}{
		{"Annual Report", "Annual Report.pdf"},
		{"Q1/Q2 figures", "Q1Q2 figures.pdf"},
		{"../../etc/passwd", "etcpasswd.pdf"},
		{`C:\temp\x`, "C:tempx.pdf"},
		{"....", "7.pdf"},
		{"  ", "7.pdf"},
		{"", "7.pdf"},
		{"tab\there", "tabhere.pdf"},
		{"Bericht für 2025", "Bericht für 2025.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, artifact.FileName(&content.Entity{ID: 7, Label: tt.label}))
		})
	}
}

func TestFileName_LongLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"two byte runes", strings.Repeat("ü", 150), strings.Repeat("ü", 125) + ".pdf"},
		{"three byte runes", strings.Repeat("€", 100), strings.Repeat("€", 83) + ".pdf"},
		{"ascii", strings.Repeat("a", 300), strings.Repeat("a", 251) + ".pdf"},
		{"exact fit", strings.Repeat("a", 251), strings.Repeat("a", 251) + ".pdf"},
		{"trailing dot after cut", strings.Repeat("a", 250) + ". tail", strings.Repeat("a", 250) + ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := artifact.FileName(&content.Entity{ID: 7, Label: tt.label})
			assert.LessOrEqual(t, len(got), 255)
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMailer_Process_LongLabel(t *testing.T) {
	t.Parallel()

	long := &content.Entity{ID: 9, Label: strings.Repeat("Bericht ü ", 30), Body: "<p>long</p>"}
	name := artifact.FileName(long)
	uri := "public://emailed_pdfs/" + name

	p := newPipeline(t, artifact.NamingLabel)
	p.engine.On("Render", mock.Anything, mock.Anything).Return(blob, nil).Once()
	p.sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	p.queue.On("Enqueue", mock.Anything, disposal.TaskName, disposal.Record{URI: uri}, 0).Return(nil).Once()

	res := p.mailer.Process(context.Background(), long, "")

	require.NoError(t, res.Err)
	require.True(t, res.Notified)
	require.FileExists(t, filepath.Join(p.public, "emailed_pdfs", name))
	p.queue.AssertExpectations(t)
}

// pipeline wires a Mailer with real local storage, printer and mailer;
// only the PDF engine, the mail transport and the queue are mocked.
type pipeline struct {
	mailer *artifact.Mailer
	engine *MockEngine
	sender *mailSender
	queue  *MockQueue
	public string
}

// mailSender is a mock implementation of mailer.Sender.
type mailSender struct {
	mock.Mock
}

func (m *mailSender) Send(ctx context.Context, email *mailer.Email) error {
	return m.Called(ctx, email).Error(0)
}

func newPipeline(t *testing.T, naming artifact.Naming) *pipeline {
	t.Helper()

	base := t.TempDir()
	store, err := storage.NewLocal(storage.LocalConfig{
		PublicDir:  filepath.Join(base, "public"),
		PrivateDir: filepath.Join(base, "private"),
	})
	require.NoError(t, err)

	p := &pipeline{
		engine: &MockEngine{},
		sender: &mailSender{},
		queue:  &MockQueue{},
		public: filepath.Join(base, "public"),
	}

	printer := pdf.NewPrinter(store, pdf.WithEngine(p.engine))
	renderer := mailer.NewRendererWithConfig(artifact.Templates(), mailer.RendererConfig{LayoutDir: "layouts"})
	mail := mailer.New(p.sender, renderer, mailer.Config{DefaultLayout: "base.html", FallbackSubject: "Document"})

	cfg := defaultConfig()
	cfg.Naming = naming
	p.mailer, err = artifact.New(cfg, store, printer, mail, p.queue)
	require.NoError(t, err)
	return p
}

func TestMailer_Process_EndToEnd(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, artifact.NamingLabel)
	p.engine.On("Render", mock.Anything, mock.MatchedBy(func(doc pdf.Document) bool {
		return doc.Title == "Annual Report"
	})).Return(blob, nil).Once()
	p.sender.On("Send", mock.Anything, mock.MatchedBy(func(email *mailer.Email) bool {
		return email.To[0] == "test@test.com" &&
			email.Subject == "Annual Report als PDF" &&
			email.Headers["Content-Language"] == "de" &&
			len(email.Attachments) == 1 &&
			email.Attachments[0].Filename == "Annual Report.pdf" &&
			email.Attachments[0].ContentType == "application/pdf"
	})).Return(nil).Once()
	p.queue.On("Enqueue", mock.Anything, disposal.TaskName, disposal.Record{URI: reportURI}, 0).Return(nil).Once()

	res := p.mailer.Process(context.Background(), report, "de-AT, en;q=0.8")

	require.NoError(t, res.Err)
	require.True(t, res.Notified)
	require.Equal(t, reportURI, res.Artifact.URI)

	stored, err := os.ReadFile(filepath.Join(p.public, "emailed_pdfs", "Annual Report.pdf"))
	require.NoError(t, err)
	require.Equal(t, blob, stored)

	p.engine.AssertExpectations(t)
	p.sender.AssertExpectations(t)
	p.queue.AssertExpectations(t)
}

func TestMailer_Process_SendFailureKeepsFile(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, artifact.NamingLabel)
	p.engine.On("Render", mock.Anything, mock.Anything).Return(blob, nil).Once()
	p.sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	res := p.mailer.Process(context.Background(), report, "")

	require.ErrorIs(t, res.Err, artifact.ErrSendFailure)
	require.ErrorIs(t, res.Err, mailer.ErrSendFailed)
	require.FileExists(t, filepath.Join(p.public, "emailed_pdfs", "Annual Report.pdf"))
	p.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMailer_Process_LabelCollision(t *testing.T) {
	t.Parallel()

	first := &content.Entity{ID: 1, Label: "Minutes", Body: "<p>first</p>"}
	second := &content.Entity{ID: 2, Label: "Minutes", Body: "<p>second</p>"}

	t.Run("label naming overwrites", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, artifact.NamingLabel)
		p.engine.On("Render", mock.Anything, mock.MatchedBy(func(doc pdf.Document) bool {
			return strings.Contains(doc.HTML, "first")
		})).Return([]byte("first"), nil).Once()
		p.engine.On("Render", mock.Anything, mock.MatchedBy(func(doc pdf.Document) bool {
			return strings.Contains(doc.HTML, "second")
		})).Return([]byte("second"), nil).Once()
		p.sender.On("Send", mock.Anything, mock.Anything).Return(nil).Twice()
		p.queue.On("Enqueue", mock.Anything, disposal.TaskName, disposal.Record{URI: "public://emailed_pdfs/Minutes.pdf"}, 0).Return(nil).Twice()

		var wg sync.WaitGroup
		results := make([]*artifact.Result, 2)
		for i, e := range []*content.Entity{first, second} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = p.mailer.Process(context.Background(), e, "")
			}()
		}
		wg.Wait()

		for _, res := range results {
			require.NoError(t, res.Err)
			require.True(t, res.Notified)
		}

		stored, err := os.ReadFile(filepath.Join(p.public, "emailed_pdfs", "Minutes.pdf"))
		require.NoError(t, err)
		require.Contains(t, []string{"first", "second"}, string(stored))

		entries, err := os.ReadDir(filepath.Join(p.public, "emailed_pdfs"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		p.queue.AssertExpectations(t)
	})

	t.Run("id naming keeps both", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, artifact.NamingID)
		p.engine.On("Render", mock.Anything, mock.Anything).Return([]byte("first"), nil).Once()
		p.engine.On("Render", mock.Anything, mock.Anything).Return([]byte("second"), nil).Once()
		p.sender.On("Send", mock.Anything, mock.Anything).Return(nil).Twice()
		p.queue.On("Enqueue", mock.Anything, disposal.TaskName, disposal.Record{URI: "public://emailed_pdfs/1/Minutes.pdf"}, 0).Return(nil).Once()
		p.queue.On("Enqueue", mock.Anything, disposal.TaskName, disposal.Record{URI: "public://emailed_pdfs/2/Minutes.pdf"}, 0).Return(nil).Once()

		require.NoError(t, p.mailer.Process(context.Background(), first, "").Err)
		require.NoError(t, p.mailer.Process(context.Background(), second, "").Err)

		for id, want := range map[string]string{"1": "first", "2": "second"} {
			stored, err := os.ReadFile(filepath.Join(p.public, "emailed_pdfs", id, "Minutes.pdf"))
			require.NoError(t, err)
			require.Equal(t, want, string(stored))
		}
		p.queue.AssertExpectations(t)
	})
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"artifact_mail.md", "artifact_mail.de.md", "layouts/base.html"} {
		_, err := os.Stat(filepath.Join("templates", name))
		require.NoError(t, err, name)
	}

	renderer := mailer.NewRendererWithConfig(artifact.Templates(), mailer.RendererConfig{LayoutDir: "layouts"})
	out, err := renderer.Render("base.html", "artifact_mail.md", "en", map[string]any{
		"Label": "Q1", "Filename": "Q1.pdf", "URL": "/content/1",
	})
	require.NoError(t, err)
	require.Contains(t, out.HTML, `<html lang="en">`)
	require.Contains(t, out.HTML, "<strong>Q1</strong>")
	require.Equal(t, "{{.Label}} as PDF", out.Metadata["Subject"])
}
