package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/mikey/spam-ensemble/internal/ports"
	"github.com/mikey/spam-ensemble/internal/whitelist"
)

// AnalysisErrorHeader carries the failure when a message could not be classified
const AnalysisErrorHeader = "X-Spam-Analysis-Error"

// Options configures the SMTP content filter
type Options struct {
	ListenAddress string
	Model         core.Model
	BlockSpam     bool
	SpamHeader    string
	ScoreHeader   string
	ModelHeader   string
	RelayEnabled  bool
	RelayAddress  string
	RelayPort     int
	SubjectPrefix string
	ModifySubject bool
	Timeout       time.Duration
}

// SMTPFilter receives mail over SMTP, classifies it, stamps spam headers
// and relays it back to the MTA
type SMTPFilter struct {
	service ports.EnsembleService
	trusted *whitelist.Checker
	opts    Options
	logger  *zap.Logger

	mu     sync.Mutex
	server *smtp.Server
	addr   net.Addr
}

// NewSMTPFilter creates a new SMTP content filter
func NewSMTPFilter(service ports.EnsembleService, trusted *whitelist.Checker, opts Options, logger *zap.Logger) *SMTPFilter {
	if opts.SubjectPrefix == "" && opts.ModifySubject {
		opts.SubjectPrefix = "[**SPAM**] "
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &SMTPFilter{
		service: service,
		trusted: trusted,
		opts:    opts,
		logger:  logger,
	}
}

// Name identifies the front end in logs
func (f *SMTPFilter) Name() string {
	return "smtp"
}

// Start binds the listen address and accepts mail in the background
func (f *SMTPFilter) Start() error {
	ln, err := net.Listen("tcp", f.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.opts.ListenAddress, err)
	}

	server := smtp.NewServer(&backend{filter: f})
	server.Addr = f.opts.ListenAddress
	server.Domain = "localhost"
	server.ReadTimeout = f.opts.Timeout
	server.WriteTimeout = f.opts.Timeout
	server.MaxMessageBytes = 30 * 1024 * 1024
	server.MaxRecipients = 50

	f.mu.Lock()
	f.server = server
	f.addr = ln.Addr()
	f.mu.Unlock()

	f.logger.Info("SMTP filter starting",
		zap.String("address", ln.Addr().String()),
		zap.String("model", f.opts.Model.String()))

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start
func (f *SMTPFilter) Addr() net.Addr {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addr
}

// Stop shuts the SMTP server down
func (f *SMTPFilter) Stop(ctx context.Context) error {
	f.mu.Lock()
	server := f.server
	f.mu.Unlock()

	if server == nil {
		return nil
	}
	f.logger.Info("Shutting down SMTP filter")
	return server.Shutdown(ctx)
}

// Process classifies one raw message and returns it with the spam headers added.
// A spam message is rejected with a 550 *smtp.SMTPError when blocking is enabled.
func (f *SMTPFilter) Process(ctx context.Context, sender string, raw []byte) ([]byte, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Malformed message",
		}
	}

	header, body := splitMessage(raw)

	if f.trusted != nil && f.trusted.IsTrusted(sender) {
		f.logger.Debug("Skipping classification for trusted sender", zap.String("from", sender))
		return raw, nil
	}

	result, err := f.classify(ctx, msg)
	if err != nil {
		f.logger.Error("Failed to classify email",
			zap.String("from", sender),
			zap.Error(err))
		return assemble(fmt.Sprintf("%s: %s\r\n", AnalysisErrorHeader, sanitizeHeaderValue(err.Error())), header, body), nil
	}

	isSpam := result.Prediction == core.Spam
	if isSpam && f.opts.BlockSpam {
		f.logger.Info("Rejecting spam email",
			zap.String("from", sender),
			zap.Float64("score", result.Percentage),
			zap.String("model", result.Model.String()))
		return nil, &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as spam (score: %.2f)", result.Percentage),
		}
	}

	var stamp strings.Builder
	fmt.Fprintf(&stamp, "%s: %t\r\n", f.opts.SpamHeader, isSpam)
	fmt.Fprintf(&stamp, "%s: %.2f\r\n", f.opts.ScoreHeader, result.Percentage)
	fmt.Fprintf(&stamp, "%s: %s\r\n", f.opts.ModelHeader, result.Model.String())

	if isSpam && f.opts.ModifySubject && f.opts.SubjectPrefix != "" {
		header = prefixSubject(header, f.opts.SubjectPrefix)
	}

	f.logger.Info("Processed email",
		zap.String("from", sender),
		zap.Bool("is_spam", isSpam),
		zap.Float64("score", result.Percentage),
		zap.String("model", result.Model.String()))

	return assemble(stamp.String(), header, body), nil
}

func (f *SMTPFilter) classify(ctx context.Context, msg *mail.Message) (*core.Classification, error) {
	text, err := extractText(msg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()
	return f.service.ClassifySingle(ctx, text, f.opts.Model)
}

// splitMessage separates the raw header block (with its final line break) from the body
func splitMessage(raw []byte) (header, body []byte) {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return raw[:i+2], raw[i+4:]
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return raw[:i+1], raw[i+2:]
	}
	return raw, nil
}

func assemble(stamp string, header, body []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(stamp) + len(header) + len(body) + 2)
	out.WriteString(stamp)
	out.Write(header)
	out.WriteString("\r\n")
	out.Write(body)
	return out.Bytes()
}

// prefixSubject rewrites the Subject field of a raw header block, keeping every other line in place
func prefixSubject(header []byte, prefix string) []byte {
	lines := strings.SplitAfter(string(header), "\n")
	var out strings.Builder
	found := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if found || !strings.HasPrefix(strings.ToLower(line), "subject:") {
			out.WriteString(line)
			continue
		}
		found = true

		value := strings.TrimSpace(line[len("subject:"):])
		// unfold continuation lines
		for i+1 < len(lines) && (strings.HasPrefix(lines[i+1], " ") || strings.HasPrefix(lines[i+1], "\t")) {
			i++
			value += " " + strings.TrimSpace(lines[i])
		}

		subject := decodeHeader(value)
		if !strings.HasPrefix(subject, prefix) {
			subject = prefix + subject
		}
		fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	}

	if !found {
		fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", strings.TrimSpace(prefix)))
	}
	return []byte(out.String())
}

func sanitizeHeaderValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// backend implements the go-smtp Backend interface
type backend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{filter: b.filter}, nil
}

// session implements the go-smtp Session interface
type session struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

func (s *session) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *session) Logout() error {
	return nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	out, err := s.filter.Process(context.Background(), s.sender, raw)
	if err != nil {
		return err
	}

	if !s.filter.opts.RelayEnabled {
		s.filter.logger.Warn("Relay disabled, message accepted but not forwarded",
			zap.String("from", s.sender))
		return nil
	}

	relayAddr := net.JoinHostPort(s.filter.opts.RelayAddress, fmt.Sprint(s.filter.opts.RelayPort))
	if err := relay(relayAddr, s.sender, s.recipients, out, s.filter.opts.Timeout, s.filter.logger); err != nil {
		s.filter.logger.Error("Failed to relay email",
			zap.String("relay", relayAddr),
			zap.String("from", s.sender),
			zap.Error(err))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 4, 0},
			Message:      "Relay temporarily unavailable",
		}
	}
	return nil
}
