// Package export turns store orders into downloadable spreadsheets.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/orderexport/backend/internal/domain/integration"
	"github.com/orderexport/backend/internal/infrastructure/telemetry"
)

// Count bounds for an export
const (
	MinCount     = 1
	MaxCount     = integration.MaxPullLimit
	DefaultCount = MaxCount
)

// ArtifactBaseName is the file name of every artifact, before the extension
const ArtifactBaseName = "orders"

var (
	ErrUnsupportedFormat = errors.New("export: unsupported format")
	ErrNoSink            = errors.New("export: no artifact sink configured")
	ErrEmptyArtifact     = errors.New("export: artifact has no data")
)

// ClampCount limits n to [MinCount, MaxCount]
func ClampCount(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// ParseCount parses a user supplied count. Empty or non-numeric input yields
// DefaultCount; the result is clamped.
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultCount
	}
	return ClampCount(n)
}

// ---------------------------------------------------------------------------
// Formats and ports
// ---------------------------------------------------------------------------

// Format is a spreadsheet file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DefaultFormat is used when no format is requested
const DefaultFormat = FormatXLSX

// ParseFormat normalizes a user supplied format name. Empty input yields DefaultFormat.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return DefaultFormat, nil
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// SheetWriter serializes rows into one file format
type SheetWriter interface {
	Format() Format
	ContentType() string
	Write(w io.Writer, rows []Row) error
}

// ArtifactSink stores a finished artifact and returns where it went
type ArtifactSink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Request describes an export. A zero Count means DefaultCount; an empty
// Format means DefaultFormat.
type Request struct {
	Count  int
	Format Format
}

// Artifact is a rendered export file
type Artifact struct {
	FileName     string
	ContentType  string
	Data         []byte
	OrderCount   int
	RowCount     int
	Unidentified int
}

// OrderSummary is one entry in the order list view
type OrderSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Customer string `json:"customer"`
}

// Service fetches orders and renders them as spreadsheets
type Service struct {
	source    integration.OrderSource
	formatter *Formatter
	writers   map[Format]SheetWriter
	sink      ArtifactSink
	metrics   *telemetry.ExportMetrics
	logger    *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithFormatter replaces the default formatter
func WithFormatter(f *Formatter) Option {
	return func(s *Service) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithWriter registers a writer for its format
func WithWriter(w SheetWriter) Option {
	return func(s *Service) {
		if w != nil {
			s.writers[w.Format()] = w
		}
	}
}

// WithSink sets where Publish stores artifacts
func WithSink(sink ArtifactSink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithMetrics sets the export metrics recorder
func WithMetrics(m *telemetry.ExportMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new export service
func NewService(source integration.OrderSource, opts ...Option) *Service {
	s := &Service{
		source:    source,
		formatter: NewFormatter(nil, nil),
		writers:   make(map[Format]SheetWriter),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Formats returns the registered formats
func (s *Service) Formats() []Format {
	out := make([]Format, 0, len(s.writers))
	for _, f := range []Format{FormatXLSX, FormatCSV} {
		if _, ok := s.writers[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// RawOrders returns the platform's order list body unmodified
func (s *Service) RawOrders(ctx context.Context) (json.RawMessage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "raw_orders")
	defer span.End()

	body, err := s.source.FetchOrdersRaw(ctx, &integration.OrderPullRequest{Limit: MaxCount})
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordUpstreamFailure(ctx, "raw_orders")
		return nil, err
	}
	telemetry.SetAttribute(span, "response_bytes", len(body))
	return body, nil
}

// ListOrders returns an id, name and customer summary per order
func (s *Service) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "list_orders")
	defer span.End()

	orders, err := s.source.PullOrders(ctx, &integration.OrderPullRequest{Limit: MaxCount})
	if err != nil {
		telemetry.RecordError(span, err)
		if integration.IsUpstreamError(err) {
			s.metrics.RecordUpstreamFailure(ctx, "list_orders")
		}
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, OrderSummary{
			ID:       o.ID,
			Name:     o.Name,
			Customer: o.CustomerName(),
		})
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderCount, len(summaries))
	return summaries, nil
}

// Export fetches orders and renders the first Count of them in the requested format
func (s *Service) Export(ctx context.Context, req Request) (*Artifact, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "export")
	defer span.End()

	format := req.Format
	if format == "" {
		format = DefaultFormat
	}
	writer, ok := s.writers[format]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		telemetry.RecordError(span, err)
		return nil, err
	}

	count := req.Count
	if count == 0 {
		count = DefaultCount
	}
	count = ClampCount(count)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrExportFormat, string(format),
		telemetry.SpanAttrExportCount, count,
	)

	orders, err := s.source.PullOrders(ctx, &integration.OrderPullRequest{Limit: MaxCount})
	if err != nil {
		telemetry.RecordError(span, err)
		if integration.IsUpstreamError(err) {
			s.metrics.RecordUpstreamFailure(ctx, "export")
		}
		return nil, err
	}

	var (
		rows     []Row
		buf      bytes.Buffer
		writeErr error
	)
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation:    "export",
		telemetry.ProfilingLabelExportFormat: string(format),
	}, func(context.Context) {
		rows = s.formatter.Format(orders, count)
		writeErr = writer.Write(&buf, rows)
	})
	if writeErr != nil {
		telemetry.RecordError(span, writeErr)
		return nil, fmt.Errorf("export: write %s: %w", format, writeErr)
	}
	stats := Summarize(rows)

	artifact := &Artifact{
		FileName:     FileName(format),
		ContentType:  writer.ContentType(),
		Data:         buf.Bytes(),
		OrderCount:   stats.Orders,
		RowCount:     len(rows),
		Unidentified: stats.Unidentified,
	}

	s.metrics.RecordExport(ctx, string(format), int64(artifact.OrderCount), int64(stats.Items), int64(artifact.Unidentified))
	if artifact.Unidentified > 0 {
		s.logger.Warn("export contains unidentified SKUs",
			zap.Int("unidentified", artifact.Unidentified),
			zap.Int("items", stats.Items),
		)
	}
	s.logger.Info("export rendered",
		zap.String("format", string(format)),
		zap.Int("orders", artifact.OrderCount),
		zap.Int("rows", artifact.RowCount),
		zap.Int("bytes", len(artifact.Data)),
	)
	telemetry.SetOK(span)
	return artifact, nil
}

// Publish stores the artifact through the configured sink and returns its location
func (s *Service) Publish(ctx context.Context, artifact *Artifact) (string, error) {
	if s.sink == nil {
		return "", ErrNoSink
	}
	if artifact == nil || len(artifact.Data) == 0 {
		return "", ErrEmptyArtifact
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "export", "publish")
	defer span.End()

	location, err := s.sink.Put(ctx, artifact.FileName, artifact.ContentType, artifact.Data)
	if err != nil {
		telemetry.RecordError(span, err)
		return "", fmt.Errorf("export: publish %s: %w", artifact.FileName, err)
	}
	s.logger.Info("export published", zap.String("location", location))
	return location, nil
}

// FileName returns the artifact file name for a format
func FileName(format Format) string {
	return ArtifactBaseName + "." + string(format)
}
