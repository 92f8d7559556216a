package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"time"

	"dbperf-analytics/internal/insights"
	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/outwriter"
	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/shared/metrics"
	"dbperf-analytics/internal/shared/svcerrors"
	"dbperf-analytics/internal/shared/validators"
	"dbperf-analytics/internal/stores"
)

const (
	ArtifactRequest    = "request.json"
	ArtifactBundleJSON = "bundle.json"
	ArtifactBundleYAML = "bundle.yaml"
	ArtifactSeries     = "series.parquet"
	ArtifactSlowest    = "slowest.parquet"
	ArtifactSummary    = "summary.txt"
	ArtifactManifest   = "manifest.json"
)

// ExportService renders series bundles into report artifacts.
//
// A report moves through two states:
//   - Request writes request.json and the report is pending
//   - Export writes the rendered artifacts and finally manifest.json, which completes it
//
//go:generate mockgen -source=export_service.go -destination=./mocks/export_service_mock.go -package=mocks
type ExportService interface {
	// Request validates filter and records it under a new report id.
	Request(ctx context.Context, filter models.FilterSelection) (string, error)
	// Export computes the bundle for filter and writes every artifact of reportID.
	Export(ctx context.Context, reportID string, filter models.FilterSelection) (*models.ReportManifest, error)
	State(ctx context.Context, reportID string) (*models.ReportState, error)
	Open(ctx context.Context, reportID, name string) (io.ReadCloser, error)
}

type artifactRenderer struct {
	name   string
	render func(w io.Writer, bundle *models.SeriesBundle) error
}

type exportService struct {
	seriesService insights.SeriesService
	reportStore   stores.ReportStore
	validator     *validators.Validate
	renderers     []artifactRenderer
	now           func() time.Time
}

func NewExportService(seriesService insights.SeriesService, reportStore stores.ReportStore) ExportService {
	return &exportService{
		seriesService: seriesService,
		reportStore:   reportStore,
		validator:     validators.New(),
		renderers:     defaultRenderers(),
		now:           time.Now,
	}
}

func defaultRenderers() []artifactRenderer {
	return []artifactRenderer{
		{name: ArtifactBundleJSON, render: func(w io.Writer, b *models.SeriesBundle) error {
			return outwriter.EncodeBundle(w, b, outwriter.FormatJSON)
		}},
		{name: ArtifactBundleYAML, render: func(w io.Writer, b *models.SeriesBundle) error {
			return outwriter.EncodeBundle(w, b, outwriter.FormatYAML)
		}},
		{name: ArtifactSeries, render: outwriter.WriteSeriesParquet},
		{name: ArtifactSlowest, render: func(w io.Writer, b *models.SeriesBundle) error {
			return outwriter.WriteSlowestParquet(w, b.Slowest)
		}},
		{name: ArtifactSummary, render: writeSummary},
	}
}

func (s *exportService) Request(ctx context.Context, filter models.FilterSelection) (string, error) {
	if err := s.validator.Struct(filter); err != nil {
		return "", errValidationFailed(err)
	}

	payload, err := json.Marshal(filter)
	if err != nil {
		return "", errInternalRenderFailed(ArtifactRequest, err)
	}

	reportID := s.reportStore.NewReportID()
	if err := s.save(ctx, reportID, ArtifactRequest, payload); err != nil {
		return "", err
	}

	loggers.Ctx(ctx).Debug().
		Str(loggers.FieldReportID, reportID).
		Msg("report requested")
	return reportID, nil
}

func (s *exportService) Export(ctx context.Context, reportID string, filter models.FilterSelection) (*models.ReportManifest, error) {
	manifest, err := s.export(ctx, reportID, filter)
	if err != nil {
		code := codeInternalRenderFailed
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			code = svcErr.Code
		}
		metricReportsExportedTotal.WithLabelValues(code).Inc()
		return nil, err
	}

	metricReportsExportedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return manifest, nil
}

func (s *exportService) export(ctx context.Context, reportID string, filter models.FilterSelection) (*models.ReportManifest, error) {
	logger := loggers.Ctx(ctx).With().Str(loggers.FieldReportID, reportID).Logger()

	bundle, err := s.seriesService.Compute(ctx, filter)
	if err != nil {
		return nil, err
	}

	artifacts := make([]string, 0, len(s.renderers))
	for _, renderer := range s.renderers {
		var buf bytes.Buffer
		if err := renderer.render(&buf, bundle); err != nil {
			return nil, errInternalRenderFailed(renderer.name, err)
		}
		if err := s.save(ctx, reportID, renderer.name, buf.Bytes()); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, renderer.name)
		logger.Debug().
			Str(loggers.FieldArtifact, renderer.name).
			Int("bytes", buf.Len()).
			Msg("report artifact written")
	}

	manifest := &models.ReportManifest{
		ReportID:    reportID,
		Filter:      filter,
		RecordCount: bundle.RecordCount,
		Artifacts:   artifacts,
		CreatedAt:   s.now().UTC(),
	}
	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errInternalRenderFailed(ArtifactManifest, err)
	}
	if err := s.save(ctx, reportID, ArtifactManifest, payload); err != nil {
		return nil, err
	}

	logger.Info().
		Int(loggers.FieldRecordSize, bundle.RecordCount).
		Strs("artifacts", artifacts).
		Msg("report exported")
	return manifest, nil
}

func (s *exportService) State(ctx context.Context, reportID string) (*models.ReportState, error) {
	names, err := s.reportStore.List(ctx, reportID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	status := models.ReportStatusPending
	if slices.Contains(names, ArtifactManifest) {
		status = models.ReportStatusCompleted
	}
	return &models.ReportState{
		ReportID:  reportID,
		Status:    status,
		Artifacts: names,
	}, nil
}

func (s *exportService) Open(ctx context.Context, reportID, name string) (io.ReadCloser, error) {
	rc, err := s.reportStore.Open(ctx, reportID, name)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return rc, nil
}

func (s *exportService) save(ctx context.Context, reportID, name string, payload []byte) error {
	if _, err := s.reportStore.Save(ctx, reportID, name, bytes.NewReader(payload)); err != nil {
		return mapStoreError(err)
	}
	metricArtifactBytes.WithLabelValues(name).Observe(float64(len(payload)))
	return nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, stores.ErrInvalidReportID):
		return errInvalidReportID(err)
	case errors.Is(err, stores.ErrInvalidArtifactName):
		return errInvalidArtifactName(err)
	case errors.Is(err, stores.ErrReportNotFound):
		return errReportNotFound(err)
	case errors.Is(err, stores.ErrReportArtifactExists):
		return errReportExists(err)
	default:
		return errInternalReportStoreFailed(err)
	}
}
