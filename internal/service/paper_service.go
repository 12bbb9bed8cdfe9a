package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
	"github.com/noah-isme/teach-assist-api/pkg/export"
	"github.com/noah-isme/teach-assist-api/pkg/jobs"
	"github.com/noah-isme/teach-assist-api/pkg/storage"
)

// JobKindPaperExport tags queued paper renders.
const JobKindPaperExport = "paper_export"

// ErrExportBusy is returned when the export queue cannot accept more work.
var ErrExportBusy = appErrors.New("EXPORT_QUEUE_FULL", http.StatusServiceUnavailable, "paper export queue is full, retry later")

type paperStorage interface {
	Save(name string, data []byte) error
	Read(name string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type paperRenderer interface {
	Render(p export.Paper) ([]byte, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type downloadSigner interface {
	Generate(jobID string, examID int64, file string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (*storage.DownloadClaims, error)
}

// PaperConfig tunes paper exports.
type PaperConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

type paperJob struct {
	ExamID int64
	File   string
}

// PaperService renders printable exam papers, synchronously or through the
// export queue.
type PaperService struct {
	exams     examStore
	questions questionStore
	renderer  paperRenderer
	storage   paperStorage
	signer    downloadSigner
	queue     jobEnqueuer
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       PaperConfig
}

// NewPaperService constructs the paper service. queue and storage may be nil
// when only synchronous rendering is needed.
func NewPaperService(exams examStore, questions questionStore, renderer paperRenderer, store paperStorage, signer downloadSigner, queue jobEnqueuer, metrics *MetricsService, logger *zap.Logger, cfg PaperConfig) *PaperService {
	if renderer == nil {
		renderer = export.NewPaperRenderer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	cfg.APIPrefix = strings.TrimRight(cfg.APIPrefix, "/")
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &PaperService{
		exams:     exams,
		questions: questions,
		renderer:  renderer,
		storage:   store,
		signer:    signer,
		queue:     queue,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// RenderPaper builds the PDF for an exam.
func (s *PaperService) RenderPaper(ctx context.Context, examID int64) ([]byte, error) {
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, internal(err, "failed to load questions")
	}
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "No questions found for this exam")
	}
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, lookup(err, "Exam")
	}

	paper := export.Paper{ExamID: examID, Title: exam.Title}
	for _, q := range questions {
		pq := export.PaperQuestion{Text: q.Content}
		switch q.Category {
		case models.CategoryMCQ:
			pq.Options = q.Options
			paper.MCQ = append(paper.MCQ, pq)
		case models.CategoryOneMark:
			paper.OneMark = append(paper.OneMark, pq)
		default:
			paper.ThreeMark = append(paper.ThreeMark, pq)
		}
	}

	payload, err := s.renderer.Render(paper)
	if err != nil {
		return nil, internal(err, "failed to render exam paper")
	}
	return payload, nil
}

// ExportPaper queues a render and returns a signed download link that becomes
// valid once the job has stored the file.
func (s *PaperService) ExportPaper(ctx context.Context, examID int64) (*dto.PaperExportResponse, error) {
	if s.queue == nil || s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "paper export is not configured")
	}
	if _, err := s.exams.FindByID(ctx, examID); err != nil {
		return nil, lookup(err, "Exam")
	}

	jobID := uuid.NewString()
	file := fmt.Sprintf("exam-%d-%s.pdf", examID, jobID)
	token, expiresAt, err := s.signer.Generate(jobID, examID, file)
	if err != nil {
		return nil, internal(err, "failed to sign download link")
	}

	err = s.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Kind:    JobKindPaperExport,
		Payload: paperJob{ExamID: examID, File: file},
	})
	switch {
	case errors.Is(err, jobs.ErrQueueFull):
		return nil, ErrExportBusy
	case err != nil:
		return nil, internal(err, "failed to queue paper export")
	}

	s.logger.Info("paper export queued", zap.String("job_id", jobID), zap.Int64("exam_id", examID))
	return &dto.PaperExportResponse{
		JobID:       jobID,
		ExamID:      examID,
		DownloadURL: s.cfg.APIPrefix + "/exports/" + token,
		ExpiresAt:   expiresAt,
	}, nil
}

// HandleJob is the export queue handler.
func (s *PaperService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(paperJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	pdf, err := s.RenderPaper(ctx, payload.ExamID)
	if err != nil {
		return err
	}
	if err := s.storage.Save(payload.File, pdf); err != nil {
		return fmt.Errorf("store paper: %w", err)
	}
	s.metrics.RecordExportJob("success")
	s.logger.Info("paper export stored", zap.String("job_id", job.ID), zap.String("file", payload.File), zap.Int("bytes", len(pdf)))
	return nil
}

// ExportFailed is the export queue give-up hook.
func (s *PaperService) ExportFailed(job jobs.Job, err error) {
	s.metrics.RecordExportJob("failed")
	s.logger.Error("paper export abandoned", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
}

// ServeExport resolves a download token to the stored PDF.
func (s *PaperService) ServeExport(ctx context.Context, token string) ([]byte, string, error) {
	if s.storage == nil || s.signer == nil {
		return nil, "", appErrors.Clone(appErrors.ErrInternal, "paper export is not configured")
	}
	claims, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	payload, err := s.storage.Read(claims.File)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "Export is not ready yet")
		}
		return nil, "", internal(err, "failed to read export")
	}
	return payload, claims.File, nil
}

// CleanupExports removes stored papers older than the download TTL.
func (s *PaperService) CleanupExports() ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		return removed, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired paper exports removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}
