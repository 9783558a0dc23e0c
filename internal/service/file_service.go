package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"github.com/webslinger-cto/fieldserve-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FileService struct {
	fileRepo  *repository.FileRepository
	jobRepo   *repository.JobRepository
	quoteRepo *repository.QuoteRepository
	store     storage.Storage
	logger    *zap.Logger
}

func NewFileService(
	fileRepo *repository.FileRepository,
	jobRepo *repository.JobRepository,
	quoteRepo *repository.QuoteRepository,
	store storage.Storage,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:  fileRepo,
		jobRepo:   jobRepo,
		quoteRepo: quoteRepo,
		store:     store,
		logger:    logger,
	}
}

// UploadForJob stores a job-site attachment and links it to the job
func (s *FileService) UploadForJob(ctx context.Context, jobID uuid.UUID, filename, contentType string, data io.Reader) (*domain.FileResponse, error) {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return s.upload(ctx, filename, contentType, data, &jobID, nil)
}

// UploadForQuote stores a quote attachment and links it to the quote
func (s *FileService) UploadForQuote(ctx context.Context, quoteID uuid.UUID, filename, contentType string, data io.Reader) (*domain.FileResponse, error) {
	if _, err := s.quoteRepo.GetByID(ctx, quoteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quote %s", ErrNotFound, quoteID)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return s.upload(ctx, filename, contentType, data, nil, &quoteID)
}

func (s *FileService) upload(ctx context.Context, filename, contentType string, data io.Reader, jobID, quoteID *uuid.UUID) (*domain.FileResponse, error) {
	storagePath, size, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	file := &domain.File{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		JobID:       jobID,
		QuoteID:     quoteID,
	}
	if user, ok := auth.FromContext(ctx); ok {
		file.UploadedByID = &user.UserID
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Orphaned blobs are worse than a failed request, clean up.
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up stored file after create error",
				zap.String("storagePath", storagePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("fileId", file.ID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size))

	return mapper.ToFileResponse(file), nil
}

// Download returns the stored content along with its metadata
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*domain.File, io.ReadCloser, error) {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.store.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	return file, reader, nil
}

// Delete removes both the metadata record and the stored content
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	if err := s.store.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storagePath", file.StoragePath), zap.Error(err))
	}
	return nil
}

// ListByJob returns metadata for a job's attachments
func (s *FileService) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.FileResponse, error) {
	files, err := s.fileRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return toFileResponses(files), nil
}

// ListByQuote returns metadata for a quote's attachments
func (s *FileService) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]domain.FileResponse, error) {
	files, err := s.fileRepo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return toFileResponses(files), nil
}

func (s *FileService) getFile(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: file %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}

func toFileResponses(files []domain.File) []domain.FileResponse {
	responses := make([]domain.FileResponse, len(files))
	for i := range files {
		responses[i] = *mapper.ToFileResponse(&files[i])
	}
	return responses
}
