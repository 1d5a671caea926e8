package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dojotek/chatbot/internal/knowledge"
	"github.com/dojotek/chatbot/internal/queue"
)

// KnowledgeStore is the slice of the knowledge service the file processor
// needs.
type KnowledgeStore interface {
	GetFile(ctx context.Context, fileID string) (knowledge.File, error)
	MarkFileProcessed(ctx context.Context, fileID, extractedText string) (knowledge.File, error)
	MarkFileFailed(ctx context.Context, fileID string) (knowledge.File, error)
}

// TextExtractor fetches a source document and turns it into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, sourceURL, contentType string) (string, error)
}

// FileProcessor consumes process-knowledge-file jobs: fetch the source,
// extract its text, and record the result on the file row.
type FileProcessor struct {
	knowledge KnowledgeStore
	extractor TextExtractor
	logger    *slog.Logger
}

func NewFileProcessor(log *slog.Logger, store KnowledgeStore, extractor TextExtractor) *FileProcessor {
	if log == nil {
		log = slog.Default()
	}
	return &FileProcessor{
		knowledge: store,
		extractor: extractor,
		logger:    log.With(slog.String("worker", "knowledge")),
	}
}

// Handle processes one knowledge file. Unprocessable sources are marked
// failed and acked; transient fetch errors return an error so the queue
// redelivers.
func (p *FileProcessor) Handle(ctx context.Context, payload queue.ProcessKnowledgeFilePayload) error {
	file, err := p.knowledge.GetFile(ctx, payload.KnowledgeFileID)
	if err != nil {
		if errors.Is(err, knowledge.ErrFileNotFound) {
			p.logger.Warn("knowledge file vanished before processing",
				slog.String("knowledge_file_id", payload.KnowledgeFileID),
			)
			return nil
		}
		return fmt.Errorf("load knowledge file: %w", err)
	}
	if file.Status == knowledge.FileStatusProcessed {
		p.logger.Info("knowledge file already processed",
			slog.String("knowledge_file_id", file.ID),
		)
		return nil
	}

	text, err := p.extractor.Extract(ctx, file.SourceURL, file.ContentType)
	if err != nil {
		if errors.Is(err, knowledge.ErrUnprocessable) {
			p.logger.Warn("knowledge file unprocessable",
				slog.String("knowledge_file_id", file.ID),
				slog.String("error", err.Error()),
			)
			if _, markErr := p.knowledge.MarkFileFailed(ctx, file.ID); markErr != nil {
				return fmt.Errorf("mark knowledge file failed: %w", markErr)
			}
			return nil
		}
		return fmt.Errorf("extract knowledge file: %w", err)
	}

	if _, err := p.knowledge.MarkFileProcessed(ctx, file.ID, text); err != nil {
		return fmt.Errorf("mark knowledge file processed: %w", err)
	}
	p.logger.Info("knowledge file processed",
		slog.String("knowledge_file_id", file.ID),
		slog.Int("extracted_bytes", len(text)),
	)
	return nil
}
