// Package knowledge manages knowledge bases, their source files, and the
// agent associations that scope response generation.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
	"github.com/dojotek/chatbot/internal/queue"
)

// Publisher enqueues background jobs. Satisfied by the queue client.
type Publisher interface {
	PublishJob(ctx context.Context, job string, payload any) error
}

type Service struct {
	queries *sqlc.Queries
	jobs    Publisher
	logger  *slog.Logger
}

var (
	ErrKnowledgeNotFound = errors.New("knowledge not found")
	ErrFileNotFound      = errors.New("knowledge file not found")
)

func NewService(log *slog.Logger, queries *sqlc.Queries, jobs Publisher) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		jobs:    jobs,
		logger:  log.With(slog.String("service", "knowledge")),
	}
}

func (s *Service) Create(ctx context.Context, req CreateKnowledgeRequest) (Knowledge, error) {
	if s.queries == nil {
		return Knowledge{}, fmt.Errorf("knowledge queries not configured")
	}
	customerID, err := db.ParseUUID(req.CustomerID)
	if err != nil {
		return Knowledge{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Knowledge{}, fmt.Errorf("name is required")
	}
	row, err := s.queries.CreateKnowledge(ctx, sqlc.CreateKnowledgeParams{
		CustomerID:  customerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return Knowledge{}, err
	}
	return toKnowledge(row), nil
}

func (s *Service) Get(ctx context.Context, knowledgeID string) (Knowledge, error) {
	if s.queries == nil {
		return Knowledge{}, fmt.Errorf("knowledge queries not configured")
	}
	pgID, err := db.ParseUUID(knowledgeID)
	if err != nil {
		return Knowledge{}, err
	}
	row, err := s.queries.GetKnowledgeByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Knowledge{}, ErrKnowledgeNotFound
		}
		return Knowledge{}, err
	}
	return toKnowledge(row), nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Knowledge, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("knowledge queries not configured")
	}
	pgID, err := db.ParseUUID(customerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListKnowledgesByCustomer(ctx, pgID)
	if err != nil {
		return nil, err
	}
	items := make([]Knowledge, 0, len(rows))
	for _, row := range rows {
		items = append(items, toKnowledge(row))
	}
	return items, nil
}

// AddFile registers a source document and schedules its text extraction.
// The file stays pending until the worker processes it.
func (s *Service) AddFile(ctx context.Context, req AddFileRequest) (File, error) {
	if s.queries == nil {
		return File{}, fmt.Errorf("knowledge queries not configured")
	}
	knowledgeID, err := db.ParseUUID(req.KnowledgeID)
	if err != nil {
		return File{}, err
	}
	name := strings.TrimSpace(req.Name)
	sourceURL := strings.TrimSpace(req.SourceURL)
	if name == "" || sourceURL == "" {
		return File{}, fmt.Errorf("name and source url are required")
	}
	row, err := s.queries.CreateKnowledgeFile(ctx, sqlc.CreateKnowledgeFileParams{
		KnowledgeID: knowledgeID,
		Name:        name,
		ContentType: strings.TrimSpace(req.ContentType),
		SourceUrl:   sourceURL,
		Status:      FileStatusPending,
	})
	if err != nil {
		return File{}, err
	}
	file := toFile(row)
	if s.jobs != nil {
		err := s.jobs.PublishJob(ctx, queue.JobProcessKnowledgeFile, queue.ProcessKnowledgeFilePayload{
			KnowledgeFileID: file.ID,
		})
		if err != nil {
			s.logger.Error("schedule knowledge file processing failed",
				slog.String("knowledge_file_id", file.ID),
				slog.Any("error", err),
			)
		}
	}
	return file, nil
}

func (s *Service) GetFile(ctx context.Context, fileID string) (File, error) {
	if s.queries == nil {
		return File{}, fmt.Errorf("knowledge queries not configured")
	}
	pgID, err := db.ParseUUID(fileID)
	if err != nil {
		return File{}, err
	}
	row, err := s.queries.GetKnowledgeFileByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrFileNotFound
		}
		return File{}, err
	}
	return toFile(row), nil
}

func (s *Service) ListFiles(ctx context.Context, knowledgeID string) ([]File, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("knowledge queries not configured")
	}
	pgID, err := db.ParseUUID(knowledgeID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListFilesByKnowledge(ctx, pgID)
	if err != nil {
		return nil, err
	}
	items := make([]File, 0, len(rows))
	for _, row := range rows {
		items = append(items, toFile(row))
	}
	return items, nil
}

// Associate links a knowledge base to an agent.
func (s *Service) Associate(ctx context.Context, chatAgentID, knowledgeID string) (Association, error) {
	if s.queries == nil {
		return Association{}, fmt.Errorf("knowledge queries not configured")
	}
	agentID, err := db.ParseUUID(chatAgentID)
	if err != nil {
		return Association{}, err
	}
	pgID, err := db.ParseUUID(knowledgeID)
	if err != nil {
		return Association{}, err
	}
	row, err := s.queries.CreateChatAgentKnowledge(ctx, sqlc.CreateChatAgentKnowledgeParams{
		ChatAgentID: agentID,
		KnowledgeID: pgID,
	})
	if err != nil {
		return Association{}, err
	}
	return toAssociation(row), nil
}

// ListAgentKnowledges returns an agent's active knowledge associations.
func (s *Service) ListAgentKnowledges(ctx context.Context, chatAgentID string) ([]Association, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("knowledge queries not configured")
	}
	agentID, err := db.ParseUUID(chatAgentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListActiveAgentKnowledges(ctx, agentID)
	if err != nil {
		return nil, err
	}
	items := make([]Association, 0, len(rows))
	for _, row := range rows {
		items = append(items, toAssociation(row))
	}
	return items, nil
}

// AgentContext returns the knowledge scope for an agent: its first active
// association and that knowledge base's processed files. Agents without an
// active association get a nil context and generation runs without
// knowledge grounding.
func (s *Service) AgentContext(ctx context.Context, chatAgentID string) (*AgentContext, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("knowledge queries not configured")
	}
	agentID, err := db.ParseUUID(chatAgentID)
	if err != nil {
		return nil, err
	}
	associations, err := s.queries.ListActiveAgentKnowledges(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if len(associations) == 0 {
		return nil, nil
	}
	knowledgeID := associations[0].KnowledgeID
	files, err := s.queries.ListProcessedKnowledgeFiles(ctx, knowledgeID)
	if err != nil {
		return nil, err
	}
	fileIDs := make([]string, 0, len(files))
	for _, file := range files {
		fileIDs = append(fileIDs, db.UUIDString(file.ID))
	}
	return &AgentContext{
		KnowledgeID: db.UUIDString(knowledgeID),
		FileIDs:     fileIDs,
	}, nil
}

func (s *Service) MarkFileProcessed(ctx context.Context, fileID, extractedText string) (File, error) {
	if s.queries == nil {
		return File{}, fmt.Errorf("knowledge queries not configured")
	}
	pgID, err := db.ParseUUID(fileID)
	if err != nil {
		return File{}, err
	}
	row, err := s.queries.SetKnowledgeFileProcessed(ctx, sqlc.SetKnowledgeFileProcessedParams{
		ID:            pgID,
		ExtractedText: extractedText,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrFileNotFound
		}
		return File{}, err
	}
	return toFile(row), nil
}

func (s *Service) MarkFileFailed(ctx context.Context, fileID string) (File, error) {
	if s.queries == nil {
		return File{}, fmt.Errorf("knowledge queries not configured")
	}
	pgID, err := db.ParseUUID(fileID)
	if err != nil {
		return File{}, err
	}
	row, err := s.queries.SetKnowledgeFileStatus(ctx, sqlc.SetKnowledgeFileStatusParams{
		ID:     pgID,
		Status: FileStatusFailed,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrFileNotFound
		}
		return File{}, err
	}
	return toFile(row), nil
}

func toKnowledge(row sqlc.Knowledge) Knowledge {
	return Knowledge{
		ID:          db.UUIDString(row.ID),
		CustomerID:  db.UUIDString(row.CustomerID),
		Name:        row.Name,
		Description: row.Description,
		IsActive:    row.IsActive,
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
		UpdatedAt:   db.TimeFromPg(row.UpdatedAt),
	}
}

func toFile(row sqlc.KnowledgeFile) File {
	return File{
		ID:            db.UUIDString(row.ID),
		KnowledgeID:   db.UUIDString(row.KnowledgeID),
		Name:          row.Name,
		ContentType:   row.ContentType,
		SourceURL:     row.SourceUrl,
		ExtractedText: row.ExtractedText,
		Status:        row.Status,
		IsActive:      row.IsActive,
		CreatedAt:     db.TimeFromPg(row.CreatedAt),
		UpdatedAt:     db.TimeFromPg(row.UpdatedAt),
	}
}

func toAssociation(row sqlc.ChatAgentKnowledge) Association {
	return Association{
		ID:          db.UUIDString(row.ID),
		ChatAgentID: db.UUIDString(row.ChatAgentID),
		KnowledgeID: db.UUIDString(row.KnowledgeID),
		IsActive:    row.IsActive,
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
	}
}
