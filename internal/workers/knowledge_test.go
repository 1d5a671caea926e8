package workers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dojotek/chatbot/internal/knowledge"
	"github.com/dojotek/chatbot/internal/queue"
)

type fakeKnowledgeStore struct {
	file   knowledge.File
	getErr error

	processedErr error
	failedErr    error

	gotProcessedID   string
	gotExtractedText string
	processedCalls   int
	failedCalls      int
}

func (f *fakeKnowledgeStore) GetFile(ctx context.Context, fileID string) (knowledge.File, error) {
	return f.file, f.getErr
}

func (f *fakeKnowledgeStore) MarkFileProcessed(ctx context.Context, fileID, extractedText string) (knowledge.File, error) {
	f.processedCalls++
	f.gotProcessedID = fileID
	f.gotExtractedText = extractedText
	return f.file, f.processedErr
}

func (f *fakeKnowledgeStore) MarkFileFailed(ctx context.Context, fileID string) (knowledge.File, error) {
	f.failedCalls++
	return f.file, f.failedErr
}

type fakeExtractor struct {
	text string
	err  error

	gotURL         string
	gotContentType string
	calls          int
}

func (f *fakeExtractor) Extract(ctx context.Context, sourceURL, contentType string) (string, error) {
	f.calls++
	f.gotURL = sourceURL
	f.gotContentType = contentType
	return f.text, f.err
}

func newFileProcessorFixture() (*fakeKnowledgeStore, *fakeExtractor, *FileProcessor) {
	store := &fakeKnowledgeStore{file: knowledge.File{
		ID:          "file-1",
		KnowledgeID: "knowledge-1",
		Name:        "refund-policy",
		ContentType: "text/html",
		SourceURL:   "https://example.com/refund-policy",
		Status:      knowledge.FileStatusPending,
	}}
	extractor := &fakeExtractor{text: "# Refund policy\n\nFull refunds within 30 days."}
	return store, extractor, NewFileProcessor(nil, store, extractor)
}

func filePayload() queue.ProcessKnowledgeFilePayload {
	return queue.ProcessKnowledgeFilePayload{KnowledgeFileID: "file-1"}
}

func TestProcessFileHappyPath(t *testing.T) {
	store, extractor, p := newFileProcessorFixture()

	if err := p.Handle(context.Background(), filePayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if extractor.gotURL != "https://example.com/refund-policy" {
		t.Errorf("extract url = %q", extractor.gotURL)
	}
	if extractor.gotContentType != "text/html" {
		t.Errorf("extract content type = %q", extractor.gotContentType)
	}
	if store.processedCalls != 1 {
		t.Fatalf("processed calls = %d, want 1", store.processedCalls)
	}
	if store.gotProcessedID != "file-1" {
		t.Errorf("processed id = %q", store.gotProcessedID)
	}
	if store.gotExtractedText != extractor.text {
		t.Errorf("extracted text = %q", store.gotExtractedText)
	}
	if store.failedCalls != 0 {
		t.Error("file marked failed on success")
	}
}

func TestProcessFileUnprocessableMarkedFailed(t *testing.T) {
	store, extractor, p := newFileProcessorFixture()
	extractor.err = fmt.Errorf("unsupported content type application/zip: %w", knowledge.ErrUnprocessable)

	if err := p.Handle(context.Background(), filePayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if store.failedCalls != 1 {
		t.Errorf("failed calls = %d, want 1", store.failedCalls)
	}
	if store.processedCalls != 0 {
		t.Error("file marked processed despite unprocessable source")
	}
}

func TestProcessFileTransientErrorRetried(t *testing.T) {
	store, extractor, p := newFileProcessorFixture()
	extractor.err = errors.New("fetch source: connection refused")

	if err := p.Handle(context.Background(), filePayload()); err == nil {
		t.Fatal("Handle() = nil, want error")
	}
	if store.failedCalls != 0 {
		t.Error("transient failure marked the file failed")
	}
	if store.processedCalls != 0 {
		t.Error("transient failure marked the file processed")
	}
}

func TestProcessFileAlreadyProcessedSkipped(t *testing.T) {
	store, extractor, p := newFileProcessorFixture()
	store.file.Status = knowledge.FileStatusProcessed

	if err := p.Handle(context.Background(), filePayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if extractor.calls != 0 {
		t.Error("extractor called for processed file")
	}
}

func TestProcessFileMissingAcked(t *testing.T) {
	store, extractor, p := newFileProcessorFixture()
	store.getErr = knowledge.ErrFileNotFound

	if err := p.Handle(context.Background(), filePayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if extractor.calls != 0 {
		t.Error("extractor called for missing file")
	}
}

func TestProcessFileMarkFailedErrorRetried(t *testing.T) {
	store, extractor, p := newFileProcessorFixture()
	extractor.err = knowledge.ErrUnprocessable
	store.failedErr = errors.New("database down")

	if err := p.Handle(context.Background(), filePayload()); err == nil {
		t.Fatal("Handle() = nil, want error")
	}
}
