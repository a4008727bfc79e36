package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"docuchat-be/internal/dto"
	"docuchat-be/internal/entity"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/repository/contract"
	"docuchat-be/pkg/events"
	pktNats "docuchat-be/pkg/nats"
	"docuchat-be/pkg/vectorstore"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, sessionId string, files []*multipart.FileHeader) (*dto.UploadResponse, error)
	List(ctx context.Context, sessionId string) (*dto.ListDocumentsResponse, error)
	Delete(ctx context.Context, sessionId, documentId string) (*dto.DeleteDocumentResponse, error)
}

type documentService struct {
	sessionService   ISessionService
	sessionRepo      contract.SessionRepository
	documentRepo     contract.DocumentRepository
	historyRepo      contract.HistoryRepository
	store            vectorstore.VectorStore
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewDocumentService(
	sessionService ISessionService,
	sessionRepo contract.SessionRepository,
	documentRepo contract.DocumentRepository,
	historyRepo contract.HistoryRepository,
	store vectorstore.VectorStore,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		sessionService:   sessionService,
		sessionRepo:      sessionRepo,
		documentRepo:     documentRepo,
		historyRepo:      historyRepo,
		store:            store,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

// Upload registers each file and queues it for asynchronous ingestion. A
// file that cannot be read or queued gets an error status without failing
// the rest of the batch.
func (d *documentService) Upload(ctx context.Context, sessionId string, files []*multipart.FileHeader) (*dto.UploadResponse, error) {
	start := time.Now()

	if err := d.sessionService.Validate(ctx, sessionId); err != nil {
		return nil, err
	}

	// Uploads count as interaction: renew every per-session TTL.
	for name, touch := range map[string]func(context.Context, string) error{
		"session":   d.sessionRepo.Touch,
		"history":   d.historyRepo.Touch,
		"documents": d.documentRepo.Touch,
	} {
		if err := touch(ctx, sessionId); err != nil {
			d.logger.Warn("document", "TTL refresh failed", map[string]interface{}{
				"session_id": sessionId, "namespace": name, "error": err.Error(),
			})
		}
	}

	collection, err := d.documentRepo.ResolveCollection(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	statuses := make([]*dto.UploadFileStatus, 0, len(files))
	for _, fileHeader := range files {
		fileStart := time.Now()
		status := d.uploadOne(ctx, sessionId, collection, fileHeader)
		status.UploadTime = time.Since(fileStart).Seconds()
		statuses = append(statuses, status)
	}

	return &dto.UploadResponse{
		Success:      true,
		Files:        statuses,
		TotalFiles:   len(statuses),
		TotalLatency: time.Since(start).Seconds(),
	}, nil
}

func (d *documentService) uploadOne(ctx context.Context, sessionId, collection string, fileHeader *multipart.FileHeader) *dto.UploadFileStatus {
	status := &dto.UploadFileStatus{
		Filename: fileHeader.Filename,
		SizeMB:   float64(fileHeader.Size) / (1024 * 1024),
	}

	file, err := fileHeader.Open()
	if err != nil {
		status.Status = fmt.Sprintf("error: %v", err)
		return status
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		status.Status = fmt.Sprintf("error: %v", err)
		return status
	}

	doc := &entity.Document{
		DocumentId: uuid.New(),
		SessionId:  sessionId,
		Filename:   fileHeader.Filename,
		SizeMB:     status.SizeMB,
	}
	if err := d.documentRepo.Add(ctx, doc); err != nil {
		status.Status = fmt.Sprintf("error: %v", err)
		return status
	}

	msgPayload := dto.IngestDocumentMessage{
		SessionId:  sessionId,
		DocumentId: doc.DocumentId.String(),
		Collection: collection,
		Filename:   fileHeader.Filename,
		Content:    content,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		status.Status = fmt.Sprintf("error: %v", err)
		return status
	}
	if err := d.publisherService.Publish(ctx, msgJson); err != nil {
		status.Status = fmt.Sprintf("error: %v", err)
		return status
	}

	d.logger.Info("document", "Document queued for ingestion", map[string]interface{}{
		"session_id":  sessionId,
		"document_id": doc.DocumentId.String(),
		"filename":    fileHeader.Filename,
	})

	status.DocumentId = doc.DocumentId.String()
	status.Status = "queued"
	return status
}

func (d *documentService) List(ctx context.Context, sessionId string) (*dto.ListDocumentsResponse, error) {
	start := time.Now()

	if err := d.sessionService.Validate(ctx, sessionId); err != nil {
		return nil, err
	}

	documents, err := d.documentRepo.List(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.ListDocumentsResponse{
		Documents: documents,
		Latency:   time.Since(start).Seconds(),
	}, nil
}

// Delete removes the document's vectors first, then the registry entry, so
// a failed vector deletion leaves the document visible for retry.
func (d *documentService) Delete(ctx context.Context, sessionId, documentId string) (*dto.DeleteDocumentResponse, error) {
	start := time.Now()

	if err := d.sessionService.Validate(ctx, sessionId); err != nil {
		return nil, err
	}

	docId, err := uuid.Parse(documentId)
	if err != nil {
		return nil, fmt.Errorf("invalid document id %q: %w", documentId, err)
	}

	collection, err := d.documentRepo.ResolveCollection(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	if err := d.store.DeleteByDocument(ctx, collection, docId); err != nil {
		return nil, fmt.Errorf("delete vectors: %w", err)
	}

	if err := d.documentRepo.Remove(ctx, sessionId, documentId); err != nil {
		return nil, err
	}

	if d.eventPublisher != nil {
		evt := events.NewDocumentDeletedEvent(sessionId, documentId)
		if err := d.eventPublisher.Publish(ctx, evt); err != nil {
			d.logger.Warn("document", "Delete event publish failed", map[string]interface{}{
				"document_id": documentId, "error": err.Error(),
			})
		}
	}

	return &dto.DeleteDocumentResponse{
		Success: true,
		Deleted: documentId,
		Latency: time.Since(start).Seconds(),
	}, nil
}
