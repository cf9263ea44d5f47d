package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue/queueerror"
)

const defaultImportQueue = "import-queue"

// ImportMessage tells the queue trigger which uploaded CSV to import.
type ImportMessage struct {
	BlobName string `json:"blob_name"`
	Filename string `json:"filename,omitempty"`
}

// QueueService posts import requests to Azure Queue Storage.
type QueueService struct {
	queue     *azqueue.QueueClient
	queueName string
}

// NewQueueService connects to QUEUE_SERVICE_URL and makes sure the import queue exists.
func NewQueueService(ctx context.Context) (*QueueService, error) {
	queueURL := os.Getenv("QUEUE_SERVICE_URL")
	if queueURL == "" {
		return nil, fmt.Errorf("QUEUE_SERVICE_URL environment variable is required")
	}

	queueName := os.Getenv("IMPORT_QUEUE")
	if queueName == "" {
		queueName = defaultImportQueue
	}

	slog.Info("initializing queue service", "queue_url", queueURL, "queue", queueName)
	var client *azqueue.ServiceClient
	if isLocal(queueURL) {
		name, key := getAzuriteCredentials()
		cred, err := azqueue.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azqueue.NewServiceClientWithSharedKeyCredential(queueURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azqueue.NewServiceClient(queueURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client: %w", err)
		}
	}

	queue := client.NewQueueClient(queueName)
	if _, err := queue.Create(ctx, nil); err != nil && !queueerror.HasCode(err, queueerror.QueueAlreadyExists) {
		return nil, fmt.Errorf("failed to create queue %s: %w", queueName, err)
	}

	slog.Info("queue service initialized successfully")
	return &QueueService{queue: queue, queueName: queueName}, nil
}

// EnqueueImport posts msg to the import queue.
// The Functions host expects base64 message bodies.
func (s *QueueService) EnqueueImport(ctx context.Context, msg ImportMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(body)
	if _, err := s.queue.EnqueueMessage(ctx, encoded, nil); err != nil {
		slog.Error("failed to enqueue message", "queue", s.queueName, "blob_name", msg.BlobName, "error", err)
		return fmt.Errorf("failed to enqueue message to %s: %w", s.queueName, err)
	}

	slog.Info("enqueued import message", "queue", s.queueName, "blob_name", msg.BlobName)
	return nil
}
