package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"
)

// ErrBlobNotFound is returned by DownloadText when the blob or its container does not exist.
var ErrBlobNotFound = errors.New("blob not found")

const defaultUploadContainer = "finance-manager-uploads"

// BlobService handles interactions with Azure Blob Storage.
type BlobService struct {
	serviceURL      string
	uploadContainer string
	client          *azblob.Client
	sharedKey       *azblob.SharedKeyCredential // set only for Azurite
}

// NewBlobService creates a new BlobService instance.
func NewBlobService() (*BlobService, error) {
	blobURL := os.Getenv("BLOB_SERVICE_URL")
	if blobURL == "" {
		return nil, fmt.Errorf("BLOB_SERVICE_URL environment variable is required")
	}

	container := os.Getenv("UPLOAD_CONTAINER")
	if container == "" {
		container = defaultUploadContainer
	}

	slog.Info("initializing blob service", "blob_url", blobURL, "upload_container", container)
	svc := &BlobService{
		serviceURL:      strings.TrimSuffix(blobURL, "/"),
		uploadContainer: container,
	}

	if isLocal(blobURL) {
		slog.Info("using Azurite shared key credentials for blob service")
		name, key := getAzuriteCredentials()
		cred, err := azblob.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err := azblob.NewClientWithSharedKeyCredential(blobURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client with shared key: %w", err)
		}
		svc.client = client
		svc.sharedKey = cred
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err := azblob.NewClient(blobURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
		svc.client = client
	}

	slog.Info("blob service initialized successfully")
	return svc, nil
}

// UploadContainer is the container raw CSV files are written to.
func (s *BlobService) UploadContainer() string {
	return s.uploadContainer
}

// UploadText uploads a string to a blob, creating the container on first use.
func (s *BlobService) UploadText(ctx context.Context, containerName, blobName, text string) error {
	slog.Info("uploading blob", "container", containerName, "blob_name", blobName, "size_bytes", len(text))
	_, err := s.client.CreateContainer(ctx, containerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		slog.Warn("failed to create container (may already exist)", "container", containerName, "error", err)
	}

	if _, err := s.client.UploadBuffer(ctx, containerName, blobName, []byte(text), nil); err != nil {
		slog.Error("failed to upload blob", "container", containerName, "blob_name", blobName, "error", err)
		return fmt.Errorf("failed to upload blob %s/%s: %w", containerName, blobName, err)
	}
	slog.Info("successfully uploaded blob", "container", containerName, "blob_name", blobName)
	return nil
}

// DownloadText downloads a blob and returns its content as a string.
func (s *BlobService) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	slog.Info("downloading blob", "container", containerName, "blob_name", blobName)
	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return "", fmt.Errorf("%s/%s: %w", containerName, blobName, ErrBlobNotFound)
		}
		slog.Error("failed to download blob", "container", containerName, "blob_name", blobName, "error", err)
		return "", fmt.Errorf("failed to download blob %s/%s: %w", containerName, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read blob content: %w", err)
	}

	slog.Info("successfully downloaded blob", "container", containerName, "blob_name", blobName, "size_bytes", len(data))
	return string(data), nil
}

// SignedUploadURL returns a write-only SAS URL for objectName in the upload container.
// Azurite is signed with the shared key, Azure with a user delegation key.
func (s *BlobService) SignedUploadURL(ctx context.Context, objectName, contentType string, ttl time.Duration) (string, error) {
	start := time.Now().UTC().Add(-5 * time.Minute)
	expiry := time.Now().UTC().Add(ttl)

	values := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     start,
		ExpiryTime:    expiry,
		Permissions:   to.Ptr(sas.BlobPermissions{Create: true, Write: true}).String(),
		ContainerName: s.uploadContainer,
		BlobName:      objectName,
		ContentType:   contentType,
	}

	var params sas.QueryParameters
	var err error
	if s.sharedKey != nil {
		values.Protocol = sas.ProtocolHTTPSandHTTP
		params, err = values.SignWithSharedKey(s.sharedKey)
	} else {
		info := service.KeyInfo{
			Start:  to.Ptr(start.Format(sas.TimeFormat)),
			Expiry: to.Ptr(expiry.Format(sas.TimeFormat)),
		}
		var udc *service.UserDelegationCredential
		udc, err = s.client.ServiceClient().GetUserDelegationCredential(ctx, info, nil)
		if err != nil {
			return "", fmt.Errorf("failed to get user delegation credential: %w", err)
		}
		params, err = values.SignWithUserDelegation(udc)
	}
	if err != nil {
		return "", fmt.Errorf("failed to sign upload url: %w", err)
	}

	slog.Info("generated signed upload url", "container", s.uploadContainer, "blob_name", objectName, "expires", expiry)
	return fmt.Sprintf("%s/%s/%s?%s", s.serviceURL, s.uploadContainer, objectName, params.Encode()), nil
}
