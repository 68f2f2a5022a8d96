package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/documents/repositories"
	"horeca-compliance-backend/policy"
	"horeca-compliance-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize caps a single document at 25 MB.
const MaxUploadSize = 25 << 20

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type UploadParams struct {
	Name     string
	Category models.DocumentCategory
	CaseID   *uuid.UUID
	ClientID *uuid.UUID
	Notes    *string
}

// DocumentService moves bytes through the storage backend and keeps the
// index records in step. The stored name is always a fresh UUID so client
// file names never reach the filesystem.
type DocumentService struct {
	Repo    repositories.DocumentRepository
	Storage utils.FileStorage
}

func NewDocumentService(repo repositories.DocumentRepository, storage utils.FileStorage) *DocumentService {
	return &DocumentService{Repo: repo, Storage: storage}
}

func (s *DocumentService) Upload(actor policy.Actor, header *multipart.FileHeader, params UploadParams) (*models.Document, error) {
	if header.Size > MaxUploadSize {
		return nil, fmt.Errorf("file exceeds the %d byte limit", MaxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("file type %q is not allowed", ext)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	storedName := uuid.New().String() + ext
	filePath, err := s.Storage.UploadFile(file, storedName)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	name := params.Name
	if name == "" {
		name = header.Filename
	}

	// Client uploads are pinned to the client's own organization.
	clientID := params.ClientID
	if actor.IsClient() {
		clientID = &actor.Client.ID
	}

	doc := &models.Document{
		Name:       name,
		FilePath:   filePath,
		MimeType:   header.Header.Get("Content-Type"),
		FileSize:   header.Size,
		Category:   params.Category,
		CaseID:     params.CaseID,
		ClientID:   clientID,
		UploaderID: actor.User.ID,
		Notes:      params.Notes,
	}

	created, err := s.Repo.CreateDocument(doc)
	if err != nil {
		if cleanupErr := s.Storage.DeleteFile(filePath); cleanupErr != nil {
			config.Logger.Warn("Failed to clean up orphaned upload",
				zap.Error(cleanupErr),
				zap.String("filePath", filePath))
		}
		return nil, err
	}
	return created, nil
}

func (s *DocumentService) Download(actor policy.Actor, id uuid.UUID) (*models.Document, io.ReadCloser, error) {
	doc, err := s.Repo.GetDocumentByID(actor, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.Storage.DownloadFile(doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	return doc, reader, nil
}

// Delete removes the index record first; a stray file is recoverable, a
// dangling record pointing at nothing is not.
func (s *DocumentService) Delete(actor policy.Actor, id uuid.UUID) error {
	doc, err := s.Repo.GetDocumentByID(actor, id)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteDocument(doc.ID); err != nil {
		return err
	}

	if err := s.Storage.DeleteFile(doc.FilePath); err != nil {
		config.Logger.Warn("Failed to delete stored file",
			zap.Error(err),
			zap.String("filePath", doc.FilePath))
	}
	return nil
}
