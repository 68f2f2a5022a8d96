package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// FileStorage is the object-storage boundary for document bytes. The
// document index records live in the database; only bytes pass through here.
type FileStorage interface {
	UploadFile(file multipart.File, fileName string) (string, error)
	DownloadFile(filePath string) (io.ReadCloser, error)
	DeleteFile(filePath string) error
	DeleteFiles(filePaths []string) error
	FileExists(filePath string) (bool, error)
}

type LocalFileStorage struct {
	uploadPath string
}

func NewLocalFileStorage(uploadPath string) *LocalFileStorage {
	return &LocalFileStorage{uploadPath: uploadPath}
}

func (s *LocalFileStorage) UploadFile(file multipart.File, fileName string) (string, error) {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filePath := filepath.Join(s.uploadPath, fileName)
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}

	return fileName, nil
}

func (s *LocalFileStorage) DownloadFile(filePath string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.uploadPath, filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalFileStorage) DeleteFile(filePath string) error {
	fullPath := filepath.Join(s.uploadPath, filePath)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil // already gone
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalFileStorage) DeleteFiles(filePaths []string) error {
	var firstErr error
	for _, p := range filePaths {
		if err := s.DeleteFile(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *LocalFileStorage) FileExists(filePath string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.uploadPath, filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}
