// Package googledrive stores resumes in a Google Drive folder owned by a
// service account.
package googledrive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"applicant-tracker/pkg/logger"
	"applicant-tracker/pkg/storage"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type Config struct {
	ClientEmail string
	PrivateKey  string
	FolderID    string
	TokenURL    string        // defaults to Google's OAuth2 token endpoint
	Timeout     time.Duration // per HTTP request
}

type Storage struct {
	files    *drive.FilesService
	folderID string
}

// New builds a Drive client authenticated as the configured service account.
// Extra options are applied last, so tests can point the client elsewhere.
func New(ctx context.Context, cfg Config, extra ...option.ClientOption) (*Storage, error) {
	if cfg.FolderID == "" {
		return nil, errors.New("google drive: folder id is required")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	jwtCfg := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{drive.DriveFileScope},
		TokenURL:   tokenURL,
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &oauth2.Transport{
			Source: storage.AuthTokenSource(jwtCfg.TokenSource(ctx)),
			Base:   http.DefaultTransport,
		},
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, extra...)
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google drive: create service: %w", err)
	}

	return &Storage{files: srv.Files, folderID: cfg.FolderID}, nil
}

// Upload creates remoteName inside the folder with the bytes at localPath
// and returns the object's web view link.
func (s *Storage) Upload(ctx context.Context, localPath, remoteName string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("google drive: open %s: %w", localPath, err)
	}
	defer f.Close()

	contentType := storage.ContentType(remoteName)
	created, err := s.files.Create(&drive.File{
		Name:     remoteName,
		Parents:  []string{s.folderID},
		MimeType: contentType,
	}).
		Media(f, googleapi.ContentType(contentType)).
		Fields("id", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("google drive: upload %s: %w", remoteName, err)
	}

	if created.WebViewLink == "" {
		return "", fmt.Errorf("google drive: upload %s: response carried no view link", remoteName)
	}

	logger.Log.Debug("Uploaded resume to Google Drive", "name", remoteName, "file_id", created.Id)
	return created.WebViewLink, nil
}

// Delete removes the first non-trashed object named remoteName in the folder.
// A missing object is logged and treated as success.
func (s *Storage) Delete(ctx context.Context, remoteName string) error {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeQuery(remoteName), escapeQuery(s.folderID))

	list, err := s.files.List().
		Q(q).
		Fields("files(id)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("google drive: find %s: %w", remoteName, err)
	}

	if len(list.Files) == 0 {
		logger.Log.Warn("Resume not found in Google Drive, nothing to delete", "name", remoteName)
		return nil
	}

	fileID := list.Files[0].Id
	err = s.files.Delete(fileID).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			logger.Log.Warn("Resume vanished from Google Drive before delete", "name", remoteName, "file_id", fileID)
			return nil
		}
		return fmt.Errorf("google drive: delete %s: %w", remoteName, err)
	}
	return nil
}

// escapeQuery escapes a literal for the Drive search query language.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
