package domain

import (
	"context"
	"io"
	"time"
)

// Resume is the metadata row of a file held by the configured ResumeStorage.
// FilePath is the provider URL, RemoteName the object's name in the provider.
type Resume struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	RemoteName  string    `json:"-"`
	FileSize    int64     `json:"file_size"`
	MIMEType    string    `json:"mime_type"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ResumeFile is an incoming upload as received from the client.
type ResumeFile struct {
	FileName string
	MIMEType string
	Size     int64
	Content  io.Reader
}

// ResumeStorage is a cloud drive holding resume objects by name.
type ResumeStorage interface {
	// Upload copies the file at localPath to remoteName and returns a URL for it.
	Upload(ctx context.Context, localPath, remoteName string) (string, error)
	Delete(ctx context.Context, remoteName string) error
}

type ResumeRepository interface {
	GetByID(ctx context.Context, id int64) (*Resume, error)
	GetLatestByCandidate(ctx context.Context, candidateID int64) (*Resume, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]Resume, error)
	Create(ctx context.Context, r *Resume) error
	Delete(ctx context.Context, id int64) error
}

type ResumeUsecase interface {
	// ValidateFile rejects a file the upload policy does not accept. Content is
	// wrapped so the bytes already inspected are not lost.
	ValidateFile(file *ResumeFile) error
	GetLatestResume(ctx context.Context, candidateID int64) (*Resume, error)
	// UploadResume stores a new resume and supersedes earlier ones.
	UploadResume(ctx context.Context, candidateID int64, file ResumeFile, uploaderEmail string) (*Resume, error)
	// AttachInitialResume stores a resume for a new candidate, skipping when
	// one is already recorded.
	AttachInitialResume(ctx context.Context, candidateID int64, file ResumeFile, uploaderEmail string) (*Resume, error)
	DeleteResume(ctx context.Context, id int64) error
	DeleteCandidateResumes(ctx context.Context, candidateID int64) error
}
