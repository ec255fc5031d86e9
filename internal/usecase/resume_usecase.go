package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"
	"applicant-tracker/pkg/logger"
	"applicant-tracker/pkg/security"
	"applicant-tracker/pkg/staging"
	"applicant-tracker/pkg/storage"
)

const compensationTimeout = 30 * time.Second

// maxFileNameLength matches resumes.file_name, counted in characters.
const maxFileNameLength = 255

type resumeUsecase struct {
	resumeRepo    domain.ResumeRepository
	candidateRepo domain.CandidateRepository
	storage       domain.ResumeStorage
	staging       *staging.Area
	policy        security.UploadPolicy
	timeout       time.Duration // per storage call, 0 means none
}

func NewResumeUsecase(
	resumeRepo domain.ResumeRepository,
	candidateRepo domain.CandidateRepository,
	store domain.ResumeStorage,
	area *staging.Area,
	policy security.UploadPolicy,
	storageTimeout time.Duration,
) domain.ResumeUsecase {
	return &resumeUsecase{
		resumeRepo:    resumeRepo,
		candidateRepo: candidateRepo,
		storage:       store,
		staging:       area,
		policy:        policy,
		timeout:       storageTimeout,
	}
}

// ValidateFile checks type, size and leading bytes before anything touches
// disk or network.
func (u *resumeUsecase) ValidateFile(file *domain.ResumeFile) error {
	if file == nil || file.Content == nil {
		return apperror.BadRequest("No file uploaded")
	}

	br, ok := file.Content.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(file.Content)
	}
	head, err := br.Peek(security.MagicHeaderSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return apperror.New(http.StatusBadRequest, "Failed to read uploaded file", err)
	}

	result := u.policy.ValidateUpload(file.MIMEType, file.Size, head)
	if !result.Valid {
		return apperror.BadRequest(result.Error)
	}

	file.Content = br
	file.MIMEType = result.MIMEType
	return nil
}

func (u *resumeUsecase) GetLatestResume(ctx context.Context, candidateID int64) (*domain.Resume, error) {
	resume, err := u.resumeRepo.GetLatestByCandidate(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if resume == nil {
		return nil, apperror.NotFound("No resume found for this candidate")
	}
	return resume, nil
}

// UploadResume stores a new resume, then removes the candidate's earlier
// resumes. Failing to remove an earlier one is logged, not returned.
func (u *resumeUsecase) UploadResume(ctx context.Context, candidateID int64, file domain.ResumeFile, uploaderEmail string) (*domain.Resume, error) {
	resume, err := u.store(ctx, candidateID, file, uploaderEmail)
	if err != nil {
		return nil, err
	}

	previous, err := u.resumeRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		logger.Log.Warn("Failed to list superseded resumes", "candidate_id", candidateID, "error", err)
		return resume, nil
	}
	for i := range previous {
		if previous[i].ID == resume.ID {
			continue
		}
		if err := u.remove(ctx, &previous[i]); err != nil {
			logger.Log.Warn("Failed to remove superseded resume",
				"candidate_id", candidateID, "resume_id", previous[i].ID, "error", err)
		}
	}
	return resume, nil
}

// AttachInitialResume is the intake-form path: an existing resume wins.
func (u *resumeUsecase) AttachInitialResume(ctx context.Context, candidateID int64, file domain.ResumeFile, uploaderEmail string) (*domain.Resume, error) {
	existing, err := u.resumeRepo.GetLatestByCandidate(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		logger.Log.Info("Candidate already has a resume, skipping upload",
			"candidate_id", candidateID, "resume_id", existing.ID)
		return existing, nil
	}
	return u.store(ctx, candidateID, file, uploaderEmail)
}

func (u *resumeUsecase) DeleteResume(ctx context.Context, id int64) error {
	resume, err := u.resumeRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if resume == nil {
		return apperror.NotFound("Resume not found")
	}
	return u.remove(ctx, resume)
}

// DeleteCandidateResumes removes every resume of a candidate, stopping at the
// first failure.
func (u *resumeUsecase) DeleteCandidateResumes(ctx context.Context, candidateID int64) error {
	resumes, err := u.resumeRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return apperror.Internal(err)
	}
	for i := range resumes {
		if err := u.remove(ctx, &resumes[i]); err != nil {
			return err
		}
	}
	return nil
}

// store runs stage -> upload -> insert -> unstage for one file.
func (u *resumeUsecase) store(ctx context.Context, candidateID int64, file domain.ResumeFile, uploaderEmail string) (*domain.Resume, error) {
	if uploaderEmail == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if err := u.ValidateFile(&file); err != nil {
		return nil, err
	}

	candidate, err := u.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	// Read at most one byte past the limit so a lying size header is caught.
	staged, err := u.staging.Write(io.LimitReader(file.Content, u.policy.MaxSize+1))
	if err != nil {
		logger.Log.Error("Failed to stage resume", "candidate_id", candidateID, "error", err)
		return nil, apperror.New(http.StatusInternalServerError, "Failed to store uploaded file", err)
	}
	defer u.unstage(staged)

	if staged.Size > u.policy.MaxSize {
		return nil, apperror.BadRequest(fmt.Sprintf("File exceeds the maximum size of %d bytes", u.policy.MaxSize))
	}
	if staged.Size == 0 {
		return nil, apperror.BadRequest("Uploaded file is empty")
	}

	remoteName := fmt.Sprintf("%d-%s", candidateID, staged.Name)

	storageCtx, cancel := u.storageContext(ctx)
	fileURL, err := u.storage.Upload(storageCtx, staged.Path, remoteName)
	cancel()
	if err != nil {
		logStorageError("Failed to upload resume", err, "candidate_id", candidateID, "remote_name", remoteName)
		return nil, apperror.New(http.StatusInternalServerError, "Failed to upload resume", err)
	}

	resume := &domain.Resume{
		CandidateID: candidateID,
		FileName:    displayName(file.FileName),
		FilePath:    fileURL,
		RemoteName:  remoteName,
		FileSize:    staged.Size,
		MIMEType:    file.MIMEType,
		UploadedBy:  uploaderEmail,
	}
	if err := u.resumeRepo.Create(ctx, resume); err != nil {
		logger.Log.Error("Failed to save resume metadata, removing uploaded object",
			"candidate_id", candidateID, "remote_name", remoteName, "error", err)
		u.compensate(ctx, remoteName)
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save resume", err)
	}

	logger.Log.Info("Resume uploaded",
		"candidate_id", candidateID, "resume_id", resume.ID, "size", resume.FileSize, "uploaded_by", uploaderEmail)
	return resume, nil
}

// remove deletes the remote object first and the row second, so a failed
// remote delete leaves the row intact.
func (u *resumeUsecase) remove(ctx context.Context, resume *domain.Resume) error {
	storageCtx, cancel := u.storageContext(ctx)
	err := u.storage.Delete(storageCtx, resume.RemoteName)
	cancel()
	if err != nil {
		logStorageError("Failed to delete resume from storage", err,
			"resume_id", resume.ID, "remote_name", resume.RemoteName)
		return apperror.New(http.StatusInternalServerError, "Failed to delete resume", err)
	}

	if err := u.resumeRepo.Delete(ctx, resume.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		logger.Log.Error("Remote resume deleted but row remains",
			"resume_id", resume.ID, "remote_name", resume.RemoteName, "error", err)
		return apperror.Internal(err)
	}
	return nil
}

// compensate removes an object whose metadata row could not be written. It
// outlives a cancelled request.
func (u *resumeUsecase) compensate(ctx context.Context, remoteName string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := u.storage.Delete(ctx, remoteName); err != nil {
		logStorageError("Compensating delete failed, remote object orphaned", err, "remote_name", remoteName)
		return
	}
	logger.Log.Warn("Compensating delete removed uploaded object", "remote_name", remoteName)
}

func (u *resumeUsecase) unstage(f *staging.File) {
	if err := u.staging.Remove(f.Path); err != nil {
		logger.Log.Warn("Failed to clean up staged file", "path", f.Path, "error", err)
	}
}

func (u *resumeUsecase) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}

func logStorageError(msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	if errors.Is(err, storage.ErrAuth) {
		attrs = append(attrs, "cause", "authentication")
	}
	logger.Log.Error(msg, attrs...)
}

// displayName keeps only the base name of what the client sent, shortened
// to fit the column with its extension intact.
func displayName(name string) string {
	name = strings.ToValidUTF8(name, "")
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return "resume.pdf"
	}
	if utf8.RuneCountInString(name) <= maxFileNameLength {
		return name
	}

	ext := filepath.Ext(name)
	if utf8.RuneCountInString(ext) > 16 {
		ext = ""
	}
	stem := []rune(strings.TrimSuffix(name, ext))
	return string(stem[:maxFileNameLength-utf8.RuneCountInString(ext)]) + ext
}
