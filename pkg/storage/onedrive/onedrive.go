// Package onedrive stores resumes in a OneDrive folder through Microsoft Graph,
// authenticating with the client-credentials flow.
package onedrive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"applicant-tracker/pkg/logger"
	"applicant-tracker/pkg/storage"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	abstractions "github.com/microsoft/kiota-abstractions-go"
	kiotaauth "github.com/microsoft/kiota-authentication-azure-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go-core/fileuploader"
	"github.com/microsoftgraph/msgraph-sdk-go/drives"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
)

// SliceSize is the byte length of every upload-session slice except the last.
// Graph requires slices to be multiples of 320 KiB.
const SliceSize int64 = 320 * 1024

const (
	DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"
	DefaultAuthorityURL = "https://login.microsoftonline.com"
	graphScope          = "https://graph.microsoft.com/.default"
)

type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	DriveID      string
	FolderID     string
	GraphBaseURL string
	AuthorityURL string
	Timeout      time.Duration

	// Credential replaces the client-secret credential built from the IDs above.
	Credential azcore.TokenCredential
	// HTTPClient carries every Graph request. It gets no retry middleware.
	HTTPClient *http.Client
}

type Storage struct {
	client   *msgraphsdk.GraphServiceClient
	adapter  abstractions.RequestAdapter
	driveID  string
	folderID string
}

// GraphError is a non-2xx response from Microsoft Graph.
type GraphError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *GraphError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("graph: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *GraphError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return storage.ErrNotFound
	case http.StatusUnauthorized:
		return storage.ErrAuth
	}
	return nil
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.DriveID == "" || cfg.FolderID == "" {
		return nil, errors.New("onedrive: drive id and folder id are required")
	}

	baseURL := strings.TrimRight(cfg.GraphBaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Hostname() == "" {
		return nil, fmt.Errorf("onedrive: invalid graph base url %q", baseURL)
	}

	cred := cfg.Credential
	if cred == nil {
		cred, err = clientSecretCredential(cfg)
		if err != nil {
			return nil, err
		}
	}

	// Tokens go to the Graph host only. Upload-session URLs live elsewhere
	// and are pre-authorised.
	auth, err := kiotaauth.NewAzureIdentityAuthenticationProviderWithScopesAndValidHosts(
		authCredential{cred}, []string{graphScope}, []string{base.Hostname()})
	if err != nil {
		return nil, fmt.Errorf("onedrive: auth provider: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	adapter, err := msgraphsdk.NewGraphRequestAdapterWithParseNodeFactoryAndSerializationWriterFactoryAndHttpClient(
		auth, nil, nil, httpClient)
	if err != nil {
		return nil, fmt.Errorf("onedrive: request adapter: %w", err)
	}
	adapter.SetBaseUrl(baseURL)

	return &Storage{
		client:   msgraphsdk.NewGraphServiceClient(adapter),
		adapter:  adapter,
		driveID:  cfg.DriveID,
		folderID: cfg.FolderID,
	}, nil
}

func clientSecretCredential(cfg Config) (azcore.TokenCredential, error) {
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("onedrive: tenant id, client id and client secret are required")
	}
	authority := strings.TrimRight(cfg.AuthorityURL, "/")
	if authority == "" {
		authority = DefaultAuthorityURL
	}

	opts := &azidentity.ClientSecretCredentialOptions{
		ClientOptions: azcore.ClientOptions{
			Cloud: cloud.Configuration{ActiveDirectoryAuthorityHost: authority + "/"},
		},
	}
	if cfg.HTTPClient != nil {
		opts.ClientOptions.Transport = cfg.HTTPClient
	}
	cred, err := azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, opts)
	if err != nil {
		return nil, fmt.Errorf("onedrive: credential: %w", err)
	}
	return cred, nil
}

// authCredential makes every token failure match storage.ErrAuth.
type authCredential struct {
	azcore.TokenCredential
}

func (c authCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	tok, err := c.TokenCredential.GetToken(ctx, opts)
	if err != nil {
		return azcore.AccessToken{}, fmt.Errorf("%w: %v", storage.ErrAuth, err)
	}
	return tok, nil
}

// Upload sends the file at localPath to the folder as remoteName using a
// resumable upload session and returns the item's web URL.
func (s *Storage) Upload(ctx context.Context, localPath, remoteName string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("onedrive: open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("onedrive: stat %s: %w", localPath, err)
	}
	total := info.Size()
	if total == 0 {
		return "", fmt.Errorf("onedrive: upload %s: file is empty", remoteName)
	}

	props := models.NewDriveItemUploadableProperties()
	props.SetAdditionalData(map[string]interface{}{"@microsoft.graph.conflictBehavior": "replace"})
	body := drives.NewItemItemsItemCreateUploadSessionPostRequestBody()
	body.SetItem(props)

	session, err := s.item(remoteName).CreateUploadSession().Post(ctx, body, nil)
	if err != nil {
		return "", fmt.Errorf("onedrive: upload %s: %w", remoteName, graphError(err))
	}
	if session == nil || session.GetUploadUrl() == nil {
		return "", fmt.Errorf("onedrive: upload %s: upload session carried no upload url", remoteName)
	}

	task := fileuploader.NewLargeFileUploadTask[models.DriveItemable](
		s.adapter, session, f, SliceSize, models.CreateDriveItemFromDiscriminatorValue, errorMappings())
	result := task.Upload(func(sent int64, size int64) {
		logger.Log.Debug("OneDrive upload progress", "name", remoteName, "sent", sent, "total", size)
	})
	if !result.GetUploadSucceeded() {
		if cerr := task.Cancel(); cerr != nil {
			logger.Log.Warn("Failed to cancel OneDrive upload session", "name", remoteName, "error", cerr)
		}
		return "", fmt.Errorf("onedrive: upload %s: %w", remoteName, uploadError(result.GetResponseErrors()))
	}

	item := result.GetItemResponse()
	if item == nil || item.GetWebUrl() == nil {
		// Completion responses may omit the item's links.
		item, err = s.item(remoteName).Get(ctx, nil)
		if err != nil {
			return "", fmt.Errorf("onedrive: fetch %s: %w", remoteName, graphError(err))
		}
	}
	if item == nil || item.GetWebUrl() == nil || *item.GetWebUrl() == "" {
		return "", fmt.Errorf("onedrive: fetch %s: response carried no web url", remoteName)
	}

	logger.Log.Debug("Uploaded resume to OneDrive", "name", remoteName, "item_id", deref(item.GetId()), "size", total)
	return *item.GetWebUrl(), nil
}

// Delete removes remoteName from the folder. A missing item is reported as
// storage.ErrNotFound.
func (s *Storage) Delete(ctx context.Context, remoteName string) error {
	if err := s.item(remoteName).Delete(ctx, nil); err != nil {
		return fmt.Errorf("onedrive: delete %s: %w", remoteName, graphError(err))
	}
	return nil
}

// item addresses remoteName by path relative to the configured folder.
func (s *Storage) item(name string) *drives.ItemItemsDriveItemItemRequestBuilder {
	return s.client.Drives().ByDriveId(s.driveID).Items().ByDriveItemId(s.folderID + ":/" + name + ":")
}

func errorMappings() abstractions.ErrorMappings {
	return abstractions.ErrorMappings{
		"XXX": odataerrors.CreateODataErrorFromDiscriminatorValue,
	}
}

// graphError turns SDK errors carrying an HTTP status into *GraphError.
func graphError(err error) error {
	var odataErr *odataerrors.ODataError
	if errors.As(err, &odataErr) {
		gerr := &GraphError{StatusCode: odataErr.ResponseStatusCode}
		if main := odataErr.GetErrorEscaped(); main != nil {
			gerr.Code = deref(main.GetCode())
			gerr.Message = deref(main.GetMessage())
		}
		return gerr
	}
	var apiErr *abstractions.ApiError
	if errors.As(err, &apiErr) && apiErr.ResponseStatusCode != 0 {
		return &GraphError{StatusCode: apiErr.ResponseStatusCode, Message: apiErr.Message}
	}
	return err
}

func uploadError(errs []error) error {
	if len(errs) == 0 {
		return errors.New("upload session did not complete")
	}
	mapped := make([]error, 0, len(errs))
	for _, err := range errs {
		mapped = append(mapped, graphError(err))
	}
	return errors.Join(mapped...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
