package storage

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveStorage implements Provider on top of the Google Drive v3 API.
type DriveStorage struct {
	files *drive.FilesService
}

// NewDriveStorage authenticates with a service-account document under the
// full Drive scope. The narrower drive.file scope cannot write into shared
// drives owned by a team, so it is not used. Extra options are appended
// after the credentials, which lets callers point the client elsewhere.
func NewDriveStorage(ctx context.Context, credentialsJSON []byte, opts ...option.ClientOption) (*DriveStorage, error) {
	jwtCfg, err := google.JWTConfigFromJSON(credentialsJSON, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("load service account: %w", err)
	}

	clientOpts := append([]option.ClientOption{option.WithTokenSource(jwtCfg.TokenSource(ctx))}, opts...)
	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}

	return &DriveStorage{files: svc.Files}, nil
}

// Upload creates one file inside obj.Container and streams obj.Body as its
// content. The body is sent in a single multipart request.
func (s *DriveStorage) Upload(ctx context.Context, obj Object) (*Result, error) {
	meta := &drive.File{Name: obj.Name}
	if obj.Container != "" {
		meta.Parents = []string{obj.Container}
	}

	f, err := s.files.Create(meta).
		Media(obj.Body, googleapi.ContentType(obj.ContentType), googleapi.ChunkSize(0)).
		SupportsAllDrives(true).
		Fields("id", "name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive create %q: %w", obj.Name, err)
	}

	return &Result{ID: f.Id, Name: f.Name}, nil
}
