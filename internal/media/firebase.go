package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const firebaseStorageHost = "firebasestorage.googleapis.com"

// FirebaseStore writes to the Firebase Storage bucket and hands out
// token-bearing download URLs, the same shape the Firebase client SDK
// returns from getDownloadURL.
type FirebaseStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewFirebaseStore(bucket *gcs.BucketHandle, bucketName string) *FirebaseStore {
	return &FirebaseStore{bucket: bucket, bucketName: bucketName}
}

func (s *FirebaseStore) Put(ctx context.Context, objectPath, contentType string, body io.Reader) (Object, error) {
	token := uuid.New().String()

	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("close object writer: %w", err)
	}

	return Object{
		Path: objectPath,
		URL:  firebaseDownloadURL(s.bucketName, objectPath, token),
	}, nil
}

func (s *FirebaseStore) Delete(ctx context.Context, objectPath string) error {
	err := s.bucket.Object(objectPath).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *FirebaseStore) PathFromURL(rawURL string) (string, bool) {
	return firebasePathFromURL(s.bucketName, rawURL)
}

func firebaseDownloadURL(bucket, objectPath, token string) string {
	return fmt.Sprintf("https://%s/v0/b/%s/o/%s?alt=media&token=%s",
		firebaseStorageHost, bucket, url.PathEscape(objectPath), url.QueryEscape(token))
}

// firebasePathFromURL understands both download URLs
// (firebasestorage.googleapis.com/v0/b/<bucket>/o/<escaped path>) and public
// GCS URLs (storage.googleapis.com/<bucket>/<path>).
func firebasePathFromURL(bucket, rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	switch u.Host {
	case firebaseStorageHost:
		prefix := "/v0/b/" + bucket + "/o/"
		escaped := u.EscapedPath()
		if !strings.HasPrefix(escaped, prefix) {
			return "", false
		}
		p, err := url.PathUnescape(strings.TrimPrefix(escaped, prefix))
		if err != nil || p == "" {
			return "", false
		}
		return p, true
	case "storage.googleapis.com":
		prefix := "/" + bucket + "/"
		if !strings.HasPrefix(u.Path, prefix) {
			return "", false
		}
		p := strings.TrimPrefix(u.Path, prefix)
		return p, p != ""
	}
	return "", false
}
