package uploader

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/joshua-takyi/bashbay-events/internal/store"
)

const DefaultFunction = "upload-to-b2"

// FunctionUploader hands the file to a Supabase edge function that owns the
// object-storage credentials.
type FunctionUploader struct {
	client   *resty.Client
	endpoint string
	anonKey  string
}

type functionResponse struct {
	PublicURL string `json:"publicUrl"`
	Error     string `json:"error,omitempty"`
}

func NewFunctionUploader(supabaseURL, anonKey, function string) *FunctionUploader {
	if function == "" {
		function = DefaultFunction
	}
	return &FunctionUploader{
		client:   resty.New().SetTimeout(60 * time.Second),
		endpoint: strings.TrimRight(supabaseURL, "/") + "/functions/v1/" + function,
		anonKey:  anonKey,
	}
}

func (u *FunctionUploader) Upload(ctx context.Context, key string, file io.Reader, filename, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	token := store.AccessToken(ctx)
	if token == "" {
		token = u.anonKey
	}

	var out functionResponse
	resp, err := u.client.R().
		SetContext(ctx).
		SetHeader("apikey", u.anonKey).
		SetAuthToken(token).
		SetFileReader("file", filename, file).
		SetMultipartFormData(map[string]string{
			"filename":    key,
			"contentType": contentType,
		}).
		SetResult(&out).
		SetError(&out).
		Post(u.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call upload function: %w", err)
	}
	if resp.IsError() {
		msg := out.Error
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("upload function returned %d: %s", resp.StatusCode(), msg)
	}
	if out.PublicURL == "" {
		return "", ErrMissingPublicURL
	}
	return out.PublicURL, nil
}
