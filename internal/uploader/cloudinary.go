package uploader

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	cldupload "github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, key string, file io.Reader, filename, contentType string) (string, error) {
	if u.cld == nil {
		return "", fmt.Errorf("cloudinary client is not initialized")
	}

	res, err := u.cld.Upload.Upload(ctx, file, cldupload.UploadParams{
		PublicID: publicID(key),
		Tags:     []string{"bashbay-events"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", filename, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image %s: %s", filename, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", ErrMissingPublicURL
	}
	return res.SecureURL, nil
}
