package store

import (
	"context"
	"fmt"
	"mime"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
)

// receiptArchive keeps the uploaded receipt images in Cloud Storage under
// receipts/{familyID}/{yyyy}/{mm}/.
type receiptArchive struct {
	bucket   *storage.BucketHandle
	clockNow func() time.Time
}

func NewReceiptArchive(client *storage.Client, bucket string) *receiptArchive {
	return &receiptArchive{bucket: client.Bucket(bucket), clockNow: time.Now}
}

// Save uploads data and returns the object name.
func (a *receiptArchive) Save(ctx context.Context, familyID string, data []byte, contentType string) (string, error) {
	name := ReceiptObjectName(familyID, contentType, a.clockNow(), uuid.NewString())

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := a.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"familyId": familyID}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", errs.NewExternalServiceError("storage", true, fmt.Errorf("write receipt: %w", err))
	}
	if err := w.Close(); err != nil {
		return "", errs.NewExternalServiceError("storage", true, fmt.Errorf("finalize receipt upload: %w", err))
	}
	return name, nil
}

var receiptExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/heic":      ".heic",
	"application/pdf": ".pdf",
}

func ReceiptObjectName(familyID, contentType string, at time.Time, id string) string {
	ext, ok := receiptExtensions[contentType]
	if !ok {
		ext = ".bin"
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return fmt.Sprintf("receipts/%s/%04d/%02d/%s%s", familyID, at.Year(), int(at.Month()), id, ext)
}
