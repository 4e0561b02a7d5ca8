package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"math"
	"path"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// PhotoKind distinguishes which attendance event a proof photo belongs to.
type PhotoKind string

const (
	PhotoKindCheckIn  PhotoKind = "check_in"
	PhotoKindCheckOut PhotoKind = "check_out"
)

// StoredPhoto locates an uploaded object.
type StoredPhoto struct {
	Key string
	URL string
}

type FileService interface {
	// UploadAttendancePhoto stores a compressed proof photo.
	UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, kind PhotoKind, p photo.Photo) (StoredPhoto, error)

	// UploadEnrollmentPhoto stores the original enrollment photo and returns its URL.
	UploadEnrollmentPhoto(ctx context.Context, employeeID string, p photo.Photo) (string, error)

	// DeletePhoto removes an object by the key returned from an upload.
	DeletePhoto(ctx context.Context, key string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// UploadAttendancePhoto compresses the image to 50KB - 150KB and stores it
// under attendance/{date}/{employeeID}-{kind}-{unix}.jpg.
func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, kind PhotoKind, p photo.Photo) (StoredPhoto, error) {
	compressed, err := compressImage(p.Data, 150*1024, 50*1024)
	if err != nil {
		return StoredPhoto{}, fmt.Errorf("failed to compress image: %w", err)
	}

	filename := fmt.Sprintf("%s-%s-%d.jpg", employeeID, kind, s.now().Unix())
	key := path.Join("attendance", date.Format("2006-01-02"), filename)

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return StoredPhoto{}, fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	url, err := s.storage.GetURL(ctx, uploaded)
	if err != nil {
		return StoredPhoto{}, err
	}
	return StoredPhoto{Key: uploaded, URL: url}, nil
}

// UploadEnrollmentPhoto keeps the original bytes; re-enrollment writes a new
// object rather than overwriting the previous one.
func (s *fileServiceImpl) UploadEnrollmentPhoto(ctx context.Context, employeeID string, p photo.Photo) (string, error) {
	key := path.Join("faces", employeeID, uuid.New().String()+p.Extension)

	uploaded, err := s.storage.Upload(ctx, p.Reader(), key, p.MIME)
	if err != nil {
		return "", fmt.Errorf("failed to upload enrollment photo: %w", err)
	}

	return s.storage.GetURL(ctx, uploaded)
}

func (s *fileServiceImpl) DeletePhoto(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// compressImage re-encodes an image as JPEG aiming for [minSize, maxSize] bytes.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	quality := 85
	var compressed []byte

	for quality >= 50 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize {
			return compressed, nil
		}
		quality -= 5
	}

	// Still too large: scale down towards ~100KB and encode at quality 70.
	targetSize := 100 * 1024
	ratio := math.Sqrt(float64(targetSize) / float64(len(compressed)))
	newWidth := max(int(float64(originalWidth)*ratio), 1)
	newHeight := max(int(float64(originalHeight)*ratio), 1)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resizeImage(img, newWidth, newHeight), &jpeg.Options{Quality: 70}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
