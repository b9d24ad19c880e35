package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/municipal-assets/internal/apperr"
)

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func pdfFile(size int64) File {
	return File{Name: "Informe.PDF", ContentType: "application/pdf", Size: size, Body: strings.NewReader("%PDF-1.4")}
}

func TestPolicy_Check(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		file    File
		invalid []string
	}{
		{"pdf document", DocumentPolicy, pdfFile(1024), nil},
		{"docx document", DocumentPolicy, File{ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 10}, nil},
		{"exactly 5 MB", DocumentPolicy, pdfFile(MaxUploadSize), nil},
		{"over 5 MB", DocumentPolicy, pdfFile(MaxUploadSize + 1), []string{"file"}},
		{"empty", DocumentPolicy, pdfFile(0), []string{"file"}},
		{"webp is not a document", DocumentPolicy, File{ContentType: "image/webp", Size: 10}, []string{"contentType"}},
		{"webp image", ImagePolicy, File{ContentType: "image/webp", Size: 10}, nil},
		{"pdf is not an image", ImagePolicy, pdfFile(10), []string{"contentType"}},
		{"parameters ignored", ImagePolicy, File{ContentType: "Image/PNG; charset=binary", Size: 10}, nil},
		{"everything wrong", ImagePolicy, File{ContentType: "text/html", Size: MaxUploadSize * 2}, []string{"file", "contentType"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Check(tt.file)
			if tt.invalid == nil {
				assert.NoError(t, err)
				return
			}
			var verr *apperr.ValidationError
			require.True(t, errors.As(err, &verr))
			for _, field := range tt.invalid {
				assert.Contains(t, verr.Invalid, field)
			}
			assert.Len(t, verr.Invalid, len(tt.invalid))
		})
	}
}

func TestPolicyFor(t *testing.T) {
	p, ok := PolicyFor("image")
	assert.True(t, ok)
	assert.True(t, p.Allows("image/webp"))

	p, ok = PolicyFor("")
	assert.True(t, ok)
	assert.True(t, p.Allows("application/msword"))

	_, ok = PolicyFor("video")
	assert.False(t, ok)
}

func TestPolicy_WithMaxSize(t *testing.T) {
	assert.Equal(t, int64(1<<20), DocumentPolicy.WithMaxSize(1<<20).MaxSize)
	assert.Equal(t, MaxUploadSize, DocumentPolicy.WithMaxSize(50<<20).MaxSize)
	assert.Equal(t, MaxUploadSize, DocumentPolicy.WithMaxSize(0).MaxSize)
}

func TestS3Store_Upload(t *testing.T) {
	api := new(mockObjectAPI)
	store := NewS3StoreWithAPI(api, "assets", "https://files.example.com/assets/")

	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "assets" &&
			strings.HasPrefix(aws.ToString(in.Key), "maintenances/") &&
			strings.HasSuffix(aws.ToString(in.Key), ".pdf") &&
			aws.ToString(in.ContentType) == "application/pdf" &&
			aws.ToInt64(in.ContentLength) == 2048
	})).Return(&s3.PutObjectOutput{}, nil)

	obj, err := store.Upload(context.Background(), pdfFile(2048), "/maintenances/", DocumentPolicy)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Path, "maintenances/"))
	assert.Equal(t, "https://files.example.com/assets/"+obj.Path, obj.URL)
	api.AssertExpectations(t)
}

func TestS3Store_UploadRejectedLocally(t *testing.T) {
	api := new(mockObjectAPI)
	store := NewS3StoreWithAPI(api, "assets", "https://files.example.com")

	_, err := store.Upload(context.Background(), pdfFile(MaxUploadSize+1), "maintenances", DocumentPolicy)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = store.Upload(context.Background(), pdfFile(10), "../etc", DocumentPolicy)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	api.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestS3Store_UploadFailure(t *testing.T) {
	api := new(mockObjectAPI)
	store := NewS3StoreWithAPI(api, "assets", "https://files.example.com")
	api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := store.Upload(context.Background(), pdfFile(10), "receipts", DocumentPolicy)
	assert.True(t, errors.Is(err, apperr.ErrStorage))

	var serr *apperr.StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "upload", serr.Op)
}

func TestS3Store_Remove(t *testing.T) {
	api := new(mockObjectAPI)
	store := NewS3StoreWithAPI(api, "assets", "https://files.example.com")
	api.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "maintenances/a.pdf"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()
	api.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied")).Once()

	require.NoError(t, store.Remove(context.Background(), "/maintenances/a.pdf"))
	assert.True(t, errors.Is(store.Remove(context.Background(), "maintenances/b.pdf"), apperr.ErrStorage))
	assert.True(t, errors.Is(store.Remove(context.Background(), "../secret"), apperr.ErrValidation))
	api.AssertExpectations(t)
}

func TestS3Store_PublicURL(t *testing.T) {
	store := NewS3StoreWithAPI(nil, "assets", "http://minio:9000/assets/")
	assert.Equal(t, "http://minio:9000/assets/receipts/x.png", store.PublicURL("/receipts/x.png"))
}
