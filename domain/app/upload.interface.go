package app

import (
	"context"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/errs"
)

// RelatedPersonInfo is the relation metadata sent with an upload.
type RelatedPersonInfo struct {
	Name         string       `json:"name" validate:"required,min=2,max=50"`
	Relationship Relationship `json:"relationship" validate:"required,relationship"`
	IDNumber     string       `json:"idNumber" validate:"required,cn_id"`
	Phone        string       `json:"phone" validate:"required,cn_mobile"`
	Description  string       `json:"description,omitempty" validate:"max=200"`
}

type UploadFile struct {
	Name        string
	ContentType string
	Content     []byte
}

func (f UploadFile) Size() int64 { return int64(len(f.Content)) }

type UploadSubmission struct {
	File   UploadFile
	Person RelatedPersonInfo
}

// UploadResult is the recognition boundary response.
type UploadResult struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	ExcelURL  string     `json:"excelUrl,omitempty"`
	FileName  string     `json:"fileName,omitempty"`
	UploadID  string     `json:"uploadId,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Demo      bool       `json:"demo,omitempty"`
}

const (
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

type UploadStatus struct {
	UploadID  string        `json:"uploadId"`
	Status    string        `json:"status"`
	Progress  int           `json:"progress"`
	Message   string        `json:"message"`
	FileName  string        `json:"fileName,omitempty"`
	Result    *UploadResult `json:"result,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type UploadHistory struct {
	History []UploadStatus `json:"history"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

type UploadService interface {
	Process(ctx context.Context, sub UploadSubmission) (*UploadResult, errs.Error)
	Status(ctx context.Context, uploadID string) (*UploadStatus, errs.Error)
	History(ctx context.Context, limit, offset int) (*UploadHistory, errs.Error)
	Spreadsheet(ctx context.Context, fileName string) ([]byte, errs.Error)
}

// UploadStatusStore records processing progress per upload.
type UploadStatusStore interface {
	Put(ctx context.Context, status UploadStatus) errs.Error
	Get(ctx context.Context, uploadID string) (*UploadStatus, errs.Error)
	List(ctx context.Context, limit, offset int) ([]UploadStatus, int64, errs.Error)
}

type RecognitionInput struct {
	File   UploadFile
	Person RelatedPersonInfo
}

type Recognition struct {
	Rows   Sheet
	Source string
	Demo   bool
}

// Recognizer extracts a trade table from an uploaded image or PDF.
type Recognizer interface {
	Recognize(ctx context.Context, in RecognitionInput) (*Recognition, errs.Error)
}
