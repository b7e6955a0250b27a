package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Image import job states.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
	JobStatusFailed     = "failed"
)

// ImageImportJob records one queued image batch and its outcome.
type ImageImportJob struct {
	JobID          string         `gorm:"column:job_id;type:varchar(36);primaryKey" json:"job_id"`
	Status         string         `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	Rows           int            `gorm:"column:rows;not null;default:0" json:"rows"`
	GalleryEntries int            `gorm:"column:gallery_entries;not null;default:0" json:"gallery_entries"`
	ConfigValues   int            `gorm:"column:config_values;not null;default:0" json:"config_values"`
	ErrorCount     int            `gorm:"column:error_count;not null;default:0" json:"error_count"`
	Errors         datatypes.JSON `gorm:"column:errors" json:"errors,omitempty"`
	Message        string         `gorm:"column:message;type:text" json:"message,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	FinishedAt     *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (ImageImportJob) TableName() string {
	return "firebear_image_import_job"
}
