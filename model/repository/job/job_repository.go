package job

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	entity "github.com/stefanologica/firebear-importexport/model/entity"
)

// ErrJobNotFound is returned by Find for an unknown id.
var ErrJobNotFound = errors.New("import job not found")

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.ImageImportJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create import job: %w", err)
	}
	return nil
}

// Save writes every column of job, inserting it when missing.
func (r *JobRepository) Save(ctx context.Context, job *entity.ImageImportJob) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("save import job %s: %w", job.JobID, err)
	}
	return nil
}

func (r *JobRepository) Find(ctx context.Context, id string) (*entity.ImageImportJob, error) {
	var job entity.ImageImportJob
	err := r.db.WithContext(ctx).Where("job_id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find import job %s: %w", id, err)
	}
	return &job, nil
}
