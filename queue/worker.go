package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/stefanologica/firebear-importexport/core/crypto"
	"github.com/stefanologica/firebear-importexport/core/log"
	entity "github.com/stefanologica/firebear-importexport/model/entity"
	jobRepo "github.com/stefanologica/firebear-importexport/model/repository/job"
	"github.com/stefanologica/firebear-importexport/service/media"
)

const (
	receiveRetryDelay = time.Second
	drainWait         = time.Second
)

// JobStore records queued batches and their outcome.
type JobStore interface {
	Create(ctx context.Context, job *entity.ImageImportJob) error
	Save(ctx context.Context, job *entity.ImageImportJob) error
	Find(ctx context.Context, id string) (*entity.ImageImportJob, error)
}

// Enqueue records a queued job for msg and publishes it. Credential fields of
// the config are encrypted first when enc is set.
func Enqueue(ctx context.Context, pub Publisher, jobs JobStore, enc *crypto.FieldEncryptor, msg media.Message) (*entity.ImageImportJob, error) {
	if msg.Config == nil {
		msg.Config = map[string]interface{}{}
	}
	if enc != nil {
		if err := enc.Encrypt(msg.Config); err != nil {
			return nil, err
		}
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	job := &entity.ImageImportJob{
		JobID:  uuid.NewString(),
		Status: entity.JobStatusQueued,
		Rows:   len(msg.Data),
	}
	if err := jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := pub.Publish(ctx, Task{JobID: job.JobID, Payload: payload}); err != nil {
		job.Status = entity.JobStatusFailed
		job.Message = err.Error()
		if serr := jobs.Save(ctx, job); serr != nil {
			log.Error("mark unpublished job failed", serr)
		}
		return nil, err
	}
	return job, nil
}

// Worker consumes tasks and runs them through the image processor. Each task
// gets its own error aggregator, recorded on the job when the batch ends.
type Worker struct {
	consumer    Consumer
	processor   *media.Processor
	jobs        JobStore
	concurrency int
}

func NewWorker(consumer Consumer, processor *media.Processor, jobs JobStore, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{consumer: consumer, processor: processor, jobs: jobs, concurrency: concurrency}
}

// Run consumes until ctx is done or the queue is closed, with at most
// concurrency batches in flight.
func (w *Worker) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	log.Infof("image worker started, concurrency %d", w.concurrency)

	for {
		d, err := w.consumer.Receive(gctx)
		if err != nil {
			if gctx.Err() != nil || errors.Is(err, ErrClosed) {
				break
			}
			log.Error("receive image task", err)
			select {
			case <-gctx.Done():
			case <-time.After(receiveRetryDelay):
			}
			continue
		}
		g.Go(func() error {
			w.Handle(gctx, d)
			return nil
		})
	}

	err := g.Wait()
	log.Info("image worker stopped")
	return err
}

// Drain handles up to limit waiting tasks one by one and returns how many ran.
// It stops early once the queue stays empty for a short wait.
func (w *Worker) Drain(ctx context.Context, limit int) (int, error) {
	n := 0
	for limit <= 0 || n < limit {
		rctx, cancel := context.WithTimeout(ctx, drainWait)
		d, err := w.consumer.Receive(rctx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return n, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrClosed) {
				break
			}
			return n, err
		}
		w.Handle(ctx, d)
		n++
	}
	return n, nil
}

// Handle processes one delivery, records the outcome and acknowledges it.
func (w *Worker) Handle(ctx context.Context, d Delivery) {
	job := w.startJob(ctx, d.Task.JobID)

	errs := media.NewErrorAggregator()
	res, err := w.processor.WithErrors(errs).ProcessImportImages(ctx, d.Task.Payload)

	now := time.Now()
	job.FinishedAt = &now
	job.ErrorCount = errs.Count()
	if data, merr := json.Marshal(errs.Errors()); merr == nil {
		job.Errors = datatypes.JSON(data)
	}
	switch {
	case err != nil:
		job.Status = entity.JobStatusFailed
		job.Message = err.Error()
		log.Errorf("image job %s failed: %v", job.JobID, err)
	default:
		job.Status = entity.JobStatusDone
		job.Rows = len(res.Rows)
		job.GalleryEntries = res.GalleryEntries
		job.ConfigValues = res.ConfigValues
		if errs.HasCritical() {
			job.Status = entity.JobStatusFailed
		}
	}
	if serr := w.jobs.Save(ctx, job); serr != nil {
		log.Error("save image job", serr)
	}
	if aerr := d.Ack(ctx); aerr != nil {
		log.Error("ack image task", aerr)
	}
}

// startJob marks the job processing. Tasks published without a job record get one.
func (w *Worker) startJob(ctx context.Context, id string) *entity.ImageImportJob {
	job, err := w.jobs.Find(ctx, id)
	if err != nil {
		if !errors.Is(err, jobRepo.ErrJobNotFound) {
			log.Error("load image job", err)
		}
		if id == "" {
			id = uuid.NewString()
		}
		job = &entity.ImageImportJob{JobID: id}
	}
	job.Status = entity.JobStatusProcessing
	if err := w.jobs.Save(ctx, job); err != nil {
		log.Error("save image job", err)
	}
	return job
}
