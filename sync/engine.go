package sync

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/logger"
	"github.com/jobsync/jobsync/common/models"
	"github.com/jobsync/jobsync/render"
)

const DefaultCallTimeout = 30 * time.Second

type EngineConfig struct {
	// ContinueOnError publishes the remaining jobs when one fails and
	// reports all failures together at the end. The default aborts on the
	// first failure.
	ContinueOnError bool
	// CallTimeout bounds each individual remote call, so one hung call
	// cannot stall the whole publish indefinitely. Zero selects
	// DefaultCallTimeout.
	CallTimeout time.Duration
}

// Engine publishes a Jobs collection to a Store: for each job, in declaration
// order, it renders the configuration document, probes the server for the
// job, and dispatches update (present) or create (absent). Jobs are processed
// strictly sequentially; both remote calls for a job complete before the next
// job begins.
type Engine struct {
	store  Store
	config EngineConfig
	log    logger.Log
}

func NewEngine(store Store, config EngineConfig, logFactory logger.LogFactory) *Engine {
	if config.CallTimeout <= 0 {
		config.CallTimeout = DefaultCallTimeout
	}
	return &Engine{
		store:  store,
		config: config,
		log:    logFactory("SyncEngine"),
	}
}

func (e *Engine) Publish(ctx context.Context, jobs *models.Jobs) error {
	var results *multierror.Error
	for _, job := range jobs.All() {
		err := e.publishJob(ctx, job)
		if err != nil {
			if !e.config.ContinueOnError {
				return err
			}
			e.log.WithField("job", job.Name()).Errorf("continuing after error: %v", err)
			results = multierror.Append(results, err)
		}
	}
	return results.ErrorOrNil()
}

func (e *Engine) publishJob(ctx context.Context, job *models.Job) error {
	log := e.log.WithField("job", job.Name())

	// Render fully before touching the network; a job that cannot be
	// serialized must not reach the server at all.
	config, err := render.Project(job)
	if err != nil {
		return err
	}

	exists, err := e.exists(ctx, job.Name())
	if err != nil {
		return gerror.NewErrRemoteOperationFailed(job.Name().String(), string(OperationExists), err)
	}

	if exists {
		if err := e.update(ctx, job.Name(), config); err != nil {
			return gerror.NewErrRemoteOperationFailed(job.Name().String(), string(OperationUpdate), err)
		}
		log.Info("updated job")
	} else {
		if err := e.create(ctx, job.Name(), config); err != nil {
			return gerror.NewErrRemoteOperationFailed(job.Name().String(), string(OperationCreate), err)
		}
		log.Info("created job")
	}
	return nil
}

func (e *Engine) exists(ctx context.Context, name models.JobName) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.config.CallTimeout)
	defer cancel()
	return e.store.Exists(callCtx, name)
}

func (e *Engine) create(ctx context.Context, name models.JobName, config []byte) error {
	callCtx, cancel := context.WithTimeout(ctx, e.config.CallTimeout)
	defer cancel()
	return e.store.Create(callCtx, name, config)
}

func (e *Engine) update(ctx context.Context, name models.JobName, config []byte) error {
	callCtx, cancel := context.WithTimeout(ctx, e.config.CallTimeout)
	defer cancel()
	return e.store.Update(callCtx, name, config)
}
