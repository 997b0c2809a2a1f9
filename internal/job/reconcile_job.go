package job

import (
	"context"

	"go.uber.org/zap"

	"taskboard-api/internal/repository"
)

// ReconcileJob sweeps orphaned rows left behind by partially failed board
// and list cascades. Cascades are sequential and best-effort, so a crash or
// a failed step can leave lists without a board, tasks without a list, or
// activity records for deleted boards; this job restores referential
// integrity after the fact.
type ReconcileJob struct {
	listRepo     repository.ListRepository
	taskRepo     repository.TaskRepository
	activityRepo repository.ActivityRepository
	logger       *zap.Logger
}

// NewReconcileJob creates a new ReconcileJob instance
func NewReconcileJob(
	listRepo repository.ListRepository,
	taskRepo repository.TaskRepository,
	activityRepo repository.ActivityRepository,
	logger *zap.Logger,
) *ReconcileJob {
	return &ReconcileJob{
		listRepo:     listRepo,
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Run executes one sweep. Lists go first so tasks orphaned by a removed
// list are caught within the same run.
func (j *ReconcileJob) Run() {
	ctx := context.Background()

	j.logger.Info("Starting orphan sweep")

	lists, err := j.listRepo.DeleteOrphans(ctx)
	if err != nil {
		j.logger.Error("Failed to sweep orphaned lists", zap.Error(err))
	}

	tasks, err := j.taskRepo.DeleteOrphans(ctx)
	if err != nil {
		j.logger.Error("Failed to sweep orphaned tasks", zap.Error(err))
	}

	activities, err := j.activityRepo.DeleteOrphans(ctx)
	if err != nil {
		j.logger.Error("Failed to sweep orphaned activities", zap.Error(err))
	}

	j.logger.Info("Orphan sweep completed",
		zap.Int64("lists", lists),
		zap.Int64("tasks", tasks),
		zap.Int64("activities", activities),
	)
}
