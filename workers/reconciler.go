package workers

import (
	"context"
	"time"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TypeReconcileRequests = "requests:reconcile"

// ReviewClaimWindow is how long a reviewer may hold a request in reviewing
// before the reconciler returns it to the pending pool.
const ReviewClaimWindow = 15 * time.Minute

func NewReconcileTask() *asynq.Task {
	return asynq.NewTask(TypeReconcileRequests, nil)
}

// Reconciler is the backstop for the review workflow. Conversion itself is
// transactional, but a reviewer can claim a request and then walk away; stale
// claims would leave requests invisible to other reviewers forever.
type Reconciler struct {
	DB *gorm.DB
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{DB: db}
}

func (r *Reconciler) HandleReconcileTask(ctx context.Context, t *asynq.Task) error {
	released, err := r.releaseStaleClaims(ctx)
	if err != nil {
		return err
	}
	if released > 0 {
		config.Logger.Info("Released stale review claims", zap.Int64("count", released))
	}

	return r.reportBrokenConversions(ctx)
}

func (r *Reconciler) releaseStaleClaims(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-ReviewClaimWindow)
	result := r.DB.WithContext(ctx).Model(&models.ClientRequest{}).
		Where("status = ? AND updated_at < ?", models.RequestReviewing, cutoff).
		Updates(map[string]interface{}{
			"status":         models.RequestPending,
			"reviewed_by_id": nil,
		})
	return result.RowsAffected, result.Error
}

// reportBrokenConversions looks for converted requests without a case link.
// The transactional workflow should make this impossible; if a row shows up
// anyway it is flagged loudly rather than silently repaired.
func (r *Reconciler) reportBrokenConversions(ctx context.Context) error {
	var broken []models.ClientRequest
	err := r.DB.WithContext(ctx).
		Where("status = ? AND converted_to_case_id IS NULL", models.RequestConverted).
		Find(&broken).Error
	if err != nil {
		return err
	}

	for _, req := range broken {
		config.Logger.Error("Converted request has no linked case",
			zap.String("requestID", req.ID.String()),
			zap.String("clientID", req.ClientID.String()))
	}
	return nil
}
