package repositories

import (
	"errors"
	"fmt"
	"time"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidTaskStatus = errors.New("invalid task status")

type TaskRepository interface {
	CreateTask(task *models.Task) (*models.Task, error)
	GetTaskByID(id uuid.UUID) (*models.Task, error)
	GetFilteredTasks(limit, offset int, filters map[string]string) ([]models.Task, int64, error)
	UpdateTask(id uuid.UUID, updates map[string]interface{}) (*models.Task, error)
	DeleteTask(id uuid.UUID) error
}

type taskRepository struct {
	DB *gorm.DB
}

// NewTaskRepository initializes a new task repository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{DB: db}
}

func (r *taskRepository) CreateTask(task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityNormal
	}

	if !models.IsValidTaskStatus(task.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if !models.IsValidCasePriority(task.Priority) {
		return nil, fmt.Errorf("invalid task priority %q", task.Priority)
	}

	if err := r.DB.Create(task).Error; err != nil {
		config.Logger.Error("Failed to create task", zap.Error(err))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) GetTaskByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.DB.Preload("Case").Preload("Assignee").Preload("Creator").
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetFilteredTasks(limit, offset int, filters map[string]string) ([]models.Task, int64, error) {
	var tasks []models.Task
	var total int64

	query := r.DB.Model(&models.Task{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if caseID := filters["case_id"]; caseID != "" {
		query = query.Where("case_id = ?", caseID)
	}
	if assignee := filters["assignee_id"]; assignee != "" {
		query = query.Where("assignee_id = ?", assignee)
	}
	if priority := filters["priority"]; priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if overdue := filters["overdue"]; overdue == "true" {
		query = query.Where("due_date < ? AND status NOT IN ?",
			time.Now(), []models.TaskStatus{models.TaskCompleted, models.TaskCancelled})
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Case").Preload("Assignee").
		Order("due_date ASC NULLS LAST, created_at DESC").
		Limit(limit).Offset(offset).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateTask applies a column-map update. Moving into completed stamps
// completed_at; moving out of it clears the stamp.
func (r *taskRepository) UpdateTask(id uuid.UUID, updates map[string]interface{}) (*models.Task, error) {
	existing, err := r.GetTaskByID(id)
	if err != nil {
		return nil, err
	}

	delete(updates, "id")
	delete(updates, "creator_id")
	delete(updates, "created_at")
	delete(updates, "completed_at")

	if status, ok := updates["status"].(string); ok {
		next := models.TaskStatus(status)
		if !models.IsValidTaskStatus(next) {
			return nil, ErrInvalidTaskStatus
		}
		if next == models.TaskCompleted && existing.Status != models.TaskCompleted {
			updates["completed_at"] = time.Now()
		}
		if next != models.TaskCompleted && existing.Status == models.TaskCompleted {
			updates["completed_at"] = nil
		}
	}
	if priority, ok := updates["priority"].(string); ok {
		if !models.IsValidCasePriority(models.CasePriority(priority)) {
			return nil, fmt.Errorf("invalid task priority %q", priority)
		}
	}

	if err := r.DB.Model(&models.Task{}).Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		config.Logger.Error("Failed to update task",
			zap.Error(err),
			zap.String("taskID", id.String()))
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return r.GetTaskByID(id)
}

func (r *taskRepository) DeleteTask(id uuid.UUID) error {
	if err := r.DB.Unscoped().Delete(&models.Task{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
