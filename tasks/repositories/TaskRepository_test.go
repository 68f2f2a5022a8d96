package repositories

import (
	"errors"
	"testing"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTaskRepo(t *testing.T) TaskRepository {
	t.Helper()
	config.Logger = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Case{}, &models.Task{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewTaskRepository(db)
}

func TestCreateTaskDefaults(t *testing.T) {
	repo := setupTaskRepo(t)

	task, err := repo.CreateTask(&models.Task{
		Title:     "Bel gemeente over terrasvergunning",
		CreatorID: uuid.New(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != models.TaskPending {
		t.Errorf("new task should be pending, got %s", task.Status)
	}
	if task.Priority != models.PriorityNormal {
		t.Errorf("new task should be normal priority, got %s", task.Priority)
	}
}

func TestCreateTaskRejectsInvalidStatus(t *testing.T) {
	repo := setupTaskRepo(t)

	_, err := repo.CreateTask(&models.Task{
		Title:     "x",
		Status:    "done",
		CreatorID: uuid.New(),
	})
	if !errors.Is(err, ErrInvalidTaskStatus) {
		t.Fatalf("expected ErrInvalidTaskStatus, got %v", err)
	}
}

func TestCompletingTaskStampsCompletedAt(t *testing.T) {
	repo := setupTaskRepo(t)

	task, err := repo.CreateTask(&models.Task{
		Title:     "Dossier afronden",
		CreatorID: uuid.New(),
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := repo.UpdateTask(task.ID, map[string]interface{}{
		"status": string(models.TaskCompleted),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.TaskCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Error("completing a task must stamp completed_at")
	}

	// Reopening clears the stamp.
	reopened, err := repo.UpdateTask(task.ID, map[string]interface{}{
		"status": string(models.TaskInProgress),
	})
	if err != nil {
		t.Fatal(err)
	}
	if reopened.CompletedAt != nil {
		t.Error("reopening a task must clear completed_at")
	}
}

func TestCompletedAtCannotBeSetDirectly(t *testing.T) {
	repo := setupTaskRepo(t)

	task, err := repo.CreateTask(&models.Task{
		Title:     "Controle",
		CreatorID: uuid.New(),
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := repo.UpdateTask(task.ID, map[string]interface{}{
		"completed_at": "2020-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.CompletedAt != nil {
		t.Error("completed_at is derived from status changes only")
	}
}
