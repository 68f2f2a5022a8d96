package workers

import (
	"context"
	"testing"
	"time"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupReconciler(t *testing.T) (*gorm.DB, *Reconciler) {
	t.Helper()
	config.Logger = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(&models.ClientOrganization{}, &models.ClientRequest{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, NewReconciler(db)
}

func TestStaleClaimsAreReleased(t *testing.T) {
	db, reconciler := setupReconciler(t)

	reviewerID := uuid.New()
	stale := models.ClientRequest{
		ClientID:     uuid.New(),
		RequestType:  models.CaseTerrasvergunning,
		Title:        "Oude claim",
		Status:       models.RequestReviewing,
		ReviewedByID: &reviewerID,
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatal(err)
	}
	// Age the claim past the window.
	old := time.Now().Add(-2 * ReviewClaimWindow)
	if err := db.Model(&stale).UpdateColumn("updated_at", old).Error; err != nil {
		t.Fatal(err)
	}

	fresh := models.ClientRequest{
		ClientID:    uuid.New(),
		RequestType: models.CaseOvername,
		Title:       "Verse claim",
		Status:      models.RequestReviewing,
	}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatal(err)
	}

	if err := reconciler.HandleReconcileTask(context.Background(), NewReconcileTask()); err != nil {
		t.Fatal(err)
	}

	var got models.ClientRequest
	if err := db.First(&got, "id = ?", stale.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RequestPending {
		t.Errorf("stale claim should return to pending, got %s", got.Status)
	}
	if got.ReviewedByID != nil {
		t.Error("released claim must drop its reviewer")
	}

	if err := db.First(&got, "id = ?", fresh.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RequestReviewing {
		t.Errorf("fresh claim must stay reviewing, got %s", got.Status)
	}
}

func TestDecidedRequestsAreLeftAlone(t *testing.T) {
	db, reconciler := setupReconciler(t)

	caseID := uuid.New()
	converted := models.ClientRequest{
		ClientID:          uuid.New(),
		RequestType:       models.CaseAlcoholvergunning,
		Title:             "Afgerond",
		Status:            models.RequestConverted,
		ConvertedToCaseID: &caseID,
	}
	if err := db.Create(&converted).Error; err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * ReviewClaimWindow)
	if err := db.Model(&converted).UpdateColumn("updated_at", old).Error; err != nil {
		t.Fatal(err)
	}

	if err := reconciler.HandleReconcileTask(context.Background(), NewReconcileTask()); err != nil {
		t.Fatal(err)
	}

	var got models.ClientRequest
	if err := db.First(&got, "id = ?", converted.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RequestConverted {
		t.Errorf("converted request must stay converted, got %s", got.Status)
	}
}
