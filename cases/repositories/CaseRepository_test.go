package repositories

import (
	"errors"
	"testing"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCaseRepo(t *testing.T) (*gorm.DB, CaseRepository) {
	t.Helper()
	config.Logger = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.ClientOrganization{}, &models.Case{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, NewCaseRepository(db)
}

func seedOrg(t *testing.T, db *gorm.DB, name string) *models.ClientOrganization {
	t.Helper()
	org := &models.ClientOrganization{
		CompanyName: name, ContactName: "C", Email: name + "@example.com",
	}
	if err := db.Create(org).Error; err != nil {
		t.Fatal(err)
	}
	return org
}

func staffActor() policy.Actor {
	return policy.Actor{User: &models.User{ID: uuid.New(), Role: models.EmployeeRole, Active: true}}
}

func clientActor(org *models.ClientOrganization) policy.Actor {
	return policy.Actor{
		User:   &models.User{ID: uuid.New(), Active: true},
		Client: org,
	}
}

func TestCreateCaseDefaultsAndValidation(t *testing.T) {
	db, repo := setupCaseRepo(t)
	org := seedOrg(t, db, "zon")

	cs, err := repo.CreateCase(nil, &models.Case{
		ClientID: org.ID,
		Title:    "Terrasvergunning",
		CaseType: models.CaseTerrasvergunning,
	})
	if err != nil {
		t.Fatal(err)
	}
	if cs.Status != models.StatusIntake {
		t.Errorf("new case defaults to intake, got %s", cs.Status)
	}
	if cs.Priority != models.PriorityNormal {
		t.Errorf("new case defaults to normal priority, got %s", cs.Priority)
	}

	_, err = repo.CreateCase(nil, &models.Case{
		ClientID: org.ID,
		Title:    "x",
		CaseType: models.CaseOther,
		Status:   "open",
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	_, err = repo.CreateCase(nil, &models.Case{
		Title:    "x",
		CaseType: models.CaseOther,
	})
	if err == nil {
		t.Fatal("a case without a client must be rejected")
	}
}

func TestGetCaseByIDAppliesScoping(t *testing.T) {
	db, repo := setupCaseRepo(t)
	orgA := seedOrg(t, db, "zon")
	orgB := seedOrg(t, db, "noord")

	cs, err := repo.CreateCase(nil, &models.Case{
		ClientID: orgA.ID,
		Title:    "Alcoholvergunning",
		CaseType: models.CaseAlcoholvergunning,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetCaseByID(staffActor(), cs.ID); err != nil {
		t.Errorf("staff should read any case: %v", err)
	}
	if _, err := repo.GetCaseByID(clientActor(orgA), cs.ID); err != nil {
		t.Errorf("owner should read its own case: %v", err)
	}
	if _, err := repo.GetCaseByID(clientActor(orgB), cs.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("foreign client must read not-found, got %v", err)
	}
}

func TestUpdateCaseKeepsClientImmutable(t *testing.T) {
	db, repo := setupCaseRepo(t)
	orgA := seedOrg(t, db, "zon")
	orgB := seedOrg(t, db, "noord")

	cs, err := repo.CreateCase(nil, &models.Case{
		ClientID: orgA.ID,
		Title:    "Overname",
		CaseType: models.CaseOvername,
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := repo.UpdateCase(staffActor(), cs.ID, map[string]interface{}{
		"client_id": orgB.ID.String(),
		"status":    string(models.StatusInProgress),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ClientID != orgA.ID {
		t.Error("client_id must never change through an update")
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("expected in_progress, got %s", updated.Status)
	}
}

func TestUpdateCaseRejectsInvalidStatus(t *testing.T) {
	db, repo := setupCaseRepo(t)
	org := seedOrg(t, db, "zon")

	cs, err := repo.CreateCase(nil, &models.Case{
		ClientID: org.ID,
		Title:    "Verbouwing",
		CaseType: models.CaseVerbouwing,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = repo.UpdateCase(staffActor(), cs.ID, map[string]interface{}{
		"status": "finished",
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestActiveFilterExcludesTerminalCases(t *testing.T) {
	db, repo := setupCaseRepo(t)
	org := seedOrg(t, db, "zon")

	for _, status := range []models.CaseStatus{
		models.StatusIntake, models.StatusReview,
		models.StatusCompleted, models.StatusRejected, models.StatusCancelled,
	} {
		_, err := repo.CreateCase(nil, &models.Case{
			ClientID: org.ID,
			Title:    "Case " + string(status),
			CaseType: models.CaseOther,
			Status:   status,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	cases, total, err := repo.GetFilteredCases(staffActor(), 50, 0, map[string]string{"active": "true"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("expected 2 active cases, got %d", total)
	}
	for _, cs := range cases {
		if models.IsTerminalCaseStatus(cs.Status) {
			t.Errorf("terminal case %s leaked into the active list", cs.Status)
		}
	}
}
