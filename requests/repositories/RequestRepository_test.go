package repositories

import (
	"errors"
	"testing"

	caserepositories "horeca-compliance-backend/cases/repositories"
	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepos(t *testing.T) (*gorm.DB, RequestRepository) {
	t.Helper()
	config.Logger = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.ClientOrganization{},
		&models.Case{}, &models.ClientRequest{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db, NewRequestRepository(db, caserepositories.NewCaseRepository(db))
}

func seedClient(t *testing.T, db *gorm.DB) *models.ClientOrganization {
	t.Helper()
	org := &models.ClientOrganization{
		CompanyName: "Cafe De Zon",
		ContactName: "Jan Jansen",
		Email:       "jan@cafedezon.nl",
		Status:      models.ClientActive,
	}
	if err := db.Create(org).Error; err != nil {
		t.Fatal(err)
	}
	return org
}

func seedReviewer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	reviewer := &models.User{
		FirstName: "Eva",
		LastName:  "de Vries",
		Email:     "eva@consultancy.nl",
		Password:  "x",
		Role:      models.EmployeeRole,
		Active:    true,
	}
	if err := db.Create(reviewer).Error; err != nil {
		t.Fatal(err)
	}
	return reviewer
}

func seedRequest(t *testing.T, db *gorm.DB, repo RequestRepository, org *models.ClientOrganization, urgency models.RequestUrgency) *models.ClientRequest {
	t.Helper()
	req, err := repo.CreateRequest(&models.ClientRequest{
		ClientID:    org.ID,
		RequestType: models.CaseTerrasvergunning,
		Title:       "Terras aan de gracht",
		Urgency:     urgency,
	})
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	return req
}

func TestCreateRequestRejectsBibob(t *testing.T) {
	db, repo := setupRepos(t)
	org := seedClient(t, db)

	_, err := repo.CreateRequest(&models.ClientRequest{
		ClientID:    org.ID,
		RequestType: models.CaseBibob,
		Title:       "Screening",
	})
	if err == nil {
		t.Fatal("bibob must not be requestable")
	}
}

func TestCreateRequestStartsPending(t *testing.T) {
	db, repo := setupRepos(t)
	org := seedClient(t, db)

	req, err := repo.CreateRequest(&models.ClientRequest{
		ClientID:    org.ID,
		RequestType: models.CaseAlcoholvergunning,
		Title:       "Alcoholvergunning",
		// A submitted status must not stick.
		Status:            models.RequestConverted,
		ConvertedToCaseID: func() *uuid.UUID { id := uuid.New(); return &id }(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if req.Status != models.RequestPending {
		t.Errorf("new request should be pending, got %s", req.Status)
	}
	if req.ConvertedToCaseID != nil {
		t.Error("new request must not carry a case link")
	}
}

func TestApproveRequestCreatesLinkedCase(t *testing.T) {
	db, repo := setupRepos(t)
	org := seedClient(t, db)
	reviewer := seedReviewer(t, db)
	req := seedRequest(t, db, repo, org, models.UrgencyNormal)

	converted, createdCase, err := repo.ApproveRequest(reviewer, req.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if converted.Status != models.RequestConverted {
		t.Errorf("expected converted, got %s", converted.Status)
	}
	if converted.ConvertedToCaseID == nil {
		t.Fatal("converted request must link its case")
	}
	if *converted.ConvertedToCaseID != createdCase.ID {
		t.Error("request link and created case disagree")
	}
	if converted.ReviewedByID == nil || *converted.ReviewedByID != reviewer.ID {
		t.Error("reviewer must be recorded")
	}

	if createdCase.ClientID != org.ID {
		t.Error("case must belong to the requesting client")
	}
	if createdCase.Status != models.StatusIntake {
		t.Errorf("new case should start in intake, got %s", createdCase.Status)
	}
	if createdCase.AssignedEmployeeID == nil || *createdCase.AssignedEmployeeID != reviewer.ID {
		t.Error("the approving reviewer must be assigned to the new case")
	}
	if createdCase.CaseType != req.RequestType {
		t.Errorf("case type should carry over, got %s", createdCase.CaseType)
	}
	if createdCase.Priority != models.PriorityNormal {
		t.Errorf("normal urgency maps to normal priority, got %s", createdCase.Priority)
	}
}

func TestApproveUrgentRequestMapsToUrgentPriority(t *testing.T) {
	db, repo := setupRepos(t)
	org := seedClient(t, db)
	reviewer := seedReviewer(t, db)
	req := seedRequest(t, db, repo, org, models.UrgencyUrgent)

	_, createdCase, err := repo.ApproveRequest(reviewer, req.ID)
	if err != nil {
		t.Fatal(err)
	}
	if createdCase.Priority != models.PriorityUrgent {
		t.Errorf("urgent urgency maps to urgent priority, got %s", createdCase.Priority)
	}
}

func TestApproveTwiceCreatesOneCase(t *testing.T) {
	db, repo := setupRepos(t)
	org := seedClient(t, db)
	reviewer := seedReviewer(t, db)
	second := seedReviewer2(t, db)
	req := seedRequest(t, db, repo, org, models.UrgencyNormal)

	if _, _, err := repo.ApproveRequest(reviewer, req.ID); err != nil {
		t.Fatal(err)
	}
	if _, _, err := repo.ApproveRequest(second, req.ID); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("second approval should fail with ErrAlreadyDecided, got %v", err)
	}

	var caseCount int64
	if err := db.Model(&models.Case{}).Count(&caseCount).Error; err != nil {
		t.Fatal(err)
	}
	if caseCount != 1 {
		t.Errorf("exactly one case must exist, found %d", caseCount)
	}
}

func seedReviewer2(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	reviewer := &models.User{
		FirstName: "Pieter",
		LastName:  "Bakker",
		Email:     "pieter@consultancy.nl",
		Password:  "x",
		Role:      models.EmployeeRole,
		Active:    true,
	}
	if err := db.Create(reviewer).Error; err != nil {
		t.Fatal(err)
	}
	return reviewer
}

func TestRejectRequest(t *testing.T) {
	db, repo := setupRepos(t)
	org := seedClient(t, db)
	reviewer := seedReviewer(t, db)
	req := seedRequest(t, db, repo, org, models.UrgencyNormal)

	rejected, err := repo.RejectRequest(reviewer, req.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rejected.Status != models.RequestRejected {
		t.Errorf("expected rejected, got %s", rejected.Status)
	}
	if rejected.ConvertedToCaseID != nil {
		t.Error("a rejected request must not link a case")
	}

	var caseCount int64
	if err := db.Model(&models.Case{}).Count(&caseCount).Error; err != nil {
		t.Fatal(err)
	}
	if caseCount != 0 {
		t.Errorf("rejection must not create a case, found %d", caseCount)
	}
}

func TestRejectAfterConversionFails(t *testing.T) {
	db, repo := setupRepos(t)
	org := seedClient(t, db)
	reviewer := seedReviewer(t, db)
	req := seedRequest(t, db, repo, org, models.UrgencyNormal)

	if _, _, err := repo.ApproveRequest(reviewer, req.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.RejectRequest(reviewer, req.ID); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
}

func TestApproveMissingRequest(t *testing.T) {
	db, repo := setupRepos(t)
	reviewer := seedReviewer(t, db)

	_, _, err := repo.ApproveRequest(reviewer, uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}
