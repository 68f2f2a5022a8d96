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

func setupDocRepo(t *testing.T) (*gorm.DB, DocumentRepository) {
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
		&models.Case{}, &models.Document{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, NewDocumentRepository(db)
}

func seedCaseWithClient(t *testing.T, db *gorm.DB) (*models.ClientOrganization, *models.Case) {
	t.Helper()
	org := &models.ClientOrganization{
		CompanyName: "Bar Noord", ContactName: "B", Email: "b@example.com",
	}
	if err := db.Create(org).Error; err != nil {
		t.Fatal(err)
	}
	cs := &models.Case{
		ClientID: org.ID,
		Title:    "Terras",
		CaseType: models.CaseTerrasvergunning,
		Status:   models.StatusIntake,
		Priority: models.PriorityNormal,
	}
	if err := db.Create(cs).Error; err != nil {
		t.Fatal(err)
	}
	return org, cs
}

func TestCreateDocumentInheritsClientFromCase(t *testing.T) {
	db, repo := setupDocRepo(t)
	org, cs := seedCaseWithClient(t, db)

	doc, err := repo.CreateDocument(&models.Document{
		Name:       "plattegrond.pdf",
		FilePath:   "abc.pdf",
		FileSize:   100,
		CaseID:     &cs.ID,
		UploaderID: uuid.New(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.ClientID == nil || *doc.ClientID != org.ID {
		t.Error("case-attached document must inherit the case's client")
	}
	if doc.Category != models.DocGeneral {
		t.Errorf("empty category defaults to general, got %s", doc.Category)
	}
}

func TestCreateDocumentRejectsMismatchedClient(t *testing.T) {
	db, repo := setupDocRepo(t)
	_, cs := seedCaseWithClient(t, db)

	other := &models.ClientOrganization{
		CompanyName: "Cafe Zuid", ContactName: "Z", Email: "z@example.com",
	}
	if err := db.Create(other).Error; err != nil {
		t.Fatal(err)
	}

	_, err := repo.CreateDocument(&models.Document{
		Name:       "contract.pdf",
		FilePath:   "def.pdf",
		FileSize:   100,
		CaseID:     &cs.ID,
		ClientID:   &other.ID,
		UploaderID: uuid.New(),
	})
	if !errors.Is(err, ErrInconsistentAttachment) {
		t.Fatalf("expected ErrInconsistentAttachment, got %v", err)
	}
}

func TestDocumentSearchIsCaseInsensitive(t *testing.T) {
	db, repo := setupDocRepo(t)
	_, cs := seedCaseWithClient(t, db)

	_, err := repo.CreateDocument(&models.Document{
		Name:       "huurcontract.pdf",
		FilePath:   "jkl.pdf",
		FileSize:   100,
		CaseID:     &cs.ID,
		UploaderID: uuid.New(),
	})
	if err != nil {
		t.Fatal(err)
	}

	staff := policy.Actor{User: &models.User{ID: uuid.New(), Active: true}}
	docs, total, err := repo.GetFilteredDocuments(staff, 10, 0, map[string]string{"search": "HuurContract"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(docs) != 1 {
		t.Fatalf("mixed-case search should match 1 document, got %d", total)
	}
}

func TestDocumentRowScoping(t *testing.T) {
	db, repo := setupDocRepo(t)
	org, cs := seedCaseWithClient(t, db)

	doc, err := repo.CreateDocument(&models.Document{
		Name:       "vergunning.pdf",
		FilePath:   "ghi.pdf",
		FileSize:   100,
		CaseID:     &cs.ID,
		UploaderID: uuid.New(),
	})
	if err != nil {
		t.Fatal(err)
	}

	owner := policy.Actor{
		User:   &models.User{ID: uuid.New(), Active: true},
		Client: org,
	}
	if _, err := repo.GetDocumentByID(owner, doc.ID); err != nil {
		t.Errorf("owner should read its own document: %v", err)
	}

	stranger := policy.Actor{
		User:   &models.User{ID: uuid.New(), Active: true},
		Client: &models.ClientOrganization{ID: uuid.New()},
	}
	if _, err := repo.GetDocumentByID(stranger, doc.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("foreign client must read not-found, got %v", err)
	}
}
