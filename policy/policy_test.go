package policy

import (
	"testing"

	"horeca-compliance-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.ClientOrganization{}, &models.Case{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func staffActor(role models.Role) Actor {
	return Actor{User: &models.User{ID: uuid.New(), Role: role, Active: true}}
}

func clientActor(org *models.ClientOrganization) Actor {
	return Actor{
		User:   &models.User{ID: uuid.New(), Role: models.EmployeeRole, Active: true},
		Client: org,
	}
}

func TestActorClassification(t *testing.T) {
	employee := staffActor(models.EmployeeRole)
	admin := staffActor(models.AdminRole)
	client := clientActor(&models.ClientOrganization{ID: uuid.New()})

	if !employee.IsStaff() || employee.IsClient() || employee.IsAdmin() {
		t.Error("employee should be staff, not client, not admin")
	}
	if !admin.IsAdmin() {
		t.Error("admin should be admin")
	}
	// A portal account trumps the role field.
	if client.IsStaff() || client.IsAdmin() {
		t.Error("a portal-linked user must never count as staff")
	}
}

func TestAdminOnlyPredicates(t *testing.T) {
	employee := staffActor(models.EmployeeRole)
	admin := staffActor(models.AdminRole)
	client := clientActor(&models.ClientOrganization{ID: uuid.New()})

	for name, check := range map[string]func(Actor) bool{
		"delete client": Actor.CanDeleteClient,
		"delete case":   Actor.CanDeleteCase,
		"manage users":  Actor.CanManageUsers,
		"edit settings": Actor.CanEditSettings,
		"activity log":  Actor.CanViewActivityLog,
	} {
		if check(employee) {
			t.Errorf("employee must not %s", name)
		}
		if check(client) {
			t.Errorf("client must not %s", name)
		}
		if !check(admin) {
			t.Errorf("admin must be able to %s", name)
		}
	}
}

func TestStaffPredicatesExcludeClients(t *testing.T) {
	employee := staffActor(models.EmployeeRole)
	client := clientActor(&models.ClientOrganization{ID: uuid.New()})

	if !employee.CanCreateCase() || !employee.CanManageTasks() || !employee.CanReviewRequests() {
		t.Error("employee should hold the staff permissions")
	}
	if client.CanCreateCase() || client.CanManageTasks() || client.CanReviewRequests() {
		t.Error("client actors must not hold staff permissions")
	}
	if !client.CanCreateRequest() || !client.CanUploadDocument() {
		t.Error("client actors should be able to file requests and upload documents")
	}
}

func TestOwnsRow(t *testing.T) {
	org := &models.ClientOrganization{ID: uuid.New()}
	client := clientActor(org)
	staff := staffActor(models.EmployeeRole)

	if !client.OwnsRow(org.ID) {
		t.Error("client should own its own rows")
	}
	if client.OwnsRow(uuid.New()) {
		t.Error("client must not own foreign rows")
	}
	if !staff.OwnsRow(uuid.New()) {
		t.Error("staff own every row")
	}
}

func TestScopeByClient(t *testing.T) {
	db := setupTestDB(t)

	orgA := models.ClientOrganization{CompanyName: "Cafe De Zon", ContactName: "A", Email: "a@example.com"}
	orgB := models.ClientOrganization{CompanyName: "Bar Noord", ContactName: "B", Email: "b@example.com"}
	if err := db.Create(&orgA).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&orgB).Error; err != nil {
		t.Fatal(err)
	}

	for _, cs := range []models.Case{
		{ClientID: orgA.ID, Title: "Terras", CaseType: models.CaseTerrasvergunning, Status: models.StatusIntake, Priority: models.PriorityNormal},
		{ClientID: orgA.ID, Title: "Alcohol", CaseType: models.CaseAlcoholvergunning, Status: models.StatusReview, Priority: models.PriorityNormal},
		{ClientID: orgB.ID, Title: "Overname", CaseType: models.CaseOvername, Status: models.StatusIntake, Priority: models.PriorityNormal},
	} {
		if err := db.Create(&cs).Error; err != nil {
			t.Fatal(err)
		}
	}

	var count int64

	staff := staffActor(models.EmployeeRole)
	if err := ScopeByClient(db.Model(&models.Case{}), staff).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("staff should see all 3 cases, saw %d", count)
	}

	clientA := clientActor(&orgA)
	if err := ScopeByClient(db.Model(&models.Case{}), clientA).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("client A should see 2 cases, saw %d", count)
	}

	var titles []string
	if err := ScopeByClient(db.Model(&models.Case{}), clientA).
		Pluck("title", &titles).Error; err != nil {
		t.Fatal(err)
	}
	for _, title := range titles {
		if title == "Overname" {
			t.Error("client A must never see client B's case")
		}
	}

	// An unresolved actor matches nothing.
	if err := ScopeByClient(db.Model(&models.Case{}), Actor{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("unresolved actor should see 0 cases, saw %d", count)
	}
}

func TestFilterClientOrgUpdate(t *testing.T) {
	updates := map[string]interface{}{
		"company_name":        "Nieuw Cafe",
		"phone":               "+31612345678",
		"city":                "Utrecht",
		"email":               "hijack@example.com",
		"registration_number": "12345678",
		"status":              "active",
		"assigned_employee_id": uuid.New().String(),
	}

	filtered := FilterClientOrgUpdate(updates)

	for _, allowed := range []string{"company_name", "phone", "city"} {
		if _, ok := filtered[allowed]; !ok {
			t.Errorf("expected %q to survive the filter", allowed)
		}
	}
	for _, blocked := range []string{"email", "registration_number", "status", "assigned_employee_id"} {
		if _, ok := filtered[blocked]; ok {
			t.Errorf("expected %q to be stripped", blocked)
		}
	}
}
