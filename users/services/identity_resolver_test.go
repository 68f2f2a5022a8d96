package services

import (
	"errors"
	"testing"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupResolver(t *testing.T) (*gorm.DB, IdentityResolver) {
	t.Helper()
	config.Logger = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.ClientOrganization{}, &models.PortalAccount{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, NewIdentityResolver(db)
}

func TestResolveStaffActor(t *testing.T) {
	db, resolver := setupResolver(t)

	user := models.User{
		FirstName: "Eva", LastName: "de Vries",
		Email: "eva@consultancy.nl", Password: "x",
		Role: models.AdminRole, Active: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	actor, err := resolver.Resolve("eva@consultancy.nl")
	if err != nil {
		t.Fatal(err)
	}
	if !actor.IsStaff() || !actor.IsAdmin() {
		t.Error("a user without a portal account resolves as staff")
	}
	if actor.Client != nil {
		t.Error("staff actor must not carry a client organization")
	}
}

func TestResolveClientActor(t *testing.T) {
	db, resolver := setupResolver(t)

	org := models.ClientOrganization{
		CompanyName: "Cafe De Zon", ContactName: "Jan",
		Email: "info@cafedezon.nl", Status: models.ClientActive,
	}
	if err := db.Create(&org).Error; err != nil {
		t.Fatal(err)
	}

	user := models.User{
		FirstName: "Jan", LastName: "Jansen",
		Email: "jan@cafedezon.nl", Password: "x",
		Role: models.EmployeeRole, Active: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	account := models.PortalAccount{UserID: user.ID, ClientID: org.ID}
	if err := db.Create(&account).Error; err != nil {
		t.Fatal(err)
	}

	actor, err := resolver.Resolve("jan@cafedezon.nl")
	if err != nil {
		t.Fatal(err)
	}
	if !actor.IsClient() {
		t.Fatal("a portal-linked user resolves as a client actor")
	}
	if actor.Client.ID != org.ID {
		t.Error("client actor must carry its organization")
	}
	if actor.IsStaff() {
		t.Error("client actor must never count as staff")
	}
}

func TestResolveInactiveUser(t *testing.T) {
	db, resolver := setupResolver(t)

	user := models.User{
		FirstName: "Old", LastName: "Account",
		Email: "old@consultancy.nl", Password: "x",
		Role: models.EmployeeRole, Active: false,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := resolver.Resolve("old@consultancy.nl"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("inactive users must not resolve, got %v", err)
	}
}

func TestResolveUnknownEmail(t *testing.T) {
	_, resolver := setupResolver(t)

	if _, err := resolver.Resolve("nobody@example.com"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("unknown emails must not resolve, got %v", err)
	}
}
