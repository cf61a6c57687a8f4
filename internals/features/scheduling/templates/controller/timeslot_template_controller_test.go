package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	locationModel "csmanager_backend/internals/features/catalog/locations/model"
	templateModel "csmanager_backend/internals/features/scheduling/templates/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&locationModel.LocationTypeModel{},
		&locationModel.LocationModel{},
		&templateModel.TimeSlotTemplateModel{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func setupTestApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Test-User"); v != "" {
			id, _ := strconv.ParseUint(v, 10, 64)
			c.Locals("user_id", uint(id))
			c.Locals("user_role", c.Get("X-Test-Role"))
		}
		return c.Next()
	})

	ctl := NewTimeSlotTemplateController(db)
	tpl := app.Group("/api/timeslot-templates")
	tpl.Get("/", ctl.List)
	tpl.Post("/", ctl.Create)
	tpl.Get("/:id", ctl.Retrieve)
	tpl.Put("/:id", ctl.Update)
	tpl.Delete("/:id", ctl.Delete)
	return app
}

func seedUser(t *testing.T, db *gorm.DB, email string, role userModel.Role) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{Email: email, Username: email, Role: role}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}
	return u
}

func seedTemplate(t *testing.T, db *gorm.DB, name string, owner userModel.UserModel) templateModel.TimeSlotTemplateModel {
	t.Helper()
	row := templateModel.TimeSlotTemplateModel{
		Name:            name,
		DurationMinutes: 30,
		MaxAttendees:    1,
		IsVisible:       true,
		HasEndTime:      true,
		CreatedByID:     owner.ID,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to seed template %s: %v", name, err)
	}
	return row
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, user userModel.UserModel) (map[string]any, int) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user.ID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatUint(uint64(user.ID), 10))
		req.Header.Set("X-Test-Role", string(user.Role))
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return decoded, resp.StatusCode
}

func listNames(body map[string]any) []string {
	rows, _ := body["data"].([]any)
	var names []string
	for _, r := range rows {
		row, _ := r.(map[string]any)
		if n, ok := row["name"].(string); ok {
			names = append(names, n)
		}
	}
	return names
}

func TestListTemplatesScopedToCreator(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	facultyA := seedUser(t, db, "ada@example.com", userModel.RoleFaculty)
	facultyB := seedUser(t, db, "grace@example.com", userModel.RoleFaculty)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)

	seedTemplate(t, db, "Ada office hour", facultyA)
	seedTemplate(t, db, "Grace lab tour", facultyB)

	body, status := doJSON(t, app, "GET", "/api/timeslot-templates/", nil, facultyB)
	if status != fiber.StatusOK {
		t.Fatalf("Faculty list: expected 200, got %d: %v", status, body)
	}
	names := listNames(body)
	if len(names) != 1 || names[0] != "Grace lab tour" {
		t.Errorf("Faculty should only see their own templates, got %v", names)
	}

	body, status = doJSON(t, app, "GET", "/api/timeslot-templates/", nil, admin)
	if status != fiber.StatusOK {
		t.Fatalf("Admin list: expected 200, got %d: %v", status, body)
	}
	if names := listNames(body); len(names) != 2 {
		t.Errorf("Admin should see every template, got %v", names)
	}
}

func TestCreateTemplateStampsCreator(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	faculty := seedUser(t, db, "ada@example.com", userModel.RoleFaculty)
	candidate := seedUser(t, db, "carol@example.com", userModel.RoleCandidate)

	body, status := doJSON(t, app, "POST", "/api/timeslot-templates/", map[string]any{
		"name": "Committee meeting",
	}, faculty)
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d: %v", status, body)
	}
	data, _ := body["data"].(map[string]any)
	if got, _ := data["created_by"].(float64); uint(got) != faculty.ID {
		t.Errorf("Expected created_by %d, got %v", faculty.ID, data["created_by"])
	}

	if _, status := doJSON(t, app, "POST", "/api/timeslot-templates/", map[string]any{
		"name": "Candidate template",
	}, candidate); status != fiber.StatusForbidden {
		t.Errorf("Candidate create: expected 403, got %d", status)
	}
}
