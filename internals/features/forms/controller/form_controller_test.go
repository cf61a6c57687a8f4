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

	formModel "csmanager_backend/internals/features/forms/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	authMiddleware "csmanager_backend/internals/middlewares/auth"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&formModel.FormModel{},
		&formModel.FormFieldModel{},
		&formModel.FormFieldOptionModel{},
		&formModel.FormAssignmentModel{},
		&formModel.FormSubmissionModel{},
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

	adminOnly := authMiddleware.OnlyRoles(
		"Only admins can manage forms",
		string(userModel.RoleAdmin), string(userModel.RoleSuperadmin),
	)

	forms := NewFormController(db)
	f := app.Group("/api/forms")
	f.Get("/", forms.List)
	f.Post("/", adminOnly, forms.Create)
	f.Get("/:id", forms.Retrieve)
	f.Put("/:id", adminOnly, forms.Update)
	f.Delete("/:id", adminOnly, forms.Delete)

	subs := NewFormSubmissionController(db)
	s := app.Group("/api/form-submissions")
	s.Get("/", subs.List)
	s.Post("/", subs.Create)
	s.Get("/:id", subs.Retrieve)
	s.Put("/:id", subs.Update)
	s.Delete("/:id", subs.Delete)
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
	out := map[string]any{}
	if resp.StatusCode != fiber.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return out, resp.StatusCode
}

func TestCreateFormOptionRules(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)

	// choice types need at least one option
	body, status := doJSON(t, app, "POST", "/api/forms/", map[string]any{
		"title": "Visit preferences",
		"fields": []map[string]any{
			{"type": "select", "label": "Shirt size"},
		},
	}, admin)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Select without options: expected 400, got %d: %v", status, body)
	}
	errs, _ := body["errors"].(map[string]any)
	if errs["options"] == nil {
		t.Errorf("Expected options error, got %v", body["errors"])
	}

	// date_range must not carry options
	body, status = doJSON(t, app, "POST", "/api/forms/", map[string]any{
		"title": "Visit preferences",
		"fields": []map[string]any{
			{"type": "date_range", "label": "Visit window", "options": []map[string]any{{"label": "x"}}},
		},
	}, admin)
	if status != fiber.StatusBadRequest {
		t.Fatalf("date_range with options: expected 400, got %d", status)
	}

	// unknown types are rejected
	body, status = doJSON(t, app, "POST", "/api/forms/", map[string]any{
		"title": "Visit preferences",
		"fields": []map[string]any{
			{"type": "slider", "label": "Rating"},
		},
	}, admin)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Unknown type: expected 400, got %d", status)
	}
	errs, _ = body["errors"].(map[string]any)
	if errs["type"] == nil {
		t.Errorf("Expected type error, got %v", body["errors"])
	}
}

func TestCreateFormRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	faculty := seedUser(t, db, "faculty@example.com", userModel.RoleFaculty)

	_, status := doJSON(t, app, "POST", "/api/forms/", map[string]any{
		"title": "Visit preferences",
	}, faculty)
	if status != fiber.StatusForbidden {
		t.Errorf("Expected 403, got %d", status)
	}
}

func TestFormVisibilityForNonStaff(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)

	body, status := doJSON(t, app, "POST", "/api/forms/", map[string]any{
		"title":           "Assigned form",
		"assigned_to_ids": []uint{candidate.ID},
		"fields": []map[string]any{
			{"type": "text", "label": "Favorite color"},
		},
	}, admin)
	if status != fiber.StatusCreated {
		t.Fatalf("Create assigned form: expected 201, got %d: %v", status, body)
	}
	assignedID := uint((body["data"].(map[string]any))["id"].(float64))

	body, status = doJSON(t, app, "POST", "/api/forms/", map[string]any{
		"title": "Unassigned form",
	}, admin)
	if status != fiber.StatusCreated {
		t.Fatalf("Create unassigned form: expected 201, got %d", status)
	}
	unassignedID := uint((body["data"].(map[string]any))["id"].(float64))

	// list shows only the assigned active form
	body, status = doJSON(t, app, "GET", "/api/forms/", nil, candidate)
	if status != fiber.StatusOK {
		t.Fatalf("List: expected 200, got %d", status)
	}
	rows, _ := body["data"].([]any)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 visible form, got %d", len(rows))
	}
	if uint(rows[0].(map[string]any)["id"].(float64)) != assignedID {
		t.Errorf("Expected form %d visible, got %v", assignedID, rows[0])
	}

	// the unassigned form reads as absent, not forbidden
	_, status = doJSON(t, app, "GET",
		"/api/forms/"+strconv.FormatUint(uint64(unassignedID), 10), nil, candidate)
	if status != fiber.StatusNotFound {
		t.Errorf("Unassigned retrieve: expected 404, got %d", status)
	}

	// deactivating hides the assigned form too
	if _, status := doJSON(t, app, "PUT",
		"/api/forms/"+strconv.FormatUint(uint64(assignedID), 10),
		map[string]any{"is_active": false}, admin); status != fiber.StatusOK {
		t.Fatalf("Deactivate: expected 200, got %d", status)
	}
	_, status = doJSON(t, app, "GET",
		"/api/forms/"+strconv.FormatUint(uint64(assignedID), 10), nil, candidate)
	if status != fiber.StatusNotFound {
		t.Errorf("Inactive retrieve: expected 404, got %d", status)
	}
}

func TestUpdateFormReconcilesFields(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)

	body, status := doJSON(t, app, "POST", "/api/forms/", map[string]any{
		"title": "Visit preferences",
		"fields": []map[string]any{
			{"type": "text", "label": "Favorite color", "order": 0},
			{"type": "select", "label": "Shirt size", "order": 1, "options": []map[string]any{
				{"label": "S", "order": 0},
				{"label": "M", "order": 1},
			}},
		},
	}, admin)
	if status != fiber.StatusCreated {
		t.Fatalf("Create: expected 201, got %d: %v", status, body)
	}
	created := body["data"].(map[string]any)
	formPath := "/api/forms/" + strconv.FormatUint(uint64(created["id"].(float64)), 10)
	fields := created["fields"].([]any)
	if len(fields) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(fields))
	}

	// a payload built from a fresh read applies as a no-op
	body, status = doJSON(t, app, "PUT", formPath, map[string]any{
		"fields": fields,
	}, admin)
	if status != fiber.StatusOK {
		t.Fatalf("No-op update: expected 200, got %d: %v", status, body)
	}
	after := body["data"].(map[string]any)["fields"].([]any)
	if len(after) != 2 {
		t.Fatalf("Expected 2 fields after no-op, got %d", len(after))
	}
	for i := range fields {
		beforeID := fields[i].(map[string]any)["id"]
		afterID := after[i].(map[string]any)["id"]
		if beforeID != afterID {
			t.Errorf("Field %d id changed: %v -> %v", i, beforeID, afterID)
		}
	}
	selOpts := after[1].(map[string]any)["options"].([]any)
	if len(selOpts) != 2 {
		t.Errorf("Expected 2 options after no-op, got %d", len(selOpts))
	}

	// dropping a field from the payload removes it and its options
	body, status = doJSON(t, app, "PUT", formPath, map[string]any{
		"fields": []any{fields[0]},
	}, admin)
	if status != fiber.StatusOK {
		t.Fatalf("Removal update: expected 200, got %d", status)
	}
	after = body["data"].(map[string]any)["fields"].([]any)
	if len(after) != 1 {
		t.Fatalf("Expected 1 field after removal, got %d", len(after))
	}
	var orphaned int64
	db.Model(&formModel.FormFieldOptionModel{}).Count(&orphaned)
	if orphaned != 0 {
		t.Errorf("Expected options cascade-removed, %d left", orphaned)
	}
}
