package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	sessionModel "csmanager_backend/internals/features/scheduling/sessions/model"
	timeslotModel "csmanager_backend/internals/features/scheduling/timeslots/model"
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
		&sessionModel.SessionModel{},
		&sectionModel.CandidateSectionModel{},
		&timeslotModel.SessionTimeSlotModel{},
		&timeslotModel.SessionAttendeeModel{},
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

	ctl := NewSessionController(db)
	s := app.Group("/api/seasons")
	s.Get("/", ctl.List)
	s.Post("/", ctl.Create)
	s.Get("/:id", ctl.Retrieve)
	s.Put("/:id", ctl.Update)
	s.Delete("/:id", ctl.Delete)
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

func TestCreateSessionDateValidation(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	faculty := seedUser(t, db, "faculty@example.com", userModel.RoleFaculty)

	// only admins create
	_, status := doJSON(t, app, "POST", "/api/seasons/", map[string]any{
		"title": "Fall 2026", "start_date": "2026-09-01", "end_date": "2026-12-15",
	}, faculty)
	if status != fiber.StatusForbidden {
		t.Errorf("Faculty create: expected 403, got %d", status)
	}

	// end before start
	body, status := doJSON(t, app, "POST", "/api/seasons/", map[string]any{
		"title": "Fall 2026", "start_date": "2026-12-15", "end_date": "2026-09-01",
	}, admin)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Inverted dates: expected 400, got %d", status)
	}
	errs, _ := body["errors"].(map[string]any)
	if errs["end_date"] == nil {
		t.Errorf("Expected end_date error, got %v", body["errors"])
	}

	// malformed date
	body, status = doJSON(t, app, "POST", "/api/seasons/", map[string]any{
		"title": "Fall 2026", "start_date": "09/01/2026", "end_date": "2026-12-15",
	}, admin)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Malformed date: expected 400, got %d", status)
	}
	errs, _ = body["errors"].(map[string]any)
	if errs["start_date"] == nil {
		t.Errorf("Expected start_date error, got %v", body["errors"])
	}

	// a single-day session is valid
	body, status = doJSON(t, app, "POST", "/api/seasons/", map[string]any{
		"title": "Interview day", "start_date": "2026-10-05", "end_date": "2026-10-05",
	}, admin)
	if status != fiber.StatusCreated {
		t.Fatalf("Single-day session: expected 201, got %d: %v", status, body)
	}
	data := body["data"].(map[string]any)
	if data["start_date"] != "2026-10-05" || data["end_date"] != "2026-10-05" {
		t.Errorf("Unexpected dates in response: %v", data)
	}
}

func TestSessionDetailEmbedsSections(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)

	session := sessionModel.SessionModel{
		Title:       "Spring 2026 Recruitment",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		CreatedByID: admin.ID,
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
	section := sectionModel.CandidateSectionModel{
		SessionID:   session.ID,
		CandidateID: candidate.ID,
		Title:       "Candidate visit",
	}
	if err := db.Create(&section).Error; err != nil {
		t.Fatalf("Failed to seed section: %v", err)
	}
	slot := timeslotModel.SessionTimeSlotModel{
		CandidateSectionID: section.ID,
		StartTime:          time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		MaxAttendees:       1,
		IsVisible:          true,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("Failed to seed slot: %v", err)
	}

	body, status := doJSON(t, app, "GET",
		"/api/seasons/"+strconv.FormatUint(uint64(session.ID), 10), nil, admin)
	if status != fiber.StatusOK {
		t.Fatalf("Retrieve: expected 200, got %d", status)
	}
	data := body["data"].(map[string]any)
	if data["session"] == nil {
		t.Fatalf("Expected embedded session, got %v", data)
	}
	sections, _ := data["candidate_sections"].([]any)
	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	slots, _ := sections[0].(map[string]any)["time_slots"].([]any)
	if len(slots) != 1 {
		t.Errorf("Expected 1 slot in section, got %d", len(slots))
	}
}

func TestDeleteSession(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)

	session := sessionModel.SessionModel{
		Title:       "Spring 2026 Recruitment",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		CreatedByID: admin.ID,
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
	path := "/api/seasons/" + strconv.FormatUint(uint64(session.ID), 10)

	if _, status := doJSON(t, app, "DELETE", path, nil, admin); status != fiber.StatusNoContent {
		t.Fatalf("Delete: expected 204, got %d", status)
	}
	if _, status := doJSON(t, app, "DELETE", path, nil, admin); status != fiber.StatusNotFound {
		t.Errorf("Repeat delete: expected 404, got %d", status)
	}
}
