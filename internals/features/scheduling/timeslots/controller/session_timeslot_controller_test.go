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

// setupTestApp wires the controller behind a middleware that trusts the
// X-Test-User / X-Test-Role headers, standing in for the JWT middleware.
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

	ctl := NewSessionTimeSlotController(db)
	slots := app.Group("/api/timeslots")
	slots.Get("/", ctl.List)
	slots.Post("/", ctl.Create)
	slots.Get("/:id", ctl.Retrieve)
	slots.Put("/:id", ctl.Update)
	slots.Delete("/:id", ctl.Delete)
	slots.Post("/:id/register", ctl.Register)
	slots.Post("/:id/unregister", ctl.Unregister)
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

func seedSection(t *testing.T, db *gorm.DB, admin, candidate userModel.UserModel) sectionModel.CandidateSectionModel {
	t.Helper()
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
	return section
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

func TestCreateTimeSlotWindowValidation(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	section := seedSection(t, db, admin, candidate)

	// end before start
	body, status := doJSON(t, app, "POST", "/api/timeslots/", map[string]any{
		"candidate_section": section.ID,
		"start_time":        "2026-03-02T15:00:00Z",
		"end_time":          "2026-03-02T14:00:00Z",
	}, admin)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", status)
	}
	errs, _ := body["errors"].(map[string]any)
	if errs["end_time"] == nil {
		t.Errorf("Expected end_time error, got %v", body["errors"])
	}

	// start before the session opens
	body, status = doJSON(t, app, "POST", "/api/timeslots/", map[string]any{
		"candidate_section": section.ID,
		"start_time":        "2026-02-27T10:00:00Z",
	}, admin)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", status)
	}
	errs, _ = body["errors"].(map[string]any)
	if errs["start_time"] == nil {
		t.Errorf("Expected start_time error, got %v", body["errors"])
	}

	// the session's last day is inside the window
	body, status = doJSON(t, app, "POST", "/api/timeslots/", map[string]any{
		"candidate_section": section.ID,
		"start_time":        "2026-03-05T15:00:00Z",
	}, admin)
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201 on the last session day, got %d: %v", status, body)
	}
}

func TestCreateTimeSlotDefaults(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	section := seedSection(t, db, admin, candidate)

	body, status := doJSON(t, app, "POST", "/api/timeslots/", map[string]any{
		"candidate_section": section.ID,
		"start_time":        "2026-03-02T10:00:00Z",
	}, admin)
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d: %v", status, body)
	}
	data, _ := body["data"].(map[string]any)
	if data["max_attendees"] != float64(1) {
		t.Errorf("Expected default max_attendees 1, got %v", data["max_attendees"])
	}
	if data["is_visible"] != true {
		t.Errorf("Expected default is_visible true, got %v", data["is_visible"])
	}
	if data["available_slots"] != float64(1) || data["is_full"] != false {
		t.Errorf("Expected 1 open seat, got %v / %v", data["available_slots"], data["is_full"])
	}
}

func TestCandidateOwnsSectionForCreate(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	other := seedUser(t, db, "other@example.com", userModel.RoleCandidate)
	section := seedSection(t, db, admin, candidate)

	payload := map[string]any{
		"candidate_section": section.ID,
		"start_time":        "2026-03-02T10:00:00Z",
	}

	_, status := doJSON(t, app, "POST", "/api/timeslots/", payload, candidate)
	if status != fiber.StatusCreated {
		t.Errorf("Owner create: expected 201, got %d", status)
	}
	_, status = doJSON(t, app, "POST", "/api/timeslots/", payload, other)
	if status != fiber.StatusForbidden {
		t.Errorf("Non-owner create: expected 403, got %d", status)
	}
}

func TestRegisterCapacityAndDuplicates(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	facultyA := seedUser(t, db, "faculty.a@example.com", userModel.RoleFaculty)
	facultyB := seedUser(t, db, "faculty.b@example.com", userModel.RoleFaculty)
	section := seedSection(t, db, admin, candidate)

	slot := timeslotModel.SessionTimeSlotModel{
		CandidateSectionID: section.ID,
		StartTime:          time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		MaxAttendees:       1,
		IsVisible:          true,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("Failed to seed slot: %v", err)
	}
	path := "/api/timeslots/" + strconv.FormatUint(uint64(slot.ID), 10) + "/register"

	body, status := doJSON(t, app, "POST", path, nil, facultyA)
	if status != fiber.StatusCreated {
		t.Fatalf("First register: expected 201, got %d: %v", status, body)
	}

	body, status = doJSON(t, app, "POST", path, nil, facultyA)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Duplicate register: expected 400, got %d", status)
	}
	if body["message"] != "Already registered for this time slot" {
		t.Errorf("Duplicate register message: got %v", body["message"])
	}

	body, status = doJSON(t, app, "POST", path, nil, facultyB)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Full slot register: expected 400, got %d", status)
	}
	if body["message"] != "Time slot is full" {
		t.Errorf("Full slot message: got %v", body["message"])
	}

	_, status = doJSON(t, app, "POST", path, nil, candidate)
	if status != fiber.StatusForbidden {
		t.Errorf("Candidate register: expected 403, got %d", status)
	}

	// capacity arithmetic shows up on the detail view
	body, status = doJSON(t, app, "GET",
		"/api/timeslots/"+strconv.FormatUint(uint64(slot.ID), 10), nil, admin)
	if status != fiber.StatusOK {
		t.Fatalf("Retrieve: expected 200, got %d", status)
	}
	data, _ := body["data"].(map[string]any)
	if data["available_slots"] != float64(0) || data["is_full"] != true {
		t.Errorf("Expected full slot, got %v / %v", data["available_slots"], data["is_full"])
	}
}

func TestUnregister(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	faculty := seedUser(t, db, "faculty@example.com", userModel.RoleFaculty)
	section := seedSection(t, db, admin, candidate)

	slot := timeslotModel.SessionTimeSlotModel{
		CandidateSectionID: section.ID,
		StartTime:          time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		MaxAttendees:       2,
		IsVisible:          true,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("Failed to seed slot: %v", err)
	}
	base := "/api/timeslots/" + strconv.FormatUint(uint64(slot.ID), 10)

	if _, status := doJSON(t, app, "POST", base+"/register", nil, faculty); status != fiber.StatusCreated {
		t.Fatalf("Register: expected 201, got %d", status)
	}
	if _, status := doJSON(t, app, "POST", base+"/unregister", nil, faculty); status != fiber.StatusNoContent {
		t.Fatalf("Unregister: expected 204, got %d", status)
	}
	if _, status := doJSON(t, app, "POST", base+"/unregister", nil, faculty); status != fiber.StatusNotFound {
		t.Fatalf("Repeat unregister: expected 404, got %d", status)
	}
}

func TestUpdateTimeSlotKeepsWindowChecks(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	section := seedSection(t, db, admin, candidate)

	slot := timeslotModel.SessionTimeSlotModel{
		CandidateSectionID: section.ID,
		StartTime:          time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		MaxAttendees:       1,
		IsVisible:          true,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("Failed to seed slot: %v", err)
	}
	base := "/api/timeslots/" + strconv.FormatUint(uint64(slot.ID), 10)

	body, status := doJSON(t, app, "PUT", base, map[string]any{
		"start_time": "2026-04-01T10:00:00Z",
	}, admin)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Out-of-window move: expected 400, got %d: %v", status, body)
	}

	body, status = doJSON(t, app, "PUT", base, map[string]any{
		"start_time":    "2026-03-03T09:00:00Z",
		"max_attendees": 4,
	}, admin)
	if status != fiber.StatusOK {
		t.Fatalf("Valid move: expected 200, got %d: %v", status, body)
	}
	data, _ := body["data"].(map[string]any)
	if data["max_attendees"] != float64(4) {
		t.Errorf("Expected max_attendees 4, got %v", data["max_attendees"])
	}
}
