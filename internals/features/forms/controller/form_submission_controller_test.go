package controller

import (
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	formModel "csmanager_backend/internals/features/forms/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

func seedAssignedForm(t *testing.T, db *gorm.DB, admin, assignee userModel.UserModel, fields ...formModel.FormFieldModel) (formModel.FormModel, []formModel.FormFieldModel) {
	t.Helper()
	form := formModel.FormModel{Title: "Candidate intake", IsActive: true, CreatedByID: admin.ID}
	if err := db.Create(&form).Error; err != nil {
		t.Fatalf("Failed to seed form: %v", err)
	}
	out := make([]formModel.FormFieldModel, 0, len(fields))
	for _, f := range fields {
		f.FormID = form.ID
		if err := db.Create(&f).Error; err != nil {
			t.Fatalf("Failed to seed field %q: %v", f.Label, err)
		}
		out = append(out, f)
	}
	if err := db.Create(&formModel.FormAssignmentModel{FormID: form.ID, UserID: assignee.ID}).Error; err != nil {
		t.Fatalf("Failed to seed assignment: %v", err)
	}
	return form, out
}

func fieldKey(f formModel.FormFieldModel) string {
	return strconv.FormatUint(uint64(f.ID), 10)
}

func TestSubmissionRequiresAssignment(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	assignee := seedUser(t, db, "assignee@example.com", userModel.RoleCandidate)
	outsider := seedUser(t, db, "outsider@example.com", userModel.RoleCandidate)
	form, _ := seedAssignedForm(t, db, admin, assignee)

	body, status := doJSON(t, app, "POST", "/api/form-submissions/", map[string]any{
		"form": form.ID,
	}, outsider)
	if status != fiber.StatusForbidden {
		t.Fatalf("Expected 403, got %d: %v", status, body)
	}
	if body["message"] != "You are not assigned to this form" {
		t.Errorf("Unexpected message: %v", body["message"])
	}
}

func TestSubmissionAnswerValidation(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	form, fields := seedAssignedForm(t, db, admin, candidate,
		formModel.FormFieldModel{Type: formModel.FieldTypeText, Label: "Talk title", Required: true},
		formModel.FormFieldModel{Type: formModel.FieldTypeDateRange, Label: "Visit window"},
	)
	titleKey := fieldKey(fields[0])
	rangeKey := fieldKey(fields[1])

	// missing required answer, keyed by field id
	body, status := doJSON(t, app, "POST", "/api/form-submissions/", map[string]any{
		"form":    form.ID,
		"answers": map[string]any{},
	}, candidate)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Missing required: expected 400, got %d: %v", status, body)
	}
	errs, _ := body["errors"].(map[string]any)
	if errs[titleKey] == nil {
		t.Errorf("Expected error keyed %q, got %v", titleKey, body["errors"])
	}

	// malformed date range
	body, status = doJSON(t, app, "POST", "/api/form-submissions/", map[string]any{
		"form": form.ID,
		"answers": map[string]any{
			titleKey: "Systems at scale",
			rangeKey: map[string]any{"startDate": "2026-03-04", "endDate": "not-a-date"},
		},
	}, candidate)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Bad date range: expected 400, got %d", status)
	}
	errs, _ = body["errors"].(map[string]any)
	if errs[rangeKey] == nil {
		t.Errorf("Expected error keyed %q, got %v", rangeKey, body["errors"])
	}

	// startDate after endDate
	body, status = doJSON(t, app, "POST", "/api/form-submissions/", map[string]any{
		"form": form.ID,
		"answers": map[string]any{
			titleKey: "Systems at scale",
			rangeKey: map[string]any{"startDate": "2026-03-05", "endDate": "2026-03-04"},
		},
	}, candidate)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Inverted range: expected 400, got %d", status)
	}

	// valid
	body, status = doJSON(t, app, "POST", "/api/form-submissions/", map[string]any{
		"form": form.ID,
		"answers": map[string]any{
			titleKey: "Systems at scale",
			rangeKey: map[string]any{"startDate": "2026-03-04", "endDate": "2026-03-05"},
		},
	}, candidate)
	if status != fiber.StatusCreated {
		t.Fatalf("Valid submission: expected 201, got %d: %v", status, body)
	}
}

func TestDuplicateCompletedSubmission(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	form, _ := seedAssignedForm(t, db, admin, candidate)

	payload := map[string]any{"form": form.ID, "is_completed": true}
	if _, status := doJSON(t, app, "POST", "/api/form-submissions/", payload, candidate); status != fiber.StatusCreated {
		t.Fatalf("First submission: expected 201, got %d", status)
	}
	body, status := doJSON(t, app, "POST", "/api/form-submissions/", payload, candidate)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Second submission: expected 400, got %d", status)
	}
	if body["message"] != "You have already submitted this form" {
		t.Errorf("Unexpected message: %v", body["message"])
	}

	// a draft alongside a completed one stays allowed until it completes
	draft := map[string]any{"form": form.ID}
	body, status = doJSON(t, app, "POST", "/api/form-submissions/", draft, candidate)
	if status != fiber.StatusCreated {
		t.Fatalf("Draft: expected 201, got %d", status)
	}
	draftID := uint((body["data"].(map[string]any))["id"].(float64))
	_, status = doJSON(t, app, "PUT",
		"/api/form-submissions/"+strconv.FormatUint(uint64(draftID), 10),
		map[string]any{"is_completed": true}, candidate)
	if status != fiber.StatusBadRequest {
		t.Errorf("Completing a second submission: expected 400, got %d", status)
	}
}

func TestSubmissionVersionFreezeAndRemap(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	form, fields := seedAssignedForm(t, db, admin, candidate,
		formModel.FormFieldModel{Type: formModel.FieldTypeText, Label: "Talk title"},
		formModel.FormFieldModel{Type: formModel.FieldTypeText, Label: "Biography"},
	)
	titleKey := fieldKey(fields[0])
	bioKey := fieldKey(fields[1])

	body, status := doJSON(t, app, "POST", "/api/form-submissions/", map[string]any{
		"form": form.ID,
		"answers": map[string]any{
			titleKey: "Systems at scale",
			bioKey:   "Short bio",
		},
		"is_completed": true,
	}, candidate)
	if status != fiber.StatusCreated {
		t.Fatalf("Submit: expected 201, got %d: %v", status, body)
	}
	subID := uint((body["data"].(map[string]any))["id"].(float64))
	subPath := "/api/form-submissions/" + strconv.FormatUint(uint64(subID), 10)

	// the form is edited after submission: the title field is recreated under
	// a new id with the same label and type, the biography field is renamed
	if err := db.Delete(&formModel.FormFieldModel{}, fields[0].ID).Error; err != nil {
		t.Fatalf("Failed to drop field: %v", err)
	}
	recreated := formModel.FormFieldModel{FormID: form.ID, Type: formModel.FieldTypeText, Label: "Talk title"}
	if err := db.Create(&recreated).Error; err != nil {
		t.Fatalf("Failed to recreate field: %v", err)
	}
	if err := db.Model(&formModel.FormFieldModel{}).
		Where("id = ?", fields[1].ID).Update("label", "Research statement").Error; err != nil {
		t.Fatalf("Failed to rename field: %v", err)
	}

	body, status = doJSON(t, app, "GET", subPath, nil, candidate)
	if status != fiber.StatusOK {
		t.Fatalf("Retrieve: expected 200, got %d", status)
	}
	answers := body["data"].(map[string]any)["answers"].(map[string]any)

	newKey := fieldKey(recreated)
	if answers[newKey] != "Systems at scale" {
		t.Errorf("Expected title answer remapped onto %q, got %v", newKey, answers)
	}
	// the renamed field no longer matches its snapshot entry
	if _, ok := answers[bioKey]; ok {
		t.Errorf("Expected renamed field's answer omitted, got %v", answers)
	}

	// the snapshot keeps the original labels even after an answer update
	body, status = doJSON(t, app, "PUT", subPath, map[string]any{
		"answers": map[string]any{newKey: "Systems at even larger scale"},
	}, candidate)
	if status != fiber.StatusOK {
		t.Fatalf("Update answers: expected 200, got %d: %v", status, body)
	}
	version := body["data"].(map[string]any)["form_version"].(map[string]any)
	snapFields := version["fields"].(map[string]any)
	if _, ok := snapFields[titleKey]; !ok {
		t.Errorf("Expected frozen snapshot to keep field %q, got %v", titleKey, snapFields)
	}
	if _, ok := snapFields[newKey]; ok {
		t.Errorf("Snapshot must not be recomputed; found new field %q in %v", newKey, snapFields)
	}
}

func TestSubmissionScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)
	admin := seedUser(t, db, "admin@example.com", userModel.RoleAdmin)
	candidate := seedUser(t, db, "candidate@example.com", userModel.RoleCandidate)
	other := seedUser(t, db, "other@example.com", userModel.RoleCandidate)
	form, _ := seedAssignedForm(t, db, admin, candidate)

	body, status := doJSON(t, app, "POST", "/api/form-submissions/", map[string]any{
		"form": form.ID,
	}, candidate)
	if status != fiber.StatusCreated {
		t.Fatalf("Submit: expected 201, got %d", status)
	}
	subID := uint((body["data"].(map[string]any))["id"].(float64))
	subPath := "/api/form-submissions/" + strconv.FormatUint(uint64(subID), 10)

	if _, status := doJSON(t, app, "GET", subPath, nil, other); status != fiber.StatusNotFound {
		t.Errorf("Foreign retrieve: expected 404, got %d", status)
	}
	if _, status := doJSON(t, app, "GET", subPath, nil, admin); status != fiber.StatusOK {
		t.Errorf("Admin retrieve: expected 200, got %d", status)
	}

	body, status = doJSON(t, app, "GET", "/api/form-submissions/", nil, other)
	if status != fiber.StatusOK {
		t.Fatalf("List: expected 200, got %d", status)
	}
	if rows, _ := body["data"].([]any); len(rows) != 0 {
		t.Errorf("Expected empty list for non-owner, got %d rows", len(rows))
	}
}
