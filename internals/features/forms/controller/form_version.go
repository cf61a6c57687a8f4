package controller

import (
	"encoding/json"
	"sort"
	"strconv"

	"gorm.io/datatypes"

	formModel "csmanager_backend/internals/features/forms/model"
)

type fieldSnapshot struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

type formVersion struct {
	Fields map[string]fieldSnapshot `json:"fields"`
}

// buildFormVersion freezes the form's current field set. It is captured once,
// on first save of a submission, and never recomputed.
func buildFormVersion(fields []formModel.FormFieldModel) (datatypes.JSON, error) {
	v := formVersion{Fields: make(map[string]fieldSnapshot, len(fields))}
	for _, f := range fields {
		v.Fields[strconv.FormatUint(uint64(f.ID), 10)] = fieldSnapshot{
			Type:     f.Type,
			Label:    f.Label,
			Required: f.Required,
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// remapAnswers re-keys stored answers onto the form's current field ids by
// matching (label, type) against the frozen snapshot. Current fields with no
// structural match are omitted. When several fields share a (label, type)
// pair, snapshot entries are consumed in ascending original-field-id order so
// the mapping is deterministic.
func remapAnswers(versionJSON, answersJSON datatypes.JSON, current []formModel.FormFieldModel) map[string]any {
	out := map[string]any{}

	var stored map[string]any
	if len(answersJSON) > 0 {
		_ = json.Unmarshal(answersJSON, &stored)
	}
	if len(stored) == 0 {
		return out
	}

	var version formVersion
	if len(versionJSON) > 0 {
		_ = json.Unmarshal(versionJSON, &version)
	}
	if len(version.Fields) == 0 {
		// no snapshot recorded; present answers as stored
		return stored
	}

	type snapEntry struct {
		id   uint64
		key  string
		snap fieldSnapshot
	}
	entries := make([]snapEntry, 0, len(version.Fields))
	for key, snap := range version.Fields {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, snapEntry{id: id, key: key, snap: snap})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	fields := make([]formModel.FormFieldModel, len(current))
	copy(fields, current)
	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })

	consumed := make(map[string]bool, len(entries))
	for _, f := range fields {
		for _, e := range entries {
			if consumed[e.key] {
				continue
			}
			if e.snap.Label != f.Label || e.snap.Type != f.Type {
				continue
			}
			if ans, ok := stored[e.key]; ok {
				out[strconv.FormatUint(uint64(f.ID), 10)] = ans
			}
			consumed[e.key] = true
			break
		}
	}
	return out
}

// decodeVersion returns the snapshot as a plain value for responses.
func decodeVersion(versionJSON datatypes.JSON) any {
	if len(versionJSON) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(versionJSON, &v); err != nil {
		return nil
	}
	return v
}
