package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Snapshot is the full persisted state of a profile, and the export document.
type Snapshot struct {
	Tasks      []Task    `json:"tasks"`
	Progress   Progress  `json:"progress"`
	Settings   Settings  `json:"settings"`
	ExportedAt time.Time `json:"exportedAt"`
}

// ImportDocument is a possibly partial snapshot. Absent sections keep the current state.
type ImportDocument struct {
	Tasks      *[]Task        `json:"tasks,omitempty"`
	Progress   *ProgressPatch `json:"progress,omitempty"`
	Settings   *SettingsPatch `json:"settings,omitempty"`
	ExportedAt *time.Time     `json:"exportedAt,omitempty"`
}

// DocumentFromSnapshot turns a full snapshot into an import document that replaces everything.
func DocumentFromSnapshot(s Snapshot) ImportDocument {
	tasks := append([]Task(nil), s.Tasks...)
	if tasks == nil {
		tasks = []Task{}
	}
	p := s.Progress
	st := s.Settings
	exported := s.ExportedAt
	return ImportDocument{
		Tasks: &tasks,
		Progress: &ProgressPatch{
			Experience:          &p.Experience,
			Streak:              &p.Streak,
			TotalCompleted:      &p.TotalCompleted,
			DailyGoalAwardedOn:  p.DailyGoalAwardedOn,
			PerfectDayAwardedOn: p.PerfectDayAwardedOn,
		},
		Settings: &SettingsPatch{
			Theme:         &st.Theme,
			ReducedMotion: &st.ReducedMotion,
			HighContrast:  &st.HighContrast,
			Notifications: &st.Notifications,
		},
		ExportedAt: &exported,
	}
}

// DecodeImport parses an import document strictly: unknown fields are rejected.
func DecodeImport(r io.Reader) (ImportDocument, error) {
	var doc ImportDocument
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return ImportDocument{}, WrapError(ErrCodeInvalid, "decode import document", err)
	}
	return doc, nil
}

// DecodeImportBytes is DecodeImport over a byte slice.
func DecodeImportBytes(data []byte) (ImportDocument, error) {
	return DecodeImport(bytes.NewReader(data))
}

// ValidateTasks checks every task and id uniqueness.
func ValidateTasks(tasks []Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[tasks[i].ID]; dup {
			return WrapError(ErrCodeInvalid, fmt.Sprintf("task id %s appears twice", tasks[i].ID), ErrDuplicateTaskID)
		}
		seen[tasks[i].ID] = struct{}{}
	}
	return nil
}
