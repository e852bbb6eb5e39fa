package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTenantIDLength    = 255
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// NormalizeTenantID trims the tenant id and checks it is usable as an owner key.
func NormalizeTenantID(tenantID string) (string, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return "", NewValidationError("tenant_id", "tenant id is required")
	}
	if utf8.RuneCountInString(tenantID) > MaxTenantIDLength {
		return "", NewValidationError("tenant_id", fmt.Sprintf("tenant id must be %d characters or less", MaxTenantIDLength))
	}
	return tenantID, nil
}

// NormalizeTitle trims the title and checks its length.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", NewValidationError("title", "task title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", NewValidationError("title", fmt.Sprintf("task title must be %d characters or less", MaxTitleLength))
	}
	return title, nil
}

// NormalizeDescription trims the description and checks its length. Empty is allowed.
func NormalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return "", NewValidationError("description", fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	return description, nil
}

// ValidateTaskID requires a positive id.
func ValidateTaskID(id int64) error {
	if id <= 0 {
		return NewValidationError("task_id", "task id must be a positive integer")
	}
	return nil
}

// ParseStatusFilter accepts all, pending or completed. Empty means all.
func ParseStatusFilter(status string) (StatusFilter, error) {
	switch StatusFilter(strings.TrimSpace(status)) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", NewValidationError("status", "status must be one of: all, pending, completed")
}

// NewTaskPatch validates an update request. At least one field must be present;
// present fields are normalized the same way as on create.
func NewTaskPatch(title, description *string) (TaskPatch, error) {
	if title == nil && description == nil {
		return TaskPatch{}, NewValidationError("fields", "at least one field (title or description) is required")
	}

	var patch TaskPatch
	if title != nil {
		t, err := NormalizeTitle(*title)
		if err != nil {
			return TaskPatch{}, err
		}
		patch.Title = &t
	}
	if description != nil {
		d, err := NormalizeDescription(*description)
		if err != nil {
			return TaskPatch{}, err
		}
		patch.Description = &d
	}
	return patch, nil
}

// Apply copies the present patch fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
}
