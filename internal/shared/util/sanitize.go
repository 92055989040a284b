package util

import (
	"errors"
	"strings"
)

// SanitizeLeadName turns a lead's display name into a storage-safe folder
// name. Path separators become "-", traversal patterns are rejected.
func SanitizeLeadName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid lead name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	if s == "" {
		return "", errors.New("invalid lead name")
	}
	return s, nil
}

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
