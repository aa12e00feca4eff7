// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strconv"

// =============================================================================
// IDENTITY
// =============================================================================

// ID is the server-assigned key of an analysis record. It is unique and stable
// for the lifetime of the record.
type ID int64

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal record id.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

// =============================================================================
// STATUS
// =============================================================================

// Status is the lifecycle state of an analysis. The service may send values
// outside the known constants; those are kept verbatim and treated as
// terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// String returns the raw status value.
func (s Status) String() string {
	return string(s)
}

// IsUnsettled reports whether the record is still waiting for a result.
func (s Status) IsUnsettled() bool {
	return s == StatusPending || s == StatusProcessing
}

// IsKnown reports whether s is one of the four documented statuses.
func (s Status) IsKnown() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// =============================================================================
// ANALYSIS RECORD
// =============================================================================

// AnalysisRecord is one code submission as returned by the service.
type AnalysisRecord struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	CodeContent string     `json:"code_content"`
	Language    string     `json:"language"`
	Status      Status     `json:"status"`
	Result      *string    `json:"result"`
	CreatedAt   Timestamp  `json:"created_at"`
	CompletedAt *Timestamp `json:"completed_at,omitempty"`
	OwnerID     int64      `json:"owner_id,omitempty"`
}

// ResultText returns the report text, or "" when the service sent null.
func (r AnalysisRecord) ResultText() string {
	if r.Result == nil {
		return ""
	}
	return *r.Result
}

// HasUnsettled reports whether any record in list is pending or processing.
func HasUnsettled(list []AnalysisRecord) bool {
	for _, r := range list {
		if r.Status.IsUnsettled() {
			return true
		}
	}
	return false
}

// FindByID returns the index of the record with the given id, or -1.
func FindByID(list []AnalysisRecord, id ID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// StringPtr is a convenience for building records with a non-null result.
func StringPtr(s string) *string {
	return &s
}
