// Package models contains the domain entities shared across layers.
package models

import "time"

// Priority is the classification tier assigned to a work item.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// SourceKind identifies which adapter produced a candidate.
type SourceKind string

const (
	SourceFilesystem SourceKind = "filesystem"
	SourceMailbox    SourceKind = "mailbox"
)

// Stage is one step in the fixed pipeline a work item passes through.
// A stage is represented by the item's directory inside the vault, not
// by a field on the record, so stage membership is always derived from
// the filesystem.
type Stage string

const (
	StageIntake          Stage = "Inbox"
	StageNeedsAction     Stage = "Needs_Action"
	StageInProgress      Stage = "In_Progress"
	StagePendingApproval Stage = "Pending_Approval"
	StageApproved        Stage = "Approved"
	StageDone            Stage = "Done"
)

// Stages lists all pipeline stages in order.
var Stages = []Stage{
	StageIntake,
	StageNeedsAction,
	StageInProgress,
	StagePendingApproval,
	StageApproved,
	StageDone,
}

// ItemMeta is the structured frontmatter of a materialized work item.
// Extra carries the source-specific fields (mail headers, file stats).
type ItemMeta struct {
	Type       string            `yaml:"type"`
	Source     string            `yaml:"source"`
	Priority   string            `yaml:"priority"`
	Status     string            `yaml:"status"`
	Created    string            `yaml:"created"`
	Identifier string            `yaml:"identifier"`
	Extra      map[string]string `yaml:",inline,omitempty"`
}

// WorkItem is the durable unit of work derived from one external event.
type WorkItem struct {
	ID        string
	Source    SourceKind
	Priority  Priority
	Title     string
	Meta      ItemMeta
	Body      string
	Stage     Stage
	Path      string
	CreatedAt time.Time
}
