// Package app contains the application services implementing the
// primary ports.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/warden/internal/core/classify"
	"github.com/example/warden/internal/core/itemname"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

// IngestServiceImpl is the single per-candidate handling path. Both poll
// and push delivery converge here, so dedup, classification and
// materialization behave identically regardless of how a candidate
// arrived.
type IngestServiceImpl struct {
	ledger   secondary.Ledger
	stages   secondary.StageStore
	reporter secondary.Reporter
	dryRun   bool
}

// NewIngestService creates the ingest service.
func NewIngestService(ledger secondary.Ledger, stages secondary.StageStore, reporter secondary.Reporter, dryRun bool) *IngestServiceImpl {
	return &IngestServiceImpl{
		ledger:   ledger,
		stages:   stages,
		reporter: reporter,
		dryRun:   dryRun,
	}
}

// HandleCandidate runs one candidate through dedup, classification and
// materialization. The record (and payload, for file drops) is durably
// written before the identifier is admitted to the ledger, so a crash
// between the two re-materializes on the next pass instead of silently
// dropping the event.
func (s *IngestServiceImpl) HandleCandidate(ctx context.Context, cand models.Candidate) (*primary.IngestResult, error) {
	if cand.ID == "" {
		return nil, fmt.Errorf("candidate has no identifier")
	}

	if s.ledger.Contains(cand.ID) {
		return &primary.IngestResult{Outcome: primary.IngestDuplicate, Identifier: cand.ID}, nil
	}

	rec, priority, err := s.buildRecord(cand)
	if err != nil {
		return nil, err
	}

	if s.dryRun {
		s.reporter.Infof("[DRY RUN] Would create: %s (priority: %s)", rec.Name, priority)
		return &primary.IngestResult{
			Outcome:    primary.IngestDryRun,
			Identifier: cand.ID,
			Priority:   priority,
		}, nil
	}

	recordPath, err := s.stages.Publish(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to publish record: %w", err)
	}

	if cand.Source == models.SourceFilesystem {
		if _, err := s.stages.StashPayload(cand.Path); err != nil {
			return nil, fmt.Errorf("failed to stash payload for %s: %w", cand.Path, err)
		}
	}

	if err := s.ledger.Admit(cand.ID); err != nil {
		s.reporter.Warnf("ledger admit for %s: %v", cand.ID, err)
	}

	s.reporter.Infof("Created action file: %s", recordPath)
	return &primary.IngestResult{
		Outcome:    primary.IngestMaterialized,
		Identifier: cand.ID,
		Priority:   priority,
		RecordPath: recordPath,
	}, nil
}

func (s *IngestServiceImpl) buildRecord(cand models.Candidate) (*secondary.ItemRecord, models.Priority, error) {
	switch cand.Source {
	case models.SourceFilesystem:
		return s.buildFileRecord(cand)
	case models.SourceMailbox:
		return s.buildMailRecord(cand)
	default:
		return nil, "", fmt.Errorf("unknown candidate source: %s", cand.Source)
	}
}

func (s *IngestServiceImpl) buildFileRecord(cand models.Candidate) (*secondary.ItemRecord, models.Priority, error) {
	info, err := os.Stat(cand.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat %s: %w", cand.Path, err)
	}

	name := filepath.Base(cand.Path)
	ext := strings.ToLower(filepath.Ext(name))
	fileType, category := FileKind(ext)
	size := HumanSize(info.Size())
	now := time.Now()

	priority := classify.Classify(name + " " + fileType)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	meta := models.ItemMeta{
		Type:       "file_drop",
		Source:     string(models.SourceFilesystem),
		Priority:   string(priority),
		Status:     "pending",
		Created:    now.Format(time.RFC3339),
		Identifier: cand.ID,
		Extra: map[string]string{
			"original_name": name,
			"file_type":     fileType,
			"file_category": category,
			"size":          fmt.Sprintf("%s (%d bytes)", size, info.Size()),
			"extension":     ext,
			"modified":      info.ModTime().Format(time.RFC3339),
		},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# File Drop: %s\n\n", name)
	b.WriteString("## File Information\n\n")
	b.WriteString("| Property | Value |\n|----------|-------|\n")
	fmt.Fprintf(&b, "| **Type** | %s |\n", fileType)
	fmt.Fprintf(&b, "| **Category** | %s |\n", category)
	fmt.Fprintf(&b, "| **Size** | %s |\n", size)
	fmt.Fprintf(&b, "| **Modified** | %s |\n\n", info.ModTime().Format(time.RFC3339))
	fmt.Fprintf(&b, "## Priority\n%s\n\n---\n\n", strings.ToUpper(string(priority)))
	fmt.Fprintf(&b, "## Location\n\n**Source:** `%s`\n\n---\n\n", cand.Path)
	b.WriteString(suggestedFileActions(category))

	return &secondary.ItemRecord{
		Name: itemname.RecordName("FILE", stem, now),
		Meta: meta,
		Body: b.String(),
	}, priority, nil
}

func (s *IngestServiceImpl) buildMailRecord(cand models.Candidate) (*secondary.ItemRecord, models.Priority, error) {
	from := headerOr(cand.Headers, "From", "Unknown")
	subject := headerOr(cand.Headers, "Subject", "No Subject")
	date := headerOr(cand.Headers, "Date", "")
	to := headerOr(cand.Headers, "To", "")
	now := time.Now()

	priority := classify.Classify(subject + " " + cand.Snippet)

	meta := models.ItemMeta{
		Type:       "email",
		Source:     string(models.SourceMailbox),
		Priority:   string(priority),
		Status:     "pending",
		Created:    now.Format(time.RFC3339),
		Identifier: cand.ID,
		Extra: map[string]string{
			"from":    from,
			"to":      to,
			"subject": subject,
		},
	}
	if date != "" {
		meta.Extra["original_date"] = date
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Email: %s\n\n", subject)
	fmt.Fprintf(&b, "## Sender\n**From:** %s\n\n", from)
	if date != "" {
		fmt.Fprintf(&b, "## Received\n%s\n\n", date)
	}
	fmt.Fprintf(&b, "## Priority\n%s\n\n---\n\n", strings.ToUpper(string(priority)))
	fmt.Fprintf(&b, "## Content\n\n%s\n\n---\n\n", cand.Snippet)
	b.WriteString("## Suggested Actions\n\n" +
		"- [ ] Read full email and understand request\n" +
		"- [ ] Draft reply (requires approval before sending)\n" +
		"- [ ] Forward to relevant party (if needed)\n" +
		"- [ ] Archive after processing\n")

	label := itemname.Truncate(subject, 50)

	return &secondary.ItemRecord{
		Name: itemname.RecordName("EMAIL", label, now),
		Meta: meta,
		Body: b.String(),
	}, priority, nil
}

func headerOr(headers map[string]string, key, fallback string) string {
	if v, ok := headers[key]; ok && v != "" {
		return v
	}
	return fallback
}

func suggestedFileActions(category string) string {
	var items []string
	switch category {
	case "document":
		items = []string{
			"Read and summarize content",
			"Extract key information",
			"Identify required actions",
		}
	case "spreadsheet":
		items = []string{
			"Review data contents",
			"Update accounting records (if financial)",
			"Extract relevant metrics",
		}
	case "image":
		items = []string{
			"Review image content",
			"Extract text (OCR) if needed",
		}
	default:
		items = []string{
			"Review file contents",
			"Determine appropriate handling",
		}
	}
	items = append(items, "Archive after processing")

	var b strings.Builder
	b.WriteString("## Suggested Actions\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- [ ] %s\n", it)
	}
	return b.String()
}

// FileKind maps a lowercase file extension to a human-readable type and
// a coarse category used for suggested actions.
func FileKind(ext string) (fileType, category string) {
	switch ext {
	case ".pdf":
		return "PDF Document", "document"
	case ".doc", ".docx":
		return "Word Document", "document"
	case ".txt":
		return "Text File", "document"
	case ".md":
		return "Markdown File", "document"
	case ".xls", ".xlsx":
		return "Excel Spreadsheet", "spreadsheet"
	case ".csv":
		return "CSV File", "spreadsheet"
	case ".jpg", ".jpeg":
		return "JPEG Image", "image"
	case ".png":
		return "PNG Image", "image"
	case ".gif":
		return "GIF Image", "image"
	case ".zip":
		return "ZIP Archive", "archive"
	case ".rar":
		return "RAR Archive", "archive"
	case ".7z":
		return "7-Zip Archive", "archive"
	case ".mp3":
		return "MP3 Audio", "media"
	case ".mp4":
		return "MP4 Video", "media"
	case ".wav":
		return "WAV Audio", "media"
	default:
		return "unknown", "other"
	}
}

// HumanSize formats a byte count the way the record body displays it.
func HumanSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

// Ensure IngestServiceImpl implements the interface
var _ primary.IngestService = (*IngestServiceImpl)(nil)
