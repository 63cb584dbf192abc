package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"focusgarden/internal/modules/session/domain"
	sessionout "focusgarden/internal/modules/session/port/out"
	"focusgarden/internal/platform/markdown"
	"focusgarden/internal/platform/slug"
)

const (
	journalSchemaVersion = 1
	dayIndexName         = "index.md"
)

// VaultJournal writes one markdown note with YAML frontmatter per finished
// session, under <dir>/YYYY/MM/DD, and keeps an index.md per day listing
// them.
type VaultJournal struct {
	dir string
}

func NewVaultJournal(dir string) sessionout.Journal {
	return &VaultJournal{dir: dir}
}

func (j *VaultJournal) Record(_ context.Context, entry domain.JournalEntry) (string, error) {
	date := entry.StartedAt
	dir := filepath.Join(j.dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	kind := "focus"
	if entry.IsBreak {
		kind = "break"
	}
	title := entry.GoalTitle
	if title == "" {
		title = kind
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(title)))

	meta := map[string]any{
		"schema_version":   journalSchemaVersion,
		"id":               entry.ID,
		"kind":             kind,
		"mode":             string(entry.Mode),
		"started_at":       entry.StartedAt.Format(time.RFC3339),
		"completed_at":     entry.CompletedAt.Format(time.RFC3339),
		"duration_minutes": entry.DurationMinutes,
	}
	if entry.GoalRef != "" {
		meta["goal"] = entry.GoalRef
	}
	if entry.PlantVariant != "" {
		meta["plant"] = entry.PlantVariant
	}
	body := fmt.Sprintf("# %s session\n\n- Duration: %d minutes\n", kind, entry.DurationMinutes)
	if entry.GoalTitle != "" {
		body += fmt.Sprintf("- Goal: %s\n", entry.GoalTitle)
	}
	if entry.PlantVariant != "" {
		body += fmt.Sprintf("- Grew: %s %s\n", entry.PlantIcon, entry.PlantVariant)
	}
	rendered, err := markdown.Note{Meta: meta, Body: body}.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	if err := j.updateDayIndex(dir, date); err != nil {
		return path, err
	}
	return path, nil
}

// updateDayIndex regenerates the session list in <day>/index.md from the
// notes in that directory. Text outside the generated block is kept.
func (j *VaultJournal) updateDayIndex(dir string, day time.Time) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read journal day: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == dayIndexName || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	focusMinutes := 0
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read journal note: %w", err)
		}
		note, err := markdown.Parse(string(raw))
		if err != nil {
			// hand-edited notes that no longer parse are skipped
			continue
		}
		kind, _ := note.Meta["kind"].(string)
		minutes, _ := note.Meta["duration_minutes"].(int)
		if kind == "focus" {
			focusMinutes += minutes
		}
		line := fmt.Sprintf("- %s %s %dm [[%s]]", clockOf(name), kind, minutes, strings.TrimSuffix(name, ".md"))
		if plant, ok := note.Meta["plant"].(string); ok && plant != "" {
			line += " " + plant
		}
		lines = append(lines, line)
	}

	indexPath := filepath.Join(dir, dayIndexName)
	index := markdown.Note{Body: "# " + day.Format("Monday, January 2 2006") + "\n"}
	if raw, err := os.ReadFile(indexPath); err == nil {
		if parsed, perr := markdown.Parse(string(raw)); perr == nil {
			index = parsed
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read day index: %w", err)
	}
	if index.Meta == nil {
		index.Meta = map[string]any{}
	}
	index.Meta["date"] = day.Format("2006-01-02")
	index.Meta["sessions"] = len(lines)
	index.Meta["focus_minutes"] = focusMinutes
	index.Body = markdown.ReplaceBlock(index.Body, "sessions", strings.Join(lines, "\n"))

	rendered, err := index.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(indexPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write day index: %w", err)
	}
	return nil
}

// clockOf turns the HHMMSS note prefix into HH:MM.
func clockOf(name string) string {
	if len(name) < 4 {
		return "--:--"
	}
	return name[:2] + ":" + name[2:4]
}
