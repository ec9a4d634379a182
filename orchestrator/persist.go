package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes each evaluation as indented JSON under
// <root>/session_<yyyymmdd>/evaluation_<id>.json.
type FileSink struct {
	Root string
}

func NewFileSink(root string) *FileSink { return &FileSink{Root: root} }

func (s *FileSink) Deliver(_ context.Context, ev Evaluation) error {
	_, err := persist(s.Root, ev)
	return err
}

func mkSessionDir(outputsRoot string, ev Evaluation) (string, error) {
	dir := filepath.Join(outputsRoot, "session_"+ev.CreatedAt.Format("20060102"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func persist(outputsRoot string, ev Evaluation) (string, error) {
	dir, err := mkSessionDir(outputsRoot, ev)
	if err != nil {
		return "", fmt.Errorf("persist %s: %w", ev.ID, err)
	}
	path := filepath.Join(dir, "evaluation_"+ev.ID+".json")
	if err := writeJSON(path, ev); err != nil {
		return "", fmt.Errorf("persist %s: %w", ev.ID, err)
	}
	return path, nil
}
