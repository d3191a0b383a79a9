package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed record from a JSON log file.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]any
}

// FileInfo describes one log file in the log directory.
type FileInfo struct {
	Name     string
	Size     int64
	Modified time.Time
}

// ListFiles returns the log files in dir, newest first.
func ListFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading log directory: %w", err)
	}

	var out []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), FilePrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{Name: e.Name(), Size: info.Size(), Modified: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Modified.After(out[j].Modified) })
	return out, nil
}

// LatestFile returns the path of the most recently modified log file.
func LatestFile(dir string) (string, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no log files in %s", dir)
	}
	return filepath.Join(dir, files[0].Name), nil
}

// ReadFile parses a JSON log file line by line. Lines that are not valid
// JSON records are skipped.
func ReadFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer file.Close()

	var out []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			continue
		}

		var entry Entry
		if s, ok := raw["time"].(string); ok {
			entry.Time, _ = time.Parse(time.RFC3339Nano, s)
		}
		entry.Level, _ = raw["level"].(string)
		entry.Message, _ = raw["msg"].(string)
		delete(raw, "time")
		delete(raw, "level")
		delete(raw, "msg")
		entry.Attrs = raw
		out = append(out, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	return out, nil
}

// Filter returns the entries matching the given level (empty matches all)
// and containing the search text in their message (empty matches all).
func Filter(entries []Entry, level, search string) []Entry {
	var out []Entry
	for _, e := range entries {
		if level != "" && !strings.EqualFold(e.Level, level) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Message), strings.ToLower(search)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Summarize counts entries per level.
func Summarize(entries []Entry) map[string]int {
	out := make(map[string]int)
	for _, e := range entries {
		out[strings.ToUpper(e.Level)]++
	}
	return out
}
