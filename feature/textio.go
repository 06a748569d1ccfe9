package feature

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Text persistence for feature and matched-pair lists. One record per line,
// whitespace separated; lines starting with '#' are comments. Floats are
// written with %g so a save/load round trip reproduces ids, positions and
// types exactly, in insertion order.

const featureFileHeader = "# id x y type response orientation scale track_status source_image"

// SaveToTextFile writes the list, one feature per line, creating or
// truncating the file unless appendTo is set.
func (l *List) SaveToTextFile(path string, appendTo bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("save feature list: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if !appendTo {
		fmt.Fprintln(w, featureFileHeader)
	}
	for _, f := range l.feats {
		if f == nil {
			continue
		}
		fmt.Fprintf(w, "%d %g %g %d %g %g %g %d %d\n",
			f.ID, f.X, f.Y, int(f.Type), f.Response, f.Orientation, f.Scale,
			int(f.TrackStatus), f.SourceImageID)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("save feature list: %w", err)
	}
	return nil
}

// LoadFromTextFile reads a feature list previously written by SaveToTextFile.
// Each record carries at least id, x, y, type and response; the remaining
// columns are optional and default when absent. All other feature fields
// (patch, descriptors) are left at their absent state.
func LoadFromTextFile(path string) (*List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load feature list: %w", err)
	}
	defer file.Close()

	list := NewList()
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f, err := parseFeatureRecord(line)
		if err != nil {
			return nil, fmt.Errorf("load feature list: line %d: %w", lineNo, err)
		}
		list.PushBack(f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load feature list: %w", err)
	}
	return list, nil
}

func parseFeatureRecord(line string) (*Feature, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return nil, fmt.Errorf("want at least 5 columns, got %d", len(fields))
	}

	f := New()

	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id %q: %w", fields[0], err)
	}
	f.ID = FeatureID(id)

	if f.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return nil, fmt.Errorf("x %q: %w", fields[1], err)
	}
	if f.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return nil, fmt.Errorf("y %q: %w", fields[2], err)
	}

	typ, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", fields[3], err)
	}
	f.Type = Type(typ)

	if f.Response, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return nil, fmt.Errorf("response %q: %w", fields[4], err)
	}

	if len(fields) > 5 {
		if f.Orientation, err = strconv.ParseFloat(fields[5], 64); err != nil {
			return nil, fmt.Errorf("orientation %q: %w", fields[5], err)
		}
	}
	if len(fields) > 6 {
		if f.Scale, err = strconv.ParseFloat(fields[6], 64); err != nil {
			return nil, fmt.Errorf("scale %q: %w", fields[6], err)
		}
	}
	if len(fields) > 7 {
		status, err := strconv.Atoi(fields[7])
		if err != nil {
			return nil, fmt.Errorf("track status %q: %w", fields[7], err)
		}
		f.TrackStatus = TrackStatus(status)
	}
	if len(fields) > 8 {
		if f.SourceImageID, err = strconv.Atoi(fields[8]); err != nil {
			return nil, fmt.Errorf("source image %q: %w", fields[8], err)
		}
	}
	return f, nil
}

// SaveToTextFile writes one coordinate-pair record per match: x1 y1 x2 y2,
// in insertion order.
func (m *MatchedList) SaveToTextFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save matched list: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "# x1 y1 x2 y2")
	for _, match := range m.matches {
		if match.First == nil || match.Second == nil {
			continue
		}
		fmt.Fprintf(w, "%g %g %g %g\n", match.First.X, match.First.Y, match.Second.X, match.Second.Y)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("save matched list: %w", err)
	}
	return nil
}
