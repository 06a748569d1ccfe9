package feature

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type featureRecord struct {
	ID       FeatureID
	X, Y     float64
	Type     Type
	Response float64
	Status   TrackStatus
}

func recordsOf(l *List) []featureRecord {
	recs := make([]featureRecord, 0, l.Len())
	for _, f := range l.Features() {
		recs = append(recs, featureRecord{
			ID: f.ID, X: f.X, Y: f.Y, Type: f.Type, Response: f.Response, Status: f.TrackStatus,
		})
	}
	return recs
}

func TestSaveLoadRoundTrip(t *testing.T) {
	l := NewList()
	for i, typ := range []Type{TypeKLT, TypeSIFT, TypeFAST} {
		f := New()
		f.ID = FeatureID(100 + i)
		f.X = 1.25 + float64(i)*0.333333
		f.Y = -9.5 + float64(i)
		f.Type = typ
		f.Response = float64(i) * 0.1
		f.Orientation = 0.7853981633974483
		f.Scale = 1.6
		f.TrackStatus = StatusTracked
		f.SourceImageID = 4
		l.PushBack(f)
	}

	path := filepath.Join(t.TempDir(), "feats.txt")
	require.NoError(t, l.SaveToTextFile(path, false))

	got, err := LoadFromTextFile(path)
	require.NoError(t, err)

	if diff := cmp.Diff(recordsOf(l), recordsOf(got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// Loaded features must be otherwise at their absent state.
	for _, f := range got.Features() {
		if f.HasPatch() {
			t.Error("loaded feature has a patch")
		}
		if _, ok := f.Descriptors.FirstKind(); ok {
			t.Error("loaded feature has descriptors")
		}
	}
}

func TestSaveAppend(t *testing.T) {
	a := NewList()
	a.PushBack(featAt(1, 0, 0))
	b := NewList()
	b.PushBack(featAt(2, 1, 1))

	path := filepath.Join(t.TempDir(), "feats.txt")
	require.NoError(t, a.SaveToTextFile(path, false))
	require.NoError(t, b.SaveToTextFile(path, true))

	got, err := LoadFromTextFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	require.Equal(t, FeatureID(1), got.At(0).ID)
	require.Equal(t, FeatureID(2), got.At(1).ID)
}

func TestLoadMinimalColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feats.txt")
	content := "# comment\n\n12 1.5 -2.5 3 0.25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := LoadFromTextFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())

	f := got.At(0)
	require.Equal(t, FeatureID(12), f.ID)
	require.Equal(t, 1.5, f.X)
	require.Equal(t, -2.5, f.Y)
	require.Equal(t, TypeSIFT, f.Type)
	require.Equal(t, 0.25, f.Response)
	require.Equal(t, StatusIdle, f.TrackStatus)
}

func TestLoadRejectsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feats.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2.0\n"), 0o644))
	_, err := LoadFromTextFile(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("x 1 2 3 4\n"), 0o644))
	_, err = LoadFromTextFile(path)
	require.Error(t, err)
}

func TestMatchedListSaveToTextFile(t *testing.T) {
	m := NewMatchedList()
	m.Append(featAt(1, 1.5, 2.5), featAt(2, 3.5, 4.5))
	m.Append(featAt(3, -1, 0), featAt(4, 0, -1))

	path := filepath.Join(t.TempDir(), "matches.txt")
	require.NoError(t, m.SaveToTextFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []string
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, line)
	}
	require.Equal(t, []string{"1.5 2.5 3.5 4.5", "-1 0 0 -1"}, rows)
}
