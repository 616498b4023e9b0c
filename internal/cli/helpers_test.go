package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-register/internal/models"
	"github.com/noah-isme/attendance-register/internal/repository"
)

// seedFileBackend points the file backend at a temp dir holding two
// students and their records for today.
func seedFileBackend(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_DIR", dir)
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "exports"))
	t.Setenv("TIMEZONE", "UTC")

	today := time.Now().UTC().Format(models.AttendanceDateLayout)
	students := []models.Student{
		{ID: 1, Name: "Ada", RollNumber: "R1", Class: "A", Email: "a@x.com"},
		{ID: 2, Name: "Grace", RollNumber: "R2", Class: "B", Email: "g@x.com"},
		{ID: 3, Name: "Linus", RollNumber: "R3", Class: "B", Email: "l@x.com"},
	}
	records := []models.AttendanceRecord{
		{ID: 10, StudentID: 1, StudentName: "Ada", RollNumber: "R1", Class: "A", Date: today, Status: models.AttendanceStatusPresent},
		{ID: 11, StudentID: 2, StudentName: "Grace", RollNumber: "R2", Class: "B", Date: today, Status: models.AttendanceStatusLate},
		{ID: 12, StudentID: 3, StudentName: "Linus", RollNumber: "R3", Class: "B", Date: today, Status: models.AttendanceStatusAbsent},
	}
	writeJSON(t, filepath.Join(dir, repository.StudentsKey+".json"), students)
	writeJSON(t, filepath.Join(dir, repository.AttendanceRecordsKey+".json"), records)
	return dir
}

func writeJSON(t *testing.T, path string, value interface{}) {
	t.Helper()
	payload, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
