package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "feeportal_backend/internals/features/school/students/model"
)

func TestNewStudentIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewStudentID()
		require.NoError(t, err)
		assert.Regexp(t, `^ST-\d{6}$`, id)
		seen[id] = true
	}
	// random draws, overwhelmingly distinct
	assert.Greater(t, len(seen), 90)
}

func TestExportCSV(t *testing.T) {
	userID := uuid.New()
	students := []model.Student{
		{StudentID: "ST-000123", StudentName: "Asha Verma", StudentClass: "Class 5", StudentParentEmail: "parent@example.com", StudentUserID: &userID},
		{StudentID: "ST-000456", StudentName: "Rahul \"RJ\" Joshi", StudentClass: "Class 7", StudentParentEmail: "rj@example.com"},
	}

	out, err := ExportCSV(students)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student ID,Name,Class,Parent Email,Linked", lines[0])
	assert.Contains(t, lines[1], "ST-000123")
	assert.Contains(t, lines[1], "true")
	// embedded quotes survive encoding
	assert.Contains(t, lines[2], `"Rahul ""RJ"" Joshi"`)
	assert.Contains(t, lines[2], "false")
}

func TestExportCSVEmpty(t *testing.T) {
	out, err := ExportCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Student ID,Name,Class,Parent Email,Linked\n", string(out))
}
