package service

import (
	"bytes"
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"math/big"
	"strconv"

	model "feeportal_backend/internals/features/school/students/model"
)

// NewStudentID draws a fresh ST-NNNNNN identifier. Collisions are left
// to the primary key; callers retry on a unique violation.
func NewStudentID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate student id: %w", err)
	}
	return fmt.Sprintf("ST-%06d", n.Int64()), nil
}

// ExportCSV renders the enrollment register the way the admin download
// expects it: a header row, then one row per student.
func ExportCSV(students []model.Student) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Student ID", "Name", "Class", "Parent Email", "Linked"}); err != nil {
		return nil, err
	}
	for i := range students {
		s := &students[i]
		row := []string{
			s.StudentID,
			s.StudentName,
			s.StudentClass,
			s.StudentParentEmail,
			strconv.FormatBool(s.IsLinked()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
