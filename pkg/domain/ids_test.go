package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "registrar/pkg/domain-errors"
)

// TestParseIDs_Invariants validates the identifier formats enforced at trust
// boundaries.
func TestParseIDs_Invariants(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) error
		valid []string
		bad   []string
	}{
		{
			name:  "student",
			parse: func(s string) error { _, err := ParseStudentID(s); return err },
			valid: []string{"STU1234567", "STU0000000"},
			bad:   []string{"", "STU123456", "stu1234567", "STU12345678", "XYZ1234567"},
		},
		{
			name:  "course",
			parse: func(s string) error { _, err := ParseCourseID(s); return err },
			valid: []string{"CS123", "MATH234", "ENG3456", "PHYS456"},
			bad:   []string{"", "C123", "CS12", "CS12345", "cs123", "CHEMI123"},
		},
		{
			name:  "semester",
			parse: func(s string) error { _, err := ParseSemesterID(s); return err },
			valid: []string{"2024-Spring", "2025-Summer", "1999-Fall"},
			bad:   []string{"", "2024-Winter", "24-Spring", "2024Spring", "2024-spring"},
		},
		{
			name:  "instructor",
			parse: func(s string) error { _, err := ParseInstructorID(s); return err },
			valid: []string{"INST123456"},
			bad:   []string{"", "INST12345", "inst123456"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.valid {
				assert.NoError(t, tt.parse(v), "expected %q to be accepted", v)
			}
			for _, v := range tt.bad {
				err := tt.parse(v)
				require.Error(t, err, "expected %q to be rejected", v)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			}
		})
	}
}

func TestParseCreditUnit(t *testing.T) {
	t.Run("accepts bounds and half steps", func(t *testing.T) {
		for _, v := range []float64{0, 0.5, 2, 9.5, 10} {
			c, err := ParseCreditUnit(v)
			require.NoError(t, err)
			assert.Equal(t, v, c.Float())
		}
	})

	t.Run("rejects out of range or uneven values", func(t *testing.T) {
		for _, v := range []float64{-1, 10.5, 24, 0.25, 3.3} {
			_, err := ParseCreditUnit(v)
			require.Error(t, err, "expected %v to be rejected", v)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("must panics on invalid input", func(t *testing.T) {
		assert.Panics(t, func() { MustCreditUnit(11) })
	})
}
