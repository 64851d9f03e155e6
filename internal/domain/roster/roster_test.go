package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() Slice {
	return Slice{
		{FullName: "QUISPE HUAMAN MARIA FERNANDA", Grade: "1er grado", Code: "10000001", EnrollmentFeePending: true, PendingInstallments: 2},
		{FullName: "TORRES VEGA ANA SOFIA", Grade: "2do grado", Code: " 10000003 "},
		{FullName: "MAMANI ROJAS PEDRO", Grade: "3er grado", Code: "10000001"},
	}
}

func TestFindByCode(t *testing.T) {
	r := testRoster()

	student, err := FindByCode(r, "10000001")
	require.NoError(t, err)
	assert.Equal(t, "QUISPE HUAMAN MARIA FERNANDA", student.FullName)

	_, err = FindByCode(r, "99999999")
	assert.ErrorIs(t, err, ErrStudentNotFound)

	_, err = FindByCode(r, "   ")
	assert.ErrorIs(t, err, ErrEmptyCode)
}

func TestFindByCodeIgnoresSurroundingWhitespace(t *testing.T) {
	r := testRoster()

	// Whitespace on the query side.
	student, err := FindByCode(r, "  10000001\t")
	require.NoError(t, err)
	assert.Equal(t, "10000001", student.Code)

	// Whitespace on the stored side, typical of hand-edited class lists.
	student, err = FindByCode(r, "10000003")
	require.NoError(t, err)
	assert.Equal(t, "TORRES VEGA ANA SOFIA", student.FullName)
}

func TestFindByCodeDuplicateKeepsFirst(t *testing.T) {
	student, err := FindByCode(testRoster(), "10000001")
	require.NoError(t, err)
	assert.Equal(t, "1er grado", student.Grade)
}

func TestPendingPayments(t *testing.T) {
	costs := Costs{Enrollment: 300, MonthlyInstallment: 150}

	summary := PendingPayments(Student{EnrollmentFeePending: true, PendingInstallments: 2}, costs)
	assert.True(t, summary.HasPending())
	assert.Equal(t, []string{"Matrícula", "Pensiones (2)"}, summary.Items)
	assert.Equal(t, 600, summary.Total)

	summary = PendingPayments(Student{PendingInstallments: 1}, costs)
	assert.Equal(t, []string{"Pensiones (1)"}, summary.Items)
	assert.Equal(t, 150, summary.Total)

	summary = PendingPayments(Student{}, costs)
	assert.False(t, summary.HasPending())
	assert.Zero(t, summary.Total)
}
