package rosterfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/roster"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	first := writeCSV(t, dir, "lista primaria.xlsx - 1er grado.csv",
		"APELLIDOS Y NOMBRES,Código modular (SIAGE),Matrícula pendiente,Pensiones pendientes\n"+
			"QUISPE HUAMAN MARIA,10000001,sí,2\n"+
			"TORRES VEGA ANA,10000003,no,0\n")
	second := writeCSV(t, dir, "lista primaria.xlsx - 2do grado.csv",
		"APELLIDOS Y NOMBRES,codigo modular (SIAGE),Matrícula pendiente,Pensión pendiente\n"+
			"QUISPE MAMANI JOSE,10000002,no,sí\n")

	loader := NewLoader(nil)
	students, err := loader.LoadFiles([]string{first, second})
	require.NoError(t, err)
	require.Len(t, students, 3)

	assert.Equal(t, "QUISPE HUAMAN MARIA", students[0].FullName)
	assert.Equal(t, "1er grado", students[0].Grade)
	assert.Equal(t, "10000001", students[0].Code)
	assert.True(t, students[0].EnrollmentFeePending)
	assert.Equal(t, 2, students[0].PendingInstallments)

	assert.False(t, students[1].EnrollmentFeePending)
	assert.Equal(t, 0, students[1].PendingInstallments)

	// Alternate code spelling and yes/no installment column.
	assert.Equal(t, "2do grado", students[2].Grade)
	assert.Equal(t, "10000002", students[2].Code)
	assert.Equal(t, 1, students[2].PendingInstallments)
}

func TestLoadFilesSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	present := writeCSV(t, dir, "lista.xlsx - 3er grado.csv",
		"APELLIDOS Y NOMBRES,Código modular (SIAGE)\nPEREZ JUAN,10000009\n")

	loader := NewLoader(nil)
	students, err := loader.LoadFiles([]string{
		filepath.Join(dir, "no existe.csv"),
		present,
	})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "3er grado", students[0].Grade)
}

func TestLoadFilesDuplicateCodeKeepsFirst(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "lista.xlsx - 4to grado.csv",
		"APELLIDOS Y NOMBRES,Código modular (SIAGE),Pensiones pendientes\n"+
			"PRIMERO ALUMNO,20000001,1\n"+
			"SEGUNDO ALUMNO,20000001,5\n")

	loader := NewLoader(nil)
	students, err := loader.LoadFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, students, 2)

	// First-match semantics on duplicate codes.
	found, err := roster.FindByCode(students, "20000001")
	require.NoError(t, err)
	assert.Equal(t, "PRIMERO ALUMNO", found.FullName)
}

func TestLoadFilesNumericColumnShadowsYesNo(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "lista.xlsx - 2do grado.csv",
		"APELLIDOS Y NOMBRES,Código modular (SIAGE),Pensiones pendientes,Pensión pendiente\n"+
			"BLANCO CELDA ROSA,40000001,,sí\n"+
			"TEXTO CELDA JUAN,40000002,n/a,sí\n"+
			"NUMERO CELDA LUIS,40000003,3,sí\n")

	loader := NewLoader(nil)
	students, err := loader.LoadFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, students, 3)

	// A present numeric column wins even when its cell is blank or junk;
	// the yes/no column only counts for files without the numeric header.
	assert.Equal(t, 0, students[0].PendingInstallments)
	assert.Equal(t, 0, students[1].PendingInstallments)
	assert.Equal(t, 3, students[2].PendingInstallments)
}

func TestLoadFilesSkipsBlankRows(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "lista.xlsx - 1er grado.csv",
		"APELLIDOS Y NOMBRES,Código modular (SIAGE)\n"+
			",\n"+
			"PEREZ ROSA,30000001\n")

	loader := NewLoader(nil)
	students, err := loader.LoadFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "PEREZ ROSA", students[0].FullName)
}

func TestGradeFromFileName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"lista primaria 1ro y 2do.xlsx - 1er grado.csv", "1er grado"},
		{"/data/listas/lista.xlsx - 4to grado.csv", "4to grado"},
		{"alumnos.csv", "alumnos"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeFromFileName(tt.path), tt.path)
	}
}
