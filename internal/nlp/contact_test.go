package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractContactInfo(t *testing.T) {
	tests := []struct {
		name    string
		message string
		cname   string
		phone   string
	}{
		{
			name:    "labeled name and plain phone",
			message: "Mi nombre es Juan Perez y mi telefono es 999123456",
			cname:   "Juan Perez",
			phone:   "999123456",
		},
		{
			name:    "bare grouped phone",
			message: "999 123 456",
			cname:   "",
			phone:   "999123456",
		},
		{
			name:    "me llamo with celular and hyphens",
			message: "Me llamo María García y mi celular es 987-654-321",
			cname:   "María García",
			phone:   "987654321",
		},
		{
			name:    "country prefix",
			message: "Soy Pedro Castillo y mi telefono es +51 999 123 456",
			cname:   "Pedro Castillo",
			phone:   "+51999123456",
		},
		{
			name:    "all caps reply",
			message: "JUAN CARLOS PEREZ",
			cname:   "JUAN CARLOS PEREZ",
			phone:   "",
		},
		{
			name:    "capitalized tokens around filler",
			message: "claro, soy Rosa Mendoza al 988877665",
			cname:   "Rosa Mendoza",
			phone:   "988877665",
		},
		{
			name:    "too short phone discarded",
			message: "llámame al 12345",
			cname:   "",
			phone:   "",
		},
		{
			name:    "nothing extractable",
			message: "quiero informacion",
			cname:   "",
			phone:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractContactInfo(tt.message)
			assert.Equal(t, tt.cname, got.Name)
			assert.Equal(t, tt.phone, got.Phone)
		})
	}
}

func TestExtractContactInfoNameBounds(t *testing.T) {
	// A single letter is below the minimum name length.
	got := ExtractContactInfo("X 999123456")
	assert.Equal(t, "", got.Name)
	assert.Equal(t, "999123456", got.Phone)

	// Anything longer than fifty characters is rejected.
	long := "Mi nombre es Aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa Bb y mi telefono es 999123456"
	got = ExtractContactInfo(long)
	assert.Equal(t, "", got.Name)
}
