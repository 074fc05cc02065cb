package command

import (
	"errors"
	"testing"

	"github.com/acampos/matriculabot/internal/domain"
)

func subjectFields() []Field {
	return []Field{
		{Key: "name", Label: "nombre", Required: true},
		{Key: "code", Label: "codigo", Required: true},
		{Key: "semester", Label: "semestre", Required: true, Numeric: true},
		{Key: "credits", Label: "creditos", Required: true, Numeric: true},
		{Key: "seats", Label: "cupos", Required: true, Numeric: true},
		{Key: "days", Label: "dias", Required: true},
		{Key: "hours", Label: "horas", Required: true},
	}
}

func TestParseBlockFullSubject(t *testing.T) {
	text := "nombre: Cálculo Diferencial codigo: MAT101 semestre: 1 creditos: 4 cupos: 30 dias: Lun Mie horas: 08:00-10:00"

	record, err := ParseBlock(text, subjectFields())
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}

	if record["name"] != "Cálculo Diferencial" {
		t.Errorf("name = %q", record["name"])
	}
	if record["code"] != "MAT101" {
		t.Errorf("code = %q", record["code"])
	}
	if record.Int("semester") != 1 || record.Int("credits") != 4 || record.Int("seats") != 30 {
		t.Errorf("numeric fields = %d/%d/%d", record.Int("semester"), record.Int("credits"), record.Int("seats"))
	}
	if record["days"] != "Lun Mie" {
		t.Errorf("days = %q", record["days"])
	}
	if record["hours"] != "08:00-10:00" {
		t.Errorf("hours = %q", record["hours"])
	}
}

func TestParseBlockMultiline(t *testing.T) {
	text := "nombre: Ingeniería de Software\ncodigo: ISW301\nsemestre: 3\ncreditos: 3\ncupos: 25\ndias: Vie\nhoras: 14:00-17:00"

	record, err := ParseBlock(text, subjectFields())
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	if record["name"] != "Ingeniería de Software" {
		t.Errorf("name = %q", record["name"])
	}
	if record["days"] != "Vie" {
		t.Errorf("days = %q", record["days"])
	}
}

func TestParseBlockLabelsAreCaseInsensitive(t *testing.T) {
	record, err := ParseBlock("Nombre: Medicina CODIGO: MED", []Field{
		{Key: "name", Label: "nombre", Required: true},
		{Key: "code", Label: "codigo", Required: true},
	})
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	if record["name"] != "Medicina" || record["code"] != "MED" {
		t.Errorf("record = %v", record)
	}
}

func TestParseBlockRejections(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing required field", "nombre: X codigo: Y semestre: 1 creditos: 3 cupos: 10 dias: Lun"},
		{"non-numeric field", "nombre: X codigo: Y semestre: uno creditos: 3 cupos: 10 dias: Lun horas: 08:00"},
		{"empty value", "nombre: codigo: Y semestre: 1 creditos: 3 cupos: 10 dias: Lun horas: 08:00"},
		{"empty text", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBlock(tt.text, subjectFields())
			if !errors.Is(err, domain.ErrMissingField) {
				t.Errorf("Expected ErrMissingField, got %v", err)
			}
		})
	}
}

func TestParseBlockKeepsMultibyteValuesIntact(t *testing.T) {
	// "İ" (U+0130) lowercases to a longer byte sequence. Folding must not
	// shift the value offsets of the original text.
	record, err := ParseBlock("nombre: İİİİİİİİİİ İstanbul Studies codigo: MED", []Field{
		{Key: "name", Label: "nombre", Required: true},
		{Key: "code", Label: "codigo", Required: true},
	})
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	if record["name"] != "İİİİİİİİİİ İstanbul Studies" {
		t.Errorf("name = %q", record["name"])
	}
	if record["code"] != "MED" {
		t.Errorf("code = %q", record["code"])
	}
}

func TestParseBlockGrowingFoldDoesNotPanic(t *testing.T) {
	// "Ⱥ" (U+023A, 2 bytes) lowercases to "ⱥ" (U+2C65, 3 bytes). A fold
	// that grows the text must not push value slices out of range.
	record, err := ParseBlock("ȺȺȺȺȺȺȺȺȺȺȺȺȺȺȺȺȺȺȺȺ nombre:x", []Field{
		{Key: "name", Label: "nombre", Required: true},
	})
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	if record["name"] != "x" {
		t.Errorf("name = %q", record["name"])
	}
}

func TestParseBlockLabelInsideValueIgnored(t *testing.T) {
	// "pseudocodigo" contains "codigo" but not at a word start.
	record, err := ParseBlock("nombre: Taller de pseudocodigo codigo: ALG1", []Field{
		{Key: "name", Label: "nombre", Required: true},
		{Key: "code", Label: "codigo", Required: true},
	})
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	if record["name"] != "Taller de pseudocodigo" {
		t.Errorf("name = %q", record["name"])
	}
	if record["code"] != "ALG1" {
		t.Errorf("code = %q", record["code"])
	}
}
