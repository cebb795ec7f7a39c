package coverage

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestParseCSV_Semicolon(t *testing.T) {
	input := "\xef\xbb\xbfAnnée;Région Code;Région;BCG;ROR\n" +
		"2020;53;Bretagne;91.0;\n" +
		"2021;53;Bretagne;92.3;85\n"

	d, err := ParseCSV(strings.NewReader(input), Region, Format{})
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if d.Granularity != Region {
		t.Errorf("Granularity = %v, want region", d.Granularity)
	}
	if d.Len() != 2 {
		t.Fatalf("rows = %d, want 2", d.Len())
	}
	if d.Columns[0] != "Année" {
		t.Errorf("first column = %q, BOM not stripped", d.Columns[0])
	}
	if v, ok := d.Rows[1].Value("BCG"); !ok || v != 92.3 {
		t.Errorf("BCG = %v, %v", v, ok)
	}
	if _, ok := d.Rows[0].Value("ROR"); ok {
		t.Error("empty ROR cell should be a gap")
	}
}

func TestParseCSV_CommaQuoted(t *testing.T) {
	input := `Année,Département Code,Département,BCG
2021,21,"Côte-d'Or",88.1
`
	d, err := ParseCSV(strings.NewReader(input), Department, Format{})
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if got, _ := d.Rows[0].Get(ColDepartment); got != "Côte-d'Or" {
		t.Errorf("Département = %q", got)
	}
}

func TestParseCSV_Latin1(t *testing.T) {
	utf8 := "Année;Région;BCG\n2021;Île-de-France;90\n"
	latin1, err := charmap.Windows1252.NewEncoder().String(utf8)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	d, err := ParseCSV(strings.NewReader(latin1), Region, Format{Delimiter: ";", Encoding: "windows-1252"})
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if got, _ := d.Rows[0].Get(ColRegion); got != "Île-de-France" {
		t.Errorf("Région = %q, want Île-de-France", got)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader(""), Nation, Format{}); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseCSV(strings.NewReader("a,b\n1,2\n"), Nation, Format{Encoding: "klingon"}); err == nil {
		t.Error("expected error for unknown encoding")
	}
}
