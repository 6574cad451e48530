// =============================================================================
// fac2csv - Input Validation Tests
// =============================================================================

package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalInvoice = `<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"><ID>1</ID></Invoice>`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestValidateExtension(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"factura.xml", true},
		{"FACTURA.XML", true},
		{"lote.zip", true},
		{"factura.pdf", false},
		{"factura", false},
	}
	for _, tc := range cases {
		err := ValidateExtension(tc.name)
		if tc.ok && err != nil {
			t.Errorf("ValidateExtension(%q) = %v, want nil", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ValidateExtension(%q) = nil, want error", tc.name)
		}
	}
}

func TestValidateSize(t *testing.T) {
	path := writeTemp(t, "a.xml", minimalInvoice)

	if err := ValidateSize(path, 1024); err != nil {
		t.Errorf("ValidateSize under limit = %v", err)
	}
	if err := ValidateSize(path, 10); err == nil {
		t.Error("expected error for file over limit")
	}

	empty := writeTemp(t, "empty.xml", "")
	if err := ValidateSize(empty, 1024); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestValidateXMLContent(t *testing.T) {
	cases := []struct {
		name    string
		content string
		ok      bool
	}{
		{"ubl invoice", minimalInvoice, true},
		{"attached document", `<AttachedDocument xmlns="urn:oasis:names:specification:ubl:schema:xsd:AttachedDocument-2"/>`, true},
		{"wrong namespace", `<Invoice xmlns="http://example.com/other"/>`, false},
		{"no namespace", `<Invoice/>`, false},
		{"malformed", `<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"><open>`, false},
		{"not xml", `hello world`, false},
		{"empty", ``, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateXMLContent(tc.name, strings.NewReader(tc.content))
			if tc.ok && err != nil {
				t.Errorf("got %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("got nil, want error")
			}
		})
	}
}

func TestValidateFile(t *testing.T) {
	good := writeTemp(t, "good.xml", minimalInvoice)
	if err := ValidateFile(good, 1024*1024); err != nil {
		t.Errorf("ValidateFile = %v, want nil", err)
	}

	bad := writeTemp(t, "bad.xml", "not xml at all")
	err := ValidateFile(bad, 1024*1024)
	if err == nil {
		t.Fatal("expected error for non-XML content")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if verr.File != bad {
		t.Errorf("error file = %q, want %q", verr.File, bad)
	}
}

func TestValidateFilesCount(t *testing.T) {
	if err := ValidateFilesCount(0, 50); err == nil {
		t.Error("expected error for zero files")
	}
	if err := ValidateFilesCount(50, 50); err != nil {
		t.Errorf("count at limit = %v, want nil", err)
	}
	if err := ValidateFilesCount(51, 50); err == nil {
		t.Error("expected error above limit")
	}
}
