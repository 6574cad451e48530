// =============================================================================
// fac2csv - HTTP Server Tests
// =============================================================================

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/zentratek/zentratek-fac2csv/internal/config"
	"github.com/zentratek/zentratek-fac2csv/internal/converter"
)

const testInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
    xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
    xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
  <cbc:ID>F-200</cbc:ID>
  <cac:LegalMonetaryTotal>
    <cbc:PayableAmount currencyID="COP">500.00</cbc:PayableAmount>
  </cac:LegalMonetaryTotal>
</Invoice>`

func testServer(t *testing.T) (*Server, *config.Config) {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.UploadDir = filepath.Join(base, "uploads")
	cfg.OutputDir = filepath.Join(base, "output")
	cfg.InputDir = filepath.Join(base, "input")
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	return New(cfg, converter.New(cfg, log), log), cfg
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte(content))
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUploadAndDownload(t *testing.T) {
	srv, _ := testServer(t)

	body, contentType := multipartBody(t, map[string]string{
		"factura.xml": testInvoice,
		"rota.xml":    "not xml",
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Processed int                 `json:"processed"`
		Failed    int                 `json:"failed"`
		Failures  []converter.Failure `json:"failures"`
		Outputs   struct {
			SummaryCSV string `json:"summary_csv"`
			Archive    string `json:"archive"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Processed != 1 || resp.Failed != 1 {
		t.Errorf("processed/failed = %d/%d, want 1/1", resp.Processed, resp.Failed)
	}
	if len(resp.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(resp.Failures))
	}

	// The reported outputs are downloadable.
	dl := httptest.NewRecorder()
	srv.Router().ServeHTTP(dl, httptest.NewRequest(http.MethodGet, "/download/"+resp.Outputs.SummaryCSV, nil))
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", dl.Code)
	}
	if !bytes.HasPrefix(dl.Body.Bytes(), []byte("\xEF\xBB\xBF")) {
		t.Error("downloaded CSV lacks UTF-8 BOM")
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	srv, _ := testServer(t)

	body, contentType := multipartBody(t, map[string]string{"factura.pdf": "%PDF"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadAllFailuresIsUnprocessable(t *testing.T) {
	srv, _ := testServer(t)

	body, contentType := multipartBody(t, map[string]string{"rota.xml": "garbage"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestDownloadDoesNotEscapeOutputDir(t *testing.T) {
	srv, cfg := testServer(t)

	secret := filepath.Join(filepath.Dir(cfg.OutputDir), "secret.txt")
	if err := os.WriteFile(secret, []byte("hidden"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/..%2Fsecret.txt", nil))
	if rec.Code == http.StatusOK {
		t.Error("path traversal served a file outside the output directory")
	}

	missing := httptest.NewRecorder()
	srv.Router().ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/download/nope.csv", nil))
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", missing.Code)
	}
}
