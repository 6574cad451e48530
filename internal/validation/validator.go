// =============================================================================
// fac2csv - Input Validation
// =============================================================================
//
// Pre-flight checks for uploaded and discovered files: extension and size
// limits before any file is read in full, then a well-formedness and
// namespace pass for XML payloads. Validation failures are typed so callers
// can report them per file without aborting the batch.
//
// =============================================================================

package validation

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ublNamespacePrefix identifies the OASIS UBL document namespaces. Both the
// Invoice and AttachedDocument roots carry it.
const ublNamespacePrefix = "urn:oasis:names:specification:ubl"

// ValidationError reports a file that failed a pre-flight check.
type ValidationError struct {
	File string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.File, e.Msg)
}

// ValidateExtension accepts only .xml and .zip inputs.
func ValidateExtension(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml", ".zip":
		return nil
	default:
		return &ValidationError{File: name, Msg: "unsupported file type, expected .xml or .zip"}
	}
}

// ValidateSize rejects empty files and files above maxBytes.
func ValidateSize(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{File: path, Msg: fmt.Sprintf("cannot stat file: %v", err)}
	}
	if info.Size() == 0 {
		return &ValidationError{File: path, Msg: "file is empty"}
	}
	if info.Size() > maxBytes {
		return &ValidationError{
			File: path,
			Msg:  fmt.Sprintf("file size %d exceeds limit of %d bytes", info.Size(), maxBytes),
		}
	}
	return nil
}

// ValidateXMLContent checks that r holds well-formed XML whose root element
// lives in a UBL namespace. The reader is consumed to EOF so parse errors
// anywhere in the document surface here rather than downstream.
func ValidateXMLContent(name string, r io.Reader) error {
	dec := xml.NewDecoder(r)
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &ValidationError{File: name, Msg: fmt.Sprintf("malformed XML: %v", err)}
		}

		if se, ok := tok.(xml.StartElement); ok && !sawRoot {
			sawRoot = true
			if !strings.Contains(se.Name.Space, ublNamespacePrefix) {
				return &ValidationError{File: name, Msg: "root element is not a UBL document"}
			}
		}
	}

	if !sawRoot {
		return &ValidationError{File: name, Msg: "no XML content found"}
	}
	return nil
}

// ValidateFile runs every check against an XML file on disk.
func ValidateFile(path string, maxBytes int64) error {
	if err := ValidateExtension(path); err != nil {
		return err
	}
	if err := ValidateSize(path, maxBytes); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return &ValidationError{File: path, Msg: fmt.Sprintf("cannot open file: %v", err)}
	}
	defer f.Close()

	return ValidateXMLContent(path, f)
}

// ValidateFilesCount caps the number of files accepted in one batch.
func ValidateFilesCount(count, max int) error {
	if count == 0 {
		return &ValidationError{File: "batch", Msg: "no files provided"}
	}
	if count > max {
		return &ValidationError{
			File: "batch",
			Msg:  fmt.Sprintf("received %d files, limit is %d per batch", count, max),
		}
	}
	return nil
}
