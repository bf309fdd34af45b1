package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"ledgerly/internal/codec"
	"ledgerly/internal/ledger"
)

const (
	maxJSONBodyBytes   = 1 << 20
	maxImportBodyBytes = 10 << 20
)

var (
	errEmptyBody           = errors.New("request body is empty")
	errMalformedBody       = errors.New("malformed request body")
	errUnsupportedFileType = errors.New("please select a JSON or CSV file")
)

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", errMalformedBody)
	}
	return nil
}

// importRequest is an uploaded file together with how to apply it.
type importRequest struct {
	Filename string
	Format   codec.Format
	Mode     ledger.ImportMode
	Data     []byte
}

// parseImportRequest accepts either a multipart upload in the "file" field
// or a raw body. The format comes from the "format" query parameter, then
// the file name, then the Content-Type header.
func parseImportRequest(w http.ResponseWriter, r *http.Request) (importRequest, error) {
	var req importRequest

	mode, err := ledger.ParseImportMode(r.URL.Query().Get("mode"))
	if err != nil {
		return req, err
	}
	req.Mode = mode

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodyBytes)
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if contentType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return req, fmt.Errorf("%w: %w", errMalformedBody, err)
		}
		defer file.Close()
		req.Filename = header.Filename
		if req.Data, err = io.ReadAll(file); err != nil {
			return req, fmt.Errorf("%w: %w", errMalformedBody, err)
		}
		contentType, _, _ = mime.ParseMediaType(header.Header.Get("Content-Type"))
	} else {
		req.Filename = r.URL.Query().Get("filename")
		if req.Data, err = io.ReadAll(r.Body); err != nil {
			return req, fmt.Errorf("%w: %w", errMalformedBody, err)
		}
	}

	if len(bytes.TrimSpace(req.Data)) == 0 {
		return req, errEmptyBody
	}

	req.Format, err = importFormat(r.URL.Query().Get("format"), req.Filename, contentType)
	return req, err
}

func importFormat(explicit, filename, contentType string) (codec.Format, error) {
	if explicit != "" {
		return codec.ParseFormat(explicit)
	}
	if filename != "" {
		if f, err := codec.FormatFromFilename(filename); err == nil {
			return f, nil
		}
		return "", errUnsupportedFileType
	}
	switch {
	case contentType == "text/csv":
		return codec.FormatCSV, nil
	case contentType == "application/json", strings.HasSuffix(contentType, "+json"):
		return codec.FormatJSON, nil
	}
	return "", errUnsupportedFileType
}

// exportFormat reads the "format" query parameter, defaulting to JSON.
func exportFormat(r *http.Request) (codec.Format, error) {
	s := r.URL.Query().Get("format")
	if s == "" {
		return codec.FormatJSON, nil
	}
	return codec.ParseFormat(s)
}
