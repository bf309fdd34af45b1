package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledgerly/internal/codec"
	"ledgerly/internal/insight"
	"ledgerly/internal/services"
)

func TestImportFormat(t *testing.T) {
	tests := []struct {
		name        string
		explicit    string
		filename    string
		contentType string
		want        codec.Format
		wantErr     error
	}{
		{"explicit wins", "csv", "backup.json", "application/json", codec.FormatCSV, nil},
		{"explicit unknown", "xml", "", "", "", codec.ErrUnknownFormat},
		{"from filename", "", "Backup.JSON", "", codec.FormatJSON, nil},
		{"unsupported filename", "", "notes.txt", "text/csv", "", errUnsupportedFileType},
		{"csv content type", "", "", "text/csv", codec.FormatCSV, nil},
		{"json content type", "", "", "application/json", codec.FormatJSON, nil},
		{"vendor json", "", "", "application/vnd.ledgerly+json", codec.FormatJSON, nil},
		{"nothing to go on", "", "", "application/octet-stream", "", errUnsupportedFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importFormat(tt.explicit, tt.filename, tt.contentType)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&services.ValidationError{Err: errors.New("x")}, http.StatusUnprocessableEntity},
		{fmt.Errorf("update x: %w", services.ErrTransactionNotFound), http.StatusNotFound},
		{&codec.DecodeError{Format: codec.FormatJSON, Err: errors.New("x")}, http.StatusBadRequest},
		{&codec.ShapeValidationError{Index: -1, Reason: "x"}, http.StatusUnprocessableEntity},
		{&codec.RowParseError{Line: 2, Err: errors.New("x")}, http.StatusBadRequest},
		{codec.ErrEmptyImport, http.StatusBadRequest},
		{codec.ErrNothingToExport, http.StatusUnprocessableEntity},
		{insight.ErrEmptyInput, http.StatusUnprocessableEntity},
		{insight.ErrNotConfigured, http.StatusServiceUnavailable},
		{&insight.RemoteCallError{Provider: "p", Err: errors.New("x")}, http.StatusBadGateway},
		{fmt.Errorf("%w: %w", errMalformedBody, &http.MaxBytesError{Limit: 1}), http.StatusRequestEntityTooLarge},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().
		Status(http.StatusAccepted).
		Header("X-Test", "1").
		Data(map[string]int{"n": 1}).
		NotifySuccess("Done", "All good.").
		Write(rr)

	if rr.Code != http.StatusAccepted || rr.Header().Get("X-Test") != "1" {
		t.Fatalf("status=%d headers=%v", rr.Code, rr.Header())
	}
	want := `{"data":{"n":1},"notification":{"type":"success","title":"Done","message":"All good."}}` + "\n"
	if rr.Body.String() != want {
		t.Fatalf("body = %q, want %q", rr.Body.String(), want)
	}

	rr = httptest.NewRecorder()
	NewResponse().Status(http.StatusNoContent).Write(rr)
	if rr.Body.Len() != 0 {
		t.Fatalf("204 must have no body, got %q", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	InternalServerError("boom").Write(rr)
	want = `{"error":"boom","notification":{"type":"error","title":"Server Error","message":"boom"}}` + "\n"
	if rr.Code != http.StatusInternalServerError || rr.Body.String() != want {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
}
