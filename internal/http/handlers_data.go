package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"ledgerly/internal/codec"
	"ledgerly/internal/log"
	"ledgerly/internal/report"
)

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	req, err := parseImportRequest(w, r)
	if err != nil {
		writeError(w, r, importErrorTitle(req.Format, err), err)
		return
	}

	result, err := s.repo.Import(r.Context(), req.Format, req.Data, req.Mode)
	if err != nil {
		writeError(w, r, importErrorTitle(req.Format, err), err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Ledger imported",
		log.FieldOperation, log.OpImport,
		log.FieldFormat, result.Format,
		log.FieldMode, result.Mode,
		log.FieldCount, result.Imported)
	NewResponse().
		Data(result).
		NotifySuccess("Import Successful", "Your data has been imported from "+strings.ToUpper(string(result.Format))+".").
		Write(w)
}

func importErrorTitle(f codec.Format, err error) string {
	var shape *codec.ShapeValidationError
	switch {
	case errors.Is(err, errUnsupportedFileType):
		return "Unsupported File Type"
	case errors.As(err, &shape) && f == codec.FormatJSON:
		return "Invalid JSON format"
	default:
		return "Import Failed"
	}
}

// handleExport streams the ledger as a download. Success carries no
// notification since the body is the file itself.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := exportFormat(r)
	if err != nil {
		writeError(w, r, "Export Failed", err)
		return
	}

	snap := s.repo.Snapshot()
	data, err := codec.Encode(format, snap.Transactions, snap.Categories)
	if err != nil {
		writeError(w, r, "Export Failed", err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Ledger exported",
		log.FieldOperation, log.OpExport,
		log.FieldFormat, format,
		log.FieldCount, len(snap.Transactions))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := report.Build(s.repo.Transactions(), report.ExpensePolicy, s.repo.Currency(), time.Now())
	page, err := rep.Page()
	if err != nil {
		writeError(w, r, "Report Failed", err)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Report rendered",
		log.FieldOperation, log.OpRender,
		log.FieldCount, len(rep.Rows))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
