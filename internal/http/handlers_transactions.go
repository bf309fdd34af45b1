package http

import (
	"net/http"

	"ledgerly/internal/core"
	"ledgerly/internal/log"
	"ledgerly/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, _ *http.Request) {
	NewResponse().Data(s.repo.Transactions()).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tx, ok := s.repo.Get(id)
	if !ok {
		NotFoundError("No transaction with id " + id + ".").Write(w)
		return
	}
	NewResponse().Data(tx).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.NewTransaction
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, "Invalid Request", err)
		return
	}

	tx, err := s.transactions.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, "Invalid Transaction", err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction added",
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, tx.ID)
	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		Data(tx).
		NotifySuccess("Transaction Added", "The new transaction has been successfully added.").
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(w, r, &tx); err != nil {
		writeError(w, r, "Invalid Request", err)
		return
	}
	// The path is authoritative for the id.
	tx.ID = r.PathValue("id")

	updated, err := s.transactions.Edit(r.Context(), tx)
	if err != nil {
		writeError(w, r, "Update Failed", err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldTransactionID, updated.ID)
	NewResponse().
		Data(updated).
		NotifySuccess("Transaction Updated", "The transaction has been successfully updated.").
		Write(w)
}

// handleDeleteTransaction answers 404 for an unknown id. The ledger is
// left untouched either way.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.transactions.Remove(r.Context(), id); err != nil {
		writeError(w, r, "Delete Failed", err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTransactionID, id)
	NewResponse().
		NotifySuccess("Transaction Deleted", "The transaction has been successfully deleted.").
		Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	NewResponse().Data(s.repo.Categories()).Write(w)
}

// pendingBody is the payload of a pending slot. A null transaction clears
// the slot.
type pendingBody struct {
	Transaction *core.Transaction `json:"transaction"`
}

func (s *Server) handleGetPendingEdit(w http.ResponseWriter, _ *http.Request) {
	NewResponse().Data(pendingBody{Transaction: s.repo.PendingEdit()}).Write(w)
}

func (s *Server) handleSetPendingEdit(w http.ResponseWriter, r *http.Request) {
	var body pendingBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, "Invalid Request", err)
		return
	}
	s.repo.SetPendingEdit(body.Transaction)
	NewResponse().Data(pendingBody{Transaction: s.repo.PendingEdit()}).Write(w)
}

func (s *Server) handleClearPendingEdit(w http.ResponseWriter, _ *http.Request) {
	s.repo.SetPendingEdit(nil)
	NewResponse().Status(http.StatusNoContent).Write(w)
}

// handleNewDraft puts a blank transaction in the edit slot, which is how a
// client opens the "add" form.
func (s *Server) handleNewDraft(w http.ResponseWriter, _ *http.Request) {
	draft := s.repo.NewDraft()
	NewResponse().Data(pendingBody{Transaction: &draft}).Write(w)
}

func (s *Server) handleGetPendingDeletion(w http.ResponseWriter, _ *http.Request) {
	NewResponse().Data(pendingBody{Transaction: s.repo.PendingDeletion()}).Write(w)
}

// handleSetPendingDeletion marks a stored transaction for confirmation.
// Only id is read from the body; the stored copy is what gets parked.
func (s *Server) handleSetPendingDeletion(w http.ResponseWriter, r *http.Request) {
	var body pendingBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, "Invalid Request", err)
		return
	}
	if body.Transaction == nil {
		s.repo.SetPendingDeletion(nil)
		NewResponse().Data(pendingBody{}).Write(w)
		return
	}
	tx, ok := s.repo.Get(body.Transaction.ID)
	if !ok {
		writeError(w, r, "Delete Failed", services.ErrTransactionNotFound)
		return
	}
	s.repo.SetPendingDeletion(&tx)
	NewResponse().Data(pendingBody{Transaction: &tx}).Write(w)
}

func (s *Server) handleClearPendingDeletion(w http.ResponseWriter, _ *http.Request) {
	s.repo.SetPendingDeletion(nil)
	NewResponse().Status(http.StatusNoContent).Write(w)
}
