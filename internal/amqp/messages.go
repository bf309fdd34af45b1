package amqp

import (
	"encoding/json"
	"fmt"

	"ledgerly/internal/core"
)

// EncodeChange serialises a change event for the wire. The worker only
// needs to know that something changed; it re-reads the ledger itself.
func EncodeChange(ev core.ChangeEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// DecodeChange parses a change message and rejects unknown operations.
func DecodeChange(data []byte) (core.ChangeEvent, error) {
	var ev core.ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return core.ChangeEvent{}, err
	}
	switch ev.Op {
	case core.OpAdded, core.OpUpdated, core.OpDeleted, core.OpImported:
		return ev, nil
	default:
		return core.ChangeEvent{}, fmt.Errorf("unknown change op %q", ev.Op)
	}
}
