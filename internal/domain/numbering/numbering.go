// Package numbering assigns the human-readable sequential identifiers
// (numeros) carried by commercial documents.
package numbering

import (
	"context"
	"fmt"
	"regexp"
	"sync"
)

// DocumentType tags a numbered document family with its numero prefix.
type DocumentType string

const (
	DocTypeOrder         DocumentType = "CMD"
	DocTypeInvoice       DocumentType = "FAC"
	DocTypeDeliveryNote  DocumentType = "BL"
	DocTypeStockMovement DocumentType = "MVT"
	DocTypeInventory     DocumentType = "INV"
)

// IsValid checks if the document type is a known numbered family
func (t DocumentType) IsValid() bool {
	switch t {
	case DocTypeOrder, DocTypeInvoice, DocTypeDeliveryNote, DocTypeStockMovement, DocTypeInventory:
		return true
	}
	return false
}

// String returns the numero prefix for the document type
func (t DocumentType) String() string {
	return string(t)
}

// NumeroPattern is the persisted shape of every numero.
var NumeroPattern = regexp.MustCompile(`^[A-Z]{2,4}-\d{6}$`)

// Format renders a sequence value as a numero: {PREFIX}-{6-digit zero-padded}.
func Format(t DocumentType, seq int64) string {
	return fmt.Sprintf("%s-%06d", t, seq)
}

// Allocator reserves the next numero for a document type.
//
// Implementations must be safe for concurrent use: two simultaneous
// allocations for the same type must never return the same numero. The
// persistence implementation reserves through an atomic per-type counter
// row; this replaces an older count-the-table scheme that could hand the
// same numero to two concurrent writers.
type Allocator interface {
	Next(ctx context.Context, docType DocumentType) (string, error)
}

// MemoryAllocator is an in-process Allocator backed by per-type counters.
// Intended for tests and single-process tooling.
type MemoryAllocator struct {
	mu   sync.Mutex
	seqs map[DocumentType]int64
}

// NewMemoryAllocator creates an empty in-memory allocator
func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{seqs: make(map[DocumentType]int64)}
}

// Next reserves and formats the next numero for the document type
func (a *MemoryAllocator) Next(_ context.Context, docType DocumentType) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seqs[docType]++
	return Format(docType, a.seqs[docType]), nil
}

var _ Allocator = (*MemoryAllocator)(nil)
