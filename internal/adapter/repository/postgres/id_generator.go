
package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID transaction IDs. ULIDs sort lexically
// by creation time, which lets the ledger's id column double as the
// insertion-order tiebreak for same-instant prints.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
