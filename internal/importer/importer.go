package importer

import (
	"io"

	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

// Source identifies the export format being imported.
type Source string

const (
	// SourcePlanilha is a CSV export of the legacy control spreadsheet.
	SourcePlanilha Source = "planilha"
)

type Importer interface {
	Parse(r io.Reader) ([]sale.CreateParams, error)
}
