package legado

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	enc "github.com/jataidesja-hub/gerenciamento/internal/encoding"
	"github.com/jataidesja-hub/gerenciamento/internal/money"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

// Parser reads CSV exports of the legacy sales control spreadsheet and
// produces sale params. It auto-detects which export layout is being used by
// matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]sale.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching export layout found: expected the sales control columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:]), nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts sale params from data rows. Rows without a client name
// are skipped (blank lines, totals footers). Everything else is coerced
// leniently: bad dates read as zero, bad amounts as zero, bad counts as one.
func parseRows(p *Profile, cols colIndex, rows [][]string) []sale.CreateParams {
	var params []sale.CreateParams

	for _, row := range rows {
		client := optional(row, cols, p.ClientCol)
		if client == "" {
			continue
		}

		count := 1
		if s := optional(row, cols, p.CountCol); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				count = n
			}
		}

		params = append(params, sale.CreateParams{
			Status:           parseStatus(optional(row, cols, p.StatusCol)),
			CustomerName:     client,
			CityState:        optional(row, cols, p.CityCol),
			Phone:            optional(row, cols, p.PhoneCol),
			PurchaseDate:     parseDate(optional(row, cols, p.DateCol)),
			TotalValue:       money.Coerce(optional(row, cols, p.TotalCol)),
			PaymentMethod:    optional(row, cols, p.MethodCol),
			InstallmentCount: count,
			InstallmentValue: money.Coerce(optional(row, cols, p.ValueCol)),
			Litter:           optional(row, cols, p.LitterCol),
			Sex:              optional(row, cols, p.SexCol),
			Color:            optional(row, cols, p.ColorCol),
			DeliveryDate:     parseDate(optional(row, cols, p.DeliveryCol)),
			Responsible:      optional(row, cols, p.ResponsibleCol),
		})
	}

	return params
}

// optional gets a trimmed cell by column name, empty when the profile lacks
// the column or the row is short.
func optional(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func parseStatus(s string) sale.Status {
	switch sale.Status(s) {
	case sale.StatusOpen, sale.StatusPartial, sale.StatusPaid:
		return sale.Status(s)
	}

	return ""
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	for _, layout := range []string{"02/01/2006", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
