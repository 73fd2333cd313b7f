package importer

import (
	"fmt"
	"io"

	"github.com/jataidesja-hub/gerenciamento/internal/importer/legado"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

type Service struct {
	planilha Importer
}

func NewService() *Service {
	return &Service{
		planilha: legado.NewParser(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]sale.CreateParams, error) {
	var imp Importer

	switch source {
	case SourcePlanilha:
		imp = s.planilha
	default:
		return nil, fmt.Errorf("unknown source: %s", source)
	}

	return imp.Parse(r)
}
