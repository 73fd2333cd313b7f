package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jataidesja-hub/gerenciamento/internal/importer"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

type Handler struct {
	importSvc *importer.Service
	saleSvc   *sale.Service
}

func NewHandler(importSvc *importer.Service, saleSvc *sale.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		saleSvc:   saleSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importSuccessResponse struct {
	Imported int      `json:"imported"`
	SaleIDs  []string `json:"sale_ids"`
}

// importCSV ingests a legacy spreadsheet export and creates one sale per
// parsed row. Each sale gets its installment schedule generated the same way
// a sale created through the API would.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := importer.Source(r.FormValue("source"))
	if source == "" {
		http.Error(w, "source field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(source, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ids := make([]string, 0, len(params))

	for _, p := range params {
		sl, err := h.saleSvc.Create(r.Context(), p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		ids = append(ids, sl.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := importSuccessResponse{Imported: len(ids), SaleIDs: ids}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
