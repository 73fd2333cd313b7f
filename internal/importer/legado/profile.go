package legado

// Profile describes the column layout of a legacy spreadsheet CSV export.
// Only the client, date and total columns are required to match; the rest are
// picked up when present.
type Profile struct {
	Name string

	ClientCol string
	DateCol   string
	TotalCol  string

	CountCol       string
	ValueCol       string
	StatusCol      string
	CityCol        string
	PhoneCol       string
	MethodCol      string
	LitterCol      string
	SexCol         string
	ColorCol       string
	DeliveryCol    string
	ResponsibleCol string
}

// requiredCols returns the column names that must be present for this profile
// to match.
func (p Profile) requiredCols() []string {
	return []string{p.ClientCol, p.DateCol, p.TotalCol}
}

// profiles is the ordered list of export layouts to try during
// auto-detection. More specific profiles come first to avoid false matches.
var profiles = []Profile{
	{
		Name:           "controle",
		ClientCol:      "Nome do Cliente",
		DateCol:        "Data da Compra",
		TotalCol:       "Valor Total",
		CountCol:       "Qtd. Parcelas",
		ValueCol:       "Valor da Parcela",
		StatusCol:      "Status Pagamento",
		CityCol:        "Cidade/Estado",
		PhoneCol:       "Telefone",
		MethodCol:      "Forma de Pagamento",
		LitterCol:      "Ninhada",
		SexCol:         "Sexo",
		ColorCol:       "Cor",
		DeliveryCol:    "Data de Entrega",
		ResponsibleCol: "Responsável",
	},
	{
		Name:      "simples",
		ClientCol: "Cliente",
		DateCol:   "Data",
		TotalCol:  "Valor",
		CountCol:  "Parcelas",
	},
}
