package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

type SalesModel struct {
	saleService *sale.Service

	table   table.Model
	sales   []*sale.Sale
	loading bool
	err     error
}

func NewSalesModel(saleSvc *sale.Service) SalesModel {
	columns := []table.Column{
		{Title: "Cliente", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Compra", Width: 12},
		{Title: "Total", Width: 12},
		{Title: "Parcelas", Width: 8},
		{Title: "Forma", Width: 12},
		{Title: "Ninhada", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return SalesModel{
		saleService: saleSvc,
		table:       t,
		loading:     true,
	}
}

func (m SalesModel) Init() tea.Cmd {
	return m.loadSalesCmd()
}

func (m SalesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSalesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.sales = msg.sales
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadSalesCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.sales) {
				return m, nil
			}

			id := m.sales[idx].ID

			return m, func() tea.Msg { return OpenSaleMsg{SaleID: id} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SalesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Carregando vendas...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	help := lipgloss.NewStyle().Faint(true).
		Render("Enter: parcelas | r: atualizar | Esc: voltar")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, tableView, help),
	)
}

func (m *SalesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.sales))
	for _, s := range m.sales {
		rows = append(rows, table.Row{
			s.CustomerName,
			string(s.Status),
			FormatDate(s.PurchaseDate),
			FormatAmount(s.TotalValue),
			fmt.Sprintf("%d", s.InstallmentCount),
			s.PaymentMethod,
			s.Litter,
		})
	}
	m.table.SetRows(rows)
}

type loadSalesMsg struct {
	sales []*sale.Sale
	err   error
}

func (m SalesModel) loadSalesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		sales, err := m.saleService.List(ctx)
		return loadSalesMsg{sales: sales, err: err}
	}
}
