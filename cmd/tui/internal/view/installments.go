package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

// InstallmentsModel shows the installment schedule of one sale, or the whole
// installment table when saleID is empty. The pay action only exists in the
// single-sale mode.
type InstallmentsModel struct {
	saleService *sale.Service
	saleID      string

	table        table.Model
	installments []*sale.Installment
	loading      bool
	err          error
	status       string
}

func NewInstallmentsModel(saleSvc *sale.Service, saleID string) InstallmentsModel {
	columns := []table.Column{
		{Title: "Venda", Width: 36},
		{Title: "Nº", Width: 4},
		{Title: "Valor", Width: 12},
		{Title: "Vencimento", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Pago em", Width: 12},
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

	return InstallmentsModel{
		saleService: saleSvc,
		saleID:      saleID,
		table:       t,
		loading:     true,
	}
}

func (m InstallmentsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InstallmentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInstallmentsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.installments = msg.installments
		m.refreshTable()
		return m, nil

	case payMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		if msg.result.Updated {
			m.status = fmt.Sprintf("Parcela paga. Venda: %s (%d/%d)",
				msg.result.Status, msg.result.Paid, msg.result.Total)
		} else {
			m.status = "Parcela já estava paga."
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			if m.saleID == "" {
				return m, nil
			}

			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.installments) {
				return m, nil
			}

			return m, m.payCmd(m.installments[idx].Number)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InstallmentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Carregando parcelas...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	helpText := "r: atualizar | Esc: voltar"
	if m.saleID != "" {
		helpText = "p: marcar paga | " + helpText
	}

	help := lipgloss.NewStyle().Faint(true).Render(helpText)

	content := lipgloss.JoinVertical(lipgloss.Left, tableView, help)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InstallmentsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.installments))
	for _, i := range m.installments {
		paidAt := ""
		if i.PaidAt != nil {
			paidAt = FormatDate(*i.PaidAt)
		}

		rows = append(rows, table.Row{
			i.SaleID,
			fmt.Sprintf("%d", i.Number),
			FormatAmount(i.Value),
			FormatDate(i.DueDate),
			string(i.Status),
			paidAt,
		})
	}
	m.table.SetRows(rows)
}

type loadInstallmentsMsg struct {
	installments []*sale.Installment
	err          error
}

func (m InstallmentsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		var (
			installments []*sale.Installment
			err          error
		)

		if m.saleID == "" {
			installments, err = m.saleService.ListInstallments(ctx)
		} else {
			installments, err = m.saleService.SaleInstallments(ctx, m.saleID)
		}

		return loadInstallmentsMsg{installments: installments, err: err}
	}
}

type payMsg struct {
	result *sale.PaymentResult
	err    error
}

func (m InstallmentsModel) payCmd(number int) tea.Cmd {
	saleID := m.saleID

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		result, err := m.saleService.PayInstallment(ctx, saleID, number)
		return payMsg{result: result, err: err}
	}
}
