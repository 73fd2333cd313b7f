package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jataidesja-hub/gerenciamento/internal/money"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

type NewSaleModel struct {
	saleService *sale.Service

	form *huh.Form
	done bool
	err  error
	sl   *sale.Sale

	customer    string
	cityState   string
	phone       string
	purchase    string
	total       string
	method      string
	count       string
	status      string
	litter      string
	sex         string
	color       string
	delivery    string
	responsible string
}

func NewNewSaleModel(saleSvc *sale.Service) NewSaleModel {
	m := NewSaleModel{
		saleService: saleSvc,
		count:       "1",
		status:      string(sale.StatusOpen),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("customer").
				Title("Cliente").
				Value(&m.customer).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("cliente é obrigatório")
					}
					return nil
				}),

			huh.NewInput().
				Key("city_state").
				Title("Cidade/Estado").
				Value(&m.cityState),

			huh.NewInput().
				Key("phone").
				Title("Telefone").
				Value(&m.phone),

			huh.NewInput().
				Key("purchase").
				Title("Data da Compra").
				Placeholder("dd/mm/aaaa").
				Value(&m.purchase),

			huh.NewInput().
				Key("total").
				Title("Valor Total").
				Placeholder("1.200,00").
				Value(&m.total),

			huh.NewSelect[string]().
				Key("method").
				Title("Forma de Pagamento").
				Options(
					huh.NewOption("Pix", "Pix"),
					huh.NewOption("Dinheiro", "Dinheiro"),
					huh.NewOption("Cartão", "Cartão"),
					huh.NewOption("Transferência", "Transferência"),
				).
				Value(&m.method),

			huh.NewInput().
				Key("count").
				Title("Qtd. Parcelas").
				Value(&m.count),

			huh.NewSelect[string]().
				Key("status").
				Title("Status").
				Options(
					huh.NewOption(string(sale.StatusOpen), string(sale.StatusOpen)),
					huh.NewOption(string(sale.StatusPaid), string(sale.StatusPaid)),
				).
				Value(&m.status),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("litter").
				Title("Ninhada").
				Value(&m.litter),

			huh.NewSelect[string]().
				Key("sex").
				Title("Sexo").
				Options(
					huh.NewOption("Macho", "Macho"),
					huh.NewOption("Fêmea", "Fêmea"),
				).
				Value(&m.sex),

			huh.NewInput().
				Key("color").
				Title("Cor").
				Value(&m.color),

			huh.NewInput().
				Key("delivery").
				Title("Data de Entrega").
				Placeholder("dd/mm/aaaa").
				Value(&m.delivery),

			huh.NewInput().
				Key("responsible").
				Title("Responsável").
				Value(&m.responsible),
		),
	).WithWidth(50).WithShowHelp(true)

	return m
}

func (m NewSaleModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m NewSaleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saleCreatedMsg:
		m.done = true
		m.err = msg.err
		m.sl = msg.sl
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc || m.done {
			return m, Back
		}
	}

	if m.done {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m NewSaleModel) View() string {
	if m.done {
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(
				fmt.Sprintf("Error: %v\n\nPressione qualquer tecla para voltar.", m.err),
			)
		}

		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
			"Venda registrada.\n\nCliente: %s\nTotal: %s em %dx de %s\n\nPressione qualquer tecla para voltar.",
			m.sl.CustomerName,
			FormatAmount(m.sl.TotalValue),
			m.sl.InstallmentCount,
			FormatAmount(m.sl.InstallmentValue),
		))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		"Nova Venda\n\n" + m.form.View(),
	)
}

type saleCreatedMsg struct {
	sl  *sale.Sale
	err error
}

func (m NewSaleModel) createCmd() tea.Cmd {
	params := sale.CreateParams{
		Status:           sale.Status(m.form.GetString("status")),
		CustomerName:     m.form.GetString("customer"),
		CityState:        m.form.GetString("city_state"),
		Phone:            m.form.GetString("phone"),
		PurchaseDate:     parseFormDate(m.form.GetString("purchase")),
		TotalValue:       money.Coerce(m.form.GetString("total")),
		PaymentMethod:    m.form.GetString("method"),
		InstallmentCount: parseFormCount(m.form.GetString("count")),
		Litter:           m.form.GetString("litter"),
		Sex:              m.form.GetString("sex"),
		Color:            m.form.GetString("color"),
		DeliveryDate:     parseFormDate(m.form.GetString("delivery")),
		Responsible:      m.form.GetString("responsible"),
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		sl, err := m.saleService.Create(ctx, params)
		return saleCreatedMsg{sl: sl, err: err}
	}
}

func parseFormDate(s string) time.Time {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}

	return t
}

func parseFormCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}
