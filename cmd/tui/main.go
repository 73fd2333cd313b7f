package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/jataidesja-hub/gerenciamento/cmd/tui/internal/view"
	"github.com/jataidesja-hub/gerenciamento/internal/config"
	"github.com/jataidesja-hub/gerenciamento/internal/database"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
	saleStore "github.com/jataidesja-hub/gerenciamento/internal/sale/store"
)

type model struct {
	saleService *sale.Service

	currentView View

	salesView        view.SalesModel
	installmentsView view.InstallmentsModel
	newSaleView      view.NewSaleModel
}

type View int

const (
	ViewMenu            View = 0
	ViewSales           View = 1
	ViewInstallments    View = 2
	ViewNewSale         View = 3
	ViewAllInstallments View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	repo, err := newRepository(cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	saleSvc := sale.NewService(repo)

	return model{
		saleService: saleSvc,
		currentView: ViewMenu,
		salesView:   view.NewSalesModel(saleSvc),
	}
}

func newRepository(cfg *config.Config) (sale.Repository, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		return saleStore.NewPostgres(db), nil
	case config.DriverWorkbook:
		return saleStore.OpenWorkbook(cfg.Store.Workbook)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewNewSale
				m.newSaleView = view.NewNewSaleModel(m.saleService)

				return m, m.newSaleView.Init()
			case "2":
				m.currentView = ViewSales
				m.salesView = view.NewSalesModel(m.saleService)

				return m, m.salesView.Init()
			case "3":
				m.currentView = ViewAllInstallments
				m.installmentsView = view.NewInstallmentsModel(m.saleService, "")

				return m, m.installmentsView.Init()
			}
		}
	case view.OpenSaleMsg:
		m.currentView = ViewInstallments
		m.installmentsView = view.NewInstallmentsModel(m.saleService, msg.SaleID)

		return m, m.installmentsView.Init()
	case view.BackMsg:
		if m.currentView == ViewInstallments {
			m.currentView = ViewSales
			return m, nil
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewSales:
		var newModel tea.Model
		newModel, cmd = m.salesView.Update(msg)
		m.salesView = newModel.(view.SalesModel)
	case ViewInstallments, ViewAllInstallments:
		var newModel tea.Model
		newModel, cmd = m.installmentsView.Update(msg)
		m.installmentsView = newModel.(view.InstallmentsModel)
	case ViewNewSale:
		var newModel tea.Model
		newModel, cmd = m.newSaleView.Update(msg)
		m.newSaleView = newModel.(view.NewSaleModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Gerenciamento de Vendas\n\n" +
				"1. Nova Venda\n" +
				"2. Vendas\n" +
				"3. Parcelas\n\n" +
				"q. Sair",
		)
	case ViewSales:
		return m.salesView.View()
	case ViewInstallments, ViewAllInstallments:
		return m.installmentsView.View()
	case ViewNewSale:
		return m.newSaleView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
