package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"stock-predictor/internal/catalog"
	"stock-predictor/internal/models"
	"stock-predictor/internal/services"
)

func renderResult(w io.Writer, cat *catalog.Catalog, sel services.Selection, state services.RequestState, chartWindow int) {
	summary := services.DeriveMetrics(state.Series, sel).Summary()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Prediction Result: %s (%s)", sel.Symbol, cat.Name(sel.IndexID))
	t.AppendRow(table.Row{"6 Months Price", "$" + summary.Price6Months})
	t.AppendRow(table.Row{"1 Year Price", "$" + summary.Price1Year})
	t.AppendRow(table.Row{"Estimated future price", "$" + summary.FinalPrice})
	t.AppendRow(table.Row{"Total investment", "$" + summary.TotalInvestment})
	t.AppendRow(table.Row{"Profit / Loss", formatProfit(summary)})
	t.Render()

	if !summary.Valid {
		fmt.Fprintln(w, text.FgYellow.Sprint("Buy price or share count is not a number; figures read as 0."))
	}
	if state.Status == services.StatusFailed {
		fmt.Fprintln(w, text.FgRed.Sprint(state.Message))
		return
	}

	points := services.WindowForChart(state.Series, chartWindow)
	if len(points) == 0 {
		return
	}
	renderChartWindow(w, points)
}

func formatProfit(summary models.MetricsSummary) string {
	if summary.Gain {
		return text.FgGreen.Sprint("+$" + strings.TrimPrefix(summary.ProfitLoss, "+"))
	}
	return text.FgRed.Sprint("$" + summary.ProfitLoss)
}

func renderChartWindow(w io.Writer, points []models.ChartPoint) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Date", "Predicted"})
	for _, p := range points {
		t.AppendRow(table.Row{p.Date, "$" + services.FormatMoney(p.PredictedPrice)})
	}
	t.Render()
}

func renderCompanies(w io.Writer, indexName string, companies []models.Company) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(indexName)
	t.AppendHeader(table.Row{"#", "Symbol", "Logo"})
	for i, c := range companies {
		t.AppendRow(table.Row{i + 1, c.Symbol, c.Logo})
	}
	t.Render()
}

func renderIndices(w io.Writer, indices []models.IndexInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Companies"})
	for _, idx := range indices {
		t.AppendRow(table.Row{idx.ID, idx.Name, idx.Size})
	}
	t.Render()
}
