// Package render turns ledger reports into markdown and renders them for the terminal.
package render

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/ndewijer/papertrade/internal/model"
)

var funcs = template.FuncMap{
	"money":  Money,
	"signed": SignedMoney,
	"price":  Price,
	"time": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04:05")
	},
	"currentPrice": func(p model.Position) string {
		if !p.PriceAvailable {
			return "n/a"
		}
		return Price(p.CurrentPrice)
	},
}

func execute(name, text string, data any) string {
	tmpl := template.Must(template.New(name).Funcs(funcs).Parse(text))
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}

const portfolioTemplate = `# Portfolio of {{ .Username }}

| Symbol | Quantity | Avg Cost | Price | Cost Basis | Market Value | Unrealized P/L |
|:---|---:|---:|---:|---:|---:|---:|
{{- range .Positions }}
| {{ .Symbol }} | {{ .Quantity }} | {{ price .AverageCost }} | {{ currentPrice . }} | {{ money .CostBasis }} | {{ money .MarketValue }} | {{ signed .UnrealizedPL }} |
{{- end }}
| **Total** | | | | **{{ money .TotalCost }}** | **{{ money .TotalValue }}** | **{{ signed .TotalUnrealizedPL }}** |

- Cash balance: **{{ money .CashBalance }}**
- Portfolio value (at cost): **{{ money .BookValue }}**
- Net worth: **{{ money .NetWorth }}**
`

// Portfolio renders the portfolio view as markdown.
func Portfolio(v *model.PortfolioView) string {
	md := execute("portfolio", portfolioTemplate, v)
	for _, p := range v.Positions {
		if !p.PriceAvailable {
			md += "\n_Prices marked n/a could not be fetched and are valued at $0.00._\n"
			break
		}
	}
	return md
}

const historyTemplate = `# Transaction History

{{ if . -}}
| Time | Type | Symbol | Quantity | Price | Total |
|:---|:---|:---|---:|---:|---:|
{{- range . }}
| {{ time .ExecutedAt }} | {{ .Kind }} | {{ .Symbol }} | {{ .Quantity }} | {{ price .Price }} | {{ money .Total }} |
{{- end }}
{{- else -}}
No transactions yet.
{{- end }}
`

// History renders transactions, in the order given, as markdown.
func History(transactions []model.Transaction) string {
	return execute("history", historyTemplate, transactions)
}

const leaderboardTemplate = `# Leaderboard

{{ if . -}}
| Rank | User | Cash | Portfolio Value | Net Worth |
|---:|:---|---:|---:|---:|
{{- range . }}
| {{ .Rank }} | {{ .Username }} | {{ money .CashBalance }} | {{ money .TotalPortfolioValue }} | **{{ money .NetWorth }}** |
{{- end }}
{{- else -}}
No accounts yet.
{{- end }}
`

// Leaderboard renders ranked accounts as markdown.
func Leaderboard(entries []model.LeaderboardEntry) string {
	return execute("leaderboard", leaderboardTemplate, entries)
}

const tradeTemplate = `# {{ if eq .Transaction.Kind "buy" }}Bought{{ else }}Sold{{ end }} {{ .Transaction.Quantity }} {{ .Transaction.Symbol }} @ {{ price .Transaction.Price }}

- Total: **{{ money .Total }}**
- Cash balance: **{{ money .CashBalance }}**
{{- if .Holding }}
- Position: {{ .Holding.Quantity }} shares at {{ price .Holding.AverageCost }} average cost
{{- else }}
- Position closed
{{- end }}
- Portfolio value (at cost): **{{ money .TotalPortfolioValue }}**
- Transaction: ` + "`{{ .Transaction.ID }}`" + ` at {{ time .Transaction.ExecutedAt }}
`

// Trade renders the outcome of an executed trade as markdown.
func Trade(r *model.TradeResult) string {
	return execute("trade", tradeTemplate, r)
}

const listingsTemplate = `# Market{{ with .Exchange }} ({{ . }}){{ end }}

{{ if .Listings -}}
| Symbol | Description | Price |
|:---|:---|---:|
{{- range .Listings }}
| {{ .Symbol }} | {{ .Description }} | {{ price .Price }} |
{{- end }}
{{- else -}}
No priced symbols found.
{{- end }}
`

// Listings renders an exchange listing as markdown.
func Listings(exchange string, listings []model.Listing) string {
	return execute("listings", listingsTemplate, struct {
		Exchange string
		Listings []model.Listing
	}{exchange, listings})
}

// Quote renders a single price as markdown.
func Quote(l model.Listing) string {
	return fmt.Sprintf("**%s**: %s\n", l.Symbol, Price(l.Price))
}

// Account renders an account summary as markdown.
func Account(a *model.Account) string {
	return execute("account", `# {{ .Username }}

- Account: `+"`{{ .ID }}`"+`
- Member since: {{ time .CreatedAt }}
- Cash balance: **{{ money .CashBalance }}**
- Portfolio value (at cost): **{{ money .TotalPortfolioValue }}**
- Net worth: **{{ money .NetWorth }}**
`, a)
}
