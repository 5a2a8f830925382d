// Package pdf renders the quote (presupuesto) document using maroto/v2.
// Documents are produced on demand from the assembled quote view and never stored.
package pdf

import (
	"fmt"
	"strings"

	"presupuestos_backend/internal/quotes/transport"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ── Colour palette ──────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorAccent    = &props.Color{Red: 37, Green: 99, Blue: 235}   // blue-600
	colorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249} // slate-100
	colorTableAlt  = &props.Color{Red: 249, Green: 250, Blue: 251} // gray-50
	colorGreen     = &props.Color{Red: 22, Green: 163, Blue: 74}   // green-600
	colorRed       = &props.Color{Red: 220, Green: 38, Blue: 38}   // red-600
	colorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240} // slate-200
)

// QuoteDocument holds everything printed on a quote.
type QuoteDocument struct {
	Quote      transport.QuoteResponse
	ClientName string
	// IssuerName is printed in the header and footer.
	IssuerName string
}

// Generator renders quote documents.
type Generator struct {
	issuerName string
}

// NewGenerator creates a generator printing issuerName as the sender.
func NewGenerator(issuerName string) *Generator {
	return &Generator{issuerName: issuerName}
}

// Render builds the PDF for a quote and its client.
func (g *Generator) Render(quote transport.QuoteResponse, clientName string) ([]byte, error) {
	return GenerateQuotePDF(QuoteDocument{Quote: quote, ClientName: clientName, IssuerName: g.issuerName})
}

// GenerateQuotePDF creates the PDF bytes for the given quote document.
func GenerateQuotePDF(data QuoteDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(buildFooter(data)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	m.AddRows(buildHeader(data)...)
	m.AddRows(separator())
	m.AddRows(row.New(6))

	m.AddRows(buildDetailsBlock(data)...)
	m.AddRows(row.New(6))

	m.AddRows(buildLinesTable(data.Quote.Lines)...)
	m.AddRows(row.New(4))

	m.AddRows(buildTotalsBlock(data.Quote)...)

	if conditions := buildConditions(data.Quote); len(conditions) > 0 {
		m.AddRows(row.New(8))
		m.AddRows(conditions...)
	}

	if data.Quote.State == transport.QuoteStateDenied && data.Quote.DenialReason != "" {
		m.AddRows(row.New(6))
		m.AddRows(buildTextSection("MOTIVO DE DENEGACIÓN", data.Quote.DenialReason)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// FileName returns the download name of a quote document.
func FileName(q transport.QuoteResponse) string {
	ref := q.ID.String()
	if q.QuoteNumber != nil && *q.QuoteNumber != "" {
		ref = *q.QuoteNumber
	}
	return fmt.Sprintf("Presupuesto-%s.pdf", ref)
}

// ── Header ──────────────────────────────────────────────────────────────

func buildHeader(data QuoteDocument) []core.Row {
	number := data.Quote.ID.String()
	if data.Quote.QuoteNumber != nil && *data.Quote.QuoteNumber != "" {
		number = *data.Quote.QuoteNumber
	}

	return []core.Row{
		row.New(20).Add(
			col.New(4).Add(text.New(data.IssuerName, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Color: colorPrimary,
				Top:   4,
			})),
			col.New(8).Add(
				text.New("PRESUPUESTO", props.Text{
					Size:  24,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: colorAccent,
				}),
				text.New(number, props.Text{
					Size:  9,
					Align: align.Right,
					Color: colorSecondary,
					Top:   12,
				}),
			),
		),
	}
}

// ── Details block ───────────────────────────────────────────────────────

func buildDetailsBlock(data QuoteDocument) []core.Row {
	q := data.Quote
	label := props.Text{Size: 7, Style: fontstyle.Bold, Color: colorAccent}
	labelRight := props.Text{Size: 7, Style: fontstyle.Bold, Color: colorAccent, Align: align.Right}
	value := props.Text{Size: 8, Color: colorSecondary}
	valueRight := props.Text{Size: 8, Color: colorSecondary, Align: align.Right}

	rows := []core.Row{
		row.New(5).Add(
			col.New(6).Add(text.New("CLIENTE", label)),
			col.New(6).Add(text.New("DATOS DEL PRESUPUESTO", labelRight)),
		),
		row.New(5).Add(
			col.New(6).Add(text.New(data.ClientName, props.Text{Size: 9, Style: fontstyle.Bold, Color: colorPrimary})),
			col.New(6).Add(text.New("Fecha: "+q.QuoteDate, valueRight)),
		),
		row.New(5).Add(
			col.New(6).Add(text.New(prefixed("Obra: ", q.DeliverySite), value)),
			col.New(6).Add(text.New(fmt.Sprintf("Validez: %d días", q.ValidityDays), valueRight)),
		),
		row.New(5).Add(
			col.New(6).Add(text.New(prefixed("Contacto: ", q.ContactPerson), value)),
			col.New(6).Add(text.New("Estado: "+translateState(q.State), props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Color: stateColor(q.State),
				Align: align.Right,
			})),
		),
	}

	if q.ReviewDate != nil {
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(6).Add(text.New("Revisado: "+*q.ReviewDate, valueRight)),
		))
	}
	return rows
}

// ── Lines table ─────────────────────────────────────────────────────────

func buildLinesTable(lines []transport.QuoteLineResponse) []core.Row {
	rows := []core.Row{
		row.New(7).Add(
			col.New(12).Add(text.New("ARTÍCULOS", props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Color: colorAccent,
			})),
		),
	}

	head := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Top: 1.5}
	headRight := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right, Top: 1.5}

	rows = append(rows, row.New(7).Add(
		col.New(2).Add(text.New("Código", head)),
		col.New(4).Add(text.New("Descripción", head)),
		col.New(1).Add(text.New("Cant.", headRight)),
		col.New(2).Add(text.New("Precio", headRight)),
		col.New(1).Add(text.New("Dto.", headRight)),
		col.New(2).Add(text.New("Importe", headRight)),
	).WithStyle(&props.Cell{
		BackgroundColor: colorTableHead,
		BorderType:      border.Bottom,
		BorderColor:     colorBorder,
	}))

	for i, l := range lines {
		rows = append(rows, buildLineRow(l, i))
	}
	return rows
}

func buildLineRow(l transport.QuoteLineResponse, idx int) core.Row {
	normal := props.Text{Size: 8, Color: colorPrimary, Top: 1}
	right := props.Text{Size: 8, Color: colorPrimary, Align: align.Right, Top: 1}

	r := row.New(7).Add(
		col.New(2).Add(text.New(l.ArticleID, normal)),
		col.New(4).Add(text.New(l.Description, normal)),
		col.New(1).Add(text.New(formatNumber(l.Quantity), right)),
		col.New(2).Add(text.New(formatCurrency(l.UnitPrice), right)),
		col.New(1).Add(text.New(formatNumber(l.DiscountPct)+"%", right)),
		col.New(2).Add(text.New(formatCurrency(l.LineTotal), right)),
	)

	if idx%2 == 0 {
		r.WithStyle(&props.Cell{BackgroundColor: colorTableAlt})
	}
	return r
}

// ── Totals block ────────────────────────────────────────────────────────

func buildTotalsBlock(q transport.QuoteResponse) []core.Row {
	label := props.Text{Size: 9, Color: colorSecondary, Align: align.Right}
	value := props.Text{Size: 9, Color: colorPrimary, Align: align.Right}
	strong := props.Text{Size: 12, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right, Top: 2}

	rows := []core.Row{
		separator(),
		row.New(3),
		row.New(6).Add(
			col.New(9).Add(text.New("Importe bruto", label)),
			col.New(3).Add(text.New(formatCurrency(q.GrossTotal), value)),
		),
	}

	if q.DiscountTotal != 0 {
		rows = append(rows, row.New(6).Add(
			col.New(9).Add(text.New("Descuentos", label)),
			col.New(3).Add(text.New("-"+formatCurrency(q.DiscountTotal), props.Text{Size: 9, Color: colorGreen, Align: align.Right})),
		))
	}

	rows = append(rows,
		row.New(2),
		row.New(10).Add(
			col.New(9).Add(text.New("TOTAL NETO", strong)),
			col.New(3).Add(text.New(formatCurrency(q.NetTotal), strong)),
		).WithStyle(&props.Cell{
			BackgroundColor: colorTableHead,
			BorderType:      border.Top | border.Bottom,
			BorderColor:     colorBorder,
		}),
	)
	return rows
}

// ── Conditions ──────────────────────────────────────────────────────────

func buildConditions(q transport.QuoteResponse) []core.Row {
	var rows []core.Row
	add := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		rows = append(rows, buildTextSection(title, body)...)
	}

	add("FORMA DE PAGO", q.PaymentTerms)
	if q.PalletPrice != 0 {
		add("PRECIO POR PALÉ", formatCurrency(q.PalletPrice))
	}
	add("CONDICIONES DE TRANSPORTE", q.TruckConditions)
	add("CONDICIONES DE DESCARGA", q.UnloadingConditions)
	add("CONDICIONES FISCALES", q.TaxConditions)
	add("OBSERVACIONES", q.Observations)
	return rows
}

func buildTextSection(title, body string) []core.Row {
	return []core.Row{
		row.New(5).Add(
			col.New(12).Add(text.New(title, props.Text{
				Size:  7,
				Style: fontstyle.Bold,
				Color: colorAccent,
			})),
		),
		row.New(8).Add(
			col.New(12).Add(text.New(body, props.Text{
				Size:  8,
				Color: colorSecondary,
				Top:   1,
			})),
		),
	}
}

// ── Footer ──────────────────────────────────────────────────────────────

func buildFooter(data QuoteDocument) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(data.IssuerName, props.Text{
				Size:  6.5,
				Color: colorSecondary,
				Align: align.Center,
				Top:   4,
			}),
		),
	).WithStyle(&props.Cell{
		BorderType:  border.Top,
		BorderColor: colorBorder,
	})
}

// ── Helpers ─────────────────────────────────────────────────────────────

func separator() core.Row {
	return row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: colorBorder,
	})
}

func stateColor(state transport.QuoteState) *props.Color {
	switch state {
	case transport.QuoteStateApproved:
		return colorGreen
	case transport.QuoteStateDenied:
		return colorRed
	case transport.QuoteStateSubmitted:
		return colorAccent
	default:
		return colorSecondary
	}
}

func translateState(state transport.QuoteState) string {
	switch state {
	case transport.QuoteStateDraft:
		return "Borrador"
	case transport.QuoteStateSubmitted:
		return "Pendiente de revisión"
	case transport.QuoteStateApproved:
		return "Aprobado"
	case transport.QuoteStateDenied:
		return "Denegado"
	default:
		return string(state)
	}
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("%.2f €", amount)
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
