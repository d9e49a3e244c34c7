// Package invoice renders an order receipt as an A4 PDF.
package invoice

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"petstore/internal/models"
)

var (
	colorPrimary = &props.Color{Red: 31, Green: 97, Blue: 141}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

type Renderer struct {
	storeName string
}

func NewRenderer(storeName string) *Renderer {
	return &Renderer{storeName: storeName}
}

// Render builds the receipt. address may be nil when the delivery address
// could not be resolved.
func (r *Renderer) Render(order models.Order, address *models.Address) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido "+order.OrderID, true).
		WithAuthor(r.storeName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(r.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(deliveryRow(order, address))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(itemsHeaderRow())
	for _, l := range order.Products {
		m.AddRows(itemRow(l))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow("Subtotal", order.SubTotalAmt, false))
	m.AddRows(totalRow("Total", order.TotalAmt, true))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice %s: %w", order.OrderID, err)
	}
	return doc.GetBytes(), nil
}

func (r *Renderer) headerRow(order models.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.storeName, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Estado: "+order.Status, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(order.OrderID, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1}),
			text.New("Fecha: "+order.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 7, Color: colorGray}),
			text.New("Pago: "+order.PaymentStatus, props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
		),
	)
}

func deliveryRow(order models.Order, address *models.Address) core.Row {
	detail := order.DeliveryAddress
	if address != nil {
		detail = fmt.Sprintf("%s, %s, %s (%s)", address.AddressDetail, address.Neighborhood, address.City, address.Department)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ENTREGA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(detail, props.Text{Size: 9, Top: 6}),
		),
	)
}

func itemsHeaderRow() core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New("Cant.", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1})),
		col.New(10).Add(text.New("Producto", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
	)
}

func itemRow(l models.OrderLine) core.Row {
	return row.New(6).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(10).Add(text.New(l.ProductDetails.Name, props.Text{Size: 8, Top: 1})),
	)
}

func totalRow(label string, amount float64, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(7).Add(
		col.New(8).Add(text.New(label, props.Text{Style: style, Size: 9, Align: align.Right, Top: 1})),
		col.New(4).Add(text.New("$ "+FormatAmount(amount), props.Text{Style: style, Size: 9, Align: align.Right, Top: 1})),
	)
}

// FormatAmount prints an amount with two decimals.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
