// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/samber/lo"
	"github.com/your-org/mobilestore-api/internal/config"
	"github.com/your-org/mobilestore-api/internal/domain/order"
	"golang.org/x/text/currency"
)

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	OrderDate     string
	Status        string
	Currency      string
	Company       CompanyInfo
	Customer      CustomerInfo
	Lines         []InvoiceLine
	Total         string
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
}

// CustomerInfo is the billed customer
type CustomerInfo struct {
	Name    string
	Email   string
	Address string
}

// InvoiceLine is one rendered order line
type InvoiceLine struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

// GenerateInvoice renders o as a PDF invoice
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data, err := s.invoiceData(o)
	if err != nil {
		return nil, err
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) invoiceData(o *order.Order) (InvoiceData, error) {
	unit, err := currency.ParseISO(s.config.App.Currency)
	if err != nil {
		return InvoiceData{}, fmt.Errorf("invalid invoice currency %q: %w", s.config.App.Currency, err)
	}

	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%06d", o.ID),
		InvoiceDate:   s.now().Format("January 2, 2006"),
		OrderDate:     o.CreatedAt.Format("January 2, 2006"),
		Status:        string(o.Status),
		Currency:      unit.String(),
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Email:   s.config.App.CompanyEmail,
		},
		Lines: lo.Map(o.Items, func(item order.OrderItem, _ int) InvoiceLine {
			line := InvoiceLine{
				Name:      fmt.Sprintf("Product #%d", item.ProductID),
				Quantity:  item.Quantity,
				UnitPrice: item.Price.StringFixed(2),
				Subtotal:  item.Subtotal().StringFixed(2),
			}
			// the product may have been deleted since the order was placed
			if item.Product != nil {
				line.Name = item.Product.Name
				line.SKU = item.Product.SKU
			}
			return line
		}),
		Total: o.Total.StringFixed(2),
	}

	if o.User != nil {
		data.Customer = CustomerInfo{
			Name:    o.User.Name,
			Email:   o.User.Email,
			Address: o.User.Address,
		}
	}

	return data, nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; border-bottom: 2px solid #333; padding-bottom: 16px; }
        .company h1 { margin: 0; font-size: 24px; }
        .meta { text-align: right; font-size: 13px; }
        .customer { margin: 24px 0; font-size: 13px; }
        table { width: 100%; border-collapse: collapse; font-size: 13px; }
        th, td { padding: 8px; border-bottom: 1px solid #ddd; text-align: left; }
        td.num, th.num { text-align: right; }
        .total { margin-top: 16px; text-align: right; font-size: 16px; font-weight: bold; }
    </style>
</head>
<body>
    <div class="header">
        <div class="company">
            <h1>{{.Company.Name}}</h1>
            <div>{{.Company.Address}}</div>
            <div>{{.Company.Email}}</div>
        </div>
        <div class="meta">
            <h2>INVOICE</h2>
            <div>Invoice: {{.InvoiceNumber}}</div>
            <div>Issued: {{.InvoiceDate}}</div>
            <div>Order date: {{.OrderDate}}</div>
            <div>Status: {{.Status}}</div>
        </div>
    </div>

    <div class="customer">
        <strong>Bill to</strong>
        <div>{{.Customer.Name}}</div>
        <div>{{.Customer.Email}}</div>
        <div>{{.Customer.Address}}</div>
    </div>

    <table>
        <thead>
            <tr>
                <th>Item</th>
                <th>SKU</th>
                <th class="num">Qty</th>
                <th class="num">Unit price</th>
                <th class="num">Subtotal</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td>{{.Name}}</td>
                <td>{{.SKU}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{$.Currency}} {{.UnitPrice}}</td>
                <td class="num">{{$.Currency}} {{.Subtotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="total">Total: {{.Currency}} {{.Total}}</div>
</body>
</html>
`
