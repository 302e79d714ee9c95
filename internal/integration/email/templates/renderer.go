// Package templates provides email template rendering functionality.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

//go:embed *.html *.txt
var templateFS embed.FS

// CouponPaid is the name of the coupon payment notice template.
const CouponPaid = "coupon_paid"

var frenchPrinter = message.NewPrinter(language.French)

// Renderer handles email template rendering.
type Renderer struct {
	htmlTemplates *htmltemplate.Template
	textTemplates *texttemplate.Template
}

// NewRenderer creates a new template renderer.
func NewRenderer() (*Renderer, error) {
	htmlTmpl, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	textTmpl, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
	}, nil
}

// Render renders both HTML and text versions of a template.
func (r *Renderer) Render(templateName string, data interface{}) (html string, text string, err error) {
	var htmlBuf bytes.Buffer
	if err := r.htmlTemplates.ExecuteTemplate(&htmlBuf, templateName+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render HTML template %s: %w", templateName, err)
	}

	var textBuf bytes.Buffer
	if err := r.textTemplates.ExecuteTemplate(&textBuf, templateName+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to render text template %s: %w", templateName, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// RenderCouponPaid renders the notice of a paid coupon.
func (r *Renderer) RenderCouponPaid(notice *entity.CouponNotice, portalURL string) (html string, text string, err error) {
	return r.Render(CouponPaid, NewCouponPaidData(notice, portalURL))
}

// CouponPaidData contains data for the coupon payment notice template.
type CouponPaidData struct {
	InvestorName string
	ProjectName  string
	TrancheName  string
	Amount       string // "1 234,56 €"
	PaidAt       string // "30/04/2025"
	PeriodNumber int
	PortalURL    string
}

// NewCouponPaidData formats a notice the way amounts and dates are printed in French letters.
func NewCouponPaidData(notice *entity.CouponNotice, portalURL string) CouponPaidData {
	return CouponPaidData{
		InvestorName: notice.RecipientName,
		ProjectName:  notice.ProjectName,
		TrancheName:  notice.TrancheName,
		Amount:       FormatEuro(notice.Amount),
		PaidAt:       notice.PaidAt.Format("02/01/2006"),
		PeriodNumber: notice.PeriodNumber,
		PortalURL:    portalURL,
	}
}

// FormatEuro renders an amount with French separators and the euro sign.
func FormatEuro(amount decimal.Decimal) string {
	return frenchPrinter.Sprintf("%.2f €", amount.Round(2).InexactFloat64())
}
