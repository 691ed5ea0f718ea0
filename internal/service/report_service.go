package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/repository/storage"
	"github.com/dafibh/underwriter/underwriter-backend/internal/websocket"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ReportLinkExpiry is how long report download links stay valid
const ReportLinkExpiry = 24 * time.Hour

// mismoNamespace is the default namespace of exported deal XML
const mismoNamespace = "http://www.mismo.org/residential/2009/schemas"

var ErrReportStorageNotConfigured = errors.New("report storage not configured")

// Report formats
const (
	ReportFormatMarkdown = "markdown"
	ReportFormatHTML     = "html"
	ReportFormatXML      = "xml"
)

// ReportDocument is one stored rendition of a deal report
type ReportDocument struct {
	Format      string `json:"format"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	URL         string `json:"url"`
}

// Report lists the documents generated for a deal
type Report struct {
	DealID      int32            `json:"dealId"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Documents   []ReportDocument `json:"documents"`
}

// ReportService renders analyzed deals as Markdown, HTML and XML and stores
// them in object storage
type ReportService struct {
	storage        storage.ObjectStore
	dealRepo       domain.DealRepository
	markdown       goldmark.Markdown
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewReportService creates a new ReportService. A nil store disables
// generation.
func NewReportService(store storage.ObjectStore, dealRepo domain.DealRepository) *ReportService {
	return &ReportService{
		storage:  store,
		dealRepo: dealRepo,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReportService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// IsEnabled indicates whether reports can be stored
func (s *ReportService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// GenerateReports renders the deal's latest analysis in every format,
// uploads the documents and returns presigned download links
func (s *ReportService) GenerateReports(ctx context.Context, workspaceID, dealID int32) (*Report, error) {
	if !s.IsEnabled() {
		return nil, ErrReportStorageNotConfigured
	}

	deal, err := s.dealRepo.GetByID(workspaceID, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Analysis == nil {
		return nil, domain.ErrDealNotAnalyzed
	}

	markdown := RenderMarkdown(deal)
	page, err := s.RenderHTML(deal.Name, markdown)
	if err != nil {
		return nil, err
	}
	xml, err := RenderXML(deal)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	base := fmt.Sprintf("%d/deals/%d/reports/%s", workspaceID, dealID, generatedAt.Format("20060102T150405Z"))
	renditions := []struct {
		format      string
		ext         string
		contentType string
		body        []byte
	}{
		{ReportFormatMarkdown, "md", "text/markdown; charset=utf-8", []byte(markdown)},
		{ReportFormatHTML, "html", "text/html; charset=utf-8", page},
		{ReportFormatXML, "xml", "application/xml", xml},
	}

	report := &Report{DealID: dealID, GeneratedAt: generatedAt}
	for _, r := range renditions {
		key, err := s.storage.Upload(ctx, base+"."+r.ext, bytes.NewReader(r.body), r.contentType, int64(len(r.body)))
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s report: %w", r.format, err)
		}
		url, err := s.storage.GeneratePresignedURL(ctx, key, ReportLinkExpiry)
		if err != nil {
			return nil, err
		}
		report.Documents = append(report.Documents, ReportDocument{
			Format:      r.format,
			Key:         key,
			ContentType: r.contentType,
			URL:         url,
		})
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, websocket.ReportGenerated(report))
	}
	return report, nil
}

// RenderHTML converts a Markdown report into a standalone HTML page
func (s *ReportService) RenderHTML(title, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := s.markdown.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	page.WriteString(html.EscapeString(title))
	page.WriteString("</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// escapeCell keeps user text from breaking a Markdown table row
func escapeCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// RenderMarkdown builds the report summary of an analyzed deal
func RenderMarkdown(deal *domain.Deal) string {
	a := deal.Analysis
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", deal.Name)
	fmt.Fprintf(&b, "Deal `%s` (%s), analyzed %s.\n\n", deal.PublicID, deal.Type, a.AnalyzedAt.UTC().Format(time.RFC1123))

	b.WriteString("## Loan\n\n")
	b.WriteString("| Term | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Loan amount | %s |\n", money(deal.LoanAmount))
	fmt.Fprintf(&b, "| Annual rate | %s%% |\n", deal.AnnualRatePercent.String())
	if deal.IsInterestOnly {
		b.WriteString("| Amortization | Interest only |\n")
	} else {
		fmt.Fprintf(&b, "| Amortization | %d months |\n", deal.AmortizationMonths)
	}
	if deal.Type == domain.DealTypeBlanket {
		fmt.Fprintf(&b, "| Allocation | %s |\n", deal.AllocationMethod)
	}

	b.WriteString("\n## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Monthly P&I | %s |\n", money(a.MonthlyPI))
	fmt.Fprintf(&b, "| Monthly PITIA | %s |\n", money(a.MonthlyPITIA))
	fmt.Fprintf(&b, "| Monthly rent | %s |\n", money(a.MonthlyRent))
	fmt.Fprintf(&b, "| DSCR | %s |\n", a.DSCRRatio.StringFixed(2))
	fmt.Fprintf(&b, "| LTV | %s%% |\n", a.LTVRatio.StringFixed(2))
	fmt.Fprintf(&b, "| Qualifies (1.00) | %s |\n", yesNo(a.Qualifies))
	fmt.Fprintf(&b, "| Qualifies (1.25) | %s |\n", yesNo(a.QualifiesStandard))
	if !a.BalanceDifference.IsZero() {
		fmt.Fprintf(&b, "| Unallocated balance | %s |\n", money(a.BalanceDifference))
	}

	b.WriteString("\n## Properties\n\n")
	b.WriteString("| # | Property | Address | Allocated | Value | Rent | PITIA | DSCR | LTV |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for i, p := range a.Properties {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s%% |\n",
			i+1,
			escapeCell(p.PropertyID),
			escapeCell(p.Address),
			money(p.AllocatedLoanAmount),
			money(p.PropertyValue),
			money(p.UnderwritingRent),
			money(p.MonthlyPITIA),
			p.DSCRRatio.StringFixed(2),
			p.LTVRatio.StringFixed(2),
		)
	}

	if len(a.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	if deal.Notes != nil && strings.TrimSpace(*deal.Notes) != "" {
		fmt.Fprintf(&b, "\n## Notes\n\n%s\n", strings.TrimSpace(*deal.Notes))
	}
	return b.String()
}

// RenderXML exports an analyzed deal as MISMO-style XML
func RenderXML(deal *domain.Deal) ([]byte, error) {
	a := deal.Analysis
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	set := doc.CreateElement("DEAL_SET")
	set.CreateAttr("xmlns", mismoNamespace)
	dealEl := set.CreateElement("DEAL")
	dealEl.CreateAttr("DealIdentifier", deal.PublicID.String())
	dealEl.CreateAttr("DealType", string(deal.Type))

	loan := dealEl.CreateElement("LOANS").CreateElement("LOAN")
	terms := loan.CreateElement("TERMS_OF_LOAN")
	terms.CreateElement("BaseLoanAmount").SetText(deal.LoanAmount.StringFixed(2))
	terms.CreateElement("NoteRatePercent").SetText(deal.AnnualRatePercent.String())

	amortization := loan.CreateElement("AMORTIZATION_RULE")
	amortization.CreateElement("LoanAmortizationPeriodCount").SetText(strconv.Itoa(int(deal.AmortizationMonths)))
	amortization.CreateElement("LoanAmortizationPeriodType").SetText("Month")
	amortization.CreateElement("InterestOnlyIndicator").SetText(strconv.FormatBool(deal.IsInterestOnly))

	payment := loan.CreateElement("PAYMENT")
	payment.CreateElement("PrincipalAndInterestPaymentAmount").SetText(a.MonthlyPI.StringFixed(2))
	payment.CreateElement("TotalMonthlyHousingExpenseAmount").SetText(a.MonthlyPITIA.StringFixed(2))

	qualification := loan.CreateElement("QUALIFICATION")
	qualification.CreateElement("DebtServiceCoverageRatioPercent").SetText(a.DSCRRatio.StringFixed(2))
	qualification.CreateElement("LTVRatioPercent").SetText(a.LTVRatio.StringFixed(2))
	qualification.CreateElement("MonthlyRentAmount").SetText(a.MonthlyRent.StringFixed(2))
	qualification.CreateElement("QualifiesIndicator").SetText(strconv.FormatBool(a.Qualifies))

	collaterals := dealEl.CreateElement("COLLATERALS")
	for i, p := range a.Properties {
		collateral := collaterals.CreateElement("COLLATERAL")
		collateral.CreateAttr("SequenceNumber", strconv.Itoa(i+1))
		property := collateral.CreateElement("SUBJECT_PROPERTY")
		property.CreateAttr("PropertyIdentifier", p.PropertyID)
		property.CreateElement("ADDRESS").CreateElement("AddressLineText").SetText(p.Address)
		property.CreateElement("PropertyValuationAmount").SetText(p.PropertyValue.StringFixed(2))
		property.CreateElement("AllocatedLoanAmount").SetText(p.AllocatedLoanAmount.StringFixed(2))
		property.CreateElement("MonthlyRentAmount").SetText(p.UnderwritingRent.StringFixed(2))
		property.CreateElement("TotalMonthlyHousingExpenseAmount").SetText(p.MonthlyPITIA.StringFixed(2))
		property.CreateElement("DebtServiceCoverageRatioPercent").SetText(p.DSCRRatio.StringFixed(2))
		property.CreateElement("LTVRatioPercent").SetText(p.LTVRatio.StringFixed(2))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("render report xml: %w", err)
	}
	return out, nil
}
