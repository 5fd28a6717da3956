package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/utils"
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 32, "L"},
	{"Transaction", 48, "L"},
	{"Type", 34, "L"},
	{"Amount", 38, "R"},
	{"Balance", 38, "R"},
}

// WriteStatementPDF renders the statement as an A4 PDF document
func WriteStatementPDF(w io.Writer, stmt *service.Statement) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(fmt.Sprintf("Statement %s", stmt.Account.AccountNumber), true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Account Statement", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(stmt.Account.HolderName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Account "+stmt.Account.AccountNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+stmt.GeneratedAt.Local().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(220, 230, 240)
		for _, c := range columns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, line := range stmt.Lines {
		if pdf.GetY()+6 > pageHeight-bottom-15 {
			pdf.AddPage()
			header()
		}

		t := line.Transaction
		cells := []string{
			t.CreatedAt.Local().Format(constants.DateFormat),
			fmt.Sprintf("%d", t.ID),
			t.Kind.Label(),
			utils.FormatAmount(t.Amount),
			utils.FormatAmount(line.Balance),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Total credits: "+utils.FormatAmount(stmt.Credits), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Total debits: "+utils.FormatAmount(stmt.Debits), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Closing balance: "+utils.FormatAmount(stmt.Closing), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write statement PDF: %w", err)
	}
	return nil
}
