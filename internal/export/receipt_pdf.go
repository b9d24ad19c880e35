package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/ukydev/municipal-assets/internal/models"
)

const (
	pdfFont      = "Arial"
	pdfLineH     = 6.0
	pdfLabelW    = 55.0
	pdfSignBoxW  = 85.0
	pdfSignBoxH  = 28.0
	pdfDateStamp = "02/01/2006 15:04"
)

// Names resolves directory identifiers to display names. Identifiers missing
// from the map are printed as they are.
type Names map[models.ID]string

func (n Names) of(id models.ID) string {
	if id.IsZero() {
		return "-"
	}
	if name, ok := n[id]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return id.String()
}

// WriteReceiptPDF renders a handover receipt as a printable A4 acta with the
// parties, witnesses, observations and the state of both signatures.
func WriteReceiptPDF(w io.Writer, r models.HandoverReceipt, names Names) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle("Acta de entrega-recepción "+r.ReceiptNumber, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 15)
	pdf.CellFormat(0, 10, tr("ACTA DE ENTREGA-RECEPCIÓN"), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 11)
	number := r.ReceiptNumber
	if number == "" {
		number = r.ID.String()
	}
	pdf.CellFormat(0, 7, tr("N.º "+number), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	field := func(label, value string) {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(pdfLabelW, pdfLineH, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		pdf.MultiCell(0, pdfLineH, tr(value), "", "L", false)
	}
	section := func(title string) {
		pdf.Ln(3)
		pdf.SetFont(pdfFont, "B", 11)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(0, 7, tr(title), "", 1, "L", true, 0, "")
		pdf.Ln(1)
	}

	section("Datos generales")
	field("Estado:", statusLabel(r.ReceiptStatus))
	field("Movimiento:", r.MovementID.String())
	field("Generada por:", names.of(r.GeneratedBy))
	if r.CreatedAt != nil && !r.CreatedAt.IsZero() {
		field("Fecha de emisión:", r.CreatedAt.Format(pdfDateStamp))
	}

	section("Partes")
	field("Entrega:", names.of(r.DeliveringResponsibleID))
	field("Recibe:", names.of(r.ReceivingResponsibleID))
	if !r.Witness1ID.IsZero() {
		field("Testigo 1:", names.of(r.Witness1ID))
	}
	if !r.Witness2ID.IsZero() {
		field("Testigo 2:", names.of(r.Witness2ID))
	}

	if r.DeliveryObservations != "" || r.ReceptionObservations != "" || r.SpecialConditions != "" {
		section("Observaciones")
		if r.DeliveryObservations != "" {
			field("En la entrega:", r.DeliveryObservations)
		}
		if r.ReceptionObservations != "" {
			field("En la recepción:", r.ReceptionObservations)
		}
		if r.SpecialConditions != "" {
			field("Condiciones especiales:", r.SpecialConditions)
		}
	}

	section("Firmas")
	pdf.Ln(pdfSignBoxH - 8)
	y := pdf.GetY()
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	boxes := []struct {
		x     float64
		title string
		who   models.ID
		at    *models.Timestamp
	}{
		{left, "Entrega", r.DeliveringResponsibleID, r.DeliverySignatureDate},
		{pageW - right - pdfSignBoxW, "Recibe", r.ReceivingResponsibleID, r.ReceptionSignatureDate},
	}
	for _, b := range boxes {
		pdf.Line(b.x, y, b.x+pdfSignBoxW, y)
		pdf.SetXY(b.x, y+1)
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(pdfSignBoxW, pdfLineH, tr(b.title+": "+names.of(b.who)), "", 2, "C", false, 0, "")
		pdf.SetFont(pdfFont, "I", 9)
		pdf.CellFormat(pdfSignBoxW, pdfLineH, tr(signatureLabel(b.at)), "", 2, "C", false, 0, "")
	}

	pdf.SetAutoPageBreak(false, 0)
	pdf.SetY(-15)
	pdf.SetFont(pdfFont, "I", 8)
	pdf.CellFormat(0, 5, tr("Documento generado el "+time.Now().Format(pdfDateStamp)), "", 0, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render receipt %s: %w", number, err)
	}
	return nil
}

func signatureLabel(at *models.Timestamp) string {
	if at == nil || at.IsZero() {
		return "Pendiente de firma"
	}
	return "Firmado el " + at.Format(pdfDateStamp)
}

func statusLabel(s models.ReceiptStatus) string {
	switch s {
	case models.ReceiptGenerated:
		return "Generada"
	case models.ReceiptPartiallySigned:
		return "Firmada parcialmente"
	case models.ReceiptFullySigned:
		return "Firmada"
	case models.ReceiptVoided:
		return "Anulada"
	case "":
		return "-"
	default:
		return string(s)
	}
}
