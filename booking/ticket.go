package booking

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
	"wowzie/models"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// BookingQR serves a PNG QR of the booking reference, scanned by hosts
// at check-in.
func BookingQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bk, _, code, err := loadBookingForTicket(ctx, ps.ByName("bookingid"), callerID)
	if err != nil {
		utils.RespondWithError(w, code, err.Error())
		return
	}
	if bk.Status != models.BookingConfirmed {
		utils.RespondWithError(w, http.StatusConflict, "Booking is not confirmed")
		return
	}

	png, err := qrcode.Encode(bk.Reference, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// BookingReceipt renders a PDF confirmation with camp details and the
// check-in QR embedded.
func BookingReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bk, camp, code, err := loadBookingForTicket(ctx, ps.ByName("bookingid"), callerID)
	if err != nil {
		utils.RespondWithError(w, code, err.Error())
		return
	}

	qrPNG, err := qrcode.Encode(bk.Reference, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Camp: %s", camp.Name))
	pdf.Ln(8)
	if camp.Location != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Location: %s", camp.Location))
		pdf.Ln(8)
	}
	pdf.Cell(0, 10, fmt.Sprintf("Reference: %s", bk.Reference))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", bk.Status))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Guests: %d", bk.GuestsCount))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f %s", float64(bk.TotalCents)/100, bk.Currency))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=booking-"+bk.Reference+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
