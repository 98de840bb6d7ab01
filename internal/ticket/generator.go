// Package ticket produces the verifiable ticket artifact handed to a
// booking holder: a QR image embedding the booking record, a
// verification URL derivable from the booking reference alone, and an
// HMAC signature so a forged image can be detected without a store
// lookup. Generation runs strictly after the booking transaction
// committed; its failure degrades the response to "ticket
// unavailable" and never voids the booking.
package ticket

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrArtifactGeneration signals that the artifact could not be
// produced. No partial artifact is ever returned alongside it.
var ErrArtifactGeneration = errors.New("ticket artifact generation failed")

// Data is the read-only booking summary the generator encodes. All
// fields come from rows read inside the committed transaction.
type Data struct {
	BookingID   uint64
	Reference   string
	EventTitle  string
	Venue       string
	EventDate   time.Time
	SeatLabels  []string
	AmountCents uint32
	HolderName  string
}

// payload is the wire record embedded in the QR image. The content is
// deterministic for a given booking except for GeneratedAt.
type payload struct {
	BookingID        uint64   `json:"booking_id"`
	BookingReference string   `json:"booking_reference"`
	EventTitle       string   `json:"event_title"`
	Venue            string   `json:"venue"`
	EventDate        string   `json:"event_date"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	HolderName       string   `json:"holder_name"`
	VerificationURL  string   `json:"verification_url"`
	Signature        string   `json:"signature"`
	GeneratedAt      string   `json:"generated_at"`
}

const (
	qrSize = 300 // pixels, square
)

// Generator encodes booking summaries into self-contained QR ticket
// images.
type Generator struct {
	baseURL string
	secret  []byte
}

// NewGenerator builds a Generator. baseURL is the public base of this
// service, embedded into verification URLs; secret keys the HMAC
// signature of the payload.
func NewGenerator(baseURL string, secret []byte) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), secret: secret}
}

// Generate encodes the booking record into a QR PNG and returns it as
// a data URL ("data:image/png;base64,..."). The embedded verification
// URL is derived purely from the booking reference so a stateless
// lookup by reference reproduces the same record from the store. On
// any encoding error ErrArtifactGeneration is returned and no partial
// artifact escapes.
func (g *Generator) Generate(d Data) (string, error) {
	p := payload{
		BookingID:        d.BookingID,
		BookingReference: d.Reference,
		EventTitle:       d.EventTitle,
		Venue:            d.Venue,
		EventDate:        d.EventDate.UTC().Format(time.RFC3339),
		SeatLabels:       d.SeatLabels,
		TotalAmountCents: d.AmountCents,
		HolderName:       d.HolderName,
		VerificationURL:  g.VerificationURL(d.Reference),
		Signature:        g.Sign(d),
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: marshal payload: %v", ErrArtifactGeneration, err)
	}
	png, err := qrcode.Encode(string(raw), qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("%w: encode qr: %v", ErrArtifactGeneration, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// VerificationURL returns the stateless lookup URL for a booking
// reference.
func (g *Generator) VerificationURL(reference string) string {
	return g.baseURL + "/api/verify-ticket/" + reference
}

// Sign computes the hex HMAC-SHA256 over the canonical record fields.
// GeneratedAt and the URL are excluded so the signature is stable for
// a given booking and can be recomputed from the store.
func (g *Generator) Sign(d Data) string {
	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%d|%s|%s|%s|%s|%s|%d|%s",
		d.BookingID, d.Reference, d.EventTitle, d.Venue,
		d.EventDate.UTC().Format(time.RFC3339),
		strings.Join(d.SeatLabels, ","), d.AmountCents, d.HolderName)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether sig is the valid signature for the record.
func (g *Generator) Verify(d Data, sig string) bool {
	want, err := hex.DecodeString(g.Sign(d))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}
