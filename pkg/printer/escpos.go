package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// QR error correction levels for GS ( k function 169.
const (
	QRCorrectionL = 48
	QRCorrectionM = 49
	QRCorrectionQ = 50
	QRCorrectionH = 51
)

// DefaultWidth is the character width of 58mm paper.
const DefaultWidth = 32

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf   bytes.Buffer
	width int // print width in characters (32 for 58mm, 48 for 80mm)
}

// NewDocument creates a new ESC/POS document with the given character width.
// Common widths: 32 for 58mm paper, 48 for 80mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = DefaultWidth
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width returns the configured line width in characters.
func (d *Document) Width() int {
	return d.width
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	d.buf.WriteString(fmt.Sprintf(format, args...))
	d.buf.WriteByte(LF)
	return d
}

// Separator prints a full-width separator line (e.g. "--------------------------------").
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Subtotal           $100.00"
func (d *Document) KeyValue(key, value string) *Document {
	d.buf.WriteString(PadLine(key, value, d.width))
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints the right-aligned "qty x unit = total" line of a receipt item,
// with label (usually the SKU) on the left.
func (d *Document) ItemLine(label string, qty int, unit, total string) *Document {
	return d.KeyValue(label, fmt.Sprintf("%d x %s = %s", qty, unit, total))
}

// QRCode prints data as a model 2 QR code. size is the module size (1-16).
func (d *Document) QRCode(data string, size byte, correction byte) *Document {
	if size < 1 || size > 16 {
		size = 6
	}
	if correction < QRCorrectionL || correction > QRCorrectionH {
		correction = QRCorrectionM
	}

	// fn 165: select model 2
	d.buf.Write([]byte{GS, '(', 'k', 4, 0, 49, 65, 50, 0})
	// fn 167: module size
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 67, size})
	// fn 169: error correction
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 69, correction})

	// fn 180: store data, length counts the 3 header bytes
	n := len(data) + 3
	d.buf.Write([]byte{GS, '(', 'k', byte(n % 256), byte(n / 256), 49, 80, 48})
	d.buf.WriteString(data)

	// fn 181: print stored symbol
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 81, 48})
	return d
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns a copy of the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	out := make([]byte, d.buf.Len())
	copy(out, d.buf.Bytes())
	return out
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.Init()
	return d
}

// PadLine joins left and right with enough spaces to fill width characters.
// At least one space is always kept, so overlong content overflows instead of merging.
func PadLine(left, right string, width int) string {
	spaces := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

// Truncate shortens s to at most width characters, never splitting one.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == width {
			return s[:i]
		}
		n++
	}
	return s
}
