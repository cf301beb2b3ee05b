// internal/escpos/symbology.go
package escpos

// Symbology names a 2D code family
type Symbology string

const (
	SymbologyPDF417     Symbology = "PDF417"
	SymbologyQR         Symbology = "QR"
	SymbologyMaxiCode   Symbology = "MAXICODE"
	SymbologyGS1DataBar Symbology = "GS1_DATABAR"
	SymbologyComposite  Symbology = "COMPOSITE"
	SymbologyAztec      Symbology = "AZTEC"
	SymbologyDataMatrix Symbology = "DATAMATRIX"
)

// barcodeSymbologies maps GS k m to a symbology name. Values 0-6 use the
// NUL-terminated form, 65 and above the length-prefixed form
var barcodeSymbologies = map[byte]string{
	0:  "UPC-A",
	1:  "UPC-E",
	2:  "JAN13",
	3:  "JAN8",
	4:  "CODE39",
	5:  "ITF",
	6:  "CODABAR",
	65: "UPC-A",
	66: "UPC-E",
	67: "JAN13",
	68: "JAN8",
	69: "CODE39",
	70: "ITF",
	71: "CODABAR",
	72: "CODE93",
	73: "CODE128",
	74: "GS1-128",
	75: "GS1 DATABAR OMNIDIRECTIONAL",
	76: "GS1 DATABAR TRUNCATED",
	77: "GS1 DATABAR LIMITED",
	78: "GS1 DATABAR EXPANDED",
	79: "CODE128 AUTO",
}
