// internal/escpos/graphics.go
package escpos

// GraphicsKind tags the Graphics union
type GraphicsKind int

const (
	GraphicsImage GraphicsKind = iota
	GraphicsBarcode
	GraphicsCode2D
	GraphicsRectangle
	GraphicsLine
)

func (k GraphicsKind) String() string {
	switch k {
	case GraphicsImage:
		return "IMAGE"
	case GraphicsBarcode:
		return "BARCODE"
	case GraphicsCode2D:
		return "CODE2D"
	case GraphicsRectangle:
		return "RECTANGLE"
	case GraphicsLine:
		return "LINE"
	}
	return "UNKNOWN"
}

// MarshalText implements encoding.TextMarshaler
func (k GraphicsKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Graphics is a renderable payload: *Image, *Barcode, *Code2D, *Rectangle
// or *Line
type Graphics interface {
	Kind() GraphicsKind
}

// Image is a monochrome bitmap stored as packed rows, most significant bit
// first, each row padded to a whole byte
type Image struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	ScaleX int    `json:"scale_x"`
	ScaleY int    `json:"scale_y"`
	Data   []byte `json:"-"`
}

// Kind implements Graphics
func (*Image) Kind() GraphicsKind { return GraphicsImage }

// Stride is the number of bytes per row
func (img *Image) Stride() int { return (img.Width + 7) / 8 }

// At reports whether the dot at (x, y) is printed
func (img *Image) At(x, y int) bool {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return false
	}
	i := y*img.Stride() + x/8
	if i >= len(img.Data) {
		return false
	}
	return img.Data[i]&(0x80>>(x%8)) != 0
}

func (img *Image) set(x, y int) {
	img.Data[y*img.Stride()+x/8] |= 0x80 >> (x % 8)
}

// newRasterImage wraps row-major raster data. Missing trailing bytes print
// as blank
func newRasterImage(width, height int, data []byte) *Image {
	img := &Image{Width: width, Height: height, ScaleX: 1, ScaleY: 1}
	img.Data = make([]byte, img.Stride()*height)
	copy(img.Data, data)
	return img
}

// newColumnImage converts column-major data, where each column is
// ceil(height/8) bytes with the top dot in the most significant bit
func newColumnImage(width, height int, data []byte) *Image {
	img := &Image{Width: width, Height: height, ScaleX: 1, ScaleY: 1}
	img.Data = make([]byte, img.Stride()*height)
	perColumn := (height + 7) / 8
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			i := x*perColumn + y/8
			if i >= len(data) {
				return img
			}
			if data[i]&(0x80>>(y%8)) != 0 {
				img.set(x, y)
			}
		}
	}
	return img
}

// Barcode is a 1D symbol to encode and print
type Barcode struct {
	Symbology string         `json:"symbology"`
	Type      byte           `json:"type"`
	Data      []byte         `json:"data"`
	Style     BarcodeContext `json:"style"`
}

// Kind implements Graphics
func (*Barcode) Kind() GraphicsKind { return GraphicsBarcode }

// Code2D is a two-dimensional symbol to generate and print
type Code2D struct {
	Symbology Symbology `json:"symbology"`
	Data      []byte    `json:"data"`
	Size      int       `json:"size"`
	ECC       int       `json:"ecc"`
	Model     int       `json:"model,omitempty"`
	Columns   int       `json:"columns,omitempty"`
	Rows      int       `json:"rows,omitempty"`
}

// Kind implements Graphics
func (*Code2D) Kind() GraphicsKind { return GraphicsCode2D }

// Rectangle is a page-mode rectangle in dots
type Rectangle struct {
	X1    int  `json:"x1"`
	Y1    int  `json:"y1"`
	X2    int  `json:"x2"`
	Y2    int  `json:"y2"`
	Style byte `json:"style"`
	Fill  byte `json:"fill"`
}

// Kind implements Graphics
func (*Rectangle) Kind() GraphicsKind { return GraphicsRectangle }

// Line is a page-mode straight line in dots
type Line struct {
	X1    int  `json:"x1"`
	Y1    int  `json:"y1"`
	X2    int  `json:"x2"`
	Y2    int  `json:"y2"`
	Style byte `json:"style"`
}

// Kind implements Graphics
func (*Line) Kind() GraphicsKind { return GraphicsLine }

// DeviceCommandKind enumerates printer side effects
type DeviceCommandKind int

const (
	DeviceInitialize DeviceCommandKind = iota
	DeviceFeedLines
	DeviceFeedDots
	DeviceFullCut
	DevicePartialCut
	DevicePulse
	DeviceCancel
	DeviceMoveX
	DeviceMoveXRelative
	DeviceMoveY
	DeviceMoveYRelative
	DeviceJustify
	DeviceBeginPrint
	DeviceEndPrint
	DeviceBeginPageMode
	DeviceEndPageMode
	DeviceStatusRequest
	DevicePowerOff
)

var deviceCommandNames = [...]string{
	DeviceInitialize:    "INITIALIZE",
	DeviceFeedLines:     "FEED_LINES",
	DeviceFeedDots:      "FEED_DOTS",
	DeviceFullCut:       "FULL_CUT",
	DevicePartialCut:    "PARTIAL_CUT",
	DevicePulse:         "PULSE",
	DeviceCancel:        "CANCEL",
	DeviceMoveX:         "MOVE_X",
	DeviceMoveXRelative: "MOVE_X_RELATIVE",
	DeviceMoveY:         "MOVE_Y",
	DeviceMoveYRelative: "MOVE_Y_RELATIVE",
	DeviceJustify:       "JUSTIFY",
	DeviceBeginPrint:    "BEGIN_PRINT",
	DeviceEndPrint:      "END_PRINT",
	DeviceBeginPageMode: "BEGIN_PAGE_MODE",
	DeviceEndPageMode:   "END_PAGE_MODE",
	DeviceStatusRequest: "STATUS_REQUEST",
	DevicePowerOff:      "POWER_OFF",
}

func (k DeviceCommandKind) String() string {
	if k < 0 || int(k) >= len(deviceCommandNames) {
		return "UNKNOWN"
	}
	return deviceCommandNames[k]
}

// MarshalText implements encoding.TextMarshaler
func (k DeviceCommandKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// DeviceCommand is a printer-control side effect. Value and Aux carry the
// numeric arguments of the kind (lines, dots, pin and pulse times, ...)
type DeviceCommand struct {
	Kind  DeviceCommandKind `json:"kind"`
	Value int               `json:"value,omitempty"`
	Aux   int               `json:"aux,omitempty"`
}
