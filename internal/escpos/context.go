// internal/escpos/context.go
package escpos

// Justify is the horizontal alignment of printed lines
type Justify int

const (
	JustifyLeft Justify = iota
	JustifyCenter
	JustifyRight
)

func (j Justify) String() string {
	switch j {
	case JustifyCenter:
		return "CENTER"
	case JustifyRight:
		return "RIGHT"
	}
	return "LEFT"
}

// MarshalText implements encoding.TextMarshaler
func (j Justify) MarshalText() ([]byte, error) { return []byte(j.String()), nil }

// HRIPosition places the human readable text of a barcode
type HRIPosition int

const (
	HRINone HRIPosition = iota
	HRIAbove
	HRIBelow
	HRIBoth
)

// TextContext is the text style state
type TextContext struct {
	Font              byte    `json:"font"`
	Bold              bool    `json:"bold"`
	DoubleStrike      bool    `json:"double_strike"`
	Underline         byte    `json:"underline"`
	Justify           Justify `json:"justify"`
	WidthMult         byte    `json:"width_mult"`
	HeightMult        byte    `json:"height_mult"`
	Invert            bool    `json:"invert"`
	UpsideDown        bool    `json:"upside_down"`
	Rotate            bool    `json:"rotate"`
	Smoothing         bool    `json:"smoothing"`
	CodePage          byte    `json:"code_page"`
	CharSet           byte    `json:"char_set"`
	CharSpacing       byte    `json:"char_spacing"`
	LineSpacing       int     `json:"line_spacing"`
	UserChars         bool    `json:"user_chars"`
	Kanji             bool    `json:"kanji"`
	KanjiUnderline    byte    `json:"kanji_underline"`
	KanjiSpacingLeft  byte    `json:"kanji_spacing_left"`
	KanjiSpacingRight byte    `json:"kanji_spacing_right"`
	LeftMargin        int     `json:"left_margin"`
	PrintAreaWidth    int     `json:"print_area_width"`
	PageMode          bool    `json:"page_mode"`
	PageDirection     byte    `json:"page_direction"`
	MotionUnitX       int     `json:"motion_unit_x"`
	MotionUnitY       int     `json:"motion_unit_y"`
	PageArea          [4]int  `json:"page_area"`
	PanelButtonsLock  bool    `json:"panel_buttons_lock"`
}

// BarcodeContext is the 1D barcode style state
type BarcodeContext struct {
	Width       byte        `json:"width"`
	Height      byte        `json:"height"`
	HRIPosition HRIPosition `json:"hri_position"`
	HRIFont     byte        `json:"hri_font"`
}

// QRSettings holds GS ( k QR Code state
type QRSettings struct {
	Model int `json:"model"`
	Size  int `json:"size"`
	ECC   int `json:"ecc"`
}

// PDF417Settings holds GS ( k PDF417 state
type PDF417Settings struct {
	Columns   int  `json:"columns"`
	Rows      int  `json:"rows"`
	Width     int  `json:"width"`
	RowHeight int  `json:"row_height"`
	ECCMode   int  `json:"ecc_mode"`
	ECC       int  `json:"ecc"`
	Truncated bool `json:"truncated"`
}

// MaxiCodeSettings holds GS ( k MaxiCode state
type MaxiCodeSettings struct {
	Mode int `json:"mode"`
}

// GS1Settings holds GS ( k GS1 DataBar state
type GS1Settings struct {
	Width    int `json:"width"`
	MaxWidth int `json:"max_width"`
}

// CompositeSettings holds GS ( k composite symbology state
type CompositeSettings struct {
	Width    int  `json:"width"`
	MaxWidth int  `json:"max_width"`
	HRIFont  byte `json:"hri_font"`
}

// AztecSettings holds GS ( k Aztec Code state
type AztecSettings struct {
	Compact bool `json:"compact"`
	Layers  int  `json:"layers"`
	Size    int  `json:"size"`
	ECC     int  `json:"ecc"`
}

// DataMatrixSettings holds GS ( k Data Matrix state
type DataMatrixSettings struct {
	Rectangular bool `json:"rectangular"`
	Columns     int  `json:"columns"`
	Rows        int  `json:"rows"`
	Size        int  `json:"size"`
}

// Code2DContext is the 2D symbol state. Stored holds the data most recently
// saved in each symbology's symbol storage area
type Code2DContext struct {
	QR         QRSettings           `json:"qr"`
	PDF417     PDF417Settings       `json:"pdf417"`
	MaxiCode   MaxiCodeSettings     `json:"maxicode"`
	GS1        GS1Settings          `json:"gs1"`
	Composite  CompositeSettings    `json:"composite"`
	Aztec      AztecSettings        `json:"aztec"`
	DataMatrix DataMatrixSettings   `json:"datamatrix"`
	Stored     map[Symbology][]byte `json:"-"`
}

// StorageClass separates non-volatile and RAM graphics
type StorageClass int

const (
	NonVolatile StorageClass = iota
	Volatile
)

// ImageRef addresses a stored graphic
type ImageRef struct {
	K1      byte
	K2      byte
	Storage StorageClass
}

// GraphicsContext is the graphics state
type GraphicsContext struct {
	DPI        int                 `json:"dpi"`
	// Counter is the number of graphics produced since the last reset
	Counter    int                 `json:"counter"`
	Images     map[ImageRef]*Image `json:"-"`
	Buffer     *Image              `json:"-"`
	Downloaded *Image              `json:"-"`
}

// Context is the mutable state threaded through interpretation. One
// Context belongs to one stream; it has no synchronization
type Context struct {
	Text     TextContext     `json:"text"`
	Barcode  BarcodeContext  `json:"barcode"`
	Code2D   Code2DContext   `json:"code2d"`
	Graphics GraphicsContext `json:"graphics"`
}

// DefaultDPI is the dot density assumed until a command selects another
const DefaultDPI = 180

// NewContext returns a context in its power-on state
func NewContext() *Context {
	ctx := &Context{}
	ctx.Reset()
	return ctx
}

// Reset restores the power-on defaults. Non-volatile graphics survive a
// reset; RAM graphics, the print buffer and downloaded images do not
func (c *Context) Reset() {
	c.Text = TextContext{
		WidthMult:   1,
		HeightMult:  1,
		LineSpacing: 30,
		MotionUnitX: 180,
		MotionUnitY: 360,
	}
	c.Barcode = BarcodeContext{
		Width:       3,
		Height:      162,
		HRIPosition: HRINone,
	}
	c.Code2D = Code2DContext{
		QR:         QRSettings{Model: 2, Size: 3, ECC: 0},
		PDF417:     PDF417Settings{Width: 3, RowHeight: 3, ECCMode: 48, ECC: 1},
		MaxiCode:   MaxiCodeSettings{Mode: 2},
		GS1:        GS1Settings{Width: 2},
		Composite:  CompositeSettings{Width: 2},
		Aztec:      AztecSettings{Size: 3, ECC: 23},
		DataMatrix: DataMatrixSettings{Size: 3},
		Stored:     make(map[Symbology][]byte),
	}

	kept := make(map[ImageRef]*Image)
	for ref, img := range c.Graphics.Images {
		if ref.Storage == NonVolatile {
			kept[ref] = img
		}
	}
	c.Graphics = GraphicsContext{
		DPI:    DefaultDPI,
		Images: kept,
	}
}

// StoreImage saves img under ref, replacing any previous image
func (g *GraphicsContext) StoreImage(ref ImageRef, img *Image) {
	if g.Images == nil {
		g.Images = make(map[ImageRef]*Image)
	}
	g.Images[ref] = img
}

// Image returns the image stored under ref
func (g *GraphicsContext) Image(ref ImageRef) (*Image, bool) {
	img, ok := g.Images[ref]
	return img, ok
}

// DeleteImage removes the image stored under ref
func (g *GraphicsContext) DeleteImage(ref ImageRef) {
	delete(g.Images, ref)
}

// DeleteAll removes every image of one storage class
func (g *GraphicsContext) DeleteAll(storage StorageClass) {
	for ref := range g.Images {
		if ref.Storage == storage {
			delete(g.Images, ref)
		}
	}
}
