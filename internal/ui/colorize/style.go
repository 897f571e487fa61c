// Package colorize provides terminal highlighting for generated listings
// and trace output.
package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

func init() {
	_ = ListingDark
}

// Theme colors
const (
	ColorClass   = "#FFC800" // yellow for class names
	ColorMember  = "#87CEEB" // light blue for members
	ColorNumber  = "#FF80C0" // pink for numbers
	ColorComment = "#FF8000" // orange for comments
	ColorString  = "#00FF00" // green for strings
	ColorDetail  = "#B4B4B4" // light gray for details
)

// ListingDark is the style used for rewritten bodies.
var ListingDark = styles.Register(chroma.MustNewStyle("shade-dark", chroma.StyleEntries{
	chroma.Text:       "#FFFFFF",
	chroma.Background: "bg:#000000",
	chroma.Comment:    ColorComment,

	chroma.Keyword:            "#FFFFFF bold",
	chroma.KeywordType:        ColorMember,
	chroma.KeywordConstant:    ColorNumber,
	chroma.KeywordDeclaration: "#FFFFFF bold",
	chroma.Name:               "#FFFFFF",
	chroma.NameBuiltin:        ColorMember,
	chroma.NameFunction:       ColorClass,
	chroma.NameOther:          "#FFFFFF",

	chroma.LiteralNumber:        ColorNumber,
	chroma.LiteralNumberHex:     ColorNumber,
	chroma.LiteralNumberInteger: ColorNumber,
	chroma.LiteralNumberFloat:   ColorNumber,

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFFFFF",

	chroma.String: ColorString,
}))
