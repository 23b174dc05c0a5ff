package docx

import (
	"encoding/xml"

	"github.com/matzehuels/vitae/pkg/render/geometry"
)

// Namespaces used by the package parts.
const (
	nsW    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT   = "http://schemas.openxmlformats.org/package/2006/content-types"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// ====================================================================
// word/document.xml
// ====================================================================

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	NSW     string   `xml:"xmlns:w,attr"`
	NSR     string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []wParagraph `xml:"w:p"`
	Section    wSectPr      `xml:"w:sectPr"`
}

type wParagraph struct {
	Props *wPPr  `xml:"w:pPr,omitempty"`
	Runs  []wRun `xml:"w:r"`
}

// wPPr fields are declared in schema order.
type wPPr struct {
	Numbering *wNumPr   `xml:"w:numPr,omitempty"`
	Border    *wPBdr    `xml:"w:pBdr,omitempty"`
	Shading   *wShd     `xml:"w:shd,omitempty"`
	Tabs      *wTabs    `xml:"w:tabs,omitempty"`
	Spacing   *wSpacing `xml:"w:spacing,omitempty"`
	Indent    *wInd     `xml:"w:ind,omitempty"`
	Justify   *wVal     `xml:"w:jc,omitempty"`
}

type wRun struct {
	Props *wRPr   `xml:"w:rPr,omitempty"`
	Tab   *wEmpty `xml:"w:tab,omitempty"`
	Text  *wText  `xml:"w:t,omitempty"`
}

// wRPr fields are declared in schema order.
type wRPr struct {
	Fonts  *wFonts `xml:"w:rFonts,omitempty"`
	Bold   *wEmpty `xml:"w:b,omitempty"`
	Italic *wEmpty `xml:"w:i,omitempty"`
	Caps   *wEmpty `xml:"w:caps,omitempty"`
	Color  *wVal   `xml:"w:color,omitempty"`
	Size   *wInt   `xml:"w:sz,omitempty"`
	SizeCs *wInt   `xml:"w:szCs,omitempty"`
}

type wEmpty struct{}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wInt struct {
	Val int `xml:"w:val,attr"`
}

type wText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type wFonts struct {
	ASCII    string `xml:"w:ascii,attr"`
	HAnsi    string `xml:"w:hAnsi,attr"`
	CS       string `xml:"w:cs,attr"`
	EastAsia string `xml:"w:eastAsia,attr"`
}

type wNumPr struct {
	Level wInt `xml:"w:ilvl"`
	NumID wInt `xml:"w:numId"`
}

type wPBdr struct {
	Bottom *wBorder `xml:"w:bottom,omitempty"`
}

type wBorder struct {
	Val   string `xml:"w:val,attr"`
	Size  int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type wShd struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

type wTabs struct {
	Tabs []wTab `xml:"w:tab"`
}

type wTab struct {
	Val string         `xml:"w:val,attr"`
	Pos geometry.Twips `xml:"w:pos,attr"`
}

type wSpacing struct {
	Before geometry.Twips `xml:"w:before,attr"`
	After  geometry.Twips `xml:"w:after,attr"`
}

type wInd struct {
	Left    geometry.Twips `xml:"w:left,attr"`
	Hanging geometry.Twips `xml:"w:hanging,attr"`
}

type wSectPr struct {
	PageSize   wPgSz  `xml:"w:pgSz"`
	PageMargin wPgMar `xml:"w:pgMar"`
}

type wPgSz struct {
	W geometry.Twips `xml:"w:w,attr"`
	H geometry.Twips `xml:"w:h,attr"`
}

type wPgMar struct {
	Top    geometry.Twips `xml:"w:top,attr"`
	Right  geometry.Twips `xml:"w:right,attr"`
	Bottom geometry.Twips `xml:"w:bottom,attr"`
	Left   geometry.Twips `xml:"w:left,attr"`
	Header geometry.Twips `xml:"w:header,attr"`
	Footer geometry.Twips `xml:"w:footer,attr"`
	Gutter geometry.Twips `xml:"w:gutter,attr"`
}

// ====================================================================
// word/styles.xml
// ====================================================================

type wStyles struct {
	XMLName  xml.Name    `xml:"w:styles"`
	NSW      string      `xml:"xmlns:w,attr"`
	Defaults wDocDefault `xml:"w:docDefaults"`
	Styles   []wStyle    `xml:"w:style"`
}

type wDocDefault struct {
	Run       wRPrDefault `xml:"w:rPrDefault"`
	Paragraph wPPrDefault `xml:"w:pPrDefault"`
}

type wRPrDefault struct {
	Props wRPr `xml:"w:rPr"`
}

type wPPrDefault struct {
	Props wPPr `xml:"w:pPr"`
}

type wStyle struct {
	Type    string  `xml:"w:type,attr"`
	Default int     `xml:"w:default,attr,omitempty"`
	ID      string  `xml:"w:styleId,attr"`
	Name    wVal    `xml:"w:name"`
	QFormat *wEmpty `xml:"w:qFormat,omitempty"`
}

// ====================================================================
// word/numbering.xml
// ====================================================================

type wNumbering struct {
	XMLName  xml.Name       `xml:"w:numbering"`
	NSW      string         `xml:"xmlns:w,attr"`
	Abstract []wAbstractNum `xml:"w:abstractNum"`
	Nums     []wNum         `xml:"w:num"`
}

type wAbstractNum struct {
	ID        int    `xml:"w:abstractNumId,attr"`
	MultiType wVal   `xml:"w:multiLevelType"`
	Levels    []wLvl `xml:"w:lvl"`
}

type wLvl struct {
	Level   int  `xml:"w:ilvl,attr"`
	Start   wInt `xml:"w:start"`
	Format  wVal `xml:"w:numFmt"`
	Text    wVal `xml:"w:lvlText"`
	Justify wVal `xml:"w:lvlJc"`
	PPr     wPPr `xml:"w:pPr"`
	RPr     wRPr `xml:"w:rPr"`
}

type wNum struct {
	ID       int  `xml:"w:numId,attr"`
	Abstract wInt `xml:"w:abstractNumId"`
}

// ====================================================================
// Package plumbing: [Content_Types].xml, relationships, properties
// ====================================================================

type ctTypes struct {
	XMLName   xml.Name     `xml:"Types"`
	NS        string       `xml:"xmlns,attr"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	NS      string         `xml:"xmlns,attr"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type coreProps struct {
	XMLName    xml.Name `xml:"cp:coreProperties"`
	NSCP       string   `xml:"xmlns:cp,attr"`
	NSDC       string   `xml:"xmlns:dc,attr"`
	NSDCTerms  string   `xml:"xmlns:dcterms,attr"`
	NSXSI      string   `xml:"xmlns:xsi,attr"`
	Title      string   `xml:"dc:title,omitempty"`
	Creator    string   `xml:"dc:creator,omitempty"`
	Identifier string   `xml:"dc:identifier"`
	Created    w3cDate  `xml:"dcterms:created"`
	Modified   w3cDate  `xml:"dcterms:modified"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

type appProps struct {
	XMLName     xml.Name `xml:"Properties"`
	NS          string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
	AppVersion  string   `xml:"AppVersion,omitempty"`
}
