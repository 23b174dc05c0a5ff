package docx

import (
	"bytes"
	"encoding/xml"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/vitae/pkg/errors"
)

// Part names inside the package.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partCore         = "docProps/core.xml"
	partApp          = "docProps/app.xml"
)

// Content types.
const (
	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML       = "application/xml"
	ctDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ctCore      = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp       = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// Relationship types.
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCore           = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relApp            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

type part struct {
	name string
	body any
}

// pack serializes parts into a ZIP container. [Content_Types].xml goes
// first so the output always starts with a local file header.
func pack(parts []part, modified time.Time, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	for _, p := range parts {
		data, err := xml.Marshal(p.body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode %s", p.name)
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "create %s", p.name)
		}
		if _, err := io.WriteString(w, xmlHeader); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write %s", p.name)
		}
		if _, err := w.Write(data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write %s", p.name)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "close package")
	}
	return buf.Bytes(), nil
}

func contentTypes() ctTypes {
	return ctTypes{
		NS: nsCT,
		Defaults: []ctDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []ctOverride{
			{PartName: "/" + partDocument, ContentType: ctDocument},
			{PartName: "/" + partStyles, ContentType: ctStyles},
			{PartName: "/" + partNumbering, ContentType: ctNumbering},
			{PartName: "/" + partCore, ContentType: ctCore},
			{PartName: "/" + partApp, ContentType: ctApp},
		},
	}
}

func rootRels() relationships {
	return relationships{
		NS: nsRels,
		Rels: []relationship{
			{ID: "rId1", Type: relOfficeDocument, Target: partDocument},
			{ID: "rId2", Type: relCore, Target: partCore},
			{ID: "rId3", Type: relApp, Target: partApp},
		},
	}
}

func documentRels() relationships {
	return relationships{
		NS: nsRels,
		Rels: []relationship{
			{ID: "rId1", Type: relStyles, Target: "styles.xml"},
			{ID: "rId2", Type: relNumbering, Target: "numbering.xml"},
		},
	}
}

func core(title, creator, id string, at time.Time) coreProps {
	stamp := w3cDate{Type: "dcterms:W3CDTF", Value: at.UTC().Format(time.RFC3339)}
	return coreProps{
		NSCP:       "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		NSDC:       "http://purl.org/dc/elements/1.1/",
		NSDCTerms:  "http://purl.org/dc/terms/",
		NSXSI:      "http://www.w3.org/2001/XMLSchema-instance",
		Title:      title,
		Creator:    creator,
		Identifier: id,
		Created:    stamp,
		Modified:   stamp,
	}
}

func app(version string) appProps {
	return appProps{
		NS:          "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties",
		Application: "vitae",
		AppVersion:  version,
	}
}
