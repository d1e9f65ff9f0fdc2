package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// extractXLSX walks the OOXML shared-strings part, which holds every
// distinct cell string in the workbook.
func extractXLSX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	var shared *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "xl/sharedStrings.xml" {
			shared = f
			break
		}
	}
	if shared == nil {
		// Workbook without string cells has no sharedStrings part.
		return "", nil
	}

	rc, err := shared.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return collectSharedStrings(rc)
}

func collectSharedStrings(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "si" && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
