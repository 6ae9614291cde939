package source

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap struct {
		NavPoints []navPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type navPoint struct {
	Label struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type tocEntry struct {
	title string
	level int
}

// buildTOCHrefMap parses the NCX and maps each content href, with and
// without its fragment and directory, to the first entry pointing at it.
func buildTOCHrefMap(filename string, book *epub.Rootfile) map[string]tocEntry {
	result := make(map[string]tocEntry)

	data, err := findAndReadNCX(filename, book)
	if err != nil {
		return result
	}
	var toc ncx
	if err := xml.Unmarshal(data, &toc); err != nil {
		return result
	}

	add := func(key string, e tocEntry) {
		if _, ok := result[key]; !ok && key != "" {
			result[key] = e
		}
	}
	var walk func(points []navPoint, level int)
	walk = func(points []navPoint, level int) {
		for _, np := range points {
			e := tocEntry{title: strings.TrimSpace(np.Label.Text), level: level}
			href, _, _ := strings.Cut(np.Content.Src, "#")
			if e.title != "" {
				add(href, e)
				add(path.Base(href), e)
			}
			walk(np.Children, level+1)
		}
	}
	walk(toc.NavMap.NavPoints, 0)
	return result
}

func findAndReadNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range book.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}
	if ncxPath == "" {
		return nil, errors.New("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}
