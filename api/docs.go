package api

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdnative-go/gdnative/errors"
)

// Docs is the documentation index: a mapping from (class, method) to a
// reformatted description block.
type Docs struct {
	entries map[docKey]string
}

type docKey struct {
	class  string
	method string
}

type xmlClass struct {
	XMLName xml.Name    `xml:"class"`
	Name    string      `xml:"name,attr"`
	Members []xmlMember `xml:"members>member"`
	Methods []xmlMethod `xml:"methods>method"`
}

type xmlMember struct {
	Name        string `xml:"name,attr"`
	Setter      string `xml:"setter,attr"`
	Getter      string `xml:"getter,attr"`
	Description string `xml:",chardata"`
}

type xmlMethod struct {
	Name        string        `xml:"name,attr"`
	Arguments   []xmlArgument `xml:"argument"`
	Description string        `xml:"description"`
}

type xmlArgument struct {
	Name    string `xml:"name,attr"`
	Default string `xml:"default,attr"`
}

// LoadDocs scans a directory of per-class XML files and builds the index.
// Non-XML files and files without a <class> element are skipped silently.
func LoadDocs(dir string) (*Docs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.ParseFailed("doc directory", err)
	}

	docs := &Docs{entries: make(map[docKey]string)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.ParseFailed(entry.Name(), err)
		}
		docs.addFile(data)
	}
	return docs, nil
}

// LoadDocsFromData builds the index from in-memory XML documents.
func LoadDocsFromData(files [][]byte) *Docs {
	docs := &Docs{entries: make(map[docKey]string)}
	for _, data := range files {
		docs.addFile(data)
	}
	return docs
}

func (d *Docs) addFile(data []byte) {
	var class xmlClass
	if err := xml.Unmarshal(data, &class); err != nil || class.Name == "" {
		// Not a class document; skipped by contract.
		return
	}

	// Members first: indexed accessors land under both the explicit
	// accessor names and the synthetic set_/get_ names. Explicit methods
	// walked afterwards may overwrite these.
	for _, m := range class.Members {
		desc := Reformat(strings.TrimSpace(m.Description))
		if desc == "" {
			continue
		}
		for _, name := range accessorNames(m) {
			d.entries[docKey{class.Name, name}] = desc
		}
	}

	for _, m := range class.Methods {
		desc := Reformat(strings.TrimSpace(m.Description))
		desc += defaultArgumentsTrailer(m.Arguments)
		if desc == "" {
			continue
		}
		d.entries[docKey{class.Name, m.Name}] = desc
	}
}

func accessorNames(m xmlMember) []string {
	var names []string
	if m.Setter != "" {
		names = append(names, m.Setter)
	}
	if m.Getter != "" {
		names = append(names, m.Getter)
	}
	if m.Setter != "" || m.Getter != "" {
		names = append(names, "set_"+m.Name, "get_"+m.Name)
	}
	return names
}

func defaultArgumentsTrailer(args []xmlArgument) string {
	var defaults []string
	for _, a := range args {
		if a.Default != "" {
			defaults = append(defaults, fmt.Sprintf("- %s: `%s`", a.Name, a.Default))
		}
	}
	if len(defaults) == 0 {
		return ""
	}
	return "\n\n# Default Arguments\n" + strings.Join(defaults, "\n")
}

// Get returns the indexed description for (class, method).
func (d *Docs) Get(class, method string) (string, bool) {
	desc, ok := d.entries[docKey{class, method}]
	return desc, ok
}

// Len returns the number of indexed entries.
func (d *Docs) Len() int { return len(d.entries) }
