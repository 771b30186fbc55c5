package poster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	schemaCacheMu sync.Mutex
	schemaCache   = make(map[string]*jsonschema.Schema)
)

// Document is the validated, fully populated poster consumed by the
// rendering and editing layers. After normalization every field holds a
// concrete value; renderers never need to check for absence.
type Document struct {
	Title        string    `json:"title"`
	Authors      []string  `json:"authors"`
	University   string    `json:"university"`
	Department   string    `json:"department"`
	LeftLogoURL  string    `json:"leftLogoUrl"`
	RightLogoURL string    `json:"rightLogoUrl"`
	Theme        Theme     `json:"theme"`
	Sections     []Section `json:"sections"`
	ContactInfo  Contact   `json:"contactInfo"`
	Warnings     []string  `json:"warnings"`
}

// Theme holds the eight color slots a poster layout uses. Every value is a
// hex color string.
type Theme struct {
	PrimaryColor      string `json:"primaryColor"`
	SecondaryColor    string `json:"secondaryColor"`
	AccentColor       string `json:"accentColor"`
	BackgroundColor   string `json:"backgroundColor"`
	TitleTextColor    string `json:"titleTextColor"`
	BodyTextColor     string `json:"bodyTextColor"`
	SectionTitleColor string `json:"sectionTitleColor"`
	BorderColor       string `json:"borderColor"`
}

type Contact struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`
	Address   string `json:"address"`
	QRCodeURL string `json:"qrCodeUrl"`
}

// Section is one titled block of the poster. ID is stable across reorders
// so the editor can reference a section independent of its position.
type Section struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Column  Column   `json:"column"`
	Design  *Design  `json:"design,omitempty"`
	Visuals []Visual `json:"visuals"`
}

// Design carries optional per-section presentation overrides.
type Design struct {
	Icon            string `json:"icon,omitempty"`
	Variant         string `json:"variant,omitempty"`
	TitleColor      string `json:"titleColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// VisualType tags the Visual union.
type VisualType string

const (
	VisualDonutChart VisualType = "donutChart"
	VisualLineChart  VisualType = "lineChart"
	VisualBarChart   VisualType = "barChart"
	VisualImage      VisualType = "image"
	VisualTable      VisualType = "table"
)

// Visual is a tagged union over the chart kinds a section can embed. Only
// the fields meaningful to Type are populated; the rest stay zero.
type Visual struct {
	Type VisualType `json:"type"`

	// donutChart
	Items []Segment `json:"items,omitempty"`

	// lineChart, barChart
	Labels []string `json:"labels,omitempty"`
	Series []Series `json:"series,omitempty"`

	// image
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`
	Style   string `json:"style,omitempty"`

	// table
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

type Segment struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// DefaultTheme is the merge base for candidates that arrive without usable
// theme colors.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:      "#0f4c81",
		SecondaryColor:    "#6e9fc5",
		AccentColor:       "#f2a922",
		BackgroundColor:   "#ffffff",
		TitleTextColor:    "#ffffff",
		BodyTextColor:     "#1a1a1a",
		SectionTitleColor: "#0f4c81",
		BorderColor:       "#d9d9d9",
	}
}

// DefaultDocument is the explicit merge base applied during normalization.
// It is a value, not shared mutable state, so callers can never corrupt it.
func DefaultDocument() *Document {
	return &Document{
		Authors:  []string{},
		Theme:    DefaultTheme(),
		Sections: []Section{},
		Warnings: []string{},
	}
}

func LoadDocument(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveDocument validates the document against the poster schema before
// writing it, so a bad normalizer change fails loudly instead of producing
// files the editor cannot open.
func SaveDocument(path string, doc *Document) error {
	if err := validateDocumentWithSchema(path, doc); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0644)
}

func (d *Document) SectionByID(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

func validateDocumentWithSchema(docPath string, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("poster document is nil")
	}

	schemaPath := resolveDocumentSchemaPath(docPath)
	if schemaPath == "" {
		return fmt.Errorf("poster schema file not found")
	}

	schema, err := loadCompiledSchema(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to compile poster schema: %w", err)
	}

	var v any
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal poster document for schema validation: %w", err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize poster document for schema validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("poster schema validation failed: %w", err)
	}
	return nil
}

func resolveDocumentSchemaPath(docPath string) string {
	candidates := []string{
		filepath.Join(filepath.Dir(docPath), "poster.schema.json"),
		filepath.Join("docs", "poster.schema.json"),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func loadCompiledSchema(schemaPath string) (*jsonschema.Schema, error) {
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	if cached, ok := schemaCache[abs]; ok {
		schemaCacheMu.Unlock()
		return cached, nil
	}
	schemaCacheMu.Unlock()

	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile("file://" + filepath.ToSlash(abs))
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	schemaCache[abs] = compiled
	schemaCacheMu.Unlock()
	return compiled, nil
}
