package poster

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FromCandidate turns a parsed-but-untyped candidate tree into a fully
// populated Document. It never fails: any field that is absent, mistyped or
// uninterpretable resolves to a default. Running it over the map form of an
// already normalized document yields an identical document.
func FromCandidate(candidate map[string]any) *Document {
	doc := DefaultDocument()
	if candidate == nil {
		return doc
	}

	doc.Title = asString(candidate["title"])
	doc.Authors = asStringList(candidate["authors"])
	if doc.Authors == nil {
		doc.Authors = []string{}
	}
	if len(doc.Authors) == 0 {
		// Older schema revisions used a single "author" string.
		if a := asString(candidate["author"]); a != "" {
			doc.Authors = []string{a}
		}
	}
	doc.University = asString(candidate["university"])
	doc.Department = asString(candidate["department"])
	doc.LeftLogoURL = asString(candidate["leftLogoUrl"])
	doc.RightLogoURL = asString(candidate["rightLogoUrl"])
	doc.Theme = themeFromCandidate(asMap(candidate["theme"]))
	doc.ContactInfo = contactFromCandidate(asMap(candidate["contactInfo"]))

	for _, w := range asStringList(candidate["warnings"]) {
		if w != "" {
			doc.Warnings = append(doc.Warnings, w)
		}
	}

	for _, raw := range asList(candidate["sections"]) {
		sm := asMap(raw)
		if sm == nil {
			continue
		}
		sec, warns := sectionFromCandidate(sm)
		doc.Sections = append(doc.Sections, sec)
		doc.Warnings = append(doc.Warnings, warns...)
	}

	return doc
}

// Renormalize round-trips a typed document through its candidate form.
func Renormalize(doc *Document) (*Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return FromCandidate(m), nil
}

func themeFromCandidate(m map[string]any) Theme {
	t := DefaultTheme()
	assignColor(&t.PrimaryColor, m, "primaryColor")
	assignColor(&t.SecondaryColor, m, "secondaryColor")
	assignColor(&t.AccentColor, m, "accentColor")
	assignColor(&t.BackgroundColor, m, "backgroundColor")
	assignColor(&t.TitleTextColor, m, "titleTextColor")
	assignColor(&t.BodyTextColor, m, "bodyTextColor")
	assignColor(&t.SectionTitleColor, m, "sectionTitleColor")
	assignColor(&t.BorderColor, m, "borderColor")
	return t
}

func assignColor(dst *string, m map[string]any, key string) {
	if m == nil {
		return
	}
	v := strings.TrimSpace(asString(m[key]))
	if hexColorRe.MatchString(v) {
		*dst = strings.ToLower(v)
	}
}

func contactFromCandidate(m map[string]any) Contact {
	if m == nil {
		return Contact{}
	}
	return Contact{
		Email:     asString(m["email"]),
		Phone:     asString(m["phone"]),
		Website:   asString(m["website"]),
		Address:   asString(m["address"]),
		QRCodeURL: asString(m["qrCodeUrl"]),
	}
}

func sectionFromCandidate(m map[string]any) (Section, []string) {
	var warnings []string

	sec := Section{
		ID:      asString(m["id"]),
		Title:   asString(m["title"]),
		Content: asString(m["content"]),
		Visuals: []Visual{},
	}
	if sec.ID == "" {
		sec.ID = uuid.NewString()
	}
	sec.Column = ParseColumn(asString(m["column"]), sec.Title)
	sec.Design = designFromCandidate(asMap(m["design"]))

	// The singular "visual" field predates the visuals list; migrate it so
	// downstream code only ever sees the list form.
	rawVisuals := asList(m["visuals"])
	if single := asMap(m["visual"]); single != nil {
		rawVisuals = append([]any{single}, rawVisuals...)
	}
	for _, raw := range rawVisuals {
		vm := asMap(raw)
		if vm == nil {
			continue
		}
		vis, ok, reason := visualFromCandidate(vm)
		if !ok {
			if reason != "" {
				warnings = append(warnings, fmt.Sprintf("section %q: %s", sec.Title, reason))
			}
			continue
		}
		sec.Visuals = append(sec.Visuals, vis)
	}

	return sec, warnings
}

func designFromCandidate(m map[string]any) *Design {
	if m == nil {
		return nil
	}
	d := Design{
		Icon:    asString(m["icon"]),
		Variant: asString(m["variant"]),
	}
	if c := strings.TrimSpace(asString(m["titleColor"])); hexColorRe.MatchString(c) {
		d.TitleColor = strings.ToLower(c)
	}
	if c := strings.TrimSpace(asString(m["backgroundColor"])); hexColorRe.MatchString(c) {
		d.BackgroundColor = strings.ToLower(c)
	}
	if d == (Design{}) {
		return nil
	}
	return &d
}

// visualFromCandidate builds one Visual from its untyped form. A visual
// missing the fields its variant requires is dropped rather than defaulted;
// an empty chart crashes or confuses renderers more than no chart does.
func visualFromCandidate(m map[string]any) (Visual, bool, string) {
	kind, ok := parseVisualType(asString(m["type"]))
	if !ok {
		return Visual{}, false, "dropped visual with unrecognized type"
	}

	v := Visual{Type: kind}
	switch kind {
	case VisualDonutChart:
		items := asList(m["items"])
		if len(items) == 0 {
			items = asList(m["segments"])
		}
		for _, raw := range items {
			im := asMap(raw)
			if im == nil {
				continue
			}
			v.Items = append(v.Items, Segment{
				Label: asString(im["label"]),
				Value: asFloat(im["value"]),
				Color: asString(im["color"]),
			})
		}
		if len(v.Items) == 0 {
			return Visual{}, false, "dropped donut chart without items"
		}
	case VisualLineChart, VisualBarChart:
		v.Labels = asStringList(m["labels"])
		series := asList(m["series"])
		if len(series) == 0 {
			series = asList(m["datasets"])
		}
		for _, raw := range series {
			sm := asMap(raw)
			if sm == nil {
				continue
			}
			s := Series{Name: asString(sm["name"])}
			if s.Name == "" {
				s.Name = asString(sm["label"])
			}
			for _, n := range asList(sm["data"]) {
				s.Data = append(s.Data, asFloat(n))
			}
			if len(s.Data) > 0 {
				v.Series = append(v.Series, s)
			}
		}
		if len(v.Series) == 0 {
			return Visual{}, false, fmt.Sprintf("dropped %s without series data", kind)
		}
	case VisualImage:
		v.URL = asString(m["url"])
		v.Caption = asString(m["caption"])
		v.Style = asString(m["style"])
		if v.URL == "" {
			return Visual{}, false, "dropped image without url"
		}
	case VisualTable:
		v.Headers = asStringList(m["headers"])
		for _, raw := range asList(m["rows"]) {
			row := asStringList(raw)
			if row != nil {
				v.Rows = append(v.Rows, row)
			}
		}
		if len(v.Rows) == 0 && len(v.Headers) == 0 {
			return Visual{}, false, "dropped empty table"
		}
	}
	return v, true, ""
}

func parseVisualType(raw string) (VisualType, bool) {
	key := strings.ToLower(raw)
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "donutchart", "donut", "piechart", "pie":
		return VisualDonutChart, true
	case "linechart", "line":
		return VisualLineChart, true
	case "barchart", "bar":
		return VisualBarChart, true
	case "image", "img", "figure", "photo":
		return VisualImage, true
	case "table":
		return VisualTable, true
	}
	return "", false
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n), "%")), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func asStringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		out = append(out, asString(e))
	}
	return out
}
