package emitter

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
)

// SnippetOptions controls the generated snippet.
type SnippetOptions struct {
	// Helper prepends the Sprite interface and the imageGen helpers the
	// snippet relies on.
	Helper bool
}

const helperCode = `export interface Sprite {
  label: string;
  img: string;
  height: number;
  top?: number;
  left: number[];
}

export const transpImg = (
  img: string,
  label: string,
  width: number,
  height: number,
  offset: number,
  top = 0,
  id = ""
) =>
  ` + "`" + `<div class="sprite-wrapper"><div class="sprite" role="img" aria-label='${label}' id='${id}' style='height:${height}px;width:${width}px;background:url(${img}) no-repeat -${offset}px -${top}px'></div></div>` + "`" + `;

/** Sprite image generator, optionally provide the index of the image. */
export const imageGen =
  (sprite: Sprite) =>
  (index?: number, realHeight = 0) => {
    const { height, top = 0, left, img, label = "sprite" } = sprite;
    const count = left.length - 1;
    if (typeof index === "undefined") index = Math.floor(Math.random() * count);
    const i = index % count;
    const width = left[i + 1] - left[i];
    return transpImg(img, ` + "`${label}`" + `, width, realHeight || height, left[i], top, ` + "`imgId${index}`" + `);
  };

`

var snippetTmpl = template.Must(template.New("snippet").Funcs(template.FuncMap{
	"js": jsString,
}).Parse(`{{if .Helper}}{{.HelperCode}}{{end}}// Spritesheet positions for {{.Table.Image}}

const {{.Name}}Sprite: Sprite = {
  label: {{js .Table.Label}},
  img: {{js .Table.Image}},
  height: {{.Table.Height}},
  top: {{.Table.Top}},
  left: [
{{range .Offsets}}    {{.}},
{{end}}    {{.Sentinel}}
  ],
};
const {{.Name}}ImageGen = imageGen({{.Name}}Sprite);

// Example usage:
// const imageHtml = {{.Name}}ImageGen(0); // First image
// const imageHtml = {{.Name}}ImageGen(1); // Second image
`))

// Snippet renders the TypeScript snippet binding the position table to a
// PascalCase name derived from the base name. A base name without letters
// or digits falls back to the default base name.
func Snippet(l atlas.Layout, req atlas.ExportRequest, opts SnippetOptions) string {
	table, ok := Table(l, req)
	if !ok {
		return ""
	}
	n := len(table.Left)
	return execute(snippetTmpl, map[string]any{
		"Helper":     opts.Helper,
		"HelperCode": helperCode,
		"Name":       identifier(req.BaseNameOr()),
		"Table":      table,
		"Offsets":    table.Left[:n-1],
		"Sentinel":   table.Left[n-1],
	})
}

func identifier(base string) string {
	if name := PascalCase(base); name != "" {
		return name
	}
	return PascalCase(atlas.DefaultBaseName)
}

// AltEntry is one row of the alternate table.
type AltEntry struct {
	Name   string
	StartX int
	Width  int
	Height int
}

// AltEntries returns the alternate table rows in pack order. Width and
// Height are the scaled size multiplied by the scale once more.
func AltEntries(l atlas.Layout, req atlas.ExportRequest) []AltEntry {
	scale := req.Scale
	if scale == 0 {
		scale = l.Scale
	}
	entries := make([]AltEntry, len(l.Images))
	for i, img := range l.Images {
		entries[i] = AltEntry{
			Name:   img.Name,
			StartX: roundInt(float64(img.StartX)),
			Width:  altDimension(img.Width, scale),
			Height: altDimension(img.Height, scale),
		}
	}
	return entries
}

var altTmpl = template.Must(template.New("alt").Funcs(template.FuncMap{
	"quote": jsQuote,
	"last":  func(i, n int) bool { return i == n-1 },
}).Parse(`// Spritesheet positions for {{.Image}}
const spritePositions = {
{{$n := len .Entries}}{{range $i, $e := .Entries}}  {{quote $e.Name}}: { startX: {{$e.StartX}}, width: {{$e.Width}}, height: {{$e.Height}} }{{if not (last $i $n)}},{{end}}
{{end}}};

// CSS usage example:
// .sprite-{{.Base}}-item1 {
//   background: url('{{.Image}}') no-repeat;
//   background-position: -{{.First.StartX}}px 0;
//   width: {{.First.Width}}px;
//   height: {{.First.Height}}px;
// }
`))

// AltTable renders the alternate name -> {startX, width, height} table
// with a CSS example for the first image.
func AltTable(l atlas.Layout, req atlas.ExportRequest) string {
	if l.Empty() {
		return ""
	}
	entries := AltEntries(l, req)
	return execute(altTmpl, map[string]any{
		"Image":   atlas.PlanExport(l, req).Filename,
		"Base":    req.BaseNameOr(),
		"Entries": entries,
		"First":   entries[0],
	})
}

// jsString quotes s as a single-quoted JavaScript string literal.
func jsString(s string) string {
	return jsLiteral(s, '\'')
}

// jsQuote quotes s as a double-quoted JavaScript string literal.
func jsQuote(s string) string {
	return jsLiteral(s, '"')
}

// jsLiteral escapes the quote, backslashes and control characters; every
// other rune is written verbatim.
func jsLiteral(s string, quote rune) string {
	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f || r == 0x2028 || r == 0x2029:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}

func execute(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		// Templates are fixed and data is plain values; a failure here is
		// a programming error.
		panic(err)
	}
	return b.String()
}
