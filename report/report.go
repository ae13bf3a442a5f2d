// Package report renders classified documents as HTML for debugging.
package report

import (
	"html/template"
	"io"
	"strings"

	"github.com/jlubawy/go-boilerscore"
)

// Stage is a copy of the blocks as they were after one pipeline stage.
type Stage struct {
	Name       string
	HasChanged bool
	Blocks     []boilerscore.Block
}

// Recorder captures every stage of a pipeline. Pass Observe to
// boilerscore.WithObserver.
type Recorder struct {
	Stages []Stage
}

func (r *Recorder) Observe(stageName string, hasChanged bool, doc *boilerscore.Document) {
	r.Stages = append(r.Stages, Stage{
		Name:       stageName,
		HasChanged: hasChanged,
		Blocks:     doc.Snapshot(),
	})
}

// Report is the data rendered by Write.
type Report struct {
	Title    string
	URL      string
	Document *boilerscore.Document
	Stages   []Stage
}

// Write renders r as a standalone HTML page.
func Write(w io.Writer, r *Report) error {
	return templ.Execute(w, &struct {
		*Report
		Version string
	}{r, boilerscore.Version})
}

// Tokens joins the attribute tokens of a block.
func Tokens(b boilerscore.Block) string {
	return strings.Join(b.Tokens(), " ")
}

func rowClass(b boilerscore.Block) string {
	switch category(b) {
	case boilerscore.CategoryLowest:
		return "table-success"
	case boilerscore.CategoryLow:
		return "table-info"
	case boilerscore.CategoryHigh:
		return "table-warning"
	}
	return "table-danger"
}

func blocksOf(doc *boilerscore.Document) []boilerscore.Block {
	if doc == nil {
		return nil
	}
	return doc.Snapshot()
}

func category(b boilerscore.Block) boilerscore.Category {
	return boilerscore.CategoryOf(b.Score)
}

var funcMap = template.FuncMap{
	"Category": category,
	"Tokens":   Tokens,
	"RowClass": rowClass,
	"Blocks":   blocksOf,
}

var templ = template.Must(template.New("report").Funcs(funcMap).Parse(`<!DOCTYPE html>
<html>
	<head>
		<meta charset="utf-8">
		<title>{{if .Title}}{{.Title}}{{else}}Report{{end}} - boilerscore {{.Version}}</title>

		<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css/bootstrap.min.css" />
	</head>
	<body>
		<div class="container-fluid">
			<h1>{{.Title}}</h1>
			{{if .URL}}<p><a href="{{.URL}}" target="_blank">{{.URL}}</a></p>{{end}}
			{{with .Document}}
			<dl class="row">
				<dt class="col-sm-2">Text length</dt><dd class="col-sm-10">{{.Info.TextLength}}</dd>
				<dt class="col-sm-2">Content length</dt><dd class="col-sm-10">{{.ContentLength}}</dd>
				<dt class="col-sm-2">Content ratio</dt><dd class="col-sm-10">{{printf "%.3f" .ContentRatio}}</dd>
				<dt class="col-sm-2">Iterations</dt><dd class="col-sm-10">{{.Iterations}}</dd>
				<dt class="col-sm-2">Elements</dt><dd class="col-sm-10">{{.Info.ElementCount}}</dd>
			</dl>
			{{end}}
			{{template "blocks" (Blocks .Document)}}

			{{range .Stages}}
			<h2>{{.Name}}</h2>
			<h3>HasChanged: {{.HasChanged}}</h3>
			{{template "blocks" .Blocks}}
			{{end}}
		</div>
	</body>
</html>
{{define "blocks"}}
			<table class="table table-sm">
				<thead>
					<th>Index</th>
					<th>Parent</th>
					<th>Element</th>
					<th>Score</th>
					<th>Category</th>
					<th>Depth</th>
					<th>Text</th>
					<th>Anchor</th>
					<th>Lists</th>
					<th>Paragraphs</th>
					<th>Fields</th>
					<th>Lines</th>
					<th>Image area</th>
					<th>Tokens</th>
				</thead>
				<tbody>
				{{range $i, $b := .}}
					<tr class="{{RowClass $b}}">
						<td>{{$i}}</td>
						<td>{{$b.ParentIndex}}</td>
						<td>{{$b.ElementType}}#{{$b.ElementIndex}}</td>
						<td>{{$b.Score}}</td>
						<td>{{Category $b}}</td>
						<td>{{$b.Depth}}</td>
						<td>{{$b.TextLength}}</td>
						<td>{{$b.AnchorTextLength}}</td>
						<td>{{$b.ListItemCount}}</td>
						<td>{{$b.ParagraphCount}}</td>
						<td>{{$b.FieldCount}}</td>
						<td>{{$b.LineCount}}</td>
						<td>{{$b.ImageArea}}</td>
						<td>{{Tokens $b}}</td>
					</tr>
				{{end}}
				</tbody>
			</table>
{{end}}`))
