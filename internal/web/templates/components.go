// Package templates renders the HTML pages for the results browser and
// the standalone run report. Components are plain Go against the templ
// runtime, so the package stays go-build-only.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components read as
// straight-line markup.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) f(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

func (h *htmlWriter) attr(u templ.SafeURL) string {
	return templ.EscapeString(string(u))
}

// Layout wraps a page body in the shared chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` - bayeslab</title>`)
		h.raw(`<link rel="stylesheet" href="/static/style.css">`)
		h.raw(`</head><body><header><nav><a class="brand" href="/">bayeslab</a>`)
		h.raw(`<span class="tagline">Bayesian workbench</span></nav></header><main>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// Index is the runs overview page.
func Index(data IndexData) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<section class="cards">`)
		h.f(`<div class="card"><span class="num">%d</span><span class="label">runs</span></div>`, data.RunCount)
		h.f(`<div class="card"><span class="num">%d</span><span class="label">posterior draws</span></div>`, data.TotalDraws)
		if data.LastRunAt != "" {
			h.raw(`<div class="card"><span class="num">`)
			h.text(formatDateTime(data.LastRunAt))
			h.raw(`</span><span class="label">last run</span></div>`)
		}
		h.raw(`</section>`)

		if len(data.Counts) > 0 {
			h.raw(`<section class="chips">`)
			for _, c := range data.Counts {
				h.raw(`<span class="chip">`)
				h.text(c.Analysis)
				h.f(` &times; %d</span>`, c.RunCount)
			}
			h.raw(`</section>`)
		}

		if len(data.Runs) == 0 {
			h.raw(`<p class="empty">No runs stored yet. Start with <code>bayeslab incumbency</code>.</p>`)
			return h.err
		}

		h.raw(`<table class="runs"><thead><tr>`)
		h.raw(`<th>Run</th><th>Analysis</th><th>Method</th><th>Draws</th><th>Headline</th><th>When</th>`)
		h.raw(`</tr></thead><tbody>`)
		for _, r := range data.Runs {
			h.raw(`<tr><td>`)
			h.f(`<a href="%s"><code>`, h.attr(runURL(r.ID)))
			h.text(truncateID(r.ID))
			h.raw(`</code></a></td><td>`)
			h.text(r.Analysis)
			h.raw(`</td><td>`)
			h.text(r.Method)
			h.f(`</td><td>%d</td><td class="headline-cell">`, r.Draws)
			h.text(r.Headline)
			h.raw(`</td><td>`)
			h.text(formatDateTime(r.CreatedAt))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
	return Layout("Runs", page)
}

// Run is the run detail page.
func Run(data RunDetail) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<article class="run"><h1>`)
		h.text(data.Analysis)
		h.raw(` <code class="run-id">`)
		h.text(data.ID)
		h.raw(`</code></h1>`)

		if data.Headline != "" {
			h.raw(`<p class="headline">`)
			h.text(data.Headline)
			h.raw(`</p>`)
		}

		h.raw(`<dl class="meta">`)
		writeMeta(h, "Dataset", data.Dataset)
		writeMeta(h, "Method", data.Method)
		writeMeta(h, "Seed", data.Seed)
		writeMeta(h, "Chains", fmt.Sprintf("%d", data.Chains))
		writeMeta(h, "Draws", fmt.Sprintf("%d", data.Draws))
		writeMeta(h, "Duration", data.Duration)
		writeMeta(h, "Created", formatDateTime(data.CreatedAt))
		h.raw(`</dl>`)

		writeSummaryTable(h, data.Params)
		writeNotes(h, data.Notes)

		if len(data.Figures) > 0 {
			h.raw(`<h2>Figures</h2><div class="figures">`)
			for _, name := range data.Figures {
				h.f(`<figure><img src="%s" alt="`, h.attr(artifactURL(data.ID, name)))
				h.text(name)
				h.raw(`"><figcaption>`)
				h.text(name)
				h.raw(`</figcaption></figure>`)
			}
			h.raw(`</div>`)
		}

		if len(data.Artifacts) > 0 {
			h.raw(`<h2>Artifacts</h2><ul class="artifacts">`)
			for _, name := range data.Artifacts {
				h.f(`<li><a href="%s">`, h.attr(artifactURL(data.ID, name)))
				h.text(name)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul>`)
		}

		h.raw(`</article>`)
		return h.err
	})
	return Layout(data.Analysis+" run", page)
}

// Report is the standalone HTML report stored beside the draws. It
// carries its own style and inlines every figure.
func Report(data ReportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(data.Run.Analysis)
		h.raw(` report</title><style>`)
		h.raw(reportCSS)
		h.raw(`</style></head><body><article class="run"><h1>`)
		h.text(data.Run.Analysis)
		h.raw(` <code class="run-id">`)
		h.text(data.Run.ID)
		h.raw(`</code></h1>`)

		if data.Run.Headline != "" {
			h.raw(`<p class="headline">`)
			h.text(data.Run.Headline)
			h.raw(`</p>`)
		}

		h.raw(`<dl class="meta">`)
		writeMeta(h, "Dataset", data.Run.Dataset)
		writeMeta(h, "Method", data.Run.Method)
		writeMeta(h, "Seed", data.Run.Seed)
		writeMeta(h, "Chains", fmt.Sprintf("%d", data.Run.Chains))
		writeMeta(h, "Draws", fmt.Sprintf("%d", data.Run.Draws))
		writeMeta(h, "Duration", data.Run.Duration)
		h.raw(`</dl>`)

		writeSummaryTable(h, data.Run.Params)
		writeNotes(h, data.Run.Notes)

		if len(data.Figures) > 0 {
			h.raw(`<h2>Figures</h2>`)
			for _, fig := range data.Figures {
				h.raw(`<figure>`)
				h.raw(fig.SVG)
				h.raw(`<figcaption>`)
				h.text(fig.Name)
				h.raw(`</figcaption></figure>`)
			}
		}

		h.raw(`<footer>Generated `)
		h.text(data.GeneratedAt)
		h.raw(` by bayeslab</footer></article></body></html>`)
		return h.err
	})
}

func writeMeta(h *htmlWriter, label, value string) {
	h.raw(`<div><dt>`)
	h.text(label)
	h.raw(`</dt><dd>`)
	h.text(value)
	h.raw(`</dd></div>`)
}

func writeSummaryTable(h *htmlWriter, params []ParamRow) {
	if len(params) == 0 {
		return
	}
	h.raw(`<h2>Posterior summary</h2><table class="params"><thead><tr>`)
	h.raw(`<th>Parameter</th><th>Mean</th><th>SD</th><th>Median</th><th>2.5%</th><th>97.5%</th><th>R&#770;</th><th>ESS</th>`)
	h.raw(`</tr></thead><tbody>`)
	for _, p := range params {
		h.raw(`<tr><td><code>`)
		h.text(p.Name)
		h.raw(`</code></td>`)
		for _, cell := range []string{p.Mean, p.SD, p.Median, p.Lo95, p.Hi95, p.RHat, p.ESS} {
			h.raw(`<td>`)
			h.text(cell)
			h.raw(`</td>`)
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table>`)
}

func writeNotes(h *htmlWriter, notes []string) {
	if len(notes) == 0 {
		return
	}
	h.raw(`<h2>Notes</h2><ul class="notes">`)
	for _, note := range notes {
		h.raw(`<li>`)
		h.text(note)
		h.raw(`</li>`)
	}
	h.raw(`</ul>`)
}

const reportCSS = `body{font:15px/1.5 system-ui,sans-serif;color:#222;max-width:56rem;margin:2rem auto;padding:0 1rem}
h1{font-size:1.4rem}h2{font-size:1.1rem;margin-top:1.6rem}
code{background:#f2f2f2;padding:.1em .3em;border-radius:3px}
.run-id{font-size:.75em;color:#666}
.headline{font-size:1.05rem;background:#eef4fb;border-left:4px solid #4c78a8;padding:.5rem .8rem}
.meta{display:grid;grid-template-columns:repeat(auto-fit,minmax(10rem,1fr));gap:.4rem}
.meta dt{font-size:.75rem;text-transform:uppercase;color:#777}
.meta dd{margin:0}
table{border-collapse:collapse;width:100%}
th,td{text-align:left;padding:.3rem .6rem;border-bottom:1px solid #e5e5e5}
th{font-size:.8rem;text-transform:uppercase;color:#777}
figure{margin:1rem 0;text-align:center}
figcaption{font-size:.8rem;color:#777}
footer{margin-top:2rem;font-size:.8rem;color:#999}`
