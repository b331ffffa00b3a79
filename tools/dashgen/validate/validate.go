// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and every metric it selects must be exported by
// the service or defined by a recording rule.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/price-list-publisher/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings do
// not.
type Result struct {
	Errors   []error
	Warnings []string
}

// Ok reports whether there are no errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Errorf(format, args...))
}

// histogramSuffixes are the series a histogram exposes beyond its name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Expr parses expr and checks the metric names it selects against known.
func Expr(where, expr string, known map[string]bool, r *Result) {
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		r.errorf("%s: parsing %q: %w", where, expr, err)
		return
	}

	for _, name := range Metrics(parsed) {
		if !isKnown(name, known) {
			r.errorf("%s: unknown metric %q", where, name)
		}
	}
}

// Metrics returns the sorted, de-duplicated metric names selected by expr.
func Metrics(expr parser.Expr) []string {
	seen := map[string]bool{}
	parser.Inspect(expr, func(node parser.Node, _ []parser.Node) error {
		if vs, ok := node.(*parser.VectorSelector); ok && vs.Name != "" {
			seen[vs.Name] = true
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, s := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, s); ok && known[base] {
			return true
		}
	}
	return false
}

// Dashboard validates every Prometheus target of every panel, including
// panels nested in rows.
func Dashboard(d dashboard.Dashboard, known map[string]bool) *Result {
	r := &Result{}
	for i, p := range d.Panels {
		switch {
		case p.Panel != nil:
			panel(*p.Panel, known, r)
		case p.RowPanel != nil:
			if len(p.RowPanel.Panels) == 0 {
				r.Warnings = append(r.Warnings, fmt.Sprintf("row %d is empty", i))
			}
			for _, inner := range p.RowPanel.Panels {
				panel(inner, known, r)
			}
		}
	}
	return r
}

func panel(p dashboard.Panel, known map[string]bool, r *Result) {
	title := "<untitled>"
	if p.Title != nil {
		title = *p.Title
	} else {
		r.Warnings = append(r.Warnings, "panel without title")
	}

	if len(p.Targets) == 0 {
		r.errorf("panel %q has no targets", title)
		return
	}

	for i, t := range p.Targets {
		where := fmt.Sprintf("panel %q target %d", title, i)
		switch q := t.(type) {
		case prometheus.Dataquery:
			Expr(where, q.Expr, known, r)
		case *prometheus.Dataquery:
			Expr(where, q.Expr, known, r)
		default:
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: not a Prometheus query (%T)", where, t))
		}
	}
}

// Rules validates every rule expression in cr. Recording rule names count
// as known metrics for the rules that follow them.
func Rules(cr rules.PrometheusRule, known map[string]bool) *Result {
	r := &Result{}
	names := map[string]bool{}
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			if name == "" {
				r.errorf("group %q: rule without record or alert name", g.Name)
				continue
			}
			if names[name] {
				r.errorf("group %q: duplicate rule %q", g.Name, name)
			}
			names[name] = true

			if rule.Alert != "" && rule.Labels["severity"] == "" {
				r.errorf("alert %q has no severity label", rule.Alert)
			}
			Expr(fmt.Sprintf("rule %q", name), rule.Expr, known, r)
		}
	}
	return r
}
