// Package summary renders ranked connections into a human-readable answer.
package summary

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/netquery/internal/domain/connection"
)

// Limits bounds how much of the ranked list the summary spells out.
type Limits struct {
	Inline    int // connections listed individually
	Companies int // distinct companies named in the insights
	Positions int // distinct positions named in the insights
}

// DefaultLimits returns the standard summary limits.
func DefaultLimits() Limits {
	return Limits{Inline: 5, Companies: 5, Positions: 3}
}

// Generator builds summaries. It is stateless and safe for concurrent use.
type Generator struct {
	limits Limits
}

// New creates a generator. Non-positive limits fall back to DefaultLimits.
func New(limits Limits) *Generator {
	def := DefaultLimits()
	if limits.Inline <= 0 {
		limits.Inline = def.Inline
	}
	if limits.Companies <= 0 {
		limits.Companies = def.Companies
	}
	if limits.Positions <= 0 {
		limits.Positions = def.Positions
	}
	return &Generator{limits: limits}
}

// Summarize renders ranked, which must already be sorted by relevance.
func (g *Generator) Summarize(query string, ranked []connection.Connection) string {
	if len(ranked) == 0 {
		return fmt.Sprintf("I couldn't find any relevant connections for \"%s\". "+
			"Please try a different search term or check if the LinkedIn connections "+
			"have been properly uploaded.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your LinkedIn network, I found %d relevant connections for \"%s\":\n\n",
		len(ranked), query)

	for i, c := range ranked[:min(g.limits.Inline, len(ranked))] {
		fmt.Fprintf(&b, "%d. **%s** - %s at %s\n", i+1, c.Name, c.Position, c.Company)
		if c.Email != "" && c.Email != "N/A" {
			fmt.Fprintf(&b, "   Email: %s\n", c.Email)
		}
		if c.LinkedInURL != "" {
			fmt.Fprintf(&b, "   LinkedIn: %s\n", c.LinkedInURL)
		}
		fmt.Fprintf(&b, "   Relevance: %.1f%%\n\n", c.RelevanceScore*100)
	}

	if rest := len(ranked) - g.limits.Inline; rest > 0 {
		fmt.Fprintf(&b, "... and %d more connections.\n\n", rest)
	}

	companies := distinct(ranked, func(c connection.Connection) string { return c.Company })
	positions := distinct(ranked, func(c connection.Connection) string { return c.Position })

	b.WriteString("**Key Insights:**\n")
	b.WriteString("- Companies represented: ")
	b.WriteString(strings.Join(companies[:min(g.limits.Companies, len(companies))], ", "))
	if extra := len(companies) - g.limits.Companies; extra > 0 {
		fmt.Fprintf(&b, " and %d more", extra)
	}
	b.WriteString("\n- Common positions: ")
	b.WriteString(strings.Join(positions[:min(g.limits.Positions, len(positions))], ", "))
	if len(positions) > g.limits.Positions {
		b.WriteString(" and others")
	}
	b.WriteString("\n")

	return b.String()
}

// distinct returns field values in first-seen order, compared by exact equality.
func distinct(cs []connection.Connection, field func(connection.Connection) string) []string {
	seen := make(map[string]struct{}, len(cs))
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		v := field(c)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
