// Package recommend derives prioritized sales recommendations from ranked connections.
package recommend

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/netquery/internal/domain/connection"
	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
)

const noConnectionsMessage = "No relevant connections found. " +
	"Consider expanding search terms or uploading more LinkedIn connections."

// Engine evaluates the recommendation rules in a fixed order.
type Engine struct {
	policy   Policy
	keywords []string
}

// New creates an engine. Zero-valued policy fields fall back to DefaultPolicy.
func New(p Policy) *Engine {
	def := DefaultPolicy()
	if p.WarmIntroThreshold <= 0 {
		p.WarmIntroThreshold = def.WarmIntroThreshold
	}
	if p.MaxListed <= 0 {
		p.MaxListed = def.MaxListed
	}
	if len(p.DecisionMakerKeywords) == 0 {
		p.DecisionMakerKeywords = def.DecisionMakerKeywords
	}

	keywords := make([]string, 0, len(p.DecisionMakerKeywords))
	for _, k := range p.DecisionMakerKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Engine{policy: p, keywords: keywords}
}

// Recommend returns recommendations in rule order. Empty input yields exactly
// one no_connections record.
func (e *Engine) Recommend(ranked []connection.Connection) []recommendation.Recommendation {
	if len(ranked) == 0 {
		return []recommendation.Recommendation{{
			Type:     recommendation.NoConnections,
			Message:  noConnectionsMessage,
			Priority: recommendation.PriorityLow,
		}}
	}

	var out []recommendation.Recommendation
	if r, ok := e.warmIntroduction(ranked); ok {
		out = append(out, r)
	}
	if r, ok := companyCluster(ranked); ok {
		out = append(out, r)
	}
	if r, ok := e.decisionMakers(ranked); ok {
		out = append(out, r)
	}
	return out
}

func (e *Engine) warmIntroduction(ranked []connection.Connection) (recommendation.Recommendation, bool) {
	var names []string
	total := 0
	for _, c := range ranked {
		if c.RelevanceScore <= e.policy.WarmIntroThreshold {
			continue
		}
		total++
		if len(names) < e.policy.MaxListed {
			names = append(names, c.Name)
		}
	}
	if total == 0 {
		return recommendation.Recommendation{}, false
	}
	return recommendation.Recommendation{
		Type:        recommendation.WarmIntroduction,
		Message:     fmt.Sprintf("%d high-relevance connections found. Consider requesting warm introductions.", total),
		Priority:    recommendation.PriorityHigh,
		Connections: names,
		TotalCount:  total,
	}, true
}

// companyCluster picks the largest exact-company group with more than one member.
// Ties go to the company encountered first.
func companyCluster(ranked []connection.Connection) (recommendation.Recommendation, bool) {
	counts := make(map[string]int)
	var order []string
	for _, c := range ranked {
		if counts[c.Company] == 0 {
			order = append(order, c.Company)
		}
		counts[c.Company]++
	}

	best, bestCount := "", 1
	for _, company := range order {
		if counts[company] > bestCount {
			best, bestCount = company, counts[company]
		}
	}
	if bestCount < 2 {
		return recommendation.Recommendation{}, false
	}
	return recommendation.Recommendation{
		Type: recommendation.CompanyCluster,
		Message: fmt.Sprintf("Multiple connections found at %s (%d connections). "+
			"Strong potential for account penetration.", best, bestCount),
		Priority:        recommendation.PriorityMedium,
		Company:         best,
		ConnectionCount: bestCount,
	}, true
}

func (e *Engine) decisionMakers(ranked []connection.Connection) (recommendation.Recommendation, bool) {
	var listed []recommendation.DecisionMaker
	total := 0
	for _, c := range ranked {
		if !e.isDecisionMaker(c.Position) {
			continue
		}
		total++
		if len(listed) < e.policy.MaxListed {
			listed = append(listed, recommendation.DecisionMaker{
				Name: c.Name, Position: c.Position, Company: c.Company,
			})
		}
	}
	if total == 0 {
		return recommendation.Recommendation{}, false
	}
	return recommendation.Recommendation{
		Type:           recommendation.DecisionMakers,
		Message:        fmt.Sprintf("%d potential decision makers identified in your network.", total),
		Priority:       recommendation.PriorityHigh,
		DecisionMakers: listed,
		TotalCount:     total,
	}, true
}

func (e *Engine) isDecisionMaker(position string) bool {
	p := strings.ToLower(position)
	for _, k := range e.keywords {
		if strings.Contains(p, k) {
			return true
		}
	}
	return false
}
