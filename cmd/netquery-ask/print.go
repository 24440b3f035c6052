package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
	"github.com/kailas-cloud/netquery/internal/transport/api"
)

func printRaw(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format json: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func printAnswer(w io.Writer, r api.QueryResponse) {
	fmt.Fprintln(w, r.Response)
	if len(r.Connections) > 0 {
		fmt.Fprintln(w)
		for i, c := range r.Connections {
			fmt.Fprintf(w, "%2d. %s, %s at %s (%.0f%%)\n", i+1, c.Name, c.Position, c.Company, c.RelevanceScore*100)
		}
	}
	printRecommendations(w, r.Recommendations)
}

func printEnvelope(w io.Writer, r api.CRMQueryResponse) {
	ni := r.Data.NetworkInsights
	fmt.Fprintln(w, ni.Summary)
	fmt.Fprintf(w, "\n%d connections found, top %d:\n", ni.TotalConnectionsFound, len(ni.TopConnections))
	for _, c := range ni.TopConnections {
		fmt.Fprintf(w, "  - %s, %s at %s [%s intro]\n", c.Name, c.Position, c.Company, c.PotentialIntro)
	}
	printRecommendations(w, ni.Recommendations)
}

func printRecommendations(w io.Writer, recs []recommendation.View) {
	if len(recs) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecommendations:")
	for _, r := range recs {
		fmt.Fprintf(w, "  [%s] %s\n", r.Priority, r.Message)
	}
}
