package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/session"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.AuthState
	CurrentState  domain.AuthState
}

// GenerateMermaid produces a Mermaid flowchart of the session lifecycle.
// Shapes:
// - Booting: ((Circle))
// - Authenticated: [[Subroutine]]
// - Default: [Rectangle]
// Self-loops are drawn dotted. Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(transitions []session.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[domain.AuthState]bool)
	for _, t := range transitions {
		for _, s := range []domain.AuthState{t.From, t.To} {
			if seen[s] {
				continue
			}
			seen[s] = true
			sb.WriteString(node(s))
		}
	}

	for _, t := range transitions {
		arrow := fmt.Sprintf("-- \"%s\" -->", sanitizeLabel(string(t.Event)))
		if t.From == t.To {
			arrow = fmt.Sprintf("-. \"%s\" .->", sanitizeLabel(string(t.Event)))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(string(t.From)), arrow, sanitizeMermaidID(string(t.To))))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ff9000,stroke:#c56f00,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(string(s))
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentState))))
		}
	}

	return sb.String()
}

func node(s domain.AuthState) string {
	opener, closer := "[", "]"
	switch s {
	case domain.StateBooting:
		opener, closer = "((", "))"
	case domain.StateAuthenticated:
		opener, closer = "[[", "]]"
	}
	return fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(string(s)), opener, s, closer)
}

func sanitizeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
