package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/gobarber/internal/presentation/graph"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/session"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		transitions []session.Transition
		overlay     *graph.GraphOverlay
		contains    []string
		absent      []string
	}{
		{
			name:        "State Shapes",
			transitions: session.Lifecycle(),
			contains: []string{
				`booting(("booting"))`,
				`authenticated[["authenticated"]]`,
				`unauthenticated["unauthenticated"]`,
			},
			absent: []string{"classDef"},
		},
		{
			name: "Edges And Self Loops",
			transitions: []session.Transition{
				{From: domain.StateUnauthenticated, To: domain.StateAuthenticated, Event: domain.EventSignedIn},
				{From: domain.StateUnauthenticated, To: domain.StateUnauthenticated, Event: domain.EventSignInError},
			},
			contains: []string{
				`unauthenticated -- "signed_in" --> authenticated`,
				`unauthenticated -. "sign_in_error" .-> unauthenticated`,
			},
		},
		{
			name:        "Overlay",
			transitions: session.Lifecycle(),
			overlay: &graph.GraphOverlay{
				VisitedStates: []domain.AuthState{domain.StateBooting, domain.StateBooting, domain.StateUnauthenticated},
				CurrentState:  domain.StateAuthenticated,
			},
			contains: []string{
				"class booting visited;",
				"class unauthenticated visited;",
				"class authenticated current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.transitions, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
			if n := strings.Count(got, "class booting visited;"); n > 1 {
				t.Errorf("visited state styled %d times", n)
			}
		})
	}
}

func TestGenerateMermaid_EveryStateDeclaredOnce(t *testing.T) {
	got := graph.GenerateMermaid(session.Lifecycle(), nil)
	for _, decl := range []string{`(("booting"))`, `[["authenticated"]]`, `["unauthenticated"]`} {
		if n := strings.Count(got, decl); n != 1 {
			t.Errorf("%s declared %d times", decl, n)
		}
	}
}
