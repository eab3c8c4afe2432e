package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanRouteStructuredListDirect(t *testing.T) {
	plan := PlanRoute("Some original paragraph", "- first item\n- second item")
	require.Equal(t, "structured-list-direct", plan.Kind.String())
	require.NotNil(t, plan.ParsedListData)
}

func TestPlanRouteOOXMLEngineFallthrough(t *testing.T) {
	plan := PlanRoute("The cat jumps", "The cat hopped")
	require.Equal(t, "ooxml-engine", plan.Kind.String())
}

func TestPlanRouteBlockHTML(t *testing.T) {
	plan := PlanRoute("Existing paragraph", "# Heading\n\nSome paragraph body")
	require.Equal(t, "block-html", plan.Kind.String())
	require.True(t, plan.Flags.BlockElements)
}
