package reconcile

import "github.com/falcomza/reconcile/internal/route"

// PlanRoute classifies an edit request into the sum-typed RoutePlan of
// spec.md §4.10, per §6 contract 6. It is pure and requires no Context.
func PlanRoute(oldText, newContent string) RoutePlan {
	return route.Plan(oldText, newContent)
}
