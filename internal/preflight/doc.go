// Package preflight provides the eligibility checks the publish workflow runs
// before touching any external system.
//
// The checks run in two contexts:
//   - The workflow calls Validate before anything else and stops at the first
//     unmet requirement, so a doomed run fails in milliseconds.
//   - The CLI "airlift doctor" command calls RunAll to display every check's
//     outcome at once.
//
// Checks are side-effect free; later stages assume validated state and never
// re-check.
package preflight
