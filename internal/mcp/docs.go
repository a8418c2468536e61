package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pipetally tracks fabrication and installation progress as Drawings → Components → Milestones.

Core concepts (keep this mental model small):
- Drawing: an isometric drawing grouping components; carries rolled-up progress figures.
- Component: a trackable item (valve, spool, weld, threaded pipe, ...) with a milestone template.
- Milestone: either discrete (done / not done) or partial (0-100%). Values only move backwards with a rollback confirmation.
- Aggregate pipe: threaded-pipe components whose pipe_id ends in _AGG track absolute linear feet; percentages are projected from footage.
- Metadata inheritance: Area/System/Test Package resolve from the component, falling back to its drawing; overrides are flagged.

Rules of engagement (default workflow):
1) Orient: call list_drawings to see drawings and their progress rollups.
2) Drill in: list_components (or get_table_window for a render-ready slice) on one drawing at a time.
3) Find things: search_components matches display identity and line numbers (e.g. "TP-1401", "205").
4) Write safely: update_milestone with the canonical percent (0 or 100 for discrete milestones).
   - A decreasing write returns ROLLBACK_CONFIRMATION_REQUIRED; retry with a confirmation reason.
   - A CONFLICT means another writer got there first; re-read the component and retry.
5) Offline: writes queue automatically while the network is down; call flush_offline_queue once it is back.
6) Review: get_recent_activity shows updates and rollbacks, newest first.

Docs (progressive disclosure):
- pipetally://docs/index (what to read when)
- pipetally://docs/concepts (glossary + invariants)
- pipetally://docs/workflows/updating-milestones
- pipetally://docs/workflows/rollbacks
- pipetally://docs/aggregate-pipe
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pipetally://docs/index",
		Name:        "docs_index",
		Title:       "pipetally docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# pipetally: Agent Docs Index

This server is designed for **progressive disclosure**: keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`list_drawings`" + ` to orient (drawing numbers, progress rollups).
2. ` + "`list_components`" + ` or ` + "`get_table_window`" + ` to drill into one drawing.
3. ` + "`search_components`" + ` to find a component by identity or line number.
4. Mutate via ` + "`update_milestone`" + `; confirm rollbacks when asked.
5. ` + "`flush_offline_queue`" + ` after connectivity returns.
6. ` + "`get_recent_activity`" + ` to review what changed.

## Docs (read on demand)

- ` + "`pipetally://docs/concepts`" + ` — glossary + invariants (milestone canonicalization, metadata inheritance, concurrency).
- ` + "`pipetally://docs/workflows/updating-milestones`" + ` — the normal write loop and its error codes.
- ` + "`pipetally://docs/workflows/rollbacks`" + ` — the confirmation gate for decreasing values.
- ` + "`pipetally://docs/aggregate-pipe`" + ` — how linear-footage aggregates project to percentages.

## Where sizes live

` + "`resources/list`" + ` returns each doc resource with a ` + "`size`" + ` (bytes) estimate so clients can budget context.
`,
	},
	{
		URI:         "pipetally://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts and invariants",
		Description: "Mental model + invariant rules: canonical milestone values, metadata inheritance, and optimistic concurrency.",
		Content: `# Concepts and invariants

## Glossary

- **Drawing**: top-level grouping entity. Carries server-computed progress rollups (total, completed, average percent).
- **Component**: a trackable physical item on a drawing. Its **template** fixes the visible milestone set, order, and weights.
- **Milestone value**: stored values may be legacy booleans or 0-100 numerics. They are always read through one canonical projection: booleans map to 0/100, numerics are clamped for display.
- **Discrete milestone**: checkbox semantics; the only writable values are 0 and 100.
- **Partial milestone**: percentage input; any integer 0-100.
- **Metadata inheritance**: Area/System/Test Package show the component's own value when set, otherwise the drawing's. A component value differing from the drawing's by id is an **override** and is flagged.

## Invariants

- Writes are never silently clamped: out-of-range values are rejected with ` + "`INVALID_VALUE`" + `.
- Any decrease of a canonical value requires a rollback confirmation. No exceptions, including offline-queued writes.
- Every component write carries an optimistic revision; concurrent modification surfaces as ` + "`CONFLICT`" + `. Re-read and retry.
- A component's overall percent is the weight-average of its milestone values; zero total weight yields zero.
`,
	},
	{
		URI:         "pipetally://docs/workflows/updating-milestones",
		Name:        "docs_workflow_updating_milestones",
		Title:       "Workflow: updating milestones",
		Description: "Playbook for the normal write loop and its error codes.",
		Content: `# Workflow: updating milestones

## Normal loop

1) ` + "`get_component({id})`" + ` to see its resolved controls: each milestone's kind (discrete, partial, partial_aggregate) and current canonical percent.

2) ` + "`update_milestone({component_id, milestone, percent})`" + `:
- discrete: percent must be exactly 0 or 100.
- partial: any integer 0-100.
- partial_aggregate: the percent is projected onto the run's total linear feet before storage.

3) Read the result:
- ` + "`changed: false`" + ` means the value was already there; nothing was written.
- ` + "`queued: true`" + ` means the network was down and the write is parked; flush later.
- ` + "`rolled_back: true`" + ` means a confirmed decrease was committed.

## Error codes

- ` + "`UNKNOWN_MILESTONE`" + `: the name is not in the component's template.
- ` + "`INVALID_VALUE`" + `: out of range, or a non-endpoint value on a discrete milestone.
- ` + "`UPDATE_FORBIDDEN`" + `: the component is read-only for this account.
- ` + "`ROLLBACK_CONFIRMATION_REQUIRED`" + `: see the rollbacks doc.
- ` + "`CONFLICT`" + `: another writer committed first; re-read the component and retry.
`,
	},
	{
		URI:         "pipetally://docs/workflows/rollbacks",
		Name:        "docs_workflow_rollbacks",
		Title:       "Workflow: rollback confirmations",
		Description: "How the confirmation gate for decreasing milestone values works.",
		Content: `# Workflow: rollback confirmations

## What the gate means

Milestone values represent physical work. A decrease says previously reported work is being unreported, which is unusual enough to demand a reason.

Any ` + "`update_milestone`" + ` that lowers the canonical value (including unchecking a discrete milestone) returns ` + "`ROLLBACK_CONFIRMATION_REQUIRED`" + ` until a confirmation is attached.

## Confirming

Retry the same call with a ` + "`confirmation`" + `:

- ` + "`reason`" + `: one of ` + "`data_entry_error`" + `, ` + "`failed_inspection`" + `, ` + "`rework_required`" + `, ` + "`scope_change`" + `, ` + "`other`" + `.
- ` + "`details`" + `: free text. Required (at least 10 characters) when the reason is ` + "`other`" + `; optional otherwise.

Confirmed rollbacks are recorded in the activity log with the reason attached, and the result carries ` + "`rolled_back: true`" + `.

## What never needs confirmation

Equal or increasing values always proceed. Writing the current value again is a silent no-op.
`,
	},
	{
		URI:         "pipetally://docs/aggregate-pipe",
		Name:        "docs_aggregate_pipe",
		Title:       "Aggregate threaded pipe",
		Description: "How linear-footage aggregates store values and project percentages.",
		Content: `# Aggregate threaded pipe

## What an aggregate is

Threaded-pipe runs too numerous to track individually are rolled into one aggregate component per size, identified by a ` + "`pipe_id`" + ` ending in ` + "`_AGG`" + `. Its identity renders as size plus total footage (e.g. ` + "`2\" • 100 LF`" + `).

## Storage vs display

Partial milestones on an aggregate store **absolute linear feet** under a ` + "`<milestone>_LF`" + ` key, never a percentage. The percentage you see (and write) is a projection:

- display: ` + "`round(stored_lf / total_lf * 100)`" + `
- write: ` + "`round(percent / 100 * total_lf)`" + `

Because both directions round, a written percentage can read back a neighboring value on short runs. This is accepted; footage is the source of truth.

## Rollbacks

Rollback gating compares projected percentages, so lowering the footage behaves exactly like lowering a percentage elsewhere.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
