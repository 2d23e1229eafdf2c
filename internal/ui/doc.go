// Package ui contains the Bubble Tea program for the licensing admin client.
// Model owns the client's screen state machine (logged out, loading, shell)
// and routes every message through a typed handler registry.
//
// Message flow:
//   - Update first offers the message to whatever has keyboard focus: the
//     login form, an add dialog, or the table filter. Otherwise it is routed
//     by type to a focused handler.
//   - Network work runs in tea.Cmd goroutines (validateCmd, loginCmd,
//     fetchPageCmd, createCmd) and comes back as typed messages.
//
// Navigation:
//   - ShowPage updates internal/state.Navigation and resets the content
//     region. Every fetch is tagged with the navigation generation; results
//     for an older generation or another page are dropped.
//   - The header and sidebar are built once per signed-in session, gated by
//     Navigation.LayoutRendered. Later logins, reloads and page changes only
//     redraw the content region.
//   - A 401 from any fetch or create ends the session and returns to the
//     login form with an expiry notice.
//
// Rendering of each page is delegated to the pure functions in
// internal/ui/pages so the state machine can be tested through Harness
// without a terminal.
package ui
