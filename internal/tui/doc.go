// Package tui provides the Terminal User Interface for kubepane.
//
// The TUI is an adapter around the event bus built on Bubble Tea. It plays
// two roles: it produces Input and Resize messages from the terminal, and it
// is the single consumer of the bus, rendering whatever the dispatcher has
// applied to the dashboard state.
//
// # Architecture
//
// The TUI follows a Model-View-Controller (MVC) pattern:
//
//   - Model (internal/tui/model/): navigation state, key bindings, the
//     commands that pump the bus and the logging channel
//   - View (internal/tui/view/): lipgloss layout of the header, pane tabs,
//     list, detail viewport, activity log and status bar
//   - Controller (internal/tui/controller/): tea.Model implementation, key
//     handling and the mapping from keys to protocol requests
//   - Design (internal/tui/design/): colors and styles
//
// # Message Flow
//
//	terminal ──KeyMsg──▶ controller ──bus.Input──▶ bus
//	workers  ──Response────────────────────────▶ bus
//	bus ──WaitForBus──▶ BusMsg ──▶ dashboard.Dispatcher ──▶ State ──▶ view
//
// Key presses are acted upon only when they come back from the bus, so user
// input and cluster data are consumed in one order. Requests raised by keys
// are published onto the bus as well and reach the worker manager through the
// dispatcher.
//
// # Key Bindings
//
//   - tab / shift+tab: switch pane
//   - ↑/k, ↓/j: move the selection
//   - enter: switch context, focus a namespace, follow a pod's log, open an
//     object
//   - space: toggle a namespace or API resource kind in the observed set
//   - a: observe all namespaces
//   - l / s: follow / stop a container log
//   - v / g: YAML / summary of the selected object
//   - y: copy the detail pane to the clipboard
//   - r: refresh the focused pane
//   - z: debug status bar (bus metrics, discarded responses)
//   - h, ?: help; q, ctrl+c: quit
package tui
