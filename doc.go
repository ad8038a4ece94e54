// Package stave is a paged, interactive music-notation canvas for
// [Ebitengine].
//
// Stave keeps a document of pages, each the root of a tree of editable
// objects (staff lines, clefs, glyphs, text, rectangles), renders it onto a
// retained [Surface], and turns mouse, keyboard and touch input into
// edits: select, move, resize, zoom and scroll.
//
// # Quick start
//
// The simplest way to get started is [Setup], which builds an editor from
// a configuration, and [Editor.Show], which opens the window:
//
//	ed, err := stave.Setup(config.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	page := ed.AddPage()
//	page.NewStaff(nil, stave.Point{X: 72, Y: 144}, 468, 5, 8, 1)
//	if err := ed.Show(stave.ShowOptions{}); err != nil {
//		log.Fatal(err)
//	}
//
// # Nodes and rendering
//
// Every render pass turns the document into [Node] values: immutable
// records of position, scale, rotation and transform origin with a
// non-owning parent reference. A node's absolute placement is resolved by
// walking its parent chain ([Node.Resolve]): positions map through the
// parent's matrix, scales multiply and rotations add.
//
// [Node.Render] creates the node's [Item] on the surface exactly once.
// Parents must be rendered before their children; a child whose parent has
// not been rendered is attached at the top level with a logged warning.
// Edits never patch the surface. The whole document is cleared and
// rendered again ([Document.Render]), so the surface always mirrors the
// document.
//
// # Viewport and input
//
// The [Viewport] maps device pixels to document coordinates, with the zoom
// level bounded to [MinZoomValue, MaxZoomValue]. [Input] normalizes raw
// events into [PointerEvent] and [KeyEvent] values in document space and
// hands each to a single registered handler. Native interaction
// ([Selection] and [Resizer]) runs afterwards only while auto interaction
// is enabled.
//
// Scrolls to new pages are animated with [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package stave
