// Package pkg provides the libraries behind einkplacer, a layout toolkit for
// e-ink display screens.
//
// # Overview
//
// A layout is a list of text, button and image elements. While editing,
// elements live on a scaled-down canvas and are positioned by their top-left
// corner ("display space"). The device works at full resolution and places
// each element by a semantic anchor point such as its bottom-right corner
// ("actual space"). The pkg directory is organized around that split:
//
//  1. [anchor] - The coordinate transform between the two spaces
//  2. [element] - The element model, defaults and level palette
//  3. [editor] - An observable editor store with a pure reducer
//  4. [layoutio] - The device JSON shape (export and import)
//  5. [storage], [api], [device] - The layout service and display refresh
//  6. [client] - The client the editor uses to fetch and save layouts
//
// # Data Flow
//
//	editor canvas (display space)
//	         ↓
//	    [layoutio.Export] (anchor positions, rounded)
//	         ↓
//	    POST /layout/save-layout → [storage] → POST <display>/refresh
//	         ↓
//	    GET /layout/get-layout → [layoutio.Import] → editor canvas
//
// # Quick Start
//
// Convert a bottom-right anchored button to device coordinates:
//
//	t := anchor.Default()
//	e := element.New(element.KindButton, anchor.BottomRight, 1)
//	p := e.AnchorPosition(t) // {176.19 125}
//
// Save a layout and read it back:
//
//	cl, _ := client.New("http://localhost:5000")
//	resp, err := cl.Save(ctx, elements)
//	...
//	elements, err = cl.Fetch(ctx)
//
// # Supporting Packages
//
//   - [config] - TOML configuration with defaults
//   - [errors] - Coded errors shared by the service and the CLI
//   - [httputil] - Retry with backoff and a file cache
//   - [observability] - Hooks for store, storage and HTTP events
//   - [buildinfo] - Version information set at build time
package pkg
