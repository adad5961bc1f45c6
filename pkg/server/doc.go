// Package server hosts components over HTTP and WebSocket.
//
// A Server renders its root component into a page at "/" and opens one
// Session per WebSocket connection. Each session mounts a fresh
// instance of the root component and runs a single event loop:
//
//	client events ─┐
//	               ├─> task queue ─> handler ─> re-render ─> Render frame
//	Dispatch(fn) ──┘
//
// Components never lock their own state. Work started on other
// goroutines returns through Ctx.Dispatch, which is discarded once the
// session has closed.
//
// Sessions without a connection render in memory only; component tests
// use them through package vtest.
package server
