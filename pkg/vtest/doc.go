// Package vtest mounts components on a real session for tests.
//
// A Screen runs the component on a connectionless server.Session: events
// fired through the Screen are queued and handled on the session loop
// like client events, and results dispatched from other goroutines are
// rendered before WaitFor checks its condition.
//
//	func TestLogin(t *testing.T) {
//	    screen := vtest.Mount(t, login.New(stub))
//	    screen.Change(screen.GetByLabelText("Username"), "test")
//	    screen.Click(screen.GetByRole("button", "Login"))
//	    screen.WaitFor(func() error {
//	        if len(screen.QueryAllByTag("p")) > 0 {
//	            return errors.New("error rendered")
//	        }
//	        return nil
//	    })
//	}
//
// Queries follow the accessible surface of the markup: label text,
// roles with accessible names, and text content.
//
// # Render Assertions
//
// For components without interaction, assert on rendered HTML:
//
//	vtest.ExpectContains(t, comp.Render(), "Username")
//	vtest.ExpectNotContains(t, comp.Render(), "<p>")
package vtest
