/*
Package seleniumwrapper makes github.com/tebeka/selenium easier to drive from
tests.

A Driver wraps a selenium.WebDriver and an Element wraps a
selenium.WebElement. Both forward every method of the wrapped value, so they
can be used wherever the selenium interfaces are expected, and add:

  - waiting lookups (WaitFor, WaitForAll) that poll until an element shows up
    or a timeout elapses,
  - short-hand aliases such as CSS, XPath, ByID, ByLinkText, Href, Img, ByText
    and Button,
  - a Click that waits for the element to stop moving and become visible,
  - Create and Connect, which start a session from a browser name.

Example usage:

	package main

	import (
		"fmt"
		"time"

		"github.com/wanmail/seleniumwrapper"
	)

	func main() {
		// Errors are ignored for brevity.
		wd, _ := seleniumwrapper.Create("firefox", seleniumwrapper.FrameBuffer())
		defer wd.Quit()

		wd.Get("http://play.golang.org/?simple=1")

		code, _ := wd.CSS("#code")
		code.Clear()
		code.SendKeys(`package main

	func main() { println("Hello WebDriver!") }`)

		run, _ := wd.ByID("run")
		run.Click()

		out, _ := wd.ByText("Program exited.", seleniumwrapper.Partial(), seleniumwrapper.Within(10*time.Second))
		text, _ := out.Text()
		fmt.Printf("Got: %s\n", text)
	}

Create looks for the WebDriver binaries under vendor/ by default; the
fetchdrivers command downloads them there.
*/
package seleniumwrapper
