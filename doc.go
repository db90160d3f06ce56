// Package coverflow is the interaction engine behind a cover-flow carousel.
//
// One card is active and its neighbours recede to either side. Users change the
// active card with buttons, dots, arrow keys, touch swipes, pointer drags or a
// horizontal wheel. The engine is headless: it keeps the active index, turns a
// drag into per-card position, scale and opacity, decides whether a released
// drag commits, and hands everything to a Renderer supplied by the host.
//
// The pieces can be used on their own:
//
//   - Carousel owns the active index and classifies cards as Active, Prev,
//     Next or Hidden.
//   - Tracker turns press, move and release into an offset and a Decision.
//   - Resolve maps a classification and an offset to a RenderDescriptor.
//   - Fit binary searches the largest font size that keeps text inside a box.
//
// Engine wires them together:
//
//	engine := coverflow.NewEngine(len(cards), renderer,
//		coverflow.WithLayout(coverflow.Layout{
//			TrackWidth:        640,
//			BaseOffsetPercent: coverflow.BaseOffsetFor(1280, coverflow.DefaultBreakpoints()),
//		}))
//
//	engine.GestureStart(100, coverflow.Mouse)
//	engine.GestureMove(0)  // every card re-rendered with a -100 offset
//	engine.GestureEnd()    // past the 80 unit threshold: Advance
//
// Wheel releases and refits wait in a queue by default and run on the caller's
// goroutine, before the next input or when the host calls RunTimers:
//
//	engine.Wheel(40, 0)
//	...
//	engine.RunTimers() // 100ms later the swipe ends and commits
//
// Two hosts ship with the module: a terminal carousel in internal/tui and a
// PNG frame renderer in package stage.
package coverflow
