// Package ebitenplatform connects an arbor Window to [Ebitengine].
//
// [Input] polls keyboard, mouse, wheel and touch state once per tick and
// delivers it to the window. [Cursor] shows the window's cursor shape, and
// [Layers] renders layered items into offscreen images.
//
//	in := ebitenplatform.NewInput(window)
//	window.SetCursorSink(ebitenplatform.Cursor{})
//
//	func (g *Game) Update() error {
//		in.Update()
//		g.window.Update()
//		g.window.Sync()
//		return nil
//	}
//
// [Ebitengine]: https://ebitengine.org
package ebitenplatform
