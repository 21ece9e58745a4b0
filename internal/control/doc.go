// Package control provides player strategies for headless rounds.
//
// A [Strategy] looks at the current frame and decides whether to click and where:
//
//   - [None]: never clicks
//   - [Manual]: replays scripted clicks at offsets from round start
//   - [Random]: clicks a uniform point every interval
//   - [Densest]: clicks the centre of the tightest group of fissile atoms
//
// # Usage
//
//	st := control.NewDensest(1200*time.Millisecond, 120, 800, 600)
//	if p, ok := st.Decide(&frame, elapsed); ok {
//		s.Click(p.X, p.Y, now)
//	}
package control
