package transform

import "github.com/jayseik/cinefill/internal/application/port"

// LocateVideoCandidate returns the video with the largest rendered area.
// Ties go to the first element in document order. It reports false only when
// videos is empty.
//
// The heuristic assumes the primary player is the visually largest video on the
// page; pages with several large players may pick the wrong one.
func LocateVideoCandidate(videos []port.VideoElement) (port.VideoElement, bool) {
	best := -1
	bestArea := -1.0
	for i, v := range videos {
		if area := v.Rect.Area(); area > bestArea {
			best = i
			bestArea = area
		}
	}
	if best < 0 {
		return port.VideoElement{}, false
	}
	return videos[best], true
}
