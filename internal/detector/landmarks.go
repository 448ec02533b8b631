// Package detector provides the landmark detection collaborator: the
// Detector interface, the MediaPipe subprocess detector and a mock.
package detector

import "github.com/ayusman/mudra/internal/landmark"

// Hand landmark indices, re-exported from the landmark package.
const (
	Wrist        = landmark.Wrist
	ThumbCMC     = landmark.ThumbCMC
	ThumbMCP     = landmark.ThumbMCP
	ThumbIP      = landmark.ThumbIP
	ThumbTip     = landmark.ThumbTip
	IndexMCP     = landmark.IndexMCP
	IndexPIP     = landmark.IndexPIP
	IndexDIP     = landmark.IndexDIP
	IndexTip     = landmark.IndexTip
	MiddleMCP    = landmark.MiddleMCP
	MiddlePIP    = landmark.MiddlePIP
	MiddleDIP    = landmark.MiddleDIP
	MiddleTip    = landmark.MiddleTip
	RingMCP      = landmark.RingMCP
	RingPIP      = landmark.RingPIP
	RingDIP      = landmark.RingDIP
	RingTip      = landmark.RingTip
	PinkyMCP     = landmark.PinkyMCP
	PinkyPIP     = landmark.PinkyPIP
	PinkyDIP     = landmark.PinkyDIP
	PinkyTip     = landmark.PinkyTip
	NumLandmarks = landmark.Count
)

type (
	// Point3D represents a 3D point in normalized image/camera space.
	Point3D = landmark.Point3D
	// LandmarkFrame is the ordered list of landmarks for one hand in one frame.
	LandmarkFrame = landmark.Frame
	// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
	HandLandmarks = landmark.Hand
)

// Primary picks the hand to track from a detection result: the highest scoring
// one. Only one hand is ever fed to the recognizer.
func Primary(hands []HandLandmarks) (*HandLandmarks, bool) {
	if len(hands) == 0 {
		return nil, false
	}
	best := 0
	for i := 1; i < len(hands); i++ {
		if hands[i].Score > hands[best].Score {
			best = i
		}
	}
	return &hands[best], true
}
