// Package landmark holds the hand landmark types shared by the detector and
// the recognizer core. It has no native dependencies.
package landmark

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist     = 0
	ThumbCMC  = 1
	ThumbMCP  = 2
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexDIP  = 7
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleDIP = 11
	MiddleTip = 12
	RingMCP   = 13
	RingPIP   = 14
	RingDIP   = 15
	RingTip   = 16
	PinkyMCP  = 17
	PinkyPIP  = 18
	PinkyDIP  = 19
	PinkyTip  = 20
	Count     = 21
)

// Point3D represents a 3D point in normalized image/camera space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Frame is the ordered list of landmarks for one hand in one processed frame.
// A well-formed frame carries exactly Count points; the feature extractor
// rejects anything else. Frames are treated as immutable once received.
type Frame []Point3D

// Clone returns an independent copy of the frame.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// Hand is one detected hand: its landmarks plus detector metadata.
type Hand struct {
	Points     [Count]Point3D `json:"points"`
	Handedness string         `json:"handedness"` // "Left" or "Right"
	Score      float64        `json:"score"`
}

// Frame returns the landmarks as a Frame.
func (h *Hand) Frame() Frame {
	if h == nil {
		return nil
	}
	out := make(Frame, Count)
	copy(out, h.Points[:])
	return out
}
