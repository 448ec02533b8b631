// Package features turns a hand landmark frame into the angle feature vector
// the sequence classifier was trained on.
//
// The geometric model is two lookup tables: Bones lists the directed landmark
// pairs that form the hand skeleton, and AnglePairs lists which bones are
// compared. The order of AnglePairs is the order of values in a Vector and is
// part of the contract with the trained model; reordering either table
// invalidates every model and every captured dataset.
package features

import "github.com/ayusman/mudra/internal/landmark"

// Bone is a directed segment from one landmark to another.
type Bone struct {
	Name  string
	Start int
	End   int
}

// Bone indices into Bones.
const (
	BoneKnuckleLine = iota
	BoneThumbProximal
	BoneThumbMiddle
	BoneThumbDistal
	BoneIndexProximal
	BoneIndexMiddle
	BoneIndexDistal
	BoneMiddleProximal
	BoneMiddleMiddle
	BoneMiddleDistal
	BoneRingProximal
	BoneRingMiddle
	BoneRingDistal
	BonePinkyProximal
	BonePinkyMiddle
	BonePinkyDistal
	BonePalmIndexEdge
	BonePalmPinkyEdge
	BoneCount
)

// Bones is the skeleton: index knuckle to pinky knuckle, three segments per
// finger, and the two palm edges from the wrist.
var Bones = [BoneCount]Bone{
	BoneKnuckleLine:    {"knuckle_line", landmark.IndexMCP, landmark.PinkyMCP},
	BoneThumbProximal:  {"thumb_proximal", landmark.ThumbCMC, landmark.ThumbMCP},
	BoneThumbMiddle:    {"thumb_middle", landmark.ThumbMCP, landmark.ThumbIP},
	BoneThumbDistal:    {"thumb_distal", landmark.ThumbIP, landmark.ThumbTip},
	BoneIndexProximal:  {"index_proximal", landmark.IndexMCP, landmark.IndexPIP},
	BoneIndexMiddle:    {"index_middle", landmark.IndexPIP, landmark.IndexDIP},
	BoneIndexDistal:    {"index_distal", landmark.IndexDIP, landmark.IndexTip},
	BoneMiddleProximal: {"middle_proximal", landmark.MiddleMCP, landmark.MiddlePIP},
	BoneMiddleMiddle:   {"middle_middle", landmark.MiddlePIP, landmark.MiddleDIP},
	BoneMiddleDistal:   {"middle_distal", landmark.MiddleDIP, landmark.MiddleTip},
	BoneRingProximal:   {"ring_proximal", landmark.RingMCP, landmark.RingPIP},
	BoneRingMiddle:     {"ring_middle", landmark.RingPIP, landmark.RingDIP},
	BoneRingDistal:     {"ring_distal", landmark.RingDIP, landmark.RingTip},
	BonePinkyProximal:  {"pinky_proximal", landmark.PinkyMCP, landmark.PinkyPIP},
	BonePinkyMiddle:    {"pinky_middle", landmark.PinkyPIP, landmark.PinkyDIP},
	BonePinkyDistal:    {"pinky_distal", landmark.PinkyDIP, landmark.PinkyTip},
	BonePalmIndexEdge:  {"palm_index_edge", landmark.Wrist, landmark.IndexMCP},
	BonePalmPinkyEdge:  {"palm_pinky_edge", landmark.Wrist, landmark.PinkyMCP},
}

// AnglePair names the two bones whose angle forms one feature.
type AnglePair struct {
	A int
	B int
}

// Count is the number of angle features per frame.
const Count = 24

// AnglePairs defines the feature order. Entries 0-14 are the joint angles
// along each finger, 15-19 relate each fingertip segment to the knuckle line,
// and 20-23 relate the distal segments of the four fingers to the thumb.
var AnglePairs = [Count]AnglePair{
	{BoneKnuckleLine, BoneThumbProximal},
	{BoneThumbProximal, BoneThumbMiddle},
	{BoneThumbMiddle, BoneThumbDistal},
	{BoneKnuckleLine, BoneIndexProximal},
	{BoneIndexProximal, BoneIndexMiddle},
	{BoneIndexMiddle, BoneIndexDistal},
	{BoneKnuckleLine, BoneMiddleProximal},
	{BoneMiddleProximal, BoneMiddleMiddle},
	{BoneMiddleMiddle, BoneMiddleDistal},
	{BoneKnuckleLine, BoneRingProximal},
	{BoneRingProximal, BoneRingMiddle},
	{BoneRingMiddle, BoneRingDistal},
	{BoneKnuckleLine, BonePinkyProximal},
	{BonePinkyProximal, BonePinkyMiddle},
	{BonePinkyMiddle, BonePinkyDistal},
	{BoneThumbDistal, BoneKnuckleLine},
	{BoneIndexDistal, BoneKnuckleLine},
	{BoneMiddleDistal, BoneKnuckleLine},
	{BoneRingDistal, BoneKnuckleLine},
	{BonePinkyDistal, BoneKnuckleLine},
	{BoneIndexDistal, BoneThumbMiddle},
	{BoneMiddleDistal, BoneThumbMiddle},
	{BoneRingDistal, BoneThumbMiddle},
	{BonePinkyDistal, BoneThumbMiddle},
}
