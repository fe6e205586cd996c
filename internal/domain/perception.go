package domain

import "math"

type Position struct {
	X float64
	Y float64
	Z float64
}

func (p Position) DistanceTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Face is a face currently in view. Name is empty when the robot has not
// enrolled the face.
type Face struct {
	ID       int
	Name     string
	Position Position
}

func (f Face) Named() bool {
	return f.Name != ""
}

// ClosestFace picks the face nearest to the robot. Ties keep the first face.
func ClosestFace(robot Position, faces []Face) (Face, bool) {
	if len(faces) == 0 {
		return Face{}, false
	}

	closest := faces[0]
	closestDist := robot.DistanceTo(closest.Position)
	for _, face := range faces[1:] {
		dist := robot.DistanceTo(face.Position)
		if dist < closestDist {
			closest = face
			closestDist = dist
		}
	}

	return closest, true
}

// MarkerPose is a custom marker's pose relative to the robot, in millimetres
// and radians.
type MarkerPose struct {
	X      float64
	Y      float64
	Z      float64
	AngleZ float64
}

// MarkerSpec describes the printed cup marker the robot must look for.
type MarkerSpec struct {
	Type         string
	Marker       string
	SizeMM       float64
	MarkerWidth  float64
	MarkerHeight float64
	Unique       bool
}

var DefaultCupMarker = MarkerSpec{
	Type:         "CustomType00",
	Marker:       "Circles2",
	SizeMM:       20,
	MarkerWidth:  50,
	MarkerHeight: 50,
	Unique:       true,
}
