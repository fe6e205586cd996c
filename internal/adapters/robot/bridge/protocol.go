package bridge

import "encoding/json"

const (
	methodSayText         = "say_text"
	methodPlayAnimation   = "play_animation"
	methodListAnimations  = "list_animations"
	methodDriveOffCharger = "drive_off_charger"
	methodTurnInPlace     = "turn_in_place"
	methodDriveStraight   = "drive_straight"
	methodSetHeadAngle    = "set_head_angle"
	methodSetHeadMotor    = "set_head_motor"
	methodSetLiftMotor    = "set_lift_motor"
	methodPose            = "pose"
	methodVisibleFaces    = "visible_faces"
	methodDefineMarker    = "define_marker"
	methodVisibleMarkers  = "visible_markers"
	methodButtonPressed   = "button_pressed"
)

type request struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type textParams struct {
	Text string `json:"text"`
}

type animationParams struct {
	Name string `json:"name"`
}

type animationList struct {
	Names []string `json:"names"`
}

type angleParams struct {
	AngleDeg float64 `json:"angle_deg"`
}

type driveParams struct {
	DistanceMM float64 `json:"distance_mm"`
	SpeedMMPS  float64 `json:"speed_mmps"`
}

type motorParams struct {
	Speed float64 `json:"speed"`
}

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type face struct {
	FaceID int    `json:"face_id"`
	Name   string `json:"name"`
	position
}

type faceList struct {
	Faces []face `json:"faces"`
}

type markerDefinition struct {
	CustomType     string  `json:"custom_type"`
	Marker         string  `json:"marker"`
	SizeMM         float64 `json:"size_mm"`
	MarkerWidthMM  float64 `json:"marker_width_mm"`
	MarkerHeightMM float64 `json:"marker_height_mm"`
	IsUnique       bool    `json:"is_unique"`
}

type marker struct {
	position
	AngleZ float64 `json:"angle_z"`
}

type markerList struct {
	Markers []marker `json:"markers"`
}

type buttonState struct {
	Pressed bool `json:"pressed"`
}
