package protocol

import (
	"github.com/aukilabs/gecko/geometry"
	"github.com/aukilabs/gecko/scalarfield"
)

const (
	MsgTypePing                 = "ping"
	MsgTypePong                 = "pong"
	MsgTypeErrorResponse        = "error_response"
	MsgTypeSessionStartRequest  = "session_start_request"
	MsgTypeSessionStartResponse = "session_start_response"

	MsgTypeOrbitRotate      = "orbit_rotate"
	MsgTypeOrbitPan         = "orbit_pan"
	MsgTypeOrbitZoom        = "orbit_zoom"
	MsgTypeOrbitReset       = "orbit_reset"
	MsgTypeOrbitViewRequest = "orbit_view_request"
	MsgTypeOrbitView        = "orbit_view"

	MsgTypeProbeRequest  = "probe_request"
	MsgTypeProbeResponse = "probe_response"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SessionStartResponse describes the started session and the field the
// client is looking at.
type SessionStartResponse struct {
	SessionID       uint32           `json:"session_id"`
	GlobalSessionID string           `json:"global_session_id"`
	SessionUUID     string           `json:"session_uuid"`
	Field           scalarfield.Info `json:"field"`
}

// OrbitRotate turns the camera. Angles are in radians.
type OrbitRotate struct {
	DPhi   float64 `json:"dphi"`
	DTheta float64 `json:"dtheta"`
}

// OrbitPan moves the look-at point in view space.
type OrbitPan struct {
	Right float32 `json:"right"`
	Up    float32 `json:"up"`
}

type OrbitZoom struct {
	DRadius float64 `json:"dradius"`
}

// OrbitView is the camera state sent after every camera change. EyeModel is
// the eye position in the unit cube space of the field model matrix.
type OrbitView struct {
	Eye      geometry.Vec3[float32] `json:"eye"`
	At       geometry.Vec3[float32] `json:"at"`
	EyeModel geometry.Vec3[float32] `json:"eye_model"`
	View     geometry.Mat4          `json:"view"`
	Model    geometry.Mat4          `json:"model"`
	Phi      float64                `json:"phi"`
	Theta    float64                `json:"theta"`
	Radius   float64                `json:"radius"`
}

type ProbeRequest struct {
	I int `json:"i"`
	J int `json:"j"`
	K int `json:"k"`
}

type ProbeResponse struct {
	I        int                    `json:"i"`
	J        int                    `json:"j"`
	K        int                    `json:"k"`
	Value    float32                `json:"value"`
	Position geometry.Vec3[float32] `json:"position"`
}
