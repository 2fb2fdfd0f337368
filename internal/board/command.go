package board

import (
	"time"

	"github.com/safal938/board28-sub000/internal/camera"
	"github.com/safal938/board28-sub000/internal/geom"
	"github.com/safal938/board28-sub000/internal/surface"
)

// Command names accepted on the board's command channel.
const (
	CmdCenterOnItem           = "centerOnItem"
	CmdCenterOnSubElement     = "centerOnSubElement"
	CmdGetViewportCenterWorld = "getViewportCenterWorld"
	CmdGetViewport            = "getViewport"
	CmdSetViewport            = "setViewport"
	CmdWheel                  = "wheel"
	CmdZoomIn                 = "zoomIn"
	CmdZoomOut                = "zoomOut"
	CmdPanBegin               = "panBegin"
	CmdPanMove                = "panMove"
	CmdPanEnd                 = "panEnd"
	CmdResetView              = "resetView"
	CmdCancel                 = "cancel"
	CmdKey                    = "key"
	CmdSurface                = "surface"
)

// Command is a named request to the board owner. Only the fields the
// named operation reads need to be set.
type Command struct {
	Name string

	ItemID     string
	SubElement string
	FinalZoom  float64
	Duration   time.Duration

	Viewport geom.Viewport
	Point    geom.Point
	DeltaY   float64
	OnItem   bool
	Key      string
	Surface  surface.Report

	reply chan Reply
}

// Reply is the board's answer to a Command.
type Reply struct {
	Viewport  geom.Viewport
	Transform string
	Dragging  bool
	Phase     camera.Phase

	// Center is nil when the container size is unknown.
	Center *geom.CenterWorld
	// Started reports whether a trajectory or drag began; Handled whether
	// a key matched a shortcut.
	Started bool
	Handled bool

	Err error
}
