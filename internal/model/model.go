package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Run{},
	&Frame{},
	&EclipseEvent{},
	&RunPerformance{},
}

var DatabaseModelsSQLite = []interface{}{
	&Run{},
	&Frame{},
	&EclipseEvent{},
	&RunPerformance{},
}

////////////////////////
// RUN MODELS
////////////////////////

// Run is the main model for one playback session over an orbit log.
type Run struct {
	gorm.Model
	Name             string    `json:"name" gorm:"size:200"`
	OrbitLog         string    `json:"orbitLog" gorm:"size:255"`
	EclipseLog       string    `json:"eclipseLog" gorm:"size:255"`
	StartTime        time.Time `json:"startTime" gorm:"type:timestamptz;index:idx_run_start"`
	ScaleMeters      float64   `json:"scaleMeters" gorm:"default:1.0"`
	MoonExaggeration float64   `json:"moonExaggeration" gorm:"default:1.0"`
	ShadowScale      float64   `json:"shadowScale" gorm:"default:1.0"`
	DeriveMissing    bool      `json:"deriveMissing" gorm:"default:false"`
	FrameCount       uint      `json:"frameCount"`
	Tag              string    `json:"tag" gorm:"size:127"`

	Frames        []Frame
	EclipseEvents []EclipseEvent
}

func (*Run) TableName() string {
	return "runs"
}

// Coordinate is an Earth-centered position in meters, embedded per body.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FaceCounts is the per-class face tally for one shaded frame
type FaceCounts struct {
	Lit      uint16 `json:"lit"`
	Penumbra uint16 `json:"penumbra"`
	Umbra    uint16 `json:"umbra"`
}

// Frame stores one resolved simulation step
// References Run by RunID
type Frame struct {
	ID    uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time  time.Time `json:"time" gorm:"type:timestamptz;"` // Wall time when the frame was played
	RunID uint      `json:"runId" gorm:"index:idx_frame_run_id"`
	Run   Run       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Step  int       `json:"step" gorm:"index:idx_frame_step"` // Simulation step from the orbit log

	Moon         Coordinate `json:"moon" gorm:"embedded;embeddedPrefix:moon_"`
	Sun          Coordinate `json:"sun" gorm:"embedded;embeddedPrefix:sun_"`
	ShadowCenter Coordinate `json:"shadowCenter" gorm:"embedded;embeddedPrefix:shadow_"`

	UmbraRadius    float64 `json:"umbraRadius"`    // Negative when the umbra ends before Earth (antumbra)
	PenumbraRadius float64 `json:"penumbraRadius"`
	EclipseType    uint8   `json:"eclipseType" gorm:"index:idx_frame_eclipse_type"` // 0=none 1=total 2=annular 3=partial
	Label          string  `json:"label" gorm:"size:64"`
	Derived        bool    `json:"derived" gorm:"default:false"` // Shadow params computed analytically, not read from the log

	GroundPoint geom.Point `json:"groundPoint"` // Shadow axis pierce point, Web Mercator (EPSG:3857)
	OnSurface   bool       `json:"onSurface" gorm:"default:false"`

	Faces FaceCounts `json:"faces" gorm:"embedded;embeddedPrefix:faces_"`
}

func (*Frame) TableName() string {
	return "frames"
}

// EclipseEvent is one contiguous span of steps sharing an eclipse type.
// Opened when the classifier changes type, closed on the next change or at
// end of playback.
type EclipseEvent struct {
	ID    uint `json:"id" gorm:"primarykey;autoIncrement;"`
	RunID uint `json:"runId" gorm:"index:idx_eclipseevent_run_id"`
	Run   Run  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`

	StartStep   int    `json:"startStep" gorm:"index:idx_eclipseevent_start_step"`
	EndStep     int    `json:"endStep"`
	EclipseType uint8  `json:"eclipseType"`
	Label       string `json:"label" gorm:"size:64"`

	PeakStep           int     `json:"peakStep"` // Step with the largest umbra radius in the span
	PeakUmbraRadius    float64 `json:"peakUmbraRadius"`
	PeakPenumbraRadius float64 `json:"peakPenumbraRadius"`

	UmbraRing    datatypes.JSON  `json:"umbraRing"`    // Sampled ring at the peak step, JSON array of [x,y,z]
	PenumbraRing datatypes.JSON  `json:"penumbraRing"`
	GroundTrack  geom.LineString `json:"groundTrack"` // Shadow ground track over the span, Web Mercator
}

func (*EclipseEvent) TableName() string {
	return "eclipse_events"
}

// RunPerformance is the model for playback performance metrics
type RunPerformance struct {
	Time                time.Time `json:"time" gorm:"type:timestamptz;index:idx_time"`
	RunID               uint      `json:"runId" gorm:"index:idx_runperformance_run_id"`
	Run                 Run       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	FramesBuffered      uint16    `json:"framesBuffered"`
	FramesSkipped       uint16    `json:"framesSkipped"`
	LastFrameDurationMs float32   `json:"lastFrameDurationMs"`
}

func (*RunPerformance) TableName() string {
	return "run_performances"
}
