package models

// Platform identifies the social platform a workout video came from.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformUnknown   Platform = "unknown"
)

// JobState is the coarse lifecycle of a video conversion job.
type JobState string

const (
	JobIdle       JobState = "idle"
	JobProcessing JobState = "processing"
	JobCompleted  JobState = "completed"
	JobError      JobState = "error"
	// JobExisting is a success terminal reached when the backend recognizes
	// the URL as already converted: no new plan is created, an existing
	// workout identifier is returned instead.
	JobExisting JobState = "existing"
)

// Terminal reports whether the job state has no outgoing transitions.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobError || s == JobExisting
}

// Stage is one step of the remote conversion pipeline.
type Stage string

const (
	StageValidating   Stage = "validating"
	StageDownloading  Stage = "downloading"
	StageTranscribing Stage = "transcribing"
	StageExtracting   Stage = "extracting"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

var stageRank = map[Stage]int{
	StageValidating:   0,
	StageDownloading:  1,
	StageTranscribing: 2,
	StageExtracting:   3,
	StageComplete:     4,
}

// Rank returns the forward position of a pipeline stage, or -1 for error and
// unknown stages. Used to reject backward stage updates.
func (s Stage) Rank() int {
	if r, ok := stageRank[s]; ok {
		return r
	}
	return -1
}

// ConversionState is the authoritative state of one conversion attempt.
// Presentation is a UI hint only and carries no correctness weight.
type ConversionState struct {
	JobState     JobState `json:"jobState"`
	Presentation string   `json:"presentation,omitempty"`
	JobID        string   `json:"jobId,omitempty"`
	WorkoutID    string   `json:"workoutId,omitempty"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
	Platform     Platform `json:"platform,omitempty"`
	Stage        Stage    `json:"stage,omitempty"`
	Progress     int      `json:"progress"`
	Message      string   `json:"message,omitempty"`
	Error        string   `json:"error,omitempty"`
}
