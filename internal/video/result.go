package video

// ResultType distinguishes what a generation run actually produced.
type ResultType string

const (
	// TypeVideo means VideoURL points at a playable result.
	TypeVideo ResultType = "video"
	// TypeText means the model answered with prose instead of a video.
	TypeText ResultType = "text"
	// TypePending means an asynchronous task is still running.
	TypePending ResultType = "pending"
)

// Status is the normalized job status. Transitions only move forward:
// a stale update can never drag a job back to an earlier stage.
type Status string

const (
	StatusPending    Status = "pending"
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

var statusRank = map[Status]int{
	StatusPending:    0,
	StatusQueued:     1,
	StatusInProgress: 2,
	StatusProcessing: 3,
	StatusCompleted:  4,
	StatusFailed:     4,
	StatusCancelled:  4,
}

// Terminal reports whether no further updates can follow.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// normalizeStatus maps provider wording onto our status set. Unknown
// in-flight statuses collapse to processing.
func normalizeStatus(s string) Status {
	switch Status(s) {
	case StatusPending, StatusQueued, StatusInProgress, StatusProcessing,
		StatusCompleted, StatusFailed, StatusCancelled:
		return Status(s)
	case "succeeded", "success":
		return StatusCompleted
	case "":
		return StatusPending
	default:
		return StatusProcessing
	}
}

// Result is the observable state of a generation run.
type Result struct {
	Type     ResultType `json:"type"`
	Status   Status     `json:"status"`
	VideoURL string     `json:"video_url,omitempty"`
	Content  string     `json:"content,omitempty"`
	TaskID   string     `json:"task_id,omitempty"`
	Progress int        `json:"progress"`
	Message  string     `json:"message,omitempty"`

	// Prompt is the generated video prompt. It is kept on failure so
	// the caller can retry or hand-tune it.
	Prompt string `json:"prompt,omitempty"`
}

// advance merges a newer snapshot into r, refusing to move backwards.
// Progress is monotonic too: providers occasionally report a dip mid-job.
func (r *Result) advance(next Result) {
	if statusRank[next.Status] < statusRank[r.Status] {
		return
	}
	if next.Progress < r.Progress && !next.Status.Terminal() {
		next.Progress = r.Progress
	}
	if next.Prompt == "" {
		next.Prompt = r.Prompt
	}
	if next.TaskID == "" {
		next.TaskID = r.TaskID
	}
	*r = next
}
