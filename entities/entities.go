package entities

const (
	// OperationCopy is the value staged for a copy transfer in the "operation" field.
	OperationCopy Operation = "copy"
	// OperationCut is the value staged for a cut (move) transfer in the "operation" field.
	OperationCut Operation = "cut"
)

const (
	// FeedbackInfo marks neutral feedback for the user.
	FeedbackInfo FeedbackLevel = "info"
	// FeedbackSuccess marks an operation that fully succeeded.
	FeedbackSuccess FeedbackLevel = "success"
	// FeedbackWarning marks a partially failed or skipped operation.
	FeedbackWarning FeedbackLevel = "warning"
	// FeedbackError marks an operation that failed.
	FeedbackError FeedbackLevel = "error"
)

type (
	// Operation indicates if a staged transfer is either a copy or a cut.
	Operation string

	// FeedbackLevel is the severity of a Feedback message.
	FeedbackLevel string

	// Feedback is a leveled, human-readable message surfaced to the
	// presentation layer. The UI never receives raw errors.
	Feedback struct {
		Level FeedbackLevel `json:"level"`
		Text  string        `json:"text"`
	}

	// ItemInfo represents one entry of a directory listing. It is computed
	// on demand and never persisted.
	ItemInfo struct {
		Name         string `json:"name"`
		Path         string `json:"path"` // encoded path relative to the storage root
		IsDir        bool   `json:"is_dir"`
		Size         string `json:"size"`
		LastModified string `json:"last_modified"`
		CanModify    bool   `json:"can_modify"`
	}

	// User represents an user of the system.
	// They are created by the authentication service.
	User struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Superuser   bool   `json:"superuser"`
	}
)
