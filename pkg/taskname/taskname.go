package taskname

const (
	// Notification tasks
	NotificationAppend = "notification:append"
)
