package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	HealthHandler       *HealthHandler
	NotificationHandler *NotificationHandler
	TaskHandler         *TaskHandler
	UploadHandler       *UploadHandler
	AnalyticsHandler    *AnalyticsHandler
	ProfileHandler      *ProfileHandler
}
