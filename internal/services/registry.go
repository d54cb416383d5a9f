package services

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	NotificationService NotificationService
	TaskService         TaskService
	UploadService       UploadService
	AnalyticsService    AnalyticsService
	ProfileService      ProfileService
	ActivityService     ActivityService
}
