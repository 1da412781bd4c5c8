package domain

// Next-task hints shown in the navigation sidebar.
const (
	NextTaskClientReview   = "Client Review"
	NextTaskDocumentReview = "Document Review"
	NextTaskNone           = "No upcoming tasks"
)

// DashboardStats is the cross-engagement summary shown to a signed-in user.
type DashboardStats struct {
	TodayTasks        int    `json:"todayTasks"`
	NextTask          string `json:"nextTask"`
	ActiveEngagements int    `json:"activeEngagements"`
	PendingRequests   int    `json:"pendingRequests"`
	TotalClients      int    `json:"totalClients"`
}

// DefaultDashboardStats is what a user sees before anything could be computed.
func DefaultDashboardStats() DashboardStats {
	return DashboardStats{NextTask: NextTaskNone}
}
