package models

type MessagesByType struct {
	Email  int `json:"email"`
	SMS    int `json:"sms"`
	Social int `json:"social"`
}

// Stats is the backend's overview of scanning activity.
type Stats struct {
	TotalUsers     int            `json:"totalUsers"`
	TotalMessages  int            `json:"totalMessages"`
	SpamCount      int            `json:"spamCount"`
	HamCount       int            `json:"hamCount"`
	MessagesByType MessagesByType `json:"messagesByType"`
	RecentActivity []Message      `json:"recentActivity"`
}

// SpamRate is the share of scanned messages classified as spam, in percent.
func (s Stats) SpamRate() int {
	if s.TotalMessages == 0 {
		return 0
	}
	return s.SpamCount * 100 / s.TotalMessages
}
