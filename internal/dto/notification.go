package dto

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	RelatedID *string `json:"related_id,omitempty"`
	CreatedAt int64   `json:"creation_time"`
}
