package domain

type EventType string

const (
	EventScheduleSubmitted   EventType = "schedule_submitted"
	EventExchangeProposed    EventType = "exchange_proposed"
	EventExchangeResolved    EventType = "exchange_resolved"
	EventSchedulePublished   EventType = "schedule_published"
	EventAnnouncementCreated EventType = "announcement_created"
	EventDeadlineReminder    EventType = "deadline_reminder"
)

// Event carries everything the dispatcher needs to resolve an audience and
// word the notification. Only the fields relevant to Type are filled in.
type Event struct {
	Type       EventType      `json:"type"`
	Actor      string         `json:"actor,omitempty"`      // email of the acting user
	ActorName  string         `json:"actorName,omitempty"`  // display name of the acting user
	Requester  string         `json:"requester,omitempty"`  // exchange requester email
	Target     string         `json:"target,omitempty"`     // exchange target email
	TargetName string         `json:"targetName,omitempty"` // exchange target display name
	Month      string         `json:"month,omitempty"`
	Date       string         `json:"date,omitempty"`
	Shift      string         `json:"shift,omitempty"`
	Status     ExchangeStatus `json:"status,omitempty"`
	Title      string         `json:"title,omitempty"` // announcement title
	EditCount  int32          `json:"editCount,omitempty"`
	DaysLeft   int            `json:"daysLeft,omitempty"`
}

type Channel string

const (
	ChannelPush    Channel = "push"
	ChannelChatBot Channel = "chatbot"
	ChannelEmail   Channel = "email"
)

// NotificationPayload is what a delivery channel ultimately shows the user.
type NotificationPayload struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	URL                string `json:"url,omitempty"`
	Tag                string `json:"tag,omitempty"`
	RequireInteraction bool   `json:"requireInteraction,omitempty"`
}

// NotificationMessage is the wire format on the notification queue, one
// message per (recipient, channel).
type NotificationMessage struct {
	Channel Channel             `json:"channel"`
	To      string              `json:"to"` // recipient email
	Payload NotificationPayload `json:"payload"`
}
