package events

import (
	"context"

	"yatraseva/pkg/websocket"
)

// HubPublisher fans events out through the websocket hub: broadcast
// events go to the dashboards room, addressed events to the recipient's
// personal room.
type HubPublisher struct {
	ws *websocket.Handler
}

func NewHubPublisher(ws *websocket.Handler) *HubPublisher {
	return &HubPublisher{ws: ws}
}

func (p *HubPublisher) Publish(_ context.Context, event Event) {
	if event.Recipient != nil {
		p.ws.SendUserNotification(*event.Recipient, string(event.Type), event.Data)
		return
	}
	p.ws.SendDashboardUpdate(string(event.Type), event.Data)
}
