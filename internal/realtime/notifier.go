package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eventcrew/eventcrew-api/internal/models"
)

const statusChannel = "jobrequests:status"

// statusEvent is the wire payload pushed to both parties on every status
// change. Phones are deliberately absent: clients refetch through the HTTP
// API, which applies the contact-visibility rule.
type statusEvent struct {
	Type               string    `json:"type"`
	JobRequestID       uuid.UUID `json:"job_request_id"`
	Status             string    `json:"status"`
	OrganizerID        uuid.UUID `json:"organizer_id"`
	WorkerID           uuid.UUID `json:"worker_id"`
	OrganizerName      string    `json:"organizer_name,omitempty"`
	WorkerName         string    `json:"worker_name,omitempty"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
}

// Notifier bridges lifecycle events onto the hub, via Redis pub/sub so
// every API instance delivers to its own connected clients.
type Notifier struct {
	Hub    *Hub
	RDB    *redis.Client
	Logger *zap.Logger
}

func NewNotifier(hub *Hub, rdb *redis.Client, logger *zap.Logger) *Notifier {
	return &Notifier{Hub: hub, RDB: rdb, Logger: logger}
}

// NotifyStatusChange implements jobrequest.Notifier.
func (n *Notifier) NotifyStatusChange(req *models.JobRequest) {
	ev := statusEvent{
		Type:               "job_request_status",
		JobRequestID:       req.ID,
		Status:             string(req.Status),
		OrganizerID:        req.OrganizerID,
		WorkerID:           req.WorkerID,
		CancellationReason: req.CancellationReason,
	}
	if req.Organizer != nil {
		ev.OrganizerName = req.Organizer.FullName
	}
	if req.Worker != nil {
		ev.WorkerName = req.Worker.FullName
	}

	if n.RDB == nil {
		n.Hub.SendToParties(ev.OrganizerID, ev.WorkerID, ev)
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		n.Logger.Error("marshal status event", zap.Error(err))
		return
	}
	if err := n.RDB.Publish(context.Background(), statusChannel, payload).Err(); err != nil {
		n.Logger.Error("publish status event", zap.Error(err))
		// Redis down: still deliver to clients connected to this node.
		n.Hub.SendToParties(ev.OrganizerID, ev.WorkerID, ev)
	}
}

// Listen subscribes to the status channel and fans incoming events out to
// this node's websocket clients. Blocks; run in a goroutine.
func (n *Notifier) Listen(ctx context.Context) {
	sub := n.RDB.Subscribe(ctx, statusChannel)
	defer sub.Close()

	for msg := range sub.Channel() {
		var ev statusEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			n.Logger.Error("decode status event", zap.Error(err))
			continue
		}
		n.Hub.sendRaw(ev.OrganizerID, []byte(msg.Payload))
		n.Hub.sendRaw(ev.WorkerID, []byte(msg.Payload))
	}
}
