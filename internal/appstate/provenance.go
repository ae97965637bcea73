// internal/appstate/provenance.go
package appstate

// Source identifies which backing data source serves a lane.
type Source string

const (
	SourceDemo          Source = "demo"
	SourceRemoteAPI     Source = "remote_api"
	SourceHostedBackend Source = "hosted_backend"
)

// Lane is one of the four independently tracked resource domains.
type Lane string

const (
	LaneJob           Lane = "job"
	LaneChat          Lane = "chat"
	LanePayments      Lane = "payments"
	LaneNotifications Lane = "notifications"
)

// Lanes lists every lane in a stable order.
var Lanes = []Lane{LaneJob, LaneChat, LanePayments, LaneNotifications}

// Provenance is the per-lane source decision, resolved once at startup so
// no two call sites can disagree about which source is active.
type Provenance struct {
	Job           Source
	Chat          Source
	Payments      Source
	Notifications Source
}

// ResolveProvenance decides each lane's source from what is configured.
// Chat and job data prefer the hosted backend for its realtime channel
// and timeline column; payments and notifications only exist on the REST
// API. Anything unconfigured falls back to demo fixtures.
func ResolveProvenance(apiConfigured, hostedConfigured bool) Provenance {
	p := Provenance{
		Job:           SourceDemo,
		Chat:          SourceDemo,
		Payments:      SourceDemo,
		Notifications: SourceDemo,
	}

	if apiConfigured {
		p.Job = SourceRemoteAPI
		p.Chat = SourceRemoteAPI
		p.Payments = SourceRemoteAPI
		p.Notifications = SourceRemoteAPI
	}
	if hostedConfigured {
		p.Job = SourceHostedBackend
		p.Chat = SourceHostedBackend
	}

	return p
}

// For returns the source serving the given lane.
func (p Provenance) For(lane Lane) Source {
	switch lane {
	case LaneJob:
		return p.Job
	case LaneChat:
		return p.Chat
	case LanePayments:
		return p.Payments
	case LaneNotifications:
		return p.Notifications
	default:
		return SourceDemo
	}
}

// AllDemo reports whether every lane is served from fixtures.
func (p Provenance) AllDemo() bool {
	for _, lane := range Lanes {
		if p.For(lane) != SourceDemo {
			return false
		}
	}
	return true
}
